package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"twitchauth/internal/session"
	"twitchauth/pkg/logging"
	"twitchauth/pkg/oauth"
)

const subsystem = "Auth"

// RedirectURIProvider yields the redirect URI sent with the authorization
// request. It must match a URI registered for the client id.
type RedirectURIProvider interface {
	RedirectURI() (string, error)
}

// Interactor presents url to the user and reports how the interaction ended.
// A returned error means the interaction itself failed.
type Interactor interface {
	Interact(ctx context.Context, url string) (oauth.Outcome, error)
}

// InteractorFunc adapts a function to the Interactor interface.
type InteractorFunc func(ctx context.Context, url string) (oauth.Outcome, error)

// Interact calls f(ctx, url).
func (f InteractorFunc) Interact(ctx context.Context, url string) (oauth.Outcome, error) {
	return f(ctx, url)
}

// ProfileClient fetches the profile of the user an access token belongs to.
type ProfileClient interface {
	CurrentUserWithToken(ctx context.Context, accessToken string) (session.User, error)
}

// Config holds the collaborators and settings of an Authenticator.
type Config struct {
	Store    *session.Store
	ClientID string

	// Endpoints default to the provider's endpoints when left empty.
	Endpoints oauth.Endpoints

	// Scopes default to oauth.DefaultScopes when nil.
	Scopes      []string
	ForceVerify bool

	RedirectURIs RedirectURIProvider
	Interactor   Interactor

	// Revoker presents the revocation URL. Falls back to Interactor.
	Revoker Interactor

	Profiles ProfileClient
}

// Authenticator runs sign-in and sign-out against a session.Store.
type Authenticator struct {
	store        *session.Store
	clientID     string
	endpoints    oauth.Endpoints
	scopes       []string
	forceVerify  bool
	redirectURIs RedirectURIProvider
	interactor   Interactor
	revoker      Interactor
	profiles     ProfileClient

	signIn  *semaphore.Weighted
	signOut sync.Mutex

	newState func() (string, error)
	now      func() time.Time
}

// NewAuthenticator validates cfg and returns an Authenticator.
func NewAuthenticator(cfg Config) (*Authenticator, error) {
	if cfg.Store == nil {
		return nil, errors.New("auth: session store is required")
	}
	if cfg.ClientID == "" {
		return nil, oauth.ErrMissingClientID
	}
	if cfg.RedirectURIs == nil {
		return nil, errors.New("auth: redirect URI provider is required")
	}
	if cfg.Interactor == nil {
		return nil, errors.New("auth: interactor is required")
	}
	if cfg.Profiles == nil {
		return nil, errors.New("auth: profile client is required")
	}

	scopes := cfg.Scopes
	if scopes == nil {
		scopes = oauth.DefaultScopes()
	}
	revoker := cfg.Revoker
	if revoker == nil {
		revoker = cfg.Interactor
	}

	return &Authenticator{
		store:        cfg.Store,
		clientID:     cfg.ClientID,
		endpoints:    cfg.Endpoints.WithDefaults(),
		scopes:       append([]string(nil), scopes...),
		forceVerify:  cfg.ForceVerify,
		redirectURIs: cfg.RedirectURIs,
		interactor:   cfg.Interactor,
		revoker:      revoker,
		profiles:     cfg.Profiles,
		signIn:       semaphore.NewWeighted(1),
		newState:     oauth.GenerateState,
		now:          time.Now,
	}, nil
}

// Store returns the session store the Authenticator writes to.
func (a *Authenticator) Store() *session.Store {
	return a.store
}

// SignIn runs one interactive sign-in attempt.
//
// It returns nil when the user signed in, dismissed the interaction or
// declined consent; only the first changes the store. Provider errors and
// state mismatches are returned as *SignInFailedError. The state of a
// token or provider error redirect is checked before anything else. A
// session replaced by a new sign-in has its token revoked first. A
// concurrent call returns ErrSignInInProgress without touching the store.
func (a *Authenticator) SignIn(ctx context.Context) error {
	if !a.signIn.TryAcquire(1) {
		logging.Debug(subsystem, "Sign in rejected, another attempt is running")
		return ErrSignInInProgress
	}
	defer a.signIn.Release(1)

	attemptID := uuid.NewString()
	started := a.now()

	a.store.SetLoggingIn(true)
	defer a.store.SetLoggingIn(false)

	user, result, err := a.signInAttempt(ctx, attemptID)

	event := logging.AuditEvent{
		Action:    "sign_in",
		Outcome:   result,
		AttemptID: attemptID,
		Duration:  a.now().Sub(started),
	}
	if user != nil {
		event.UserID = user.ID.String()
	}
	if err != nil {
		event.Reason = err.Error()
		logging.Audit(event)
		return &SignInFailedError{Cause: err}
	}
	logging.Audit(event)
	return nil
}

// signInAttempt returns the signed-in user (nil when the store was left
// alone), a short result label for the audit log and the failure cause.
func (a *Authenticator) signInAttempt(ctx context.Context, attemptID string) (*session.User, string, error) {
	state, err := a.newState()
	if err != nil {
		return nil, "error", fmt.Errorf("failed to generate state: %w", err)
	}

	redirectURI, err := a.redirectURIs.RedirectURI()
	if err != nil {
		return nil, "error", fmt.Errorf("failed to determine redirect URI: %w", err)
	}

	authURL, err := oauth.AuthorizationRequest{
		Endpoint:    a.endpoints.Authorization,
		ClientID:    a.clientID,
		RedirectURI: redirectURI,
		Scopes:      a.scopes,
		ForceVerify: a.forceVerify,
		State:       state,
	}.URL()
	if err != nil {
		return nil, "error", err
	}

	logging.Debug(subsystem, "Starting sign in attempt %s (redirect %s)", attemptID, redirectURI)

	outcome, err := a.interactor.Interact(ctx, authURL)
	if err != nil {
		return nil, "error", fmt.Errorf("authorization interaction failed: %w", err)
	}

	switch o := outcome.(type) {
	case oauth.Success:
		if err := checkState(state, o.State); err != nil {
			return nil, "state_mismatch", err
		}
		if o.AccessToken.IsEmpty() {
			return nil, "error", oauth.ErrMissingAccessToken
		}
		user, err := a.profiles.CurrentUserWithToken(ctx, o.AccessToken.Value())
		if err != nil {
			return nil, "error", fmt.Errorf("failed to fetch user profile: %w", err)
		}
		a.revokeReplaced(ctx, attemptID, o.AccessToken.Value())
		a.store.SetAuthenticated(user, o.AccessToken.Value())
		logging.Info(subsystem, "Signed in as %s", user.Login)
		return &user, "success", nil

	case oauth.ProviderError:
		if err := checkState(state, o.State); err != nil {
			return nil, "state_mismatch", err
		}
		return nil, "provider_error", o

	case oauth.Denied:
		logging.Info(subsystem, "Sign in declined by user")
		return nil, "denied", nil

	case oauth.Dismissed:
		logging.Debug(subsystem, "Sign in dismissed")
		return nil, "dismissed", nil

	case oauth.Other:
		logging.Debug(subsystem, "Sign in ended with unhandled outcome %q", o.Kind)
		return nil, "ignored", nil

	case nil:
		return nil, "dismissed", nil

	default:
		logging.Debug(subsystem, "Sign in ended with unhandled outcome %T", o)
		return nil, "ignored", nil
	}
}

// SignOut revokes the current token and clears the session. The revocation
// outcome, including an error, is only logged. Overlapping calls run one
// after another. SignOut always returns nil.
func (a *Authenticator) SignOut(ctx context.Context) error {
	a.signOut.Lock()
	defer a.signOut.Unlock()

	attemptID := uuid.NewString()
	started := a.now()

	current := a.store.Snapshot()

	a.store.SetLoggingOut(true)
	defer a.store.SetLoggingOut(false)
	defer a.store.ClearAuthenticated()

	event := logging.AuditEvent{
		Action:    "sign_out",
		AttemptID: attemptID,
	}
	if current.User != nil {
		event.UserID = current.User.ID.String()
	}

	event.Outcome, event.Reason = a.revoke(ctx, current.AccessToken.Value())
	event.Duration = a.now().Sub(started)
	logging.Audit(event)
	return nil
}

// checkState compares the state of a redirect with the one sent.
func checkState(sent, received string) error {
	if !oauth.StatesEqual(sent, received) {
		return &StateMismatchError{
			ExpectedLen: len(sent),
			ReceivedLen: len(received),
		}
	}
	return nil
}

// revokeReplaced revokes the token of the current session before a new
// sign-in replaces it. Failures are only logged.
func (a *Authenticator) revokeReplaced(ctx context.Context, attemptID, newToken string) {
	previous := a.store.Snapshot()
	if previous.AccessToken.IsEmpty() || previous.AccessToken.Value() == newToken {
		return
	}

	outcome, reason := a.revoke(ctx, previous.AccessToken.Value())
	event := logging.AuditEvent{
		Action:    "revoke_replaced",
		Outcome:   outcome,
		AttemptID: attemptID,
		Reason:    reason,
	}
	if previous.User != nil {
		event.UserID = previous.User.ID.String()
	}
	logging.Audit(event)
}

// invalidTokenError is implemented by revocation errors that can tell a
// token the provider no longer knows from other failures.
type invalidTokenError interface {
	error
	IsInvalidToken() bool
}

// revoke presents the revocation URL for token and returns an audit outcome
// and reason. It never fails.
func (a *Authenticator) revoke(ctx context.Context, token string) (outcome, reason string) {
	revokeURL, err := oauth.RevocationRequest{
		Endpoint: a.endpoints.Revocation,
		ClientID: a.clientID,
		Token:    oauth.NewRedactedToken(token),
	}.URL()
	if err != nil {
		logging.Warn(subsystem, "Skipping token revocation: %v", err)
		return "skipped", err.Error()
	}

	result, err := a.revoker.Interact(ctx, revokeURL)
	if err != nil {
		var invalid invalidTokenError
		if errors.As(err, &invalid) && invalid.IsInvalidToken() {
			logging.Debug(subsystem, "Token was already invalid at the provider")
			return "already_invalid", ""
		}
		logging.Warn(subsystem, "Token revocation failed: %v", err)
		return "revocation_failed", err.Error()
	}
	if other, ok := result.(oauth.Other); ok && other.Kind != "" {
		return other.Kind, ""
	}
	if result != nil {
		logging.Debug(subsystem, "Token revocation finished with %q", result.Type())
	}
	return "revoked", ""
}
