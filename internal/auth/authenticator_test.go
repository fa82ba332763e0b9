package auth

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"twitchauth/internal/helix"
	"twitchauth/internal/session"
	"twitchauth/pkg/logging"
	"twitchauth/pkg/oauth"
)

const testRedirectURI = "http://localhost:3000/callback"

type staticRedirect struct {
	uri string
	err error
}

func (s staticRedirect) RedirectURI() (string, error) {
	return s.uri, s.err
}

// scriptedInteractor records every URL it is shown and answers with the
// result of respond.
type scriptedInteractor struct {
	mu      sync.Mutex
	urls    []string
	respond func(ctx context.Context, u *url.URL) (oauth.Outcome, error)
}

func (s *scriptedInteractor) Interact(ctx context.Context, rawURL string) (oauth.Outcome, error) {
	s.mu.Lock()
	s.urls = append(s.urls, rawURL)
	s.mu.Unlock()

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, u)
}

func (s *scriptedInteractor) lastURL(t *testing.T) *url.URL {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotEmpty(t, s.urls, "interactor was never called")
	u, err := url.Parse(s.urls[len(s.urls)-1])
	require.NoError(t, err)
	return u
}

func (s *scriptedInteractor) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.urls)
}

// echoState answers like a provider that grants token.
func echoState(token string) func(context.Context, *url.URL) (oauth.Outcome, error) {
	return func(_ context.Context, u *url.URL) (oauth.Outcome, error) {
		return oauth.Success{
			AccessToken: oauth.NewRedactedToken(token),
			State:       u.Query().Get("state"),
			TokenType:   "bearer",
		}, nil
	}
}

func fixed(outcome oauth.Outcome, err error) func(context.Context, *url.URL) (oauth.Outcome, error) {
	return func(context.Context, *url.URL) (oauth.Outcome, error) {
		return outcome, err
	}
}

// helixServer serves GET /helix/users and records the Authorization header
// of every request.
type helixServer struct {
	*httptest.Server
	mu     sync.Mutex
	auths  []string
	status int
	body   string
}

func newHelixServer(t *testing.T, status int, body string) *helixServer {
	t.Helper()
	hs := &helixServer{status: status, body: body}
	hs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hs.mu.Lock()
		hs.auths = append(hs.auths, r.Header.Get("Authorization"))
		hs.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(hs.status)
		_, _ = w.Write([]byte(hs.body))
	}))
	t.Cleanup(hs.Close)
	return hs
}

func (hs *helixServer) lastAuthorization() string {
	hs.mu.Lock()
	defer hs.mu.Unlock()
	if len(hs.auths) == 0 {
		return ""
	}
	return hs.auths[len(hs.auths)-1]
}

const annUsers = `{"data":[{"id":"7","login":"ann","display_name":"Ann","email":"a@x.com","profile_image_url":"http://img"},{"id":"8","display_name":"Bob"}]}`

type fixture struct {
	store      *session.Store
	interactor *scriptedInteractor
	revoker    *scriptedInteractor
	helix      *helixServer
	api        *helix.Client
	auth       *Authenticator
}

func newFixture(t *testing.T, respond func(context.Context, *url.URL) (oauth.Outcome, error)) *fixture {
	t.Helper()

	f := &fixture{
		store:      session.NewStore(),
		interactor: &scriptedInteractor{respond: respond},
		revoker:    &scriptedInteractor{respond: fixed(oauth.Other{Kind: "revoked"}, nil)},
		helix:      newHelixServer(t, http.StatusOK, annUsers),
	}
	f.api = helix.NewClient("client-123",
		helix.WithBaseURL(f.helix.URL+"/helix"),
		helix.WithTokenSource(f.store),
	)

	a, err := NewAuthenticator(Config{
		Store:        f.store,
		ClientID:     "client-123",
		ForceVerify:  true,
		RedirectURIs: staticRedirect{uri: testRedirectURI},
		Interactor:   f.interactor,
		Revoker:      f.revoker,
		Profiles:     f.api,
	})
	require.NoError(t, err)
	f.auth = a
	return f
}

func TestNewAuthenticator_Validation(t *testing.T) {
	valid := Config{
		Store:        session.NewStore(),
		ClientID:     "client-123",
		RedirectURIs: staticRedirect{uri: testRedirectURI},
		Interactor:   &scriptedInteractor{},
		Profiles:     helix.NewClient("client-123"),
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing store", func(c *Config) { c.Store = nil }},
		{"missing client id", func(c *Config) { c.ClientID = "" }},
		{"missing redirect provider", func(c *Config) { c.RedirectURIs = nil }},
		{"missing interactor", func(c *Config) { c.Interactor = nil }},
		{"missing profile client", func(c *Config) { c.Profiles = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			_, err := NewAuthenticator(cfg)
			assert.Error(t, err)
		})
	}

	t.Run("revoker defaults to interactor", func(t *testing.T) {
		a, err := NewAuthenticator(valid)
		require.NoError(t, err)
		assert.Same(t, valid.Interactor, a.revoker)
		assert.Equal(t, oauth.DefaultScopes(), a.scopes)
	})
}

func TestSignIn_AuthorizationURL(t *testing.T) {
	f := newFixture(t, fixed(oauth.Dismissed{}, nil))

	require.NoError(t, f.auth.SignIn(context.Background()))

	u := f.interactor.lastURL(t)
	assert.Equal(t, "https", u.Scheme)
	assert.Equal(t, "id.twitch.tv", u.Host)
	assert.Equal(t, "/oauth2/authorize", u.Path)

	q := u.Query()
	assert.Equal(t, "client-123", q.Get("client_id"))
	assert.Equal(t, testRedirectURI, q.Get("redirect_uri"))
	assert.Equal(t, "token", q.Get("response_type"))
	assert.Equal(t, "openid user:read:email user:read:follows", q.Get("scope"))
	assert.Equal(t, "true", q.Get("force_verify"))
	assert.NotEmpty(t, q.Get("state"))
}

func TestSignIn_FreshStatePerAttempt(t *testing.T) {
	f := newFixture(t, fixed(oauth.Dismissed{}, nil))

	require.NoError(t, f.auth.SignIn(context.Background()))
	first := f.interactor.lastURL(t).Query().Get("state")
	require.NoError(t, f.auth.SignIn(context.Background()))
	second := f.interactor.lastURL(t).Query().Get("state")

	assert.NotEqual(t, first, second)
}

func TestSignIn_Success(t *testing.T) {
	f := newFixture(t, echoState("tok1"))

	require.NoError(t, f.auth.SignIn(context.Background()))

	snap := f.store.Snapshot()
	require.NotNil(t, snap.User)
	assert.Equal(t, session.UserID(7), snap.User.ID)
	assert.Equal(t, "Ann", snap.User.DisplayName)
	assert.Equal(t, "a@x.com", snap.User.Email)
	assert.Equal(t, "tok1", snap.AccessToken.Value())
	assert.False(t, snap.IsLoggingIn)
	assert.False(t, snap.AuthenticatedAt.IsZero())

	// The profile request carried the new token.
	assert.Equal(t, "Bearer tok1", f.helix.lastAuthorization())

	// Later requests through the shared client carry it as well.
	_, err := f.api.Users(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok1", f.helix.lastAuthorization())
}

func TestSignIn_NoOpOutcomes(t *testing.T) {
	tests := []struct {
		name    string
		outcome oauth.Outcome
	}{
		{"denied", oauth.Denied{Description: "The user denied you access"}},
		{"dismissed", oauth.Dismissed{}},
		{"other", oauth.Other{Kind: "locked"}},
		{"nil", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, fixed(tt.outcome, nil))

			err := f.auth.SignIn(context.Background())
			require.NoError(t, err)

			snap := f.store.Snapshot()
			assert.Nil(t, snap.User)
			assert.True(t, snap.AccessToken.IsEmpty())
			assert.False(t, snap.IsLoggingIn)
		})
	}
}

func TestSignIn_NoOpKeepsExistingSession(t *testing.T) {
	f := newFixture(t, fixed(oauth.Denied{}, nil))
	f.store.SetAuthenticated(session.User{ID: 3, DisplayName: "Cy"}, "old")

	require.NoError(t, f.auth.SignIn(context.Background()))

	snap := f.store.Snapshot()
	require.NotNil(t, snap.User)
	assert.Equal(t, session.UserID(3), snap.User.ID)
	assert.Equal(t, "old", snap.AccessToken.Value())
}

func TestSignIn_StateMismatch(t *testing.T) {
	f := newFixture(t, fixed(oauth.Success{
		AccessToken: oauth.NewRedactedToken("tok1"),
		State:       "different",
	}, nil))

	err := f.auth.SignIn(context.Background())
	require.Error(t, err)

	var failed *SignInFailedError
	require.ErrorAs(t, err, &failed)

	var mismatch *StateMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "Invalid state value", mismatch.Error())
	assert.Equal(t, len("different"), mismatch.ReceivedLen)
	assert.True(t, IsStateMismatch(err))
	assert.NotContains(t, err.Error(), "different")

	snap := f.store.Snapshot()
	assert.Nil(t, snap.User)
	assert.True(t, snap.AccessToken.IsEmpty())
	assert.False(t, snap.IsLoggingIn)
	assert.Empty(t, f.helix.auths, "no profile request after a state mismatch")
}

func TestSignIn_EmptyStateIsMismatch(t *testing.T) {
	f := newFixture(t, fixed(oauth.Success{AccessToken: oauth.NewRedactedToken("tok1")}, nil))

	err := f.auth.SignIn(context.Background())
	assert.True(t, IsStateMismatch(err))
	assert.False(t, f.store.IsAuthenticated())
}

// echoProviderError answers like a provider that fails the authorization.
func echoProviderError(code string) func(context.Context, *url.URL) (oauth.Outcome, error) {
	return func(_ context.Context, u *url.URL) (oauth.Outcome, error) {
		return oauth.ProviderError{
			Code:        code,
			Description: "bad scope",
			State:       u.Query().Get("state"),
		}, nil
	}
}

func TestSignIn_ProviderError(t *testing.T) {
	f := newFixture(t, echoProviderError("invalid_scope"))

	err := f.auth.SignIn(context.Background())
	require.Error(t, err)

	var failed *SignInFailedError
	require.ErrorAs(t, err, &failed)

	var providerErr oauth.ProviderError
	require.ErrorAs(t, err, &providerErr)
	assert.Equal(t, "invalid_scope", providerErr.Code)
	assert.False(t, IsStateMismatch(err))

	assert.False(t, f.store.IsAuthenticated())
	assert.False(t, f.store.Snapshot().IsLoggingIn)
}

func TestSignIn_ProviderErrorWithForeignState(t *testing.T) {
	f := newFixture(t, fixed(oauth.ProviderError{Code: "server_error", State: "forged"}, nil))

	err := f.auth.SignIn(context.Background())

	assert.True(t, IsStateMismatch(err))
	var providerErr oauth.ProviderError
	assert.False(t, errors.As(err, &providerErr))
	assert.False(t, f.store.IsAuthenticated())
}

func TestSignIn_MissingAccessToken(t *testing.T) {
	t.Run("foreign state is a mismatch", func(t *testing.T) {
		f := newFixture(t, func(context.Context, *url.URL) (oauth.Outcome, error) {
			return oauth.DecodeOutcome(oauth.TypeSuccess, url.Values{"state": {"forged"}})
		})

		err := f.auth.SignIn(context.Background())

		assert.True(t, IsStateMismatch(err))
		assert.False(t, f.store.IsAuthenticated())
	})

	t.Run("matching state fails without token", func(t *testing.T) {
		f := newFixture(t, func(_ context.Context, u *url.URL) (oauth.Outcome, error) {
			return oauth.DecodeOutcome(oauth.TypeSuccess, url.Values{"state": {u.Query().Get("state")}})
		})

		err := f.auth.SignIn(context.Background())

		var failed *SignInFailedError
		require.ErrorAs(t, err, &failed)
		assert.ErrorIs(t, err, oauth.ErrMissingAccessToken)
		assert.False(t, IsStateMismatch(err))
		assert.Empty(t, f.helix.auths, "no profile request without a token")
		assert.False(t, f.store.IsAuthenticated())
	})
}

func TestSignIn_ReplacingSessionRevokesPreviousToken(t *testing.T) {
	f := newFixture(t, echoState("tok1"))
	f.store.SetAuthenticated(session.User{ID: 3, DisplayName: "Cy"}, "old")

	require.NoError(t, f.auth.SignIn(context.Background()))

	require.Equal(t, 1, f.revoker.calls())
	assert.Equal(t, "old", f.revoker.lastURL(t).Query().Get("token"))
	assert.Equal(t, "tok1", f.store.Snapshot().AccessToken.Value())
}

func TestSignIn_ReplacingSessionIgnoresRevocationFailure(t *testing.T) {
	f := newFixture(t, echoState("tok1"))
	f.revoker.respond = fixed(nil, errors.New("network down"))
	f.store.SetAuthenticated(session.User{ID: 3}, "old")

	require.NoError(t, f.auth.SignIn(context.Background()))
	assert.Equal(t, "tok1", f.store.Snapshot().AccessToken.Value())
}

func TestSignIn_SameTokenIsNotRevoked(t *testing.T) {
	f := newFixture(t, echoState("tok1"))
	f.store.SetAuthenticated(session.User{ID: 7}, "tok1")

	require.NoError(t, f.auth.SignIn(context.Background()))
	assert.Equal(t, 0, f.revoker.calls())
}

func TestSignIn_InteractorError(t *testing.T) {
	boom := errors.New("browser exploded")
	f := newFixture(t, fixed(nil, boom))

	err := f.auth.SignIn(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	var failed *SignInFailedError
	assert.ErrorAs(t, err, &failed)
	assert.False(t, f.store.Snapshot().IsLoggingIn)
}

func TestSignIn_RedirectURIError(t *testing.T) {
	f := newFixture(t, fixed(oauth.Dismissed{}, nil))
	f.auth.redirectURIs = staticRedirect{err: errors.New("no port")}

	err := f.auth.SignIn(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, f.interactor.calls())
	assert.False(t, f.store.Snapshot().IsLoggingIn)
}

func TestSignIn_StateGenerationError(t *testing.T) {
	f := newFixture(t, fixed(oauth.Dismissed{}, nil))
	f.auth.newState = func() (string, error) { return "", errors.New("no entropy") }

	err := f.auth.SignIn(context.Background())
	var failed *SignInFailedError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, 0, f.interactor.calls())
}

func TestSignIn_ProfileFetchFails(t *testing.T) {
	f := newFixture(t, echoState("tok1"))
	f.helix.status = http.StatusUnauthorized
	f.helix.body = `{"error":"Unauthorized","status":401,"message":"Invalid OAuth token"}`

	err := f.auth.SignIn(context.Background())
	require.Error(t, err)

	var apiErr *helix.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

	assert.False(t, f.store.IsAuthenticated())
	assert.False(t, f.store.Snapshot().IsLoggingIn)
}

func TestSignIn_EmptyUserList(t *testing.T) {
	f := newFixture(t, echoState("tok1"))
	f.helix.body = `{"data":[]}`

	err := f.auth.SignIn(context.Background())
	assert.ErrorIs(t, err, helix.ErrNoUsers)
	assert.False(t, f.store.IsAuthenticated())
}

func TestSignIn_IsLoggingInDuringInteraction(t *testing.T) {
	var observed bool
	var f *fixture
	f = newFixture(t, func(_ context.Context, u *url.URL) (oauth.Outcome, error) {
		observed = f.store.Snapshot().IsLoggingIn
		return oauth.Dismissed{}, nil
	})

	require.NoError(t, f.auth.SignIn(context.Background()))
	assert.True(t, observed)
	assert.False(t, f.store.Snapshot().IsLoggingIn)
}

func TestSignIn_SingleFlight(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})

	f := newFixture(t, func(_ context.Context, u *url.URL) (oauth.Outcome, error) {
		close(entered)
		<-release
		return oauth.Dismissed{}, nil
	})

	done := make(chan error, 1)
	go func() {
		done <- f.auth.SignIn(context.Background())
	}()

	select {
	case <-entered:
	case <-time.After(5 * time.Second):
		t.Fatal("first sign in never reached the interactor")
	}

	err := f.auth.SignIn(context.Background())
	assert.ErrorIs(t, err, ErrSignInInProgress)
	assert.True(t, f.store.Snapshot().IsLoggingIn, "rejected call must not reset the flag")

	close(release)
	require.NoError(t, <-done)
	assert.False(t, f.store.Snapshot().IsLoggingIn)
	assert.Equal(t, 1, f.interactor.calls())
}

func TestSignOut_ClearsSession(t *testing.T) {
	f := newFixture(t, echoState("tok1"))
	require.NoError(t, f.auth.SignIn(context.Background()))
	require.True(t, f.store.IsAuthenticated())

	require.NoError(t, f.auth.SignOut(context.Background()))

	u := f.revoker.lastURL(t)
	assert.Equal(t, "id.twitch.tv", u.Host)
	assert.Equal(t, "/oauth2/revoke", u.Path)
	assert.Equal(t, "client-123", u.Query().Get("client_id"))
	assert.Equal(t, "tok1", u.Query().Get("token"))

	snap := f.store.Snapshot()
	assert.Nil(t, snap.User)
	assert.True(t, snap.AccessToken.IsEmpty())
	assert.False(t, snap.IsLoggingOut)

	// No Authorization header once signed out.
	_, err := f.api.Users(context.Background())
	require.NoError(t, err)
	assert.Empty(t, f.helix.lastAuthorization())
}

func TestSignOut_IgnoresRevocationResult(t *testing.T) {
	tests := []struct {
		name    string
		outcome oauth.Outcome
		err     error
	}{
		{"error", nil, errors.New("network down")},
		{"dismissed", oauth.Dismissed{}, nil},
		{"provider error", oauth.ProviderError{Code: "server_error"}, nil},
		{"success", oauth.Success{AccessToken: oauth.NewRedactedToken("x")}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, echoState("tok1"))
			require.NoError(t, f.auth.SignIn(context.Background()))
			f.revoker.respond = fixed(tt.outcome, tt.err)

			assert.NoError(t, f.auth.SignOut(context.Background()))

			snap := f.store.Snapshot()
			assert.Nil(t, snap.User)
			assert.True(t, snap.AccessToken.IsEmpty())
			assert.False(t, snap.IsLoggingOut)
		})
	}
}

// invalidTokenErr is a revocation error for a token the provider no longer
// knows.
type invalidTokenErr struct{}

func (invalidTokenErr) Error() string        { return "token revocation failed: 400 Bad Request: Invalid token" }
func (invalidTokenErr) IsInvalidToken() bool { return true }

func TestSignOut_AlreadyInvalidToken(t *testing.T) {
	var logs bytes.Buffer
	logging.InitForCLI(logging.LevelDebug, &logs)
	t.Cleanup(func() { logging.InitForCLI(logging.LevelInfo, io.Discard) })

	f := newFixture(t, echoState("tok1"))
	require.NoError(t, f.auth.SignIn(context.Background()))
	f.revoker.respond = fixed(nil, fmt.Errorf("wrapped: %w", invalidTokenErr{}))

	require.NoError(t, f.auth.SignOut(context.Background()))

	assert.False(t, f.store.IsAuthenticated())
	assert.Contains(t, logs.String(), "Token was already invalid")
	assert.Contains(t, logs.String(), "outcome=already_invalid")
	assert.NotContains(t, logs.String(), "Token revocation failed")
}

func TestSignOut_WithoutSession(t *testing.T) {
	f := newFixture(t, fixed(oauth.Dismissed{}, nil))

	require.NoError(t, f.auth.SignOut(context.Background()))

	u := f.revoker.lastURL(t)
	assert.Equal(t, "client-123", u.Query().Get("client_id"))
	assert.Contains(t, u.RawQuery, "token=")
	assert.Empty(t, u.Query().Get("token"))

	snap := f.store.Snapshot()
	assert.Nil(t, snap.User)
	assert.False(t, snap.IsLoggingOut)
}

func TestSignOut_IsLoggingOutDuringRevocation(t *testing.T) {
	f := newFixture(t, fixed(oauth.Dismissed{}, nil))

	var observed session.Session
	f.revoker.respond = func(context.Context, *url.URL) (oauth.Outcome, error) {
		observed = f.store.Snapshot()
		return nil, nil
	}
	f.store.SetAuthenticated(session.User{ID: 7}, "tok1")

	require.NoError(t, f.auth.SignOut(context.Background()))
	assert.True(t, observed.IsLoggingOut)
	assert.True(t, observed.IsAuthenticated(), "session is cleared after revocation")
	assert.False(t, f.store.Snapshot().IsLoggingOut)
}

func TestSignOut_RevokerDefaultsToInteractor(t *testing.T) {
	store := session.NewStore()
	interactor := &scriptedInteractor{respond: fixed(oauth.Dismissed{}, nil)}

	a, err := NewAuthenticator(Config{
		Store:        store,
		ClientID:     "client-123",
		RedirectURIs: staticRedirect{uri: testRedirectURI},
		Interactor:   interactor,
		Profiles:     helix.NewClient("client-123"),
	})
	require.NoError(t, err)

	require.NoError(t, a.SignOut(context.Background()))
	assert.Equal(t, "/oauth2/revoke", interactor.lastURL(t).Path)
}

func TestSignOut_Serialized(t *testing.T) {
	f := newFixture(t, fixed(oauth.Dismissed{}, nil))

	var mu sync.Mutex
	active, maxActive := 0, 0
	f.revoker.respond = func(context.Context, *url.URL) (oauth.Outcome, error) {
		mu.Lock()
		active++
		if active > maxActive {
			maxActive = active
		}
		mu.Unlock()

		time.Sleep(10 * time.Millisecond)

		mu.Lock()
		active--
		mu.Unlock()
		return nil, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = f.auth.SignOut(context.Background())
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxActive)
	assert.Equal(t, 4, f.revoker.calls())
}

func TestCustomEndpointsAndScopes(t *testing.T) {
	store := session.NewStore()
	interactor := &scriptedInteractor{respond: fixed(oauth.Dismissed{}, nil)}

	a, err := NewAuthenticator(Config{
		Store:    store,
		ClientID: "client-123",
		Endpoints: oauth.Endpoints{
			Authorization: "https://auth.example.com/authorize",
			Revocation:    "https://auth.example.com/revoke",
		},
		Scopes:       []string{"user:read:email"},
		RedirectURIs: staticRedirect{uri: testRedirectURI},
		Interactor:   interactor,
		Profiles:     helix.NewClient("client-123"),
	})
	require.NoError(t, err)

	require.NoError(t, a.SignIn(context.Background()))
	u := interactor.lastURL(t)
	assert.Equal(t, "auth.example.com", u.Host)
	assert.Equal(t, "user:read:email", u.Query().Get("scope"))
	assert.Equal(t, "false", u.Query().Get("force_verify"))

	require.NoError(t, a.SignOut(context.Background()))
	assert.Equal(t, "/revoke", interactor.lastURL(t).Path)
}
