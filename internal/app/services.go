package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"

	"twitchauth/internal/agent/oauth"
	"twitchauth/internal/auth"
	"twitchauth/internal/cli"
	"twitchauth/internal/config"
	"twitchauth/internal/helix"
	"twitchauth/internal/session"
	"twitchauth/pkg/logging"
)

// waitingMessage is shown next to the spinner while the browser is open.
const waitingMessage = "Waiting for sign in to complete in your browser..."

// Services holds the components shared by every command.
//
// Field descriptions:
//   - Store: the single session record of the process
//   - Helix: user API client authorized by Store
//   - Auth: sign-in and sign-out against Store
//
// Services implements the shell's commands.SessionController.
type Services struct {
	Store *session.Store
	Helix *helix.Client
	Auth  *auth.Authenticator

	mu       sync.Mutex
	readLine func() (string, error)
}

// InitializeServices builds the services for settings.
//
// Initialization Sequence:
//  1. Session store
//  2. User API client using the store as its credential provider
//  3. Interactor selected by the flags: manual paste, printed URL or browser
//  4. Revocation interactor
//  5. Authenticator
func InitializeServices(cfg *Config, settings config.Config) (*Services, error) {
	s := &Services{Store: session.NewStore()}

	stdin := bufio.NewReader(cfg.Stdin)
	s.readLine = func() (string, error) {
		return stdin.ReadString('\n')
	}

	s.Helix = helix.NewClient(settings.ClientID,
		helix.WithBaseURL(settings.Endpoints.API),
		helix.WithTokenSource(s.Store),
	)

	interactor := newInteractor(cfg, settings, s.lineReader)

	authenticator, err := auth.NewAuthenticator(auth.Config{
		Store:        s.Store,
		ClientID:     settings.ClientID,
		Endpoints:    settings.Endpoints,
		Scopes:       settings.Scopes,
		ForceVerify:  settings.ForceVerify,
		RedirectURIs: interactor,
		Interactor:   interactor,
		Revoker:      oauth.NewRevocationInteractor(nil),
		Profiles:     s.Helix,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticator: %w", err)
	}
	s.Auth = authenticator

	logging.Debug("Services", "Initialized with callback port %d, browser %t", settings.CallbackPort, settings.OpenBrowser)
	return s, nil
}

type redirectInteractor interface {
	auth.Interactor
	auth.RedirectURIProvider
}

func newInteractor(cfg *Config, settings config.Config, readLine func() (string, error)) redirectInteractor {
	if cfg.Flags.Manual {
		return oauth.NewManualInteractorWithReader(settings.CallbackPort, readLine, cfg.Stderr)
	}
	return oauth.NewBrowserInteractor(oauth.BrowserInteractorConfig{
		Port:      settings.CallbackPort,
		NoBrowser: !settings.OpenBrowser,
		Out:       cfg.Stderr,
		OnWait:    cli.WaitIndicator(cfg.Stderr, waitingMessage, cfg.Flags.Quiet),
	})
}

// SetLineReader replaces the source of typed input used by the manual
// interactor. The shell installs its own terminal here.
func (s *Services) SetLineReader(readLine func() (string, error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readLine = readLine
}

func (s *Services) lineReader() (string, error) {
	s.mu.Lock()
	readLine := s.readLine
	s.mu.Unlock()
	if readLine == nil {
		return "", io.EOF
	}
	return readLine()
}

// SignIn runs one sign-in attempt.
func (s *Services) SignIn(ctx context.Context) error {
	return s.Auth.SignIn(ctx)
}

// SignOut ends the current session.
func (s *Services) SignOut(ctx context.Context) error {
	return s.Auth.SignOut(ctx)
}

// Session returns a snapshot of the session record.
func (s *Services) Session() session.Session {
	return s.Store.Snapshot()
}

// CurrentUser fetches the signed-in user's profile with the session token.
func (s *Services) CurrentUser(ctx context.Context) (session.User, error) {
	return s.Helix.CurrentUser(ctx)
}
