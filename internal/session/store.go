package session

import (
	"errors"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"twitchauth/pkg/logging"
	"twitchauth/pkg/oauth"
)

// ErrNotAuthenticated is returned by Store.Token when no user is signed in.
var ErrNotAuthenticated = errors.New("not authenticated")

// Session is a point-in-time copy of the store.
// User is nil exactly when AccessToken is empty.
type Session struct {
	User            *User
	AccessToken     oauth.RedactedToken
	AuthenticatedAt time.Time
	IsLoggingIn     bool
	IsLoggingOut    bool
}

// IsAuthenticated reports whether the snapshot holds a user and a token.
func (s Session) IsAuthenticated() bool {
	return s.User != nil && !s.AccessToken.IsEmpty()
}

// Store is the single source of truth for "is a user signed in".
// It is safe for concurrent use.
type Store struct {
	mu              sync.RWMutex
	user            *User
	accessToken     oauth.RedactedToken
	authenticatedAt time.Time
	isLoggingIn     bool
	isLoggingOut    bool

	now func() time.Time
}

// NewStore returns an empty, signed-out store.
func NewStore() *Store {
	return &Store{now: time.Now}
}

// Snapshot returns the current session.
func (s *Store) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Session{
		AccessToken:     s.accessToken,
		AuthenticatedAt: s.authenticatedAt,
		IsLoggingIn:     s.isLoggingIn,
		IsLoggingOut:    s.isLoggingOut,
	}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	return snap
}

// SetAuthenticated records user and accessToken together.
func (s *Store) SetAuthenticated(user User, accessToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := user
	s.user = &u
	s.accessToken = oauth.NewRedactedToken(accessToken)
	s.authenticatedAt = s.now()

	logging.Debug("Session", "Authenticated user %s (%s)", user.ID, user.DisplayName)
}

// ClearAuthenticated removes the user and the access token together.
func (s *Store) ClearAuthenticated() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = nil
	s.accessToken = oauth.RedactedToken{}
	s.authenticatedAt = time.Time{}

	logging.Debug("Session", "Cleared authenticated user")
}

// SetLoggingIn sets the sign-in busy flag.
func (s *Store) SetLoggingIn(v bool) {
	s.mu.Lock()
	s.isLoggingIn = v
	s.mu.Unlock()
}

// SetLoggingOut sets the sign-out busy flag.
func (s *Store) SetLoggingOut(v bool) {
	s.mu.Lock()
	s.isLoggingOut = v
	s.mu.Unlock()
}

// IsAuthenticated reports whether a user is currently signed in.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && !s.accessToken.IsEmpty()
}

// Token implements oauth2.TokenSource. It returns ErrNotAuthenticated while
// signed out.
func (s *Store) Token() (*oauth2.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.accessToken.IsEmpty() {
		return nil, ErrNotAuthenticated
	}
	return &oauth2.Token{
		AccessToken: s.accessToken.Value(),
		TokenType:   "Bearer",
	}, nil
}
