package helix

import (
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"

	"twitchauth/internal/session"
)

// headerTransport sets the Client-Id default header.
type headerTransport struct {
	clientID string
	next     http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set(ClientIDHeader, t.clientID)
	return t.next.RoundTrip(req)
}

// credentialTransport asks its token source for a bearer token on every
// request. Unlike oauth2.Transport it sends the request unauthenticated when
// nobody is signed in.
type credentialTransport struct {
	source oauth2.TokenSource
	next   http.RoundTripper
}

func (t *credentialTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.source == nil {
		return t.next.RoundTrip(req)
	}

	token, err := t.source.Token()
	if errors.Is(err, session.ErrNotAuthenticated) {
		return t.next.RoundTrip(req)
	}
	if err != nil {
		if req.Body != nil {
			req.Body.Close()
		}
		return nil, fmt.Errorf("failed to obtain credentials: %w", err)
	}

	req = req.Clone(req.Context())
	token.SetAuthHeader(req)
	return t.next.RoundTrip(req)
}
