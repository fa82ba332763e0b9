package helix

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"twitchauth/internal/session"
	"twitchauth/pkg/logging"
	"twitchauth/pkg/oauth"
)

// DefaultHTTPTimeout is the default timeout for API requests.
const DefaultHTTPTimeout = 30 * time.Second

// ClientIDHeader carries the application's client id on every request.
const ClientIDHeader = "Client-Id"

// ErrNoUsers is returned when GET /users answers with an empty list.
var ErrNoUsers = errors.New("helix: users response contained no users")

// APIError is a non-2xx answer from the API.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("helix: %d %s: %s", e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("helix: %d %s", e.StatusCode, e.Status)
}

// IsUnauthorized reports whether err is a 401 answer, which the API sends
// for expired or revoked tokens.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// Client calls the provider's user API.
//
// The Client-Id header is set on every request. The Authorization header is
// taken from the configured oauth2.TokenSource per request; while the source
// reports session.ErrNotAuthenticated no Authorization header is sent.
type Client struct {
	baseURL    string
	clientID   string
	base       http.RoundTripper
	timeout    time.Duration
	httpClient *http.Client
	source     oauth2.TokenSource
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithTransport sets the underlying round tripper.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.base = rt
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithTokenSource sets the credential provider.
func WithTokenSource(ts oauth2.TokenSource) Option {
	return func(c *Client) {
		c.source = ts
	}
}

// NewClient creates an API client for the given application client id.
func NewClient(clientID string, opts ...Option) *Client {
	c := &Client{
		baseURL:  oauth.DefaultAPIBaseURL,
		clientID: clientID,
		base:     http.DefaultTransport,
		timeout:  DefaultHTTPTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.httpClient = c.newHTTPClient()

	logging.Debug("Helix", "API client created for %s", c.baseURL)
	return c
}

func (c *Client) newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: c.timeout,
		Transport: &headerTransport{
			clientID: c.clientID,
			next: &credentialTransport{
				source: c.source,
				next:   c.base,
			},
		},
	}
}

// ForToken returns a copy of the client that authenticates with accessToken
// instead of the configured token source.
func (c *Client) ForToken(accessToken string) *Client {
	cp := *c
	cp.source = oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	})
	cp.httpClient = cp.newHTTPClient()
	return &cp
}

type usersResponse struct {
	Data []session.User `json:"data"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Users calls GET /users. Without query parameters the API returns the user
// the bearer token belongs to.
func (c *Client) Users(ctx context.Context) ([]session.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/users", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read users response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode, Status: http.StatusText(resp.StatusCode)}
		var errResp errorResponse
		if json.Unmarshal(body, &errResp) == nil {
			apiErr.Message = errResp.Message
		}
		return nil, apiErr
	}

	var users usersResponse
	if err := json.Unmarshal(body, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users response: %w", err)
	}

	return users.Data, nil
}

// CurrentUser returns the first element of GET /users.
func (c *Client) CurrentUser(ctx context.Context) (session.User, error) {
	users, err := c.Users(ctx)
	if err != nil {
		return session.User{}, err
	}
	if len(users) == 0 {
		return session.User{}, ErrNoUsers
	}
	return users[0], nil
}

// CurrentUserWithToken fetches the profile of the user accessToken belongs
// to, without touching the client's own credential provider.
func (c *Client) CurrentUserWithToken(ctx context.Context, accessToken string) (session.User, error) {
	return c.ForToken(accessToken).CurrentUser(ctx)
}
