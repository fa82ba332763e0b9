package oauth

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// DefaultCallbackPort is the default port for the local OAuth callback server.
// The provider only redirects to registered URIs, so the port must match the
// application registration.
const DefaultCallbackPort = 3000

// CallbackTimeout is how long to wait for the OAuth callback.
const CallbackTimeout = 10 * time.Minute

const (
	callbackPath = "/callback"
	completePath = "/callback/complete"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// CallbackResult represents the parameters of an implicit-grant redirect.
type CallbackResult struct {
	// AccessToken is the token issued by the provider.
	AccessToken string

	// State is the state parameter to verify against the original request.
	State string

	Scope     string
	TokenType string

	// Error is the error code if the authorization failed.
	Error string

	// ErrorDescription is a human-readable error description.
	ErrorDescription string
}

func newCallbackResult(params url.Values) *CallbackResult {
	return &CallbackResult{
		AccessToken:      params.Get("access_token"),
		State:            params.Get("state"),
		Scope:            params.Get("scope"),
		TokenType:        params.Get("token_type"),
		Error:            params.Get("error"),
		ErrorDescription: params.Get("error_description"),
	}
}

// IsError returns true if the callback result represents an error.
func (r *CallbackResult) IsError() bool {
	return r.Error != ""
}

// Values returns the result as redirect parameters, the form
// oauth.DecodeOutcome expects.
func (r *CallbackResult) Values() url.Values {
	v := url.Values{}
	set := func(key, value string) {
		if value != "" {
			v.Set(key, value)
		}
	}
	set("access_token", r.AccessToken)
	set("state", r.State)
	set("scope", r.Scope)
	set("token_type", r.TokenType)
	set("error", r.Error)
	set("error_description", r.ErrorDescription)
	return v
}

// CallbackServer is a temporary local HTTP server for receiving OAuth callbacks.
// It starts, waits for a single callback, then shuts down.
//
// The implicit grant returns the token in the URL fragment, which browsers
// never send to a server. GET /callback therefore answers with a relay page
// that re-requests /callback/complete with the fragment as query string.
// Provider errors arrive in the query of /callback and are accepted directly.
type CallbackServer struct {
	port      int
	server    *http.Server
	listener  net.Listener
	resultCh  chan *CallbackResult
	errorCh   chan error
	once      sync.Once
	stopOnce  sync.Once
	serverURL string
}

// NewCallbackServer creates a new callback server on the specified port.
// If port is 0, a random available port will be used.
func NewCallbackServer(port int) *CallbackServer {
	return &CallbackServer{
		port:     port,
		resultCh: make(chan *CallbackResult, 1),
		errorCh:  make(chan error, 1),
	}
}

// Start starts the callback server and begins listening for the OAuth callback.
// The server will automatically stop when the context is cancelled.
// Returns the callback URL to use in the OAuth authorization request.
func (s *CallbackServer) Start(ctx context.Context) (string, error) {
	addr := fmt.Sprintf("127.0.0.1:%d", s.port)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("failed to start callback server on %s: %w", addr, err)
	}

	s.listener = listener
	s.port = listener.Addr().(*net.TCPAddr).Port
	s.serverURL = fmt.Sprintf("http://localhost:%d", s.port)

	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath, s.handleCallback)
	mux.HandleFunc(completePath, s.handleComplete)

	s.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			select {
			case s.errorCh <- err:
			default:
			}
		}
	}()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	slog.Debug("OAuth callback server listening", "address", listener.Addr().String())
	return s.serverURL + callbackPath, nil
}

// WaitForCallback waits for the OAuth callback or timeout.
// Returns the callback result or an error if the callback fails or times out.
func (s *CallbackServer) WaitForCallback(ctx context.Context) (*CallbackResult, error) {
	select {
	case result := <-s.resultCh:
		return result, nil
	case err := <-s.errorCh:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// handleCallback serves the redirect target. Errors are reported in the
// query and are final; anything else gets the fragment relay page.
func (s *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()
	if query.Get("error") != "" || query.Get("access_token") != "" {
		s.complete(w, query)
		return
	}

	setSecurityHeaders(w, "default-src 'none'; script-src 'unsafe-inline'; style-src 'unsafe-inline'")
	render(w, "callback_relay.html", map[string]string{"CompletePath": completePath})
}

// handleComplete receives the fragment parameters forwarded by the relay page.
func (s *CallbackServer) handleComplete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.complete(w, r.URL.Query())
}

// complete accepts the first result only. A request carrying neither a token
// nor an error is not a result and leaves the server waiting.
func (s *CallbackServer) complete(w http.ResponseWriter, params url.Values) {
	if params.Get("access_token") == "" && params.Get("error") == "" {
		http.Error(w, "Missing authorization result", http.StatusBadRequest)
		return
	}

	var handled bool
	s.once.Do(func() {
		handled = true
		s.processCallback(w, params)
	})

	if !handled {
		http.Error(w, "Callback already processed", http.StatusBadRequest)
	}
}

// processCallback renders the result page and hands the result to
// WaitForCallback. This is called exactly once via sync.Once.
func (s *CallbackServer) processCallback(w http.ResponseWriter, params url.Values) {
	setSecurityHeaders(w, "default-src 'none'; style-src 'unsafe-inline'")

	result := newCallbackResult(params)

	if result.IsError() {
		render(w, "callback_error.html", map[string]string{
			"Error":       result.Error,
			"Description": result.ErrorDescription,
		})
	} else {
		render(w, "callback_success.html", nil)
	}

	select {
	case s.resultCh <- result:
	default:
	}

	// Give the browser time to receive the page before shutting down.
	go func() {
		time.Sleep(1 * time.Second)
		s.Stop()
	}()
}

func setSecurityHeaders(w http.ResponseWriter, csp string) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("Content-Security-Policy", csp)
	w.Header().Set("Referrer-Policy", "no-referrer")
	w.Header().Set("Cache-Control", "no-store")
}

func render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplates.ExecuteTemplate(w, name, data); err != nil {
		slog.Warn("failed to render callback page", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Stop gracefully shuts down the callback server. It is safe to call more
// than once.
func (s *CallbackServer) Stop() {
	s.stopOnce.Do(func() {
		if s.server != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = s.server.Shutdown(ctx)
		}
		if s.listener != nil {
			_ = s.listener.Close()
		}
	})
}
