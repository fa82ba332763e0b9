package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgoauth "twitchauth/pkg/oauth"
)

// Outcome kinds reported by RevocationInteractor.
const (
	OutcomeRevoked = "revoked"
	OutcomeSkipped = "skipped"
)

// DefaultRevocationTimeout bounds a revocation request.
const DefaultRevocationTimeout = 10 * time.Second

// RevocationInteractor presents a revocation URL to the provider without
// user involvement. The provider only accepts POST, so the URL's query is
// sent as a form body.
type RevocationInteractor struct {
	httpClient *http.Client
}

// NewRevocationInteractor creates a RevocationInteractor. A nil client
// selects an *http.Client with DefaultRevocationTimeout.
func NewRevocationInteractor(httpClient *http.Client) *RevocationInteractor {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultRevocationTimeout}
	}
	return &RevocationInteractor{httpClient: httpClient}
}

// Interact revokes the token named in revokeURL. An empty token is not sent
// and reports OutcomeSkipped. A non-200 answer is a *RevocationError.
func (r *RevocationInteractor) Interact(ctx context.Context, revokeURL string) (pkgoauth.Outcome, error) {
	u, err := url.Parse(revokeURL)
	if err != nil {
		return nil, fmt.Errorf("invalid revocation URL: %w", err)
	}

	form := u.Query()
	if form.Get("token") == "" {
		slog.Debug("No token to revoke")
		return pkgoauth.Other{Kind: OutcomeSkipped}, nil
	}
	u.RawQuery = ""

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("revocation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		revErr := &RevocationError{StatusCode: resp.StatusCode}
		var payload struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &payload) == nil {
			revErr.Message = payload.Message
		}
		return nil, revErr
	}

	slog.Debug("Token revoked", "endpoint", u.String())
	return pkgoauth.Other{Kind: OutcomeRevoked}, nil
}
