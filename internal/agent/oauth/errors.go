package oauth

import (
	"fmt"
	"net/http"
)

// RevocationError is a non-200 answer from the revocation endpoint.
type RevocationError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *RevocationError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("token revocation failed: %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Message)
	}
	return fmt.Sprintf("token revocation failed: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// IsInvalidToken reports whether the provider rejected the token itself,
// which happens when it already expired or was revoked elsewhere.
func (e *RevocationError) IsInvalidToken() bool {
	return e.StatusCode == http.StatusBadRequest && e.Message == "Invalid token"
}
