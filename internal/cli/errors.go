package cli

import (
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// ConnectionErrorKind says why a provider endpoint could not be reached.
type ConnectionErrorKind string

const (
	ConnectionErrorUnknown ConnectionErrorKind = "connection"
	ConnectionErrorTLS     ConnectionErrorKind = "tls"
	ConnectionErrorDNS     ConnectionErrorKind = "dns"
	ConnectionErrorTimeout ConnectionErrorKind = "timeout"
	ConnectionErrorNetwork ConnectionErrorKind = "network"
)

var connectionErrorHints = map[ConnectionErrorKind]string{
	ConnectionErrorTLS:     "The server certificate could not be verified. Check the endpoints in config.yaml and any intercepting proxy.",
	ConnectionErrorDNS:     "The host name could not be resolved. Check your network connection and the endpoints in config.yaml.",
	ConnectionErrorTimeout: "The server did not answer in time. Try again later.",
	ConnectionErrorNetwork: "The server refused or dropped the connection. Check your network connection.",
}

// ConnectionError indicates that a provider endpoint could not be reached.
type ConnectionError struct {
	// Endpoint is the URL that could not be reached.
	Endpoint string
	Kind     ConnectionErrorKind
	// Reason is the transport error.
	Reason error
}

// Error describes the failure and, when known, what to check.
func (e *ConnectionError) Error() string {
	msg := fmt.Sprintf("%s error while contacting %s: %v", e.Kind, e.Endpoint, e.Reason)
	if hint := e.Hint(); hint != "" {
		msg += "\n\n" + hint
	}
	return msg
}

// Hint returns guidance for the user, or "" for unclassified failures.
func (e *ConnectionError) Hint() string {
	return connectionErrorHints[e.Kind]
}

// Unwrap returns the underlying error.
func (e *ConnectionError) Unwrap() error {
	return e.Reason
}

// ClassifyConnectionError returns a *ConnectionError when err stems from an
// HTTP transport failure, and nil otherwise (including for nil err). Status
// code errors returned by the API are not connection errors.
func ClassifyConnectionError(err error, endpoint string) *ConnectionError {
	var urlErr *url.Error
	if err == nil || !errors.As(err, &urlErr) {
		return nil
	}
	return &ConnectionError{Endpoint: endpoint, Kind: connectionErrorKind(urlErr), Reason: err}
}

func connectionErrorKind(urlErr *url.Error) ConnectionErrorKind {
	var dnsErr *net.DNSError
	switch {
	case isCertificateError(urlErr):
		return ConnectionErrorTLS
	case errors.As(urlErr, &dnsErr):
		return ConnectionErrorDNS
	case urlErr.Timeout():
		return ConnectionErrorTimeout
	case hasAny(urlErr.Error(), "connection refused", "connection reset", "network is unreachable", "no route to host", "dial tcp"):
		return ConnectionErrorNetwork
	default:
		return ConnectionErrorUnknown
	}
}

func isCertificateError(err error) bool {
	var (
		invalid   x509.CertificateInvalidError
		hostname  x509.HostnameError
		authority x509.UnknownAuthorityError
	)
	if errors.As(err, &invalid) || errors.As(err, &hostname) || errors.As(err, &authority) {
		return true
	}
	return hasAny(err.Error(), "x509:", "tls:", "TLS handshake")
}

func hasAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// AuthRequiredError indicates that a command needs a signed-in session and
// none exists, for example because sign-in was declined or dismissed.
type AuthRequiredError struct {
	// Reason says why no session exists.
	Reason string
}

// Error returns a user-friendly error message with actionable guidance.
func (e *AuthRequiredError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "not signed in"
	}
	return fmt.Sprintf(`Authentication required: %s

To sign in, run:
  twitchauth login`, reason)
}

// Is allows errors.Is() to work with wrapped errors.
func (e *AuthRequiredError) Is(target error) bool {
	_, ok := target.(*AuthRequiredError)
	return ok
}

// AuthFailedError indicates that sign-in failed.
type AuthFailedError struct {
	// Reason is the underlying error.
	Reason error
}

// Error returns a user-friendly error message with actionable guidance.
func (e *AuthFailedError) Error() string {
	return fmt.Sprintf(`Authentication failed: %v

To retry, run:
  twitchauth login`, e.Reason)
}

// Unwrap returns the underlying error.
func (e *AuthFailedError) Unwrap() error {
	return e.Reason
}

// Is allows errors.Is() to work with wrapped errors.
func (e *AuthFailedError) Is(target error) bool {
	_, ok := target.(*AuthFailedError)
	return ok
}
