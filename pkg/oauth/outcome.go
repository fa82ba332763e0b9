package oauth

import (
	"errors"
	"fmt"
	"net/url"
)

// Discriminants reported by an interaction capability.
const (
	TypeSuccess = "success"
	TypeDismiss = "dismiss"
	TypeCancel  = "cancel"
)

// ErrorAccessDenied is the provider error code sent when the user declines.
const ErrorAccessDenied = "access_denied"

// ErrMissingAccessToken reports a success redirect that carries no access
// token. DecodeOutcome still returns such a redirect as Success so that its
// state can be checked first.
var ErrMissingAccessToken = errors.New("oauth: success response without access_token")

// Outcome is the result of an interactive authorization. It is one of
// Success, Denied, ProviderError, Dismissed or Other.
type Outcome interface {
	// Type returns the discriminant the outcome was decoded from.
	Type() string

	isOutcome()
}

// Success carries the parameters of a successful implicit-grant redirect.
type Success struct {
	AccessToken RedactedToken
	State       string
	Scope       string
	TokenType   string
}

// Denied means the user declined the consent screen.
type Denied struct {
	State       string
	Description string
}

// ProviderError is any provider error other than access_denied.
type ProviderError struct {
	Code        string
	Description string
	State       string
}

// Dismissed means the interaction ended without a redirect: the user closed
// it, or it was cancelled or timed out.
type Dismissed struct{}

// Other is any discriminant this package does not know.
type Other struct {
	Kind string
}

func (Success) Type() string       { return TypeSuccess }
func (Denied) Type() string        { return TypeSuccess }
func (ProviderError) Type() string { return TypeSuccess }
func (Dismissed) Type() string     { return TypeDismiss }
func (o Other) Type() string       { return o.Kind }

func (Success) isOutcome()       {}
func (Denied) isOutcome()        {}
func (ProviderError) isOutcome() {}
func (Dismissed) isOutcome()     {}
func (Other) isOutcome()         {}

// Error implements the error interface.
func (e ProviderError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("authorization failed: %s - %s", e.Code, e.Description)
	}
	return fmt.Sprintf("authorization failed: %s", e.Code)
}

// DecodeOutcome validates a raw interaction result once, at the boundary.
// For the success discriminant, params are the redirect parameters
// (access_token, state, scope, token_type, or error and error_description).
func DecodeOutcome(discriminant string, params url.Values) (Outcome, error) {
	switch discriminant {
	case TypeSuccess:
		return decodeRedirect(params)
	case TypeDismiss, TypeCancel:
		return Dismissed{}, nil
	default:
		return Other{Kind: discriminant}, nil
	}
}

func decodeRedirect(params url.Values) (Outcome, error) {
	if code := params.Get("error"); code != "" {
		if code == ErrorAccessDenied {
			return Denied{
				State:       params.Get("state"),
				Description: params.Get("error_description"),
			}, nil
		}
		return ProviderError{
			Code:        code,
			Description: params.Get("error_description"),
			State:       params.Get("state"),
		}, nil
	}

	return Success{
		AccessToken: NewRedactedToken(params.Get("access_token")),
		State:       params.Get("state"),
		Scope:       params.Get("scope"),
		TokenType:   params.Get("token_type"),
	}, nil
}

// ParseFragment decodes the parameters of a redirect URL. Implicit-grant
// tokens arrive in the fragment, errors in the query; both are merged with
// fragment values taking precedence.
func ParseFragment(redirectURL string) (url.Values, error) {
	u, err := url.Parse(redirectURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redirect URL: %w", err)
	}

	params := u.Query()
	if u.Fragment == "" {
		return params, nil
	}

	fragment, err := url.ParseQuery(u.Fragment)
	if err != nil {
		return nil, fmt.Errorf("invalid redirect fragment: %w", err)
	}
	for key, values := range fragment {
		params[key] = values
	}
	return params, nil
}
