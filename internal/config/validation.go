package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"twitchauth/pkg/logging"
)

// ErrMissingClientID is returned when neither config.yaml nor CLIENT_ID
// provides a client id.
var ErrMissingClientID = errors.New("CLIENT_ID is required")

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	return fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for multiple validation errors
func (ve ValidationErrors) Error() string {
	if len(ve) == 1 {
		return ve[0].Error()
	}

	messages := make([]string, 0, len(ve))
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// Validate checks the loaded configuration. A missing client id is reported
// as ErrMissingClientID so callers can print a targeted hint.
func (c Config) Validate() error {
	if strings.TrimSpace(c.ClientID) == "" {
		return ErrMissingClientID
	}

	var errs ValidationErrors
	if c.CallbackPort < 1 || c.CallbackPort > 65535 {
		errs = append(errs, ValidationError{Field: "callbackPort", Message: fmt.Sprintf("must be between 1 and 65535, got %d", c.CallbackPort)})
	}
	if len(c.Scopes) == 0 {
		errs = append(errs, ValidationError{Field: "scopes", Message: "at least one scope is required"})
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, ValidationError{Field: "logLevel", Message: err.Error()})
	}
	endpoints := []struct {
		field string
		raw   string
	}{
		{"endpoints.authorization", c.Endpoints.Authorization},
		{"endpoints.revocation", c.Endpoints.Revocation},
		{"endpoints.api", c.Endpoints.API},
	}
	for _, e := range endpoints {
		if msg := validateURL(e.raw); msg != "" {
			errs = append(errs, ValidationError{Field: e.field, Message: msg})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return err.Error()
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Sprintf("must be an http(s) URL, got %q", raw)
	}
	if u.Host == "" {
		return fmt.Sprintf("missing host in %q", raw)
	}
	return ""
}
