package oauth

import "log/slog"

const redacted = "[REDACTED]"

// RedactedToken holds an access token so that it prints, marshals and logs
// as "[REDACTED]". Only Value exposes the secret.
type RedactedToken struct {
	value string
}

// NewRedactedToken wraps value.
func NewRedactedToken(value string) RedactedToken {
	return RedactedToken{value: value}
}

// Value returns the token itself. Use it only to build a request.
func (t RedactedToken) Value() string {
	return t.value
}

// IsEmpty reports whether no token is held.
func (t RedactedToken) IsEmpty() bool {
	return t.value == ""
}

// String implements fmt.Stringer.
func (t RedactedToken) String() string {
	return redacted
}

// GoString implements fmt.GoStringer for %#v.
func (t RedactedToken) GoString() string {
	return "oauth.RedactedToken{" + redacted + "}"
}

// LogValue implements slog.LogValuer.
func (t RedactedToken) LogValue() slog.Value {
	if t.IsEmpty() {
		return slog.StringValue("")
	}
	return slog.StringValue(redacted)
}

// MarshalText implements encoding.TextMarshaler.
func (t RedactedToken) MarshalText() ([]byte, error) {
	return []byte(redacted), nil
}

// MarshalJSON implements json.Marshaler.
func (t RedactedToken) MarshalJSON() ([]byte, error) {
	return []byte(`"` + redacted + `"`), nil
}
