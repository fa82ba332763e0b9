package auth

import (
	"errors"
	"fmt"
)

// ErrStateMismatch matches any *StateMismatchError via errors.Is.
var ErrStateMismatch = errors.New("Invalid state value")

// ErrSignInInProgress is returned when SignIn is called while another
// attempt is still running.
var ErrSignInInProgress = errors.New("sign in already in progress")

// StateMismatchError reports that the state echoed by the provider differs
// from the one generated for the attempt. Only lengths are kept so the
// values never end up in logs.
type StateMismatchError struct {
	ExpectedLen int
	ReceivedLen int
}

// Error implements the error interface.
func (e *StateMismatchError) Error() string {
	return "Invalid state value"
}

// Is reports whether target is ErrStateMismatch.
func (e *StateMismatchError) Is(target error) bool {
	return target == ErrStateMismatch
}

// SignInFailedError wraps the reason a sign-in attempt failed.
type SignInFailedError struct {
	Cause error
}

// Error implements the error interface.
func (e *SignInFailedError) Error() string {
	if e.Cause == nil {
		return "sign in failed"
	}
	return fmt.Sprintf("sign in failed: %v", e.Cause)
}

// Unwrap returns the underlying cause.
func (e *SignInFailedError) Unwrap() error {
	return e.Cause
}

// IsStateMismatch reports whether err was caused by a state mismatch.
func IsStateMismatch(err error) bool {
	return errors.Is(err, ErrStateMismatch)
}
