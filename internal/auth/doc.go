// Package auth implements the sign-in and sign-out flows of the implicit
// grant on top of a session.Store.
//
// The Authenticator owns no user interface. It talks to the outside world
// through three small capabilities supplied by the caller:
//
//   - RedirectURIProvider yields the redirect URI registered with the provider.
//   - Interactor presents a URL to the user (browser, pasted redirect, HTTP
//     request) and reports how the interaction ended as an oauth.Outcome.
//   - ProfileClient fetches the profile belonging to a freshly issued token.
//
// # Sign-in
//
// SignIn is single-flight: while one attempt is running, further calls fail
// with ErrSignInInProgress. An attempt that the user dismisses or declines
// leaves the store untouched and returns nil. Provider errors and state
// mismatches are returned as *SignInFailedError.
//
// # Sign-out
//
// SignOut asks the provider to revoke the token and then clears the session
// whatever the revocation reported. It never fails.
package auth
