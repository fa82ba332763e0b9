// Package session holds the volatile authentication state of the process.
//
// A Store is created once by the composition root and injected into every
// component that needs to know who is signed in. It records the current user,
// the current access token and the two busy flags of the sign-in and sign-out
// flows. Nothing is persisted: a restart always begins signed out.
//
// The Store also acts as the credential provider of the API client. It
// implements oauth2.TokenSource, so the client asks it for the bearer token on
// every request instead of having a header pushed into it.
package session
