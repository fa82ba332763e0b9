// Package helix is the HTTP client for the provider's user API.
//
// Credentials are not pushed into the client. It is given an
// oauth2.TokenSource (normally the session.Store) that it queries on every
// request, so signing out is enough to stop sending the Authorization header.
package helix
