// Package oauth provides the interactive side of the implicit grant for the
// command line.
//
// The core sign-in flow in internal/auth only knows an Interactor that turns
// a URL into an outcome. This package supplies the implementations:
//
//   - BrowserInteractor opens the authorization URL in the default browser
//     and receives the redirect on a loopback CallbackServer.
//   - ManualInteractor prints the URL and reads back the redirected URL
//     pasted by the user, for machines without a browser.
//   - RevocationInteractor POSTs a revocation URL to the provider.
//
// # Callback server
//
// The implicit grant delivers the access token in the URL fragment, which
// the browser never sends to a server. GET /callback answers with a small
// relay page that forwards the fragment to GET /callback/complete as query
// string. Provider errors are sent in the query of /callback and are
// accepted there directly. Only the first result is accepted; later
// requests receive 400.
//
// The server binds 127.0.0.1 on DefaultCallbackPort unless configured
// otherwise. The redirect URI registered with the provider must match
// http://localhost:<port>/callback exactly.
//
// # Security
//
// Result pages are rendered from embedded templates with html/template and
// carry restrictive security headers. The access token is never rendered or
// logged.
package oauth
