// Package oauth provides the provider-facing OAuth 2.0 pieces shared by the
// sign-in flow and the interaction capability.
//
// twitchauth signs users in with the implicit grant (response_type=token):
// the provider redirects back with the access token in the URL fragment and no
// code exchange takes place.
//
// # Core Components
//
//   - Endpoints: authorization, revocation and API base URLs of the provider
//   - AuthorizationRequest / RevocationRequest: wire URL construction
//   - GenerateState / StatesEqual: the one-time anti-forgery state token
//   - Outcome: the tagged result of an interactive authorization, decoded once
//     at the boundary with DecodeOutcome
//   - RedactedToken: keeps access tokens out of logs
//
// # Usage
//
//	state, err := oauth.GenerateState()
//	authURL, err := oauth.AuthorizationRequest{
//	    Endpoint:    endpoints.Authorization,
//	    ClientID:    clientID,
//	    RedirectURI: redirectURI,
//	    Scopes:      oauth.DefaultScopes(),
//	    ForceVerify: true,
//	    State:       state,
//	}.URL()
//
//	outcome, err := oauth.DecodeOutcome(oauth.TypeSuccess, params)
//	switch o := outcome.(type) {
//	case oauth.Success:
//	    // verify o.State, use o.AccessToken.Value()
//	case oauth.Denied, oauth.Dismissed, oauth.Other:
//	    // nothing to do
//	}
package oauth
