// Package app wires twitchauth together.
//
// NewApplication is the composition root: it initializes logging, loads the
// layered configuration (defaults, config.yaml, environment, flags), and
// builds the services every command shares:
//
//   - one session.Store, owned by the Application
//   - a helix.Client whose credential provider is that store
//   - the interactor chosen by the flags (browser, printed URL or manual paste)
//   - an auth.Authenticator bound to all of the above
//
// RunLogin and RunShell are the two execution modes used by cmd.
package app
