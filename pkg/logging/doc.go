// Package logging provides the structured logging used across twitchauth.
//
// It is a thin layer over Go's standard slog package that tags every entry
// with a subsystem name so that the output of the sign-in flow, the callback
// server and the configuration loader can be told apart.
//
// # Log Levels
//   - **Debug**: step-by-step tracing of the authentication flows
//   - **Info**: normal operation (sign-in completed, config loaded)
//   - **Warn**: recoverable problems (revocation failed, browser not opened)
//   - **Error**: failures surfaced to the user
//
// # Usage
//
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//
//	logging.Info("Config", "Loaded configuration from %s", path)
//	logging.Debug("Auth", "Authorization URL built for client %s", clientID)
//	logging.Error("Auth", err, "Sign in failed")
//
// # Audit Logging
//
// Security-relevant outcomes are reported with Audit:
//
//	logging.Audit(logging.AuditEvent{
//	    Action:    "sign_in",
//	    Outcome:   "success",
//	    AttemptID: attemptID,
//	    UserID:    "141981764",
//	})
//
// Audit events are logged at INFO level with an [AUDIT] prefix.
//
// Access tokens must never be passed to any of these functions in clear text.
// Wrap them in oauth.RedactedToken before they reach a log line.
package logging
