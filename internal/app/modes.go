package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"twitchauth/internal/agent"
	"twitchauth/internal/auth"
	"twitchauth/internal/cli"
	"twitchauth/pkg/logging"
)

// signOutTimeout bounds the sign-out at the end of a non-keeping login.
const signOutTimeout = 10 * time.Second

// LoginOptions configures RunLogin.
type LoginOptions struct {
	// Keep leaves the session active instead of revoking the token before
	// returning. The process exits right after, so Keep mostly matters to
	// callers embedding the application.
	Keep bool
}

// RunLogin performs one sign-in, prints the signed-in user and signs out
// again unless opts.Keep is set.
//
// Errors:
//   - *cli.AuthRequiredError when the sign-in ended without a session
//     (declined at the provider, dismissed, timed out)
//   - *cli.AuthFailedError wrapping the cause when sign-in failed
//   - *cli.ConnectionError when the provider could not be reached
func (a *Application) RunLogin(ctx context.Context, opts LoginOptions) error {
	s := a.services

	if err := s.SignIn(ctx); err != nil {
		if conn := cli.ClassifyConnectionError(err, a.settings.Endpoints.API); conn != nil {
			return conn
		}
		var failed *auth.SignInFailedError
		if errors.As(err, &failed) {
			return &cli.AuthFailedError{Reason: failed}
		}
		return err
	}

	snapshot := s.Session()
	if !snapshot.IsAuthenticated() {
		return &cli.AuthRequiredError{Reason: "sign in was declined or not completed"}
	}

	if !a.config.Flags.Quiet {
		fmt.Fprintln(a.config.Stdout, cli.FormatSuccess(fmt.Sprintf("Signed in as %s", cli.DisplayName(*snapshot.User))))
	}
	cli.RenderUser(a.config.Stdout, *snapshot.User)

	if opts.Keep {
		return nil
	}

	signOutCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), signOutTimeout)
	defer cancel()
	if err := s.SignOut(signOutCtx); err != nil {
		logging.Warn("Login", "Sign out after login failed: %v", err)
	}
	return nil
}

// ShellOptions configures RunShell.
type ShellOptions struct {
	NoColor     bool
	HistoryFile string
}

// RunShell runs the interactive shell until it exits. The session ends with
// the shell.
func (a *Application) RunShell(ctx context.Context, opts ShellOptions) error {
	logger := agent.NewLoggerWithWriter(!opts.NoColor, a.config.Stdout)

	replOpts := agent.Options{HistoryFile: opts.HistoryFile}
	if a.config.Stdin != os.Stdin {
		replOpts.Stdin = io.NopCloser(a.config.Stdin)
	}
	if a.config.Stdout != os.Stdout {
		replOpts.Stdout = a.config.Stdout
	}

	repl := agent.NewREPL(a.services, logger, replOpts)
	a.services.SetLineReader(repl.ReadLine)

	logging.Debug("Shell", "Starting interactive shell")
	return repl.Run(ctx)
}
