package cmd

import (
	"twitchauth/internal/app"

	"github.com/spf13/cobra"
)

// newLoginCmd creates the login command.
func newLoginCmd() *cobra.Command {
	var keep bool

	cmd := &cobra.Command{
		Use:     "login",
		Aliases: []string{"signin"},
		Short:   "Sign in and show the signed-in user",
		Long: `Sign in to Twitch and print the profile of the signed-in user.

The authorization page opens in your browser. After you approve, the
browser is redirected to a local callback server that hands the access
token to twitchauth. The token is revoked before the command exits.

Examples:
  twitchauth login                  # Sign in with the browser
  twitchauth login --no-browser     # Print the URL to open it yourself
  twitchauth login --manual         # Paste the redirected URL back
  twitchauth login --keep           # Do not revoke the token on exit

Exit codes:
  0  Signed in
  1  General error
  2  Sign in was declined or not completed
  3  Sign in failed
  4  The redirect carried an unexpected state value`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := newApplication(cmd)
			if err != nil {
				return err
			}
			return application.RunLogin(cmd.Context(), app.LoginOptions{Keep: keep})
		},
	}

	cmd.Flags().BoolVar(&keep, "keep", false, "Do not revoke the access token before exiting")
	return cmd
}

// newApplication builds the application from the global flags and the
// command's streams.
func newApplication(cmd *cobra.Command) (*app.Application, error) {
	cfg := app.NewConfig(globalFlags)
	cfg.Stdin = cmd.InOrStdin()
	cfg.Stdout = cmd.OutOrStdout()
	cfg.Stderr = cmd.ErrOrStderr()
	return app.NewApplication(cfg)
}
