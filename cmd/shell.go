package cmd

import (
	"twitchauth/internal/app"

	"github.com/spf13/cobra"
)

// newShellCmd creates the interactive shell command.
func newShellCmd() *cobra.Command {
	var (
		noColor     bool
		historyFile string
	)

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Interactive shell for signing in and out",
		Long: `Start an interactive shell that keeps one session for its lifetime.

Available commands: login, logout, whoami, status, help, exit.
An active session is signed out when the shell exits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := newApplication(cmd)
			if err != nil {
				return err
			}
			return application.RunShell(cmd.Context(), app.ShellOptions{
				NoColor:     noColor,
				HistoryFile: historyFile,
			})
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	cmd.Flags().StringVar(&historyFile, "history-file", "", "File to store command history in")
	return cmd
}
