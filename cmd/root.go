package cmd

import (
	"errors"
	"fmt"
	"os"

	"twitchauth/internal/auth"
	"twitchauth/internal/cli"

	"github.com/spf13/cobra"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeAuthRequired indicates that sign-in ended without a session.
	ExitCodeAuthRequired = 2
	// ExitCodeAuthFailed indicates the sign-in failed.
	ExitCodeAuthFailed = 3
	// ExitCodeStateMismatch indicates the redirect carried a state value that
	// does not belong to the attempt.
	ExitCodeStateMismatch = 4
)

// globalFlags holds the persistent flags of every command.
var globalFlags cli.CommandFlags

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "twitchauth",
	Short: "Sign in to Twitch from the terminal",
	Long: `twitchauth signs you in to Twitch with the OAuth implicit grant.

The authorization page opens in your browser and the access token is
delivered back to a local callback server. The session only lives in memory
and is revoked on sign-out.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors
	// that are handled by the application.
	SilenceUsage:  true,
	SilenceErrors: true,
}

// SetVersion sets the version for the root command.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute runs the root command and exits with a code derived from the error.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "twitchauth version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(err))
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the exit code for err.
func getExitCode(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}

	if auth.IsStateMismatch(err) {
		return ExitCodeStateMismatch
	}

	var authRequired *cli.AuthRequiredError
	if errors.As(err, &authRequired) {
		return ExitCodeAuthRequired
	}

	var authFailed *cli.AuthFailedError
	if errors.As(err, &authFailed) {
		return ExitCodeAuthFailed
	}

	return ExitCodeError
}

func init() {
	cli.RegisterGlobalFlags(rootCmd, &globalFlags)

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newShellCmd())
}
