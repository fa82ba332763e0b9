package cli

import (
	"twitchauth/internal/config"

	"github.com/spf13/cobra"
)

// CommandFlags holds the global flag values shared by all commands.
type CommandFlags struct {
	// ConfigPath is the directory holding config.yaml.
	ConfigPath string
	// LogLevel overrides the configured log level when set.
	LogLevel string
	// Quiet suppresses progress indicators and non-essential output.
	Quiet bool
	// NoBrowser prints the authorization URL instead of opening a browser.
	NoBrowser bool
	// Manual reads the redirected URL from the terminal instead of running
	// the callback server.
	Manual bool
	// CallbackPort overrides the configured callback port when non-zero.
	CallbackPort int
}

// RegisterGlobalFlags registers the flags in flags as persistent flags of cmd.
//
// The registered flags are:
//   - --config-path: Configuration directory
//   - --log-level: debug, info, warn or error
//   - --quiet/-q: Suppress non-essential output
//   - --no-browser: Print the sign-in URL instead of opening a browser
//   - --manual: Paste the redirected URL instead of running the callback server
//   - --callback-port: Port of the local callback server
func RegisterGlobalFlags(cmd *cobra.Command, flags *CommandFlags) {
	defaultPath, err := config.GetDefaultConfigPath()
	if err != nil {
		defaultPath = ""
	}

	cmd.PersistentFlags().StringVar(&flags.ConfigPath, "config-path", defaultPath, "Configuration directory")
	cmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", "", "Log level: debug, info, warn, error (env: TWITCHAUTH_LOG_LEVEL)")
	cmd.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().BoolVar(&flags.NoBrowser, "no-browser", false, "Print the sign-in URL instead of opening a browser")
	cmd.PersistentFlags().BoolVar(&flags.Manual, "manual", false, "Paste the redirected URL instead of running the local callback server")
	cmd.PersistentFlags().IntVar(&flags.CallbackPort, "callback-port", 0, "Port of the local callback server (env: TWITCHAUTH_CALLBACK_PORT)")
}

// ApplyTo overrides cfg with the flags that were set.
func (f *CommandFlags) ApplyTo(cfg *config.Config) {
	if f.LogLevel != "" {
		cfg.LogLevel = f.LogLevel
	}
	if f.CallbackPort != 0 {
		cfg.CallbackPort = f.CallbackPort
	}
	if f.NoBrowser || f.Manual {
		cfg.OpenBrowser = false
	}
}
