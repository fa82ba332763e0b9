package config

import (
	"twitchauth/pkg/oauth"
)

// DefaultCallbackPort is the loopback port used for the OAuth redirect.
const DefaultCallbackPort = 3000

// GetDefaultConfig returns the configuration used when no file or
// environment overrides exist. ClientID has no default.
func GetDefaultConfig() Config {
	return Config{
		CallbackPort: DefaultCallbackPort,
		Scopes:       oauth.DefaultScopes(),
		ForceVerify:  true,
		OpenBrowser:  true,
		LogLevel:     "info",
		Endpoints:    oauth.DefaultEndpoints(),
	}
}
