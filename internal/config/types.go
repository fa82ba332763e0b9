package config

import (
	"twitchauth/pkg/oauth"
)

// Config is the top-level configuration structure for twitchauth.
type Config struct {
	// ClientID is the provider-issued application identifier.
	ClientID string `yaml:"clientId,omitempty" env:"CLIENT_ID"`

	// CallbackPort is the loopback port of the callback server. It must
	// match the redirect URI registered with the provider.
	CallbackPort int `yaml:"callbackPort,omitempty" env:"TWITCHAUTH_CALLBACK_PORT"`

	// Scopes requested at sign-in.
	Scopes []string `yaml:"scopes,omitempty" env:"TWITCHAUTH_SCOPES" envSeparator:" "`

	// ForceVerify makes the provider re-confirm the user's identity even
	// when a provider session exists.
	ForceVerify bool `yaml:"forceVerify"`

	// OpenBrowser opens the authorization URL automatically. When false the
	// URL is printed and the redirect URL is pasted back by the user.
	OpenBrowser bool `yaml:"openBrowser"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"logLevel,omitempty" env:"TWITCHAUTH_LOG_LEVEL"`

	// Endpoints overrides the provider URLs.
	Endpoints oauth.Endpoints `yaml:"endpoints,omitempty"`
}
