// Package config loads the twitchauth configuration.
//
// Configuration is layered. Defaults come first, then an optional
// config.yaml in the configuration directory (~/.config/twitchauth by
// default), then the process environment:
//
//	CLIENT_ID                  provider-issued application id (required)
//	TWITCHAUTH_CALLBACK_PORT   loopback port of the OAuth callback server
//	TWITCHAUTH_LOG_LEVEL       debug, info, warn or error
//
// The client id is read once at startup; nothing in this package is
// written back to disk.
package config
