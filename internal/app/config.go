package app

import (
	"io"
	"os"

	"twitchauth/internal/cli"
)

// Config holds what the application needs from the command line.
type Config struct {
	// Flags are the global command line flags.
	Flags cli.CommandFlags

	// Stdin, Stdout and Stderr default to the process streams.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewConfig creates an application configuration for flags using the
// process streams.
func NewConfig(flags cli.CommandFlags) *Config {
	return &Config{
		Flags:  flags,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

func (c *Config) withDefaults() {
	if c.Stdin == nil {
		c.Stdin = os.Stdin
	}
	if c.Stdout == nil {
		c.Stdout = os.Stdout
	}
	if c.Stderr == nil {
		c.Stderr = os.Stderr
	}
}
