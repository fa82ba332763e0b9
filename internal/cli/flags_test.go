package cli

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"twitchauth/internal/config"
)

func TestRegisterGlobalFlags(t *testing.T) {
	var flags CommandFlags
	cmd := &cobra.Command{Use: "test", RunE: func(*cobra.Command, []string) error { return nil }}
	RegisterGlobalFlags(cmd, &flags)

	cmd.SetArgs([]string{"--config-path", "/tmp/tw", "--log-level", "debug", "-q", "--no-browser", "--callback-port", "8080"})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, "/tmp/tw", flags.ConfigPath)
	assert.Equal(t, "debug", flags.LogLevel)
	assert.True(t, flags.Quiet)
	assert.True(t, flags.NoBrowser)
	assert.False(t, flags.Manual)
	assert.Equal(t, 8080, flags.CallbackPort)
}

func TestCommandFlags_ApplyTo(t *testing.T) {
	t.Run("unset flags keep config", func(t *testing.T) {
		cfg := config.GetDefaultConfig()
		(&CommandFlags{}).ApplyTo(&cfg)

		assert.Equal(t, config.GetDefaultConfig(), cfg)
	})

	t.Run("set flags override config", func(t *testing.T) {
		cfg := config.GetDefaultConfig()
		(&CommandFlags{LogLevel: "warn", CallbackPort: 4000, NoBrowser: true}).ApplyTo(&cfg)

		assert.Equal(t, "warn", cfg.LogLevel)
		assert.Equal(t, 4000, cfg.CallbackPort)
		assert.False(t, cfg.OpenBrowser)
	})

	t.Run("manual disables browser", func(t *testing.T) {
		cfg := config.GetDefaultConfig()
		(&CommandFlags{Manual: true}).ApplyTo(&cfg)
		assert.False(t, cfg.OpenBrowser)
	})
}
