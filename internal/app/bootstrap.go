package app

import (
	"fmt"

	"twitchauth/internal/config"
	"twitchauth/pkg/logging"
)

// Application holds the loaded settings and the services built from them.
//
// The bootstrap sequence is:
//  1. Initialize logging from the --log-level flag
//  2. Load configuration (defaults, config.yaml, environment)
//  3. Apply flag overrides and validate
//  4. Re-initialize logging with the final level
//  5. Build the services
type Application struct {
	config   *Config
	settings config.Config
	services *Services
}

// NewApplication creates and initializes a new application instance.
func NewApplication(cfg *Config) (*Application, error) {
	cfg.withDefaults()

	if err := initLogging(cfg, cfg.Flags.LogLevel); err != nil {
		return nil, err
	}

	settings, err := config.LoadConfig(cfg.Flags.ConfigPath)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to load configuration from %s", cfg.Flags.ConfigPath)
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	cfg.Flags.ApplyTo(&settings)
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := initLogging(cfg, settings.LogLevel); err != nil {
		return nil, err
	}

	services, err := InitializeServices(cfg, settings)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to initialize services")
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return &Application{
		config:   cfg,
		settings: settings,
		services: services,
	}, nil
}

// initLogging sends logs to stderr so stdout carries only command output.
// --quiet keeps errors only.
func initLogging(cfg *Config, levelName string) error {
	level := logging.LevelInfo
	if levelName != "" {
		parsed, err := logging.ParseLevel(levelName)
		if err != nil {
			return err
		}
		level = parsed
	}
	if cfg.Flags.Quiet && level < logging.LevelError {
		level = logging.LevelError
	}
	logging.InitForCLI(level, cfg.Stderr)
	return nil
}

// Settings returns the effective configuration.
func (a *Application) Settings() config.Config {
	return a.settings
}

// Services returns the services shared by the commands.
func (a *Application) Services() *Services {
	return a.services
}
