package logging

import (
	"log/slog"
	"os"
)

// Name is the name of the application that the logger is created for.
type Name string

// Config is the configuration for a logger.
type Config struct {
	// name is the application name that is appended to every record.
	name Name

	// level is the minimum level that is logged.
	level slog.Level
}

// NewConfig creates a new logging configuration.
func NewConfig(name Name) *Config {
	level := slog.LevelInfo
	if os.Getenv(EnvDebug) != "" {
		level = slog.LevelDebug
	}

	return &Config{
		name:  name,
		level: level,
	}
}

// CommonLogger creates the common logger for the application. It writes
// JSON records to stdout with the application name attached.
func CommonLogger(c *Config) (*slog.Logger, error) {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: c.level,
	})

	l := slog.New(h).With(slog.String(KeyAppName, string(c.name)))

	// Set the default logger so that packages without an injected logger
	// still log in the common format.
	slog.SetDefault(l)

	return l, nil
}
