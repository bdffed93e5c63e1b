// Package logging configures the global logrus logger for the command line
// tools.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Environment variables that override the configured values.
const (
	EnvLogLevel  = "GPM8212_LOG_LEVEL"
	EnvLogFormat = "GPM8212_LOG_FORMAT"
)

// Config selects the log level and output format.
type Config struct {
	Level  string
	Format string
	Output io.Writer
}

// Configure applies cfg, after environment overrides, to the global logger.
func Configure(cfg Config) error {
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Level = v
	}

	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Format = v
	}

	if cfg.Level == "" {
		cfg.Level = "info"
	}

	level, err := log.ParseLevel(cfg.Level)

	if err != nil {
		return err
	}

	switch strings.ToLower(cfg.Format) {
	case "", "text":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	default:
		return fmt.Errorf("unknown log format %q", cfg.Format)
	}

	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	log.SetLevel(level)
	log.SetOutput(cfg.Output)

	return nil
}
