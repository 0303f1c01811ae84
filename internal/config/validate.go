package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateCapture(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	if c.Paths.UploadsDir == "" {
		return errors.New("paths.uploads_dir must be set")
	}
	if c.Paths.DataDir == c.Paths.UploadsDir {
		return errors.New("paths.data_dir and paths.uploads_dir must differ")
	}
	return nil
}

func (c *Config) validateCapture() error {
	if c.Capture.ChunkIntervalMS < 10 {
		return fmt.Errorf("capture.chunk_interval_ms must be at least 10, got %d", c.Capture.ChunkIntervalMS)
	}
	if c.Capture.TickIntervalMS < 10 {
		return fmt.Errorf("capture.tick_interval_ms must be at least 10, got %d", c.Capture.TickIntervalMS)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
