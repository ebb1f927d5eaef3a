package config

import (
	"errors"
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.Sink.URL = strings.TrimRight(strings.TrimSpace(c.Sink.URL), "/")
	if c.Sink.RequestTimeout <= 0 {
		c.Sink.RequestTimeout = defaultSinkRequestTimeout
	}
	if c.Deletion.MaxAttempts <= 0 {
		c.Deletion.MaxAttempts = defaultDeleteMaxAttempts
	}
	if c.Deletion.BackoffSeconds <= 0 {
		c.Deletion.BackoffSeconds = defaultDeleteBackoff
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.CatalogPath, err = expandPath(c.Paths.CatalogPath); err != nil {
		return fmt.Errorf("paths.catalog_path: %w", err)
	}
	if c.Paths.DenylistPath, err = expandPath(c.Paths.DenylistPath); err != nil {
		return fmt.Errorf("paths.denylist_path: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.QuarantineDir, err = expandPath(c.Paths.QuarantineDir); err != nil {
		return fmt.Errorf("paths.quarantine_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Paths.CatalogPath) == "" {
		return errors.New("paths.catalog_path must be set")
	}
	if strings.TrimSpace(c.Paths.DenylistPath) == "" {
		return errors.New("paths.denylist_path must be set")
	}
	if c.Similarity.MSEImageThreshold < 0 {
		return errors.New("similarity.mse_image_threshold must not be negative")
	}
	if c.Similarity.MSEVideoThreshold < 0 {
		return errors.New("similarity.mse_video_threshold must not be negative")
	}
	if c.Curation.MinGroupBytes < 0 {
		return errors.New("curation.min_group_bytes must not be negative")
	}
	if c.Curation.MinGroupSeconds < 0 {
		return errors.New("curation.min_group_seconds must not be negative")
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}
