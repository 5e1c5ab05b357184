package config

import (
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateQBittorrent(); err != nil {
		return err
	}
	if err := c.validateProwlarr(); err != nil {
		return err
	}
	if err := c.validateAudiobookshelf(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateQBittorrent() error {
	if strings.TrimSpace(c.QBittorrent.Category) == "" {
		return fmt.Errorf("qbittorrent.category: must not be empty")
	}
	return nil
}

func (c *Config) validateProwlarr() error {
	if c.Prowlarr.URL != "" && strings.TrimSpace(c.Prowlarr.APIKey) == "" {
		return fmt.Errorf("prowlarr.api_key: required when prowlarr.url is set")
	}
	return nil
}

func (c *Config) validateAudiobookshelf() error {
	if !c.Audiobookshelf.Enabled {
		return nil
	}
	if c.Audiobookshelf.URL == "" {
		return fmt.Errorf("audiobookshelf.url: required when audiobookshelf.enabled is true")
	}
	if strings.TrimSpace(c.Audiobookshelf.APIKey) == "" {
		return fmt.Errorf("audiobookshelf.api_key: required when audiobookshelf.enabled is true")
	}
	if strings.TrimSpace(c.Audiobookshelf.LibraryID) == "" {
		return fmt.Errorf("audiobookshelf.library_id: required when audiobookshelf.enabled is true")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
