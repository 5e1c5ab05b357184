package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeEndpoints()
	c.normalizeIntervals()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}

	if strings.TrimSpace(c.Paths.SocketPath) == "" {
		c.Paths.SocketPath = filepath.Join(c.Paths.DataDir, "hardbound.sock")
	} else if c.Paths.SocketPath, err = expandPath(c.Paths.SocketPath); err != nil {
		return fmt.Errorf("paths.socket_path: %w", err)
	}

	// Store files are resolved relative to the data directory unless absolute.
	for _, entry := range []struct {
		name  string
		value *string
	}{
		{"paths.approvals_file", &c.Paths.ApprovalsFile},
		{"paths.requests_file", &c.Paths.RequestsFile},
		{"paths.processed_file", &c.Paths.ProcessedFile},
	} {
		trimmed := strings.TrimSpace(*entry.value)
		if trimmed == "" {
			return fmt.Errorf("%s: must not be empty", entry.name)
		}
		if !filepath.IsAbs(trimmed) && !strings.HasPrefix(trimmed, "~") {
			*entry.value = filepath.Join(c.Paths.DataDir, trimmed)
			continue
		}
		if *entry.value, err = expandPath(trimmed); err != nil {
			return fmt.Errorf("%s: %w", entry.name, err)
		}
	}
	return nil
}

func (c *Config) normalizeEndpoints() {
	c.QBittorrent.URL = strings.TrimRight(strings.TrimSpace(c.QBittorrent.URL), "/")
	c.Prowlarr.URL = strings.TrimRight(strings.TrimSpace(c.Prowlarr.URL), "/")
	c.Metadata.GoogleBooksURL = strings.TrimRight(strings.TrimSpace(c.Metadata.GoogleBooksURL), "/")
	c.Metadata.OpenLibraryURL = strings.TrimRight(strings.TrimSpace(c.Metadata.OpenLibraryURL), "/")
	c.Metadata.OpenLibraryCoversURL = strings.TrimRight(strings.TrimSpace(c.Metadata.OpenLibraryCoversURL), "/")
	c.Audiobookshelf.URL = strings.TrimRight(strings.TrimSpace(c.Audiobookshelf.URL), "/")
	c.Discord.BotToken = strings.TrimSpace(c.Discord.BotToken)
	c.Discord.AdminChannelID = strings.TrimSpace(c.Discord.AdminChannelID)

	// The original deployment allowed user@host in one field.
	host := strings.TrimSpace(c.Seedbox.Host)
	if at := strings.Index(host, "@"); at > 0 {
		if strings.TrimSpace(c.Seedbox.User) == "" {
			c.Seedbox.User = host[:at]
		}
		host = host[at+1:]
	}
	c.Seedbox.Host = host
}

func (c *Config) normalizeIntervals() {
	if c.Workflow.PollInterval <= 0 {
		c.Workflow.PollInterval = defaultPollInterval
	}
	if c.Workflow.ErrorRetryInterval <= 0 {
		c.Workflow.ErrorRetryInterval = defaultErrorRetryInterval
	}
	if c.Seedbox.Port <= 0 {
		c.Seedbox.Port = defaultSeedboxPort
	}
	if c.Seedbox.ConnectTimeout <= 0 {
		c.Seedbox.ConnectTimeout = defaultSeedboxTimeout
	}
	if c.Prowlarr.Timeout <= 0 {
		c.Prowlarr.Timeout = defaultProwlarrTimeout
	}
	if c.Prowlarr.MaxResults <= 0 {
		c.Prowlarr.MaxResults = defaultProwlarrMaxResults
	}
	if c.Metadata.Timeout <= 0 {
		c.Metadata.Timeout = defaultMetadataTimeout
	}
	if c.Metadata.MaxResults <= 0 {
		c.Metadata.MaxResults = defaultMetadataMaxResults
	}
	if c.Audiobookshelf.Timeout <= 0 {
		c.Audiobookshelf.Timeout = defaultABSTimeout
	}
	if c.Discord.RequestTimeout <= 0 {
		c.Discord.RequestTimeout = defaultDiscordTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
