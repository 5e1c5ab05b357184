package testsupport

import (
	"path/filepath"
	"testing"

	"hardbound/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = base
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.SocketPath = filepath.Join(base, "hardbound.sock")
	cfg.Paths.ApprovalsFile = filepath.Join(base, "approvals.json")
	cfg.Paths.RequestsFile = filepath.Join(base, "requests.json")
	cfg.Paths.ProcessedFile = filepath.Join(base, "processed.json")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithCategory overrides the managed download category.
func WithCategory(category string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.QBittorrent.Category = category
	}
}

// WithAdminChannel sets the admin approval channel id.
func WithAdminChannel(channelID string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Discord.AdminChannelID = channelID
	}
}
