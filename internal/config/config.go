package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and state-file configuration.
type Paths struct {
	DataDir       string `toml:"data_dir"`
	LogDir        string `toml:"log_dir"`
	SocketPath    string `toml:"socket_path"`
	ApprovalsFile string `toml:"approvals_file"`
	RequestsFile  string `toml:"requests_file"`
	ProcessedFile string `toml:"processed_file"`
}

// Discord contains the chat-platform credentials and channel routing.
type Discord struct {
	BotToken       string `toml:"bot_token"`
	AdminChannelID string `toml:"admin_channel_id"`
	RequestTimeout int    `toml:"request_timeout"`
}

// QBittorrent contains configuration for the download client.
type QBittorrent struct {
	URL          string `toml:"url"`
	Username     string `toml:"username"`
	Password     string `toml:"password"`
	Category     string `toml:"category"`
	DownloadPath string `toml:"download_path"`
}

// Prowlarr contains configuration for the indexer aggregator.
type Prowlarr struct {
	URL        string `toml:"url"`
	APIKey     string `toml:"api_key"`
	Timeout    int    `toml:"timeout"`
	MaxResults int    `toml:"max_results"`
}

// Metadata contains configuration for the book metadata providers.
type Metadata struct {
	GoogleBooksURL       string `toml:"google_books_url"`
	GoogleBooksAPIKey    string `toml:"google_books_api_key"`
	OpenLibraryURL       string `toml:"open_library_url"`
	OpenLibraryCoversURL string `toml:"open_library_covers_url"`
	MaxResults           int    `toml:"max_results"`
	Timeout              int    `toml:"timeout"`
}

// Audiobookshelf contains configuration for the downstream library index.
type Audiobookshelf struct {
	Enabled   bool   `toml:"enabled"`
	URL       string `toml:"url"`
	APIKey    string `toml:"api_key"`
	LibraryID string `toml:"library_id"`
	Timeout   int    `toml:"timeout"`
}

// Seedbox contains the remote-execution channel credentials.
type Seedbox struct {
	Host           string `toml:"host"`
	Port           int    `toml:"port"`
	User           string `toml:"user"`
	Password       string `toml:"password"`
	ConnectTimeout int    `toml:"connect_timeout"`
}

// Organizer contains configuration for the remote library filer.
type Organizer struct {
	RemoteDir   string `toml:"remote_dir"`
	SourcePath  string `toml:"source_path"`
	LibraryPath string `toml:"library_path"`
}

// Workflow contains daemon timing configuration.
type Workflow struct {
	PollInterval       int `toml:"poll_interval"`
	ErrorRetryInterval int `toml:"error_retry_interval"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for Hardbound.
//
// Configuration sections by subsystem:
//   - Paths: state directory, socket, and store file locations
//   - Discord: chat platform credentials and admin channel
//   - QBittorrent: download client connection and managed category
//   - Prowlarr: indexer aggregator search
//   - Metadata: Google Books / Open Library providers
//   - Audiobookshelf: downstream library index refresh
//   - Seedbox: SSH credentials for the remote organizer host
//   - Organizer: remote filer paths
//   - Workflow: poll intervals
//   - Logging: log format and level
type Config struct {
	Paths          Paths          `toml:"paths"`
	Discord        Discord        `toml:"discord"`
	QBittorrent    QBittorrent    `toml:"qbittorrent"`
	Prowlarr       Prowlarr       `toml:"prowlarr"`
	Metadata       Metadata       `toml:"metadata"`
	Audiobookshelf Audiobookshelf `toml:"audiobookshelf"`
	Seedbox        Seedbox        `toml:"seedbox"`
	Organizer      Organizer      `toml:"organizer"`
	Workflow       Workflow       `toml:"workflow"`
	Logging        Logging        `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/hardbound/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath("~/.config/hardbound/config.toml")
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("hardbound.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the daemon needs at startup.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
