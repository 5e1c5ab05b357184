package config

const (
	defaultDataDir            = "~/.local/share/hardbound"
	defaultLogDir             = "~/.local/share/hardbound/logs"
	defaultApprovalsFile      = "pending_approvals.json"
	defaultRequestsFile       = "book_requests.json"
	defaultProcessedFile      = "processed_jobs.json"
	defaultCategory           = "hardbound"
	defaultProwlarrTimeout    = 30
	defaultProwlarrMaxResults = 25
	defaultMetadataTimeout    = 15
	defaultMetadataMaxResults = 5
	defaultGoogleBooksURL     = "https://www.googleapis.com/books/v1"
	defaultOpenLibraryURL     = "https://openlibrary.org"
	defaultOpenLibraryCovers  = "https://covers.openlibrary.org/b"
	defaultABSTimeout         = 10
	defaultDiscordTimeout     = 10
	defaultSeedboxPort        = 22
	defaultSeedboxTimeout     = 30
	defaultPollInterval       = 30
	defaultErrorRetryInterval = 30
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:       defaultDataDir,
			LogDir:        defaultLogDir,
			ApprovalsFile: defaultApprovalsFile,
			RequestsFile:  defaultRequestsFile,
			ProcessedFile: defaultProcessedFile,
		},
		Discord: Discord{
			RequestTimeout: defaultDiscordTimeout,
		},
		QBittorrent: QBittorrent{
			Category: defaultCategory,
		},
		Prowlarr: Prowlarr{
			Timeout:    defaultProwlarrTimeout,
			MaxResults: defaultProwlarrMaxResults,
		},
		Metadata: Metadata{
			GoogleBooksURL:       defaultGoogleBooksURL,
			OpenLibraryURL:       defaultOpenLibraryURL,
			OpenLibraryCoversURL: defaultOpenLibraryCovers,
			MaxResults:           defaultMetadataMaxResults,
			Timeout:              defaultMetadataTimeout,
		},
		Audiobookshelf: Audiobookshelf{
			Timeout: defaultABSTimeout,
		},
		Seedbox: Seedbox{
			Port:           defaultSeedboxPort,
			ConnectTimeout: defaultSeedboxTimeout,
		},
		Workflow: Workflow{
			PollInterval:       defaultPollInterval,
			ErrorRetryInterval: defaultErrorRetryInterval,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
