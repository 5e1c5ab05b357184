package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"hardbound/internal/approval"
	"hardbound/internal/config"
	"hardbound/internal/ledger"
	"hardbound/internal/logging"
	"hardbound/internal/organizer"
	"hardbound/internal/processed"
	"hardbound/internal/reconcile"
	"hardbound/internal/search"
	"hardbound/internal/seedbox"
	"hardbound/internal/services"
	"hardbound/internal/services/audiobookshelf"
	"hardbound/internal/services/discord"
	"hardbound/internal/services/metadata"
	"hardbound/internal/services/prowlarr"
	"hardbound/internal/services/qbittorrent"
)

// Downloader is the download-client surface the daemon needs.
type Downloader interface {
	Connect(ctx context.Context) error
	AddJob(ctx context.Context, fetchURI string) (string, error)
	ListJobs(ctx context.Context) ([]qbittorrent.Job, error)
}

// Daemon owns all mutable state: the ledgers, the processed set, the
// approval workflow, and the completion monitor. The CLI talks to it over
// IPC; nothing else writes the state files, so there is exactly one writer
// per file.
type Daemon struct {
	cfg        *config.Config
	logger     *slog.Logger
	approvals  *ledger.ApprovalStore
	requests   *ledger.RequestStore
	set        *processed.Set
	downloader Downloader
	searcher   *search.Service
	workflow   *approval.Workflow
	monitor    *reconcile.Monitor
	messenger  discord.Messenger
	refresher  audiobookshelf.Refresher

	lockPath string
	lock     *flock.Flock
	running  atomic.Bool
	cancel   context.CancelFunc
}

// Status is the runtime summary reported over IPC.
type Status struct {
	Running          bool   `json:"running"`
	PID              int    `json:"pid"`
	LockPath         string `json:"lock_path"`
	SocketPath       string `json:"socket_path"`
	Category         string `json:"category"`
	PollSeconds      int    `json:"poll_seconds"`
	PendingApprovals int    `json:"pending_approvals"`
	ProcessedJobs    int    `json:"processed_jobs"`

	LibraryConfigured bool   `json:"library_configured"`
	LibraryReachable  bool   `json:"library_reachable"`
	LibraryName       string `json:"library_name,omitempty"`
}

// libraryChecker is the optional status surface a media-library client may
// expose on top of Refresher.
type libraryChecker interface {
	LibraryStatus(ctx context.Context) (map[string]any, error)
}

// New constructs a daemon with production dependencies wired from config.
func New(cfg *config.Config, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || logger == nil {
		return nil, errors.New("daemon requires config and logger")
	}

	messenger := discord.NewMessenger(cfg)
	downloader := qbittorrent.NewClient(qbittorrent.Options{
		URL:      cfg.QBittorrent.URL,
		Username: cfg.QBittorrent.Username,
		Password: cfg.QBittorrent.Password,
		Category: cfg.QBittorrent.Category,
		SavePath: cfg.QBittorrent.DownloadPath,
	}, logger)

	indexer, err := prowlarr.New(cfg.Prowlarr.URL, cfg.Prowlarr.APIKey)
	if err != nil {
		return nil, fmt.Errorf("prowlarr: %w", err)
	}
	google, err := metadata.NewGoogleBooksClient(cfg.Metadata.GoogleBooksURL, cfg.Metadata.GoogleBooksAPIKey)
	if err != nil {
		return nil, fmt.Errorf("google books: %w", err)
	}
	openLibrary, err := metadata.NewOpenLibraryClient(cfg.Metadata.OpenLibraryURL, cfg.Metadata.OpenLibraryCoversURL)
	if err != nil {
		return nil, fmt.Errorf("open library: %w", err)
	}
	catalog := metadata.NewCatalog(google, openLibrary, logger)

	dialer, err := seedbox.NewSSHDialer(cfg.Seedbox)
	if err != nil {
		return nil, fmt.Errorf("seedbox: %w", err)
	}
	source := cfg.Organizer.SourcePath
	if source == "" {
		source = cfg.QBittorrent.DownloadPath
	}
	filer := organizer.NewTrigger(dialer, cfg.Organizer, source, logger)

	return NewWithDependencies(cfg, logger, Dependencies{
		Downloader: downloader,
		Searcher:   search.NewService(catalog, indexer, cfg.Metadata.MaxResults, cfg.Prowlarr.MaxResults, logger),
		Messenger:  messenger,
		Organizer:  filer,
		Refresher:  audiobookshelf.NewRefresher(cfg),
	})
}

// Dependencies carries the replaceable collaborators (used in tests).
type Dependencies struct {
	Downloader Downloader
	Searcher   *search.Service
	Messenger  discord.Messenger
	Organizer  reconcile.Organizer
	Refresher  audiobookshelf.Refresher
}

// NewWithDependencies constructs a daemon around injected collaborators.
func NewWithDependencies(cfg *config.Config, logger *slog.Logger, deps Dependencies) (*Daemon, error) {
	if cfg == nil || logger == nil {
		return nil, errors.New("daemon requires config and logger")
	}
	if deps.Downloader == nil || deps.Messenger == nil || deps.Organizer == nil {
		return nil, errors.New("daemon requires downloader, messenger, and organizer")
	}

	daemonLogger := logging.NewComponentLogger(logger, "daemon")
	approvals := ledger.NewApprovalStore(cfg.Paths.ApprovalsFile, logger)
	requests := ledger.NewRequestStore(cfg.Paths.RequestsFile, logger)
	set := processed.NewSet(cfg.Paths.ProcessedFile, logger)

	workflow := approval.NewWorkflow(approvals, deps.Downloader, deps.Messenger, cfg.Discord.AdminChannelID, logger)
	dispatcher := reconcile.NewDispatcher(approvals, requests, deps.Messenger, deps.Refresher, cfg.Audiobookshelf.URL, logger)
	monitor := reconcile.NewMonitor(deps.Downloader, set, deps.Organizer, dispatcher,
		cfg.Workflow.PollIntervalDuration(), cfg.Workflow.ErrorRetryIntervalDuration(), logger)

	lockPath := filepath.Join(cfg.Paths.DataDir, "hardboundd.lock")
	return &Daemon{
		cfg:        cfg,
		logger:     daemonLogger,
		approvals:  approvals,
		requests:   requests,
		set:        set,
		downloader: deps.Downloader,
		searcher:   deps.Searcher,
		workflow:   workflow,
		monitor:    monitor,
		messenger:  deps.Messenger,
		refresher:  deps.Refresher,
		lockPath:   lockPath,
		lock:       flock.New(lockPath),
	}, nil
}

// Start acquires the single-instance lock and launches the monitor.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}
	if err := os.MkdirAll(filepath.Dir(d.lockPath), 0o755); err != nil {
		return fmt.Errorf("ensure data dir: %w", err)
	}
	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another hardbound daemon is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.monitor.Start(runCtx)
	d.running.Store(true)
	d.logger.Info("daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop halts the monitor and releases the lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.monitor.Stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("could not release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("daemon stopped")
}

// Close stops the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	return nil
}

// Status reports the runtime summary.
func (d *Daemon) Status() Status {
	pending := 0
	for _, record := range d.approvals.All() {
		if record.Status == ledger.StatusPending {
			pending++
		}
	}
	status := Status{
		Running:          d.running.Load(),
		PID:              os.Getpid(),
		LockPath:         d.lockPath,
		SocketPath:       d.cfg.Paths.SocketPath,
		Category:         d.cfg.QBittorrent.Category,
		PollSeconds:      d.cfg.Workflow.PollInterval,
		PendingApprovals: pending,
		ProcessedJobs:    d.set.Len(),
	}
	if checker, ok := d.refresher.(libraryChecker); ok {
		status.LibraryConfigured = true
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		payload, err := checker.LibraryStatus(ctx)
		if err != nil {
			d.logger.Warn("media library unreachable", logging.Error(err))
		} else {
			status.LibraryReachable = true
			if name, ok := payload["name"].(string); ok {
				status.LibraryName = name
			}
		}
	}
	return status
}

// SearchBooks looks a query up in the public catalogs.
func (d *Daemon) SearchBooks(ctx context.Context, query string) ([]metadata.Book, error) {
	if d.searcher == nil {
		return nil, errors.New("search not configured")
	}
	return d.searcher.Books(ctx, query)
}

// RequestInput describes one incoming book request.
type RequestInput struct {
	UserID string
	Title  string
	Author string
	Type   ledger.RequestType
}

// RequestOutcome reports what a request produced.
type RequestOutcome struct {
	ApprovalID string
	Merged     bool
	Book       metadata.Book
	Candidates []ledger.Release
}

// RequestBook runs the full request path: resolve the book in the catalogs,
// find candidate releases, and open (or merge into) an approval.
func (d *Daemon) RequestBook(ctx context.Context, input RequestInput) (RequestOutcome, error) {
	if d.searcher == nil {
		return RequestOutcome{}, errors.New("search not configured")
	}
	query := strings.TrimSpace(input.Title)
	if input.Author != "" {
		query = query + " " + strings.TrimSpace(input.Author)
	}
	books, err := d.searcher.Books(ctx, query)
	if err != nil {
		return RequestOutcome{}, err
	}
	if len(books) == 0 {
		return RequestOutcome{}, services.Wrap(services.ErrNotFound, "daemon", "request",
			fmt.Sprintf("no catalog match for %q", query), nil)
	}
	book := books[0]

	releases, err := d.searcher.Releases(ctx, book)
	if err != nil {
		return RequestOutcome{}, err
	}
	if len(releases) == 0 {
		return RequestOutcome{}, services.Wrap(services.ErrNotFound, "daemon", "request",
			fmt.Sprintf("no releases found for %q", book.Title), nil)
	}

	id, merged, err := d.workflow.Create(ctx, input.UserID, book.Title, input.Type, releases)
	if err != nil {
		return RequestOutcome{}, err
	}
	if !merged {
		d.requests.Add(ledger.Request{
			ISBN:        book.ISBN13,
			BookTitle:   book.Title,
			UserID:      input.UserID,
			RequestType: input.Type,
		})
	}
	return RequestOutcome{ApprovalID: id, Merged: merged, Book: book, Candidates: releases}, nil
}

// SelectCandidate changes the selected release on a pending approval.
func (d *Daemon) SelectCandidate(ctx context.Context, id string, index int) error {
	return d.workflow.Select(ctx, id, index)
}

// Approve acts on an admin approval.
func (d *Daemon) Approve(ctx context.Context, id string) error {
	return d.workflow.Approve(ctx, id)
}

// Deny acts on an admin denial.
func (d *Daemon) Deny(ctx context.Context, id, reason string) error {
	return d.workflow.Deny(ctx, id, reason)
}

// Approvals returns every approval record keyed by id.
func (d *Daemon) Approvals() map[string]ledger.Approval {
	return d.approvals.All()
}

// Jobs lists the download jobs in the managed category.
func (d *Daemon) Jobs(ctx context.Context) ([]qbittorrent.Job, error) {
	if err := d.downloader.Connect(ctx); err != nil {
		return nil, err
	}
	return d.downloader.ListJobs(ctx)
}
