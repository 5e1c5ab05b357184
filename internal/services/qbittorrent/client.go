package qbittorrent

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	qbt "github.com/autobrr/go-qbittorrent"

	"hardbound/internal/logging"
	"hardbound/internal/services"
)

// Job is one download job as the rest of the system sees it: an opaque id,
// a display name, and a normalized lifecycle state.
type Job struct {
	ID         string
	Name       string
	State      State
	Progress   float64
	Size       int64
	Downloaded int64
	Uploaded   int64
	SavePath   string
	Category   string
}

// Complete reports whether the job's payload is fully on disk. Seeding
// states count as complete even when the client reports progress below 1.0
// after a recheck.
func (j Job) Complete() bool {
	return j.State == StateSeeding || j.State == StateCompleted || j.Progress >= 1.0
}

// Client wraps the autobrr qBittorrent client with the small surface the
// request workflow needs: submit a job under the bot's category and list the
// jobs in that category.
type Client struct {
	qbt      *qbt.Client
	category string
	savePath string
	logger   *slog.Logger

	// Serializes AddJob. The id is recovered by diffing the job list
	// around the submission, so two in-flight submissions could claim
	// each other's job.
	addMu sync.Mutex
}

// Options configures a Client.
type Options struct {
	URL      string
	Username string
	Password string
	Category string
	SavePath string
}

// NewClient builds a Client. No network traffic happens until Connect.
func NewClient(opts Options, logger *slog.Logger) *Client {
	return &Client{
		qbt: qbt.NewClient(qbt.Config{
			Host:     opts.URL,
			Username: opts.Username,
			Password: opts.Password,
		}),
		category: opts.Category,
		savePath: opts.SavePath,
		logger:   logging.NewComponentLogger(logger, "qbittorrent"),
	}
}

// Category returns the category jobs are filed under.
func (c *Client) Category() string { return c.category }

// Connect authenticates against the Web API. Failures are connectivity
// errors: the caller skips the current cycle and retries later.
func (c *Client) Connect(ctx context.Context) error {
	if err := c.qbt.LoginCtx(ctx); err != nil {
		return services.Wrap(services.ErrConnectivity, "qbittorrent", "connect",
			"could not authenticate with download client", err)
	}
	return nil
}

// AddJob submits a fetch URI and returns the id of the job it became. The
// Web API add endpoint does not report the new id, so the job list is
// diffed around the submission.
func (c *Client) AddJob(ctx context.Context, fetchURI string) (string, error) {
	c.addMu.Lock()
	defer c.addMu.Unlock()

	before, err := c.listIDs(ctx)
	if err != nil {
		return "", err
	}

	opts := map[string]string{"category": c.category}
	if c.savePath != "" {
		opts["savepath"] = c.savePath
	}
	if err := c.qbt.AddTorrentFromUrlCtx(ctx, fetchURI, opts); err != nil {
		return "", services.Wrap(services.ErrConnectivity, "qbittorrent", "add",
			"download client rejected the job", err)
	}

	// The client registers the job asynchronously; poll briefly for it.
	for attempt := 0; attempt < 10; attempt++ {
		after, err := c.listIDs(ctx)
		if err != nil {
			return "", err
		}
		for id := range after {
			if _, seen := before[id]; !seen {
				c.logger.Info("submitted download job",
					logging.String(logging.FieldJobID, id))
				return id, nil
			}
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}
	}
	return "", services.Wrap(services.ErrExternalTool, "qbittorrent", "add",
		"job accepted but never appeared in the job list", nil)
}

// ListJobs returns every job filed under the bot's category.
func (c *Client) ListJobs(ctx context.Context) ([]Job, error) {
	torrents, err := c.qbt.GetTorrentsCtx(ctx, qbt.TorrentFilterOptions{
		Category: c.category,
	})
	if err != nil {
		return nil, services.Wrap(services.ErrConnectivity, "qbittorrent", "list",
			fmt.Sprintf("could not list jobs in category %q", c.category), err)
	}

	jobs := make([]Job, 0, len(torrents))
	for _, t := range torrents {
		jobs = append(jobs, Job{
			ID:         t.Hash,
			Name:       t.Name,
			State:      mapState(t.State),
			Progress:   t.Progress,
			Size:       t.Size,
			Downloaded: t.Downloaded,
			Uploaded:   t.Uploaded,
			SavePath:   t.SavePath,
			Category:   t.Category,
		})
	}
	return jobs, nil
}

func (c *Client) listIDs(ctx context.Context) (map[string]struct{}, error) {
	jobs, err := c.ListJobs(ctx)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]struct{}, len(jobs))
	for _, job := range jobs {
		ids[job.ID] = struct{}{}
	}
	return ids, nil
}
