package audiobookshelf

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"hardbound/internal/config"
)

// Refresher triggers a downstream library rescan after new files land.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// NewRefresher builds a Refresher from config. When the integration is
// disabled or incomplete a noop is returned; a missing media server must
// never block the pipeline.
func NewRefresher(cfg *config.Config) Refresher {
	abs := cfg.Audiobookshelf
	if !abs.Enabled || abs.URL == "" || abs.APIKey == "" || abs.LibraryID == "" {
		return noopRefresher{}
	}
	return &Client{
		baseURL:    abs.URL,
		apiKey:     abs.APIKey,
		libraryID:  abs.LibraryID,
		httpClient: &http.Client{Timeout: abs.TimeoutDuration()},
	}
}

type noopRefresher struct{}

func (noopRefresher) Refresh(context.Context) error { return nil }

// Client triggers library scans on an Audiobookshelf server.
type Client struct {
	baseURL    string
	apiKey     string
	libraryID  string
	httpClient *http.Client
}

var _ Refresher = (*Client)(nil)

// NewClient creates an Audiobookshelf client.
func NewClient(baseURL, apiKey, libraryID string, timeout time.Duration) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("audiobookshelf url required")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("audiobookshelf api key required")
	}
	if strings.TrimSpace(libraryID) == "" {
		return nil, errors.New("audiobookshelf library id required")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		libraryID:  libraryID,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// Refresh asks the server to rescan the configured library.
func (c *Client) Refresh(ctx context.Context) error {
	endpoint := fmt.Sprintf("%s/api/libraries/%s/scan", c.baseURL, c.libraryID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("audiobookshelf scan returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// LibraryStatus fetches the configured library's metadata so the status
// summary can report whether the media server is reachable.
func (c *Client) LibraryStatus(ctx context.Context) (map[string]any, error) {
	endpoint := fmt.Sprintf("%s/api/libraries/%s", c.baseURL, c.libraryID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("audiobookshelf returned %d", resp.StatusCode)
	}
	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode audiobookshelf response: %w", err)
	}
	return payload, nil
}
