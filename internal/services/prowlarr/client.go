package prowlarr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"hardbound/internal/ledger"
)

// searchResult models one entry of the Prowlarr /api/v1/search response.
type searchResult struct {
	Title       string `json:"title"`
	DownloadURL string `json:"downloadUrl"`
	MagnetURL   string `json:"magnetUrl"`
	Seeders     int    `json:"seeders"`
	Leechers    int    `json:"leechers"`
	Size        int64  `json:"size"`
	Indexer     string `json:"indexer"`
	PublishDate string `json:"publishDate"`
	GUID        string `json:"guid"`
}

// Searcher is the indexer-search operation the request workflow depends on.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]ledger.Release, error)
}

// Client queries a Prowlarr instance's aggregated indexer search.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

var _ Searcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates a Prowlarr client.
func New(baseURL, apiKey string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("prowlarr base url required")
	}
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("prowlarr api key required")
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Search runs an aggregated search across every configured indexer and
// returns the releases ordered by seeder count, best first. No category
// filter is sent: book indexers disagree on category numbering, so the
// query text does the narrowing.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]ledger.Release, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}
	endpoint, err := url.Parse(c.baseURL + "/api/v1/search")
	if err != nil {
		return nil, fmt.Errorf("parse prowlarr url: %w", err)
	}
	params := url.Values{}
	params.Set("query", query)
	params.Set("type", "search")
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("prowlarr search returned %d", resp.StatusCode)
	}

	var payload []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode prowlarr response: %w", err)
	}

	releases := make([]ledger.Release, 0, len(payload))
	for _, result := range payload {
		fetchURL := result.DownloadURL
		if fetchURL == "" {
			fetchURL = result.MagnetURL
		}
		if fetchURL == "" {
			continue
		}
		releases = append(releases, ledger.Release{
			Title:       result.Title,
			DownloadURL: fetchURL,
			Seeders:     result.Seeders,
			Leechers:    result.Leechers,
			Size:        result.Size,
			Indexer:     result.Indexer,
			PublishDate: result.PublishDate,
			GUID:        result.GUID,
		})
	}

	// Stable sort keeps indexer order for equal seeder counts, so the
	// first-seen release wins ties.
	sort.SliceStable(releases, func(i, j int) bool {
		return releases[i].Seeders > releases[j].Seeders
	})
	if limit > 0 && len(releases) > limit {
		releases = releases[:limit]
	}
	return releases, nil
}
