package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// googleVolume models the subset of the Google Books volumes response the
// catalog needs.
type googleVolume struct {
	VolumeInfo struct {
		Title               string   `json:"title"`
		Authors             []string `json:"authors"`
		PublishedDate       string   `json:"publishedDate"`
		Description         string   `json:"description"`
		IndustryIdentifiers []struct {
			Type       string `json:"type"`
			Identifier string `json:"identifier"`
		} `json:"industryIdentifiers"`
		ImageLinks struct {
			Thumbnail string `json:"thumbnail"`
		} `json:"imageLinks"`
	} `json:"volumeInfo"`
}

type googleResponse struct {
	Items []googleVolume `json:"items"`
}

// GoogleBooksClient searches the Google Books volumes API.
type GoogleBooksClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewGoogleBooksClient creates a Google Books client. The api key is
// optional; unauthenticated requests work at a lower rate limit.
func NewGoogleBooksClient(baseURL, apiKey string, opts ...Option) (*GoogleBooksClient, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("google books base url required")
	}
	client := &GoogleBooksClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     strings.TrimSpace(apiKey),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt.apply(&client.httpClient)
	}
	return client, nil
}

// Search queries the volumes endpoint and maps matches into Books.
func (c *GoogleBooksClient) Search(ctx context.Context, query string, maxResults int) ([]Book, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}
	if maxResults <= 0 || maxResults > 40 {
		maxResults = 40
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(maxResults))
	params.Set("printType", "BOOKS")
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/volumes?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google books returned %d", resp.StatusCode)
	}

	var payload googleResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode google books response: %w", err)
	}

	books := make([]Book, 0, len(payload.Items))
	for _, item := range payload.Items {
		info := item.VolumeInfo
		if info.Title == "" {
			continue
		}
		book := Book{
			Title:        info.Title,
			Authors:      info.Authors,
			FirstPublish: extractYear(info.PublishedDate),
			Description:  info.Description,
			CoverURL:     info.ImageLinks.Thumbnail,
			HasEbook:     true,
			Source:       "googlebooks",
		}
		for _, ident := range info.IndustryIdentifiers {
			switch ident.Type {
			case "ISBN_10":
				book.ISBN10 = ident.Identifier
			case "ISBN_13":
				book.ISBN13 = ident.Identifier
			}
		}
		books = append(books, book)
	}
	return books, nil
}

// extractYear pulls the leading year out of a published date like
// "2021-05-04" or "2021".
func extractYear(published string) int {
	published = strings.TrimSpace(published)
	if len(published) < 4 {
		return 0
	}
	year, err := strconv.Atoi(published[:4])
	if err != nil {
		return 0
	}
	return year
}
