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

// openLibraryDoc models one document of the Open Library search response.
type openLibraryDoc struct {
	Title            string   `json:"title"`
	AuthorName       []string `json:"author_name"`
	FirstPublishYear int      `json:"first_publish_year"`
	ISBN             []string `json:"isbn"`
	ISBN10           []string `json:"isbn_10"`
	CoverID          int64    `json:"cover_i"`
	HasFulltext      bool     `json:"has_fulltext"`
	Subject          []string `json:"subject"`
}

type openLibraryResponse struct {
	Docs []openLibraryDoc `json:"docs"`
}

// Subjects that mark a record as likely available in digital form. Records
// matching none of these (and without fulltext) are physical-only noise.
var digitalSubjectHints = []string{
	"ebook", "audiobook", "fiction", "novel", "fantasy",
	"science fiction", "mystery", "romance", "biography", "memoir",
}

// OpenLibraryClient searches the Open Library catalog.
type OpenLibraryClient struct {
	baseURL    string
	coversURL  string
	httpClient *http.Client
}

// NewOpenLibraryClient creates an Open Library client.
func NewOpenLibraryClient(baseURL, coversURL string, opts ...Option) (*OpenLibraryClient, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("open library base url required")
	}
	client := &OpenLibraryClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		coversURL:  strings.TrimRight(strings.TrimSpace(coversURL), "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt.apply(&client.httpClient)
	}
	return client, nil
}

// Search queries search.json and maps digital-looking documents into Books.
// Documents without an ISBN are skipped; those almost never have a digital
// edition worth requesting.
func (c *OpenLibraryClient) Search(ctx context.Context, query string, maxResults int) ([]Book, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}
	if maxResults <= 0 {
		maxResults = 5
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(min(maxResults*2, 100)))
	params.Set("fields", "title,author_name,first_publish_year,isbn,isbn_10,cover_i,has_fulltext,subject")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search.json?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("open library returned %d", resp.StatusCode)
	}

	var payload openLibraryResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode open library response: %w", err)
	}

	books := make([]Book, 0, maxResults)
	for _, doc := range payload.Docs {
		if doc.Title == "" {
			continue
		}
		if len(doc.ISBN) == 0 && len(doc.ISBN10) == 0 {
			continue
		}
		subjects := strings.ToLower(strings.Join(doc.Subject, " "))
		if !doc.HasFulltext && !containsAny(subjects, digitalSubjectHints) {
			continue
		}

		authors := doc.AuthorName
		if len(authors) == 0 {
			authors = []string{"Unknown"}
		}
		book := Book{
			Title:        doc.Title,
			Authors:      authors,
			FirstPublish: doc.FirstPublishYear,
			ISBN10:       first(doc.ISBN10),
			ISBN13:       first(doc.ISBN),
			CoverURL:     c.coverURL(doc.CoverID),
			HasEbook:     doc.HasFulltext || strings.Contains(subjects, "ebook"),
			HasAudiobook: strings.Contains(subjects, "audiobook"),
			Source:       "openlibrary",
		}
		books = append(books, book)
		if len(books) >= maxResults {
			break
		}
	}
	return books, nil
}

func (c *OpenLibraryClient) coverURL(coverID int64) string {
	if coverID == 0 || c.coversURL == "" {
		return ""
	}
	return fmt.Sprintf("%s/id/%d-M.jpg", c.coversURL, coverID)
}

func containsAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
