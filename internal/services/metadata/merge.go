package metadata

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/text/unicode/norm"

	"hardbound/internal/logging"
)

// Catalog fans a query out to both providers and merges the results.
type Catalog struct {
	google      *GoogleBooksClient
	openLibrary *OpenLibraryClient
	logger      *slog.Logger
}

// NewCatalog builds a Catalog over the two providers. Either provider may
// be nil; the catalog then serves from the other alone.
func NewCatalog(google *GoogleBooksClient, openLibrary *OpenLibraryClient, logger *slog.Logger) *Catalog {
	return &Catalog{
		google:      google,
		openLibrary: openLibrary,
		logger:      logging.NewComponentLogger(logger, "metadata"),
	}
}

// Search queries both providers concurrently and merges their results. A
// provider error degrades to that provider contributing nothing; the search
// only fails when it would otherwise return misleading emptiness for reasons
// the user cannot fix by rephrasing.
func (c *Catalog) Search(ctx context.Context, query string, maxResults int) ([]Book, error) {
	var (
		wg          sync.WaitGroup
		googleBooks []Book
		olBooks     []Book
	)

	if c.google != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			books, err := c.google.Search(ctx, query, maxResults)
			if err != nil {
				c.logger.Warn("google books search failed", logging.Error(err))
				return
			}
			googleBooks = books
		}()
	}
	if c.openLibrary != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			books, err := c.openLibrary.Search(ctx, query, maxResults)
			if err != nil {
				c.logger.Warn("open library search failed", logging.Error(err))
				return
			}
			olBooks = books
		}()
	}
	wg.Wait()

	merged := Merge(olBooks, googleBooks)
	if maxResults > 0 && len(merged) > maxResults {
		merged = merged[:maxResults]
	}
	c.logger.Info("catalog search",
		logging.String("query", query),
		logging.Int("open_library", len(olBooks)),
		logging.Int("google_books", len(googleBooks)),
		logging.Int("merged", len(merged)))
	return merged, nil
}

// Merge deduplicates the two providers' results by title and first author.
// Primary results win; secondary entries only fill records the primary did
// not have, except the cover image, which a secondary record may supply
// when the primary record lacks one.
func Merge(primary, secondary []Book) []Book {
	order := make([]string, 0, len(primary)+len(secondary))
	merged := make(map[string]Book, len(primary)+len(secondary))

	for _, book := range primary {
		key := dedupKey(book.Title, book.Authors)
		if _, seen := merged[key]; !seen {
			order = append(order, key)
			merged[key] = book
		}
	}
	for _, book := range secondary {
		key := dedupKey(book.Title, book.Authors)
		existing, seen := merged[key]
		if !seen {
			order = append(order, key)
			merged[key] = book
			continue
		}
		if existing.CoverURL == "" && book.CoverURL != "" {
			existing.CoverURL = book.CoverURL
		}
		if existing.Description == "" && book.Description != "" {
			existing.Description = book.Description
		}
		merged[key] = existing
	}

	out := make([]Book, 0, len(order))
	for _, key := range order {
		out = append(out, merged[key])
	}
	return out
}

// dedupKey folds a title/author pair into a comparison key: the title with
// series suffixes ("Title - The Series #1", "Title (Series #1)") stripped,
// plus the first word of the first author. Unicode is NFKC-folded so
// typographic variants of the same title collide.
func dedupKey(title string, authors []string) string {
	titleKey := strings.ToLower(strings.TrimSpace(norm.NFKC.String(title)))
	if i := strings.Index(titleKey, " - "); i >= 0 {
		titleKey = titleKey[:i]
	}
	if i := strings.Index(titleKey, " ("); i >= 0 {
		titleKey = titleKey[:i]
	}
	titleKey = strings.TrimSpace(titleKey)

	authorKey := ""
	if len(authors) > 0 {
		fields := strings.Fields(strings.ToLower(norm.NFKC.String(authors[0])))
		if len(fields) > 0 {
			authorKey = fields[0]
		}
	}
	return titleKey + "|" + authorKey
}
