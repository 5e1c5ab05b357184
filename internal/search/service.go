package search

import (
	"context"
	"log/slog"

	"hardbound/internal/ledger"
	"hardbound/internal/logging"
	"hardbound/internal/services"
	"hardbound/internal/services/metadata"
	"hardbound/internal/services/prowlarr"
)

// Service answers the two search questions the front end asks: which books
// match a query (public catalogs, safe to show anyone) and which releases
// exist for a chosen book (indexers, admin-facing).
type Service struct {
	catalog    *metadata.Catalog
	indexer    prowlarr.Searcher
	maxBooks   int
	maxRelease int
	logger     *slog.Logger
}

// NewService wires the search service.
func NewService(catalog *metadata.Catalog, indexer prowlarr.Searcher, maxBooks, maxReleases int, logger *slog.Logger) *Service {
	if maxBooks <= 0 {
		maxBooks = 5
	}
	if maxReleases <= 0 {
		maxReleases = 25
	}
	return &Service{
		catalog:    catalog,
		indexer:    indexer,
		maxBooks:   maxBooks,
		maxRelease: maxReleases,
		logger:     logging.NewComponentLogger(logger, "search"),
	}
}

// Books looks the query up in the public catalogs.
func (s *Service) Books(ctx context.Context, query string) ([]metadata.Book, error) {
	books, err := s.catalog.Search(ctx, query, s.maxBooks)
	if err != nil {
		return nil, services.Wrap(services.ErrConnectivity, "search", "books",
			"catalog lookup failed", err)
	}
	return books, nil
}

// Releases searches the indexers for downloadable releases of a book. The
// query is the book's title plus first author; results arrive ordered by
// seeders.
func (s *Service) Releases(ctx context.Context, book metadata.Book) ([]ledger.Release, error) {
	query := book.SearchQuery()
	releases, err := s.indexer.Search(ctx, query, s.maxRelease)
	if err != nil {
		return nil, services.Wrap(services.ErrConnectivity, "search", "releases",
			"indexer search failed", err)
	}
	s.logger.Info("release search",
		logging.String("query", query),
		logging.Int("releases", len(releases)))
	return releases, nil
}
