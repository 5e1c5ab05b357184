package ledger

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"hardbound/internal/logging"
)

// RequestStore tracks book requests keyed by a stable catalog identifier:
// the ISBN when known, otherwise the lowercased title. Re-requesting the same
// book updates the existing record instead of creating a duplicate.
type RequestStore struct {
	mu      sync.Mutex
	path    string
	logger  *slog.Logger
	records map[string]*Request
	now     func() time.Time
}

// NewRequestStore loads the request ledger from path.
func NewRequestStore(path string, logger *slog.Logger) *RequestStore {
	logger = logging.NewComponentLogger(logger, "ledger")
	s := &RequestStore{
		path:    path,
		logger:  logger,
		records: make(map[string]*Request),
		now:     time.Now,
	}
	s.load()
	return s
}

// Key derives the store key for an ISBN/title pair.
func Key(isbn, bookTitle string) string {
	if isbn = strings.TrimSpace(isbn); isbn != "" {
		return isbn
	}
	return strings.ToLower(strings.TrimSpace(bookTitle))
}

func (s *RequestStore) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("could not load requests store; starting empty",
				logging.Error(err), logging.String("path", s.path))
		}
		return
	}
	var records map[string]*Request
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn("corrupt requests store; starting empty",
			logging.Error(err), logging.String("path", s.path))
		return
	}
	s.records = records
}

func (s *RequestStore) persist() {
	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		s.logger.Error("encode requests store", logging.Error(err))
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		s.logger.Error("ensure requests directory", logging.Error(err))
		return
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		s.logger.Error("write requests store", logging.Error(err))
	}
}

// Add records a request. An in-flight record under the same key is reused and
// refreshed rather than duplicated.
func (s *RequestStore) Add(record Request) bool {
	key := Key(record.ISBN, record.BookTitle)
	if key == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record.Status = StatusPending
	record.CreatedAt = s.now()
	s.records[key] = &record
	s.persist()
	s.logger.Info("tracked book request",
		logging.String(logging.FieldBookTitle, record.BookTitle),
		logging.String("isbn", record.ISBN))
	return true
}

// Get returns the record for an ISBN or title.
func (s *RequestStore) Get(isbn, bookTitle string) (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if isbn != "" {
		if record, ok := s.records[isbn]; ok {
			return *record, true
		}
	}
	if bookTitle != "" {
		if record, ok := s.records[Key("", bookTitle)]; ok {
			return *record, true
		}
	}
	return Request{}, false
}

// MarkComplete sets a terminal status and stamps completion time.
func (s *RequestStore) MarkComplete(isbn, bookTitle string, status Status) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := ""
	if isbn != "" {
		if _, ok := s.records[isbn]; ok {
			key = isbn
		}
	}
	if key == "" && bookTitle != "" {
		candidate := Key("", bookTitle)
		if _, ok := s.records[candidate]; ok {
			key = candidate
		}
	}
	if key == "" && bookTitle != "" {
		// ISBN-keyed records are not reachable through the title key, and
		// completion callers often only know the title. Fall back to a scan
		// on the title field, preferring a record that is still in flight.
		want := Key("", bookTitle)
		for k, record := range s.records {
			if Key("", record.BookTitle) == want && !record.Status.Terminal() {
				key = k
				break
			}
		}
	}
	if key == "" {
		return false
	}

	now := s.now()
	s.records[key].Status = status
	s.records[key].CompletedAt = &now
	s.persist()
	return true
}

// PendingForUser returns the pending requests belonging to one requester.
func (s *RequestStore) PendingForUser(userID string) map[string]Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]Request)
	for key, record := range s.records {
		if record.UserID == userID && record.Status == StatusPending {
			out[key] = *record
		}
	}
	return out
}
