package processed

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"hardbound/internal/logging"
)

// Set is the durable record of download jobs the completion monitor has
// already organized and announced. Membership is the idempotency guard: a
// job id in the set is never organized or announced again, even across
// daemon restarts.
type Set struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
	ids    map[string]struct{}
	now    func() time.Time
}

type fileFormat struct {
	ProcessedHashes []string `json:"processed_hashes"`
	LastUpdated     string   `json:"last_updated"`
}

// NewSet loads the processed-job set from path. A missing or corrupt file
// loads as an empty set.
func NewSet(path string, logger *slog.Logger) *Set {
	logger = logging.NewComponentLogger(logger, "processed")
	s := &Set{
		path:   path,
		logger: logger,
		ids:    make(map[string]struct{}),
		now:    time.Now,
	}
	s.load()
	return s
}

func (s *Set) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("could not load processed set; starting empty",
				logging.Error(err), logging.String("path", s.path))
		}
		return
	}
	var contents fileFormat
	if err := json.Unmarshal(data, &contents); err != nil {
		s.logger.Warn("corrupt processed set; starting empty",
			logging.Error(err), logging.String("path", s.path))
		return
	}
	for _, id := range contents.ProcessedHashes {
		s.ids[id] = struct{}{}
	}
	s.logger.Debug("loaded processed set", logging.Int("jobs", len(s.ids)))
}

// IsProcessed reports whether jobID has already been handled.
func (s *Set) IsProcessed(jobID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[jobID]
	return ok
}

// MarkProcessed adds jobID to the set and persists immediately so a crash
// between ticks cannot replay the job's side effects.
func (s *Set) MarkProcessed(jobID string) error {
	if jobID == "" {
		return errors.New("empty job id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ids[jobID] = struct{}{}
	if err := s.persist(); err != nil {
		return err
	}
	s.logger.Info("marked job processed", logging.String(logging.FieldJobID, jobID))
	return nil
}

// Len returns the number of processed jobs.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

func (s *Set) persist() error {
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	contents := fileFormat{
		ProcessedHashes: ids,
		LastUpdated:     s.now().UTC().Format(time.RFC3339),
	}
	data, err := json.MarshalIndent(contents, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}
