package ledger

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"hardbound/internal/logging"
)

// ApprovalStore is the durable ledger of approval records. Every mutation
// rewrites the whole backing file; record counts stay small (dozens), so the
// read-modify-write-all contract is acceptable. A missing or unreadable file
// loads as an empty store, never an error.
type ApprovalStore struct {
	mu      sync.Mutex
	path    string
	logger  *slog.Logger
	records map[string]*Approval
	now     func() time.Time
}

// NewApprovalStore loads the approval ledger from path.
func NewApprovalStore(path string, logger *slog.Logger) *ApprovalStore {
	logger = logging.NewComponentLogger(logger, "ledger")
	s := &ApprovalStore{
		path:    path,
		logger:  logger,
		records: make(map[string]*Approval),
		now:     time.Now,
	}
	s.load()
	return s
}

func (s *ApprovalStore) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("could not load approvals store; starting empty",
				logging.Error(err), logging.String("path", s.path))
		}
		return
	}
	var records map[string]*Approval
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn("corrupt approvals store; starting empty",
			logging.Error(err), logging.String("path", s.path))
		return
	}
	s.records = records
	s.logger.Debug("loaded approvals store", logging.Int("records", len(records)))
}

// persist rewrites the full backing file. On failure the in-memory state
// remains authoritative; the next successful write recovers from it.
func (s *ApprovalStore) persist() bool {
	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		s.logger.Error("encode approvals store", logging.Error(err))
		return false
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		s.logger.Error("ensure approvals directory", logging.Error(err))
		return false
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		s.logger.Error("write approvals store", logging.Error(err))
		return false
	}
	return true
}

// Add inserts a new approval record with status pending. Returns false (after
// logging) on persistence failure or duplicate id; never panics or raises.
func (s *ApprovalStore) Add(id string, record Approval) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[id]; exists {
		s.logger.Warn("approval id already exists", logging.String(logging.FieldApprovalID, id))
		return false
	}
	record.Status = StatusPending
	record.CreatedAt = s.now()
	s.records[id] = &record
	if !s.persist() {
		return false
	}
	s.logger.Info("added pending approval",
		logging.String(logging.FieldApprovalID, id),
		logging.String(logging.FieldBookTitle, record.BookTitle))
	return true
}

// Update mutates the status (and optional result) of an existing record.
// Unknown ids are a no-op returning false. A failed write also returns
// false; the in-memory mutation stands and the next successful write
// recovers it.
func (s *ApprovalStore) Update(id string, status Status, result string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[id]
	if !ok {
		return false
	}
	record.Status = status
	if result != "" {
		record.Result = result
	}
	record.UpdatedAt = s.now()
	if !s.persist() {
		return false
	}
	s.logger.Info("updated approval",
		logging.String(logging.FieldApprovalID, id),
		logging.String("status", string(status)))
	return true
}

// SetDownloadJob records the download-client job id on an approved record.
func (s *ApprovalStore) SetDownloadJob(id, jobID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[id]
	if !ok {
		return false
	}
	record.DownloadJobID = jobID
	record.UpdatedAt = s.now()
	s.persist()
	return true
}

// SetSelected changes which candidate release is selected. Valid only while
// the record is pending; index out of range or terminal status returns false.
func (s *ApprovalStore) SetSelected(id string, index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[id]
	if !ok || record.Status.Terminal() {
		return false
	}
	if index < 0 || index >= len(record.Candidates) {
		return false
	}
	record.Selected = record.Candidates[index]
	record.UpdatedAt = s.now()
	s.persist()
	return true
}

// SetMessages stores the admin and user message handles once known.
func (s *ApprovalStore) SetMessages(id, channelID, messageID, userChannelID, userMessageID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[id]
	if !ok {
		return false
	}
	if messageID != "" {
		record.ChannelID = channelID
		record.MessageID = messageID
	}
	if userMessageID != "" {
		record.UserChannelID = userChannelID
		record.UserMessageID = userMessageID
	}
	record.UpdatedAt = s.now()
	s.persist()
	return true
}

// Get returns a copy of the record for id.
func (s *ApprovalStore) Get(id string) (Approval, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[id]
	if !ok {
		return Approval{}, false
	}
	return *record, true
}

// FindByJobID locates the record whose download_job_id equals jobID. The scan
// is linear; at this system's scale (dozens of records) that is fine, and it
// guarantees exact-id matching rather than name-substring matching.
func (s *ApprovalStore) FindByJobID(jobID string) (string, Approval, bool) {
	if jobID == "" {
		return "", Approval{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, record := range s.records {
		if record.DownloadJobID == jobID {
			return id, *record, true
		}
	}
	return "", Approval{}, false
}

// FindByUserMessageID locates the record whose user status message matches.
func (s *ApprovalStore) FindByUserMessageID(messageID string) (string, Approval, bool) {
	if messageID == "" {
		return "", Approval{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, record := range s.records {
		if record.UserMessageID == messageID {
			return id, *record, true
		}
	}
	return "", Approval{}, false
}

// FindActive returns the non-terminal record for a book/format pair, if any.
// Used to merge duplicate requests instead of opening a second approval.
func (s *ApprovalStore) FindActive(bookTitle string, requestType RequestType) (string, Approval, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, record := range s.records {
		if record.Status == StatusDenied || record.Status == StatusCompleted {
			continue
		}
		if record.BookTitle == bookTitle && record.RequestType == requestType {
			return id, *record, true
		}
	}
	return "", Approval{}, false
}

// All returns a copy of every record keyed by approval id.
func (s *ApprovalStore) All() map[string]Approval {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]Approval, len(s.records))
	for id, record := range s.records {
		out[id] = *record
	}
	return out
}
