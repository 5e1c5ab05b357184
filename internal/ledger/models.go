package ledger

import "time"

// Status tracks an approval record through its lifecycle.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusDenied    Status = "denied"
	StatusCompleted Status = "completed"
)

// Terminal reports whether no further approve/deny transition is permitted.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusDenied || s == StatusCompleted
}

// RequestType distinguishes the two media formats users can ask for.
type RequestType string

const (
	RequestEbook     RequestType = "ebook"
	RequestAudiobook RequestType = "audiobook"
)

// Release is one downloadable candidate returned by the indexer aggregator.
type Release struct {
	Title       string `json:"title"`
	DownloadURL string `json:"download_url"`
	Seeders     int    `json:"seeders"`
	Leechers    int    `json:"leechers"`
	Size        int64  `json:"size"`
	Indexer     string `json:"indexer"`
	PublishDate string `json:"publish_date,omitempty"`
	GUID        string `json:"guid,omitempty"`
}

// Approval is one admin-facing decision unit: a requester, the candidate
// releases offered for their book, the current selection, and (after the
// admin approves) the download job the selection became.
//
// DownloadJobID is set only after submission to the download client; the
// completion monitor matches on it, never on the book title, so jobs whose
// names share substrings cannot cross-match.
type Approval struct {
	UserID      string      `json:"user_id"`
	BookTitle   string      `json:"book_title"`
	RequestType RequestType `json:"request_type"`

	Candidates []Release `json:"torrent_results"`
	Selected   Release   `json:"selected_torrent"`

	// Admin approval message handle.
	MessageID string `json:"message_id,omitempty"`
	ChannelID string `json:"channel_id,omitempty"`
	// User-facing status message handle.
	UserMessageID string `json:"user_message_id,omitempty"`
	UserChannelID string `json:"user_channel_id,omitempty"`

	Status        Status    `json:"status"`
	DownloadJobID string    `json:"download_job_id,omitempty"`
	Result        string    `json:"result,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at,omitempty"`
}

// Request is the simpler legacy-shaped record keyed by ISBN or normalized
// title, used to track one user's book request end to end.
type Request struct {
	ISBN        string      `json:"isbn,omitempty"`
	BookTitle   string      `json:"book_title"`
	UserID      string      `json:"user_id"`
	MessageID   string      `json:"message_id,omitempty"`
	ChannelID   string      `json:"channel_id,omitempty"`
	RequestType RequestType `json:"request_type"`

	AdminMessageID string `json:"admin_message_id,omitempty"`
	AdminChannelID string `json:"admin_channel_id,omitempty"`

	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
