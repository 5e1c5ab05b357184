package ipc

import (
	"hardbound/internal/daemon"
	"hardbound/internal/ledger"
	"hardbound/internal/services/metadata"
)

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// StatusResponse mirrors the daemon runtime summary.
type StatusResponse struct {
	Status daemon.Status `json:"status"`
}

// SearchRequest looks a query up in the public book catalogs.
type SearchRequest struct {
	Query string `json:"query"`
}

// SearchResponse contains catalog matches.
type SearchResponse struct {
	Books []metadata.Book `json:"books"`
}

// RequestRequest opens a book request.
type RequestRequest struct {
	UserID string `json:"user_id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Type   string `json:"type"`
}

// RequestResponse reports the approval the request opened or merged into.
type RequestResponse struct {
	ApprovalID string           `json:"approval_id"`
	Merged     bool             `json:"merged"`
	Book       metadata.Book    `json:"book"`
	Candidates []ledger.Release `json:"candidates"`
}

// SelectRequest changes the selected candidate on a pending approval.
type SelectRequest struct {
	ApprovalID string `json:"approval_id"`
	Index      int    `json:"index"`
}

// SelectResponse acknowledges a selection change.
type SelectResponse struct {
	Selected bool `json:"selected"`
}

// ApproveRequest approves a pending request.
type ApproveRequest struct {
	ApprovalID string `json:"approval_id"`
}

// ApproveResponse reports the download job the approval became.
type ApproveResponse struct {
	DownloadJobID string `json:"download_job_id"`
}

// DenyRequest denies a pending request.
type DenyRequest struct {
	ApprovalID string `json:"approval_id"`
	Reason     string `json:"reason"`
}

// DenyResponse acknowledges a denial.
type DenyResponse struct {
	Denied bool `json:"denied"`
}

// ApprovalsRequest lists approval records, optionally filtered by status.
type ApprovalsRequest struct {
	Statuses []string `json:"statuses"`
}

// ApprovalRecord pairs an approval id with its record.
type ApprovalRecord struct {
	ID     string          `json:"id"`
	Record ledger.Approval `json:"record"`
}

// ApprovalsResponse contains approval records.
type ApprovalsResponse struct {
	Approvals []ApprovalRecord `json:"approvals"`
}

// JobsRequest lists the download jobs in the managed category.
type JobsRequest struct{}

// Job mirrors the download-client job DTO for IPC callers.
type Job struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	State    string  `json:"state"`
	Progress float64 `json:"progress"`
	Size     int64   `json:"size"`
}

// JobsResponse contains download jobs.
type JobsResponse struct {
	Jobs []Job `json:"jobs"`
}
