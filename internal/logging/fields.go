package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldApprovalID is the standardized structured logging key for approval record identifiers.
	FieldApprovalID = "approval_id"
	// FieldJobID is the standardized structured logging key for download-job identifiers.
	FieldJobID = "job_id"
	// FieldJobName is the standardized structured logging key for download-job display names.
	FieldJobName = "job_name"
	// FieldBookTitle is the standardized structured logging key for book titles.
	FieldBookTitle = "book_title"
	// FieldUserID is the standardized structured logging key for requester identities.
	FieldUserID = "user_id"
	// FieldEventType tags log records with a machine-readable event discriminator.
	FieldEventType = "event_type"
	// FieldErrorHint carries a suggested operator action alongside an error.
	FieldErrorHint = "error_hint"
)
