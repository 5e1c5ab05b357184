package reconcile

import (
	"context"
	"fmt"
	"log/slog"

	"hardbound/internal/ledger"
	"hardbound/internal/logging"
	"hardbound/internal/services/audiobookshelf"
	"hardbound/internal/services/discord"
	"hardbound/internal/services/qbittorrent"
)

// Dispatcher turns a completed job into user-visible outcomes: the
// requester's status message flips to complete and the downstream library
// reindexes. Everything here is best effort; the monitor's processed mark
// is the durable completion record, not any message or status write.
type Dispatcher struct {
	approvals  *ledger.ApprovalStore
	requests   *ledger.RequestStore
	messenger  discord.Messenger
	refresher  audiobookshelf.Refresher
	libraryURL string
	logger     *slog.Logger
}

// NewDispatcher wires the notification dispatcher. libraryURL, when set,
// is appended to completion messages so requesters can jump straight to
// the library viewer.
func NewDispatcher(approvals *ledger.ApprovalStore, requests *ledger.RequestStore, messenger discord.Messenger, refresher audiobookshelf.Refresher, libraryURL string, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		approvals:  approvals,
		requests:   requests,
		messenger:  messenger,
		refresher:  refresher,
		libraryURL: libraryURL,
		logger:     logging.NewComponentLogger(logger, "dispatcher"),
	}
}

// NotifyCompleted announces a completed job. Jobs without an approval
// record are expected (added by hand, or predating the ledger) and only
// warrant a warning. Matching is by job id, never by name: two books with
// overlapping titles must not cross-notify.
func (d *Dispatcher) NotifyCompleted(ctx context.Context, job qbittorrent.Job) {
	defer d.refresh(ctx)

	id, record, found := d.approvals.FindByJobID(job.ID)
	if !found {
		d.logger.Warn("completed job has no approval record",
			logging.String(logging.FieldJobID, job.ID),
			logging.String(logging.FieldJobName, job.Name))
		return
	}

	if record.UserChannelID != "" && record.UserMessageID != "" {
		content := fmt.Sprintf("📚 **%s** finished downloading and is in the library.", record.BookTitle)
		if d.libraryURL != "" {
			content += fmt.Sprintf("\nBrowse it at %s", d.libraryURL)
		}
		if err := d.messenger.UpdateMessage(ctx, record.UserChannelID, record.UserMessageID, content); err != nil {
			d.logger.Warn("could not update requester's message",
				logging.String(logging.FieldApprovalID, id), logging.Error(err))
		}
	}

	if d.requests != nil {
		d.requests.MarkComplete("", record.BookTitle, ledger.StatusCompleted)
	}
	d.logger.Info("completion announced",
		logging.String(logging.FieldApprovalID, id),
		logging.String(logging.FieldBookTitle, record.BookTitle))
}

// ReportOrganizeFailure tells the admin channel that a completed download
// could not be filed. The job stays unprocessed and retries next tick, so
// the admin sees distinct reports until the cause is fixed.
func (d *Dispatcher) ReportOrganizeFailure(ctx context.Context, job qbittorrent.Job, cause error) {
	content := fmt.Sprintf("⚠️ Organization failed for **%s** (job `%s`): %v\nWill retry on the next pass.",
		job.Name, job.ID, cause)
	if err := d.messenger.NotifyAdmin(ctx, content); err != nil {
		d.logger.Warn("could not report organize failure to admin", logging.Error(err))
	}
}

func (d *Dispatcher) refresh(ctx context.Context) {
	if d.refresher == nil {
		return
	}
	if err := d.refresher.Refresh(ctx); err != nil {
		d.logger.Warn("library refresh failed", logging.Error(err))
	}
}
