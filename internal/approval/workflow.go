package approval

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"hardbound/internal/ledger"
	"hardbound/internal/logging"
	"hardbound/internal/services"
	"hardbound/internal/services/discord"
)

// JobSubmitter hands an approved release to the download client.
type JobSubmitter interface {
	AddJob(ctx context.Context, fetchURI string) (string, error)
}

// Workflow owns the approval lifecycle: opening approvals when users
// request books, changing the candidate selection, and acting on the
// admin's approve/deny decision.
//
// Messaging failures never change record state: the ledger is
// authoritative, the chat surface is best effort.
type Workflow struct {
	store          *ledger.ApprovalStore
	submitter      JobSubmitter
	messenger      discord.Messenger
	adminChannelID string
	logger         *slog.Logger
	newID          func() string
}

// NewWorkflow wires the approval workflow. adminChannelID is where new
// approvals and failure reports are posted.
func NewWorkflow(store *ledger.ApprovalStore, submitter JobSubmitter, messenger discord.Messenger, adminChannelID string, logger *slog.Logger) *Workflow {
	return &Workflow{
		store:          store,
		submitter:      submitter,
		messenger:      messenger,
		adminChannelID: adminChannelID,
		logger:         logging.NewComponentLogger(logger, "approval"),
		newID:          uuid.NewString,
	}
}

// Create opens an approval for a book request. A request for a book and
// format that already has an in-flight approval merges into it: the
// existing id is returned and no second admin message is posted.
func (w *Workflow) Create(ctx context.Context, userID, bookTitle string, requestType ledger.RequestType, candidates []ledger.Release) (string, bool, error) {
	bookTitle = strings.TrimSpace(bookTitle)
	if bookTitle == "" {
		return "", false, services.Wrap(services.ErrValidation, "approval", "create",
			"book title must not be empty", nil)
	}
	if len(candidates) == 0 {
		return "", false, services.Wrap(services.ErrValidation, "approval", "create",
			"no candidate releases to approve", nil)
	}

	if id, _, found := w.store.FindActive(bookTitle, requestType); found {
		w.logger.Info("merged duplicate request into open approval",
			logging.String(logging.FieldApprovalID, id),
			logging.String(logging.FieldBookTitle, bookTitle),
			logging.String(logging.FieldUserID, userID))
		return id, true, nil
	}

	id := w.newID()
	record := ledger.Approval{
		UserID:      userID,
		BookTitle:   bookTitle,
		RequestType: requestType,
		Candidates:  candidates,
		Selected:    bestCandidate(candidates),
	}
	if !w.store.Add(id, record) {
		return "", false, services.Wrap(services.ErrValidation, "approval", "create",
			"could not record approval", nil)
	}

	w.postMessages(ctx, id)
	return id, false, nil
}

// Select changes which candidate the admin will approve.
func (w *Workflow) Select(ctx context.Context, id string, index int) error {
	if !w.store.SetSelected(id, index) {
		return services.Wrap(services.ErrValidation, "approval", "select",
			"selection rejected: unknown approval, decided approval, or index out of range", nil)
	}
	record, _ := w.store.Get(id)
	w.editAdminMessage(ctx, id, record)
	return nil
}

// Approve submits the selected release to the download client and marks the
// record approved. A submission failure leaves the record pending so the
// admin can retry, and reports the failure to the admin channel.
func (w *Workflow) Approve(ctx context.Context, id string) error {
	record, ok := w.store.Get(id)
	if !ok {
		return services.Wrap(services.ErrNotFound, "approval", "approve",
			fmt.Sprintf("no approval %s", id), nil)
	}
	if record.Status.Terminal() {
		return services.Wrap(services.ErrTerminalState, "approval", "approve",
			fmt.Sprintf("approval already %s", record.Status), nil)
	}
	if record.Selected.DownloadURL == "" {
		return services.Wrap(services.ErrValidation, "approval", "approve",
			"selected release has no fetch uri", nil)
	}

	jobID, err := w.submitter.AddJob(ctx, record.Selected.DownloadURL)
	if err != nil {
		w.logger.Error("download submission failed",
			logging.String(logging.FieldApprovalID, id), logging.Error(err))
		w.notifyAdmin(ctx, fmt.Sprintf(
			"Could not start download for **%s**: %v\nThe approval stays open; approve again to retry.",
			record.BookTitle, err))
		return err
	}

	w.store.SetDownloadJob(id, jobID)
	w.store.Update(id, ledger.StatusApproved, "download started")
	w.logger.Info("approved request",
		logging.String(logging.FieldApprovalID, id),
		logging.String(logging.FieldJobID, jobID),
		logging.String(logging.FieldBookTitle, record.BookTitle))

	updated, _ := w.store.Get(id)
	w.editAdminMessage(ctx, id, updated)
	w.editUserMessage(ctx, updated, fmt.Sprintf(
		"✅ Your request for **%s** was approved. Downloading now.", record.BookTitle))
	return nil
}

// Deny closes the approval without downloading anything.
func (w *Workflow) Deny(ctx context.Context, id, reason string) error {
	record, ok := w.store.Get(id)
	if !ok {
		return services.Wrap(services.ErrNotFound, "approval", "deny",
			fmt.Sprintf("no approval %s", id), nil)
	}
	if record.Status.Terminal() {
		return services.Wrap(services.ErrTerminalState, "approval", "deny",
			fmt.Sprintf("approval already %s", record.Status), nil)
	}

	if reason == "" {
		reason = "denied by admin"
	}
	w.store.Update(id, ledger.StatusDenied, reason)
	w.logger.Info("denied request",
		logging.String(logging.FieldApprovalID, id),
		logging.String(logging.FieldBookTitle, record.BookTitle))

	updated, _ := w.store.Get(id)
	w.editAdminMessage(ctx, id, updated)
	w.editUserMessage(ctx, updated, fmt.Sprintf(
		"❌ Your request for **%s** was denied: %s", record.BookTitle, reason))
	return nil
}

// bestCandidate picks the default selection: most seeders, first seen wins
// ties.
func bestCandidate(candidates []ledger.Release) ledger.Release {
	best := candidates[0]
	for _, candidate := range candidates[1:] {
		if candidate.Seeders > best.Seeders {
			best = candidate
		}
	}
	return best
}

// postMessages sends the initial admin approval message and the requester's
// status message, then records their handles for later edits.
func (w *Workflow) postMessages(ctx context.Context, id string) {
	record, ok := w.store.Get(id)
	if !ok {
		return
	}

	adminChannelID, adminMessageID := "", ""
	if w.adminChannelID != "" {
		messageID, err := w.messenger.SendChannelMessage(ctx, w.adminChannelID, adminSummary(id, record))
		if err != nil {
			w.logger.Warn("could not post approval to admin channel",
				logging.String(logging.FieldApprovalID, id), logging.Error(err))
		} else {
			adminChannelID, adminMessageID = w.adminChannelID, messageID
		}
	}

	userChannelID, userMessageID, err := w.messenger.SendDirectMessage(ctx, record.UserID,
		fmt.Sprintf("📚 Your request for **%s** is waiting for approval.", record.BookTitle))
	if err != nil {
		w.logger.Warn("could not message requester",
			logging.String(logging.FieldApprovalID, id), logging.Error(err))
	}
	w.store.SetMessages(id, adminChannelID, adminMessageID, userChannelID, userMessageID)
}

func (w *Workflow) notifyAdmin(ctx context.Context, content string) {
	if err := w.messenger.NotifyAdmin(ctx, content); err != nil {
		w.logger.Warn("could not notify admin channel", logging.Error(err))
	}
}

func (w *Workflow) editAdminMessage(ctx context.Context, id string, record ledger.Approval) {
	if record.ChannelID == "" || record.MessageID == "" {
		return
	}
	if err := w.messenger.UpdateMessage(ctx, record.ChannelID, record.MessageID, adminSummary(id, record)); err != nil {
		w.logger.Warn("could not edit admin message",
			logging.String(logging.FieldApprovalID, id), logging.Error(err))
	}
}

func (w *Workflow) editUserMessage(ctx context.Context, record ledger.Approval, content string) {
	if record.UserChannelID == "" || record.UserMessageID == "" {
		return
	}
	if err := w.messenger.UpdateMessage(ctx, record.UserChannelID, record.UserMessageID, content); err != nil {
		w.logger.Warn("could not edit user message", logging.Error(err))
	}
}
