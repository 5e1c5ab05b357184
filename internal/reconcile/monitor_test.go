package reconcile

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"hardbound/internal/ledger"
	"hardbound/internal/logging"
	"hardbound/internal/processed"
	"hardbound/internal/services/qbittorrent"
)

type fakeSource struct {
	mu         sync.Mutex
	jobs       []qbittorrent.Job
	connectErr error
	listErr    error
	listCalls  int
}

func (f *fakeSource) Connect(context.Context) error { return f.connectErr }

func (f *fakeSource) ListJobs(context.Context) ([]qbittorrent.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]qbittorrent.Job(nil), f.jobs...), nil
}

type fakeOrganizer struct {
	mu   sync.Mutex
	runs int
	err  error
}

func (f *fakeOrganizer) Run(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs++
	return f.err
}

func (f *fakeOrganizer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.runs
}

type recordingMessenger struct {
	mu     sync.Mutex
	edits  []string
	admins []string
}

func (r *recordingMessenger) SendChannelMessage(context.Context, string, string) (string, error) {
	return "msg", nil
}

func (r *recordingMessenger) UpdateMessage(_ context.Context, _, _, content string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.edits = append(r.edits, content)
	return nil
}

func (r *recordingMessenger) SendDirectMessage(context.Context, string, string) (string, string, error) {
	return "dm", "msg", nil
}

func (r *recordingMessenger) NotifyAdmin(_ context.Context, content string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.admins = append(r.admins, content)
	return nil
}

type countingRefresher struct {
	mu    sync.Mutex
	calls int
}

func (c *countingRefresher) Refresh(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return nil
}

type harness struct {
	monitor   *Monitor
	source    *fakeSource
	organizer *fakeOrganizer
	set       *processed.Set
	approvals *ledger.ApprovalStore
	requests  *ledger.RequestStore
	messenger *recordingMessenger
	refresher *countingRefresher
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	set := processed.NewSet(filepath.Join(dir, "processed.json"), logging.NewNop())
	approvals := ledger.NewApprovalStore(filepath.Join(dir, "approvals.json"), logging.NewNop())
	requests := ledger.NewRequestStore(filepath.Join(dir, "requests.json"), logging.NewNop())
	source := &fakeSource{}
	organizer := &fakeOrganizer{}
	messenger := &recordingMessenger{}
	refresher := &countingRefresher{}
	dispatcher := NewDispatcher(approvals, requests, messenger, refresher, "", logging.NewNop())
	monitor := NewMonitor(source, set, organizer, dispatcher, time.Hour, time.Hour, logging.NewNop())
	return &harness{
		monitor:   monitor,
		source:    source,
		organizer: organizer,
		set:       set,
		approvals: approvals,
		requests:  requests,
		messenger: messenger,
		refresher: refresher,
	}
}

func seedApproval(h *harness, id, title, jobID, userID string) {
	h.approvals.Add(id, ledger.Approval{UserID: userID, BookTitle: title, RequestType: ledger.RequestEbook})
	h.approvals.SetMessages(id, "admin-chan", "admin-msg", "dm-"+userID, "user-msg")
	h.approvals.Update(id, ledger.StatusApproved, "")
	h.approvals.SetDownloadJob(id, jobID)
}

func TestTickCompletesJobExactlyOnce(t *testing.T) {
	h := newHarness(t)
	seedApproval(h, "a1", "Dune", "hash-dune", "u1")
	h.source.jobs = []qbittorrent.Job{
		{ID: "hash-dune", Name: "Dune.epub", State: qbittorrent.StateSeeding, Progress: 0.99},
	}

	if err := h.monitor.Tick(context.Background()); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if h.organizer.count() != 1 {
		t.Fatalf("organizer runs = %d, want 1", h.organizer.count())
	}
	if len(h.messenger.edits) != 1 || !strings.Contains(h.messenger.edits[0], "Dune") {
		t.Fatalf("user message edits = %v", h.messenger.edits)
	}
	if !h.set.IsProcessed("hash-dune") {
		t.Fatal("job not marked processed")
	}

	// Second tick: job still listed (seeding), but nothing reruns.
	if err := h.monitor.Tick(context.Background()); err != nil {
		t.Fatalf("second Tick: %v", err)
	}
	if h.organizer.count() != 1 {
		t.Fatalf("organizer reran on processed job: %d", h.organizer.count())
	}
	if len(h.messenger.edits) != 1 {
		t.Fatalf("duplicate notification: %v", h.messenger.edits)
	}
}

func TestTickSkipsIncompleteJobs(t *testing.T) {
	h := newHarness(t)
	h.source.jobs = []qbittorrent.Job{
		{ID: "hash-1", Name: "partial", State: qbittorrent.StateDownloading, Progress: 0.5},
		{ID: "hash-2", Name: "paused partial", State: qbittorrent.StatePaused, Progress: 0.7},
		{ID: "hash-3", Name: "errored", State: qbittorrent.StateError, Progress: 0.3},
	}

	if err := h.monitor.Tick(context.Background()); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if h.organizer.count() != 0 {
		t.Fatal("incomplete job triggered organization")
	}
	if h.set.Len() != 0 {
		t.Fatal("incomplete job marked processed")
	}
}

func TestTickConnectFailureSkipsQuietly(t *testing.T) {
	h := newHarness(t)
	h.source.connectErr = errors.New("connection refused")
	h.source.jobs = []qbittorrent.Job{{ID: "hash-1", State: qbittorrent.StateSeeding}}

	if err := h.monitor.Tick(context.Background()); err == nil {
		t.Fatal("connect failure not reported to loop")
	}
	if h.source.listCalls != 0 {
		t.Fatal("listed jobs despite failed connect")
	}
	if h.organizer.count() != 0 {
		t.Fatal("organized despite failed connect")
	}
}

func TestOrganizeFailureRetriesAndAlertsAdmin(t *testing.T) {
	h := newHarness(t)
	seedApproval(h, "a1", "Dune", "hash-dune", "u1")
	h.source.jobs = []qbittorrent.Job{
		{ID: "hash-dune", Name: "Dune.epub", State: qbittorrent.StateSeeding, Progress: 1.0},
	}
	h.organizer.err = errors.New("disk full")

	if err := h.monitor.Tick(context.Background()); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if h.set.IsProcessed("hash-dune") {
		t.Fatal("failed job marked processed")
	}
	if len(h.messenger.admins) != 1 || !strings.Contains(h.messenger.admins[0], "disk full") {
		t.Fatalf("admin alerts = %v", h.messenger.admins)
	}
	if len(h.messenger.edits) != 0 {
		t.Fatal("user notified despite organize failure")
	}

	// The cause clears; the next tick finishes the job.
	h.organizer.err = nil
	if err := h.monitor.Tick(context.Background()); err != nil {
		t.Fatalf("retry Tick: %v", err)
	}
	if !h.set.IsProcessed("hash-dune") {
		t.Fatal("job not completed after retry")
	}
	if len(h.messenger.edits) != 1 {
		t.Fatalf("user edits after retry = %v", h.messenger.edits)
	}
}

func TestTickIsolatesPerJobFailures(t *testing.T) {
	h := newHarness(t)
	seedApproval(h, "a1", "Dune", "hash-1", "u1")
	seedApproval(h, "a2", "Hyperion", "hash-2", "u2")
	h.source.jobs = []qbittorrent.Job{
		{ID: "hash-1", Name: "Dune", State: qbittorrent.StateSeeding},
		{ID: "hash-2", Name: "Hyperion", State: qbittorrent.StateSeeding},
	}
	// Organizer fails on the first run only; the second job in the same
	// tick must still be attempted.
	calls := 0
	flaky := organizerFunc(func(context.Context) error {
		calls++
		if calls == 1 {
			return errors.New("transient")
		}
		return nil
	})
	h.monitor.organizer = flaky

	if err := h.monitor.Tick(context.Background()); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if h.set.IsProcessed("hash-1") {
		t.Fatal("failed job marked processed")
	}
	if !h.set.IsProcessed("hash-2") {
		t.Fatal("second job not handled after first failed")
	}
}

type organizerFunc func(context.Context) error

func (f organizerFunc) Run(ctx context.Context) error { return f(ctx) }

func TestOrphanJobWarnsAndStillCompletes(t *testing.T) {
	h := newHarness(t)
	h.source.jobs = []qbittorrent.Job{
		{ID: "hash-manual", Name: "manually added", State: qbittorrent.StateSeeding},
	}

	if err := h.monitor.Tick(context.Background()); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if !h.set.IsProcessed("hash-manual") {
		t.Fatal("orphan job not marked processed")
	}
	if len(h.messenger.edits) != 0 {
		t.Fatal("orphan job produced a user notification")
	}
	if h.refresher.calls != 1 {
		t.Fatalf("refresh calls = %d, want 1", h.refresher.calls)
	}
}

func TestNotifyMatchesByJobIDNotName(t *testing.T) {
	h := newHarness(t)
	seedApproval(h, "a1", "Dune", "hash-dune", "u1")
	seedApproval(h, "a2", "Dune Messiah", "hash-messiah", "u2")
	h.source.jobs = []qbittorrent.Job{
		{ID: "hash-messiah", Name: "Dune Messiah", State: qbittorrent.StateSeeding},
	}

	if err := h.monitor.Tick(context.Background()); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if len(h.messenger.edits) != 1 || !strings.Contains(h.messenger.edits[0], "Dune Messiah") {
		t.Fatalf("edits = %v", h.messenger.edits)
	}
	record, _ := h.requests.Get("", "Dune")
	if record.Status == ledger.StatusCompleted {
		t.Fatal("wrong request marked complete")
	}
}

func TestStartIsIdempotentAndStops(t *testing.T) {
	h := newHarness(t)
	h.source.jobs = nil

	ctx := context.Background()
	h.monitor.Start(ctx)
	h.monitor.Start(ctx) // no-op
	h.monitor.Stop()
	h.monitor.Stop() // no-op

	// Restart works after a stop.
	h.monitor.Start(ctx)
	h.monitor.Stop()
}

func TestProcessedSurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "processed.json")

	build := func() *harness {
		set := processed.NewSet(path, logging.NewNop())
		approvals := ledger.NewApprovalStore(filepath.Join(dir, "approvals.json"), logging.NewNop())
		requests := ledger.NewRequestStore(filepath.Join(dir, "requests.json"), logging.NewNop())
		source := &fakeSource{jobs: []qbittorrent.Job{
			{ID: "hash-1", Name: "Dune", State: qbittorrent.StateSeeding},
		}}
		organizer := &fakeOrganizer{}
		messenger := &recordingMessenger{}
		dispatcher := NewDispatcher(approvals, requests, messenger, &countingRefresher{}, "", logging.NewNop())
		return &harness{
			monitor:   NewMonitor(source, set, organizer, dispatcher, time.Hour, time.Hour, logging.NewNop()),
			organizer: organizer,
			set:       set,
		}
	}

	first := build()
	if err := first.monitor.Tick(context.Background()); err != nil {
		t.Fatal(err)
	}
	if first.organizer.count() != 1 {
		t.Fatal("first run did not organize")
	}

	second := build()
	if err := second.monitor.Tick(context.Background()); err != nil {
		t.Fatal(err)
	}
	if second.organizer.count() != 0 {
		t.Fatal("restart replayed an already processed job")
	}
}

func TestMonitorLoopTicksOnStart(t *testing.T) {
	h := newHarness(t)

	done := make(chan struct{})
	h.monitor.interval = 5 * time.Millisecond
	h.monitor.retry = 5 * time.Millisecond
	go func() {
		defer close(done)
		h.monitor.Start(context.Background())
		deadline := time.After(2 * time.Second)
		for {
			h.source.mu.Lock()
			calls := h.source.listCalls
			h.source.mu.Unlock()
			if calls >= 2 {
				h.monitor.Stop()
				return
			}
			select {
			case <-deadline:
				h.monitor.Stop()
				return
			case <-time.After(5 * time.Millisecond):
			}
		}
	}()
	<-done

	h.source.mu.Lock()
	defer h.source.mu.Unlock()
	if h.source.listCalls < 2 {
		t.Fatalf("list calls = %d, want repeated polling", h.source.listCalls)
	}
}

func TestReportOrganizeFailureContent(t *testing.T) {
	h := newHarness(t)
	job := qbittorrent.Job{ID: "hash-x", Name: "Some Book"}
	h.monitor.dispatcher.ReportOrganizeFailure(context.Background(), job, fmt.Errorf("ssh handshake failed"))

	if len(h.messenger.admins) != 1 {
		t.Fatalf("admin messages = %v", h.messenger.admins)
	}
	for _, want := range []string{"Some Book", "hash-x", "ssh handshake failed"} {
		if !strings.Contains(h.messenger.admins[0], want) {
			t.Fatalf("admin alert missing %q: %s", want, h.messenger.admins[0])
		}
	}
}

func TestCompletionMessageLinksLibraryWhenConfigured(t *testing.T) {
	h := newHarness(t)
	seedApproval(h, "a1", "Dune", "hash-1", "u1")

	dispatcher := NewDispatcher(h.approvals, h.requests, h.messenger, h.refresher,
		"https://books.example.net", logging.NewNop())
	dispatcher.NotifyCompleted(context.Background(), qbittorrent.Job{ID: "hash-1", Name: "Dune"})

	if len(h.messenger.edits) != 1 {
		t.Fatalf("edits = %v", h.messenger.edits)
	}
	if !strings.Contains(h.messenger.edits[0], "https://books.example.net") {
		t.Fatalf("completion message missing library link: %s", h.messenger.edits[0])
	}
}
