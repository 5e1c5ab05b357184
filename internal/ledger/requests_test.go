package ledger

import (
	"os"
	"path/filepath"
	"testing"

	"hardbound/internal/logging"
)

func newTestRequests(t *testing.T) *RequestStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "book_requests.json")
	return NewRequestStore(path, logging.NewNop())
}

func TestRequestKey(t *testing.T) {
	if got := Key("9780441013593", "Dune"); got != "9780441013593" {
		t.Fatalf("Key with isbn = %q", got)
	}
	if got := Key("", "  Dune Messiah "); got != "dune messiah" {
		t.Fatalf("Key without isbn = %q", got)
	}
}

func TestRequestAddGetByEitherKey(t *testing.T) {
	store := newTestRequests(t)

	ok := store.Add(Request{
		ISBN:        "9780441013593",
		BookTitle:   "Dune",
		UserID:      "u1",
		RequestType: RequestEbook,
	})
	if !ok {
		t.Fatal("Add returned false")
	}

	if _, found := store.Get("9780441013593", ""); !found {
		t.Fatal("lookup by isbn failed")
	}
	// Title lookup only works for records keyed by title.
	store.Add(Request{BookTitle: "Hyperion", UserID: "u2", RequestType: RequestAudiobook})
	record, found := store.Get("", "HYPERION")
	if !found || record.UserID != "u2" {
		t.Fatalf("lookup by title = %+v %v", record, found)
	}

	if store.Add(Request{}) {
		t.Fatal("record without isbn or title accepted")
	}
}

func TestRequestReRequestOverwrites(t *testing.T) {
	store := newTestRequests(t)

	store.Add(Request{BookTitle: "Dune", UserID: "u1", RequestType: RequestEbook})
	store.Add(Request{BookTitle: "dune", UserID: "u2", RequestType: RequestEbook})

	record, found := store.Get("", "Dune")
	if !found || record.UserID != "u2" {
		t.Fatalf("re-request did not replace record: %+v %v", record, found)
	}
	if len(store.PendingForUser("u1")) != 0 {
		t.Fatal("stale record still attributed to first requester")
	}
}

func TestRequestMarkComplete(t *testing.T) {
	store := newTestRequests(t)

	store.Add(Request{BookTitle: "Dune", UserID: "u1", RequestType: RequestEbook})
	if !store.MarkComplete("", "Dune", StatusCompleted) {
		t.Fatal("MarkComplete returned false for known record")
	}

	record, _ := store.Get("", "Dune")
	if record.Status != StatusCompleted {
		t.Fatalf("status = %q, want completed", record.Status)
	}
	if record.CompletedAt == nil || record.CompletedAt.IsZero() {
		t.Fatal("CompletedAt not stamped")
	}

	if store.MarkComplete("", "Unknown Book", StatusCompleted) {
		t.Fatal("MarkComplete returned true for unknown record")
	}
}

func TestRequestMarkCompleteFindsISBNKeyedRecordByTitle(t *testing.T) {
	store := newTestRequests(t)

	store.Add(Request{ISBN: "9780441172719", BookTitle: "Dune", UserID: "u1", RequestType: RequestEbook})
	// Completion callers only know the title; the record is keyed by ISBN.
	if !store.MarkComplete("", "Dune", StatusCompleted) {
		t.Fatal("MarkComplete missed the ISBN-keyed record")
	}

	record, found := store.Get("9780441172719", "")
	if !found || record.Status != StatusCompleted {
		t.Fatalf("record = %+v found = %v", record, found)
	}
	if pending := store.PendingForUser("u1"); len(pending) != 0 {
		t.Fatalf("request still pending after completion: %v", pending)
	}
}

func TestRequestPendingForUser(t *testing.T) {
	store := newTestRequests(t)

	store.Add(Request{BookTitle: "Dune", UserID: "u1", RequestType: RequestEbook})
	store.Add(Request{BookTitle: "Hyperion", UserID: "u1", RequestType: RequestEbook})
	store.Add(Request{BookTitle: "Foundation", UserID: "u2", RequestType: RequestEbook})
	store.MarkComplete("", "Hyperion", StatusCompleted)

	pending := store.PendingForUser("u1")
	if len(pending) != 1 {
		t.Fatalf("pending count = %d, want 1", len(pending))
	}
	if _, ok := pending["dune"]; !ok {
		t.Fatalf("pending keys = %v", pending)
	}
}

func TestRequestLoadCorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book_requests.json")
	if err := os.WriteFile(path, []byte("]["), 0o644); err != nil {
		t.Fatal(err)
	}

	store := NewRequestStore(path, logging.NewNop())
	if !store.Add(Request{BookTitle: "Dune", UserID: "u1"}) {
		t.Fatal("store unusable after corrupt load")
	}
	if _, found := store.Get("", "Dune"); !found {
		t.Fatal("record missing after add")
	}
}
