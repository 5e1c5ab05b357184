package processed

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"hardbound/internal/logging"
)

func TestMarkAndCheck(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processed_jobs.json")
	set := NewSet(path, logging.NewNop())

	if set.IsProcessed("hash-1") {
		t.Fatal("empty set reported job as processed")
	}
	if err := set.MarkProcessed("hash-1"); err != nil {
		t.Fatalf("MarkProcessed: %v", err)
	}
	if !set.IsProcessed("hash-1") {
		t.Fatal("marked job not reported as processed")
	}
	if err := set.MarkProcessed(""); err == nil {
		t.Fatal("empty job id accepted")
	}
}

func TestPersistsAcrossReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processed_jobs.json")

	first := NewSet(path, logging.NewNop())
	first.MarkProcessed("hash-1")
	first.MarkProcessed("hash-2")

	second := NewSet(path, logging.NewNop())
	if !second.IsProcessed("hash-1") || !second.IsProcessed("hash-2") {
		t.Fatal("processed jobs lost across reload")
	}
	if second.Len() != 2 {
		t.Fatalf("Len = %d, want 2", second.Len())
	}
}

func TestFileFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processed_jobs.json")
	set := NewSet(path, logging.NewNop())
	set.MarkProcessed("hash-b")
	set.MarkProcessed("hash-a")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var contents struct {
		ProcessedHashes []string `json:"processed_hashes"`
		LastUpdated     string   `json:"last_updated"`
	}
	if err := json.Unmarshal(data, &contents); err != nil {
		t.Fatalf("backing file not valid JSON: %v", err)
	}
	if len(contents.ProcessedHashes) != 2 || contents.ProcessedHashes[0] != "hash-a" {
		t.Fatalf("processed_hashes = %v", contents.ProcessedHashes)
	}
	if contents.LastUpdated == "" {
		t.Fatal("last_updated missing")
	}
}

func TestCorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processed_jobs.json")
	if err := os.WriteFile(path, []byte("nope"), 0o644); err != nil {
		t.Fatal(err)
	}

	set := NewSet(path, logging.NewNop())
	if set.Len() != 0 {
		t.Fatal("corrupt file did not load empty")
	}
	if err := set.MarkProcessed("hash-1"); err != nil {
		t.Fatalf("set unusable after corrupt load: %v", err)
	}
}
