package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hardbound/internal/config"
	"hardbound/internal/logging"
)

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestNewFromConfigWritesLogFile(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LogDir = dir
	cfg.Logging.Format = "json"
	cfg.Logging.Level = "debug"

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	logger.Info("hello", logging.String("book_title", "Dune"))

	data, err := os.ReadFile(filepath.Join(dir, "hardbound.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"book_title":"Dune"`) {
		t.Fatalf("expected structured attr in log file, got %s", data)
	}
}

func TestTeeHandlerDuplicatesRecords(t *testing.T) {
	var first, second bytes.Buffer
	h := logging.TeeHandler(
		slog.NewTextHandler(&first, nil),
		slog.NewTextHandler(&second, nil),
	)
	logger := slog.New(h)
	logger.Warn("completed", logging.String("job_id", "abc"))

	for name, buf := range map[string]*bytes.Buffer{"first": &first, "second": &second} {
		if !strings.Contains(buf.String(), "job_id=abc") {
			t.Fatalf("%s handler missing record: %q", name, buf.String())
		}
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("expected nop logger to be disabled at every level")
	}
}

func TestComponentLoggerAddsAttr(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, nil))
	logger := logging.NewComponentLogger(base, "monitor")
	logger.Info("tick")
	if !strings.Contains(buf.String(), "component=monitor") {
		t.Fatalf("expected component attr, got %q", buf.String())
	}
}
