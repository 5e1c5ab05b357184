package audiobookshelf

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hardbound/internal/config"
)

func TestRefresh(t *testing.T) {
	var gotMethod, gotPath, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "abs-key", "lib-1", time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if err := client.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/api/libraries/lib-1/scan" {
		t.Fatalf("request = %s %s", gotMethod, gotPath)
	}
	if gotAuth != "Bearer abs-key" {
		t.Fatalf("authorization = %q", gotAuth)
	}
}

func TestRefreshErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer server.Close()

	client, _ := NewClient(server.URL, "abs-key", "lib-1", time.Second)
	if err := client.Refresh(context.Background()); err == nil {
		t.Fatal("expected error on 404")
	}
}

func TestNewRefresherDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.Audiobookshelf.Enabled = false
	if _, ok := NewRefresher(&cfg).(noopRefresher); !ok {
		t.Fatal("disabled integration should return noop")
	}

	cfg.Audiobookshelf.Enabled = true
	// Still incomplete: no url/key/library.
	if _, ok := NewRefresher(&cfg).(noopRefresher); !ok {
		t.Fatal("incomplete integration should return noop")
	}

	cfg.Audiobookshelf.URL = "http://abs.local"
	cfg.Audiobookshelf.APIKey = "k"
	cfg.Audiobookshelf.LibraryID = "lib"
	if _, ok := NewRefresher(&cfg).(*Client); !ok {
		t.Fatal("complete integration should return real client")
	}
}
