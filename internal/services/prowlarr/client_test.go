package prowlarr

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSearchOrdersBySeeders(t *testing.T) {
	var gotPath, gotKey, gotQuery, gotCategories string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("X-Api-Key")
		gotQuery = r.URL.Query().Get("query")
		gotCategories = r.URL.Query().Get("categories")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"title":"Dune epub","downloadUrl":"http://dl/1","seeders":12,"leechers":1,"size":2048,"indexer":"alpha"},
			{"title":"Dune audiobook","downloadUrl":"http://dl/2","seeders":40,"leechers":3,"size":900000,"indexer":"beta"},
			{"title":"Dune mobi","magnetUrl":"magnet:?xt=3","seeders":40,"leechers":0,"size":1024,"indexer":"gamma"},
			{"title":"no fetch uri","seeders":99}
		]`))
	}))
	defer server.Close()

	client, err := New(server.URL, "secret")
	if err != nil {
		t.Fatal(err)
	}
	releases, err := client.Search(context.Background(), "Dune", 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if gotPath != "/api/v1/search" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotKey != "secret" {
		t.Fatalf("api key header = %q", gotKey)
	}
	if gotQuery != "Dune" {
		t.Fatalf("query = %q", gotQuery)
	}
	if gotCategories != "" {
		t.Fatalf("unexpected category filter %q", gotCategories)
	}

	if len(releases) != 3 {
		t.Fatalf("release count = %d, want 3 (entry without fetch uri dropped)", len(releases))
	}
	if releases[0].Title != "Dune audiobook" {
		t.Fatalf("first release = %q, want highest seeders with earliest position", releases[0].Title)
	}
	if releases[1].Title != "Dune mobi" || releases[1].DownloadURL != "magnet:?xt=3" {
		t.Fatalf("magnet fallback not applied: %+v", releases[1])
	}
}

func TestSearchLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"title":"a","downloadUrl":"http://dl/a","seeders":3},
			{"title":"b","downloadUrl":"http://dl/b","seeders":2},
			{"title":"c","downloadUrl":"http://dl/c","seeders":1}
		]`))
	}))
	defer server.Close()

	client, _ := New(server.URL, "secret")
	releases, err := client.Search(context.Background(), "anything", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(releases) != 2 {
		t.Fatalf("limit not applied, got %d", len(releases))
	}
}

func TestSearchErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client, _ := New(server.URL, "secret")
	if _, err := client.Search(context.Background(), "Dune", 0); err == nil {
		t.Fatal("expected error on 401")
	}
	if _, err := client.Search(context.Background(), "   ", 0); err == nil {
		t.Fatal("expected error on empty query")
	}
}

func TestNewValidation(t *testing.T) {
	if _, err := New("", "key"); err == nil {
		t.Fatal("missing url accepted")
	}
	if _, err := New("http://host", ""); err == nil {
		t.Fatal("missing api key accepted")
	}
}
