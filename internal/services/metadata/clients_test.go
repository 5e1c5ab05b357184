package metadata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"hardbound/internal/logging"
)

func TestGoogleBooksSearch(t *testing.T) {
	var gotQuery, gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotKey = r.URL.Query().Get("key")
		w.Write([]byte(`{"items":[{"volumeInfo":{
			"title":"Project Hail Mary",
			"authors":["Andy Weir"],
			"publishedDate":"2021-05-04",
			"description":"A lone astronaut.",
			"industryIdentifiers":[
				{"type":"ISBN_10","identifier":"0593135202"},
				{"type":"ISBN_13","identifier":"9780593135204"}],
			"imageLinks":{"thumbnail":"http://img/phm.jpg"}
		}},{"volumeInfo":{"authors":["No Title"]}}]}`))
	}))
	defer server.Close()

	client, err := NewGoogleBooksClient(server.URL, "gk")
	if err != nil {
		t.Fatal(err)
	}
	books, err := client.Search(context.Background(), "Project Hail Mary", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if gotQuery != "Project Hail Mary" || gotKey != "gk" {
		t.Fatalf("query params: q=%q key=%q", gotQuery, gotKey)
	}
	if len(books) != 1 {
		t.Fatalf("book count = %d, want 1 (untitled entry skipped)", len(books))
	}
	book := books[0]
	if book.ISBN10 != "0593135202" || book.ISBN13 != "9780593135204" {
		t.Fatalf("isbns = %q %q", book.ISBN10, book.ISBN13)
	}
	if book.FirstPublish != 2021 {
		t.Fatalf("year = %d", book.FirstPublish)
	}
	if book.CoverURL != "http://img/phm.jpg" || !book.HasEbook {
		t.Fatalf("book = %+v", book)
	}
}

func TestOpenLibrarySearchFilters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search.json" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"docs":[
			{"title":"Dune","author_name":["Frank Herbert"],"first_publish_year":1965,
			 "isbn":["9780441013593"],"isbn_10":["0441013597"],"cover_i":11481354,
			 "has_fulltext":true,"subject":["Science fiction","Audiobook"]},
			{"title":"No ISBN","author_name":["Somebody"],"has_fulltext":true},
			{"title":"Physical Only","author_name":["Somebody"],"isbn":["123"],
			 "has_fulltext":false,"subject":["Gardening"]}
		]}`))
	}))
	defer server.Close()

	client, err := NewOpenLibraryClient(server.URL, "http://covers.test/b")
	if err != nil {
		t.Fatal(err)
	}
	books, err := client.Search(context.Background(), "Dune", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(books) != 1 {
		t.Fatalf("book count = %d, want 1", len(books))
	}
	book := books[0]
	if book.ISBN13 != "9780441013593" || book.ISBN10 != "0441013597" {
		t.Fatalf("isbns = %q %q", book.ISBN13, book.ISBN10)
	}
	if book.CoverURL != "http://covers.test/b/id/11481354-M.jpg" {
		t.Fatalf("cover url = %q", book.CoverURL)
	}
	if !book.HasEbook || !book.HasAudiobook {
		t.Fatalf("availability = ebook:%v audiobook:%v", book.HasEbook, book.HasAudiobook)
	}
}

func TestCatalogDegradesOnProviderFailure(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer broken.Close()
	working := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"docs":[{"title":"Dune","author_name":["Frank Herbert"],
			"isbn":["9780441013593"],"has_fulltext":true}]}`))
	}))
	defer working.Close()

	google, _ := NewGoogleBooksClient(broken.URL, "")
	openLibrary, _ := NewOpenLibraryClient(working.URL, "")
	catalog := NewCatalog(google, openLibrary, logging.NewNop())

	books, err := catalog.Search(context.Background(), "Dune", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(books) != 1 || books[0].Title != "Dune" {
		t.Fatalf("books = %+v", books)
	}
}

func TestExtractYear(t *testing.T) {
	cases := map[string]int{
		"2021-05-04": 2021,
		"1965":       1965,
		"":           0,
		"n/a":        0,
	}
	for in, want := range cases {
		if got := extractYear(in); got != want {
			t.Errorf("extractYear(%q) = %d, want %d", in, got, want)
		}
	}
}
