package metadata

import "testing"

func TestDedupKeyStripsSeriesSuffix(t *testing.T) {
	cases := []struct {
		title   string
		authors []string
		want    string
	}{
		{"Fourth Wing - The Empyrean #1", []string{"Rebecca Yarros"}, "fourth wing|rebecca"},
		{"Fourth Wing (The Empyrean #1)", []string{"Rebecca Yarros"}, "fourth wing|rebecca"},
		{"Fourth Wing", []string{"Rebecca Yarros"}, "fourth wing|rebecca"},
		{"Dune", nil, "dune|"},
		{"  DUNE  ", []string{"Frank Herbert"}, "dune|frank"},
	}
	for _, tc := range cases {
		if got := dedupKey(tc.title, tc.authors); got != tc.want {
			t.Errorf("dedupKey(%q, %v) = %q, want %q", tc.title, tc.authors, got, tc.want)
		}
	}
}

func TestMergePrimaryWins(t *testing.T) {
	primary := []Book{
		{Title: "Dune", Authors: []string{"Frank Herbert"}, ISBN13: "9780441013593", Source: "openlibrary"},
	}
	secondary := []Book{
		{Title: "Dune (Dune #1)", Authors: []string{"Frank Herbert"}, Description: "Spice.", CoverURL: "http://covers/dune.jpg", Source: "googlebooks"},
		{Title: "Dune Messiah", Authors: []string{"Frank Herbert"}, Source: "googlebooks"},
	}

	merged := Merge(primary, secondary)
	if len(merged) != 2 {
		t.Fatalf("merged count = %d, want 2", len(merged))
	}
	dune := merged[0]
	if dune.Source != "openlibrary" || dune.ISBN13 != "9780441013593" {
		t.Fatalf("primary record replaced: %+v", dune)
	}
	if dune.CoverURL != "http://covers/dune.jpg" {
		t.Fatal("secondary cover did not fill the gap")
	}
	if dune.Description != "Spice." {
		t.Fatal("secondary description did not fill the gap")
	}
	if merged[1].Title != "Dune Messiah" {
		t.Fatalf("secondary-only record missing: %+v", merged[1])
	}
}

func TestMergeDoesNotOverwritePresentCover(t *testing.T) {
	primary := []Book{{Title: "Dune", Authors: []string{"Frank Herbert"}, CoverURL: "http://ol/dune.jpg"}}
	secondary := []Book{{Title: "Dune", Authors: []string{"Frank Herbert"}, CoverURL: "http://gb/dune.jpg"}}

	merged := Merge(primary, secondary)
	if merged[0].CoverURL != "http://ol/dune.jpg" {
		t.Fatalf("cover overwritten: %q", merged[0].CoverURL)
	}
}

func TestMergePreservesOrder(t *testing.T) {
	primary := []Book{
		{Title: "Hyperion", Authors: []string{"Dan Simmons"}},
		{Title: "Ilium", Authors: []string{"Dan Simmons"}},
	}
	secondary := []Book{
		{Title: "Olympos", Authors: []string{"Dan Simmons"}},
	}

	merged := Merge(primary, secondary)
	want := []string{"Hyperion", "Ilium", "Olympos"}
	for i, title := range want {
		if merged[i].Title != title {
			t.Fatalf("merged[%d] = %q, want %q", i, merged[i].Title, title)
		}
	}
}

func TestSearchQuery(t *testing.T) {
	book := Book{Title: "Dune", Authors: []string{"Frank Herbert"}}
	if got := book.SearchQuery(); got != "Dune Frank Herbert" {
		t.Fatalf("SearchQuery = %q", got)
	}
	book = Book{Title: "Dune", Authors: []string{"Unknown"}}
	if got := book.SearchQuery(); got != "Dune" {
		t.Fatalf("SearchQuery = %q", got)
	}
}
