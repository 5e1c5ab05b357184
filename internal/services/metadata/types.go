package metadata

// Book is one catalog record presented to a requester before any indexer is
// queried. It carries enough to disambiguate editions and to build a good
// indexer search query.
type Book struct {
	Title        string   `json:"title"`
	Authors      []string `json:"authors"`
	FirstPublish int      `json:"first_publish_year,omitempty"`
	ISBN10       string   `json:"isbn_10,omitempty"`
	ISBN13       string   `json:"isbn_13,omitempty"`
	Description  string   `json:"description,omitempty"`
	CoverURL     string   `json:"cover_url,omitempty"`
	HasEbook     bool     `json:"has_ebook"`
	HasAudiobook bool     `json:"has_audiobook"`
	Source       string   `json:"source,omitempty"`
}

// SearchQuery formats the book into an indexer search string: title plus
// first author when one is known.
func (b Book) SearchQuery() string {
	if len(b.Authors) > 0 && b.Authors[0] != "" && b.Authors[0] != "Unknown" {
		return b.Title + " " + b.Authors[0]
	}
	return b.Title
}
