package domain

// Book identifies a single logical book, deduplicated across users by
// its metadata-source identifier. Books are shared between tracking
// records and are never deleted, even when nothing references them.
type Book struct {
	Entity
	Title    string `json:"title"`
	Author   string `json:"author"` // flattened display string, e.g. "Terry Pratchett, Neil Gaiman"
	Year     string `json:"year"`   // string to tolerate partial or unknown dates
	SourceID string `json:"source_id"`
	ImageURL string `json:"image_url,omitempty"`
	ISBN10   string `json:"isbn_10,omitempty"`
	ISBN13   string `json:"isbn_13,omitempty"`

	// IdentifiersJSON preserves the raw identifier list from the
	// metadata source. It isn't used anywhere yet, just kept so more
	// metadata can be backfilled later without a fresh lookup.
	IdentifiersJSON string `json:"identifiers_json,omitempty"`

	// BlurHash is a compact placeholder for the cover image, computed
	// when the cover is first cached.
	BlurHash string `json:"blurhash,omitempty"`
}
