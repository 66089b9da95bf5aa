package googlebooks

// Volume is a cleaned-up search result ready for display or storage.
type Volume struct {
	SourceID        string `json:"source_id"` // Google volume ID
	Title           string `json:"title"`
	Author          string `json:"author"` // flattened, ", "-joined
	Year            string `json:"year"`   // four digits or empty
	ImageURL        string `json:"image_url,omitempty"`
	ISBN10          string `json:"isbn_10,omitempty"`
	ISBN13          string `json:"isbn_13,omitempty"`
	IdentifiersJSON string `json:"identifiers_json,omitempty"` // raw identifier list, verbatim
	Description     string `json:"description,omitempty"`      // Markdown
}

// Raw API response types (internal)

type rawVolumesResponse struct {
	TotalItems int         `json:"totalItems"`
	Items      []rawVolume `json:"items"`
}

type rawVolume struct {
	ID         string        `json:"id"`
	VolumeInfo rawVolumeInfo `json:"volumeInfo"`
}

type rawVolumeInfo struct {
	Title               string          `json:"title"`
	Authors             []string        `json:"authors"`
	PublishedDate       string          `json:"publishedDate"`
	Description         string          `json:"description"`
	IndustryIdentifiers []rawIdentifier `json:"industryIdentifiers"`
	ImageLinks          rawImageLinks   `json:"imageLinks"`
}

type rawIdentifier struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

type rawImageLinks struct {
	SmallThumbnail string `json:"smallThumbnail"`
	Thumbnail      string `json:"thumbnail"`
}
