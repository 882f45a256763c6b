package storage

// Title is one row of the netflix_titles table
type Title struct {
	ShowID      string `json:"show_id"`
	Type        string `json:"type"` // "Movie" or "TV Show"
	Title       string `json:"title"`
	Director    string `json:"director"`
	Cast        string `json:"cast"`
	Country     string `json:"country"`
	DateAdded   string `json:"date_added"`
	ReleaseYear *int   `json:"release_year,omitempty"`
	Rating      string `json:"rating"`
	Duration    string `json:"duration"`
	ListedIn    string `json:"listed_in"`
	Description string `json:"description"`
}

// LoadResult summarizes one load run
type LoadResult struct {
	DatasetID  string
	SourceFile string
	DBPath     string
	Read       int // rows parsed from the CSV, i.e. attempted inserts
	Inserted   int
	Stats      map[string]int
}

// Skipped is the number of rows dropped for a duplicate show_id
func (r LoadResult) Skipped() int {
	return r.Read - r.Inserted
}
