package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"netflix-loader/storage"
	"os"
	"strconv"
	"strings"
)

var requiredColumns = []string{"show_id", "type", "title"}

// ReadTitles parses the CSV file at path. See ParseTitles.
func ReadTitles(path string) ([]storage.Title, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv: %w", err)
	}
	defer f.Close()

	return ParseTitles(f)
}

// ParseTitles reads a header row followed by one title per row.
// show_id, type and title must appear in the header. Other columns are
// optional and cells missing from short rows become "". An empty
// release_year is left nil; anything else must be an integer.
func ParseTitles(r io.Reader) ([]storage.Title, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("csv has no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		index[name] = i
	}

	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("csv header is missing column %q", col)
		}
	}

	var titles []storage.Title
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}

		field := func(name string) string {
			i, ok := index[name]
			if !ok || i >= len(record) {
				return ""
			}
			return record[i]
		}

		title := storage.Title{
			ShowID:      field("show_id"),
			Type:        field("type"),
			Title:       field("title"),
			Director:    field("director"),
			Cast:        field("cast"),
			Country:     field("country"),
			DateAdded:   field("date_added"),
			Rating:      field("rating"),
			Duration:    field("duration"),
			ListedIn:    field("listed_in"),
			Description: field("description"),
		}

		// blank or whitespace-only years are missing, not invalid
		if raw := strings.TrimSpace(field("release_year")); raw != "" {
			year, err := strconv.Atoi(raw)
			if err != nil {
				line, _ := reader.FieldPos(0)
				return nil, fmt.Errorf("invalid release_year %q on line %d: %w", raw, line, err)
			}
			title.ReleaseYear = &year
		}

		titles = append(titles, title)
	}

	return titles, nil
}
