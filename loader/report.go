package loader

import (
	"fmt"
	"io"
	"log"
	"netflix-loader/storage"
	"path/filepath"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrintSummary writes the one-line load report. The headline count is rows
// read from the CSV; rows dropped for a duplicate show_id are listed after it.
func PrintSummary(w io.Writer, result storage.LoadResult) error {
	p := message.NewPrinter(language.English)

	_, err := p.Fprintf(w, "Loaded %d records into '%s' (%d inserted, %d skipped as duplicate show_id)\n",
		result.Read, filepath.Base(result.DBPath), result.Inserted, result.Skipped())
	if err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}

	if result.Stats != nil {
		log.Printf("Movies: %d", result.Stats["movies"])
		log.Printf("TV Shows: %d", result.Stats["tv_shows"])
	}

	return nil
}
