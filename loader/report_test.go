package loader

import (
	"bytes"
	"netflix-loader/storage"
	"testing"
)

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	result := storage.LoadResult{
		DBPath:   "/tmp/data/netflix.db",
		Read:     8809,
		Inserted: 8807,
	}

	if err := PrintSummary(&buf, result); err != nil {
		t.Fatalf("PrintSummary failed: %v", err)
	}

	want := "Loaded 8,809 records into 'netflix.db' (8,807 inserted, 2 skipped as duplicate show_id)\n"
	if buf.String() != want {
		t.Errorf("Expected %q, got %q", want, buf.String())
	}
}
