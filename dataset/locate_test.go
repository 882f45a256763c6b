package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocate(t *testing.T) {
	dir := t.TempDir()
	want := filepath.Join(dir, "titles.csv")
	if err := os.WriteFile(want, []byte("show_id\n"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	got, err := Locate(dir, "titles.csv")
	if err != nil {
		t.Fatalf("Locate failed: %v", err)
	}
	if got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestLocateMissing(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "subdir.csv"), 0755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}

	for _, name := range []string{"absent.csv", "subdir.csv"} {
		_, err := Locate(dir, name)
		if !errors.Is(err, ErrFileNotFound) {
			t.Fatalf("Expected ErrFileNotFound for %s, got %v", name, err)
		}
		if !strings.Contains(err.Error(), name) {
			t.Errorf("Error should name the file, got %q", err.Error())
		}
	}
}
