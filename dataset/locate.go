package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrFileNotFound is returned by Locate when the expected file is missing
var ErrFileNotFound = errors.New("file not found")

// Locate returns the path of name inside dir, or an error wrapping
// ErrFileNotFound when there is no such regular file.
func Locate(dir, name string) (string, error) {
	path := filepath.Join(dir, name)

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("'%s' not found in downloaded dataset: %w", name, ErrFileNotFound)
	}

	return path, nil
}
