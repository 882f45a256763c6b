package dataset

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gocolly/colly"
)

// DefaultBaseURL is the public Kaggle API root
const DefaultBaseURL = "https://www.kaggle.com/api/v1"

// Fetcher resolves a dataset identifier to a local directory holding its files
type Fetcher interface {
	Download(handle string) (string, error)
}

// Credentials are the Kaggle API username and key. Both empty means anonymous.
type Credentials struct {
	Username string
	Key      string
}

// KaggleFetcher downloads datasets from the Kaggle API and keeps extracted
// copies under cacheDir, laid out as datasets/<owner>/<dataset>/versions/<n>.
type KaggleFetcher struct {
	baseURL  string
	cacheDir string
	creds    Credentials
}

type datasetView struct {
	CurrentVersionNumber int `json:"currentVersionNumber"`
}

func NewKaggleFetcher(baseURL, cacheDir string, creds Credentials) *KaggleFetcher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &KaggleFetcher{
		baseURL:  strings.TrimRight(baseURL, "/"),
		cacheDir: cacheDir,
		creds:    creds,
	}
}

// Download returns the directory holding the extracted dataset, fetching and
// unpacking the archive first unless a complete cached copy exists.
func (f *KaggleFetcher) Download(handle string) (string, error) {
	h, err := ParseHandle(handle)
	if err != nil {
		return "", err
	}

	if h.Version == 0 {
		version, err := f.currentVersion(h)
		if err != nil {
			return "", err
		}
		h.Version = version
	}

	dir := f.versionDir(h)
	marker := dir + ".complete"

	if _, err := os.Stat(marker); err == nil {
		log.Printf("Using cached dataset %s at %s", h, dir)
		return dir, nil
	}

	// a directory without its marker is a leftover from an interrupted run
	if err := os.RemoveAll(dir); err != nil {
		return "", fmt.Errorf("failed to clear partial download: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}

	archive := dir + ".zip"
	defer os.Remove(archive)

	log.Printf("Downloading dataset %s", h)
	err = f.visit(f.downloadURL(h), func(r *colly.Response) error {
		return r.Save(archive)
	})
	if err != nil {
		return "", fmt.Errorf("failed to download dataset %s: %w", h, err)
	}

	files, err := extractZip(archive, dir)
	if err != nil {
		return "", fmt.Errorf("failed to extract dataset %s: %w", h, err)
	}

	if err := os.WriteFile(marker, nil, 0644); err != nil {
		return "", fmt.Errorf("failed to mark download complete: %w", err)
	}

	log.Printf("Extracted %d files to %s", files, dir)
	return dir, nil
}

func (f *KaggleFetcher) currentVersion(h Handle) (int, error) {
	var view datasetView
	viewURL := fmt.Sprintf("%s/datasets/view/%s/%s", f.baseURL, url.PathEscape(h.Owner), url.PathEscape(h.Dataset))

	err := f.visit(viewURL, func(r *colly.Response) error {
		return json.Unmarshal(r.Body, &view)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to resolve version of %s: %w", h, err)
	}

	if view.CurrentVersionNumber <= 0 {
		return 0, fmt.Errorf("failed to resolve version of %s: no current version reported", h)
	}

	return view.CurrentVersionNumber, nil
}

func (f *KaggleFetcher) downloadURL(h Handle) string {
	q := url.Values{}
	q.Set("datasetVersionNumber", strconv.Itoa(h.Version))
	return fmt.Sprintf("%s/datasets/download/%s/%s?%s",
		f.baseURL, url.PathEscape(h.Owner), url.PathEscape(h.Dataset), q.Encode())
}

func (f *KaggleFetcher) versionDir(h Handle) string {
	return filepath.Join(f.cacheDir, "datasets", h.Owner, h.Dataset, "versions", strconv.Itoa(h.Version))
}

// visit fetches target with a fresh collector and hands the successful
// response to handle.
func (f *KaggleFetcher) visit(target string, handle func(*colly.Response) error) error {
	c := colly.NewCollector(colly.AllowURLRevisit())
	// archives run to hundreds of megabytes; no size or time limit
	c.MaxBodySize = 0
	c.SetRequestTimeout(0)

	c.OnRequest(func(r *colly.Request) {
		log.Println("Visiting:", r.URL)
		if f.creds.Username != "" && f.creds.Key != "" {
			token := base64.StdEncoding.EncodeToString([]byte(f.creds.Username + ":" + f.creds.Key))
			r.Headers.Set("Authorization", "Basic "+token)
		}
	})

	var handleErr error
	c.OnResponse(func(r *colly.Response) {
		log.Println("Response received:", r.StatusCode)
		handleErr = handle(r)
	})

	if err := c.Visit(target); err != nil {
		return err
	}

	return handleErr
}
