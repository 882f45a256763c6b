package dataset

import (
	"archive/zip"
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCSV = "show_id,type,title\ns1,Movie,Dick Johnson Is Dead\n"

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

type fakeKaggle struct {
	archive   []byte
	version   int
	views     atomic.Int32
	downloads atomic.Int32
	lastAuth  atomic.Value
}

func (k *fakeKaggle) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	k.lastAuth.Store(r.Header.Get("Authorization"))
	switch r.URL.Path {
	case "/datasets/view/owner/netflix":
		k.views.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ref":"owner/netflix","currentVersionNumber":` + strconv.Itoa(k.version) + `}`))
	case "/datasets/download/owner/netflix":
		k.downloads.Add(1)
		if r.URL.Query().Get("datasetVersionNumber") != strconv.Itoa(k.version) {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/zip")
		_, _ = w.Write(k.archive)
	default:
		http.NotFound(w, r)
	}
}

func TestKaggleFetcherDownload(t *testing.T) {
	fake := &fakeKaggle{
		version: 2,
		archive: buildZip(t, map[string]string{
			"netflix_titles.csv": testCSV,
			"docs/README.txt":    "readme",
		}),
	}
	server := httptest.NewServer(fake)
	defer server.Close()

	cache := t.TempDir()
	fetcher := NewKaggleFetcher(server.URL, cache, Credentials{Username: "user", Key: "secret"})

	dir, err := fetcher.Download("owner/netflix")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cache, "datasets", "owner", "netflix", "versions", "2"), dir)

	body, err := os.ReadFile(filepath.Join(dir, "netflix_titles.csv"))
	require.NoError(t, err)
	assert.Equal(t, testCSV, string(body))
	assert.FileExists(t, filepath.Join(dir, "docs", "README.txt"))
	assert.FileExists(t, dir+".complete")
	assert.NoFileExists(t, dir+".zip")

	// base64("user:secret")
	assert.Equal(t, "Basic dXNlcjpzZWNyZXQ=", fake.lastAuth.Load())

	// second call is served from the cache
	again, err := fetcher.Download("owner/netflix")
	require.NoError(t, err)
	assert.Equal(t, dir, again)
	assert.Equal(t, int32(1), fake.downloads.Load())
}

func TestKaggleFetcherPinnedVersion(t *testing.T) {
	fake := &fakeKaggle{
		version: 3,
		archive: buildZip(t, map[string]string{"netflix_titles.csv": testCSV}),
	}
	server := httptest.NewServer(fake)
	defer server.Close()

	fetcher := NewKaggleFetcher(server.URL, t.TempDir(), Credentials{})

	dir, err := fetcher.Download("owner/netflix/versions/3")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "netflix_titles.csv"))
	assert.Equal(t, int32(0), fake.views.Load())
	assert.Equal(t, "", fake.lastAuth.Load())
}

func TestKaggleFetcherReplacesPartialDownload(t *testing.T) {
	fake := &fakeKaggle{
		version: 1,
		archive: buildZip(t, map[string]string{"netflix_titles.csv": testCSV}),
	}
	server := httptest.NewServer(fake)
	defer server.Close()

	cache := t.TempDir()
	stale := filepath.Join(cache, "datasets", "owner", "netflix", "versions", "1")
	require.NoError(t, os.MkdirAll(stale, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(stale, "half.csv"), []byte("x"), 0644))

	dir, err := NewKaggleFetcher(server.URL, cache, Credentials{}).Download("owner/netflix")
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "half.csv"))
	assert.FileExists(t, filepath.Join(dir, "netflix_titles.csv"))
}

func TestKaggleFetcherErrors(t *testing.T) {
	fake := &fakeKaggle{version: 1}
	server := httptest.NewServer(fake)
	defer server.Close()

	fetcher := NewKaggleFetcher(server.URL, t.TempDir(), Credentials{})

	_, err := fetcher.Download("not-a-handle")
	assert.Error(t, err)

	_, err = fetcher.Download("owner/missing")
	assert.Error(t, err, "unknown dataset should fail version lookup")

	// the fake serves an empty body, which is not a zip archive
	_, err = fetcher.Download("owner/netflix")
	assert.Error(t, err)
}

func TestExtractZipRejectsTraversal(t *testing.T) {
	src := filepath.Join(t.TempDir(), "evil.zip")
	require.NoError(t, os.WriteFile(src, buildZip(t, map[string]string{"../escape.txt": "x"}), 0644))

	dst := t.TempDir()
	_, err := extractZip(src, dst)
	assert.Error(t, err)
	assert.NoFileExists(t, filepath.Join(filepath.Dir(dst), "escape.txt"))
}
