package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		w.Write([]byte("jpeg-bytes"))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "front.jpg")
	require.NoError(t, Download(context.Background(), srv.URL, dest, nil))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))
}

func TestDownload_InvalidURL(t *testing.T) {
	err := Download(context.Background(), "not-a-url", filepath.Join(t.TempDir(), "x.jpg"), nil)
	require.Error(t, err)

	var fe *Error
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Message, "invalid URL")
}

func TestDownload_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "x.jpg")
	err := Download(context.Background(), srv.URL, dest, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.NoFileExists(t, dest)
}

func TestDownload_SizeLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write(make([]byte, 2048))
	}))
	defer srv.Close()

	dir := t.TempDir()
	dest := filepath.Join(dir, "big.jpg")
	opts := &Options{Timeout: 5 * time.Second, MaxBytes: 1024, UserAgent: DefaultUserAgent}
	err := Download(context.Background(), srv.URL, dest, opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "byte limit")
	assert.NoFileExists(t, dest)

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDownload_EmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	defer srv.Close()

	err := Download(context.Background(), srv.URL, filepath.Join(t.TempDir(), "x.jpg"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty response")
}
