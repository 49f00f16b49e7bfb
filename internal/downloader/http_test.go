package downloader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("audio bytes"))
	}))
	defer srv.Close()

	destPath := filepath.Join(t.TempDir(), "raw", "item.audio")

	err := NewHTTPFetcher().Fetch(context.Background(), srv.URL, destPath)
	require.NoError(t, err)

	data, err := os.ReadFile(destPath)
	require.NoError(t, err)
	assert.Equal(t, "audio bytes", string(data))
}

func TestFetchNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	destPath := filepath.Join(t.TempDir(), "item.audio")

	err := NewHTTPFetcher().Fetch(context.Background(), srv.URL, destPath)
	assert.Error(t, err)
	assert.NoFileExists(t, destPath)
}

func TestFetchEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	destPath := filepath.Join(t.TempDir(), "item.audio")

	err := NewHTTPFetcher().Fetch(context.Background(), srv.URL, destPath)
	assert.Error(t, err)
	assert.NoFileExists(t, destPath)
}

func TestFetchUnreachableHost(t *testing.T) {
	destPath := filepath.Join(t.TempDir(), "item.audio")

	err := NewHTTPFetcher().Fetch(context.Background(), "http://127.0.0.1:1/stream", destPath)
	assert.Error(t, err)
	assert.NoFileExists(t, destPath)
}

func TestFetchCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("audio bytes"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewHTTPFetcher().Fetch(ctx, srv.URL, filepath.Join(t.TempDir(), "item.audio"))
	assert.Error(t, err)
}
