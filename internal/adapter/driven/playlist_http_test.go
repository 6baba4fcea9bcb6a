package driven

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	port "github.com/alorle/m3u-player/internal/port/driven"
)

// memoryPlaylistCache is a simple in-memory cache for testing.
type memoryPlaylistCache struct {
	data   map[string]port.CachedPlaylist
	setErr error
}

func newMemoryPlaylistCache() *memoryPlaylistCache {
	return &memoryPlaylistCache{data: make(map[string]port.CachedPlaylist)}
}

func (m *memoryPlaylistCache) Get(ctx context.Context, url string) (port.CachedPlaylist, error) {
	entry, ok := m.data[url]
	if !ok {
		return port.CachedPlaylist{}, port.ErrCacheMiss
	}
	return entry, nil
}

func (m *memoryPlaylistCache) Set(ctx context.Context, url string, content string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[url] = port.CachedPlaylist{Content: content, FetchedAt: time.Now()}
	return nil
}

func (m *memoryPlaylistCache) Ping(ctx context.Context) error {
	return nil
}

const testPlaylist = "#EXTM3U\n#EXTINF:-1,Test Channel\nhttp://example.com/stream.m3u8\n"

func TestNewPlaylistHTTPSource(t *testing.T) {
	t.Run("with nil client creates default", func(t *testing.T) {
		source := NewPlaylistHTTPSource(nil, nil, false, slog.Default())

		if source.client == nil {
			t.Fatal("expected default client to be created")
		}
		if source.client.Timeout != defaultFetchTimeout {
			t.Errorf("expected timeout %v, got %v", defaultFetchTimeout, source.client.Timeout)
		}
	})

	t.Run("with custom client", func(t *testing.T) {
		client := &http.Client{Timeout: 5 * time.Second}
		source := NewPlaylistHTTPSource(client, nil, false, slog.Default())

		if source.client != client {
			t.Error("expected custom client to be used")
		}
	})
}

func TestPlaylistHTTPSource_Fetch(t *testing.T) {
	t.Run("successful fetch updates cache", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				t.Errorf("expected GET request, got %s", r.Method)
			}
			w.Header().Set("Content-Type", "audio/x-mpegurl")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(testPlaylist))
		}))
		defer server.Close()

		cache := newMemoryPlaylistCache()
		source := NewPlaylistHTTPSource(nil, cache, false, slog.Default())

		content, err := source.Fetch(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if content != testPlaylist {
			t.Errorf("expected content %q, got %q", testPlaylist, content)
		}
		if cache.data[server.URL].Content != testPlaylist {
			t.Error("expected cache to be updated")
		}
	})

	t.Run("cache write failure does not fail the fetch", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(testPlaylist))
		}))
		defer server.Close()

		cache := newMemoryPlaylistCache()
		cache.setErr = errors.New("database is read-only")
		source := NewPlaylistHTTPSource(nil, cache, false, slog.Default())

		if _, err := source.Fetch(context.Background(), server.URL); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("non-success status fails without fallback", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		cache := newMemoryPlaylistCache()
		cache.data[server.URL] = port.CachedPlaylist{Content: testPlaylist, FetchedAt: time.Now()}
		source := NewPlaylistHTTPSource(nil, cache, false, slog.Default())

		if _, err := source.Fetch(context.Background(), server.URL); err == nil {
			t.Error("expected error for 404 response")
		}
	})

	t.Run("failure with fallback serves cached copy", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		cache := newMemoryPlaylistCache()
		cache.data[server.URL] = port.CachedPlaylist{Content: testPlaylist, FetchedAt: time.Now().Add(-time.Hour)}
		source := NewPlaylistHTTPSource(nil, cache, true, slog.Default())

		content, err := source.Fetch(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if content != testPlaylist {
			t.Errorf("expected cached content, got %q", content)
		}
	})

	t.Run("failure with fallback and empty cache returns error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		source := NewPlaylistHTTPSource(nil, newMemoryPlaylistCache(), true, slog.Default())

		if _, err := source.Fetch(context.Background(), server.URL); err == nil {
			t.Error("expected error when fetch fails and nothing is cached")
		}
	})

	t.Run("network error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := server.URL
		server.Close()

		source := NewPlaylistHTTPSource(nil, nil, true, slog.Default())

		if _, err := source.Fetch(context.Background(), url); err == nil {
			t.Error("expected error for closed server")
		}
	})

	t.Run("timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
			_, _ = w.Write([]byte(testPlaylist))
		}))
		defer server.Close()

		source := NewPlaylistHTTPSource(&http.Client{Timeout: 20 * time.Millisecond}, nil, false, slog.Default())

		if _, err := source.Fetch(context.Background(), server.URL); err == nil {
			t.Error("expected timeout error")
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(testPlaylist))
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		source := NewPlaylistHTTPSource(nil, nil, false, slog.Default())
		if _, err := source.Fetch(ctx, server.URL); err == nil {
			t.Error("expected error for cancelled context")
		}
	})
}
