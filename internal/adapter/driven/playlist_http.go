package driven

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/alorle/m3u-player/internal/metrics"
	port "github.com/alorle/m3u-player/internal/port/driven"
)

const defaultFetchTimeout = 30 * time.Second

// PlaylistHTTPSource downloads playlists over HTTP(S).
// It implements the driven.PlaylistFetcher port. Successful downloads are
// stored in the playlist cache; when fallback is enabled a failed download is
// answered with the cached copy instead.
type PlaylistHTTPSource struct {
	client   *http.Client
	cache    port.PlaylistCache
	fallback bool
	logger   *slog.Logger
}

// NewPlaylistHTTPSource creates a new PlaylistHTTPSource.
// If client is nil, a client with a 30-second timeout is used. cache may be
// nil, in which case nothing is cached and fallback is ignored.
func NewPlaylistHTTPSource(client *http.Client, cache port.PlaylistCache, fallback bool, logger *slog.Logger) *PlaylistHTTPSource {
	if client == nil {
		client = &http.Client{
			Timeout: defaultFetchTimeout,
		}
	}
	return &PlaylistHTTPSource{
		client:   client,
		cache:    cache,
		fallback: fallback,
		logger:   logger,
	}
}

// Fetch retrieves the playlist at url with a single GET request.
func (s *PlaylistHTTPSource) Fetch(ctx context.Context, url string) (string, error) {
	s.logger.Debug("fetching playlist", "url", url)

	content, err := s.fetchFromURL(ctx, url)
	if err == nil {
		if s.cache != nil {
			if setErr := s.cache.Set(ctx, url, content); setErr != nil {
				s.logger.Warn("failed to update playlist cache", "url", url, "error", setErr)
			}
		}
		return content, nil
	}

	if !s.fallback || s.cache == nil {
		return "", err
	}

	entry, cacheErr := s.cache.Get(ctx, url)
	if cacheErr != nil {
		s.logger.Debug("no cached playlist for fallback", "url", url, "error", cacheErr)
		return "", fmt.Errorf("upstream fetch failed and no cache available: %w", err)
	}

	metrics.RecordStaleCacheServed()
	s.logger.Warn("serving stale cached playlist",
		"url", url,
		"fetched_at", entry.FetchedAt.Format(time.RFC3339),
		"age", time.Since(entry.FetchedAt).Round(time.Second),
		"error", err,
	)

	return entry.Content, nil
}

// fetchFromURL performs the actual HTTP fetch.
func (s *PlaylistHTTPSource) fetchFromURL(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating HTTP request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			s.logger.Warn("failed to close response body", "error", closeErr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("HTTP request returned status %d: %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response body: %w", err)
	}

	return string(body), nil
}
