package driven

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned when no cached playlist exists for a URL.
var ErrCacheMiss = errors.New("playlist not cached")

// CachedPlaylist is the last successfully fetched body of a remote playlist.
type CachedPlaylist struct {
	Content   string
	FetchedAt time.Time
}

// PlaylistCache stores the last successful download of each remote playlist.
type PlaylistCache interface {
	// Get returns the cached playlist for url or ErrCacheMiss.
	Get(ctx context.Context, url string) (CachedPlaylist, error)

	// Set stores content as the latest copy of url.
	Set(ctx context.Context, url string, content string) error

	// Ping checks that the cache store is accessible.
	Ping(ctx context.Context) error
}
