package driven

import "context"

// PlaylistFileReader reads playlist content from the local file system.
type PlaylistFileReader interface {
	// ReadFile returns the content of the playlist file at path as text.
	ReadFile(ctx context.Context, path string) (string, error)
}

// PlaylistFetcher retrieves playlist content from a remote URL.
type PlaylistFetcher interface {
	// Fetch performs a single GET against url and returns the body as text.
	// Any network failure or non-success status is returned as an error.
	Fetch(ctx context.Context, url string) (string, error)
}
