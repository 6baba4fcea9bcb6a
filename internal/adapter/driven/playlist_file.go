package driven

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"
)

const utf8BOM = "\ufeff"

// PlaylistFileSource reads playlists from the local file system.
// It implements the driven.PlaylistFileReader port.
type PlaylistFileSource struct{}

// NewPlaylistFileSource creates a new PlaylistFileSource.
func NewPlaylistFileSource() *PlaylistFileSource {
	return &PlaylistFileSource{}
}

// ReadFile returns the content of the file at path decoded as UTF-8.
// A leading byte order mark is removed.
func (s *PlaylistFileSource) ReadFile(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	if !utf8.Valid(data) {
		return "", fmt.Errorf("reading %s: %w", path, errors.New("content is not valid UTF-8"))
	}

	return strings.TrimPrefix(string(data), utf8BOM), nil
}
