package application

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/alorle/m3u-player/internal/channel"
	"github.com/alorle/m3u-player/internal/m3u"
	"github.com/alorle/m3u-player/internal/metrics"
	"github.com/alorle/m3u-player/internal/port/driven"
)

// View identifies which sequence the catalog is currently displaying.
type View string

const (
	ViewAll       View = "all"
	ViewFavorites View = "favorites"
	ViewFiltered  View = "filtered"
)

// CatalogService holds the loaded playlist, the displayed subset and the
// favorites collection. It is owned by a single caller (the shell loop) and
// is not safe for concurrent use.
type CatalogService struct {
	favoritesRepo driven.FavoritesRepository
	files         driven.PlaylistFileReader
	fetcher       driven.PlaylistFetcher
	logger        *slog.Logger

	all       []channel.Channel
	displayed []channel.Channel
	favorites []channel.Channel
	view      View
}

// NewCatalogService creates a CatalogService and loads the persisted favorites.
// When the favorites cannot be loaded the returned service is still usable,
// starts with no favorites, and the error wraps ErrPersistence.
func NewCatalogService(
	ctx context.Context,
	favoritesRepo driven.FavoritesRepository,
	files driven.PlaylistFileReader,
	fetcher driven.PlaylistFetcher,
	logger *slog.Logger,
) (*CatalogService, error) {
	s := &CatalogService{
		favoritesRepo: favoritesRepo,
		files:         files,
		fetcher:       fetcher,
		logger:        logger,
		all:           []channel.Channel{},
		displayed:     []channel.Channel{},
		favorites:     []channel.Channel{},
		view:          ViewAll,
	}

	favorites, err := favoritesRepo.Load(ctx)
	if err != nil {
		return s, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	s.favorites = channel.Clone(favorites)
	metrics.SetFavorites(len(s.favorites))
	logger.Debug("favorites loaded", "count", len(s.favorites))

	return s, nil
}

// LoadFile replaces the catalog with the channels of a local playlist file.
// Returns the number of channels loaded.
func (s *CatalogService) LoadFile(ctx context.Context, path string) (int, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return 0, fmt.Errorf("%w: no playlist file given", ErrInput)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".m3u" && ext != ".m3u8" {
		return 0, fmt.Errorf("%w: %q is not an .m3u or .m3u8 file", ErrInput, path)
	}

	content, err := s.files.ReadFile(ctx, path)
	if err != nil {
		metrics.RecordPlaylistLoadError(metrics.SourceFile)
		s.logger.Warn("failed to read playlist file", "path", path, "error", err)
		return 0, fmt.Errorf("%w: %w", ErrFile, err)
	}

	n := s.LoadContent(content)
	metrics.RecordPlaylistLoaded(metrics.SourceFile, n)
	s.logger.Info("playlist loaded", "source", metrics.SourceFile, "path", path, "channels", n)

	return n, nil
}

// LoadURL replaces the catalog with the channels of a remote playlist.
// Returns the number of channels loaded.
func (s *CatalogService) LoadURL(ctx context.Context, rawURL string) (int, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return 0, fmt.Errorf("%w: enter a playlist URL", ErrInput)
	}

	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return 0, fmt.Errorf("%w: %q is not an http(s) URL", ErrInput, rawURL)
	}

	content, err := s.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		metrics.RecordPlaylistLoadError(metrics.SourceURL)
		s.logger.Warn("failed to fetch playlist", "url", rawURL, "error", err)
		return 0, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	n := s.LoadContent(content)
	metrics.RecordPlaylistLoaded(metrics.SourceURL, n)
	s.logger.Info("playlist loaded", "source", metrics.SourceURL, "url", rawURL, "channels", n)

	return n, nil
}

// LoadContent parses content and replaces both the full and the displayed
// channel lists with the result. Returns the number of channels parsed.
func (s *CatalogService) LoadContent(content string) int {
	s.all = m3u.Parse(content)
	s.displayed = channel.Clone(s.all)
	s.view = ViewAll
	return len(s.all)
}

// ShowAll displays the full channel list of the last loaded playlist.
func (s *CatalogService) ShowAll() []channel.Channel {
	s.displayed = channel.Clone(s.all)
	s.view = ViewAll
	return s.Displayed()
}

// ShowFavorites displays the favorites collection. Selections made while this
// view is active resolve against the favorites.
func (s *CatalogService) ShowFavorites() []channel.Channel {
	s.displayed = channel.Clone(s.favorites)
	s.view = ViewFavorites
	return s.Displayed()
}

// Filter displays the channels of the full list whose name contains query,
// ignoring case. An empty query is equivalent to ShowAll.
func (s *CatalogService) Filter(query string) []channel.Channel {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return s.ShowAll()
	}

	matches := []channel.Channel{}
	for _, ch := range s.all {
		if strings.Contains(strings.ToLower(ch.Name), query) {
			matches = append(matches, ch)
		}
	}

	s.displayed = matches
	s.view = ViewFiltered
	return s.Displayed()
}

// Displayed returns a copy of the channels currently displayed.
func (s *CatalogService) Displayed() []channel.Channel {
	return channel.Clone(s.displayed)
}

// Favorites returns a copy of the favorites collection.
func (s *CatalogService) Favorites() []channel.Channel {
	return channel.Clone(s.favorites)
}

// View returns the view currently displayed.
func (s *CatalogService) View() View {
	return s.view
}

// Resolve returns the channel at index (0-based) of the displayed list.
// Returns ErrSelection if index is out of range.
func (s *CatalogService) Resolve(index int) (channel.Channel, error) {
	if index < 0 || index >= len(s.displayed) {
		return channel.Channel{}, fmt.Errorf("%w: index %d out of range for %d displayed channels",
			ErrSelection, index, len(s.displayed))
	}
	return s.displayed[index], nil
}

// Favorite adds ch to the favorites and persists the whole collection.
// Adding a channel that is already a favorite does nothing and reports false.
// If persisting fails the collection is left unchanged and the error wraps
// ErrPersistence.
func (s *CatalogService) Favorite(ctx context.Context, ch channel.Channel) (bool, error) {
	if channel.Contains(s.favorites, ch) {
		return false, nil
	}

	updated := append(channel.Clone(s.favorites), ch)
	if err := s.favoritesRepo.Save(ctx, updated); err != nil {
		s.logger.Error("failed to save favorites", "error", err)
		return false, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	s.favorites = updated
	metrics.SetFavorites(len(s.favorites))
	s.logger.Info("channel added to favorites", "name", ch.Name, "url", ch.URL)

	return true, nil
}

// Unfavorite removes ch from the favorites and persists the whole collection.
// Removing a channel that is not a favorite does nothing and reports false.
// When the favorites view is displayed it is refreshed.
func (s *CatalogService) Unfavorite(ctx context.Context, ch channel.Channel) (bool, error) {
	idx := channel.IndexOf(s.favorites, ch)
	if idx < 0 {
		return false, nil
	}

	updated := make([]channel.Channel, 0, len(s.favorites)-1)
	updated = append(updated, s.favorites[:idx]...)
	updated = append(updated, s.favorites[idx+1:]...)

	if err := s.favoritesRepo.Save(ctx, updated); err != nil {
		s.logger.Error("failed to save favorites", "error", err)
		return false, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	s.favorites = updated
	metrics.SetFavorites(len(s.favorites))
	s.logger.Info("channel removed from favorites", "name", ch.Name, "url", ch.URL)

	if s.view == ViewFavorites {
		s.displayed = channel.Clone(s.favorites)
	}

	return true, nil
}

// FavoriteAt favorites the displayed channel at index.
func (s *CatalogService) FavoriteAt(ctx context.Context, index int) (channel.Channel, bool, error) {
	ch, err := s.Resolve(index)
	if err != nil {
		return channel.Channel{}, false, err
	}

	added, err := s.Favorite(ctx, ch)
	return ch, added, err
}

// UnfavoriteAt unfavorites the displayed channel at index.
func (s *CatalogService) UnfavoriteAt(ctx context.Context, index int) (channel.Channel, bool, error) {
	ch, err := s.Resolve(index)
	if err != nil {
		return channel.Channel{}, false, err
	}

	removed, err := s.Unfavorite(ctx, ch)
	return ch, removed, err
}

// ExportFavorites writes the favorites collection to w as an M3U playlist.
func (s *CatalogService) ExportFavorites(w io.Writer) error {
	enc := m3u.NewEncoder()
	for _, ch := range s.favorites {
		enc.AddChannel(ch)
	}
	return enc.Encode(w)
}
