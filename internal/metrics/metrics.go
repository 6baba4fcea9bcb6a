package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Source kinds used as the "source" label of PlaylistsLoaded.
const (
	SourceFile = "file"
	SourceURL  = "url"
)

var (
	// PlaylistsLoaded tracks successful playlist loads by source kind
	PlaylistsLoaded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "m3u_playlists_loaded_total",
		Help: "Total number of playlists loaded",
	}, []string{"source"})

	// PlaylistLoadErrors tracks failed playlist loads by source kind
	PlaylistLoadErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "m3u_playlist_load_errors_total",
		Help: "Total number of failed playlist loads",
	}, []string{"source"})

	// ChannelsLoaded holds the number of channels in the current playlist
	ChannelsLoaded = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "m3u_channels_loaded",
		Help: "Number of channels in the most recently loaded playlist",
	})

	// StaleCacheServed tracks fetch failures answered from the playlist cache
	StaleCacheServed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "m3u_playlist_stale_cache_served_total",
		Help: "Total number of failed fetches served from the playlist cache",
	})

	// Favorites holds the size of the favorites collection
	Favorites = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "m3u_favorites",
		Help: "Number of favorite channels",
	})

	// PlaybackStarts tracks how many playback sessions were started
	PlaybackStarts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "m3u_playback_starts_total",
		Help: "Total number of playback sessions started",
	})
)

// RecordPlaylistLoaded records a successful load and the resulting channel count
func RecordPlaylistLoaded(source string, channels int) {
	PlaylistsLoaded.WithLabelValues(source).Inc()
	ChannelsLoaded.Set(float64(channels))
}

// RecordPlaylistLoadError increments the load error counter for a source kind
func RecordPlaylistLoadError(source string) {
	PlaylistLoadErrors.WithLabelValues(source).Inc()
}

// RecordStaleCacheServed increments the stale cache counter
func RecordStaleCacheServed() {
	StaleCacheServed.Inc()
}

// SetFavorites sets the number of favorite channels
func SetFavorites(count int) {
	Favorites.Set(float64(count))
}

// RecordPlaybackStart increments the playback start counter
func RecordPlaybackStart() {
	PlaybackStarts.Inc()
}

// WriteTextfile writes the default registry in the text exposition format to
// path, for collection by the node exporter textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
