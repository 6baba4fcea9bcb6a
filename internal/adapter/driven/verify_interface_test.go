package driven

import (
	port "github.com/alorle/m3u-player/internal/port/driven"
)

// Compile-time checks that the adapters implement their ports
var (
	_ port.FavoritesRepository = (*FavoritesJSONRepository)(nil)
	_ port.PlaylistFileReader  = (*PlaylistFileSource)(nil)
	_ port.PlaylistFetcher     = (*PlaylistHTTPSource)(nil)
	_ port.PlaylistCache       = (*PlaylistBoltDBCache)(nil)
	_ port.MediaPlayer         = (*ExecPlayer)(nil)
)
