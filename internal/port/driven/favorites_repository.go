package driven

import (
	"context"

	"github.com/alorle/m3u-player/internal/channel"
)

// FavoritesRepository defines the interface for favorites persistence.
// This is a driven port implemented by concrete adapters (e.g., a JSON file).
type FavoritesRepository interface {
	// Load returns the persisted favorites. A missing store yields an empty
	// collection, not an error.
	Load(ctx context.Context) ([]channel.Channel, error)

	// Save overwrites the store with the full favorites collection.
	Save(ctx context.Context, favorites []channel.Channel) error
}
