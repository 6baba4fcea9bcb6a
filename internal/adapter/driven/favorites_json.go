package driven

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/alorle/m3u-player/internal/channel"
)

// FavoritesJSONRepository implements the FavoritesRepository port with a
// single JSON file holding an array of {"name", "url"} objects.
type FavoritesJSONRepository struct {
	path string
}

// NewFavoritesJSONRepository creates a repository backed by the file at path.
// The file does not need to exist yet.
func NewFavoritesJSONRepository(path string) (*FavoritesJSONRepository, error) {
	if path == "" {
		return nil, errors.New("favorites path cannot be empty")
	}
	return &FavoritesJSONRepository{path: path}, nil
}

// favoriteDTO is used for JSON serialization.
type favoriteDTO struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Load reads the favorites file. A missing file yields an empty collection.
func (r *FavoritesJSONRepository) Load(ctx context.Context) ([]channel.Channel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []channel.Channel{}, nil
		}
		return nil, fmt.Errorf("reading favorites file %s: %w", r.path, err)
	}

	var dtos []favoriteDTO
	if err := json.Unmarshal(data, &dtos); err != nil {
		return nil, fmt.Errorf("parsing favorites file %s: %w", r.path, err)
	}

	favorites := make([]channel.Channel, 0, len(dtos))
	for _, dto := range dtos {
		favorites = append(favorites, channel.New(dto.Name, dto.URL))
	}

	return favorites, nil
}

// Save overwrites the favorites file with the full collection.
// The write is not atomic: an interrupted write loses the previous content.
func (r *FavoritesJSONRepository) Save(ctx context.Context, favorites []channel.Channel) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dtos := make([]favoriteDTO, 0, len(favorites))
	for _, ch := range favorites {
		dtos = append(dtos, favoriteDTO{Name: ch.Name, URL: ch.URL})
	}

	data, err := json.Marshal(dtos)
	if err != nil {
		return fmt.Errorf("encoding favorites: %w", err)
	}

	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating favorites directory: %w", err)
		}
	}

	if err := os.WriteFile(r.path, data, 0644); err != nil {
		return fmt.Errorf("writing favorites file %s: %w", r.path, err)
	}

	return nil
}
