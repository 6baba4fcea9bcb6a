package driven

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.etcd.io/bbolt"

	port "github.com/alorle/m3u-player/internal/port/driven"
)

const (
	playlistsBucket = "playlists"
)

// PlaylistBoltDBCache implements the PlaylistCache port using BoltDB.
type PlaylistBoltDBCache struct {
	db *bbolt.DB
}

// NewPlaylistBoltDBCache creates a new BoltDB-backed playlist cache.
// It initializes the required bucket if it doesn't exist.
func NewPlaylistBoltDBCache(db *bbolt.DB) (*PlaylistBoltDBCache, error) {
	if db == nil {
		return nil, errors.New("db cannot be nil")
	}

	err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(playlistsBucket))
		return err
	})
	if err != nil {
		return nil, err
	}

	return &PlaylistBoltDBCache{db: db}, nil
}

// cachedPlaylistDTO is used for JSON serialization.
type cachedPlaylistDTO struct {
	Content   string `json:"content"`
	FetchedAt string `json:"fetched_at"`
}

// Get retrieves the cached playlist for url.
func (c *PlaylistBoltDBCache) Get(ctx context.Context, url string) (port.CachedPlaylist, error) {
	if err := ctx.Err(); err != nil {
		return port.CachedPlaylist{}, err
	}

	var entry port.CachedPlaylist

	err := c.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(playlistsBucket))
		if bucket == nil {
			return errors.New("playlists bucket not found")
		}

		data := bucket.Get([]byte(url))
		if data == nil {
			return port.ErrCacheMiss
		}

		var dto cachedPlaylistDTO
		if err := json.Unmarshal(data, &dto); err != nil {
			return err
		}

		fetchedAt, err := time.Parse(time.RFC3339Nano, dto.FetchedAt)
		if err != nil {
			return err
		}

		entry = port.CachedPlaylist{Content: dto.Content, FetchedAt: fetchedAt}
		return nil
	})

	return entry, err
}

// Set stores content as the latest copy of url, stamped with the current time.
func (c *PlaylistBoltDBCache) Set(ctx context.Context, url string, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(cachedPlaylistDTO{
		Content:   content,
		FetchedAt: time.Now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return err
	}

	return c.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(playlistsBucket))
		if bucket == nil {
			return errors.New("playlists bucket not found")
		}
		return bucket.Put([]byte(url), data)
	})
}

// Ping checks if the BoltDB database is accessible and operational.
func (c *PlaylistBoltDBCache) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return c.db.View(func(tx *bbolt.Tx) error {
		if tx.Bucket([]byte(playlistsBucket)) == nil {
			return errors.New("playlists bucket not found")
		}
		return nil
	})
}
