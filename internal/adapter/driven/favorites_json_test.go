package driven

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"

	"github.com/alorle/m3u-player/internal/channel"
)

func TestNewFavoritesJSONRepository(t *testing.T) {
	t.Run("creates repository", func(t *testing.T) {
		repo, err := NewFavoritesJSONRepository("favorites.json")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if repo == nil {
			t.Fatal("expected non-nil repository")
		}
	})

	t.Run("returns error for empty path", func(t *testing.T) {
		repo, err := NewFavoritesJSONRepository("")
		if err == nil {
			t.Error("expected error for empty path")
		}
		if repo != nil {
			t.Error("expected nil repository on error")
		}
	})
}

func TestFavoritesJSONRepository_Load(t *testing.T) {
	t.Run("missing file yields empty collection", func(t *testing.T) {
		repo, _ := NewFavoritesJSONRepository(filepath.Join(t.TempDir(), "favorites.json"))

		favorites, err := repo.Load(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if favorites == nil || len(favorites) != 0 {
			t.Errorf("expected empty non-nil collection, got %#v", favorites)
		}
	})

	t.Run("reads array of name and url objects", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "favorites.json")
		content := `[{"name": "News24", "url": "http://x/news.m3u8"}, {"name": "Sports1", "url": "http://x/sport.m3u8"}]`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write fixture: %v", err)
		}
		repo, _ := NewFavoritesJSONRepository(path)

		favorites, err := repo.Load(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		want := []channel.Channel{
			channel.New("News24", "http://x/news.m3u8"),
			channel.New("Sports1", "http://x/sport.m3u8"),
		}
		if !reflect.DeepEqual(favorites, want) {
			t.Errorf("Load() = %+v, want %+v", favorites, want)
		}
	})

	t.Run("null document yields empty collection", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "favorites.json")
		if err := os.WriteFile(path, []byte("null"), 0644); err != nil {
			t.Fatalf("failed to write fixture: %v", err)
		}
		repo, _ := NewFavoritesJSONRepository(path)

		favorites, err := repo.Load(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(favorites) != 0 {
			t.Errorf("expected empty collection, got %+v", favorites)
		}
	})

	corrupt := []struct {
		name    string
		content string
	}{
		{"truncated", `[{"name": "News24"`},
		{"object instead of array", `{"name": "News24", "url": "http://x"}`},
		{"wrong field type", `[{"name": 42, "url": "http://x"}]`},
	}
	for _, tt := range corrupt {
		t.Run("returns error for "+tt.name+" content", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "favorites.json")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("failed to write fixture: %v", err)
			}
			repo, _ := NewFavoritesJSONRepository(path)

			if _, err := repo.Load(context.Background()); err == nil {
				t.Error("expected error for corrupt favorites file")
			}
		})
	}

	t.Run("respects context cancellation", func(t *testing.T) {
		repo, _ := NewFavoritesJSONRepository(filepath.Join(t.TempDir(), "favorites.json"))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := repo.Load(ctx); err == nil {
			t.Error("expected error for cancelled context")
		}
	})
}

func TestFavoritesJSONRepository_Save(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		repo, _ := NewFavoritesJSONRepository(filepath.Join(t.TempDir(), "favorites.json"))
		ctx := context.Background()

		want := []channel.Channel{
			channel.New("Sports1", "http://x/sport.m3u8"),
			channel.New("News24", "http://x/news.m3u8"),
			channel.New("", "http://x/unnamed.m3u8"),
		}
		if err := repo.Save(ctx, want); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		got, err := repo.Load(ctx)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		sortChannels(got)
		sortChannels(want)
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Load() after Save() = %+v, want %+v", got, want)
		}
	})

	t.Run("empty collection is written as empty array", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "favorites.json")
		repo, _ := NewFavoritesJSONRepository(path)

		if err := repo.Save(context.Background(), nil); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read favorites file: %v", err)
		}
		if string(data) != "[]" {
			t.Errorf("file content = %q, want %q", string(data), "[]")
		}
	})

	t.Run("overwrites previous content", func(t *testing.T) {
		repo, _ := NewFavoritesJSONRepository(filepath.Join(t.TempDir(), "favorites.json"))
		ctx := context.Background()

		if err := repo.Save(ctx, []channel.Channel{channel.New("A", "http://a"), channel.New("B", "http://b")}); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if err := repo.Save(ctx, []channel.Channel{channel.New("B", "http://b")}); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		got, err := repo.Load(ctx)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if !reflect.DeepEqual(got, []channel.Channel{channel.New("B", "http://b")}) {
			t.Errorf("Load() = %+v, want only B", got)
		}
	})

	t.Run("creates parent directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "dir", "favorites.json")
		repo, _ := NewFavoritesJSONRepository(path)

		if err := repo.Save(context.Background(), []channel.Channel{channel.New("A", "http://a")}); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected favorites file to exist: %v", err)
		}
	})
}

func sortChannels(channels []channel.Channel) {
	sort.Slice(channels, func(i, j int) bool {
		if channels[i].URL != channels[j].URL {
			return channels[i].URL < channels[j].URL
		}
		return channels[i].Name < channels[j].Name
	})
}
