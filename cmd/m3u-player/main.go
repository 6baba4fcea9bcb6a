package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.etcd.io/bbolt"
	"golang.org/x/term"

	"github.com/alorle/m3u-player/internal/adapter/driven"
	"github.com/alorle/m3u-player/internal/adapter/driver"
	"github.com/alorle/m3u-player/internal/application"
	"github.com/alorle/m3u-player/internal/config"
	"github.com/alorle/m3u-player/internal/metrics"
)

func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if strings.EqualFold(cfg.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Logs go to stderr so they never interleave with the shell on stdout
	logger := newLogger(cfg, os.Stderr)
	slog.SetDefault(logger)

	logger.Info("starting m3u-player",
		"favorites_path", cfg.Favorites.Path,
		"player", cfg.Player.Command,
		"cache_db_path", cfg.Cache.DBPath,
		"cache_fallback", cfg.Cache.Fallback,
		"fetch_timeout", cfg.Fetch.Timeout,
		"log_level", cfg.Log.Level,
	)

	if err := run(cfg, logger); err != nil {
		logger.Error("m3u-player stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Open BoltDB
	db, err := bbolt.Open(cfg.Cache.DBPath, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return fmt.Errorf("failed to open cache database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("error closing cache database", "error", err)
		}
	}()

	// Create driven adapters
	playlistCache, err := driven.NewPlaylistBoltDBCache(db)
	if err != nil {
		return fmt.Errorf("failed to create playlist cache: %w", err)
	}

	favoritesRepo, err := driven.NewFavoritesJSONRepository(cfg.Favorites.Path)
	if err != nil {
		return fmt.Errorf("failed to create favorites repository: %w", err)
	}

	httpClient := &http.Client{Timeout: cfg.Fetch.Timeout}
	fetcher := driven.NewPlaylistHTTPSource(httpClient, playlistCache, cfg.Cache.Fallback, logger)
	files := driven.NewPlaylistFileSource()
	player := driven.NewExecPlayer(cfg.Player.Command, cfg.Player.Args, logger)

	// Create application services
	catalog, err := application.NewCatalogService(ctx, favoritesRepo, files, fetcher, logger)
	if err != nil {
		// Not fatal: the catalog starts with no favorites
		logger.Warn("failed to load favorites", "path", cfg.Favorites.Path, "error", err)
		fmt.Fprintf(os.Stdout, "error: %v\n", err)
	}
	playback := application.NewPlaybackService(catalog, player, logger)
	health := application.NewHealthService(playlistCache, player)

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	shell := driver.NewShell(catalog, playback, health, os.Stdin, os.Stdout, interactive, logger)

	if interactive {
		fmt.Fprintln(os.Stdout, `m3u-player: type "help" for the list of commands`)
	}

	shellErr := make(chan error, 1)
	go func() {
		shellErr <- shell.Run(ctx)
	}()

	// A blocked read on stdin cannot be interrupted, so a signal ends the
	// session without waiting for the shell goroutine.
	select {
	case err = <-shellErr:
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		err = nil
	}

	if stopErr := player.Stop(); stopErr != nil {
		logger.Error("failed to stop player", "error", stopErr)
	}

	if cfg.Metrics.Textfile != "" {
		if mErr := metrics.WriteTextfile(cfg.Metrics.Textfile); mErr != nil {
			logger.Error("failed to write metrics textfile", "path", cfg.Metrics.Textfile, "error", mErr)
		}
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info("m3u-player stopped")
	return nil
}
