package application

import (
	"context"

	"github.com/alorle/m3u-player/internal/port/driven"
)

// HealthService checks that the collaborators needed at runtime are usable.
type HealthService struct {
	cache  driven.PlaylistCache
	player driven.MediaPlayer
}

// NewHealthService creates a new health check service.
func NewHealthService(cache driven.PlaylistCache, player driven.MediaPlayer) *HealthService {
	return &HealthService{
		cache:  cache,
		player: player,
	}
}

// ComponentHealth represents the health status of a single component.
type ComponentHealth struct {
	Status string // "ok" or "error"
	Error  string // empty if status is "ok", otherwise contains error message
}

// HealthStatus represents the overall health status of the application.
type HealthStatus struct {
	Status string          // "ok" if all components are healthy, "degraded" otherwise
	Cache  ComponentHealth // playlist cache database
	Player ComponentHealth // external media player
}

// Check performs health checks on all dependencies.
func (s *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status: "ok",
		Cache:  checkComponent(s.cache.Ping(ctx)),
		Player: checkComponent(s.player.Ping(ctx)),
	}

	if status.Cache.Status != "ok" || status.Player.Status != "ok" {
		status.Status = "degraded"
	}

	return status
}

func checkComponent(err error) ComponentHealth {
	if err != nil {
		return ComponentHealth{Status: "error", Error: err.Error()}
	}
	return ComponentHealth{Status: "ok"}
}
