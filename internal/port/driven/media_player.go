package driven

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PlaybackSession describes the stream currently being played.
type PlaybackSession struct {
	ID        uuid.UUID
	URL       string
	StartedAt time.Time
}

// MediaPlayer controls the external component that renders streams.
// Only one playback session exists at any time.
type MediaPlayer interface {
	// SetMedia selects the stream URL used by the next Play call.
	SetMedia(url string)

	// Play starts the selected media, replacing any session in progress.
	Play(ctx context.Context) (PlaybackSession, error)

	// Stop ends the current session. Stopping an idle player is a no-op.
	Stop() error

	// Current returns the active session, if any.
	Current() (PlaybackSession, bool)

	// Ping checks that the player can be launched on this system.
	Ping(ctx context.Context) error
}
