package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alorle/m3u-player/internal/channel"
	"github.com/alorle/m3u-player/internal/metrics"
	"github.com/alorle/m3u-player/internal/port/driven"
)

// ChannelResolver resolves a position in the displayed list to a channel.
type ChannelResolver interface {
	Resolve(index int) (channel.Channel, error)
}

// PlaybackService hands selected channels to the media player.
type PlaybackService struct {
	resolver ChannelResolver
	player   driven.MediaPlayer
	logger   *slog.Logger

	current channel.Channel
}

// NewPlaybackService creates a new PlaybackService.
func NewPlaybackService(resolver ChannelResolver, player driven.MediaPlayer, logger *slog.Logger) *PlaybackService {
	return &PlaybackService{
		resolver: resolver,
		player:   player,
		logger:   logger,
	}
}

// Play resolves the displayed channel at index and starts playing it,
// replacing whatever was playing before.
func (s *PlaybackService) Play(ctx context.Context, index int) (channel.Channel, driven.PlaybackSession, error) {
	ch, err := s.resolver.Resolve(index)
	if err != nil {
		return channel.Channel{}, driven.PlaybackSession{}, err
	}

	s.player.SetMedia(ch.URL)
	session, err := s.player.Play(ctx)
	if err != nil {
		s.logger.Error("failed to start playback", "name", ch.Name, "url", ch.URL, "error", err)
		return channel.Channel{}, driven.PlaybackSession{}, fmt.Errorf("%w: %w", ErrPlayback, err)
	}

	s.current = ch
	metrics.RecordPlaybackStart()
	s.logger.Info("playback started", "name", ch.Name, "url", ch.URL, "session_id", session.ID)

	return ch, session, nil
}

// Stop ends the current playback session, if any.
func (s *PlaybackService) Stop() error {
	if err := s.player.Stop(); err != nil {
		return fmt.Errorf("%w: %w", ErrPlayback, err)
	}
	s.current = channel.Channel{}
	return nil
}

// NowPlaying returns the channel being played and its session.
// The last return value is false when the player is idle.
func (s *PlaybackService) NowPlaying() (channel.Channel, driven.PlaybackSession, bool) {
	session, ok := s.player.Current()
	if !ok || session.URL != s.current.URL {
		return channel.Channel{}, driven.PlaybackSession{}, false
	}
	return s.current, session, true
}
