package application

import "errors"

// Error categories reported to the user. Every error returned by the
// services wraps exactly one of them; match with errors.Is.
var (
	ErrInput       = errors.New("invalid input")
	ErrFetch       = errors.New("failed to fetch playlist")
	ErrFile        = errors.New("failed to read playlist file")
	ErrSelection   = errors.New("invalid channel selection")
	ErrPersistence = errors.New("favorites storage error")
	ErrPlayback    = errors.New("playback error")
)
