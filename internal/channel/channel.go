package channel

// Channel represents a named stream locator parsed from a playlist.
// It is a value type: two channels are the same channel when both the name
// and the URL are equal.
type Channel struct {
	Name string
	URL  string
}

// New creates a Channel with the given name and URL.
// No validation is performed: playlists may legitimately yield channels
// without a name.
func New(name, url string) Channel {
	return Channel{Name: name, URL: url}
}

// Equal reports whether c and other describe the same channel.
func (c Channel) Equal(other Channel) bool {
	return c == other
}

// DisplayName returns the name shown to the user, falling back to the URL
// for channels parsed without an #EXTINF line.
func (c Channel) DisplayName() string {
	if c.Name == "" {
		return c.URL
	}
	return c.Name
}

// IndexOf returns the position of ch in channels, or -1 if it is absent.
func IndexOf(channels []Channel, ch Channel) int {
	for i, c := range channels {
		if c == ch {
			return i
		}
	}
	return -1
}

// Contains reports whether ch is present in channels.
func Contains(channels []Channel, ch Channel) bool {
	return IndexOf(channels, ch) >= 0
}

// Clone returns a copy of channels that shares no backing array with the
// input. A nil input yields an empty, non-nil slice.
func Clone(channels []Channel) []Channel {
	out := make([]Channel, len(channels))
	copy(out, channels)
	return out
}
