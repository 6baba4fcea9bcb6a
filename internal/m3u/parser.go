package m3u

import (
	"strings"

	"github.com/alorle/m3u-player/internal/channel"
)

const (
	extinfPrefix = "#EXTINF:"
	urlPrefix    = "http"
)

// Parse converts raw M3U content into channels, preserving playlist order.
//
// An #EXTINF line sets the name of the pending entry to its second
// comma-separated field; the next line starting with "http" completes the
// entry. Anything else is ignored. Parse never fails: an #EXTINF line that is
// not followed by a URL is dropped, and a URL without a preceding #EXTINF
// line yields a channel with an empty name.
func Parse(content string) []channel.Channel {
	channels := []channel.Channel{}
	var pending channel.Channel

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSuffix(line, "\r")

		switch {
		case strings.HasPrefix(line, extinfPrefix):
			pending.Name = titleField(line)
		case strings.HasPrefix(line, urlPrefix):
			pending.URL = strings.TrimSpace(line)
			channels = append(channels, pending)
			pending = channel.Channel{}
		}
	}

	return channels
}

// titleField returns the field following the first comma of an #EXTINF line.
// Embedded commas are not escaped, so only that single field is kept.
func titleField(line string) string {
	fields := strings.Split(line, ",")
	if len(fields) < 2 {
		return ""
	}
	return fields[1]
}
