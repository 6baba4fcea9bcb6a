package m3u

import (
	"fmt"
	"io"

	"github.com/alorle/m3u-player/internal/channel"
)

// Encoder writes channels as an extended M3U playlist.
type Encoder struct {
	items []channel.Channel
}

func NewEncoder() *Encoder {
	return &Encoder{items: []channel.Channel{}}
}

func (e *Encoder) AddChannel(ch channel.Channel) {
	e.items = append(e.items, ch)
}

func (e *Encoder) Encode(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "#EXTM3U\n"); err != nil {
		return err
	}

	for _, item := range e.items {
		if _, err := fmt.Fprintf(w, "#EXTINF:-1,%s\n%s\n", item.Name, item.URL); err != nil {
			return err
		}
	}

	return nil
}
