package driver

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/alorle/m3u-player/internal/application"
	"github.com/alorle/m3u-player/internal/channel"
)

const helpText = `commands:
  open <path>     load a local .m3u/.m3u8 playlist
  url <url>       load a playlist from an http(s) URL
  list            show the displayed channels
  all             show every channel of the loaded playlist
  favs            show the favorite channels
  find <text>     show channels whose name contains text
  fav <n>         add channel n to the favorites
  unfav <n>       remove channel n from the favorites
  play <n>        play channel n
  stop            stop playback
  now             show what is playing
  export <path>   write the favorites to an .m3u file
  health          check the player and the playlist cache
  help            show this help
  quit            exit`

// Shell is an interactive line-oriented front end for the catalog and the
// player. Every user-facing error is printed and the loop continues.
type Shell struct {
	catalog  *application.CatalogService
	playback *application.PlaybackService
	health   *application.HealthService
	logger   *slog.Logger

	in     io.Reader
	out    io.Writer
	prompt bool
}

// NewShell creates a new Shell reading commands from in and writing to out.
// The prompt is printed only when prompt is true (interactive terminals).
func NewShell(
	catalog *application.CatalogService,
	playback *application.PlaybackService,
	health *application.HealthService,
	in io.Reader,
	out io.Writer,
	prompt bool,
	logger *slog.Logger,
) *Shell {
	return &Shell{
		catalog:  catalog,
		playback: playback,
		health:   health,
		logger:   logger,
		in:       in,
		out:      out,
		prompt:   prompt,
	}
}

// Run reads and executes commands until "quit", end of input or ctx is done.
func (s *Shell) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		s.printPrompt()
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if quit := s.Execute(ctx, line); quit {
			return nil
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading commands: %w", err)
	}
	return nil
}

// Execute runs a single command line. It returns true when the user asked to
// quit.
func (s *Shell) Execute(ctx context.Context, line string) bool {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	s.logger.Debug("shell command", "command", cmd)

	switch strings.ToLower(cmd) {
	case "quit", "exit", "q":
		return true
	case "help", "?":
		fmt.Fprintln(s.out, helpText)
	case "open", "file":
		s.handleOpen(ctx, arg)
	case "url":
		s.handleURL(ctx, arg)
	case "list", "ls":
		s.printChannels(s.catalog.Displayed())
	case "all":
		s.printChannels(s.catalog.ShowAll())
	case "favs", "favorites":
		s.printChannels(s.catalog.ShowFavorites())
	case "find", "search":
		s.printChannels(s.catalog.Filter(arg))
	case "fav":
		s.handleFavorite(ctx, arg)
	case "unfav":
		s.handleUnfavorite(ctx, arg)
	case "play":
		s.handlePlay(ctx, arg)
	case "stop":
		s.handleStop()
	case "now":
		s.handleNow()
	case "export":
		s.handleExport(arg)
	case "health":
		s.handleHealth(ctx)
	default:
		fmt.Fprintf(s.out, "error: unknown command %q (type \"help\")\n", cmd)
	}

	return false
}

func (s *Shell) handleOpen(ctx context.Context, path string) {
	n, err := s.catalog.LoadFile(ctx, path)
	if err != nil {
		s.printError(err)
		return
	}
	fmt.Fprintf(s.out, "loaded %d channels\n", n)
	s.printChannels(s.catalog.Displayed())
}

func (s *Shell) handleURL(ctx context.Context, rawURL string) {
	n, err := s.catalog.LoadURL(ctx, rawURL)
	if err != nil {
		s.printError(err)
		return
	}
	fmt.Fprintf(s.out, "loaded %d channels\n", n)
	s.printChannels(s.catalog.Displayed())
}

func (s *Shell) handleFavorite(ctx context.Context, arg string) {
	index, err := s.parseIndex(arg)
	if err != nil {
		s.printError(err)
		return
	}

	ch, added, err := s.catalog.FavoriteAt(ctx, index)
	if err != nil {
		s.printError(err)
		return
	}
	if added {
		fmt.Fprintf(s.out, "added %q to favorites\n", ch.DisplayName())
	}
}

func (s *Shell) handleUnfavorite(ctx context.Context, arg string) {
	index, err := s.parseIndex(arg)
	if err != nil {
		s.printError(err)
		return
	}

	ch, removed, err := s.catalog.UnfavoriteAt(ctx, index)
	if err != nil {
		s.printError(err)
		return
	}
	if !removed {
		return
	}

	fmt.Fprintf(s.out, "removed %q from favorites\n", ch.DisplayName())
	if s.catalog.View() == application.ViewFavorites {
		s.printChannels(s.catalog.Displayed())
	}
}

func (s *Shell) handlePlay(ctx context.Context, arg string) {
	index, err := s.parseIndex(arg)
	if err != nil {
		s.printError(err)
		return
	}

	ch, _, err := s.playback.Play(ctx, index)
	if err != nil {
		s.printError(err)
		return
	}
	fmt.Fprintf(s.out, "playing %q\n", ch.DisplayName())
}

func (s *Shell) handleStop() {
	if err := s.playback.Stop(); err != nil {
		s.printError(err)
		return
	}
	fmt.Fprintln(s.out, "stopped")
}

func (s *Shell) handleNow() {
	ch, session, ok := s.playback.NowPlaying()
	if !ok {
		fmt.Fprintln(s.out, "nothing is playing")
		return
	}
	fmt.Fprintf(s.out, "playing %q since %s\n", ch.DisplayName(), session.StartedAt.Format("15:04:05"))
}

func (s *Shell) handleExport(path string) {
	if path == "" {
		s.printError(fmt.Errorf("%w: no export path given", application.ErrInput))
		return
	}

	f, err := os.Create(path)
	if err != nil {
		s.printError(err)
		return
	}

	err = s.catalog.ExportFavorites(f)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		s.printError(err)
		return
	}

	fmt.Fprintf(s.out, "exported %d favorites to %s\n", len(s.catalog.Favorites()), path)
}

func (s *Shell) handleHealth(ctx context.Context) {
	status := s.health.Check(ctx)
	fmt.Fprintf(s.out, "status: %s\n", status.Status)
	printComponent(s.out, "cache", status.Cache)
	printComponent(s.out, "player", status.Player)
}

func printComponent(w io.Writer, name string, c application.ComponentHealth) {
	if c.Error != "" {
		fmt.Fprintf(w, "  %-6s %s (%s)\n", name, c.Status, c.Error)
		return
	}
	fmt.Fprintf(w, "  %-6s %s\n", name, c.Status)
}

// parseIndex converts a 1-based position typed by the user to a 0-based index.
func (s *Shell) parseIndex(arg string) (int, error) {
	if arg == "" {
		return 0, fmt.Errorf("%w: no channel selected", application.ErrSelection)
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a channel number", application.ErrSelection, arg)
	}
	return n - 1, nil
}

func (s *Shell) printChannels(channels []channel.Channel) {
	if len(channels) == 0 {
		fmt.Fprintln(s.out, "(no channels)")
		return
	}

	favorites := s.catalog.Favorites()
	for i, ch := range channels {
		marker := " "
		if channel.Contains(favorites, ch) {
			marker = "*"
		}
		fmt.Fprintf(s.out, "%4d %s %s\n", i+1, marker, ch.DisplayName())
	}
}

func (s *Shell) printError(err error) {
	if errors.Is(err, application.ErrSelection) {
		total := len(s.catalog.Displayed())
		if total == 0 {
			fmt.Fprintln(s.out, "error: select a channel first (the list is empty)")
			return
		}
		fmt.Fprintf(s.out, "error: select a channel between 1 and %d\n", total)
		return
	}
	fmt.Fprintf(s.out, "error: %v\n", err)
}

func (s *Shell) printPrompt() {
	if !s.prompt {
		return
	}
	fmt.Fprintf(s.out, "m3u [%s]> ", s.catalog.View())
}
