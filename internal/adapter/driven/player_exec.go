package driven

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	port "github.com/alorle/m3u-player/internal/port/driven"
)

// URLPlaceholder is replaced by the stream URL in player arguments.
const URLPlaceholder = "{url}"

// ExecPlayer implements the MediaPlayer port by running an external player
// (mpv, vlc, ffplay, ...) as a child process. At most one process runs at a
// time.
type ExecPlayer struct {
	command string
	args    []string
	logger  *slog.Logger

	mu      sync.Mutex
	media   string
	cmd     *exec.Cmd
	done    chan struct{}
	session port.PlaybackSession
}

// NewExecPlayer creates a player that runs command with args. If no argument
// contains URLPlaceholder the stream URL is appended as the last argument.
func NewExecPlayer(command string, args []string, logger *slog.Logger) *ExecPlayer {
	return &ExecPlayer{
		command: command,
		args:    append([]string(nil), args...),
		logger:  logger,
	}
}

// SetMedia selects the stream URL used by the next Play call.
func (p *ExecPlayer) SetMedia(url string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.media = url
}

// Play starts the player process for the selected media. A running process is
// killed and reaped first. The process is also killed when ctx is cancelled.
func (p *ExecPlayer) Play(ctx context.Context) (port.PlaybackSession, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.media == "" {
		return port.PlaybackSession{}, errors.New("no media selected")
	}

	if err := p.stopLocked(); err != nil {
		return port.PlaybackSession{}, err
	}

	cmd := exec.CommandContext(ctx, p.command, p.buildArgs(p.media)...)
	if err := cmd.Start(); err != nil {
		return port.PlaybackSession{}, fmt.Errorf("starting %s: %w", p.command, err)
	}

	session := port.PlaybackSession{
		ID:        uuid.New(),
		URL:       p.media,
		StartedAt: time.Now(),
	}
	done := make(chan struct{})

	p.cmd = cmd
	p.done = done
	p.session = session

	p.logger.Debug("player process started", "session_id", session.ID, "pid", cmd.Process.Pid)

	go p.wait(cmd, done, session)

	return session, nil
}

// wait reaps the process and clears the session if it is still the current one.
func (p *ExecPlayer) wait(cmd *exec.Cmd, done chan struct{}, session port.PlaybackSession) {
	err := cmd.Wait()
	close(done)

	p.mu.Lock()
	if p.cmd == cmd {
		p.cmd = nil
		p.done = nil
	}
	p.mu.Unlock()

	if err != nil {
		p.logger.Debug("player process exited", "session_id", session.ID, "error", err)
		return
	}
	p.logger.Debug("player process exited", "session_id", session.ID)
}

// Stop kills the running player process, if any, and waits for it to exit.
func (p *ExecPlayer) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stopLocked()
}

func (p *ExecPlayer) stopLocked() error {
	if p.cmd == nil {
		return nil
	}

	cmd, done := p.cmd, p.done
	p.cmd = nil
	p.done = nil

	if err := cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("stopping %s: %w", p.command, err)
	}
	<-done

	p.logger.Debug("player process stopped", "session_id", p.session.ID)
	return nil
}

// Current returns the running session, if any.
func (p *ExecPlayer) Current() (port.PlaybackSession, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cmd == nil {
		return port.PlaybackSession{}, false
	}
	return p.session, true
}

// Ping checks that the player command can be found.
func (p *ExecPlayer) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := exec.LookPath(p.command); err != nil {
		return fmt.Errorf("player command: %w", err)
	}
	return nil
}

// buildArgs substitutes url into the configured arguments.
func (p *ExecPlayer) buildArgs(url string) []string {
	args := make([]string, 0, len(p.args)+1)
	substituted := false
	for _, arg := range p.args {
		if strings.Contains(arg, URLPlaceholder) {
			arg = strings.ReplaceAll(arg, URLPlaceholder, url)
			substituted = true
		}
		args = append(args, arg)
	}
	if !substituted {
		args = append(args, url)
	}
	return args
}
