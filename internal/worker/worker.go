// Package worker runs an interactive alignment session: a simulated player
// ticking in the background, commands read line by line from a terminal and
// an optional metrics endpoint, all tied to one context.
package worker

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/miracle2k/elrc-maker/internal/editor"
	"github.com/miracle2k/elrc-maker/internal/lyrics"
	"github.com/miracle2k/elrc-maker/internal/observe"
	"github.com/miracle2k/elrc-maker/internal/playback"

	"golang.org/x/sync/errgroup"
)

// Help lists the commands understood by Run.
const Help = `commands:
  <enter>  assign the playback position to the word under the cursor
  d        clear the word under the cursor and step back
  h / l    move the cursor left / right
  j N      play from word N
  p        play / pause
  + / -    faster / slower
  r X      set the playback rate to X
  < / >    seek back / forward
  s        show status
  w        save
  q        save and quit`

// Options configures the worker.
type Options struct {
	Session *editor.Session
	Player  *playback.ClockPlayer
	Input   io.Reader
	Output  io.Writer

	SeekStep   float64
	RateStep   float64
	RateLimits playback.RateLimits

	// MetricsAddr serves /metrics while the session runs when non-empty.
	MetricsAddr     string
	ShutdownTimeout time.Duration
}

// errQuit ends the event loop without being reported as a failure.
var errQuit = errors.New("quit")

// Run drives the session until the input ends, a quit command is read or
// ctx is done. The session is saved on the way out.
func Run(ctx context.Context, opts Options) error {
	if opts.Session == nil || opts.Session.Bridge() == nil {
		return errors.New("worker: session has no player")
	}
	if opts.SeekStep <= 0 {
		opts.SeekStep = 1
	}
	if opts.RateStep <= 0 {
		opts.RateStep = 0.1
	}
	if opts.RateLimits == (playback.RateLimits{}) {
		opts.RateLimits = playback.DefaultRateLimits
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Player events arrive on the ticking goroutine; they are funnelled into
	// the loop so the session is only touched from one goroutine. Dropped
	// ticks are harmless, the next one carries the current position.
	events := make(chan playback.Event, 64)
	unsubscribe := opts.Player.Subscribe(func(ev playback.Event) {
		select {
		case events <- ev:
		default:
			slog.Debug("dropped player event", "kind", ev.Kind)
		}
	})
	defer unsubscribe()

	// The reader is left out of the group: a blocked read on a terminal
	// cannot be interrupted and must not hold up shutdown.
	lines := make(chan string)
	go readLines(ctx, opts.Input, lines)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return opts.Player.Run(gctx)
	})
	if opts.MetricsAddr != "" {
		g.Go(func() error {
			return observe.Serve(gctx, opts.MetricsAddr, opts.ShutdownTimeout)
		})
	}
	g.Go(func() error {
		defer cancel()
		l := &loop{opts: opts, out: opts.Output}
		return l.run(gctx, events, lines)
	})

	err := g.Wait()
	if errors.Is(err, errQuit) {
		err = nil
	}
	if saveErr := opts.Session.Save(context.WithoutCancel(ctx)); saveErr != nil {
		err = errors.Join(err, saveErr)
	}
	return err
}

func readLines(ctx context.Context, r io.Reader, lines chan<- string) {
	defer close(lines)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		select {
		case lines <- scanner.Text():
		case <-ctx.Done():
			return
		}
	}
	if err := scanner.Err(); err != nil {
		slog.Warn("read commands", "err", err)
	}
}

type loop struct {
	opts Options
	out  io.Writer
}

func (l *loop) run(ctx context.Context, events <-chan playback.Event, lines <-chan string) error {
	s := l.opts.Session
	bridge := s.Bridge()
	bridge.OnActive(func(index int) {
		w, err := s.Sequence().Word(index)
		if err != nil {
			return
		}
		fmt.Fprintf(l.out, "%s  > %d %s\n", playback.PositionLabel(l.opts.Player), index, w.Text)
	})

	l.status()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if err := bridge.HandleEvent(ev); err != nil && !errors.Is(err, lyrics.ErrNoDuration) {
				slog.Debug("playback event", "kind", ev.Kind, "err", err)
			}
		case line, ok := <-lines:
			if !ok {
				return errQuit
			}
			if err := l.command(ctx, line); err != nil {
				if errors.Is(err, errQuit) {
					return err
				}
				fmt.Fprintf(l.out, "error: %v\n", err)
			}
		}
	}
}

func (l *loop) command(ctx context.Context, line string) error {
	s := l.opts.Session
	p := l.opts.Player

	name, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "":
		ok, err := s.Assign()
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(l.out, "not playing")
			return nil
		}
	case "d":
		if err := s.ClearAtCursor(); err != nil {
			return err
		}
	case "h":
		s.MoveCursor(-1)
	case "l":
		s.MoveCursor(1)
	case "j":
		index, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("play from word: %w", err)
		}
		if _, err := s.PlayFrom(ctx, index); err != nil {
			return err
		}
	case "p":
		if p.Playing() {
			p.Pause()
		} else {
			p.Play()
		}
	case "+", "-":
		r, err := playback.ChangeRate(p.Rate(), name+strconv.FormatFloat(l.opts.RateStep, 'f', -1, 64), l.opts.RateLimits)
		if err != nil {
			return err
		}
		p.SetRate(r)
	case "r":
		r, err := playback.ChangeRate(p.Rate(), arg, l.opts.RateLimits)
		if err != nil {
			return err
		}
		p.SetRate(r)
	case "<":
		p.Seek(p.Position() - l.opts.SeekStep)
	case ">":
		p.Seek(p.Position() + l.opts.SeekStep)
	case "s":
	case "w":
		if err := s.Save(ctx); err != nil {
			return err
		}
		fmt.Fprintln(l.out, "saved")
	case "q":
		return errQuit
	case "?":
		fmt.Fprintln(l.out, Help)
		return nil
	default:
		return fmt.Errorf("unknown command %q, ? for help", name)
	}
	l.status()
	return nil
}

func (l *loop) status() {
	s := l.opts.Session
	word := "-"
	if w, err := s.Sequence().Word(s.Cursor()); err == nil {
		word = w.Text + " " + lyrics.FormatTime(w.Time, false)
	}
	state := "paused"
	if l.opts.Player.Playing() {
		state = "playing"
	}
	fmt.Fprintf(l.out, "%s  %s x%s  cursor %d: %s  timed %d/%d\n",
		playback.PositionLabel(l.opts.Player), state, playback.FormatRate(l.opts.Player.Rate()),
		s.Cursor(), word, s.Sequence().TimedCount(), s.Sequence().Len())
}
