package playback

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/miracle2k/elrc-maker/internal/lyrics"
)

// DefaultPreroll is how far before a word playback starts when jumping to it.
const DefaultPreroll = 1.5

// Bridge maps player positions to the active word of a lyrics sequence and
// words back to seek targets. It does not clamp seek targets; the player
// does.
type Bridge struct {
	player  Player
	seq     *lyrics.Sequence
	preroll float64

	active   int
	onActive func(index int)
}

// NewBridge returns a bridge for player. A preroll of 0 or less uses
// DefaultPreroll.
func NewBridge(player Player, preroll float64) *Bridge {
	if preroll <= 0 {
		preroll = DefaultPreroll
	}
	return &Bridge{player: player, preroll: preroll, active: -1}
}

// SetSequence points the bridge at seq, which replaces the previous sequence
// wholesale. A known player duration is handed to the new sequence.
func (b *Bridge) SetSequence(seq *lyrics.Sequence) {
	b.seq = seq
	b.active = -1
	if d, ok := b.player.Duration(); ok && seq != nil {
		seq.SetDuration(d)
	}
}

// OnActive registers fn to be called when the active word changes.
func (b *Bridge) OnActive(fn func(index int)) { b.onActive = fn }

// Active returns the index of the word playing at the last handled
// position, or -1 when none has been determined.
func (b *Bridge) Active() int { return b.active }

// HandleEvent applies a player event: ticks update the active word and a
// duration event hands the duration to the sequence. Errors from the
// position lookup are returned to the caller.
func (b *Bridge) HandleEvent(ev Event) error {
	switch ev.Kind {
	case EventDuration:
		if b.seq != nil {
			b.seq.SetDuration(ev.Duration)
		}
	case EventTick:
		_, err := b.HandlePosition(ev.Position)
		return err
	}
	return nil
}

// HandlePosition looks up the word playing at position and makes it the
// active word. The index is clamped to the sequence bounds.
func (b *Bridge) HandlePosition(position float64) (int, error) {
	if b.seq == nil || b.seq.Len() == 0 {
		return -1, nil
	}
	idx, err := b.seq.IndexForTime(position)
	if err != nil {
		return b.active, err
	}
	idx = max(0, min(idx, b.seq.Len()-1))
	if idx != b.active {
		b.active = idx
		if b.onActive != nil {
			b.onActive(idx)
		}
	}
	return idx, nil
}

// JumpTo starts playback shortly before the word at index: at its own time
// when timed, otherwise at its approximate time. It returns the seek target.
func (b *Bridge) JumpTo(index int) (float64, error) {
	if b.seq == nil {
		return 0, fmt.Errorf("jump to word %d: %w", index, lyrics.ErrEmpty)
	}
	w, err := b.seq.Word(index)
	if err != nil {
		return 0, fmt.Errorf("jump to word %d: %w", index, err)
	}

	var at float64
	if w.Time != nil {
		at = *w.Time
	} else if at, err = b.seq.ApproximateTime(index); err != nil {
		return 0, fmt.Errorf("jump to word %d: %w", index, err)
	}

	target := at - b.preroll
	b.player.Play()
	b.player.Seek(target)
	slog.Debug("jump to word", "index", index, "word", w.Text, "target", lyrics.FormatTimer(target, false))
	return target, nil
}

// Attach subscribes the bridge to the player's events. Lookup failures are
// logged at debug level; a tick before the duration is known is expected.
func (b *Bridge) Attach() (detach func()) {
	return b.player.Subscribe(func(ev Event) {
		if err := b.HandleEvent(ev); err != nil && !errors.Is(err, lyrics.ErrNoDuration) {
			slog.Debug("playback event", "kind", ev.Kind, "err", err)
		}
	})
}
