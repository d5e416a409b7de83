// Package editor holds the state of one editing session: the current lyrics
// sequence, the keyboard cursor, the player the timestamps are taken from
// and the store the work is saved to.
//
// A Session is not safe for concurrent use; drive it from one goroutine.
package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/miracle2k/elrc-maker/internal/lyrics"
	"github.com/miracle2k/elrc-maker/internal/observe"
	"github.com/miracle2k/elrc-maker/internal/playback"
	"github.com/miracle2k/elrc-maker/internal/store"
)

// DefaultKey is the store key the snapshot is saved under.
const DefaultKey = "lyrics"

// Options configures a Session.
type Options struct {
	// Player supplies positions for Assign and executes PlayFrom. Optional
	// for sessions that only edit stored data.
	Player playback.Player
	Store  store.Store
	// Key defaults to DefaultKey.
	Key string
	// Duration is used when there is no player or it does not know the
	// duration yet.
	Duration float64
	// Preroll defaults to playback.DefaultPreroll.
	Preroll      float64
	WordsPerLine int
	// Metrics defaults to observe.DefaultMetrics().
	Metrics *observe.Metrics
	// OnChange is called for every timestamp change of the current
	// sequence, after the session's own bookkeeping.
	OnChange lyrics.Listener
}

// Session is one editing session.
type Session struct {
	seq    *lyrics.Sequence
	cursor int

	player       playback.Player
	bridge       *playback.Bridge
	store        store.Store
	key          string
	duration     float64
	wordsPerLine int
	metrics      *observe.Metrics
	onChange     lyrics.Listener

	unsubscribe func()
	// editing is the index of the explicit edit in progress, -1 otherwise.
	editing int
}

// New returns a session over an empty sequence.
func New(opts Options) *Session {
	if opts.Key == "" {
		opts.Key = DefaultKey
	}
	if opts.WordsPerLine <= 0 {
		opts.WordsPerLine = lyrics.WordsPerLine
	}
	if opts.Metrics == nil {
		opts.Metrics = observe.DefaultMetrics()
	}
	s := &Session{
		player:       opts.Player,
		store:        opts.Store,
		key:          opts.Key,
		duration:     opts.Duration,
		wordsPerLine: opts.WordsPerLine,
		metrics:      opts.Metrics,
		onChange:     opts.OnChange,
		editing:      -1,
	}
	if s.player != nil {
		s.bridge = playback.NewBridge(s.player, opts.Preroll)
	}
	s.Replace(lyrics.New(s.currentDuration()))
	return s
}

// Sequence returns the current sequence. It is replaced wholesale on
// import; do not hold on to it across Import or Restore.
func (s *Session) Sequence() *lyrics.Sequence { return s.seq }

// Bridge returns the playback bridge, or nil without a player.
func (s *Session) Bridge() *playback.Bridge { return s.bridge }

// Replace makes seq the current sequence and resets the cursor.
func (s *Session) Replace(seq *lyrics.Sequence) {
	ctx := context.Background()
	before := 0
	if s.seq != nil {
		before = s.seq.TimedCount()
	}
	if s.unsubscribe != nil {
		s.unsubscribe()
	}

	s.seq = seq
	s.unsubscribe = seq.Subscribe(s.handleChange)
	if s.bridge != nil {
		s.bridge.SetSequence(seq)
	}
	if _, ok := seq.Duration(); !ok {
		seq.SetDuration(s.currentDuration())
	}
	s.metrics.TimedWords.Add(ctx, int64(seq.TimedCount()-before))
	s.cursor = 0
}

func (s *Session) handleChange(index int, t *float64) {
	ctx := context.Background()
	if t != nil {
		s.metrics.TimesSet.Add(ctx, 1)
	} else {
		s.metrics.RecordCleared(ctx, index != s.editing)
	}
	if s.onChange != nil {
		s.onChange(index, t)
	}
}

func (s *Session) currentDuration() float64 {
	if s.player != nil {
		if d, ok := s.player.Duration(); ok {
			return d
		}
	}
	return s.duration
}

// Restore loads the saved snapshot. It reports false when nothing was
// saved. A stored value that is not a valid snapshot is imported as free
// text.
func (s *Session) Restore(ctx context.Context) (bool, error) {
	if s.store == nil {
		return false, nil
	}
	data, ok, err := s.store.Load(ctx, s.key)
	if err != nil || !ok {
		return false, err
	}

	seq, err := lyrics.UnmarshalSnapshot([]byte(data), s.currentDuration())
	if errors.Is(err, lyrics.ErrFormat) {
		slog.Warn("stored lyrics are not a snapshot, loading as text", "key", s.key, "err", err)
		seq = lyrics.FromText(data, s.currentDuration())
	} else if err != nil {
		return false, err
	}
	s.Replace(seq)
	slog.Debug("restored lyrics", "key", s.key, "words", seq.Len(), "timed", seq.TimedCount())
	return true, nil
}

// Save writes the current sequence as a snapshot.
func (s *Session) Save(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	data, err := lyrics.MarshalSnapshot(s.seq)
	if err != nil {
		return err
	}
	if err := s.store.Save(ctx, s.key, string(data)); err != nil {
		return fmt.Errorf("save lyrics: %w", err)
	}
	return nil
}

// Import replaces the current sequence with the one parsed from payload and
// saves it. Existing timestamps are discarded, never merged.
func (s *Session) Import(ctx context.Context, payload string) (lyrics.Import, error) {
	imp := lyrics.ParseImport(payload, s.currentDuration())
	if imp.Fallback != nil {
		slog.Warn("payload not recognised, importing as text", "err", imp.Fallback)
	}
	s.Replace(imp.Sequence)
	s.metrics.RecordImport(ctx, string(imp.Kind))
	slog.Info("imported lyrics", "kind", imp.Kind, "words", imp.Sequence.Len(), "timed", imp.Sequence.TimedCount())
	return imp, s.Save(ctx)
}

// SetTime is an explicit edit of one word's time. Words cleared because
// they conflict with it are counted separately from explicit clears.
func (s *Session) SetTime(index int, t *float64) error {
	before := s.seq.TimedCount()
	s.editing = index
	err := s.seq.SetTime(index, t)
	s.editing = -1
	s.metrics.TimedWords.Add(context.Background(), int64(s.seq.TimedCount()-before))
	return err
}

// Text returns the words joined by single spaces, for editing and
// re-importing. Timestamps do not survive a re-import.
func (s *Session) Text() string { return s.seq.Text() }

// Cursor returns the keyboard cursor.
func (s *Session) Cursor() int { return s.cursor }

// SetCursor moves the cursor to index, clamped to the words.
func (s *Session) SetCursor(index int) {
	s.cursor = max(0, min(index, s.seq.Len()-1))
}

// MoveCursor moves the cursor by delta words.
func (s *Session) MoveCursor(delta int) { s.SetCursor(s.cursor + delta) }

// Assign gives the word under the cursor the current playback position and
// advances the cursor. It does nothing and reports false unless media is
// loaded and playing.
func (s *Session) Assign() (bool, error) {
	if s.player == nil || !s.player.Playing() {
		return false, nil
	}
	if _, ok := s.player.Duration(); !ok {
		return false, nil
	}
	if s.cursor >= s.seq.Len() {
		return false, nil
	}
	if err := s.SetTime(s.cursor, lyrics.Seconds(s.player.Position())); err != nil {
		return false, err
	}
	s.MoveCursor(1)
	return true, nil
}

// ClearAtCursor removes the time of the word under the cursor and steps
// the cursor back.
func (s *Session) ClearAtCursor() error {
	if err := s.SetTime(s.cursor, nil); err != nil {
		return err
	}
	s.MoveCursor(-1)
	return nil
}

// PlayFrom moves the cursor to index and starts playback shortly before
// that word. It returns the seek target.
func (s *Session) PlayFrom(ctx context.Context, index int) (float64, error) {
	s.SetCursor(index)
	if s.bridge == nil {
		return 0, errors.New("play from word: no player")
	}
	if _, ok := s.player.Duration(); !ok {
		return 0, fmt.Errorf("play from word: %w", lyrics.ErrNoDuration)
	}
	target, err := s.bridge.JumpTo(index)
	if err != nil {
		return 0, err
	}
	s.metrics.Jumps.Add(ctx, 1)
	return target, nil
}

// Export renders the current sequence as ELRC.
func (s *Session) Export() string {
	return lyrics.ExportELRCLines(s.seq, s.wordsPerLine)
}

// ExportFilename returns the file name an export of audioPath is saved
// under: the audio base name with an .lrc extension, or export.lrc.
func ExportFilename(audioPath string) string {
	base := filepath.Base(audioPath)
	if audioPath == "" || base == "." || base == string(filepath.Separator) {
		return "export.lrc"
	}
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".lrc"
}
