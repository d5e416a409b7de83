package editor

import (
	"context"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/miracle2k/elrc-maker/internal/lyrics"
	"github.com/miracle2k/elrc-maker/internal/observe"
	"github.com/miracle2k/elrc-maker/internal/playback"
	"github.com/miracle2k/elrc-maker/internal/store"
)

func newTestSession(t *testing.T, text string) (*Session, *playback.ClockPlayer, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	m, err := observe.NewMetrics(mp)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}

	player := playback.NewClockPlayer(playback.ClockOptions{Duration: 30})
	s := New(Options{Player: player, Store: store.NewMemoryStore(), Metrics: m})
	if text != "" {
		if _, err := s.Import(context.Background(), text); err != nil {
			t.Fatalf("Import: %v", err)
		}
	}
	return s, player, reader
}

func counter(t *testing.T, reader *sdkmetric.ManualReader, name, reason string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("metric %q data is %T", name, m.Data)
			}
			var total int64
			for _, dp := range sum.DataPoints {
				if v, ok := dp.Attributes.Value(attribute.Key("reason")); reason == "" || (ok && v.AsString() == reason) {
					total += dp.Value
				}
			}
			return total
		}
	}
	return 0
}

func timeOf(t *testing.T, s *Session, i int) *float64 {
	t.Helper()
	w, err := s.Sequence().Word(i)
	if err != nil {
		t.Fatalf("Word(%d): %v", i, err)
	}
	return w.Time
}

func TestSession_AssignNeedsPlayback(t *testing.T) {
	s, player, _ := newTestSession(t, "one two three")

	player.Seek(2)
	if ok, err := s.Assign(); err != nil || ok {
		t.Fatalf("Assign while paused = %v, %v; want false", ok, err)
	}

	player.Play()
	if ok, err := s.Assign(); err != nil || !ok {
		t.Fatalf("Assign = %v, %v", ok, err)
	}
	if got := timeOf(t, s, 0); got == nil || *got != 2 {
		t.Errorf("word 0 time = %v, want 2", got)
	}
	if s.Cursor() != 1 {
		t.Errorf("cursor = %d, want 1", s.Cursor())
	}
}

func TestSession_AssignWalksTheCursor(t *testing.T) {
	s, player, reader := newTestSession(t, "one two three")
	player.Play()

	for i, at := range []float64{1, 2, 3, 4} {
		player.Seek(at)
		if _, err := s.Assign(); err != nil {
			t.Fatalf("Assign %d: %v", i, err)
		}
	}
	// The cursor stays on the last word, which the fourth press re-times.
	if got := timeOf(t, s, 2); got == nil || *got != 4 {
		t.Errorf("word 2 time = %v, want 4", got)
	}
	if s.Cursor() != 2 {
		t.Errorf("cursor = %d, want 2", s.Cursor())
	}
	if got := counter(t, reader, "elrc.times.set", ""); got != 4 {
		t.Errorf("times set = %d, want 4", got)
	}
	if got := counter(t, reader, "elrc.timed_words", ""); got != 3 {
		t.Errorf("timed words = %d, want 3", got)
	}
}

func TestSession_ConflictingClearsAreCounted(t *testing.T) {
	s, _, reader := newTestSession(t, "a b c d")
	for i, at := range []float64{1, 2, 3, 4} {
		if err := s.SetTime(i, lyrics.Seconds(at)); err != nil {
			t.Fatal(err)
		}
	}

	if err := s.SetTime(1, lyrics.Seconds(3.5)); err != nil {
		t.Fatal(err)
	}
	if timeOf(t, s, 2) != nil {
		t.Error("word 2 should have been cleared")
	}
	if err := s.SetTime(0, nil); err != nil {
		t.Fatal(err)
	}

	if got := counter(t, reader, "elrc.times.cleared", "conflict"); got != 1 {
		t.Errorf("conflict clears = %d, want 1", got)
	}
	if got := counter(t, reader, "elrc.times.cleared", "explicit"); got != 1 {
		t.Errorf("explicit clears = %d, want 1", got)
	}
	if got := counter(t, reader, "elrc.timed_words", ""); got != 2 {
		t.Errorf("timed words = %d, want 2", got)
	}
}

func TestSession_ClearAtCursor(t *testing.T) {
	s, _, _ := newTestSession(t, "a b c")
	_ = s.SetTime(1, lyrics.Seconds(5))
	s.SetCursor(1)

	if err := s.ClearAtCursor(); err != nil {
		t.Fatalf("ClearAtCursor: %v", err)
	}
	if timeOf(t, s, 1) != nil {
		t.Error("word 1 still timed")
	}
	if s.Cursor() != 0 {
		t.Errorf("cursor = %d, want 0", s.Cursor())
	}
	if err := s.ClearAtCursor(); err != nil {
		t.Fatalf("ClearAtCursor at start: %v", err)
	}
	if s.Cursor() != 0 {
		t.Errorf("cursor = %d, want 0", s.Cursor())
	}
}

func TestSession_CursorClamps(t *testing.T) {
	s, _, _ := newTestSession(t, "a b c")

	s.MoveCursor(-5)
	if s.Cursor() != 0 {
		t.Errorf("cursor = %d, want 0", s.Cursor())
	}
	s.SetCursor(10)
	if s.Cursor() != 2 {
		t.Errorf("cursor = %d, want 2", s.Cursor())
	}

	empty := New(Options{})
	empty.MoveCursor(1)
	if empty.Cursor() != 0 {
		t.Errorf("cursor on empty = %d, want 0", empty.Cursor())
	}
}

func TestSession_ImportReplacesAndSaves(t *testing.T) {
	s, _, reader := newTestSession(t, "old words here")
	_ = s.SetTime(0, lyrics.Seconds(1))
	s.SetCursor(2)
	old := s.Sequence()

	imp, err := s.Import(context.Background(), "<p>new <b>text</b></p>")
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if imp.Kind != lyrics.ImportText {
		t.Errorf("kind = %s, want text", imp.Kind)
	}
	if s.Sequence() == old {
		t.Fatal("sequence was not replaced")
	}
	if s.Cursor() != 0 {
		t.Errorf("cursor = %d, want 0", s.Cursor())
	}
	if s.Sequence().TimedCount() != 0 {
		t.Error("timestamps carried over into the new sequence")
	}
	if d, ok := s.Sequence().Duration(); !ok || d != 30 {
		t.Errorf("duration = %v, %v; want player duration", d, ok)
	}

	// Edits to the replaced sequence no longer reach the session.
	before := counter(t, reader, "elrc.times.set", "")
	_ = old.SetTime(1, lyrics.Seconds(2))
	if got := counter(t, reader, "elrc.times.set", ""); got != before {
		t.Errorf("old sequence still wired: times set %d -> %d", before, got)
	}
	if got := counter(t, reader, "elrc.timed_words", ""); got != 0 {
		t.Errorf("timed words = %d, want 0", got)
	}
}

func TestSession_SaveAndRestore(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()

	s := New(Options{Store: st, Duration: 20})
	if _, err := s.Import(ctx, "la la land"); err != nil {
		t.Fatal(err)
	}
	_ = s.SetTime(1, lyrics.Seconds(4.5))
	if err := s.Save(ctx); err != nil {
		t.Fatalf("Save: %v", err)
	}

	restored := New(Options{Store: st, Duration: 20})
	ok, err := restored.Restore(ctx)
	if err != nil || !ok {
		t.Fatalf("Restore = %v, %v", ok, err)
	}
	if got, want := restored.Export(), s.Export(); got != want {
		t.Errorf("restored export = %q, want %q", got, want)
	}
	if d, _ := restored.Sequence().Duration(); d != 20 {
		t.Errorf("duration = %v, want 20", d)
	}
}

func TestSession_RestoreFallsBackToText(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	_ = st.Save(ctx, DefaultKey, "plain old lyrics")

	s := New(Options{Store: st})
	ok, err := s.Restore(ctx)
	if err != nil || !ok {
		t.Fatalf("Restore = %v, %v", ok, err)
	}
	if got := s.Sequence().Text(); got != "plain old lyrics" {
		t.Errorf("text = %q", got)
	}
}

func TestSession_RestoreNothingSaved(t *testing.T) {
	s := New(Options{Store: store.NewMemoryStore()})
	ok, err := s.Restore(context.Background())
	if err != nil || ok {
		t.Fatalf("Restore = %v, %v; want false, nil", ok, err)
	}
}

func TestSession_PlayFrom(t *testing.T) {
	s, player, _ := newTestSession(t, "a b c d")
	_ = s.SetTime(2, lyrics.Seconds(10))

	target, err := s.PlayFrom(context.Background(), 2)
	if err != nil {
		t.Fatalf("PlayFrom: %v", err)
	}
	if target != 8.5 || player.Position() != 8.5 || !player.Playing() {
		t.Errorf("target %v position %v playing %v", target, player.Position(), player.Playing())
	}
	if s.Cursor() != 2 {
		t.Errorf("cursor = %d, want 2", s.Cursor())
	}

	// The untimed last word sits at the end of the track.
	if target, _ = s.PlayFrom(context.Background(), 3); target != 30-1.5 {
		t.Errorf("target = %v, want 28.5", target)
	}
}

func TestSession_PlayFromWithoutPlayer(t *testing.T) {
	s := New(Options{Duration: 10})
	if _, err := s.Import(context.Background(), "a b"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.PlayFrom(context.Background(), 1); err == nil {
		t.Error("PlayFrom without a player should fail")
	}
	if s.Cursor() != 1 {
		t.Errorf("cursor = %d, want 1", s.Cursor())
	}
}

func TestSession_Export(t *testing.T) {
	s, _, _ := newTestSession(t, "hello world")
	_ = s.SetTime(0, lyrics.Seconds(1.5))
	if got := s.Export(); !strings.HasPrefix(got, "\n[00:01.500] hello") {
		t.Errorf("Export = %q", got)
	}
}

func TestExportFilename(t *testing.T) {
	tests := []struct {
		audio string
		want  string
	}{
		{"", "export.lrc"},
		{"song.mp3", "song.lrc"},
		{"/music/band/track 01.ogg", "track 01.lrc"},
		{"noext", "noext.lrc"},
	}
	for _, tt := range tests {
		if got := ExportFilename(tt.audio); got != tt.want {
			t.Errorf("ExportFilename(%q) = %q, want %q", tt.audio, got, tt.want)
		}
	}
}
