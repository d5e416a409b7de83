package cmd

import (
	"context"
	"log/slog"

	"github.com/miracle2k/elrc-maker/internal/editor"
	"github.com/miracle2k/elrc-maker/internal/ffmpeg"
	"github.com/miracle2k/elrc-maker/internal/lyrics"
	"github.com/miracle2k/elrc-maker/internal/playback"
	"github.com/miracle2k/elrc-maker/internal/store"
)

// trackDuration returns the duration from --audio, falling back to
// --duration. 0 means unknown.
func trackDuration(ctx context.Context) float64 {
	if audioPath != "" {
		if info := ffmpeg.LogMediaInfo(ctx, audioPath); info != nil {
			return info.Duration
		}
	}
	return duration
}

// openSession opens the configured store and restores the saved lyrics
// into a new session. player may be nil. The returned function releases
// the store.
func openSession(ctx context.Context, player playback.Player, onChange lyrics.Listener) (*editor.Session, func(), error) {
	st, closeStore, err := store.Open(ctx, store.Options{
		Backend:     cfg.Store.Backend,
		Dir:         cfg.Store.Dir,
		PostgresDSN: cfg.Store.PostgresDSN,
	})
	if err != nil {
		return nil, nil, err
	}
	release := func() {
		if err := closeStore(); err != nil {
			slog.Warn("close store", "err", err)
		}
	}

	dur := 0.0
	if player == nil {
		dur = trackDuration(ctx)
	}
	s := editor.New(editor.Options{
		Player:       player,
		Store:        st,
		Key:          cfg.Store.Key,
		Duration:     dur,
		Preroll:      cfg.Playback.Preroll,
		WordsPerLine: cfg.Export.WordsPerLine,
		OnChange:     onChange,
	})
	if _, err := s.Restore(ctx); err != nil {
		release()
		return nil, nil, err
	}
	return s, release, nil
}

// logChange logs every timestamp change notification.
func logChange(s **editor.Session) lyrics.Listener {
	return func(index int, t *float64) {
		text := ""
		if *s != nil {
			if w, err := (*s).Sequence().Word(index); err == nil {
				text = w.Text
			}
		}
		slog.Info("time changed", "index", index, "word", text, "time", lyrics.FormatTime(t, false))
	}
}
