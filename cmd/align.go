package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/miracle2k/elrc-maker/internal/observe"
	"github.com/miracle2k/elrc-maker/internal/playback"
	"github.com/miracle2k/elrc-maker/internal/worker"

	"github.com/spf13/cobra"
)

var alignCmd = &cobra.Command{
	Use:   "align",
	Short: "Time the stored lyrics live against a running clock",
	Long: `Align plays the track on a simulated clock and reads commands from
standard input: press enter when the word under the cursor is sung. The
track length comes from --audio (via ffprobe) or --duration. Type ? for the
command list.`,
	Args: cobra.NoArgs,
	RunE: runAlign,
}

func init() {
	rootCmd.AddCommand(alignCmd)
}

func runAlign(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	dur := trackDuration(ctx)
	if dur <= 0 {
		return errors.New("align needs the track duration: pass --audio or --duration")
	}

	if cfg.Metrics.ListenAddr != "" {
		shutdown, err := observe.InitProvider()
		if err != nil {
			return fmt.Errorf("init metrics: %w", err)
		}
		defer func() {
			if err := shutdown(context.WithoutCancel(ctx)); err != nil {
				slog.Debug("metrics shutdown", "err", err)
			}
		}()
	}

	limits := playback.RateLimits{Min: cfg.Playback.MinRate, Max: cfg.Playback.MaxRate}
	player := playback.NewClockPlayer(playback.ClockOptions{
		Duration: dur,
		TickHz:   cfg.Playback.TickHz,
		Limits:   limits,
	})

	s, release, err := openSession(ctx, player, nil)
	if err != nil {
		return err
	}
	defer release()
	if s.Sequence().Len() == 0 {
		return errors.New("no lyrics stored: run import first")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, worker.Help)

	return worker.Run(ctx, worker.Options{
		Session:         s,
		Player:          player,
		Input:           os.Stdin,
		Output:          out,
		SeekStep:        cfg.Playback.SeekStep,
		RateStep:        cfg.Playback.RateStep,
		RateLimits:      limits,
		MetricsAddr:     cfg.Metrics.ListenAddr,
		ShutdownTimeout: cfg.ShutdownTimeout,
	})
}
