package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/miracle2k/elrc-maker/internal/config"

	"github.com/spf13/cobra"
)

var (
	verbose    bool
	quiet      bool
	configPath string
	audioPath  string
	duration   float64

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "elrcmaker",
	Short: "Align lyrics to audio word by word and export enhanced LRC",
	Long: `elrcmaker keeps a lyrics text as a sequence of words and lets you give
each word the moment it is sung, either one by one or live while the track
plays. The result is exported as enhanced LRC (ELRC) with per-word tags.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		setupLogging(cfg.LogLevel.Level())
		return nil
	},
}

func setupLogging(level slog.Level) {
	if verbose {
		level = slog.LevelDebug
	}
	if quiet {
		level = slog.LevelError
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

// Execute runs the command tree. SIGINT and SIGTERM cancel the command's
// context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-error output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVarP(&audioPath, "audio", "a", "", "audio file the lyrics belong to (duration is probed with ffprobe)")
	rootCmd.PersistentFlags().Float64Var(&duration, "duration", 0, "track duration in seconds when no audio file is given")
}
