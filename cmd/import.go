package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the stored lyrics with the contents of a file",
	Long: `Import reads plain text, a JSON document {"text": ..., "audio": ...}, a
JSON snapshot or an ELRC export and replaces the stored lyrics with it.
Snapshots and ELRC keep their timestamps; existing timestamps are never
merged. Use - to read from standard input.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var r io.Reader = cmd.InOrStdin()
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open lyrics: %w", err)
		}
		defer f.Close()
		r = f
	}
	payload, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read lyrics: %w", err)
	}

	s, release, err := openSession(ctx, nil, nil)
	if err != nil {
		return err
	}
	defer release()

	imp, err := s.Import(ctx, string(payload))
	if err != nil {
		return err
	}
	if imp.Audio != "" && audioPath == "" {
		slog.Info("document references audio", "audio", imp.Audio)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d words (%s), %d timed\n",
		imp.Sequence.Len(), imp.Kind, imp.Sequence.TimedCount())
	return nil
}
