package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/miracle2k/elrc-maker/internal/editor"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the stored lyrics as enhanced LRC",
	Long: `Export renders the stored lyrics as ELRC. Without -o the result goes to
standard output. When -o names a directory the file inside it is named after
the audio file (<audio>.lrc, or export.lrc without one).`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

var (
	exportOutput string
	wordsPerLine int
)

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output path or directory (default: stdout)")
	exportCmd.Flags().IntVar(&wordsPerLine, "words-per-line", 0, "words before a new line may start (default from config)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if wordsPerLine > 0 {
		cfg.Export.WordsPerLine = wordsPerLine
	}

	s, release, err := openSession(ctx, nil, nil)
	if err != nil {
		return err
	}
	defer release()

	out := s.Export()
	if exportOutput == "" {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), out)
		return err
	}

	path := exportOutput
	if st, err := os.Stat(path); err == nil && st.IsDir() {
		path = filepath.Join(path, editor.ExportFilename(audioPath))
	}
	if err := os.WriteFile(path, []byte(out), 0644); err != nil {
		return fmt.Errorf("write ELRC file: %w", err)
	}
	slog.Info("ELRC file saved", "path", path)
	return nil
}
