package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/miracle2k/elrc-maker/internal/lyrics"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "List the stored words with their times",
	Long: `Show prints every stored word with its time and, for untimed words, the
interpolated time playback would jump to. Interpolation past the last timed
word needs the track duration (--audio or --duration).`,
	Args: cobra.NoArgs,
	RunE: runShow,
}

var showText bool

func init() {
	showCmd.Flags().BoolVar(&showText, "text", false, "print the words as plain text for editing")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	s, release, err := openSession(cmd.Context(), nil, nil)
	if err != nil {
		return err
	}
	defer release()

	if showText {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), s.Text())
		return err
	}

	seq := s.Sequence()
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tWORD\tTIME\tAPPROX")
	for i, w := range seq.Words() {
		approx := "-"
		if w.Time == nil {
			if at, err := seq.ApproximateTime(i); err == nil {
				approx = lyrics.FormatTimer(at, false)
			}
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i, w.Text, lyrics.FormatTime(w.Time, false), approx)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d of %d words timed\n", seq.TimedCount(), seq.Len())
	return nil
}
