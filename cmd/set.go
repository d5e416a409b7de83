package cmd

import (
	"fmt"
	"strconv"

	"github.com/miracle2k/elrc-maker/internal/editor"
	"github.com/miracle2k/elrc-maker/internal/lyrics"

	"github.com/spf13/cobra"
)

var setCmd = &cobra.Command{
	Use:   "set <index> <seconds>",
	Short: "Set the time of one word",
	Long: `Set gives the word at index the given time and saves the result. Later
words timed at or before it and earlier words timed at or after it lose
their times; every change is logged.`,
	Args: cobra.ExactArgs(2),
	RunE: runSet,
}

var clearCmd = &cobra.Command{
	Use:   "clear <index>",
	Short: "Remove the time of one word",
	Args:  cobra.ExactArgs(1),
	RunE:  runClear,
}

func init() {
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(clearCmd)
}

func runSet(cmd *cobra.Command, args []string) error {
	seconds, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("parse seconds: %w", err)
	}
	return editWord(cmd, args[0], lyrics.Seconds(seconds))
}

func runClear(cmd *cobra.Command, args []string) error {
	return editWord(cmd, args[0], nil)
}

func editWord(cmd *cobra.Command, indexArg string, t *float64) error {
	ctx := cmd.Context()
	index, err := strconv.Atoi(indexArg)
	if err != nil {
		return fmt.Errorf("parse index: %w", err)
	}

	var s *editor.Session
	s, release, err := openSession(ctx, nil, logChange(&s))
	if err != nil {
		return err
	}
	defer release()

	if err := s.SetTime(index, t); err != nil {
		return err
	}
	return s.Save(ctx)
}
