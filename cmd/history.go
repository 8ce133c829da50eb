package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zjrosen/inlineedit/internal/journal"
	"github.com/zjrosen/inlineedit/internal/paths"
)

var (
	historyField string
	historyLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saves recorded by playground --journal",
	Long: `List the most recent saves from the data directory's journal, newest
first. Password values are shown masked.

Examples:
  inlineedit history
  inlineedit history --field email --limit 5`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().StringVar(&historyField, "field", "", "only list saves of this field")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of saves to list")
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	dir := paths.ResolveDir(dataDir)
	if !paths.Exists(paths.JournalFile(dir)) {
		printInfo("No saves recorded yet. Run `inlineedit playground --journal` first.")
		return nil
	}
	j, err := openJournal(ctx, dir)
	if err != nil {
		return err
	}
	defer func() { _ = j.Close() }()

	entries, err := j.Recent(ctx, historyField, historyLimit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		printInfo("No saves recorded yet.")
		return nil
	}
	for _, e := range entries {
		printInfo(formatEntry(e))
	}
	return nil
}

func formatEntry(e journal.Entry) string {
	before, after := e.Before, e.After
	if before == "" {
		before = "∅"
	}
	if after == "" {
		after = "∅"
	}
	return strings.Join([]string{
		e.SavedAt.Local().Format("2006-01-02 15:04:05"),
		e.Field,
		before + " → " + after,
	}, "  ")
}

func openJournal(ctx context.Context, dir string) (*journal.Journal, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return journal.Open(ctx, paths.JournalFile(dir))
}
