package cmd

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/inlineedit/internal/editor"
	"github.com/zjrosen/inlineedit/internal/journal"
)

// useDataDir points the commands at a fresh data directory and captures
// printInfo output.
func useDataDir(t *testing.T) (string, *[]string) {
	t.Helper()
	originalDir, originalPrint := dataDir, printInfo
	originalField, originalLimit := historyField, historyLimit
	t.Cleanup(func() {
		dataDir, printInfo = originalDir, originalPrint
		historyField, historyLimit = originalField, originalLimit
	})
	dataDir = t.TempDir()
	historyField, historyLimit = "", 20
	var out []string
	printInfo = func(msg string) { out = append(out, msg) }
	return filepath.Join(dataDir, ".inlineedit"), &out
}

func TestHistory_NoJournal(t *testing.T) {
	_, out := useDataDir(t)

	require.NoError(t, runHistory(&cobra.Command{}, nil))
	require.Len(t, *out, 1)
	require.Contains(t, (*out)[0], "No saves recorded yet")
}

func TestHistory_ListsSaves(t *testing.T) {
	dir, out := useDataDir(t)
	ctx := context.Background()

	j, err := openJournal(ctx, dir)
	require.NoError(t, err)
	_, err = j.Record(ctx, "city", editor.KindText, "Oslo", "Bergen")
	require.NoError(t, err)
	_, err = j.Record(ctx, "secret", editor.KindPassword, nil, "hunter22")
	require.NoError(t, err)
	require.NoError(t, j.Close())

	require.NoError(t, runHistory(&cobra.Command{}, nil))
	require.Len(t, *out, 2)
	require.Contains(t, (*out)[0], "secret")
	require.Contains(t, (*out)[0], "∅ → "+journal.Mask)
	require.Contains(t, (*out)[1], "Oslo → Bergen")

	*out = nil
	historyField = "city"
	require.NoError(t, runHistory(&cobra.Command{}, nil))
	require.Len(t, *out, 1)
}

func TestFormatEntry(t *testing.T) {
	e := journal.Entry{
		Field:   "age",
		Before:  "",
		After:   "36",
		SavedAt: time.Date(2026, 3, 1, 9, 30, 0, 0, time.Local),
	}
	require.Equal(t, "2026-03-01 09:30:00  age  ∅ → 36", formatEntry(e))
}
