package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/inlineedit/internal/editor"
)

func openTemp(t *testing.T) (*Journal, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "journal.db")
	j, err := Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	return j, path
}

func TestRecordAndRecent(t *testing.T) {
	j, _ := openTemp(t)
	ctx := context.Background()
	fixed := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	j.now = func() time.Time { return fixed }

	e, err := j.Record(ctx, "city", editor.KindText, "Oslo", "Bergen")
	require.NoError(t, err)
	require.NotZero(t, e.ID)
	_, err = j.Record(ctx, "age", editor.KindNumber, nil, 36.0)
	require.NoError(t, err)
	_, err = j.Record(ctx, "city", editor.KindText, "Bergen", "Tromsø")
	require.NoError(t, err)

	all, err := j.Recent(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "Tromsø", all[0].After, "newest first")
	require.Equal(t, "36", all[1].After)
	require.Equal(t, "", all[1].Before)
	require.Equal(t, fixed, all[2].SavedAt)
	require.Equal(t, editor.KindText, all[2].Kind)

	city, err := j.Recent(ctx, "city", 1)
	require.NoError(t, err)
	require.Len(t, city, 1)
	require.Equal(t, "Bergen", city[0].Before)
}

func TestRecord_MasksPasswords(t *testing.T) {
	j, _ := openTemp(t)
	ctx := context.Background()

	_, err := j.Record(ctx, "secret", editor.KindPassword, nil, "hunter22")
	require.NoError(t, err)

	got, err := j.Recent(ctx, "secret", 1)
	require.NoError(t, err)
	require.Equal(t, "", got[0].Before)
	require.Equal(t, Mask, got[0].After)
}

func TestOpen_ReopenKeepsEntriesAndSchema(t *testing.T) {
	j, path := openTemp(t)
	ctx := context.Background()
	_, err := j.Record(ctx, "city", editor.KindText, "", "Oslo")
	require.NoError(t, err)
	require.NoError(t, j.Close())

	again, err := Open(ctx, path)
	require.NoError(t, err)
	defer func() { _ = again.Close() }()

	var version int
	require.NoError(t, again.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version))
	require.Equal(t, len(migrations), version)

	got, err := again.Recent(ctx, "", 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestOpen_BadPath(t *testing.T) {
	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "missing", "dir", "journal.db"))
	require.Error(t, err)
}
