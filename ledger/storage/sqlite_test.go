package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nutriagent/ledger"
)

func newTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteRoundTrip(t *testing.T) {
	t.Parallel()
	store := newTestSQLite(t)
	ctx := context.Background()

	want := sampleLedger()
	require.NoError(t, store.Save(ctx, want))

	got, err := store.Load(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSQLiteLoadMissingUser(t *testing.T) {
	t.Parallel()
	store := newTestSQLite(t)

	_, err := store.Load(context.Background(), "nobody")
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestSQLiteSaveReplacesRow(t *testing.T) {
	t.Parallel()
	store := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleLedger()))

	updated := sampleLedger()
	updated.WeightKg = 59
	require.NoError(t, store.Save(ctx, updated))

	got, err := store.Load(ctx, "Alice")
	require.NoError(t, err)
	assert.Equal(t, float64(59), got.WeightKg)
	assert.Len(t, got.History, 2)
}
