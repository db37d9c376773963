package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nutriagent/ledger"
	"nutriagent/nutrition"
)

func sampleLedger() *ledger.UserLedger {
	return &ledger.UserLedger{
		Profile: ledger.Profile{
			Name:     "Alice",
			Age:      30,
			WeightKg: 60,
			HeightCm: 165,
			Gender:   nutrition.Female,
		},
		History: []ledger.DailyEntry{
			{
				Date:   "2025-09-14",
				Foods:  []string{"apple", "egg"},
				Totals: nutrition.Totals{Calories: 2000, Protein: 50, Carbs: 250, Fat: 60},
			},
			{
				Date:   "2025-09-15",
				Foods:  []string{"toast"},
				Totals: nutrition.Totals{Calories: 2200, Protein: 55, Carbs: 270, Fat: 65},
				Analysis: map[nutrition.Nutrient]string{
					nutrition.Protein: "Deficit: 55.0 vs 64",
				},
			},
		},
	}
}

func TestFileRoundTrip(t *testing.T) {
	t.Parallel()
	store := NewFile(t.TempDir())
	ctx := context.Background()

	want := sampleLedger()
	require.NoError(t, store.Save(ctx, want))

	got, err := store.Load(ctx, "Alice")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFileKeyIsCaseInsensitive(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	store := NewFile(dir)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleLedger()))

	if _, err := os.Stat(filepath.Join(dir, "alice.json")); err != nil {
		t.Fatalf("expected lower-cased document name: %v", err)
	}

	got, err := store.Load(ctx, "  ALICE ")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
}

func TestFileLoadMissingUser(t *testing.T) {
	t.Parallel()
	store := NewFile(t.TempDir())

	_, err := store.Load(context.Background(), "nobody")
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestFileSaveRewritesWholeDocument(t *testing.T) {
	t.Parallel()
	store := NewFile(t.TempDir())
	ctx := context.Background()

	first := sampleLedger()
	require.NoError(t, store.Save(ctx, first))

	second := sampleLedger()
	second.History = second.History[:1]
	require.NoError(t, store.Save(ctx, second))

	got, err := store.Load(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, got.History, 1)
}

func TestFileSaveLeavesNoTempFiles(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	store := NewFile(dir)

	require.NoError(t, store.Save(context.Background(), sampleLedger()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "alice.json", entries[0].Name())
}

func TestFileLoadCorruptDocument(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	store := NewFile(dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "mallory.json"), []byte("{not json"), 0o644))

	_, err := store.Load(context.Background(), "mallory")
	var serr *ledger.StorageError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "load", serr.Op)
}
