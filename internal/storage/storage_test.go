package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltscout/supplier-scraper/internal/models"
)

func TestSnapshotStoreRoundTrip(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "snapshots.json")

	store, err := NewSnapshotStore(filename)
	require.NoError(t, err)

	result := &models.ScrapeResult{
		Supplier: "electricaldirect",
		Kind:     "products",
		Products: []models.ScrapedProduct{
			{Supplier: "electricaldirect", SKU: "ED-Test", Name: "Test Meter", ProductURL: "https://ed.test/p/1", StockStatus: "Unknown"},
		},
		ScrapedAt: time.Now(),
	}
	require.NoError(t, store.Put(result))

	// A fresh store over the same file sees the persisted snapshot.
	reopened, err := NewSnapshotStore(filename)
	require.NoError(t, err)

	got, ok := reopened.Get("electricaldirect", "products")
	require.True(t, ok)
	require.Len(t, got.Products, 1)
	assert.Equal(t, "Test Meter", got.Products[0].Name)

	stats := reopened.Stats()
	assert.Equal(t, 1, stats["products"])
	assert.Equal(t, 1, stats["total"])
}

func TestSnapshotStoreRejectsUnkeyed(t *testing.T) {
	store, err := NewSnapshotStore(filepath.Join(t.TempDir(), "snapshots.json"))
	require.NoError(t, err)

	err = store.Put(&models.ScrapeResult{Kind: "products"})
	assert.Error(t, err)
}

func TestSnapshotStoreMissingKey(t *testing.T) {
	store, err := NewSnapshotStore(filepath.Join(t.TempDir(), "snapshots.json"))
	require.NoError(t, err)

	_, ok := store.Get("electricaldirect", "deals")
	assert.False(t, ok)
}
