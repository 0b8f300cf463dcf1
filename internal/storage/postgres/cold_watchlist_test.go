package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-pool-sentinel/internal/domain"
	"solana-pool-sentinel/internal/storage"
)

func TestColdWatchlist_UpsertAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewColdWatchlist(pool)
	ctx := context.Background()

	entry := &domain.ColdWatchlistEntry{
		Address:      "TokenMintAddress111",
		Status:       domain.ColdStatusWatching,
		LPMint:       "LPMintAddress111",
		DiscoveredAt: 1700000000000,
		UpdatedAt:    1700000000000,
	}
	require.NoError(t, store.UpsertCold(ctx, entry))

	got, err := store.GetCold(ctx, entry.Address)
	require.NoError(t, err)
	assert.Equal(t, entry, got)

	// Last write wins.
	entry.Status = domain.ColdStatusTraded
	entry.UpdatedAt = 1700000060000
	require.NoError(t, store.UpsertCold(ctx, entry))

	got, err = store.GetCold(ctx, entry.Address)
	require.NoError(t, err)
	assert.Equal(t, domain.ColdStatusTraded, got.Status)
	assert.Equal(t, int64(1700000060000), got.UpdatedAt)
}

func TestColdWatchlist_GetNotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewColdWatchlist(pool)

	_, err := store.GetCold(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestColdWatchlist_ListOrdered(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewColdWatchlist(pool)
	ctx := context.Background()

	for i, addr := range []string{"TokenC", "TokenA", "TokenB"} {
		require.NoError(t, store.UpsertCold(ctx, &domain.ColdWatchlistEntry{
			Address:      addr,
			Status:       domain.ColdStatusWatching,
			DiscoveredAt: int64(3000 - i*1000),
			UpdatedAt:    int64(3000 - i*1000),
		}))
	}

	list, err := store.ListCold(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "TokenB", list[0].Address)
	assert.Equal(t, "TokenA", list[1].Address)
	assert.Equal(t, "TokenC", list[2].Address)
}

func TestColdWatchlist_InvalidStatus(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewColdWatchlist(pool)

	err := store.UpsertCold(context.Background(), &domain.ColdWatchlistEntry{
		Address: "TokenA",
		Status:  domain.ColdStatus("bogus"),
	})
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}
