package postgres

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-pool-sentinel/internal/domain"
	"solana-pool-sentinel/internal/storage"
)

func newTestPosition(token string, entryTime int64) *domain.Position {
	return &domain.Position{
		TokenAddress:    token,
		InvestmentUSD:   decimal.NewFromInt(50),
		EntryTime:       entryTime,
		EntryPrice:      decimal.RequireFromString("0.00012345"),
		Status:          domain.PositionOpen,
		EntryMQS:        96,
		EntryConfidence: 96,
		Category:        domain.CategoryHighConfidence,
	}
}

func TestPositionStore_OpenAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPositionStore(pool)
	ctx := context.Background()

	p := newTestPosition("TokenA", 1700000000000)
	require.NoError(t, store.Open(ctx, p))

	got, err := store.Get(ctx, "TokenA")
	require.NoError(t, err)

	assert.Equal(t, domain.PositionOpen, got.Status)
	assert.True(t, p.EntryPrice.Equal(got.EntryPrice), "entry price %s", got.EntryPrice)
	assert.True(t, p.InvestmentUSD.Equal(got.InvestmentUSD))
	assert.Equal(t, p.EntryMQS, got.EntryMQS)
	assert.Equal(t, domain.CategoryHighConfidence, got.Category)
	assert.Nil(t, got.ExitPrice)
	assert.Nil(t, got.ExitTime)
	assert.Nil(t, got.ExitReason)
}

func TestPositionStore_SecondOpenRejected(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPositionStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Open(ctx, newTestPosition("TokenA", 1000)))

	err := store.Open(ctx, newTestPosition("TokenA", 2000))
	assert.ErrorIs(t, err, storage.ErrPositionOpen)

	got, err := store.Get(ctx, "TokenA")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), got.EntryTime)
}

func TestPositionStore_CloseAndReopen(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPositionStore(pool)
	ctx := context.Background()

	p := newTestPosition("TokenA", 1000)
	require.NoError(t, store.Open(ctx, p))

	exit := p.EntryPrice.Mul(decimal.NewFromFloat(2.5))
	require.NoError(t, p.Close(exit, 5000, domain.ExitTakeProfit))
	require.NoError(t, store.Close(ctx, p))

	got, err := store.Get(ctx, "TokenA")
	require.NoError(t, err)
	assert.Equal(t, domain.PositionClosed, got.Status)
	require.NotNil(t, got.ExitReason)
	assert.Equal(t, domain.ExitTakeProfit, *got.ExitReason)
	require.NotNil(t, got.ExitTime)
	assert.Equal(t, int64(5000), *got.ExitTime)
	assert.True(t, got.PnLPercent.Equal(decimal.NewFromInt(150)), "pnl %s", got.PnLPercent)
	assert.True(t, got.PnLUSD.Equal(decimal.NewFromInt(75)), "pnl usd %s", got.PnLUSD)

	// Closed rows never match a second close.
	assert.ErrorIs(t, store.Close(ctx, p), storage.ErrNotFound)

	open, err := store.ListOpen(ctx)
	require.NoError(t, err)
	assert.Empty(t, open)

	require.NoError(t, store.Open(ctx, newTestPosition("TokenA", 9000)))
	got, err = store.Get(ctx, "TokenA")
	require.NoError(t, err)
	assert.True(t, got.IsOpen())
	assert.Equal(t, int64(9000), got.EntryTime)
	assert.Nil(t, got.ExitReason)
}

func TestPositionStore_ConcurrentOpen(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPositionStore(pool)
	ctx := context.Background()

	var opened atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := store.Open(ctx, newTestPosition("TokenA", int64(i))); err == nil {
				opened.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), opened.Load())
}

func TestPositionStore_List(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPositionStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Open(ctx, newTestPosition("TokenB", 2000)))
	require.NoError(t, store.Open(ctx, newTestPosition("TokenA", 1000)))

	closed := newTestPosition("TokenB", 2000)
	require.NoError(t, closed.Close(decimal.RequireFromString("0.00006"), 3000, domain.ExitStopLoss))
	require.NoError(t, store.Close(ctx, closed))

	all, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "TokenA", all[0].TokenAddress)

	open, err := store.ListOpen(ctx)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "TokenA", open[0].TokenAddress)
}
