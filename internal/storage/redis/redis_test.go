package redis

import (
	"context"
	"sort"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := NewClient(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return client, mr
}

func TestHotWatchlist_Idempotence(t *testing.T) {
	client, mr := setupTestClient(t)
	w := NewHotWatchlist(client, "")
	ctx := context.Background()

	require.NoError(t, w.AddHot(ctx, "TokenA"))
	require.NoError(t, w.AddHot(ctx, "TokenA"))

	members, err := w.ListHot(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"TokenA"}, members)

	stored, err := mr.Members(DefaultHotKey)
	require.NoError(t, err)
	assert.Len(t, stored, 1)

	assert.NoError(t, w.RemoveHot(ctx, "not-a-member"))
	require.NoError(t, w.RemoveHot(ctx, "TokenA"))

	members, err = w.ListHot(ctx)
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestHotWatchlist_CustomKey(t *testing.T) {
	client, mr := setupTestClient(t)
	w := NewHotWatchlist(client, "sentinel:hot")
	ctx := context.Background()

	require.NoError(t, w.AddHot(ctx, "TokenA"))
	assert.True(t, mr.Exists("sentinel:hot"))
	assert.False(t, mr.Exists(DefaultHotKey))
}

func TestWalletSets_MembersAndAdd(t *testing.T) {
	client, mr := setupTestClient(t)
	s := NewWalletSets(client)
	ctx := context.Background()

	_, err := mr.SAdd("insider_wallets", "W1", "W2")
	require.NoError(t, err)

	require.NoError(t, s.Add(ctx, "smart_money_wallets", "S1", "S1", "S2"))

	insiders, err := s.Members(ctx, "insider_wallets")
	require.NoError(t, err)
	sort.Strings(insiders)
	assert.Equal(t, []string{"W1", "W2"}, insiders)

	smart, err := s.Members(ctx, "smart_money_wallets")
	require.NoError(t, err)
	assert.Len(t, smart, 2)

	empty, err := s.Members(ctx, "unknown")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestNewClient_BadURL(t *testing.T) {
	_, err := NewClient(context.Background(), "://bad")
	assert.Error(t, err)
}
