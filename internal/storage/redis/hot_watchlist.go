package redis

import (
	"context"
	"fmt"

	"solana-pool-sentinel/internal/storage"
)

// HotWatchlist implements storage.HotWatchlist on a Redis set.
type HotWatchlist struct {
	client *Client
	key    string
}

// NewHotWatchlist creates a hot watchlist on the given set key.
// An empty key selects DefaultHotKey.
func NewHotWatchlist(client *Client, key string) *HotWatchlist {
	if key == "" {
		key = DefaultHotKey
	}
	return &HotWatchlist{client: client, key: key}
}

// AddHot adds address to the set (SADD).
func (w *HotWatchlist) AddHot(ctx context.Context, address string) error {
	if address == "" {
		return storage.ErrInvalidInput
	}
	if err := w.client.SAdd(ctx, w.key, address).Err(); err != nil {
		return fmt.Errorf("sadd %s: %w", w.key, err)
	}
	return nil
}

// RemoveHot removes address from the set (SREM).
func (w *HotWatchlist) RemoveHot(ctx context.Context, address string) error {
	if err := w.client.SRem(ctx, w.key, address).Err(); err != nil {
		return fmt.Errorf("srem %s: %w", w.key, err)
	}
	return nil
}

// ListHot returns the members of the set (SMEMBERS).
func (w *HotWatchlist) ListHot(ctx context.Context) ([]string, error) {
	members, err := w.client.SMembers(ctx, w.key).Result()
	if err != nil {
		return nil, fmt.Errorf("smembers %s: %w", w.key, err)
	}
	return members, nil
}

var _ storage.HotWatchlist = (*HotWatchlist)(nil)
