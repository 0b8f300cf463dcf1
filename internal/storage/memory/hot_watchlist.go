package memory

import (
	"context"
	"sync"

	"solana-pool-sentinel/internal/storage"
)

// HotWatchlist is an in-memory implementation of storage.HotWatchlist.
type HotWatchlist struct {
	mu      sync.RWMutex
	members map[string]struct{}
}

// NewHotWatchlist creates a new in-memory hot watchlist.
func NewHotWatchlist() *HotWatchlist {
	return &HotWatchlist{
		members: make(map[string]struct{}),
	}
}

// AddHot adds address to the set.
func (w *HotWatchlist) AddHot(_ context.Context, address string) error {
	if address == "" {
		return storage.ErrInvalidInput
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.members[address] = struct{}{}
	return nil
}

// RemoveHot removes address from the set.
func (w *HotWatchlist) RemoveHot(_ context.Context, address string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	delete(w.members, address)
	return nil
}

// ListHot returns a snapshot of the set.
func (w *HotWatchlist) ListHot(_ context.Context) ([]string, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	result := make([]string, 0, len(w.members))
	for addr := range w.members {
		result = append(result, addr)
	}
	return result, nil
}

// Verify interface compliance at compile time.
var _ storage.HotWatchlist = (*HotWatchlist)(nil)
