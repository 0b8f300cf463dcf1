package memory

import (
	"context"
	"sort"
	"sync"

	"solana-pool-sentinel/internal/domain"
	"solana-pool-sentinel/internal/storage"
)

// ColdWatchlist is an in-memory implementation of storage.ColdWatchlist.
type ColdWatchlist struct {
	mu   sync.RWMutex
	data map[string]*domain.ColdWatchlistEntry // keyed by address
}

// NewColdWatchlist creates a new in-memory cold watchlist.
func NewColdWatchlist() *ColdWatchlist {
	return &ColdWatchlist{
		data: make(map[string]*domain.ColdWatchlistEntry),
	}
}

// UpsertCold inserts or overwrites the record keyed by address.
func (s *ColdWatchlist) UpsertCold(_ context.Context, e *domain.ColdWatchlistEntry) error {
	if e == nil || e.Address == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entryCopy := *e
	s.data[e.Address] = &entryCopy
	return nil
}

// GetCold retrieves a record by address. Returns ErrNotFound if not exists.
func (s *ColdWatchlist) GetCold(_ context.Context, address string) (*domain.ColdWatchlistEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.data[address]
	if !exists {
		return nil, storage.ErrNotFound
	}

	entryCopy := *e
	return &entryCopy, nil
}

// ListCold retrieves all records, ordered by discovered_at ASC.
func (s *ColdWatchlist) ListCold(_ context.Context) ([]*domain.ColdWatchlistEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.ColdWatchlistEntry, 0, len(s.data))
	for _, e := range s.data {
		entryCopy := *e
		result = append(result, &entryCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].DiscoveredAt != result[j].DiscoveredAt {
			return result[i].DiscoveredAt < result[j].DiscoveredAt
		}
		return result[i].Address < result[j].Address
	})

	return result, nil
}

// Verify interface compliance at compile time.
var _ storage.ColdWatchlist = (*ColdWatchlist)(nil)
