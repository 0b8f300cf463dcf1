package memory

import (
	"context"
	"sort"
	"sync"

	"solana-pool-sentinel/internal/domain"
	"solana-pool-sentinel/internal/storage"
)

// PositionStore is an in-memory implementation of storage.PositionStore.
type PositionStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Position // keyed by token address
}

// NewPositionStore creates a new in-memory position store.
func NewPositionStore() *PositionStore {
	return &PositionStore{
		data: make(map[string]*domain.Position),
	}
}

// Open persists a new open position. Returns ErrPositionOpen if one is already open.
func (s *PositionStore) Open(_ context.Context, p *domain.Position) error {
	if p == nil || p.TokenAddress == "" || !p.IsOpen() {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.data[p.TokenAddress]; ok && existing.IsOpen() {
		return storage.ErrPositionOpen
	}

	s.data[p.TokenAddress] = copyPosition(p)
	return nil
}

// Close persists a closed position over the open record.
func (s *PositionStore) Close(_ context.Context, p *domain.Position) error {
	if p == nil || p.TokenAddress == "" || p.Status != domain.PositionClosed {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.data[p.TokenAddress]
	if !ok || !existing.IsOpen() {
		return storage.ErrNotFound
	}

	s.data[p.TokenAddress] = copyPosition(p)
	return nil
}

// Get retrieves the position for a token. Returns ErrNotFound if not exists.
func (s *PositionStore) Get(_ context.Context, token string) (*domain.Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.data[token]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return copyPosition(p), nil
}

// ListOpen retrieves all open positions, ordered by entry_time ASC.
func (s *PositionStore) ListOpen(_ context.Context) ([]*domain.Position, error) {
	return s.list(func(p *domain.Position) bool { return p.IsOpen() }), nil
}

// List retrieves all positions, ordered by entry_time ASC.
func (s *PositionStore) List(_ context.Context) ([]*domain.Position, error) {
	return s.list(func(*domain.Position) bool { return true }), nil
}

func (s *PositionStore) list(keep func(*domain.Position) bool) []*domain.Position {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Position
	for _, p := range s.data {
		if keep(p) {
			result = append(result, copyPosition(p))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].EntryTime != result[j].EntryTime {
			return result[i].EntryTime < result[j].EntryTime
		}
		return result[i].TokenAddress < result[j].TokenAddress
	})
	return result
}

// copyPosition deep-copies the optional exit fields.
func copyPosition(p *domain.Position) *domain.Position {
	c := *p
	if p.ExitPrice != nil {
		v := *p.ExitPrice
		c.ExitPrice = &v
	}
	if p.ExitTime != nil {
		v := *p.ExitTime
		c.ExitTime = &v
	}
	if p.ExitReason != nil {
		v := *p.ExitReason
		c.ExitReason = &v
	}
	return &c
}

// Verify interface compliance at compile time.
var _ storage.PositionStore = (*PositionStore)(nil)
