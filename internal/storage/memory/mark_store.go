package memory

import (
	"context"
	"sort"
	"sync"

	"solana-pool-sentinel/internal/domain"
	"solana-pool-sentinel/internal/storage"
)

// MarkStore is an in-memory implementation of storage.MarkStore.
type MarkStore struct {
	mu   sync.RWMutex
	data map[string][]*domain.PositionMark // keyed by token address
}

// NewMarkStore creates a new in-memory mark store.
func NewMarkStore() *MarkStore {
	return &MarkStore{
		data: make(map[string][]*domain.PositionMark),
	}
}

// InsertMark appends one observation.
func (s *MarkStore) InsertMark(_ context.Context, m *domain.PositionMark) error {
	if m == nil || m.TokenAddress == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	markCopy := *m
	s.data[m.TokenAddress] = append(s.data[m.TokenAddress], &markCopy)
	return nil
}

// GetMarks retrieves all observations for a token, ordered by observed_at ASC.
func (s *MarkStore) GetMarks(_ context.Context, token string) ([]*domain.PositionMark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	marks := s.data[token]
	result := make([]*domain.PositionMark, 0, len(marks))
	for _, m := range marks {
		markCopy := *m
		result = append(result, &markCopy)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].ObservedAt < result[j].ObservedAt
	})
	return result, nil
}

// Verify interface compliance at compile time.
var _ storage.MarkStore = (*MarkStore)(nil)
