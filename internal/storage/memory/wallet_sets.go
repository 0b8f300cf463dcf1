package memory

import (
	"context"
	"sort"
	"sync"

	"solana-pool-sentinel/internal/storage"
)

// WalletSets is an in-memory implementation of storage.WalletSets.
type WalletSets struct {
	mu   sync.RWMutex
	sets map[string]map[string]struct{}
}

// NewWalletSets creates new in-memory wallet sets.
func NewWalletSets() *WalletSets {
	return &WalletSets{
		sets: make(map[string]map[string]struct{}),
	}
}

// Members returns all addresses in the named set, sorted.
func (s *WalletSets) Members(_ context.Context, set string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	members := s.sets[set]
	result := make([]string, 0, len(members))
	for addr := range members {
		result = append(result, addr)
	}
	sort.Strings(result)
	return result, nil
}

// Add adds addresses to the named set.
func (s *WalletSets) Add(_ context.Context, set string, addresses ...string) error {
	if set == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	members, ok := s.sets[set]
	if !ok {
		members = make(map[string]struct{})
		s.sets[set] = members
	}
	for _, addr := range addresses {
		if addr != "" {
			members[addr] = struct{}{}
		}
	}
	return nil
}

// Verify interface compliance at compile time.
var _ storage.WalletSets = (*WalletSets)(nil)
