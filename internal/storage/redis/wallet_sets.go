package redis

import (
	"context"
	"fmt"

	"solana-pool-sentinel/internal/storage"
)

// WalletSets implements storage.WalletSets with one Redis set per name.
type WalletSets struct {
	client *Client
}

// NewWalletSets creates wallet sets backed by client.
func NewWalletSets(client *Client) *WalletSets {
	return &WalletSets{client: client}
}

// Members returns the members of the named set.
func (s *WalletSets) Members(ctx context.Context, set string) ([]string, error) {
	members, err := s.client.SMembers(ctx, set).Result()
	if err != nil {
		return nil, fmt.Errorf("smembers %s: %w", set, err)
	}
	return members, nil
}

// Add adds addresses to the named set.
func (s *WalletSets) Add(ctx context.Context, set string, addresses ...string) error {
	if set == "" {
		return storage.ErrInvalidInput
	}
	if len(addresses) == 0 {
		return nil
	}

	members := make([]interface{}, len(addresses))
	for i, a := range addresses {
		members[i] = a
	}
	if err := s.client.SAdd(ctx, set, members...).Err(); err != nil {
		return fmt.Errorf("sadd %s: %w", set, err)
	}
	return nil
}

var _ storage.WalletSets = (*WalletSets)(nil)
