package storage

import (
	"context"

	"solana-pool-sentinel/internal/domain"
)

// Known-wallet set names.
const (
	InsiderWallets    = "insider_wallets"
	SmartMoneyWallets = "smart_money_wallets"
)

// HotWatchlist is the set of token addresses awaiting scoring.
// All operations are idempotent set operations.
type HotWatchlist interface {
	// AddHot adds address to the set. Adding a member again is a no-op.
	AddHot(ctx context.Context, address string) error

	// RemoveHot removes address from the set. Removing a non-member is a no-op.
	RemoveHot(ctx context.Context, address string) error

	// ListHot returns an unordered, duplicate-free snapshot of the set.
	ListHot(ctx context.Context) ([]string, error)
}

// ColdWatchlist provides access to cold_watchlist storage.
type ColdWatchlist interface {
	// UpsertCold inserts or overwrites the record keyed by address (last write wins).
	UpsertCold(ctx context.Context, e *domain.ColdWatchlistEntry) error

	// GetCold retrieves a record by address. Returns ErrNotFound if not exists.
	GetCold(ctx context.Context, address string) (*domain.ColdWatchlistEntry, error)

	// ListCold retrieves all records, ordered by discovered_at ASC.
	ListCold(ctx context.Context) ([]*domain.ColdWatchlistEntry, error)
}

// WalletSets holds the known-wallet sets used by trigger scoring.
type WalletSets interface {
	// Members returns all addresses in the named set. Unknown sets are empty.
	Members(ctx context.Context, set string) ([]string, error)

	// Add adds addresses to the named set.
	Add(ctx context.Context, set string, addresses ...string) error
}
