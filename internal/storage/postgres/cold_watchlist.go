package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"solana-pool-sentinel/internal/domain"
	"solana-pool-sentinel/internal/storage"
)

// ColdWatchlist implements storage.ColdWatchlist using PostgreSQL.
type ColdWatchlist struct {
	pool *Pool
}

// NewColdWatchlist creates a new ColdWatchlist.
func NewColdWatchlist(pool *Pool) *ColdWatchlist {
	return &ColdWatchlist{pool: pool}
}

// Compile-time interface check.
var _ storage.ColdWatchlist = (*ColdWatchlist)(nil)

// UpsertCold inserts or overwrites the record keyed by address.
func (s *ColdWatchlist) UpsertCold(ctx context.Context, e *domain.ColdWatchlistEntry) error {
	if e == nil || e.Address == "" || !e.Status.IsValid() {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO cold_watchlist (address, status, lp_mint, discovered_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (address) DO UPDATE SET
			status = EXCLUDED.status,
			lp_mint = EXCLUDED.lp_mint,
			discovered_at = EXCLUDED.discovered_at,
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.pool.Exec(ctx, query,
		e.Address,
		string(e.Status),
		e.LPMint,
		e.DiscoveredAt,
		e.UpdatedAt,
	)
	if err != nil {
		return storageError("upsert cold watchlist", err)
	}
	return nil
}

// GetCold retrieves a record by address. Returns ErrNotFound if not exists.
func (s *ColdWatchlist) GetCold(ctx context.Context, address string) (*domain.ColdWatchlistEntry, error) {
	query := `
		SELECT address, status, lp_mint, discovered_at, updated_at
		FROM cold_watchlist
		WHERE address = $1
	`

	e, err := scanColdEntry(s.pool.QueryRow(ctx, query, address))
	if err != nil {
		return nil, storageError("get cold watchlist entry", err)
	}
	return e, nil
}

// ListCold retrieves all records, ordered by discovered_at ASC.
func (s *ColdWatchlist) ListCold(ctx context.Context) ([]*domain.ColdWatchlistEntry, error) {
	query := `
		SELECT address, status, lp_mint, discovered_at, updated_at
		FROM cold_watchlist
		ORDER BY discovered_at ASC, address ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list cold watchlist: %w", err)
	}
	defer rows.Close()

	var entries []*domain.ColdWatchlistEntry
	for rows.Next() {
		e, err := scanColdEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cold watchlist row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cold watchlist rows: %w", err)
	}
	return entries, nil
}

// scanColdEntry scans a single row into a ColdWatchlistEntry.
func scanColdEntry(row pgx.Row) (*domain.ColdWatchlistEntry, error) {
	var e domain.ColdWatchlistEntry
	var status string

	if err := row.Scan(&e.Address, &status, &e.LPMint, &e.DiscoveredAt, &e.UpdatedAt); err != nil {
		return nil, err
	}

	e.Status = domain.ColdStatus(status)
	return &e, nil
}
