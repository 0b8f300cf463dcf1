package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"solana-pool-sentinel/internal/domain"
	"solana-pool-sentinel/internal/storage"
)

// PositionStore implements storage.PositionStore using PostgreSQL.
type PositionStore struct {
	pool *Pool
}

// NewPositionStore creates a new PositionStore.
func NewPositionStore(pool *Pool) *PositionStore {
	return &PositionStore{pool: pool}
}

// Compile-time interface check.
var _ storage.PositionStore = (*PositionStore)(nil)

const positionColumns = `
	token_address, investment_usd, entry_time, entry_price, status,
	entry_mqs, entry_confidence, category,
	exit_price, exit_time, exit_reason, pnl_percent, pnl_usd
`

// Open persists a new open position.
// The conflict branch only fires for a closed row, so an open position is never overwritten.
func (s *PositionStore) Open(ctx context.Context, p *domain.Position) error {
	if p == nil || p.TokenAddress == "" || !p.IsOpen() {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO positions (` + positionColumns + `)
		VALUES ($1, $2, $3, $4, 'open', $5, $6, $7, NULL, NULL, NULL, 0, 0)
		ON CONFLICT (token_address) DO UPDATE SET
			investment_usd = EXCLUDED.investment_usd,
			entry_time = EXCLUDED.entry_time,
			entry_price = EXCLUDED.entry_price,
			status = 'open',
			entry_mqs = EXCLUDED.entry_mqs,
			entry_confidence = EXCLUDED.entry_confidence,
			category = EXCLUDED.category,
			exit_price = NULL,
			exit_time = NULL,
			exit_reason = NULL,
			pnl_percent = 0,
			pnl_usd = 0,
			updated_at = NOW()
		WHERE positions.status = 'closed'
	`

	tag, err := s.pool.Exec(ctx, query,
		p.TokenAddress,
		p.InvestmentUSD,
		p.EntryTime,
		p.EntryPrice,
		p.EntryMQS,
		p.EntryConfidence,
		string(p.Category),
	)
	if err != nil {
		return storageError("open position", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrPositionOpen
	}
	return nil
}

// Close persists the exit fields over the open record.
func (s *PositionStore) Close(ctx context.Context, p *domain.Position) error {
	if p == nil || p.TokenAddress == "" || p.Status != domain.PositionClosed {
		return storage.ErrInvalidInput
	}

	var exitReason *string
	if p.ExitReason != nil {
		r := string(*p.ExitReason)
		exitReason = &r
	}

	query := `
		UPDATE positions SET
			status = 'closed',
			exit_price = $2,
			exit_time = $3,
			exit_reason = $4,
			pnl_percent = $5,
			pnl_usd = $6,
			updated_at = NOW()
		WHERE token_address = $1 AND status = 'open'
	`

	tag, err := s.pool.Exec(ctx, query,
		p.TokenAddress,
		nullDecimal(p.ExitPrice),
		p.ExitTime,
		exitReason,
		p.PnLPercent,
		p.PnLUSD,
	)
	if err != nil {
		return storageError("close position", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// Get retrieves the position for a token. Returns ErrNotFound if not exists.
func (s *PositionStore) Get(ctx context.Context, token string) (*domain.Position, error) {
	query := `SELECT ` + positionColumns + ` FROM positions WHERE token_address = $1`

	p, err := scanPosition(s.pool.QueryRow(ctx, query, token))
	if err != nil {
		return nil, storageError("get position", err)
	}
	return p, nil
}

// ListOpen retrieves all open positions, ordered by entry_time ASC.
func (s *PositionStore) ListOpen(ctx context.Context) ([]*domain.Position, error) {
	query := `
		SELECT ` + positionColumns + `
		FROM positions
		WHERE status = 'open'
		ORDER BY entry_time ASC, token_address ASC
	`
	return s.query(ctx, query)
}

// List retrieves all positions, ordered by entry_time ASC.
func (s *PositionStore) List(ctx context.Context) ([]*domain.Position, error) {
	query := `
		SELECT ` + positionColumns + `
		FROM positions
		ORDER BY entry_time ASC, token_address ASC
	`
	return s.query(ctx, query)
}

func (s *PositionStore) query(ctx context.Context, query string) ([]*domain.Position, error) {
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list positions: %w", err)
	}
	defer rows.Close()

	var positions []*domain.Position
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, fmt.Errorf("scan position row: %w", err)
		}
		positions = append(positions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate position rows: %w", err)
	}
	return positions, nil
}

// scanPosition scans a single row into a Position.
func scanPosition(row pgx.Row) (*domain.Position, error) {
	var p domain.Position
	var status, category string
	var exitPrice decimal.NullDecimal
	var exitReason *string

	err := row.Scan(
		&p.TokenAddress,
		&p.InvestmentUSD,
		&p.EntryTime,
		&p.EntryPrice,
		&status,
		&p.EntryMQS,
		&p.EntryConfidence,
		&category,
		&exitPrice,
		&p.ExitTime,
		&exitReason,
		&p.PnLPercent,
		&p.PnLUSD,
	)
	if err != nil {
		return nil, err
	}

	p.Status = domain.PositionStatus(status)
	p.Category = domain.Category(category)
	if exitPrice.Valid {
		v := exitPrice.Decimal
		p.ExitPrice = &v
	}
	if exitReason != nil {
		r := domain.ExitReason(*exitReason)
		p.ExitReason = &r
	}
	return &p, nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}
