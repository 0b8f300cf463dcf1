package storage

import (
	"context"

	"solana-pool-sentinel/internal/domain"
)

// PositionStore provides access to positions storage.
// Positions are keyed by token address; at most one may be open per token.
type PositionStore interface {
	// Open persists a new open position. Returns ErrPositionOpen if the token
	// already has an open position. A closed position for the token is replaced.
	Open(ctx context.Context, p *domain.Position) error

	// Close persists the exit fields of a closed position. Only an open record
	// is updated; returns ErrNotFound if the token has no open position.
	Close(ctx context.Context, p *domain.Position) error

	// Get retrieves the position for a token. Returns ErrNotFound if not exists.
	Get(ctx context.Context, token string) (*domain.Position, error)

	// ListOpen retrieves all open positions, ordered by entry_time ASC.
	ListOpen(ctx context.Context) ([]*domain.Position, error)

	// List retrieves all positions, ordered by entry_time ASC.
	List(ctx context.Context) ([]*domain.Position, error)
}

// MarkStore provides access to position_marks storage.
type MarkStore interface {
	// InsertMark appends one observation.
	InsertMark(ctx context.Context, m *domain.PositionMark) error

	// GetMarks retrieves all observations for a token, ordered by observed_at ASC.
	GetMarks(ctx context.Context, token string) ([]*domain.PositionMark, error)
}
