package clickhouse

import (
	"context"
	"fmt"

	"solana-pool-sentinel/internal/domain"
	"solana-pool-sentinel/internal/storage"
)

// MarkStore implements storage.MarkStore using ClickHouse.
type MarkStore struct {
	conn *Conn
}

// NewMarkStore creates a new MarkStore.
func NewMarkStore(conn *Conn) *MarkStore {
	return &MarkStore{conn: conn}
}

// Compile-time interface check.
var _ storage.MarkStore = (*MarkStore)(nil)

// InsertMark appends one observation.
func (s *MarkStore) InsertMark(ctx context.Context, m *domain.PositionMark) error {
	if m == nil || m.TokenAddress == "" {
		return storage.ErrInvalidInput
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO position_marks (token_address, observed_at, price, pnl_percent)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	if err := batch.Append(m.TokenAddress, uint64(m.ObservedAt), m.Price, m.PnLPercent); err != nil {
		return fmt.Errorf("append to batch: %w", err)
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// GetMarks retrieves all observations for a token, ordered by observed_at ASC.
func (s *MarkStore) GetMarks(ctx context.Context, token string) ([]*domain.PositionMark, error) {
	query := `
		SELECT token_address, observed_at, price, pnl_percent
		FROM position_marks
		WHERE token_address = ?
		ORDER BY observed_at ASC
	`

	rows, err := s.conn.Query(ctx, query, token)
	if err != nil {
		return nil, fmt.Errorf("query marks: %w", err)
	}
	defer rows.Close()

	var marks []*domain.PositionMark
	for rows.Next() {
		var m domain.PositionMark
		var observedAt uint64

		if err := rows.Scan(&m.TokenAddress, &observedAt, &m.Price, &m.PnLPercent); err != nil {
			return nil, fmt.Errorf("scan mark row: %w", err)
		}

		m.ObservedAt = int64(observedAt)
		marks = append(marks, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mark rows: %w", err)
	}
	return marks, nil
}
