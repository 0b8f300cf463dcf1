package market

import (
	"context"

	"github.com/rs/zerolog"

	"solana-pool-sentinel/internal/domain"
)

// PairSource returns pair statistics of a token.
type PairSource interface {
	Pair(ctx context.Context, token string) (*domain.PairData, error)
}

// TradeSource returns recent swaps of a token.
type TradeSource interface {
	RecentTrades(ctx context.Context, token string) ([]domain.RecentTrade, error)
}

// Feed combines pair statistics with recent trades.
type Feed struct {
	pairs  PairSource
	trades TradeSource // optional
	log    zerolog.Logger
}

// NewFeed creates a Feed. trades may be nil.
func NewFeed(pairs PairSource, trades TradeSource, log zerolog.Logger) *Feed {
	return &Feed{pairs: pairs, trades: trades, log: log}
}

// PairData returns the market snapshot of token.
// Pair lookup failures are returned; a trade lookup failure leaves RecentTrades empty.
func (f *Feed) PairData(ctx context.Context, token string) (*domain.PairData, error) {
	data, err := f.pairs.Pair(ctx, token)
	if err != nil {
		return nil, err
	}

	if f.trades != nil {
		trades, err := f.trades.RecentTrades(ctx, token)
		if err != nil {
			f.log.Warn().Err(err).Str("token", token).Msg("recent trades unavailable")
		} else {
			data.RecentTrades = trades
		}
	}
	return data, nil
}
