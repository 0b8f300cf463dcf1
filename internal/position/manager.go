// Package position opens simulated positions and closes them on take-profit or stop-loss.
package position

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"solana-pool-sentinel/internal/domain"
	"solana-pool-sentinel/internal/notify"
	"solana-pool-sentinel/internal/observability"
	"solana-pool-sentinel/internal/runloop"
	"solana-pool-sentinel/internal/storage"
)

// Defaults for the monitor loop.
const (
	DefaultInterval     = 120 * time.Second
	DefaultErrorBackoff = 240 * time.Second
)

// ErrNoPrice is returned when a token has no usable price.
var ErrNoPrice = errors.New("no price for token")

// PriceSource returns the current USD price of a token.
type PriceSource interface {
	PriceUSD(ctx context.Context, token string) (decimal.Decimal, error)
}

// Config configures the Manager.
type Config struct {
	Tiers         map[domain.Category]decimal.Decimal // investment per category, USD
	TakeProfitPct decimal.Decimal                     // close at pnl% >= TakeProfitPct
	StopLossPct   decimal.Decimal                     // close at pnl% <= StopLossPct
	Interval      time.Duration
	ErrorBackoff  time.Duration
}

// DefaultConfig returns the default tiers and exit thresholds.
func DefaultConfig() Config {
	return Config{
		Tiers: map[domain.Category]decimal.Decimal{
			domain.CategoryConfidence:     decimal.NewFromInt(25),
			domain.CategoryHighConfidence: decimal.NewFromInt(50),
		},
		TakeProfitPct: decimal.NewFromInt(150),
		StopLossPct:   decimal.NewFromInt(-50),
		Interval:      DefaultInterval,
		ErrorBackoff:  DefaultErrorBackoff,
	}
}

// Manager owns the buy path and the monitor loop.
type Manager struct {
	prices   PriceSource
	store    storage.PositionStore
	marks    storage.MarkStore // optional
	notifier notify.Notifier
	cfg      Config
	now      func() time.Time
	log      zerolog.Logger
}

// NewManager creates a position manager. marks may be nil.
func NewManager(prices PriceSource, store storage.PositionStore, marks storage.MarkStore, notifier notify.Notifier, cfg Config, log zerolog.Logger) *Manager {
	return &Manager{
		prices:   prices,
		store:    store,
		marks:    marks,
		notifier: notifier,
		cfg:      cfg,
		now:      time.Now,
		log:      log,
	}
}

// Buy opens a simulated position sized by the signal's category.
// Returns storage.ErrPositionOpen if the token already has an open position.
// Nothing is persisted when the price is unavailable.
func (m *Manager) Buy(ctx context.Context, signal domain.TradeSignal) (*domain.Position, error) {
	size, ok := m.cfg.Tiers[signal.Category]
	if !ok || !signal.Category.IsTrade() {
		return nil, fmt.Errorf("no investment tier for category %q: %w", signal.Category, storage.ErrInvalidInput)
	}

	price, err := m.prices.PriceUSD(ctx, signal.Token)
	if err != nil {
		return nil, fmt.Errorf("price for %s: %w", signal.Token, err)
	}
	if !price.IsPositive() {
		return nil, fmt.Errorf("price for %s: %w", signal.Token, ErrNoPrice)
	}

	p := &domain.Position{
		TokenAddress:    signal.Token,
		InvestmentUSD:   size,
		EntryTime:       m.now().UnixMilli(),
		EntryPrice:      price,
		Status:          domain.PositionOpen,
		EntryMQS:        signal.MQS,
		EntryConfidence: signal.Confidence,
		Category:        signal.Category,
	}

	if err := m.store.Open(ctx, p); err != nil {
		return nil, fmt.Errorf("open position %s: %w", signal.Token, err)
	}
	observability.RecordPositionOpened(signal.Category.String())

	m.log.Info().
		Str("token", p.TokenAddress).
		Str("category", p.Category.String()).
		Str("entry_price", p.EntryPrice.String()).
		Str("investment_usd", p.InvestmentUSD.String()).
		Msg("simulated buy")
	m.notifier.Send(ctx, notify.BuyMessage(p))

	return p, nil
}

// MonitorCycle marks every open position and closes those past an exit threshold.
// Only a failed listing is a cycle error.
func (m *Manager) MonitorCycle(ctx context.Context) error {
	open, err := m.store.ListOpen(ctx)
	if err != nil {
		return fmt.Errorf("list open positions: %w", err)
	}

	remaining := 0
	for _, p := range open {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !m.check(ctx, p) {
			remaining++
		}
	}

	observability.SetOpenPositions(remaining)
	m.log.Debug().Int("open", remaining).Int("checked", len(open)).Msg("monitor cycle")
	return nil
}

// check evaluates one open position and reports whether it was closed.
func (m *Manager) check(ctx context.Context, p *domain.Position) bool {
	log := m.log.With().Str("token", p.TokenAddress).Logger()

	if !p.HasEntryPrice() {
		log.Debug().Msg("no entry price, skipping")
		return false
	}

	price, err := m.prices.PriceUSD(ctx, p.TokenAddress)
	if err != nil {
		log.Warn().Err(err).Msg("price unavailable, skipping")
		return false
	}

	pnl := p.PnLPercentAt(price)
	at := m.now().UnixMilli()
	m.mark(ctx, p.TokenAddress, at, price, pnl, log)

	var reason domain.ExitReason
	switch {
	case pnl.GreaterThanOrEqual(m.cfg.TakeProfitPct):
		reason = domain.ExitTakeProfit
	case pnl.LessThanOrEqual(m.cfg.StopLossPct):
		reason = domain.ExitStopLoss
	default:
		log.Debug().Str("pnl_pct", pnl.StringFixed(2)).Msg("position held")
		return false
	}

	if err := p.Close(price, at, reason); err != nil {
		log.Warn().Err(err).Msg("close rejected")
		return false
	}
	if err := m.store.Close(ctx, p); err != nil {
		log.Error().Err(err).Str("reason", string(reason)).Msg("persist close failed")
		return false
	}
	observability.RecordPositionClosed(string(reason))

	log.Info().
		Str("reason", string(reason)).
		Str("exit_price", price.String()).
		Str("pnl_pct", p.PnLPercent.StringFixed(2)).
		Str("pnl_usd", p.PnLUSD.StringFixed(2)).
		Msg("position closed")
	m.notifier.Send(ctx, notify.CloseMessage(p))
	return true
}

func (m *Manager) mark(ctx context.Context, token string, at int64, price, pnl decimal.Decimal, log zerolog.Logger) {
	if m.marks == nil {
		return
	}
	err := m.marks.InsertMark(ctx, &domain.PositionMark{
		TokenAddress: token,
		ObservedAt:   at,
		Price:        price.InexactFloat64(),
		PnLPercent:   pnl.InexactFloat64(),
	})
	if err != nil {
		log.Warn().Err(err).Msg("insert mark failed")
	}
}

// Run monitors until ctx is cancelled.
func (m *Manager) Run(ctx context.Context, status *runloop.Status) error {
	return runloop.Run(ctx, runloop.Options{
		Name:         "monitor",
		Interval:     m.cfg.Interval,
		ErrorBackoff: m.cfg.ErrorBackoff,
		Logger:       m.log,
		Status:       status,
	}, m.MonitorCycle)
}
