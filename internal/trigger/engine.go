// Package trigger scores hot-watchlist tokens and hands trade decisions to the position manager.
package trigger

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"solana-pool-sentinel/internal/domain"
	"solana-pool-sentinel/internal/observability"
	"solana-pool-sentinel/internal/runloop"
	"solana-pool-sentinel/internal/scoring"
	"solana-pool-sentinel/internal/storage"
)

// Defaults for the trigger loop.
const (
	DefaultActivationThreshold = 4
	DefaultInterval            = 60 * time.Second
	DefaultEmptyInterval       = 15 * time.Second
	DefaultErrorBackoff        = 120 * time.Second
	DefaultWatchTTL            = 6 * time.Hour
)

// PairSource returns the market snapshot of a token.
type PairSource interface {
	PairData(ctx context.Context, token string) (*domain.PairData, error)
}

// Scorer is the confidence stage.
type Scorer interface {
	Evaluate(ctx context.Context, token string, mqs int) (int, domain.Category)
}

// Buyer opens simulated positions.
type Buyer interface {
	Buy(ctx context.Context, signal domain.TradeSignal) (*domain.Position, error)
}

// Config configures the Engine.
type Config struct {
	ActivationThreshold int
	TAS                 scoring.TASConfig
	WatchTTL            time.Duration // 0 disables expiry
	Interval            time.Duration
	EmptyInterval       time.Duration // used while the hot list is empty
	ErrorBackoff        time.Duration
}

// DefaultConfig returns the default trigger configuration.
func DefaultConfig() Config {
	return Config{
		ActivationThreshold: DefaultActivationThreshold,
		TAS:                 scoring.DefaultTASConfig(),
		WatchTTL:            DefaultWatchTTL,
		Interval:            DefaultInterval,
		EmptyInterval:       DefaultEmptyInterval,
		ErrorBackoff:        DefaultErrorBackoff,
	}
}

// Engine evaluates every hot token once per cycle.
type Engine struct {
	hot     storage.HotWatchlist
	cold    storage.ColdWatchlist
	wallets storage.WalletSets
	pairs   PairSource
	scorer  Scorer
	buyer   Buyer
	cfg     Config
	now     func() time.Time
	log     zerolog.Logger

	lastHot atomic.Int64
}

// Deps groups the Engine collaborators.
type Deps struct {
	Hot     storage.HotWatchlist
	Cold    storage.ColdWatchlist
	Wallets storage.WalletSets
	Pairs   PairSource
	Scorer  Scorer
	Buyer   Buyer
}

// NewEngine creates a trigger engine.
func NewEngine(deps Deps, cfg Config, log zerolog.Logger) *Engine {
	return &Engine{
		hot:     deps.Hot,
		cold:    deps.Cold,
		wallets: deps.Wallets,
		pairs:   deps.Pairs,
		scorer:  deps.Scorer,
		buyer:   deps.Buyer,
		cfg:     cfg,
		now:     time.Now,
		log:     log,
	}
}

// RunCycle evaluates a snapshot of the hot watchlist.
// Only a failed snapshot is a cycle error; per-token failures keep the token
// for the next cycle.
func (e *Engine) RunCycle(ctx context.Context) error {
	tokens, err := e.hot.ListHot(ctx)
	if err != nil {
		return err
	}
	e.lastHot.Store(int64(len(tokens)))
	if len(tokens) == 0 {
		return nil
	}

	wallets := e.loadWallets(ctx)
	e.log.Debug().Int("hot", len(tokens)).Msg("trigger cycle")

	for _, token := range tokens {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		e.evaluate(ctx, token, wallets)
	}
	return nil
}

// NextInterval returns the wait before the next cycle.
func (e *Engine) NextInterval() time.Duration {
	if e.lastHot.Load() == 0 && e.cfg.EmptyInterval > 0 {
		return e.cfg.EmptyInterval
	}
	return e.cfg.Interval
}

// Run evaluates until ctx is cancelled.
func (e *Engine) Run(ctx context.Context, status *runloop.Status) error {
	return runloop.Run(ctx, runloop.Options{
		Name:         "trigger",
		Interval:     e.cfg.Interval,
		ErrorBackoff: e.cfg.ErrorBackoff,
		NextInterval: e.NextInterval,
		Logger:       e.log,
		Status:       status,
	}, e.RunCycle)
}

// loadWallets reads both known-wallet sets. A failed lookup yields an empty set.
func (e *Engine) loadWallets(ctx context.Context) scoring.WalletSets {
	insiders, err := e.wallets.Members(ctx, storage.InsiderWallets)
	if err != nil {
		e.log.Warn().Err(err).Str("set", storage.InsiderWallets).Msg("wallet set unavailable")
		insiders = nil
	}
	smart, err := e.wallets.Members(ctx, storage.SmartMoneyWallets)
	if err != nil {
		e.log.Warn().Err(err).Str("set", storage.SmartMoneyWallets).Msg("wallet set unavailable")
		smart = nil
	}
	return scoring.NewWalletSets(insiders, smart)
}

func (e *Engine) evaluate(ctx context.Context, token string, wallets scoring.WalletSets) {
	log := e.log.With().Str("token", token).Logger()

	entry, err := e.cold.GetCold(ctx, token)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		log.Warn().Err(err).Msg("cold record unavailable")
	}
	if entry != nil && e.expired(entry) {
		log.Info().Int64("discovered_at", entry.DiscoveredAt).Msg("watch expired")
		e.finish(ctx, token, entry, domain.ColdStatusExpired, log)
		return
	}

	pair, err := e.pairs.PairData(ctx, token)
	if err != nil {
		log.Warn().Err(err).Msg("pair data unavailable, retrying next cycle")
		return
	}

	mqs := scoring.MQS(pair)
	tas := scoring.TAS(mqs, pair.RecentBuyers(), wallets, e.cfg.TAS)
	log.Info().Int("mqs", mqs).Int("tas", tas).Int64("tx24h", pair.Tx24h()).Msg("token scored")

	if tas < e.cfg.ActivationThreshold {
		return
	}

	confidence, category := e.scorer.Evaluate(ctx, token, mqs)
	observability.RecordScore(category.String())

	if !category.IsTrade() {
		e.finish(ctx, token, entry, domain.ColdStatusRejected, log)
		return
	}

	signal := domain.TradeSignal{Token: token, MQS: mqs, Confidence: confidence, Category: category}
	if _, err := e.buyer.Buy(ctx, signal); err != nil && !errors.Is(err, storage.ErrPositionOpen) {
		log.Error().Err(err).Str("category", category.String()).Msg("buy failed, retrying next cycle")
		return
	} else if err != nil {
		log.Info().Msg("position already open")
	}

	e.finish(ctx, token, entry, domain.ColdStatusTraded, log)
}

func (e *Engine) expired(entry *domain.ColdWatchlistEntry) bool {
	if e.cfg.WatchTTL <= 0 || entry.Status != domain.ColdStatusWatching {
		return false
	}
	age := e.now().Sub(time.UnixMilli(entry.DiscoveredAt))
	return age > e.cfg.WatchTTL
}

// finish removes token from the hot list and records the decision on its cold record.
func (e *Engine) finish(ctx context.Context, token string, entry *domain.ColdWatchlistEntry, status domain.ColdStatus, log zerolog.Logger) {
	if err := e.hot.RemoveHot(ctx, token); err != nil {
		log.Error().Err(err).Msg("remove from hot watchlist failed")
		return
	}
	observability.RecordHotRemove(status.String())

	now := e.now().UnixMilli()
	updated := domain.ColdWatchlistEntry{Address: token, DiscoveredAt: now}
	if entry != nil {
		updated = *entry
	}
	updated.Status = status
	updated.UpdatedAt = now

	if err := e.cold.UpsertCold(ctx, &updated); err != nil {
		log.Error().Err(err).Str("status", status.String()).Msg("update cold watchlist failed")
		return
	}
	log.Info().Str("status", status.String()).Msg("token removed from hot watchlist")
}
