package discovery

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"solana-pool-sentinel/internal/domain"
	"solana-pool-sentinel/internal/gatekeeper"
	"solana-pool-sentinel/internal/notify"
	"solana-pool-sentinel/internal/observability"
	"solana-pool-sentinel/internal/storage"
)

// Gate evaluates a pool against the gatekeeper rules.
type Gate interface {
	Evaluate(ctx context.Context, pool *domain.PoolInfo) gatekeeper.Result
}

// Pipeline is the Handler that admits pools to the watchlists.
type Pipeline struct {
	gate       Gate
	hot        storage.HotWatchlist
	cold       storage.ColdWatchlist
	notifier   notify.Notifier
	nativeMint string
	now        func() time.Time
	log        zerolog.Logger
}

// NewPipeline creates the discovery handler.
func NewPipeline(gate Gate, hot storage.HotWatchlist, cold storage.ColdWatchlist, notifier notify.Notifier, nativeMint string, log zerolog.Logger) *Pipeline {
	if nativeMint == "" {
		nativeMint = domain.NativeMint
	}
	return &Pipeline{
		gate:       gate,
		hot:        hot,
		cold:       cold,
		notifier:   notifier,
		nativeMint: nativeMint,
		now:        time.Now,
		log:        log,
	}
}

// HandlePool runs the gatekeeper, then records a passing pool's token on the
// hot and cold watchlists. The candidate notification is sent only after the
// hot write succeeds.
func (p *Pipeline) HandlePool(ctx context.Context, event domain.PoolEvent, pool *domain.PoolInfo) {
	res := p.gate.Evaluate(ctx, pool)
	if !res.Passed {
		p.log.Info().
			Str("signature", event.Signature).
			Str("lp_mint", pool.LPMint).
			Str("rule", res.FailedRule).
			Str("reason", res.Reason).
			Msg("pool rejected")
		p.notifier.Send(ctx, notify.RejectionMessage(pool, res.FailedRule, res.Reason))
		return
	}

	now := p.now().UnixMilli()
	candidate := domain.CandidateToken{
		Address:      domain.TokenOf(pool, p.nativeMint),
		LPMint:       pool.LPMint,
		DiscoveredAt: now,
	}
	log := p.log.With().Str("token", candidate.Address).Str("lp_mint", candidate.LPMint).Logger()

	if err := p.hot.AddHot(ctx, candidate.Address); err != nil {
		log.Error().Err(err).Msg("add to hot watchlist failed")
		return
	}
	observability.RecordHotAdd()

	entry := &domain.ColdWatchlistEntry{
		Address:      candidate.Address,
		Status:       domain.ColdStatusWatching,
		LPMint:       candidate.LPMint,
		DiscoveredAt: now,
		UpdatedAt:    now,
	}
	if err := p.cold.UpsertCold(ctx, entry); err != nil {
		log.Error().Err(err).Msg("upsert cold watchlist failed")
	}

	log.Info().Str("signature", event.Signature).Msg("candidate added")
	p.notifier.Send(ctx, notify.NewCandidateMessage(candidate))
}
