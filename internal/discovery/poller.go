package discovery

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"solana-pool-sentinel/internal/domain"
	"solana-pool-sentinel/internal/observability"
	"solana-pool-sentinel/internal/runloop"
)

// Defaults for the discovery loop.
const (
	DefaultLimit        = 25
	DefaultInterval     = 10 * time.Second
	DefaultErrorBackoff = 20 * time.Second
)

// Handler receives every extracted pool.
type Handler interface {
	HandlePool(ctx context.Context, event domain.PoolEvent, pool *domain.PoolInfo)
}

// PollerConfig configures a Poller.
type PollerConfig struct {
	Program      string
	Marker       string
	Limit        int
	Interval     time.Duration
	ErrorBackoff time.Duration
}

func (c PollerConfig) withDefaults() PollerConfig {
	if c.Program == "" {
		c.Program = domain.RaydiumAMMV4
	}
	if c.Marker == "" {
		c.Marker = DefaultMarker
	}
	if c.Limit <= 0 {
		c.Limit = DefaultLimit
	}
	if c.Interval <= 0 {
		c.Interval = DefaultInterval
	}
	if c.ErrorBackoff <= 0 {
		c.ErrorBackoff = DefaultErrorBackoff
	}
	return c
}

// Poller scans recent program signatures for pool initializations.
// The cursor lives in memory only; a restart replays up to Limit transactions.
type Poller struct {
	source    Source
	extractor Extractor
	handler   Handler
	cfg       PollerConfig
	log       zerolog.Logger

	mu     sync.Mutex
	cursor string
}

// NewPoller creates a discovery poller.
func NewPoller(source Source, extractor Extractor, handler Handler, cfg PollerConfig, log zerolog.Logger) *Poller {
	return &Poller{
		source:    source,
		extractor: extractor,
		handler:   handler,
		cfg:       cfg.withDefaults(),
		log:       log,
	}
}

// Cursor returns the newest signature processed so far.
func (p *Poller) Cursor() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cursor
}

// RunCycle processes the signatures that appeared since the previous cycle.
// A failed listing leaves the cursor unchanged and is returned; per-signature
// failures are logged and skipped.
func (p *Poller) RunCycle(ctx context.Context) error {
	sigs, err := p.source.RecentSignatures(ctx, p.cfg.Program, p.cfg.Limit)
	if err != nil {
		return err
	}
	if len(sigs) == 0 {
		return nil
	}

	chronological := make([]string, len(sigs))
	for i, s := range sigs {
		chronological[len(sigs)-1-i] = s
	}

	fresh := afterCursor(chronological, p.Cursor())
	p.log.Debug().Int("window", len(sigs)).Int("new", len(fresh)).Msg("signatures listed")

	for _, sig := range fresh {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		observability.RecordSignatureScanned()

		logs, err := p.source.TransactionLogs(ctx, sig)
		if err != nil {
			p.log.Warn().Err(err).Str("signature", sig).Msg("fetch logs failed, skipping")
			continue
		}

		p.process(ctx, domain.PoolEvent{Signature: sig, Logs: logs, Program: p.cfg.Program})
	}

	p.mu.Lock()
	p.cursor = chronological[len(chronological)-1]
	p.mu.Unlock()

	return nil
}

// process runs marker detection and extraction for one transaction.
func (p *Poller) process(ctx context.Context, event domain.PoolEvent) {
	if !IsPoolInit(event.Logs, p.cfg.Marker) {
		return
	}
	observability.RecordPoolDetected()

	pool, ok := p.extractor.Extract(event.Logs)
	if !ok {
		observability.RecordExtractionFailure()
		p.log.Debug().Str("signature", event.Signature).Msg("pool init without extractable keys")
		return
	}

	p.log.Info().
		Str("signature", event.Signature).
		Str("lp_mint", pool.LPMint).
		Str("mint_a", pool.MintA).
		Str("mint_b", pool.MintB).
		Msg("pool detected")

	p.handler.HandlePool(ctx, event, pool)
}

// Run polls until ctx is cancelled.
func (p *Poller) Run(ctx context.Context, status *runloop.Status) error {
	return runloop.Run(ctx, runloop.Options{
		Name:         "discovery",
		Interval:     p.cfg.Interval,
		ErrorBackoff: p.cfg.ErrorBackoff,
		Logger:       p.log,
		Status:       status,
	}, p.RunCycle)
}

// afterCursor returns the signatures after cursor. When cursor is empty or
// not in the window, the whole window is new.
func afterCursor(chronological []string, cursor string) []string {
	if cursor == "" {
		return chronological
	}
	for i, s := range chronological {
		if s == cursor {
			return chronological[i+1:]
		}
	}
	return chronological
}
