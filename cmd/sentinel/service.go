package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"solana-pool-sentinel/internal/config"
	"solana-pool-sentinel/internal/discovery"
	"solana-pool-sentinel/internal/domain"
	"solana-pool-sentinel/internal/gatekeeper"
	"solana-pool-sentinel/internal/logging"
	"solana-pool-sentinel/internal/market"
	"solana-pool-sentinel/internal/notify"
	"solana-pool-sentinel/internal/position"
	"solana-pool-sentinel/internal/runloop"
	"solana-pool-sentinel/internal/scoring"
	"solana-pool-sentinel/internal/solana"
	"solana-pool-sentinel/internal/trigger"
)

// service holds the wired pipeline components.
type service struct {
	cfg    *config.Config
	log    zerolog.Logger
	layout discovery.Layout

	rpc       *solana.HTTPClient
	ws        *solana.WSClientImpl // subscribe mode only
	extractor discovery.Extractor
	pipeline  *discovery.Pipeline
	engine    *trigger.Engine
	positions *position.Manager
}

func newService(ctx context.Context, cfg *config.Config, stores *sentinelStores, logger zerolog.Logger) (*service, error) {
	layout, err := resolveLayout(cfg.Discovery)
	if err != nil {
		return nil, err
	}

	rpc := solana.NewHTTPClient(cfg.Solana.RPCURL,
		solana.WithMaxRetries(cfg.Solana.MaxRetries),
		solana.WithCommitment(cfg.Solana.Commitment),
	)

	notifier, err := newNotifier(cfg.Telegram, logging.Component(logger, "notify"))
	if err != nil {
		return nil, err
	}

	mc := func(baseURL string) market.ClientConfig {
		return market.ClientConfig{
			BaseURL:    baseURL,
			Timeout:    cfg.Market.Timeout,
			RetryCount: cfg.Market.RetryCount,
		}
	}
	dex := market.NewDexScreener(mc(cfg.Market.DexScreenerURL))
	birdeye := market.NewBirdeye(mc(cfg.Market.BirdeyeURL), cfg.Market.BirdeyeAPIKey, 0)
	oracle := market.NewCoinGecko(mc(cfg.Market.CoinGeckoURL), "")
	goplus := market.NewGoPlus(mc(cfg.Market.GoPlusURL))

	rules := []gatekeeper.Rule{
		gatekeeper.NewLiquidityRule(rpc, oracle, cfg.Gatekeeper.NativeMint, decimal.NewFromFloat(cfg.Gatekeeper.MinLiquidityUSD)),
	}
	rules = append(rules, gatekeeper.StaticRules(config.PlaceholderRules, cfg.Gatekeeper.Rules)...)
	chain := gatekeeper.NewChain(logging.Component(logger, "gatekeeper"), rules...)
	logger.Info().Strs("rules", chain.Rules()).Str("layout", layout.Version).Msg("gatekeeper chain ready")

	svc := &service{
		cfg:       cfg,
		log:       logging.Component(logger, "discovery"),
		layout:    layout,
		rpc:       rpc,
		extractor: discovery.NewOffsetExtractor(layout, cfg.Discovery.Program),
		pipeline: discovery.NewPipeline(chain, stores.hot, stores.cold, notifier,
			cfg.Gatekeeper.NativeMint, logging.Component(logger, "discovery")),
	}

	if cfg.Discovery.Mode == config.ModeSubscribe {
		wsCfg := solana.DefaultWSConfig()
		wsCfg.Commitment = cfg.Solana.Commitment
		wsCfg.Logger = logging.Component(logger, "ws")
		ws, err := solana.NewWSClient(ctx, cfg.Solana.WSURL, &wsCfg)
		if err != nil {
			return nil, fmt.Errorf("connect websocket: %w", err)
		}
		svc.ws = ws
	}

	svc.positions = position.NewManager(dex, stores.positions, stores.marks, notifier, position.Config{
		Tiers: map[domain.Category]decimal.Decimal{
			domain.CategoryConfidence:     decimal.NewFromFloat(cfg.Position.ConfidenceUSD),
			domain.CategoryHighConfidence: decimal.NewFromFloat(cfg.Position.HighConfidenceUSD),
		},
		TakeProfitPct: decimal.NewFromFloat(cfg.Position.TakeProfitPct),
		StopLossPct:   decimal.NewFromFloat(cfg.Position.StopLossPct),
		Interval:      cfg.Position.Interval,
		ErrorBackoff:  cfg.Position.ErrorBackoff,
	}, logging.Component(logger, "position"))

	scorex := scoring.NewScoreX(goplus, scoring.ScoreXConfig{
		MaxTop10Share:        cfg.Scoring.MaxTop10Share,
		ConcentrationPenalty: cfg.Scoring.ConcentrationPenalty,
		ConfidenceMin:        cfg.Scoring.ConfidenceMin,
		HighConfidenceMin:    cfg.Scoring.HighConfidenceMin,
	}, logging.Component(logger, "scorex"))

	watchTTL := cfg.Trigger.WatchTTL
	if watchTTL < 0 {
		watchTTL = 0
	}
	svc.engine = trigger.NewEngine(trigger.Deps{
		Hot:     stores.hot,
		Cold:    stores.cold,
		Wallets: stores.wallets,
		Pairs:   market.NewFeed(dex, birdeye, logging.Component(logger, "market")),
		Scorer:  scorex,
		Buyer:   svc.positions,
	}, trigger.Config{
		ActivationThreshold: cfg.Trigger.ActivationThreshold,
		TAS: scoring.TASConfig{
			MQSThreshold:    cfg.Trigger.MQSThreshold,
			MomentumBonus:   cfg.Trigger.MomentumBonus,
			InsiderBonus:    cfg.Trigger.InsiderBonus,
			SmartMoneyBonus: cfg.Trigger.SmartMoneyBonus,
		},
		WatchTTL:      watchTTL,
		Interval:      cfg.Trigger.Interval,
		EmptyInterval: cfg.Trigger.EmptyInterval,
		ErrorBackoff:  cfg.Trigger.ErrorBackoff,
	}, logging.Component(logger, "trigger"))

	return svc, nil
}

func (s *service) close() {
	if s.ws != nil {
		_ = s.ws.Close()
	}
}

// runDiscovery runs the configured discovery source until ctx is cancelled.
func (s *service) runDiscovery(ctx context.Context, status *runloop.Status) error {
	if s.ws == nil {
		poller := discovery.NewPoller(discovery.NewRPCSource(s.rpc), s.extractor, s.pipeline, discovery.PollerConfig{
			Program:      s.cfg.Discovery.Program,
			Marker:       s.cfg.Discovery.Marker,
			Limit:        s.cfg.Discovery.Limit,
			Interval:     s.cfg.Discovery.Interval,
			ErrorBackoff: s.cfg.Discovery.ErrorBackoff,
		}, s.log)
		return poller.Run(ctx, status)
	}

	sub := discovery.NewSubscriber(s.ws, s.extractor, s.pipeline, s.cfg.Discovery.Program, s.cfg.Discovery.Marker, s.log)
	for {
		started := time.Now()
		err := sub.Run(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		status.Record("discovery", started, time.Since(started), err)
		if err != nil && !errors.Is(err, discovery.ErrSubscriptionClosed) {
			s.log.Error().Err(err).Dur("backoff", s.cfg.Discovery.ErrorBackoff).Msg("subscribe failed")
		} else {
			s.log.Warn().Dur("backoff", s.cfg.Discovery.ErrorBackoff).Msg("log subscription closed, resubscribing")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.cfg.Discovery.ErrorBackoff):
		}
	}
}

// resolveLayout returns the configured extractor layout with any offset override applied.
func resolveLayout(cfg config.DiscoveryConfig) (discovery.Layout, error) {
	layout, err := discovery.LayoutByVersion(cfg.Layout)
	if err != nil {
		return discovery.Layout{}, err
	}
	if o := cfg.Offsets; o != nil {
		layout = discovery.Layout{
			Version:       layout.Version + "+override",
			LP:            o.LP,
			MintA:         o.MintA,
			MintB:         o.MintB,
			TokenAccountA: o.TokenAccountA,
			TokenAccountB: o.TokenAccountB,
			MinKeys:       o.MinKeys,
		}
	}
	if err := layout.Validate(); err != nil {
		return discovery.Layout{}, err
	}
	return layout, nil
}

func newNotifier(cfg config.TelegramConfig, logger zerolog.Logger) (notify.Notifier, error) {
	logNotifier := notify.NewLog(logger)
	if !cfg.Enabled {
		return logNotifier, nil
	}
	tg, err := notify.NewTelegram(notify.TelegramConfig{
		BotToken:    cfg.BotToken,
		ChatID:      cfg.ChatID,
		ServerURL:   cfg.ServerURL,
		SendTimeout: cfg.SendTimeout,
	}, logger)
	if err != nil {
		return nil, err
	}
	return notify.Multi{logNotifier, tg}, nil
}
