// Package main runs the sentinel service: discovery, gatekeeper, trigger
// scoring and the simulated position monitor, plus a health/metrics server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"solana-pool-sentinel/internal/config"
	"solana-pool-sentinel/internal/logging"
	"solana-pool-sentinel/internal/runloop"
)

func main() {
	configPath := flag.String("config", os.Getenv("SENTINEL_CONFIG"), "Path to YAML config file")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of Redis/PostgreSQL")
	metricsAddr := flag.String("metrics-addr", "", "HTTP address for /health, /metrics and /status (overrides config)")
	logLevel := flag.String("log-level", "", "Log level (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if *useMemory {
		cfg.General.UseMemory = true
	}
	if *metricsAddr != "" {
		cfg.General.MetricsAddr = *metricsAddr
	}
	if *logLevel != "" {
		cfg.General.LogLevel = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config:\n%v\n", err)
		os.Exit(1)
	}

	logger, closer, err := logging.New(logging.Config{
		Level:      cfg.General.LogLevel,
		Format:     cfg.General.LogFormat,
		File:       cfg.General.LogFile,
		MaxSizeMB:  cfg.General.LogMaxSizeMB,
		MaxAgeDays: cfg.General.LogMaxAgeDays,
		Service:    "sentinel",
	}, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logging: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigCh:
			logger.Info().Str("signal", sig.String()).Msg("shutting down")
			cancel()
		case <-done:
			return
		}

		select {
		case sig := <-sigCh:
			logger.Warn().Str("signal", sig.String()).Msg("second signal, forcing exit")
			os.Exit(1)
		case <-time.After(30 * time.Second):
			logger.Error().Msg("graceful shutdown timed out after 30s, forcing exit")
			os.Exit(1)
		case <-done:
		}
	}()

	err = run(ctx, cfg, logger)
	close(done)

	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("sentinel stopped")
		closer.Close()
		os.Exit(1)
	}
	logger.Info().Msg("shutdown complete")
}

// run wires the service and blocks until ctx is cancelled or a loop fails.
func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	stores, cleanup, err := createStores(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("create stores: %w", err)
	}
	defer cleanup()

	svc, err := newService(ctx, cfg, stores, logger)
	if err != nil {
		return err
	}
	defer svc.close()

	status := runloop.NewStatus()
	started := time.Now()

	srv := newHTTPServer(cfg.General.MetricsAddr, started, status, logger)
	go srv.serve()
	defer srv.shutdown()

	logger.Info().
		Str("mode", cfg.Discovery.Mode).
		Str("program", cfg.Discovery.Program).
		Str("layout", svc.layout.Version).
		Bool("memory", cfg.General.UseMemory).
		Bool("telegram", cfg.Telegram.Enabled).
		Msg("sentinel starting")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return svc.runDiscovery(gctx, status) })
	g.Go(func() error { return svc.engine.Run(gctx, status) })
	g.Go(func() error { return svc.positions.Run(gctx, status) })
	g.Go(func() error {
		heartbeat(gctx, cfg.General.HeartbeatInterval, stores, started, logger)
		return nil
	})
	return g.Wait()
}

// heartbeat logs a liveness line with watchlist and position counts.
func heartbeat(ctx context.Context, interval time.Duration, stores *sentinelStores, started time.Time, logger zerolog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		ev := logger.Info().Str("uptime", time.Since(started).Truncate(time.Second).String())
		if hot, err := stores.hot.ListHot(ctx); err == nil {
			ev = ev.Int("hot", len(hot))
		} else {
			ev = ev.AnErr("hot_err", err)
		}
		if open, err := stores.positions.ListOpen(ctx); err == nil {
			ev = ev.Int("open_positions", len(open))
		} else {
			ev = ev.AnErr("positions_err", err)
		}
		ev.Msg("heartbeat")
	}
}
