// Package runloop drives periodic cycles with an error backoff and panic recovery.
package runloop

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog"

	"solana-pool-sentinel/internal/observability"
)

// Cycle is one unit of periodic work.
type Cycle func(ctx context.Context) error

// Options configures Run.
type Options struct {
	Name         string
	Interval     time.Duration
	ErrorBackoff time.Duration

	// NextInterval, when set, replaces Interval after a successful cycle.
	NextInterval func() time.Duration

	Logger zerolog.Logger
	Status *Status // optional
}

// Run executes cycle until ctx is cancelled. A failed or panicking cycle is
// logged at error level and followed by ErrorBackoff instead of Interval.
// Run returns ctx.Err().
func Run(ctx context.Context, opts Options, cycle Cycle) error {
	log := opts.Logger.With().Str("loop", opts.Name).Logger()
	log.Info().Dur("interval", opts.Interval).Dur("error_backoff", opts.ErrorBackoff).Msg("loop started")

	for {
		if err := ctx.Err(); err != nil {
			log.Info().Msg("loop stopped")
			return err
		}

		start := time.Now()
		err := safeRun(ctx, cycle)
		elapsed := time.Since(start)

		observability.RecordCycle(opts.Name, elapsed.Seconds(), err)
		if opts.Status != nil {
			opts.Status.Record(opts.Name, start, elapsed, err)
		}

		wait := opts.Interval
		if opts.NextInterval != nil {
			wait = opts.NextInterval()
		}
		if err != nil {
			if ctx.Err() != nil {
				log.Info().Msg("loop stopped")
				return ctx.Err()
			}
			log.Error().Err(err).Dur("backoff", opts.ErrorBackoff).Msg("cycle failed")
			wait = opts.ErrorBackoff
		} else {
			log.Debug().Dur("elapsed", elapsed).Dur("next", wait).Msg("cycle done")
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Info().Msg("loop stopped")
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// safeRun converts a panic in cycle into an error.
func safeRun(ctx context.Context, cycle Cycle) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v\n%s", r, debug.Stack())
		}
	}()
	return cycle(ctx)
}
