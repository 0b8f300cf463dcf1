package discovery

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"solana-pool-sentinel/internal/domain"
	"solana-pool-sentinel/internal/observability"
	"solana-pool-sentinel/internal/solana"
)

// ErrSubscriptionClosed is returned when the log stream ends before ctx is done.
var ErrSubscriptionClosed = errors.New("log subscription closed")

// LogSubscriber streams log notifications.
type LogSubscriber interface {
	SubscribeLogs(ctx context.Context, filter solana.LogsFilter) (<-chan solana.LogNotification, error)
}

// Subscriber is the push-mode discovery source. Notifications carry logs,
// so no transaction fetch is needed.
type Subscriber struct {
	ws        LogSubscriber
	extractor Extractor
	handler   Handler
	program   string
	marker    string
	log       zerolog.Logger
}

// NewSubscriber creates a push-mode discovery source.
func NewSubscriber(ws LogSubscriber, extractor Extractor, handler Handler, program, marker string, log zerolog.Logger) *Subscriber {
	if program == "" {
		program = domain.RaydiumAMMV4
	}
	if marker == "" {
		marker = DefaultMarker
	}
	return &Subscriber{
		ws:        ws,
		extractor: extractor,
		handler:   handler,
		program:   program,
		marker:    marker,
		log:       log,
	}
}

// Run subscribes and handles notifications until ctx is cancelled or the
// stream closes.
func (s *Subscriber) Run(ctx context.Context) error {
	ch, err := s.ws.SubscribeLogs(ctx, solana.LogsFilter{Mentions: []string{s.program}})
	if err != nil {
		return err
	}
	s.log.Info().Str("program", s.program).Msg("subscribed to program logs")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case notif, ok := <-ch:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return ErrSubscriptionClosed
			}
			s.handle(ctx, notif)
		}
	}
}

func (s *Subscriber) handle(ctx context.Context, notif solana.LogNotification) {
	observability.RecordSignatureScanned()

	if notif.Failed() || !IsPoolInit(notif.Logs, s.marker) {
		return
	}
	observability.RecordPoolDetected()

	pool, ok := s.extractor.Extract(notif.Logs)
	if !ok {
		observability.RecordExtractionFailure()
		s.log.Debug().Str("signature", notif.Signature).Msg("pool init without extractable keys")
		return
	}

	s.log.Info().
		Str("signature", notif.Signature).
		Int64("slot", notif.Slot).
		Str("lp_mint", pool.LPMint).
		Msg("pool detected")

	s.handler.HandlePool(ctx, domain.PoolEvent{Signature: notif.Signature, Logs: notif.Logs, Program: s.program}, pool)
}
