// Package notify delivers operator notifications.
package notify

import (
	"context"

	"github.com/rs/zerolog"
)

// Notifier delivers a text message. Delivery is fire-and-forget:
// implementations log failures instead of returning them and bound how long
// a delivery may hold up the caller.
type Notifier interface {
	Send(ctx context.Context, text string)
}

// Log writes notifications to the logger only.
type Log struct {
	log zerolog.Logger
}

// NewLog creates a log-only notifier.
func NewLog(log zerolog.Logger) *Log {
	return &Log{log: log}
}

// Send logs text at info level.
func (l *Log) Send(_ context.Context, text string) {
	l.log.Info().Str("text", text).Msg("notification")
}

// Multi fans a message out to several notifiers.
type Multi []Notifier

// Send delivers text to every notifier in order.
func (m Multi) Send(ctx context.Context, text string) {
	for _, n := range m {
		n.Send(ctx, text)
	}
}
