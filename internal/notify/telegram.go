package notify

import (
	"context"
	"fmt"
	"time"

	tg "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"
)

// DefaultSendTimeout bounds a single sendMessage call.
const DefaultSendTimeout = 5 * time.Second

// TelegramConfig configures the Telegram notifier.
type TelegramConfig struct {
	BotToken    string
	ChatID      string
	ServerURL   string        // empty uses the public Bot API
	SendTimeout time.Duration // zero uses DefaultSendTimeout
}

// Telegram sends notifications through the Telegram Bot API.
type Telegram struct {
	bot     *tg.Bot
	chatID  string
	timeout time.Duration
	log     zerolog.Logger
}

// NewTelegram creates a Telegram notifier. It does not call getMe.
func NewTelegram(cfg TelegramConfig, log zerolog.Logger) (*Telegram, error) {
	opts := []tg.Option{tg.WithSkipGetMe()}
	if cfg.ServerURL != "" {
		opts = append(opts, tg.WithServerURL(cfg.ServerURL))
	}

	b, err := tg.New(cfg.BotToken, opts...)
	if err != nil {
		return nil, fmt.Errorf("telegram init: %w", err)
	}

	timeout := cfg.SendTimeout
	if timeout <= 0 {
		timeout = DefaultSendTimeout
	}

	return &Telegram{bot: b, chatID: cfg.ChatID, timeout: timeout, log: log}, nil
}

// Send posts text to the configured chat as HTML. The call is bounded by the
// send timeout; errors are logged.
func (t *Telegram) Send(ctx context.Context, text string) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	_, err := t.bot.SendMessage(ctx, &tg.SendMessageParams{
		ChatID:    t.chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		t.log.Error().Err(err).Str("chat_id", t.chatID).Msg("telegram send failed")
		return
	}
	t.log.Debug().Str("chat_id", t.chatID).Msg("telegram message sent")
}
