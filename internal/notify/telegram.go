package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
)

// TelegramSink pushes events to a Telegram chat so the operator sees send
// failures and mailbox changes without watching the app. Outbound only: the
// bot registers no handlers and never polls for updates.
type TelegramSink struct {
	bot    *bot.Bot
	chatID int64
	logger *slog.Logger
}

// NewTelegramSink creates a sink for the given bot token and chat.
func NewTelegramSink(token string, chatID int64, logger *slog.Logger) (*TelegramSink, error) {
	b, err := bot.New(token, bot.WithSkipGetMe())
	if err != nil {
		return nil, err
	}

	return &TelegramSink{
		bot:    b,
		chatID: chatID,
		logger: logger.With("component", "telegram_sink"),
	}, nil
}

func (s *TelegramSink) Publish(ctx context.Context, ev Event) {
	// Separate timeout so a slow Telegram API cannot stall the workflow
	apiCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	text := ev.Message
	if ev.Kind == KindError {
		text = "⚠️ " + text
	}

	_, err := s.bot.SendMessage(apiCtx, &bot.SendMessageParams{
		ChatID: s.chatID,
		Text:   text,
	})
	if err != nil {
		s.logger.Warn("failed to deliver notification", "error", err)
	}
}
