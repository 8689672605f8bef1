package telegram

import (
	"context"
	"fmt"
	"log/slog"

	"dirwatch/src/features/config"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier delivers firing messages to a Telegram chat. It backs the
// telegram action kind.
type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewNotifier creates a Notifier from the telegram configuration.
func NewNotifier(cfg *config.Manager) (*Notifier, error) {
	telegramConfig := cfg.Get().Telegram

	if !telegramConfig.Enabled {
		return nil, fmt.Errorf("telegram notifier is disabled in configuration")
	}
	if telegramConfig.Token == "" {
		return nil, fmt.Errorf("telegram bot token is not configured")
	}
	if telegramConfig.ChatID == 0 {
		return nil, fmt.Errorf("telegram chat id is not configured")
	}

	bot, err := tgbotapi.NewBotAPI(telegramConfig.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	slog.Info("Telegram notifier initialized", "username", bot.Self.UserName)
	return &Notifier{bot: bot, chatID: telegramConfig.ChatID}, nil
}

// Notify sends one message to the configured chat.
func (n *Notifier) Notify(ctx context.Context, message string) error {
	msg := tgbotapi.NewMessage(n.chatID, message)
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}
