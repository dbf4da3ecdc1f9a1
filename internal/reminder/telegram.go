package reminder

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramNotifier delivers reminder messages through a Telegram bot.
type TelegramNotifier struct {
	api *tgbotapi.BotAPI
}

// NewTelegramNotifier initializes the Telegram API client.
func NewTelegramNotifier(botToken string) (*TelegramNotifier, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}
	return &TelegramNotifier{api: api}, nil
}

// Notify sends text to the given chat. The chat ID is stored as text on the
// reminder, so it is parsed here.
func (n *TelegramNotifier) Notify(_ context.Context, chatID, text string) error {
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid telegram chat id %q: %w", chatID, err)
	}
	msg := tgbotapi.NewMessage(id, text)
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}
