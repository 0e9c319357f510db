package bot

import (
	"context"
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"

	"food-console/config"
	"food-console/models"
	"food-console/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram rejects longer message texts.
const maxMessageRunes = 4096

// Notifier sends saved orders to the admin chat.
type Notifier struct {
	api         *tgbotapi.BotAPI
	adminChatID int64
}

func New(cfg config.TelegramConfig) (*Notifier, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("TOKEN not set")
	}
	if cfg.AdminChatID == 0 {
		return nil, fmt.Errorf("ADMIN_ID not set")
	}
	return newNotifier(cfg.Token, tgbotapi.APIEndpoint, cfg.AdminChatID)
}

func newNotifier(token, endpoint string, adminChatID int64) (*Notifier, error) {
	api, err := tgbotapi.NewBotAPIWithClient(token, endpoint, &http.Client{Timeout: 10 * time.Second})
	if err != nil {
		return nil, err
	}
	return &Notifier{api: api, adminChatID: adminChatID}, nil
}

// OrderMessage is the admin-facing text for a saved order.
func OrderMessage(rec models.SavedOrder) string {
	text := "New order saved\n\n" + services.FormatSaveEntry(rec)
	if rec.IsDelivery && rec.Address != "" {
		text += "Deliver to: " + rec.Address + "\n"
	}
	if utf8.RuneCountInString(text) > maxMessageRunes {
		r := []rune(text)
		text = string(r[:maxMessageRunes-1]) + "…"
	}
	return text
}

// NotifyOrderSaved posts rec to the admin chat. A nil Notifier does nothing.
func (n *Notifier) NotifyOrderSaved(ctx context.Context, rec models.SavedOrder) error {
	if n == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(n.adminChatID, OrderMessage(rec))
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}
