// Package telegram delivers fired notifications as Telegram messages.
package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"devotional/internal/notify"
)

// Sender is the part of the bot API used for delivery
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Deliverer sends notifications to one chat
type Deliverer struct {
	api    Sender
	chatID int64
	logger *zap.Logger
}

// NewDeliverer creates a deliverer using a bot token
func NewDeliverer(token string, chatID int64, logger *zap.Logger) (*Deliverer, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		logger.Error("Failed to create bot API", zap.Error(err))
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	logger.Info("Telegram delivery ready",
		zap.String("bot_username", api.Self.UserName),
		zap.Int64("chat_id", chatID),
	)
	return NewDelivererWithSender(api, chatID, logger), nil
}

// NewDelivererWithSender creates a deliverer over an existing sender
func NewDelivererWithSender(api Sender, chatID int64, logger *zap.Logger) *Deliverer {
	return &Deliverer{api: api, chatID: chatID, logger: logger}
}

// Deliver sends the notification as a message
func (d *Deliverer) Deliver(ctx context.Context, reg notify.Registration) error {
	msg := tgbotapi.NewMessage(d.chatID, FormatMessage(reg.Content))
	if _, err := d.api.Send(msg); err != nil {
		d.logger.Error("Failed to send notification",
			zap.Error(err),
			zap.Int64("chat_id", d.chatID),
			zap.String("id", reg.ID),
		)
		return fmt.Errorf("failed to send notification %s: %w", reg.ID, err)
	}
	return nil
}

// FormatMessage renders notification content as message text
func FormatMessage(c notify.Content) string {
	switch {
	case c.Title == "":
		return c.Body
	case c.Body == "":
		return c.Title
	}
	return c.Title + "\n\n" + c.Body
}
