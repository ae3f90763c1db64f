package telegram

import (
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"devotional/internal/notify"
)

type fakeSender struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.err != nil {
		return tgbotapi.Message{}, f.err
	}
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, nil
}

func TestDeliverer_Deliver(t *testing.T) {
	sender := &fakeSender{}
	d := NewDelivererWithSender(sender, 42, zap.NewNop())

	err := d.Deliver(context.Background(), notify.Registration{
		ID:      "preset-night",
		Content: notify.Content{Title: "Boa noite! 🌙", Body: "Hora de um momento de reflexão antes de dormir."},
	})
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, int64(42), sender.sent[0].ChatID)
	assert.Equal(t, "Boa noite! 🌙\n\nHora de um momento de reflexão antes de dormir.", sender.sent[0].Text)
}

func TestDeliverer_SendFailure(t *testing.T) {
	sender := &fakeSender{err: errors.New("Forbidden: bot was blocked by the user")}
	d := NewDelivererWithSender(sender, 42, zap.NewNop())

	err := d.Deliver(context.Background(), notify.Registration{ID: "x", Content: notify.Content{Body: "oi"}})
	assert.Error(t, err)
}

func TestFormatMessage(t *testing.T) {
	testCases := []struct {
		name     string
		content  notify.Content
		expected string
	}{
		{name: "title and body", content: notify.Content{Title: "T", Body: "B"}, expected: "T\n\nB"},
		{name: "body only", content: notify.Content{Body: "B"}, expected: "B"},
		{name: "title only", content: notify.Content{Title: "T"}, expected: "T"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, FormatMessage(tc.content))
		})
	}
}
