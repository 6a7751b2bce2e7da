package controller

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/Freeeeeet/frontdesk/internal/controller/formatting"
	"github.com/Freeeeeet/frontdesk/internal/service"
)

// Sender отправка сообщений, *bot.Bot подходит
type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// Notifier рассылает уведомления во все чаты персонала
type Notifier struct {
	sender  Sender
	chatIDs []int64
	logger  *zap.Logger
}

func NewNotifier(sender Sender, chatIDs []int64, logger *zap.Logger) *Notifier {
	return &Notifier{sender: sender, chatIDs: chatIDs, logger: logger}
}

// NotifyExtensionDue одно сообщение на чат со всеми номерами прохода
func (n *Notifier) NotifyExtensionDue(ctx context.Context, rooms []service.DueRoom) {
	if len(rooms) == 0 {
		return
	}
	text := formatting.FormatExtensionDue(rooms)

	for _, chatID := range n.chatIDs {
		_, err := n.sender.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   text,
		})
		if err != nil {
			n.logger.Error("Failed to send extension due notification",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
		}
	}
}
