package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// StaffOnly пропускает только обновления из чатов персонала
func (h *Handlers) StaffOnly(next bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		chatID, ok := chatOf(update)
		if !ok {
			return
		}
		if !h.IsStaff(chatID) {
			h.logger.Warn("Update from unknown chat ignored", zap.Int64("chat_id", chatID))
			if update.Message != nil {
				h.sendMessage(ctx, b, chatID, "⛔️ Бот доступен только персоналу отеля.", nil)
			}
			return
		}
		next(ctx, b, update)
	}
}

func chatOf(update *models.Update) (int64, bool) {
	switch {
	case update.Message != nil:
		return update.Message.Chat.ID, true
	case update.CallbackQuery != nil && update.CallbackQuery.Message.Message != nil:
		return update.CallbackQuery.Message.Message.Chat.ID, true
	default:
		return 0, false
	}
}

// sendMessage отправляет сообщение и логирует если не удалось
func (h *Handlers) sendMessage(ctx context.Context, b *bot.Bot, chatID int64, text string, keyboard *models.InlineKeyboardMarkup) {
	params := &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}
	if keyboard != nil {
		params.ReplyMarkup = keyboard
	}
	if _, err := b.SendMessage(ctx, params); err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

// reply отправляет ответ на сообщение
func (h *Handlers) reply(ctx context.Context, b *bot.Bot, update *models.Update, r Reply) {
	h.sendMessage(ctx, b, update.Message.Chat.ID, r.Text, r.Keyboard)
}

// answerCallback отвечает на callback query (без alert)
func answerCallback(ctx context.Context, b *bot.Bot, callbackID, text string) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
	})
}
