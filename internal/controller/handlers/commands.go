package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Freeeeeet/frontdesk/internal/controller/formatting"
	"github.com/Freeeeeet/frontdesk/internal/controller/state"
)

// Reply ответ бота: текст и, при необходимости, клавиатура
type Reply struct {
	Text     string
	Keyboard *models.InlineKeyboardMarkup
}

func text(s string) Reply {
	return Reply{Text: s}
}

const helpText = "📚 Команды стойки:\n\n" +
	"/rooms - Доска номеров\n" +
	"/due - Номера, ждущие продления\n" +
	"/ledger <id заселения> - Журнал оплат\n" +
	"/pay - Принять оплату\n" +
	"/pending - Деньги в кассе\n" +
	"/collect - Инкассация\n" +
	"/cancel - Отменить текущую операцию\n" +
	"/help - Показать эту справку"

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	name := ""
	if update.Message.From != nil {
		name = update.Message.From.FirstName
	}
	h.reply(ctx, b, update, text("👋 Привет, "+name+"!\n\nЭто бот стойки администратора.\n\n"+helpText))
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.reply(ctx, b, update, text(helpText))
}

// HandleCancel обрабатывает команду /cancel - отмена текущего диалога
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	h.reply(ctx, b, update, h.cancelDialog(update.Message.From.ID))
}

func (h *Handlers) cancelDialog(telegramID int64) Reply {
	if h.stateManager.GetState(telegramID) == state.StateNone {
		return text("❌ Нет активных операций для отмены.")
	}
	h.stateManager.ClearState(telegramID)
	return text("✅ Операция отменена.")
}

// HandleRooms обрабатывает команду /rooms
func (h *Handlers) HandleRooms(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.reply(ctx, b, update, h.roomsReply(ctx))
}

func (h *Handlers) roomsReply(ctx context.Context) Reply {
	items, err := h.frontDesk.RoomBoard(ctx)
	if err != nil {
		h.logger.Error("Failed to build room board", zap.Error(err))
		return text(ErrorMessage(err))
	}
	return text(formatting.FormatBoard(items, h.clock.Now()))
}

// HandleDue обрабатывает команду /due
func (h *Handlers) HandleDue(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.reply(ctx, b, update, h.dueReply(ctx))
}

func (h *Handlers) dueReply(ctx context.Context) Reply {
	items, err := h.frontDesk.DueRooms(ctx)
	if err != nil {
		h.logger.Error("Failed to list due rooms", zap.Error(err))
		return text(ErrorMessage(err))
	}
	return text(formatting.FormatDue(items, h.clock.Now()))
}

// HandleLedger обрабатывает команду /ledger <booking-id>
func (h *Handlers) HandleLedger(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	arg := strings.TrimSpace(strings.TrimPrefix(update.Message.Text, "/ledger"))
	h.reply(ctx, b, update, h.ledgerReply(ctx, arg))
}

func (h *Handlers) ledgerReply(ctx context.Context, arg string) Reply {
	if arg == "" {
		return text("Укажите id заселения: /ledger <id>\n\nId есть в /due и в уведомлениях.")
	}
	id, err := uuid.Parse(arg)
	if err != nil {
		return text("❌ Неверный id заселения")
	}
	view, err := h.frontDesk.BookingLedger(ctx, id)
	if err != nil {
		h.logger.Warn("Failed to load ledger", zap.String("booking_id", arg), zap.Error(err))
		return text(ErrorMessage(err))
	}
	return text(formatting.FormatLedger(view))
}

// HandlePending обрабатывает команду /pending
func (h *Handlers) HandlePending(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.reply(ctx, b, update, h.pendingReply(ctx))
}

func (h *Handlers) pendingReply(ctx context.Context) Reply {
	totals, err := h.payments.PendingCollection(ctx)
	if err != nil {
		h.logger.Error("Failed to compute pending collection", zap.Error(err))
		return text(ErrorMessage(err))
	}
	return text(formatting.FormatCollectionTotals(totals))
}

// HandleCollect обрабатывает команду /collect
func (h *Handlers) HandleCollect(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.reply(ctx, b, update, h.collectReply(ctx))
}

func (h *Handlers) collectReply(ctx context.Context) Reply {
	log, err := h.payments.Collect(ctx)
	if err != nil {
		return text(ErrorMessage(err))
	}
	return text(formatting.FormatCollection(log))
}

// HandleTextMessage обрабатывает текстовые сообщения в зависимости от состояния пользователя
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" || update.Message.From == nil {
		return
	}

	// Команды обрабатываются другими handlers
	if strings.HasPrefix(update.Message.Text, "/") {
		return
	}

	telegramID := update.Message.From.ID
	if h.stateManager.GetState(telegramID) == state.StateNone {
		h.logger.Debug("No active state, ignoring message", zap.Int64("telegram_id", telegramID))
		return
	}

	h.reply(ctx, b, update, h.payStep(ctx, telegramID, update.Message.Text))
}
