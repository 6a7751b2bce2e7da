package handlers

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Freeeeeet/frontdesk/internal/controller/formatting"
	"github.com/Freeeeeet/frontdesk/internal/controller/keyboard"
	"github.com/Freeeeeet/frontdesk/internal/controller/state"
	"github.com/Freeeeeet/frontdesk/internal/model"
)

// PayChannelPrefix callback выбора канала оплаты: pay_channel:cash
const PayChannelPrefix = "pay_channel:"

// HandlePay обрабатывает команду /pay
func (h *Handlers) HandlePay(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	h.reply(ctx, b, update, h.startPay(update.Message.From.ID))
}

func (h *Handlers) startPay(telegramID int64) Reply {
	h.stateManager.Start(telegramID, state.StatePayBookingID)
	return text("💵 Приём оплаты\n\nВведите id заселения (см. /due или /ledger).\n\n/cancel - отменить")
}

// payStep следующий шаг диалога по введённому тексту
func (h *Handlers) payStep(ctx context.Context, telegramID int64, input string) Reply {
	input = strings.TrimSpace(input)

	switch h.stateManager.GetState(telegramID) {
	case state.StatePayBookingID:
		id, err := uuid.Parse(input)
		if err != nil {
			return text("❌ Неверный id заселения. Попробуйте ещё раз или /cancel")
		}
		view, err := h.frontDesk.BookingLedger(ctx, id)
		if err != nil {
			return text(ErrorMessage(err))
		}
		if view.Booking.IsCheckedOut {
			h.stateManager.ClearState(telegramID)
			return text("❌ Гость уже выехал")
		}
		h.stateManager.SetData(telegramID, state.KeyBookingID, id)
		h.stateManager.SetState(telegramID, state.StatePayAmount)
		return text("Номер " + strconv.Itoa(view.Booking.RoomNumber) + ", " + view.Booking.GuestName +
			"\nДолг: " + formatting.FormatMoney(view.Summary.Pending) + "\n\nВведите сумму оплаты:")

	case state.StatePayAmount:
		amount, err := decimal.NewFromString(strings.ReplaceAll(input, ",", "."))
		if err != nil || !amount.IsPositive() {
			return text("❌ Сумма должна быть положительным числом. Попробуйте ещё раз или /cancel")
		}
		h.stateManager.SetData(telegramID, state.KeyAmount, amount.Round(2))
		h.stateManager.SetState(telegramID, state.StatePayChannel)
		kb := keyboard.NewBuilder().
			Row(
				keyboard.Button("💵 Наличные", PayChannelPrefix+string(model.PaymentChannelCash)),
				keyboard.Button("💳 Безнал", PayChannelPrefix+string(model.PaymentChannelElectronic)),
			).
			Build()
		return Reply{Text: "Сумма " + formatting.FormatMoney(amount) + ". Выберите способ оплаты:", Keyboard: kb}

	case state.StatePayChannel:
		return text("Выберите способ оплаты кнопкой выше или /cancel")

	default:
		return text(helpText)
	}
}

// payChannel завершает диалог: проводит оплату выбранным каналом
func (h *Handlers) payChannel(ctx context.Context, telegramID int64, channel model.PaymentChannel) Reply {
	if h.stateManager.GetState(telegramID) != state.StatePayChannel {
		return text("❌ Нет активного приёма оплаты. Начните заново: /pay")
	}
	rawID, ok1 := h.stateManager.GetData(telegramID, state.KeyBookingID)
	rawAmount, ok2 := h.stateManager.GetData(telegramID, state.KeyAmount)
	h.stateManager.ClearState(telegramID)

	bookingID, ok3 := rawID.(uuid.UUID)
	amount, ok4 := rawAmount.(decimal.Decimal)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		h.logger.Error("Missing data for payment dialog", zap.Int64("telegram_id", telegramID))
		return text("❌ Ошибка: данные не найдены. Начните заново: /pay")
	}

	if _, err := h.frontDesk.AddReceipt(ctx, bookingID, amount, channel); err != nil {
		return text(ErrorMessage(err))
	}
	view, err := h.frontDesk.BookingLedger(ctx, bookingID)
	if err != nil {
		return text("✅ Оплата " + formatting.FormatMoney(amount) + " принята")
	}
	return text("✅ Оплата " + formatting.FormatMoney(amount) + " (" + formatting.GetChannelText(channel) + ") принята\n" +
		"Остаток: " + formatting.FormatMoney(view.Summary.Pending))
}

// HandleCallbackQuery обрабатывает нажатия на inline кнопки
func (h *Handlers) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	callback := update.CallbackQuery
	if callback == nil || callback.Message.Message == nil {
		return
	}

	if !strings.HasPrefix(callback.Data, PayChannelPrefix) {
		h.logger.Warn("Unknown callback", zap.String("data", callback.Data))
		answerCallback(ctx, b, callback.ID, "")
		return
	}

	channel := model.PaymentChannel(strings.TrimPrefix(callback.Data, PayChannelPrefix))
	r := h.payChannel(ctx, callback.From.ID, channel)
	answerCallback(ctx, b, callback.ID, "")
	h.sendMessage(ctx, b, callback.Message.Message.Chat.ID, r.Text, r.Keyboard)
}
