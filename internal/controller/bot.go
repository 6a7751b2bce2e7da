package controller

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/Freeeeeet/frontdesk/internal/controller/handlers"
)

type BotController struct {
	bot      *bot.Bot
	handlers *handlers.Handlers
	staff    []int64
	logger   *zap.Logger
}

// NewBotController создаёт бота. Сообщения вне команд уходят в диалог /pay
func NewBotController(token string, h *handlers.Handlers, staffChatIDs []int64, logger *zap.Logger) (*BotController, error) {
	b, err := bot.New(token, bot.WithDefaultHandler(h.StaffOnly(h.HandleTextMessage)))
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	return &BotController{
		bot:      b,
		handlers: h,
		staff:    staffChatIDs,
		logger:   logger,
	}, nil
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	h := c.handlers
	commands := map[string]bot.HandlerFunc{
		"/start":   h.HandleStart,
		"/help":    h.HandleHelp,
		"/cancel":  h.HandleCancel,
		"/rooms":   h.HandleRooms,
		"/due":     h.HandleDue,
		"/pay":     h.HandlePay,
		"/pending": h.HandlePending,
		"/collect": h.HandleCollect,
	}
	for cmd, handler := range commands {
		c.bot.RegisterHandler(bot.HandlerTypeMessageText, cmd, bot.MatchTypeExact, h.StaffOnly(handler))
	}
	// /ledger принимает id заселения аргументом
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/ledger", bot.MatchTypePrefix, h.StaffOnly(h.HandleLedger))

	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, handlers.PayChannelPrefix, bot.MatchTypePrefix, h.StaffOnly(h.HandleCallbackQuery))

	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "rooms", Description: "🏨 Доска номеров"},
		{Command: "due", Description: "⏰ Ждут продления"},
		{Command: "ledger", Description: "📒 Журнал оплат заселения"},
		{Command: "pay", Description: "💵 Принять оплату"},
		{Command: "pending", Description: "🧾 Деньги в кассе"},
		{Command: "collect", Description: "✅ Инкассация"},
		{Command: "cancel", Description: "❌ Отменить операцию"},
		{Command: "help", Description: "❓ Справка по командам"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Notifier уведомления персоналу через этого бота
func (c *BotController) Notifier() *Notifier {
	return NewNotifier(c.bot, c.staff, c.logger)
}

// Start запускает long polling и блокируется до отмены ctx
func (c *BotController) Start(ctx context.Context) {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
}
