package handlers

import (
	"go.uber.org/zap"

	"github.com/Freeeeeet/frontdesk/internal/clock"
	"github.com/Freeeeeet/frontdesk/internal/controller/state"
	"github.com/Freeeeeet/frontdesk/internal/service"
)

// Handlers содержит все зависимости для обработки команд персонала
type Handlers struct {
	frontDesk    *service.FrontDeskService
	payments     *service.PaymentService
	stateManager *state.Manager
	staff        map[int64]struct{}
	clock        clock.Clock
	logger       *zap.Logger
}

func NewHandlers(
	frontDesk *service.FrontDeskService,
	payments *service.PaymentService,
	stateManager *state.Manager,
	staffChatIDs []int64,
	clk clock.Clock,
	logger *zap.Logger,
) *Handlers {
	staff := make(map[int64]struct{}, len(staffChatIDs))
	for _, id := range staffChatIDs {
		staff[id] = struct{}{}
	}
	return &Handlers{
		frontDesk:    frontDesk,
		payments:     payments,
		stateManager: stateManager,
		staff:        staff,
		clock:        clk,
		logger:       logger,
	}
}

// IsStaff true для чатов из STAFF_CHAT_IDS
func (h *Handlers) IsStaff(chatID int64) bool {
	_, ok := h.staff[chatID]
	return ok
}
