package formatting

import (
	"github.com/Freeeeeet/frontdesk/internal/ledger"
	"github.com/Freeeeeet/frontdesk/internal/model"
)

// StatusDisplay emoji и текст для статуса
type StatusDisplay struct {
	Emoji string
	Text  string
}

// GetRoomStatusDisplay возвращает emoji и текст для статуса номера
func GetRoomStatusDisplay(status model.RoomStatus) StatusDisplay {
	displays := map[model.RoomStatus]StatusDisplay{
		model.RoomStatusAvailable:    {"🟢", "Свободен"},
		model.RoomStatusOccupied:     {"🔴", "Занят"},
		model.RoomStatusCleaning:     {"🧹", "Уборка"},
		model.RoomStatusMaintenance:  {"🛠", "Ремонт"},
		model.RoomStatusExtensionDue: {"⏰", "Ждёт продления"},
	}

	if display, ok := displays[status]; ok {
		return display
	}

	return StatusDisplay{"❓", "Неизвестно"}
}

// GetUrgencyEmoji отметка срочности на доске, для обычных сроков пусто
func GetUrgencyEmoji(u ledger.Urgency) string {
	switch u {
	case ledger.UrgencyWarning:
		return "🟡"
	case ledger.UrgencyOverdue:
		return "🔥"
	default:
		return ""
	}
}

// GetChannelText название канала оплаты
func GetChannelText(ch model.PaymentChannel) string {
	switch ch {
	case model.PaymentChannelCash:
		return "наличные"
	case model.PaymentChannelElectronic:
		return "безнал"
	default:
		return "не указан"
	}
}
