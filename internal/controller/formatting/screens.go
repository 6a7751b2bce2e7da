package formatting

import (
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/frontdesk/internal/ledger"
	"github.com/Freeeeeet/frontdesk/internal/model"
	"github.com/Freeeeeet/frontdesk/internal/service"
)

// FormatBoard доска номеров: статус, гость, срок и остаток
func FormatBoard(items []service.BoardItem, now time.Time) string {
	if len(items) == 0 {
		return "🏨 Номеров пока нет"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🏨 Доска номеров (%d %s)\n", len(items), PluralizeRooms(len(items)))
	for _, item := range items {
		sb.WriteString("\n")
		sb.WriteString(formatBoardLine(item, now))
	}
	return sb.String()
}

func formatBoardLine(item service.BoardItem, now time.Time) string {
	status := GetRoomStatusDisplay(item.Room.Status)
	line := fmt.Sprintf("%s %s: %s", status.Emoji, item.Room.Label(), status.Text)
	if item.Booking == nil {
		return line
	}

	line += fmt.Sprintf("\n   👤 %s", item.Booking.GuestName)
	if item.ValidUntil != nil {
		line += fmt.Sprintf(", до %s", FormatDateTime(*item.ValidUntil))
		if !item.Booking.IsHouse() {
			line += fmt.Sprintf(" (%s)", FormatRemaining(item.ValidUntil.Sub(now)))
		}
	}
	if mark := GetUrgencyEmoji(item.Urgency); mark != "" {
		line += " " + mark
	}
	switch {
	case item.LedgerError != "":
		line += "\n   ⚠️ Журнал не сводится"
	case item.Pending.IsPositive():
		line += "\n   💰 Долг: " + FormatMoney(item.Pending)
	}
	return line
}

// FormatDue номера, у которых сутки на исходе или истекли
func FormatDue(items []service.BoardItem, now time.Time) string {
	if len(items) == 0 {
		return "✅ Нет номеров, ждущих продления"
	}

	var sb strings.Builder
	sb.WriteString("⏰ Требуют продления или выезда:\n")
	for _, item := range items {
		sb.WriteString("\n")
		sb.WriteString(formatBoardLine(item, now))
		if item.Booking != nil {
			sb.WriteString("\n   🆔 " + item.Booking.ID.String())
		}
	}
	return sb.String()
}

// FormatExtensionDue уведомление планировщика
func FormatExtensionDue(rooms []service.DueRoom) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "⏰ Истекли оплаченные сутки: %d %s\n", len(rooms), PluralizeRooms(len(rooms)))
	for _, r := range rooms {
		fmt.Fprintf(&sb, "\n🚪 Номер %d, %s\n   срок: %s\n   🆔 %s", r.RoomNumber, r.GuestName, FormatDateTime(r.ValidUntil), r.BookingID)
	}
	sb.WriteString("\n\nПродлите проживание или оформите выезд.")
	return sb.String()
}

// FormatLedger карточка заселения с историей оплат
func FormatLedger(view *service.LedgerView) string {
	b := view.Booking
	s := view.Summary

	var sb strings.Builder
	fmt.Fprintf(&sb, "📒 Номер %d, %s\n", b.RoomNumber, b.GuestName)
	fmt.Fprintf(&sb, "📞 %s\n", b.Phone)
	fmt.Fprintf(&sb, "📅 Заселение: %s\n", FormatDateTime(b.CheckedInAt))
	if view.ValidUntil != nil {
		fmt.Fprintf(&sb, "⏳ Оплачено до: %s\n", FormatDateTime(*view.ValidUntil))
	}
	if b.IsCheckedOut && b.CheckedOutAt != nil {
		fmt.Fprintf(&sb, "🚪 Выезд: %s\n", FormatDateTime(*b.CheckedOutAt))
	}

	sb.WriteString("\nИстория:\n")
	for _, line := range view.Statement {
		fmt.Fprintf(&sb, "%s %s %s", FormatDateTime(line.Timestamp), statementLabel(line), FormatMoney(line.Amount))
		if line.Kind == ledger.LineReceipt {
			fmt.Fprintf(&sb, " (%s)", GetChannelText(line.Channel))
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "\nНачислено: %s\n", FormatMoney(s.TotalCharges))
	fmt.Fprintf(&sb, "Оплачено: %s (нал %s, безнал %s)\n", FormatMoney(s.TotalReceipts), FormatMoney(s.CashReceipts), FormatMoney(s.ElectronicReceipts))
	if s.Settled() {
		sb.WriteString("✅ Долга нет")
	} else {
		fmt.Fprintf(&sb, "💰 Долг: %s", FormatMoney(s.Pending))
	}
	return sb.String()
}

func statementLabel(line ledger.StatementLine) string {
	switch line.Kind {
	case ledger.LineRent:
		return "🏷 Аренда"
	case ledger.LineReceipt:
		return "💵 Оплата"
	case ledger.LinePurchase:
		return "🛒 " + line.Description
	}
	switch line.EntryKind {
	case model.EntryKindExtension:
		return "➕ Продление"
	case model.EntryKindExtraFee:
		return "➕ " + line.Description
	default:
		return "➕ Начисление"
	}
}

// FormatCollectionTotals деньги в кассе к инкассации
func FormatCollectionTotals(t *service.CollectionTotals) string {
	since := "с начала работы"
	if t.Since != nil {
		since = "с " + FormatDateTime(*t.Since)
	}
	return fmt.Sprintf(
		"🧾 В кассе %s:\n\n💵 Наличные: %s\n💳 Безнал: %s\n\nИтого: %s",
		since, FormatMoney(t.Cash), FormatMoney(t.Electronic), FormatMoney(t.Total),
	)
}

// FormatCollection подтверждение инкассации
func FormatCollection(log *model.CollectionLog) string {
	return fmt.Sprintf(
		"✅ Инкассация %s\n\n💵 Наличные: %s\n💳 Безнал: %s\nИтого: %s",
		FormatDateTime(log.CollectedAt), FormatMoney(log.CashAmount), FormatMoney(log.ElectronicAmount), FormatMoney(log.TotalAmount),
	)
}
