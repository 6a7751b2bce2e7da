package ledger

import (
	"time"

	"github.com/Freeeeeet/frontdesk/internal/model"
)

const (
	// StayWindow оплаченные сутки от последнего заселения или продления
	StayWindow = 24 * time.Hour
	// WarningWindow за сколько до конца суток номер подсвечивается
	WarningWindow = 6 * time.Hour
)

type Urgency string

const (
	UrgencyNormal  Urgency = "normal"
	UrgencyWarning Urgency = "warning"
	UrgencyOverdue Urgency = "overdue"
)

// ReferenceInstant момент, от которого отсчитываются сутки:
// последнее продление, иначе заселение
func ReferenceInstant(b *model.Booking) time.Time {
	if b.LastExtensionAt != nil && !b.LastExtensionAt.IsZero() {
		return *b.LastExtensionAt
	}
	return b.CheckedInAt
}

// ValidUntil до какого момента оплачено проживание
func ValidUntil(b *model.Booking) time.Time {
	return ReferenceInstant(b).Add(StayWindow)
}

// NextExtensionInstant отметка следующего продления: опорный момент плюс
// один календарный день. Окно не накапливается, каждое продление сдвигает опору
// ровно на день, сохраняя время заселения
func NextExtensionInstant(b *model.Booking) time.Time {
	return ReferenceInstant(b).AddDate(0, 0, 1)
}

// UrgencyAt срочность для срока validUntil в момент now
func UrgencyAt(validUntil, now time.Time) Urgency {
	switch {
	case now.After(validUntil):
		return UrgencyOverdue
	case validUntil.Sub(now) < WarningWindow:
		return UrgencyWarning
	default:
		return UrgencyNormal
	}
}

// IsDue true когда оплаченные сутки закончились (now >= validUntil)
func IsDue(b *model.Booking, now time.Time) bool {
	return !now.Before(ValidUntil(b))
}
