package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Freeeeeet/frontdesk/internal/apperr"
	"github.com/Freeeeeet/frontdesk/internal/clock"
	"github.com/Freeeeeet/frontdesk/internal/events"
	"github.com/Freeeeeet/frontdesk/internal/ledger"
	"github.com/Freeeeeet/frontdesk/internal/model"
	"github.com/Freeeeeet/frontdesk/internal/store"
)

// DueRoom номер, у которого только что закончились оплаченные сутки
type DueRoom struct {
	RoomID     uuid.UUID `json:"room_id"`
	RoomNumber int       `json:"room_number"`
	BookingID  uuid.UUID `json:"booking_id"`
	GuestName  string    `json:"guest_name"`
	ValidUntil time.Time `json:"valid_until"`
}

// ExpiryService фоновая проверка истёкших суток
type ExpiryService struct {
	store store.Store
	clock clock.Clock
	notifier
}

func NewExpiryService(st store.Store, clk clock.Clock, events Publisher, cache Cache, logger *zap.Logger) *ExpiryService {
	return &ExpiryService{
		store:    st,
		clock:    clk,
		notifier: newNotifier(events, cache, logger),
	}
}

// MarkExtensionDue переводит занятые номера с истёкшими сутками в extension-due.
// Журнал не трогает. Дома пропускаются. Возвращает только номера, переведённые в этот раз
func (s *ExpiryService) MarkExtensionDue(ctx context.Context) ([]DueRoom, error) {
	active, err := s.store.ListActiveBookings(ctx, nil)
	if err != nil {
		return nil, apperr.Store("list active bookings", err)
	}

	now := s.clock.Now()
	var (
		due  []DueRoom
		errs []error
	)
	for _, b := range active {
		if b.IsHouse() || !ledger.IsDue(b, now) {
			continue
		}

		ok, err := s.markDue(ctx, b.ID)
		if err != nil {
			s.logger.Error("Failed to mark room extension due", idField("room_id", b.RoomID), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		if !ok {
			continue
		}

		d := DueRoom{
			RoomID:     b.RoomID,
			RoomNumber: b.RoomNumber,
			BookingID:  b.ID,
			GuestName:  b.GuestName,
			ValidUntil: ledger.ValidUntil(b),
		}
		due = append(due, d)
		s.publish(ctx, events.RoomExtensionDue, d)
	}

	if len(due) > 0 {
		s.logger.Info("Rooms marked extension due", zap.Int("count", len(due)))
		s.invalidateBoard(ctx)
	}

	return due, errors.Join(errs...)
}

// markDue перечитывает заселение в транзакции: продление или выезд могли пройти
// после выборки. Переход статуса условный, occupied -> extension-due
func (s *ExpiryService) markDue(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	var marked bool
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx store.Store) error {
		b, err := tx.GetBooking(ctx, bookingID)
		if err != nil {
			return apperr.Store("get booking", err)
		}
		if b == nil || b.IsCheckedOut || !ledger.IsDue(b, s.clock.Now()) {
			return nil
		}

		marked, err = tx.TransitionRoomStatus(ctx, b.RoomID, model.RoomStatusExtensionDue, model.RoomStatusOccupied)
		return apperr.Store("mark extension due", err)
	})
	return marked, err
}
