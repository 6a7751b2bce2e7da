package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Freeeeeet/frontdesk/internal/apperr"
	"github.com/Freeeeeet/frontdesk/internal/clock"
	"github.com/Freeeeeet/frontdesk/internal/events"
	"github.com/Freeeeeet/frontdesk/internal/ledger"
	"github.com/Freeeeeet/frontdesk/internal/model"
	"github.com/Freeeeeet/frontdesk/internal/store"
)

// AdvanceBookingService предварительные брони: создание, заселение по брони, отмена с возвратом
type AdvanceBookingService struct {
	store     store.Store
	clock     clock.Clock
	frontDesk *FrontDeskService
	notifier
}

func NewAdvanceBookingService(
	st store.Store,
	clk clock.Clock,
	frontDesk *FrontDeskService,
	events Publisher,
	cache Cache,
	logger *zap.Logger,
) *AdvanceBookingService {
	return &AdvanceBookingService{
		store:     st,
		clock:     clk,
		frontDesk: frontDesk,
		notifier:  newNotifier(events, cache, logger),
	}
}

// Create регистрирует предварительную бронь в статусе pending
func (s *AdvanceBookingService) Create(ctx context.Context, a *model.AdvanceBooking) (*model.AdvanceBooking, error) {
	a.GuestName = strings.TrimSpace(a.GuestName)
	a.Phone = strings.TrimSpace(a.Phone)

	switch {
	case a.GuestName == "":
		return nil, apperr.Invalid("guest_name", "is required")
	case a.Phone == "":
		return nil, apperr.Invalid("phone", "is required")
	case a.DateOfBooking.IsZero():
		return nil, apperr.Invalid("date_of_booking", "is required")
	case !a.RoomType.Valid():
		return nil, apperr.Invalid("room_type", "must be ac, non-ac or house")
	case a.NumberOfRooms < 1:
		return nil, apperr.Invalid("number_of_rooms", "must be at least 1")
	}
	if err := requirePositive("price_per_room", a.PricePerRoom); err != nil {
		return nil, err
	}
	if err := requireNonNegative("advance_amount", a.AdvanceAmount); err != nil {
		return nil, err
	}
	if a.AdvanceAmount.GreaterThan(a.TotalPrice()) {
		return nil, apperr.Invalid("advance_amount", "exceeds total price")
	}
	if err := requireMoneyChannel("payment_channel", a.PaymentChannel); err != nil {
		return nil, err
	}

	a.ID = uuid.New()
	a.Status = model.AdvanceBookingStatusPending
	a.Rooms = []model.AssignedRoom{}
	a.RefundAmount = decimal.Zero
	a.RefundChannel = ""
	a.CreatedAt = s.clock.Now()
	a.CompletedAt, a.CancelledAt = nil, nil

	if err := s.store.CreateAdvanceBooking(ctx, a); err != nil {
		return nil, apperr.Store("create advance booking", err)
	}

	s.logger.Info("Advance booking created",
		idField("advance_booking_id", a.ID),
		zap.String("room_type", string(a.RoomType)),
		zap.Int("rooms", a.NumberOfRooms),
		zap.String("advance", money(a.AdvanceAmount)),
	)

	return a, nil
}

// Get бронь по ID
func (s *AdvanceBookingService) Get(ctx context.Context, id uuid.UUID) (*model.AdvanceBooking, error) {
	a, err := s.store.GetAdvanceBooking(ctx, id)
	if err != nil {
		return nil, apperr.Store("get advance booking", err)
	}
	if a == nil {
		return nil, apperr.NotFound("advance booking", id.String())
	}
	return a, nil
}

// List брони с указанными статусами. Ожидающие идут по дате заезда,
// история (только завершённые и отменённые) от новых к старым
func (s *AdvanceBookingService) List(ctx context.Context, statuses ...model.AdvanceBookingStatus) ([]*model.AdvanceBooking, error) {
	list, err := s.store.ListAdvanceBookings(ctx, statuses...)
	if err != nil {
		return nil, apperr.Store("list advance bookings", err)
	}

	history := len(statuses) > 0
	for _, st := range statuses {
		if st == model.AdvanceBookingStatusPending {
			history = false
		}
	}
	if history {
		sort.SliceStable(list, func(i, j int) bool {
			return closedAt(list[i]).After(closedAt(list[j]))
		})
	}

	return list, nil
}

func closedAt(a *model.AdvanceBooking) time.Time {
	switch {
	case a.CompletedAt != nil:
		return *a.CompletedAt
	case a.CancelledAt != nil:
		return *a.CancelledAt
	}
	return a.CreatedAt
}

// AvailableRooms свободные номера нужного типа для заселения по брони
func (s *AdvanceBookingService) AvailableRooms(ctx context.Context, id uuid.UUID) ([]*model.Room, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	rooms, err := s.store.ListRooms(ctx, store.RoomFilter{Type: a.RoomType, Status: model.RoomStatusAvailable})
	if err != nil {
		return nil, apperr.Store("list rooms", err)
	}
	active, err := s.store.ListActiveBookings(ctx, nil)
	if err != nil {
		return nil, apperr.Store("list active bookings", err)
	}
	busy := make(map[uuid.UUID]bool, len(active))
	for _, b := range active {
		busy[b.RoomID] = true
	}

	free := make([]*model.Room, 0, len(rooms))
	for _, r := range rooms {
		if !busy[r.ID] {
			free = append(free, r)
		}
	}
	return free, nil
}

// Complete заселяет гостя по брони сразу во все выбранные номера.
// Аванс делится поровну между номерами, всё выполняется одной транзакцией
func (s *AdvanceBookingService) Complete(ctx context.Context, id uuid.UUID, roomIDs []uuid.UUID) (_ *model.AdvanceBooking, err error) {
	ctx, span := tracer.Start(ctx, "AdvanceBooking.Complete", trace.WithAttributes(attribute.String("advance_booking_id", id.String())))
	defer func() { finishSpan(span, err) }()

	seen := make(map[uuid.UUID]bool, len(roomIDs))
	for _, rid := range roomIDs {
		if seen[rid] {
			return nil, apperr.Invalid("room_ids", "room "+rid.String()+" is selected twice")
		}
		seen[rid] = true
	}

	var result *model.AdvanceBooking
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx store.Store) error {
		a, err := tx.GetAdvanceBooking(ctx, id)
		if err != nil {
			return apperr.Store("get advance booking", err)
		}
		if a == nil {
			return apperr.NotFound("advance booking", id.String())
		}
		if a.Status != model.AdvanceBookingStatusPending {
			return &apperr.PreconditionError{Op: "complete advance booking", Reason: "advance booking is " + string(a.Status)}
		}
		if len(roomIDs) != a.NumberOfRooms {
			return apperr.Invalid("room_ids", fmt.Sprintf("expected %d rooms, got %d", a.NumberOfRooms, len(roomIDs)))
		}

		// все номера проверяются до первой записи
		for _, rid := range roomIDs {
			room, err := tx.GetRoom(ctx, rid)
			if err != nil {
				return apperr.Store("get room", err)
			}
			if room == nil {
				return apperr.NotFound("room", rid.String())
			}
			if room.Type != a.RoomType {
				return apperr.Invalid("room_ids", fmt.Sprintf("%s is %s, booking needs %s", room.Label(), room.Type, a.RoomType))
			}
			if room.Status != model.RoomStatusAvailable {
				return &apperr.PreconditionError{Op: "complete advance booking", RoomID: rid.String(), Reason: fmt.Sprintf("%s is %s", room.Label(), room.Status)}
			}
		}

		guest := model.GuestInfo{
			Name:           a.GuestName,
			Phone:          a.Phone,
			IDNumber:       a.IDNumber,
			NumberOfGuests: 1,
		}
		parts := ledger.SplitEven(a.AdvanceAmount, len(roomIDs))
		assigned := make([]model.AssignedRoom, 0, len(roomIDs))
		for i, rid := range roomIDs {
			b, err := s.frontDesk.checkInTx(ctx, tx, rid, guest, a.PricePerRoom, parts[i], a.PaymentChannel, &a.ID)
			if err != nil {
				return err
			}
			assigned = append(assigned, model.AssignedRoom{RoomID: rid, RoomNumber: b.RoomNumber, BookingID: b.ID})
		}

		now := s.clock.Now()
		ok, err := tx.CompleteAdvanceBooking(ctx, id, assigned, now)
		if err != nil {
			return apperr.Store("complete advance booking", err)
		}
		if !ok {
			return &apperr.PreconditionError{Op: "complete advance booking", Reason: "advance booking is no longer pending"}
		}

		a.Status = model.AdvanceBookingStatusCompleted
		a.Rooms = assigned
		a.CompletedAt = &now
		result = a
		return nil
	})
	if err != nil {
		s.frontDesk.logRejected("complete advance booking", err, idField("advance_booking_id", id))
		return nil, err
	}

	s.logger.Info("Advance booking completed",
		idField("advance_booking_id", id),
		zap.Int("rooms", len(result.Rooms)),
		zap.String("advance", money(result.AdvanceAmount)),
	)
	s.publish(ctx, events.AdvanceBookingCompleted, result)
	s.invalidateBoard(ctx)

	return result, nil
}

// Cancel отменяет бронь. Возврат больше нуля уходит в общий журнал платежей со знаком минус
func (s *AdvanceBookingService) Cancel(ctx context.Context, id uuid.UUID, refund decimal.Decimal, channel model.PaymentChannel) (_ *model.AdvanceBooking, err error) {
	ctx, span := tracer.Start(ctx, "AdvanceBooking.Cancel", trace.WithAttributes(attribute.String("advance_booking_id", id.String())))
	defer func() { finishSpan(span, err) }()

	if err := requireNonNegative("refund_amount", refund); err != nil {
		return nil, err
	}
	if refund.IsPositive() {
		if err := requireMoneyChannel("refund_channel", channel); err != nil {
			return nil, err
		}
	} else {
		channel = ""
	}

	var result *model.AdvanceBooking
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx store.Store) error {
		a, err := tx.GetAdvanceBooking(ctx, id)
		if err != nil {
			return apperr.Store("get advance booking", err)
		}
		if a == nil {
			return apperr.NotFound("advance booking", id.String())
		}
		if a.Status != model.AdvanceBookingStatusPending {
			return &apperr.PreconditionError{Op: "cancel advance booking", Reason: "advance booking is " + string(a.Status)}
		}
		if refund.GreaterThan(a.AdvanceAmount) {
			return apperr.Invalid("refund_amount", "exceeds advance amount "+money(a.AdvanceAmount))
		}

		now := s.clock.Now()
		ok, err := tx.CancelAdvanceBooking(ctx, id, refund, channel, now)
		if err != nil {
			return apperr.Store("cancel advance booking", err)
		}
		if !ok {
			return &apperr.PreconditionError{Op: "cancel advance booking", Reason: "advance booking is no longer pending"}
		}

		if refund.IsPositive() {
			rec := &model.PaymentRecord{
				Kind:         model.PaymentRecordRefund,
				Amount:       refund.Neg(),
				Channel:      channel,
				CustomerName: a.GuestName,
				Reference:    "Cancelled Booking",
				Note:         "advance booking " + id.String(),
				Timestamp:    now,
			}
			if err := tx.AppendPaymentRecord(ctx, rec); err != nil {
				return apperr.Store("append refund", err)
			}
		}

		a.Status = model.AdvanceBookingStatusCancelled
		a.RefundAmount = refund
		a.RefundChannel = channel
		a.CancelledAt = &now
		result = a
		return nil
	})
	if err != nil {
		s.frontDesk.logRejected("cancel advance booking", err, idField("advance_booking_id", id))
		return nil, err
	}

	s.logger.Info("Advance booking cancelled",
		idField("advance_booking_id", id),
		zap.String("refund", money(refund)),
		zap.String("channel", string(channel)),
	)
	s.publish(ctx, events.AdvanceBookingCancelled, result)

	return result, nil
}
