package service

import (
	"context"
	"encoding/json"
	"fmt"
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

// StayMonth сколько дней считается "месяцем" при заселении в дом
const StayMonth = 30

// FrontDeskService жизненный цикл заселения: заселение, оплаты, продления, выезд
type FrontDeskService struct {
	store store.Store
	clock clock.Clock
	notifier
}

func NewFrontDeskService(
	st store.Store,
	clk clock.Clock,
	events Publisher,
	cache Cache,
	logger *zap.Logger,
) *FrontDeskService {
	return &FrontDeskService{
		store:    st,
		clock:    clk,
		notifier: newNotifier(events, cache, logger),
	}
}

// LedgerView панель истории оплат заселения
type LedgerView struct {
	Booking    *model.Booking         `json:"booking"`
	Entries    []model.LedgerEntry    `json:"entries"`
	Purchases  []model.ShopPurchase   `json:"purchases"`
	Summary    ledger.Summary         `json:"summary"`
	Statement  []ledger.StatementLine `json:"statement"`
	ValidUntil *time.Time             `json:"valid_until,omitempty"`
	Urgency    ledger.Urgency         `json:"urgency,omitempty"`
}

// BoardItem строка доски номеров
type BoardItem struct {
	Room       *model.Room     `json:"room"`
	Booking    *model.Booking  `json:"booking,omitempty"`
	ValidUntil *time.Time      `json:"valid_until,omitempty"`
	Urgency    ledger.Urgency  `json:"urgency,omitempty"`
	Pending    decimal.Decimal `json:"pending"`
	// LedgerError журнал заселения не сводится, остаток не посчитан
	LedgerError string `json:"ledger_error,omitempty"`
}

// CheckIn заселяет гостя в свободный номер или дом
func (s *FrontDeskService) CheckIn(
	ctx context.Context,
	roomID uuid.UUID,
	guest model.GuestInfo,
	rent, initialReceipt decimal.Decimal,
	channel model.PaymentChannel,
) (_ *model.Booking, err error) {
	ctx, span := tracer.Start(ctx, "FrontDesk.CheckIn", trace.WithAttributes(attribute.String("room_id", roomID.String())))
	defer func() { finishSpan(span, err) }()

	if err := validateCheckIn(&guest, rent, initialReceipt, channel); err != nil {
		return nil, err
	}

	var booking *model.Booking
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx store.Store) error {
		var err error
		booking, err = s.checkInTx(ctx, tx, roomID, guest, rent, initialReceipt, channel, nil)
		return err
	})
	if err != nil {
		s.logRejected("check-in", err, idField("room_id", roomID))
		return nil, err
	}

	s.logger.Info("Guest checked in",
		idField("booking_id", booking.ID),
		idField("room_id", roomID),
		zap.Int("room_number", booking.RoomNumber),
		zap.String("rent", money(rent)),
		zap.String("initial_receipt", money(initialReceipt)),
		zap.String("channel", string(channel)),
	)
	s.publish(ctx, events.BookingCheckedIn, booking)
	s.invalidateBoard(ctx)

	return booking, nil
}

func validateCheckIn(guest *model.GuestInfo, rent, initialReceipt decimal.Decimal, channel model.PaymentChannel) error {
	guest.Name = strings.TrimSpace(guest.Name)
	guest.Phone = strings.TrimSpace(guest.Phone)

	if err := requirePositive("rent", rent); err != nil {
		return err
	}
	if err := requireNonNegative("initial_receipt", initialReceipt); err != nil {
		return err
	}
	if err := requireMoneyChannel("channel", channel); err != nil {
		return err
	}
	if guest.Name == "" {
		return apperr.Invalid("guest_name", "is required")
	}
	if guest.Phone == "" {
		return apperr.Invalid("phone", "is required")
	}
	if guest.NumberOfGuests < 0 {
		return apperr.Invalid("number_of_guests", "must not be negative")
	}
	if guest.NumberOfGuests == 0 {
		guest.NumberOfGuests = 1
	}
	if guest.DaysOfStay < 0 {
		return apperr.Invalid("days_of_stay", "must not be negative")
	}
	return nil
}

// checkInTx заселение внутри открытой транзакции. Используется и при закрытии предварительной брони
func (s *FrontDeskService) checkInTx(
	ctx context.Context,
	tx store.Store,
	roomID uuid.UUID,
	guest model.GuestInfo,
	rent, initialReceipt decimal.Decimal,
	channel model.PaymentChannel,
	advanceID *uuid.UUID,
) (*model.Booking, error) {
	room, err := tx.GetRoom(ctx, roomID)
	if err != nil {
		return nil, apperr.Store("get room", err)
	}
	if room == nil {
		return nil, apperr.NotFound("room", roomID.String())
	}
	if room.Status != model.RoomStatusAvailable {
		return nil, &apperr.PreconditionError{
			Op:     "check-in",
			RoomID: roomID.String(),
			Reason: fmt.Sprintf("%s is %s", room.Label(), room.Status),
		}
	}

	ok, err := tx.TransitionRoomStatus(ctx, roomID, model.RoomStatusOccupied, model.RoomStatusAvailable)
	if err != nil {
		return nil, apperr.Store("occupy room", err)
	}
	if !ok {
		return nil, &apperr.PreconditionError{Op: "check-in", RoomID: roomID.String(), Reason: room.Label() + " is no longer available"}
	}

	now := s.clock.Now()
	booking := &model.Booking{
		ID:               uuid.New(),
		RoomID:           room.ID,
		RoomNumber:       room.Number,
		RoomType:         room.Type,
		GuestName:        guest.Name,
		Phone:            guest.Phone,
		IDNumber:         guest.IDNumber,
		NumberOfGuests:   guest.NumberOfGuests,
		PaymentChannel:   channel,
		BaseRent:         rent,
		CheckedInAt:      now,
		AdvanceBookingID: advanceID,
	}
	if room.IsHouse() {
		days := guest.DaysOfStay
		if days == 0 {
			days = 1
		}
		checkout := now.AddDate(0, 0, days)
		booking.DaysOfStay = days
		booking.ExpectedCheckoutAt = &checkout
	}

	if err := tx.CreateBooking(ctx, booking); err != nil {
		return nil, apperr.Store("create booking", err)
	}

	entry := &model.LedgerEntry{
		BookingID:   booking.ID,
		Kind:        model.EntryKindInitial,
		Amount:      initialReceipt,
		Channel:     channel,
		Timestamp:   now,
		Description: "Initial payment",
	}
	if err := tx.AppendLedgerEntry(ctx, entry); err != nil {
		return nil, apperr.Store("append initial entry", err)
	}

	if room.IsHouse() && initialReceipt.IsPositive() {
		rec := &model.PaymentRecord{
			Kind:         model.PaymentRecordHouseCheckIn,
			Amount:       initialReceipt,
			Channel:      channel,
			CustomerName: guest.Name,
			Reference:    room.Label(),
			Note:         "booking " + booking.ID.String(),
			Timestamp:    now,
		}
		if err := tx.AppendPaymentRecord(ctx, rec); err != nil {
			return nil, apperr.Store("append payment record", err)
		}
	}

	booking.Rent = rent
	booking.AmountReceived = initialReceipt
	return booking, nil
}

// activeBooking загружает заселение и проверяет, что оно не закрыто
func (s *FrontDeskService) activeBooking(ctx context.Context, st store.Store, op string, id uuid.UUID) (*model.Booking, error) {
	b, err := st.GetBooking(ctx, id)
	if err != nil {
		return nil, apperr.Store("get booking", err)
	}
	if b == nil {
		return nil, apperr.NotFound("booking", id.String())
	}
	if b.IsCheckedOut {
		return nil, &apperr.PreconditionError{Op: op, BookingID: id.String(), RoomID: b.RoomID.String(), Reason: "booking is already checked out"}
	}
	return b, nil
}

// AddReceipt записывает дополнительную оплату
func (s *FrontDeskService) AddReceipt(ctx context.Context, bookingID uuid.UUID, amount decimal.Decimal, channel model.PaymentChannel) (_ *model.LedgerEntry, err error) {
	ctx, span := tracer.Start(ctx, "FrontDesk.AddReceipt", trace.WithAttributes(attribute.String("booking_id", bookingID.String())))
	defer func() { finishSpan(span, err) }()

	if err := requirePositive("amount", amount); err != nil {
		return nil, err
	}
	if err := requireMoneyChannel("channel", channel); err != nil {
		return nil, err
	}

	var entry *model.LedgerEntry
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx store.Store) error {
		b, err := s.activeBooking(ctx, tx, "add receipt", bookingID)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		entry = &model.LedgerEntry{
			BookingID:   bookingID,
			Kind:        model.EntryKindAdvance,
			Amount:      amount,
			Channel:     channel,
			Timestamp:   now,
			Description: "Payment",
		}
		if err := tx.AppendLedgerEntry(ctx, entry); err != nil {
			return apperr.Store("append receipt", err)
		}

		if b.IsHouse() {
			rec := &model.PaymentRecord{
				Kind:         model.PaymentRecordHouseReceipt,
				Amount:       amount,
				Channel:      channel,
				CustomerName: b.GuestName,
				Reference:    houseReference(b),
				Note:         "booking " + b.ID.String(),
				Timestamp:    now,
			}
			if err := tx.AppendPaymentRecord(ctx, rec); err != nil {
				return apperr.Store("append payment record", err)
			}
		}
		return nil
	})
	if err != nil {
		s.logRejected("add receipt", err, idField("booking_id", bookingID))
		return nil, err
	}

	s.logger.Info("Receipt recorded",
		idField("booking_id", bookingID),
		zap.String("amount", money(amount)),
		zap.String("channel", string(channel)),
	)
	s.publish(ctx, events.BookingReceiptRecorded, entry)
	s.invalidateBoard(ctx)

	return entry, nil
}

// Extend продлевает проживание в номере на сутки
func (s *FrontDeskService) Extend(ctx context.Context, bookingID uuid.UUID, charge decimal.Decimal) (_ *model.Booking, err error) {
	ctx, span := tracer.Start(ctx, "FrontDesk.Extend", trace.WithAttributes(attribute.String("booking_id", bookingID.String())))
	defer func() { finishSpan(span, err) }()

	if err := requirePositive("charge", charge); err != nil {
		return nil, err
	}

	var booking *model.Booking
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx store.Store) error {
		b, err := s.activeBooking(ctx, tx, "extend", bookingID)
		if err != nil {
			return err
		}
		if b.IsHouse() {
			return &apperr.PreconditionError{Op: "extend", BookingID: bookingID.String(), Reason: "house stays are extended by days"}
		}

		at := ledger.NextExtensionInstant(b)
		entry := &model.LedgerEntry{
			BookingID:   bookingID,
			Kind:        model.EntryKindExtension,
			Amount:      charge,
			Channel:     model.PaymentChannelNotApplicable,
			Timestamp:   at,
			Description: "Extension",
		}
		if err := tx.AppendLedgerEntry(ctx, entry); err != nil {
			return apperr.Store("append extension", err)
		}
		if err := tx.SetLastExtension(ctx, bookingID, at); err != nil {
			return apperr.Store("set last extension", err)
		}
		if _, err := tx.TransitionRoomStatus(ctx, b.RoomID, model.RoomStatusOccupied, model.RoomStatusExtensionDue); err != nil {
			return apperr.Store("reoccupy room", err)
		}

		booking, err = tx.GetBooking(ctx, bookingID)
		return apperr.Store("reload booking", err)
	})
	if err != nil {
		s.logRejected("extend", err, idField("booking_id", bookingID))
		return nil, err
	}

	s.logger.Info("Stay extended",
		idField("booking_id", bookingID),
		zap.String("charge", money(charge)),
		zap.Time("valid_until", ledger.ValidUntil(booking)),
	)
	s.publish(ctx, events.BookingExtended, booking)
	s.invalidateBoard(ctx)

	return booking, nil
}

// ExtendHouseStay продлевает проживание в доме на несколько дней
func (s *FrontDeskService) ExtendHouseStay(ctx context.Context, bookingID uuid.UUID, days int, charge decimal.Decimal) (_ *model.Booking, err error) {
	ctx, span := tracer.Start(ctx, "FrontDesk.ExtendHouseStay", trace.WithAttributes(attribute.String("booking_id", bookingID.String())))
	defer func() { finishSpan(span, err) }()

	if days < 1 {
		return nil, apperr.Invalid("days", "must be at least 1")
	}
	if err := requirePositive("charge", charge); err != nil {
		return nil, err
	}

	var booking *model.Booking
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx store.Store) error {
		b, err := s.activeBooking(ctx, tx, "extend house stay", bookingID)
		if err != nil {
			return err
		}
		if !b.IsHouse() {
			return &apperr.PreconditionError{Op: "extend house stay", BookingID: bookingID.String(), Reason: "booking is not a house stay"}
		}

		now := s.clock.Now()
		entry := &model.LedgerEntry{
			BookingID:   bookingID,
			Kind:        model.EntryKindExtension,
			Amount:      charge,
			Channel:     model.PaymentChannelNotApplicable,
			Timestamp:   now,
			Description: fmt.Sprintf("Extended by %d day(s)", days),
		}
		if err := tx.AppendLedgerEntry(ctx, entry); err != nil {
			return apperr.Store("append extension", err)
		}

		checkout := b.CheckedInAt.AddDate(0, 0, b.DaysOfStay)
		if b.ExpectedCheckoutAt != nil {
			checkout = *b.ExpectedCheckoutAt
		}
		if err := tx.SetExpectedCheckout(ctx, bookingID, checkout.AddDate(0, 0, days), b.DaysOfStay+days); err != nil {
			return apperr.Store("set expected checkout", err)
		}

		booking, err = tx.GetBooking(ctx, bookingID)
		return apperr.Store("reload booking", err)
	})
	if err != nil {
		s.logRejected("extend house stay", err, idField("booking_id", bookingID))
		return nil, err
	}

	s.logger.Info("House stay extended",
		idField("booking_id", bookingID),
		zap.Int("days", days),
		zap.String("charge", money(charge)),
	)
	s.publish(ctx, events.BookingExtended, booking)
	s.invalidateBoard(ctx)

	return booking, nil
}

// AddExtraFee добавляет доп. сбор к проживанию в доме
func (s *FrontDeskService) AddExtraFee(ctx context.Context, bookingID uuid.UUID, description string, amount decimal.Decimal) (_ *model.LedgerEntry, err error) {
	ctx, span := tracer.Start(ctx, "FrontDesk.AddExtraFee", trace.WithAttributes(attribute.String("booking_id", bookingID.String())))
	defer func() { finishSpan(span, err) }()

	description = strings.ToUpper(strings.TrimSpace(description))
	if description == "" {
		return nil, apperr.Invalid("description", "is required")
	}
	if err := requirePositive("amount", amount); err != nil {
		return nil, err
	}

	var entry *model.LedgerEntry
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx store.Store) error {
		b, err := s.activeBooking(ctx, tx, "add extra fee", bookingID)
		if err != nil {
			return err
		}
		if !b.IsHouse() {
			return &apperr.PreconditionError{Op: "add extra fee", BookingID: bookingID.String(), Reason: "extra fees apply to house stays only"}
		}

		entry = &model.LedgerEntry{
			BookingID:   bookingID,
			Kind:        model.EntryKindExtraFee,
			Amount:      amount,
			Channel:     model.PaymentChannelNotApplicable,
			Timestamp:   s.clock.Now(),
			Description: description,
		}
		return apperr.Store("append extra fee", tx.AppendLedgerEntry(ctx, entry))
	})
	if err != nil {
		s.logRejected("add extra fee", err, idField("booking_id", bookingID))
		return nil, err
	}

	s.logger.Info("Extra fee added",
		idField("booking_id", bookingID),
		zap.String("description", description),
		zap.String("amount", money(amount)),
	)
	s.invalidateBoard(ctx)

	return entry, nil
}

// Checkout закрывает заселение, если всё оплачено. Номер уходит в уборку
func (s *FrontDeskService) Checkout(ctx context.Context, bookingID uuid.UUID) (_ *model.Booking, err error) {
	ctx, span := tracer.Start(ctx, "FrontDesk.Checkout", trace.WithAttributes(attribute.String("booking_id", bookingID.String())))
	defer func() { finishSpan(span, err) }()

	var booking *model.Booking
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx store.Store) error {
		b, err := s.activeBooking(ctx, tx, "checkout", bookingID)
		if err != nil {
			return err
		}

		summary, err := s.reconcile(ctx, tx, b)
		if err != nil {
			return err
		}
		if !summary.Settled() {
			return &apperr.PreconditionError{
				Op:        "checkout",
				BookingID: bookingID.String(),
				RoomID:    b.RoomID.String(),
				Pending:   summary.Pending,
				Reason:    "outstanding balance",
			}
		}

		now := s.clock.Now()
		if err := tx.MarkCheckedOut(ctx, bookingID, now); err != nil {
			return apperr.Store("mark checked out", err)
		}
		ok, err := tx.TransitionRoomStatus(ctx, b.RoomID, model.RoomStatusCleaning, model.RoomStatusOccupied, model.RoomStatusExtensionDue)
		if err != nil {
			return apperr.Store("release room", err)
		}
		if !ok {
			s.logger.Warn("Room was not occupied at checkout", idField("room_id", b.RoomID))
		}

		b.IsCheckedOut = true
		b.CheckedOutAt = &now
		booking = b
		return nil
	})
	if err != nil {
		s.logRejected("checkout", err, idField("booking_id", bookingID))
		return nil, err
	}

	s.logger.Info("Guest checked out",
		idField("booking_id", bookingID),
		idField("room_id", booking.RoomID),
		zap.String("rent", money(booking.Rent)),
	)
	s.publish(ctx, events.BookingCheckedOut, booking)
	s.invalidateBoard(ctx)

	return booking, nil
}

// ConfirmCleaning возвращает убранный номер в продажу
func (s *FrontDeskService) ConfirmCleaning(ctx context.Context, roomID uuid.UUID) error {
	room, err := s.store.GetRoom(ctx, roomID)
	if err != nil {
		return apperr.Store("get room", err)
	}
	if room == nil {
		return apperr.NotFound("room", roomID.String())
	}

	ok, err := s.store.TransitionRoomStatus(ctx, roomID, model.RoomStatusAvailable, model.RoomStatusCleaning)
	if err != nil {
		return apperr.Store("confirm cleaning", err)
	}
	if !ok {
		err := &apperr.PreconditionError{Op: "confirm cleaning", RoomID: roomID.String(), Reason: fmt.Sprintf("%s is %s", room.Label(), room.Status)}
		s.logRejected("confirm cleaning", err, idField("room_id", roomID))
		return err
	}

	s.logger.Info("Room cleaned", idField("room_id", roomID), zap.Int("room_number", room.Number))
	s.invalidateBoard(ctx)
	return nil
}

func (s *FrontDeskService) reconcile(ctx context.Context, st store.Store, b *model.Booking) (ledger.Summary, error) {
	entries, err := st.ListLedgerEntries(ctx, b.ID)
	if err != nil {
		return ledger.Summary{}, apperr.Store("list ledger entries", err)
	}
	purchases, err := st.ListShopPurchases(ctx, b.ID)
	if err != nil {
		return ledger.Summary{}, apperr.Store("list shop purchases", err)
	}
	return ledger.Reconcile(b, entries, purchases)
}

// BookingLedger собирает панель оплат заселения
func (s *FrontDeskService) BookingLedger(ctx context.Context, bookingID uuid.UUID) (*LedgerView, error) {
	b, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, apperr.Store("get booking", err)
	}
	if b == nil {
		return nil, apperr.NotFound("booking", bookingID.String())
	}

	entries, err := s.store.ListLedgerEntries(ctx, bookingID)
	if err != nil {
		return nil, apperr.Store("list ledger entries", err)
	}
	purchases, err := s.store.ListShopPurchases(ctx, bookingID)
	if err != nil {
		return nil, apperr.Store("list shop purchases", err)
	}

	summary, err := ledger.Reconcile(b, entries, purchases)
	if err != nil {
		return nil, err
	}
	lines, err := ledger.Statement(b, entries, purchases)
	if err != nil {
		return nil, err
	}

	view := &LedgerView{
		Booking:   b,
		Entries:   entries,
		Purchases: purchases,
		Summary:   summary,
		Statement: lines,
	}
	view.ValidUntil, view.Urgency = s.deadline(b)
	return view, nil
}

// deadline срок проживания: сутки для номеров, плановый выезд для домов
func (s *FrontDeskService) deadline(b *model.Booking) (*time.Time, ledger.Urgency) {
	if b.IsCheckedOut {
		return nil, ""
	}
	if b.IsHouse() {
		return b.ExpectedCheckoutAt, ""
	}
	until := ledger.ValidUntil(b)
	return &until, ledger.UrgencyAt(until, s.clock.Now())
}

// RecordShopPurchase точка входа модуля склада: покупка гостя на счёт заселения
func (s *FrontDeskService) RecordShopPurchase(
	ctx context.Context,
	bookingID uuid.UUID,
	inventoryID, itemName string,
	quantity int,
	amount decimal.Decimal,
) (*model.ShopPurchase, error) {
	itemName = strings.TrimSpace(itemName)
	if itemName == "" {
		return nil, apperr.Invalid("item_name", "is required")
	}
	if quantity < 1 {
		return nil, apperr.Invalid("quantity", "must be at least 1")
	}
	if err := requirePositive("amount", amount); err != nil {
		return nil, err
	}

	if _, err := s.activeBooking(ctx, s.store, "record purchase", bookingID); err != nil {
		return nil, err
	}

	p := &model.ShopPurchase{
		BookingID:     bookingID,
		InventoryID:   inventoryID,
		ItemName:      itemName,
		Quantity:      quantity,
		Amount:        amount,
		PaymentStatus: "pending",
		CreatedAt:     s.clock.Now(),
	}
	if err := s.store.CreateShopPurchase(ctx, p); err != nil {
		return nil, apperr.Store("create shop purchase", err)
	}

	s.logger.Info("Shop purchase recorded",
		idField("booking_id", bookingID),
		zap.String("item", itemName),
		zap.Int("quantity", quantity),
		zap.String("amount", money(amount)),
	)
	s.invalidateBoard(ctx)

	return p, nil
}

// RoomBoard все номера с активными заселениями, сроками и остатками
func (s *FrontDeskService) RoomBoard(ctx context.Context) ([]BoardItem, error) {
	if raw, ok, err := s.cache.Get(ctx, boardCacheKey); err != nil {
		s.logger.Warn("Failed to read room board cache", zap.Error(err))
	} else if ok {
		var items []BoardItem
		if err := json.Unmarshal(raw, &items); err == nil {
			return s.refreshUrgency(items), nil
		}
	}

	rooms, err := s.store.ListRooms(ctx, store.RoomFilter{})
	if err != nil {
		return nil, apperr.Store("list rooms", err)
	}
	active, err := s.store.ListActiveBookings(ctx, nil)
	if err != nil {
		return nil, apperr.Store("list active bookings", err)
	}
	byRoom := make(map[uuid.UUID]*model.Booking, len(active))
	for _, b := range active {
		byRoom[b.RoomID] = b
	}

	items := make([]BoardItem, 0, len(rooms))
	for _, room := range rooms {
		item := BoardItem{Room: room}
		if b, ok := byRoom[room.ID]; ok {
			item.Booking = b
			item.ValidUntil, item.Urgency = s.deadline(b)

			summary, err := s.reconcile(ctx, s.store, b)
			switch {
			case err == nil:
				item.Pending = summary.Pending
			case apperr.IsDomain(err):
				s.logger.Error("Booking ledger does not reconcile", idField("booking_id", b.ID), zap.Error(err))
				item.LedgerError = err.Error()
			default:
				return nil, err
			}
		}
		items = append(items, item)
	}

	if raw, err := json.Marshal(items); err == nil {
		if err := s.cache.Set(ctx, boardCacheKey, raw); err != nil {
			s.logger.Warn("Failed to write room board cache", zap.Error(err))
		}
	}

	return items, nil
}

// refreshUrgency пересчитывает срочность для закэшированной доски: она зависит от текущего времени
func (s *FrontDeskService) refreshUrgency(items []BoardItem) []BoardItem {
	now := s.clock.Now()
	for i := range items {
		if items[i].ValidUntil != nil && items[i].Booking != nil && !items[i].Booking.IsHouse() {
			items[i].Urgency = ledger.UrgencyAt(*items[i].ValidUntil, now)
		}
	}
	return items
}

// DueRooms номера, у которых сутки скоро закончатся или уже закончились
func (s *FrontDeskService) DueRooms(ctx context.Context) ([]BoardItem, error) {
	board, err := s.RoomBoard(ctx)
	if err != nil {
		return nil, err
	}
	var due []BoardItem
	for _, item := range board {
		if item.Urgency == ledger.UrgencyWarning || item.Urgency == ledger.UrgencyOverdue {
			due = append(due, item)
		}
	}
	return due, nil
}

func (s *FrontDeskService) logRejected(op string, err error, fields ...zap.Field) {
	fields = append(fields, zap.String("op", op), zap.Error(err))
	if isDomain(err) {
		s.logger.Warn("Operation rejected", fields...)
		return
	}
	s.logger.Error("Operation failed", fields...)
}

func houseReference(b *model.Booking) string {
	return fmt.Sprintf("House %d", b.RoomNumber)
}
