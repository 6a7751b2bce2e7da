// Package memory хранилище в памяти процесса. Используется при STORE_DRIVER=memory
// и в тестах сервисов. Транзакция держит общий мьютекс и при ошибке
// восстанавливает снимок состояния.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Freeeeeet/frontdesk/internal/clock"
	"github.com/Freeeeeet/frontdesk/internal/ledger"
	"github.com/Freeeeeet/frontdesk/internal/model"
	"github.com/Freeeeeet/frontdesk/internal/store"
)

type state struct {
	rooms       map[uuid.UUID]model.Room
	bookings    map[uuid.UUID]model.Booking
	entries     []model.LedgerEntry
	purchases   []model.ShopPurchase
	advance     map[uuid.UUID]model.AdvanceBooking
	payments    []model.PaymentRecord
	collections []model.CollectionLog

	// faults одноразовые ошибки для тестов, по имени метода
	faults map[string]error
}

func newState() *state {
	return &state{
		rooms:    make(map[uuid.UUID]model.Room),
		bookings: make(map[uuid.UUID]model.Booking),
		advance:  make(map[uuid.UUID]model.AdvanceBooking),
		faults:   make(map[string]error),
	}
}

func (s *state) clone() *state {
	c := &state{
		rooms:       make(map[uuid.UUID]model.Room, len(s.rooms)),
		bookings:    make(map[uuid.UUID]model.Booking, len(s.bookings)),
		entries:     append([]model.LedgerEntry(nil), s.entries...),
		purchases:   append([]model.ShopPurchase(nil), s.purchases...),
		advance:     make(map[uuid.UUID]model.AdvanceBooking, len(s.advance)),
		payments:    append([]model.PaymentRecord(nil), s.payments...),
		collections: append([]model.CollectionLog(nil), s.collections...),
		faults:      s.faults,
	}
	for k, v := range s.rooms {
		c.rooms[k] = v
	}
	for k, v := range s.bookings {
		c.bookings[k] = v
	}
	for k, v := range s.advance {
		c.advance[k] = v
	}
	return c
}

// Store хранилище в памяти
type Store struct {
	mu    *sync.Mutex
	st    *state
	clock clock.Clock
	inTx  bool
}

var _ store.Store = (*Store)(nil)

// New создаёт пустое хранилище
func New(clk clock.Clock) *Store {
	return &Store{
		mu:    &sync.Mutex{},
		st:    newState(),
		clock: clk,
	}
}

func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// FailNext заставляет следующий вызов метода op вернуть err
func (s *Store) FailNext(op string, err error) {
	defer s.lock()()
	s.st.faults[op] = err
}

func (s *Store) fault(op string) error {
	if err, ok := s.st.faults[op]; ok {
		delete(s.st.faults, op)
		return err
	}
	return nil
}

// WithinTx выполняет fn под общим мьютексом. При ошибке состояние откатывается к снимку
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx store.Store) error) error {
	if s.inTx {
		return fn(ctx, s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	tx := &Store{mu: s.mu, st: s.st, clock: s.clock, inTx: true}
	if err := fn(ctx, tx); err != nil {
		*s.st = *snapshot
		return err
	}
	return nil
}

// rooms

func (s *Store) GetRoom(_ context.Context, id uuid.UUID) (*model.Room, error) {
	defer s.lock()()
	if err := s.fault("GetRoom"); err != nil {
		return nil, err
	}
	room, ok := s.st.rooms[id]
	if !ok {
		return nil, nil
	}
	return &room, nil
}

func (s *Store) ListRooms(_ context.Context, filter store.RoomFilter) ([]*model.Room, error) {
	defer s.lock()()
	if err := s.fault("ListRooms"); err != nil {
		return nil, err
	}
	var rooms []*model.Room
	for _, r := range s.st.rooms {
		if filter.Type != "" && r.Type != filter.Type {
			continue
		}
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		room := r
		rooms = append(rooms, &room)
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].Number < rooms[j].Number })
	return rooms, nil
}

func (s *Store) CreateRoom(_ context.Context, room *model.Room) error {
	defer s.lock()()
	if err := s.fault("CreateRoom"); err != nil {
		return err
	}
	for _, r := range s.st.rooms {
		if r.Number == room.Number {
			return fmt.Errorf("create room: number %d already exists", room.Number)
		}
	}
	if room.ID == uuid.Nil {
		room.ID = uuid.New()
	}
	if room.Status == "" {
		room.Status = model.RoomStatusAvailable
	}
	now := s.clock.Now()
	room.CreatedAt, room.UpdatedAt = now, now
	s.st.rooms[room.ID] = *room
	return nil
}

func (s *Store) UpdateRoom(_ context.Context, room *model.Room) error {
	defer s.lock()()
	if err := s.fault("UpdateRoom"); err != nil {
		return err
	}
	cur, ok := s.st.rooms[room.ID]
	if !ok {
		return fmt.Errorf("update room: room %s not found", room.ID)
	}
	for id, r := range s.st.rooms {
		if id != room.ID && r.Number == room.Number {
			return fmt.Errorf("update room: number %d already exists", room.Number)
		}
	}
	cur.Number, cur.Floor, cur.Type, cur.Name = room.Number, room.Floor, room.Type, room.Name
	cur.UpdatedAt = s.clock.Now()
	s.st.rooms[room.ID] = cur
	*room = cur
	return nil
}

func (s *Store) TransitionRoomStatus(_ context.Context, id uuid.UUID, to model.RoomStatus, from ...model.RoomStatus) (bool, error) {
	defer s.lock()()
	if err := s.fault("TransitionRoomStatus"); err != nil {
		return false, err
	}
	room, ok := s.st.rooms[id]
	if !ok {
		return false, nil
	}
	if len(from) > 0 && !containsStatus(from, room.Status) {
		return false, nil
	}
	room.Status = to
	room.UpdatedAt = s.clock.Now()
	s.st.rooms[id] = room
	return true, nil
}

func containsStatus(list []model.RoomStatus, s model.RoomStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// bookings

func (s *Store) withTotals(b model.Booking) *model.Booking {
	var entries []model.LedgerEntry
	for _, e := range s.st.entries {
		if e.BookingID == b.ID {
			entries = append(entries, e)
		}
	}
	ledger.DeriveTotals(&b, entries)
	return &b
}

func (s *Store) GetBooking(_ context.Context, id uuid.UUID) (*model.Booking, error) {
	defer s.lock()()
	if err := s.fault("GetBooking"); err != nil {
		return nil, err
	}
	b, ok := s.st.bookings[id]
	if !ok {
		return nil, nil
	}
	return s.withTotals(b), nil
}

func (s *Store) ListActiveBookings(_ context.Context, roomID *uuid.UUID) ([]*model.Booking, error) {
	defer s.lock()()
	if err := s.fault("ListActiveBookings"); err != nil {
		return nil, err
	}
	var list []*model.Booking
	for _, b := range s.st.bookings {
		if b.IsCheckedOut {
			continue
		}
		if roomID != nil && b.RoomID != *roomID {
			continue
		}
		list = append(list, s.withTotals(b))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].RoomNumber < list[j].RoomNumber })
	return list, nil
}

func (s *Store) CreateBooking(_ context.Context, b *model.Booking) error {
	defer s.lock()()
	if err := s.fault("CreateBooking"); err != nil {
		return err
	}
	for _, other := range s.st.bookings {
		if other.RoomID == b.RoomID && !other.IsCheckedOut {
			return fmt.Errorf("create booking: room %s already has an active booking", b.RoomID)
		}
	}
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	b.CreatedAt = s.clock.Now()
	stored := *b
	stored.Rent, stored.AmountReceived = decimal.Zero, decimal.Zero
	s.st.bookings[b.ID] = stored
	return nil
}

func (s *Store) updateActive(op string, id uuid.UUID, fn func(b *model.Booking)) error {
	defer s.lock()()
	if err := s.fault(op); err != nil {
		return err
	}
	b, ok := s.st.bookings[id]
	if !ok || b.IsCheckedOut {
		return fmt.Errorf("%s: active booking %s not found", op, id)
	}
	fn(&b)
	s.st.bookings[id] = b
	return nil
}

func (s *Store) SetLastExtension(_ context.Context, id uuid.UUID, at time.Time) error {
	return s.updateActive("SetLastExtension", id, func(b *model.Booking) {
		b.LastExtensionAt = &at
	})
}

func (s *Store) SetExpectedCheckout(_ context.Context, id uuid.UUID, at time.Time, daysOfStay int) error {
	return s.updateActive("SetExpectedCheckout", id, func(b *model.Booking) {
		b.ExpectedCheckoutAt = &at
		b.DaysOfStay = daysOfStay
	})
}

func (s *Store) MarkCheckedOut(_ context.Context, id uuid.UUID, at time.Time) error {
	return s.updateActive("MarkCheckedOut", id, func(b *model.Booking) {
		b.IsCheckedOut = true
		b.CheckedOutAt = &at
	})
}

// ledger

func (s *Store) AppendLedgerEntry(_ context.Context, e *model.LedgerEntry) error {
	defer s.lock()()
	if err := s.fault("AppendLedgerEntry"); err != nil {
		return err
	}
	if _, ok := s.st.bookings[e.BookingID]; !ok {
		return fmt.Errorf("append ledger entry: booking %s not found", e.BookingID)
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	s.st.entries = append(s.st.entries, *e)
	return nil
}

func (s *Store) ListLedgerEntries(_ context.Context, bookingID uuid.UUID) ([]model.LedgerEntry, error) {
	defer s.lock()()
	if err := s.fault("ListLedgerEntries"); err != nil {
		return nil, err
	}
	var list []model.LedgerEntry
	for _, e := range s.st.entries {
		if e.BookingID == bookingID {
			list = append(list, e)
		}
	}
	sortEntries(list)
	return list, nil
}

func (s *Store) ListReceiptsBetween(_ context.Context, from, to time.Time) ([]model.LedgerEntry, error) {
	defer s.lock()()
	if err := s.fault("ListReceiptsBetween"); err != nil {
		return nil, err
	}
	var list []model.LedgerEntry
	for _, e := range s.st.entries {
		if !ledger.IsReceiptKind(e.Kind) {
			continue
		}
		if e.Timestamp.Before(from) || !e.Timestamp.Before(to) {
			continue
		}
		list = append(list, e)
	}
	sortEntries(list)
	return list, nil
}

func sortEntries(list []model.LedgerEntry) {
	sort.SliceStable(list, func(i, j int) bool { return list[i].Timestamp.Before(list[j].Timestamp) })
}

func (s *Store) ListShopPurchases(_ context.Context, bookingID uuid.UUID) ([]model.ShopPurchase, error) {
	defer s.lock()()
	if err := s.fault("ListShopPurchases"); err != nil {
		return nil, err
	}
	var list []model.ShopPurchase
	for _, p := range s.st.purchases {
		if p.BookingID == bookingID {
			list = append(list, p)
		}
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

func (s *Store) CreateShopPurchase(_ context.Context, p *model.ShopPurchase) error {
	defer s.lock()()
	if err := s.fault("CreateShopPurchase"); err != nil {
		return err
	}
	if _, ok := s.st.bookings[p.BookingID]; !ok {
		return fmt.Errorf("create shop purchase: booking %s not found", p.BookingID)
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	s.st.purchases = append(s.st.purchases, *p)
	return nil
}

// advance bookings

func (s *Store) CreateAdvanceBooking(_ context.Context, a *model.AdvanceBooking) error {
	defer s.lock()()
	if err := s.fault("CreateAdvanceBooking"); err != nil {
		return err
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Rooms == nil {
		a.Rooms = []model.AssignedRoom{}
	}
	s.st.advance[a.ID] = *a
	return nil
}

func (s *Store) GetAdvanceBooking(_ context.Context, id uuid.UUID) (*model.AdvanceBooking, error) {
	defer s.lock()()
	if err := s.fault("GetAdvanceBooking"); err != nil {
		return nil, err
	}
	a, ok := s.st.advance[id]
	if !ok {
		return nil, nil
	}
	a.Rooms = append([]model.AssignedRoom{}, a.Rooms...)
	return &a, nil
}

func (s *Store) ListAdvanceBookings(_ context.Context, statuses ...model.AdvanceBookingStatus) ([]*model.AdvanceBooking, error) {
	defer s.lock()()
	if err := s.fault("ListAdvanceBookings"); err != nil {
		return nil, err
	}
	var list []*model.AdvanceBooking
	for _, a := range s.st.advance {
		if len(statuses) > 0 && !containsAdvanceStatus(statuses, a.Status) {
			continue
		}
		a.Rooms = append([]model.AssignedRoom{}, a.Rooms...)
		item := a
		list = append(list, &item)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].DateOfBooking.Equal(list[j].DateOfBooking) {
			return list[i].DateOfBooking.Before(list[j].DateOfBooking)
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	return list, nil
}

func containsAdvanceStatus(list []model.AdvanceBookingStatus, s model.AdvanceBookingStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func (s *Store) CompleteAdvanceBooking(_ context.Context, id uuid.UUID, rooms []model.AssignedRoom, at time.Time) (bool, error) {
	defer s.lock()()
	if err := s.fault("CompleteAdvanceBooking"); err != nil {
		return false, err
	}
	a, ok := s.st.advance[id]
	if !ok || a.Status != model.AdvanceBookingStatusPending {
		return false, nil
	}
	a.Status = model.AdvanceBookingStatusCompleted
	a.Rooms = append([]model.AssignedRoom{}, rooms...)
	a.CompletedAt = &at
	s.st.advance[id] = a
	return true, nil
}

func (s *Store) CancelAdvanceBooking(_ context.Context, id uuid.UUID, refund decimal.Decimal, channel model.PaymentChannel, at time.Time) (bool, error) {
	defer s.lock()()
	if err := s.fault("CancelAdvanceBooking"); err != nil {
		return false, err
	}
	a, ok := s.st.advance[id]
	if !ok || a.Status != model.AdvanceBookingStatusPending {
		return false, nil
	}
	a.Status = model.AdvanceBookingStatusCancelled
	a.RefundAmount = refund
	a.RefundChannel = channel
	a.CancelledAt = &at
	s.st.advance[id] = a
	return true, nil
}

// payments

func (s *Store) AppendPaymentRecord(_ context.Context, r *model.PaymentRecord) error {
	defer s.lock()()
	if err := s.fault("AppendPaymentRecord"); err != nil {
		return err
	}
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	s.st.payments = append(s.st.payments, *r)
	return nil
}

func (s *Store) ListPaymentRecords(_ context.Context, from, to time.Time) ([]model.PaymentRecord, error) {
	defer s.lock()()
	if err := s.fault("ListPaymentRecords"); err != nil {
		return nil, err
	}
	var list []model.PaymentRecord
	for _, r := range s.st.payments {
		if r.Timestamp.Before(from) || !r.Timestamp.Before(to) {
			continue
		}
		list = append(list, r)
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Timestamp.Before(list[j].Timestamp) })
	return list, nil
}

func (s *Store) CreateCollectionLog(_ context.Context, l *model.CollectionLog) error {
	defer s.lock()()
	if err := s.fault("CreateCollectionLog"); err != nil {
		return err
	}
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	s.st.collections = append(s.st.collections, *l)
	return nil
}

func (s *Store) LatestCollectionLog(ctx context.Context) (*model.CollectionLog, error) {
	logs, err := s.ListCollectionLogs(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(logs) == 0 {
		return nil, nil
	}
	return &logs[0], nil
}

func (s *Store) ListCollectionLogs(_ context.Context, limit int) ([]model.CollectionLog, error) {
	defer s.lock()()
	if err := s.fault("ListCollectionLogs"); err != nil {
		return nil, err
	}
	list := append([]model.CollectionLog(nil), s.st.collections...)
	sort.SliceStable(list, func(i, j int) bool { return list[i].CollectedAt.After(list[j].CollectedAt) })
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}
