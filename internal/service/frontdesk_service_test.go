package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Freeeeeet/frontdesk/internal/apperr"
	"github.com/Freeeeeet/frontdesk/internal/cache"
	"github.com/Freeeeeet/frontdesk/internal/clock"
	"github.com/Freeeeeet/frontdesk/internal/events"
	"github.com/Freeeeeet/frontdesk/internal/ledger"
	"github.com/Freeeeeet/frontdesk/internal/model"
	"github.com/Freeeeeet/frontdesk/internal/repository/memory"
)

var start = time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)

type fixture struct {
	ctx      context.Context
	clock    *clock.ManualClock
	store    *memory.Store
	events   *events.Recorder
	redis    *miniredis.Miniredis
	desk     *FrontDeskService
	advance  *AdvanceBookingService
	expiry   *ExpiryService
	payments *PaymentService
	rooms    *RoomService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clk := clock.NewManual(start)
	st := memory.New(clk)
	rec := &events.Recorder{}
	logger := zap.NewNop()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	c := cache.New(client, time.Minute, "frontdesk", logger)

	desk := NewFrontDeskService(st, clk, rec, c, logger)
	return &fixture{
		ctx:      context.Background(),
		clock:    clk,
		store:    st,
		events:   rec,
		redis:    mr,
		desk:     desk,
		advance:  NewAdvanceBookingService(st, clk, desk, rec, c, logger),
		expiry:   NewExpiryService(st, clk, rec, c, logger),
		payments: NewPaymentService(st, clk, time.UTC, rec, logger),
		rooms:    NewRoomService(st, c, logger),
	}
}

func (f *fixture) room(t *testing.T, number int, typ model.RoomType) *model.Room {
	t.Helper()
	r := &model.Room{Number: number, Type: typ, Floor: "1"}
	if typ == model.RoomTypeHouse {
		r.Name = "Guest House"
	}
	room, err := f.rooms.CreateRoom(f.ctx, r)
	require.NoError(t, err)
	return room
}

func (f *fixture) roomStatus(t *testing.T, id uuid.UUID) model.RoomStatus {
	t.Helper()
	r, err := f.store.GetRoom(f.ctx, id)
	require.NoError(t, err)
	require.NotNil(t, r)
	return r.Status
}

func (f *fixture) checkIn(t *testing.T, room *model.Room, rent, initial int64) *model.Booking {
	t.Helper()
	b, err := f.desk.CheckIn(f.ctx, room.ID, guest(), decimal.NewFromInt(rent), decimal.NewFromInt(initial), model.PaymentChannelCash)
	require.NoError(t, err)
	return b
}

func guest() model.GuestInfo {
	return model.GuestInfo{Name: "Asha Nair", Phone: "9876543210", IDNumber: "AADHAR-1", NumberOfGuests: 2}
}

func d(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func assertDec(t *testing.T, want, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, want.Equal(got), "want %s, got %s", want, got)
}

func TestCheckInAndCheckoutScenario(t *testing.T) {
	f := newFixture(t)
	room := f.room(t, 101, model.RoomTypeAC)

	b := f.checkIn(t, room, 1000, 400)
	assert.Equal(t, model.RoomStatusOccupied, f.roomStatus(t, room.ID))

	view, err := f.desk.BookingLedger(f.ctx, b.ID)
	require.NoError(t, err)
	assertDec(t, d(600), view.Summary.Pending)
	require.Len(t, view.Entries, 1)
	assert.Equal(t, model.EntryKindInitial, view.Entries[0].Kind)
	assert.Equal(t, ledger.UrgencyNormal, view.Urgency)

	_, err = f.desk.Checkout(f.ctx, b.ID)
	var pe *apperr.PreconditionError
	require.ErrorAs(t, err, &pe)
	assertDec(t, d(600), pe.Pending)
	assert.Equal(t, model.RoomStatusOccupied, f.roomStatus(t, room.ID))

	_, err = f.desk.AddReceipt(f.ctx, b.ID, d(600), model.PaymentChannelElectronic)
	require.NoError(t, err)

	out, err := f.desk.Checkout(f.ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, out.IsCheckedOut)
	assert.Equal(t, model.RoomStatusCleaning, f.roomStatus(t, room.ID))

	require.NoError(t, f.desk.ConfirmCleaning(f.ctx, room.ID))
	assert.Equal(t, model.RoomStatusAvailable, f.roomStatus(t, room.ID))

	assert.Equal(t, []string{events.BookingCheckedIn, events.BookingReceiptRecorded, events.BookingCheckedOut}, f.events.Keys())
}

func TestCheckInValidation(t *testing.T) {
	f := newFixture(t)
	room := f.room(t, 101, model.RoomTypeAC)

	tests := []struct {
		name    string
		guest   model.GuestInfo
		rent    decimal.Decimal
		initial decimal.Decimal
		channel model.PaymentChannel
		field   string
	}{
		{"zero rent", guest(), d(0), d(0), model.PaymentChannelCash, "rent"},
		{"negative initial", guest(), d(1000), d(-1), model.PaymentChannelCash, "initial_receipt"},
		{"n/a channel", guest(), d(1000), d(100), model.PaymentChannelNotApplicable, "channel"},
		{"missing name", model.GuestInfo{Phone: "1"}, d(1000), d(100), model.PaymentChannelCash, "guest_name"},
		{"missing phone", model.GuestInfo{Name: "A"}, d(1000), d(100), model.PaymentChannelCash, "phone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.desk.CheckIn(f.ctx, room.ID, tt.guest, tt.rent, tt.initial, tt.channel)
			var ve *apperr.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
			assert.Equal(t, model.RoomStatusAvailable, f.roomStatus(t, room.ID))
		})
	}
}

func TestCheckInRejectsBusyRoom(t *testing.T) {
	f := newFixture(t)
	room := f.room(t, 101, model.RoomTypeAC)
	f.checkIn(t, room, 1000, 1000)

	_, err := f.desk.CheckIn(f.ctx, room.ID, guest(), d(1000), d(0), model.PaymentChannelCash)
	var pe *apperr.PreconditionError
	require.ErrorAs(t, err, &pe)

	_, err = f.desk.CheckIn(f.ctx, uuid.New(), guest(), d(1000), d(0), model.PaymentChannelCash)
	var ne *apperr.NotFoundError
	require.ErrorAs(t, err, &ne)
}

func TestCheckInWithZeroInitialWritesEntry(t *testing.T) {
	f := newFixture(t)
	room := f.room(t, 101, model.RoomTypeAC)
	b := f.checkIn(t, room, 1000, 0)

	entries, err := f.store.ListLedgerEntries(f.ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Amount.IsZero())
}

func TestCheckInRollsBackOnStoreFailure(t *testing.T) {
	f := newFixture(t)
	room := f.room(t, 101, model.RoomTypeAC)
	boom := errors.New("disk full")
	f.store.FailNext("AppendLedgerEntry", boom)

	_, err := f.desk.CheckIn(f.ctx, room.ID, guest(), d(1000), d(400), model.PaymentChannelCash)
	var se *apperr.StoreError
	require.ErrorAs(t, err, &se)
	require.ErrorIs(t, err, boom)

	assert.Equal(t, model.RoomStatusAvailable, f.roomStatus(t, room.ID))
	active, err := f.store.ListActiveBookings(f.ctx, &room.ID)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestExtendMovesReferenceByOneDay(t *testing.T) {
	f := newFixture(t)
	room := f.room(t, 101, model.RoomTypeAC)
	b := f.checkIn(t, room, 1000, 1000)

	f.clock.Advance(25 * time.Hour)
	due, err := f.expiry.MarkExtensionDue(f.ctx)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, model.RoomStatusExtensionDue, f.roomStatus(t, room.ID))

	ext, err := f.desk.Extend(f.ctx, b.ID, d(800))
	require.NoError(t, err)
	require.NotNil(t, ext.LastExtensionAt)
	assert.Equal(t, start.AddDate(0, 0, 1), *ext.LastExtensionAt)
	assert.Equal(t, start.Add(48*time.Hour), ledger.ValidUntil(ext))
	assertDec(t, d(1800), ext.Rent)
	assert.Equal(t, model.RoomStatusOccupied, f.roomStatus(t, room.ID))

	view, err := f.desk.BookingLedger(f.ctx, b.ID)
	require.NoError(t, err)
	assertDec(t, d(800), view.Summary.Pending)
	assertDec(t, d(1000), view.Summary.BaseCharge)
}

func TestExtendRejectsBadInput(t *testing.T) {
	f := newFixture(t)
	room := f.room(t, 101, model.RoomTypeAC)
	b := f.checkIn(t, room, 1000, 1000)

	_, err := f.desk.Extend(f.ctx, b.ID, d(0))
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)

	_, err = f.desk.Extend(f.ctx, uuid.New(), d(100))
	var ne *apperr.NotFoundError
	require.ErrorAs(t, err, &ne)

	_, err = f.desk.Checkout(f.ctx, b.ID)
	require.NoError(t, err)

	_, err = f.desk.Extend(f.ctx, b.ID, d(100))
	var pe *apperr.PreconditionError
	require.ErrorAs(t, err, &pe)
}

func TestAddReceiptValidation(t *testing.T) {
	f := newFixture(t)
	room := f.room(t, 101, model.RoomTypeAC)
	b := f.checkIn(t, room, 1000, 0)

	_, err := f.desk.AddReceipt(f.ctx, b.ID, d(-5), model.PaymentChannelCash)
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)

	_, err = f.desk.AddReceipt(f.ctx, b.ID, d(5), "")
	require.ErrorAs(t, err, &ve)

	assert.NotContains(t, f.events.Keys(), events.BookingReceiptRecorded)
}

func TestMoneyAmountsAreLimitedToPaise(t *testing.T) {
	f := newFixture(t)
	room := f.room(t, 101, model.RoomTypeAC)

	_, err := f.desk.CheckIn(f.ctx, room.ID, guest(), decimal.RequireFromString("1000.005"), d(0), model.PaymentChannelCash)
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "rent", ve.Field)

	_, err = f.desk.CheckIn(f.ctx, room.ID, guest(), d(1000), decimal.RequireFromString("0.001"), model.PaymentChannelCash)
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "initial_receipt", ve.Field)
	assert.Equal(t, model.RoomStatusAvailable, f.roomStatus(t, room.ID))

	// лишние нули после копеек допустимы
	b, err := f.desk.CheckIn(f.ctx, room.ID, guest(), decimal.RequireFromString("1000.500"), d(0), model.PaymentChannelCash)
	require.NoError(t, err)

	_, err = f.desk.AddReceipt(f.ctx, b.ID, decimal.RequireFromString("100.001"), model.PaymentChannelCash)
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "amount", ve.Field)

	entry, err := f.desk.AddReceipt(f.ctx, b.ID, decimal.RequireFromString("100.50"), model.PaymentChannelCash)
	require.NoError(t, err)
	assertDec(t, decimal.RequireFromString("100.5"), entry.Amount)

	view, err := f.desk.BookingLedger(f.ctx, b.ID)
	require.NoError(t, err)
	assertDec(t, d(900), view.Summary.Pending)

	_, err = f.advance.Create(f.ctx, &model.AdvanceBooking{
		GuestName:      "Ravi Kumar",
		Phone:          "9000000001",
		DateOfBooking:  start.AddDate(0, 0, 3),
		RoomType:       model.RoomTypeAC,
		NumberOfRooms:  2,
		PricePerRoom:   d(1500),
		AdvanceAmount:  decimal.RequireFromString("100.005"),
		PaymentChannel: model.PaymentChannelCash,
	})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "advance_amount", ve.Field)
}

func TestAddReceiptPublishesEvent(t *testing.T) {
	f := newFixture(t)
	b := f.checkIn(t, f.room(t, 101, model.RoomTypeAC), 1000, 0)

	entry, err := f.desk.AddReceipt(f.ctx, b.ID, d(250), model.PaymentChannelElectronic)
	require.NoError(t, err)

	published := f.events.Events()
	require.NotEmpty(t, published)
	last := published[len(published)-1]
	assert.Equal(t, events.BookingReceiptRecorded, last.Key)
	assert.Equal(t, entry, last.Payload)
}

func TestHouseStay(t *testing.T) {
	f := newFixture(t)
	house := f.room(t, 904, model.RoomTypeHouse)

	g := guest()
	g.DaysOfStay = StayMonth
	b, err := f.desk.CheckIn(f.ctx, house.ID, g, d(30000), d(10000), model.PaymentChannelCash)
	require.NoError(t, err)
	require.NotNil(t, b.ExpectedCheckoutAt)
	assert.Equal(t, start.AddDate(0, 0, 30), *b.ExpectedCheckoutAt)

	fee, err := f.desk.AddExtraFee(f.ctx, b.ID, " electricity ", d(500))
	require.NoError(t, err)
	assert.Equal(t, "ELECTRICITY", fee.Description)

	ext, err := f.desk.ExtendHouseStay(f.ctx, b.ID, 2, d(2000))
	require.NoError(t, err)
	assert.Equal(t, 32, ext.DaysOfStay)
	assert.Equal(t, start.AddDate(0, 0, 32), *ext.ExpectedCheckoutAt)
	assertDec(t, d(32500), ext.Rent)

	_, err = f.desk.AddReceipt(f.ctx, b.ID, d(5000), model.PaymentChannelElectronic)
	require.NoError(t, err)

	records, err := f.store.ListPaymentRecords(f.ctx, start.Add(-time.Hour), start.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, model.PaymentRecordHouseCheckIn, records[0].Kind)
	assert.Equal(t, model.PaymentRecordHouseReceipt, records[1].Kind)

	// дома не участвуют в суточной проверке
	f.clock.Advance(72 * time.Hour)
	due, err := f.expiry.MarkExtensionDue(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, due)

	_, err = f.desk.Extend(f.ctx, b.ID, d(100))
	var pe *apperr.PreconditionError
	require.ErrorAs(t, err, &pe)
}

func TestExtraFeeOnlyForHouses(t *testing.T) {
	f := newFixture(t)
	room := f.room(t, 101, model.RoomTypeAC)
	b := f.checkIn(t, room, 1000, 0)

	_, err := f.desk.AddExtraFee(f.ctx, b.ID, "late checkout", d(100))
	var pe *apperr.PreconditionError
	require.ErrorAs(t, err, &pe)

	_, err = f.desk.ExtendHouseStay(f.ctx, b.ID, 1, d(100))
	require.ErrorAs(t, err, &pe)
}

func TestShopPurchaseBlocksCheckout(t *testing.T) {
	f := newFixture(t)
	room := f.room(t, 101, model.RoomTypeAC)
	b := f.checkIn(t, room, 1000, 1000)

	_, err := f.desk.RecordShopPurchase(f.ctx, b.ID, "inv-7", "Water bottle", 2, d(40))
	require.NoError(t, err)

	_, err = f.desk.Checkout(f.ctx, b.ID)
	pending, ok := apperr.PendingOf(err)
	require.True(t, ok)
	assertDec(t, d(40), pending)

	_, err = f.desk.AddReceipt(f.ctx, b.ID, d(40), model.PaymentChannelCash)
	require.NoError(t, err)
	_, err = f.desk.Checkout(f.ctx, b.ID)
	require.NoError(t, err)
}

func TestCheckoutAbortsOnUnknownEntry(t *testing.T) {
	f := newFixture(t)
	room := f.room(t, 101, model.RoomTypeAC)
	b := f.checkIn(t, room, 1000, 1000)

	require.NoError(t, f.store.AppendLedgerEntry(f.ctx, &model.LedgerEntry{
		BookingID: b.ID, Kind: "voucher", Amount: d(1000), Channel: model.PaymentChannelCash, Timestamp: start,
	}))

	_, err := f.desk.Checkout(f.ctx, b.ID)
	var ue *apperr.UnclassifiedEntryError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, model.RoomStatusOccupied, f.roomStatus(t, room.ID))
}

func TestRoomBoardUsesCacheAndInvalidates(t *testing.T) {
	f := newFixture(t)
	room := f.room(t, 101, model.RoomTypeAC)
	f.room(t, 102, model.RoomTypeNonAC)

	board, err := f.desk.RoomBoard(f.ctx)
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Nil(t, board[0].Booking)

	cachedKey := "frontdesk:" + boardCacheKey
	assert.True(t, f.redis.Exists(cachedKey))

	b := f.checkIn(t, room, 1000, 250)
	assert.False(t, f.redis.Exists(cachedKey), "check-in invalidates the board")

	board, err = f.desk.RoomBoard(f.ctx)
	require.NoError(t, err)
	require.NotNil(t, board[0].Booking)
	assert.Equal(t, b.ID, board[0].Booking.ID)
	assertDec(t, d(750), board[0].Pending)
	assert.Equal(t, ledger.UrgencyNormal, board[0].Urgency)
	assert.True(t, f.redis.Exists(cachedKey))

	// доска из кэша, срочность пересчитана по текущему времени
	f.clock.Advance(20 * time.Hour)
	due, err := f.desk.DueRooms(f.ctx)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, ledger.UrgencyWarning, due[0].Urgency)
}
