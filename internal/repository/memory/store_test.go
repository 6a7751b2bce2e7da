package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/frontdesk/internal/clock"
	"github.com/Freeeeeet/frontdesk/internal/model"
	"github.com/Freeeeeet/frontdesk/internal/store"
)

var now = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func newRoomWithBooking(t *testing.T, s *Store) (*model.Room, *model.Booking) {
	t.Helper()
	ctx := context.Background()

	room := &model.Room{Number: 101, Type: model.RoomTypeAC}
	require.NoError(t, s.CreateRoom(ctx, room))

	b := &model.Booking{
		RoomID:      room.ID,
		RoomNumber:  room.Number,
		RoomType:    room.Type,
		GuestName:   "Asha",
		BaseRent:    decimal.NewFromInt(1000),
		CheckedInAt: now,
	}
	require.NoError(t, s.CreateBooking(ctx, b))
	return room, b
}

func TestBookingTotalsAreDerivedFromLedger(t *testing.T) {
	ctx := context.Background()
	s := New(clock.NewFixed(now))
	_, b := newRoomWithBooking(t, s)

	require.NoError(t, s.AppendLedgerEntry(ctx, &model.LedgerEntry{
		BookingID: b.ID, Kind: model.EntryKindInitial, Amount: decimal.NewFromInt(400),
		Channel: model.PaymentChannelCash, Timestamp: now,
	}))
	require.NoError(t, s.AppendLedgerEntry(ctx, &model.LedgerEntry{
		BookingID: b.ID, Kind: model.EntryKindExtension, Amount: decimal.NewFromInt(800),
		Channel: model.PaymentChannelNotApplicable, Timestamp: now.AddDate(0, 0, 1),
	}))

	got, err := s.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1800).Equal(got.Rent))
	assert.True(t, decimal.NewFromInt(400).Equal(got.AmountReceived))
}

func TestOneActiveBookingPerRoom(t *testing.T) {
	ctx := context.Background()
	s := New(clock.NewFixed(now))
	room, b := newRoomWithBooking(t, s)

	err := s.CreateBooking(ctx, &model.Booking{RoomID: room.ID, GuestName: "Second"})
	require.Error(t, err)

	require.NoError(t, s.MarkCheckedOut(ctx, b.ID, now))
	require.NoError(t, s.CreateBooking(ctx, &model.Booking{RoomID: room.ID, GuestName: "Second"}))
}

func TestTransitionRoomStatusIsConditional(t *testing.T) {
	ctx := context.Background()
	s := New(clock.NewFixed(now))
	room := &model.Room{Number: 7, Type: model.RoomTypeNonAC}
	require.NoError(t, s.CreateRoom(ctx, room))

	ok, err := s.TransitionRoomStatus(ctx, room.ID, model.RoomStatusExtensionDue, model.RoomStatusOccupied)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.TransitionRoomStatus(ctx, room.ID, model.RoomStatusOccupied, model.RoomStatusAvailable)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := s.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoomStatusOccupied, got.Status)
}

func TestWithinTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := New(clock.NewFixed(now))
	room := &model.Room{Number: 12, Type: model.RoomTypeAC}
	require.NoError(t, s.CreateRoom(ctx, room))

	boom := errors.New("boom")
	err := s.WithinTx(ctx, func(ctx context.Context, tx store.Store) error {
		if _, err := tx.TransitionRoomStatus(ctx, room.ID, model.RoomStatusOccupied); err != nil {
			return err
		}
		if err := tx.CreateBooking(ctx, &model.Booking{RoomID: room.ID}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoomStatusAvailable, got.Status)

	active, err := s.ListActiveBookings(ctx, &room.ID)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestFailNextIsOneShot(t *testing.T) {
	ctx := context.Background()
	s := New(clock.NewFixed(now))
	boom := errors.New("db down")

	s.FailNext("GetRoom", boom)
	_, err := s.GetRoom(ctx, uuid.New())
	require.ErrorIs(t, err, boom)

	room, err := s.GetRoom(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, room)
}

func TestAdvanceBookingTransitionsOnlyFromPending(t *testing.T) {
	ctx := context.Background()
	s := New(clock.NewFixed(now))
	a := &model.AdvanceBooking{GuestName: "Ravi", Status: model.AdvanceBookingStatusPending, NumberOfRooms: 1}
	require.NoError(t, s.CreateAdvanceBooking(ctx, a))

	ok, err := s.CancelAdvanceBooking(ctx, a.ID, decimal.NewFromInt(100), model.PaymentChannelCash, now)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.CompleteAdvanceBooking(ctx, a.ID, nil, now)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := s.GetAdvanceBooking(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AdvanceBookingStatusCancelled, got.Status)
	assert.True(t, decimal.NewFromInt(100).Equal(got.RefundAmount))
}

func TestReceiptsBetweenIsHalfOpen(t *testing.T) {
	ctx := context.Background()
	s := New(clock.NewFixed(now))
	_, b := newRoomWithBooking(t, s)

	for _, ts := range []time.Time{now.Add(-time.Hour), now, now.Add(time.Hour)} {
		require.NoError(t, s.AppendLedgerEntry(ctx, &model.LedgerEntry{
			BookingID: b.ID, Kind: model.EntryKindAdvance, Amount: decimal.NewFromInt(10),
			Channel: model.PaymentChannelCash, Timestamp: ts,
		}))
	}

	got, err := s.ListReceiptsBetween(ctx, now, now.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, now, got[0].Timestamp)
}
