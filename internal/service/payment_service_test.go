package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/frontdesk/internal/apperr"
	"github.com/Freeeeeet/frontdesk/internal/events"
	"github.com/Freeeeeet/frontdesk/internal/model"
)

func TestCollectMovesWatermark(t *testing.T) {
	f := newFixture(t)
	room := f.room(t, 101, model.RoomTypeAC)
	b := f.checkIn(t, room, 1000, 400)

	f.clock.Advance(time.Hour)
	_, err := f.desk.AddReceipt(f.ctx, b.ID, d(250), model.PaymentChannelElectronic)
	require.NoError(t, err)

	pending, err := f.payments.PendingCollection(f.ctx)
	require.NoError(t, err)
	assertDec(t, d(400), pending.Cash)
	assertDec(t, d(250), pending.Electronic)
	assertDec(t, d(650), pending.Total)
	assert.Nil(t, pending.Since)

	log, err := f.payments.Collect(f.ctx)
	require.NoError(t, err)
	assertDec(t, d(650), log.TotalAmount)
	assert.Contains(t, f.events.Keys(), events.CollectionRecorded)

	pending, err = f.payments.PendingCollection(f.ctx)
	require.NoError(t, err)
	assert.True(t, pending.Total.IsZero())
	require.NotNil(t, pending.Since)

	_, err = f.payments.Collect(f.ctx)
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)

	f.clock.Advance(time.Minute)
	_, err = f.desk.AddReceipt(f.ctx, b.ID, d(350), model.PaymentChannelCash)
	require.NoError(t, err)

	pending, err = f.payments.PendingCollection(f.ctx)
	require.NoError(t, err)
	assertDec(t, d(350), pending.Cash)
	assert.True(t, pending.Electronic.IsZero())

	f.clock.Advance(time.Minute)
	_, err = f.payments.Collect(f.ctx)
	require.NoError(t, err)

	logs, err := f.payments.CollectionLogs(f.ctx, 0)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assertDec(t, d(350), logs[0].TotalAmount)
}

func TestDailySummaryNetsRefunds(t *testing.T) {
	f := newFixture(t)
	room := f.room(t, 101, model.RoomTypeAC)
	house := f.room(t, 904, model.RoomTypeHouse)

	f.checkIn(t, room, 1000, 400)
	_, err := f.desk.CheckIn(f.ctx, house.ID, guest(), d(5000), d(2000), model.PaymentChannelElectronic)
	require.NoError(t, err)

	a := f.advanceBooking(t, 1, 1500, 500)
	_, err = f.advance.Cancel(f.ctx, a.ID, d(300), model.PaymentChannelCash)
	require.NoError(t, err)

	sum, err := f.payments.DailySummary(f.ctx, start)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", sum.Date)
	assertDec(t, d(400), sum.CashReceipts)
	assertDec(t, d(2000), sum.ElectronicReceipts)
	assertDec(t, d(-300), sum.Refunds)
	assertDec(t, d(100), sum.NetCash)
	assertDec(t, d(2100), sum.Total)
	assert.Equal(t, 2, sum.ReceiptCount)

	next, err := f.payments.DailySummary(f.ctx, start.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.True(t, next.Total.IsZero())
}
