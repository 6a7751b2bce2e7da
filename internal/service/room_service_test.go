package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/frontdesk/internal/apperr"
	"github.com/Freeeeeet/frontdesk/internal/model"
	"github.com/Freeeeeet/frontdesk/internal/store"
)

func TestRoomMaintenance(t *testing.T) {
	f := newFixture(t)
	room := f.room(t, 101, model.RoomTypeAC)

	require.NoError(t, f.rooms.SetMaintenance(f.ctx, room.ID, true))
	assert.Equal(t, model.RoomStatusMaintenance, f.roomStatus(t, room.ID))

	_, err := f.desk.CheckIn(f.ctx, room.ID, guest(), d(1000), d(0), model.PaymentChannelCash)
	var pe *apperr.PreconditionError
	require.ErrorAs(t, err, &pe)

	require.NoError(t, f.rooms.SetMaintenance(f.ctx, room.ID, false))
	assert.Equal(t, model.RoomStatusAvailable, f.roomStatus(t, room.ID))

	f.checkIn(t, room, 1000, 0)
	err = f.rooms.SetMaintenance(f.ctx, room.ID, true)
	require.ErrorAs(t, err, &pe)
}

func TestRoomValidationAndSummary(t *testing.T) {
	f := newFixture(t)

	_, err := f.rooms.CreateRoom(f.ctx, &model.Room{Number: 0, Type: model.RoomTypeAC})
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)

	_, err = f.rooms.CreateRoom(f.ctx, &model.Room{Number: 905, Type: model.RoomTypeHouse})
	require.ErrorAs(t, err, &ve)

	r1 := f.room(t, 101, model.RoomTypeAC)
	f.room(t, 102, model.RoomTypeNonAC)
	f.checkIn(t, r1, 1000, 0)

	sum, err := f.rooms.Summary(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Total)
	assert.Equal(t, 1, sum.ByStatus[model.RoomStatusOccupied])
	assert.Equal(t, 1, sum.ByStatus[model.RoomStatusAvailable])

	acRooms, err := f.rooms.ListRooms(f.ctx, store.RoomFilter{Type: model.RoomTypeAC})
	require.NoError(t, err)
	require.Len(t, acRooms, 1)
	assert.Equal(t, 101, acRooms[0].Number)

	_, err = f.rooms.ListRooms(f.ctx, store.RoomFilter{Status: "broken"})
	require.ErrorAs(t, err, &ve)
}

func TestUpdateRoom(t *testing.T) {
	f := newFixture(t)
	room := f.room(t, 101, model.RoomTypeAC)

	updated, err := f.rooms.UpdateRoom(f.ctx, &model.Room{ID: room.ID, Number: 111, Floor: "2", Type: model.RoomTypeNonAC})
	require.NoError(t, err)
	assert.Equal(t, 111, updated.Number)
	assert.Equal(t, model.RoomStatusAvailable, updated.Status)

	f.checkIn(t, updated, 1000, 0)
	_, err = f.rooms.UpdateRoom(f.ctx, &model.Room{ID: room.ID, Number: 111, Type: model.RoomTypeAC})
	var pe *apperr.PreconditionError
	require.ErrorAs(t, err, &pe)
}
