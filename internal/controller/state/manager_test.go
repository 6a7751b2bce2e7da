package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManagerDialog(t *testing.T) {
	sm := NewManager()
	const id = int64(42)

	assert.Equal(t, StateNone, sm.GetState(id))

	sm.SetData(id, KeyAmount, "100")
	_, ok := sm.GetData(id, KeyAmount)
	assert.False(t, ok, "data outside a dialog is dropped")

	sm.Start(id, StatePayBookingID)
	sm.SetData(id, KeyBookingID, "b-1")
	sm.SetState(id, StatePayAmount)

	assert.Equal(t, StatePayAmount, sm.GetState(id))
	v, ok := sm.GetData(id, KeyBookingID)
	assert.True(t, ok)
	assert.Equal(t, "b-1", v)

	sm.Start(id, StatePayBookingID)
	_, ok = sm.GetData(id, KeyBookingID)
	assert.False(t, ok, "a new dialog starts clean")

	sm.SetState(id, StateNone)
	assert.Equal(t, StateNone, sm.GetState(id))

	sm.Start(id, StatePayAmount)
	sm.ClearState(id)
	assert.Equal(t, StateNone, sm.GetState(id))
}
