package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Freeeeeet/frontdesk/internal/clock"
	"github.com/Freeeeeet/frontdesk/internal/model"
	"github.com/Freeeeeet/frontdesk/internal/repository/memory"
	"github.com/Freeeeeet/frontdesk/internal/service"
)

var start = time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)

// fakeExpiry считает вызовы; с next передаёт проход настоящему сервису
type fakeExpiry struct {
	mu    sync.Mutex
	calls int
	due   []service.DueRoom
	err   error
	next  ExpiryChecker
}

func (f *fakeExpiry) MarkExtensionDue(ctx context.Context) ([]service.DueRoom, error) {
	f.mu.Lock()
	f.calls++
	next := f.next
	f.mu.Unlock()

	if next != nil {
		return next.MarkExtensionDue(ctx)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.due, f.err
}

func (f *fakeExpiry) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeNotifier struct {
	mu    sync.Mutex
	rooms [][]service.DueRoom
}

func (f *fakeNotifier) NotifyExtensionDue(_ context.Context, rooms []service.DueRoom) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rooms = append(f.rooms, rooms)
}

func (f *fakeNotifier) Batches() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rooms)
}

// waitTicker ждёт, пока планировщик заведёт тикер на часах
func waitTicker(t *testing.T, clk *clock.ManualClock) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, clk.BlockUntilContext(ctx, 1))
}

func waitCalls(t *testing.T, expiry *fakeExpiry, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return expiry.Calls() == n }, time.Second, 5*time.Millisecond)
}

func TestRunOnceNotifiesOnlyWhenRoomsAreDue(t *testing.T) {
	expiry := &fakeExpiry{}
	notifier := &fakeNotifier{}
	s := NewScheduler(expiry, notifier, clock.NewManual(start), time.Minute, zap.NewNop())

	assert.Empty(t, s.RunOnce(context.Background()))
	assert.Empty(t, notifier.rooms)

	expiry.due = []service.DueRoom{{RoomID: uuid.New(), RoomNumber: 101}}
	due := s.RunOnce(context.Background())
	require.Len(t, due, 1)
	require.Len(t, notifier.rooms, 1)
	assert.Equal(t, 101, notifier.rooms[0][0].RoomNumber)
}

func TestRunOnceNotifiesPartialResultsOnError(t *testing.T) {
	expiry := &fakeExpiry{
		due: []service.DueRoom{{RoomNumber: 102}},
		err: errors.New("one room failed"),
	}
	notifier := &fakeNotifier{}
	s := NewScheduler(expiry, notifier, clock.NewManual(start), time.Minute, zap.NewNop())

	due := s.RunOnce(context.Background())
	assert.Len(t, due, 1)
	assert.Len(t, notifier.rooms, 1)
}

func TestSchedulerRunsImmediatelyAndStops(t *testing.T) {
	expiry := &fakeExpiry{}
	s := NewScheduler(expiry, nil, clock.NewManual(start), time.Hour, zap.NewNop())

	s.Start(context.Background())
	require.Eventually(t, func() bool { return expiry.Calls() == 1 }, time.Second, 5*time.Millisecond)

	s.Stop()
	s.Stop()
	assert.Equal(t, 1, expiry.Calls())
}

func TestSchedulerStopsOnContextCancel(t *testing.T) {
	expiry := &fakeExpiry{}
	s := NewScheduler(expiry, nil, clock.NewManual(start), time.Hour, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after context cancel")
	}
}

func TestSchedulerRerunsOnEveryTick(t *testing.T) {
	clk := clock.NewManual(start)
	expiry := &fakeExpiry{}
	s := NewScheduler(expiry, nil, clk, time.Hour, zap.NewNop())

	s.Start(context.Background())
	t.Cleanup(s.Stop)
	waitCalls(t, expiry, 1)
	waitTicker(t, clk)

	clk.Advance(59 * time.Minute)
	assert.Never(t, func() bool { return expiry.Calls() > 1 }, 50*time.Millisecond, 5*time.Millisecond)

	clk.Advance(time.Minute)
	waitCalls(t, expiry, 2)

	clk.Advance(time.Hour)
	waitCalls(t, expiry, 3)
}

func TestSchedulerFlipsRoomOnceStayRunsOut(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewManual(start)
	st := memory.New(clk)
	logger := zap.NewNop()

	room, err := service.NewRoomService(st, nil, logger).CreateRoom(ctx, &model.Room{Number: 101, Type: model.RoomTypeAC, Floor: "1"})
	require.NoError(t, err)
	desk := service.NewFrontDeskService(st, clk, nil, nil, logger)
	_, err = desk.CheckIn(ctx, room.ID,
		model.GuestInfo{Name: "Asha Nair", Phone: "9876543210", NumberOfGuests: 1},
		decimal.NewFromInt(1000), decimal.NewFromInt(1000), model.PaymentChannelCash)
	require.NoError(t, err)

	status := func() model.RoomStatus {
		r, err := st.GetRoom(ctx, room.ID)
		require.NoError(t, err)
		return r.Status
	}

	expiry := &fakeExpiry{next: service.NewExpiryService(st, clk, nil, nil, logger)}
	notifier := &fakeNotifier{}
	s := NewScheduler(expiry, notifier, clk, 8*time.Hour, logger)
	s.Start(ctx)
	t.Cleanup(s.Stop)
	waitCalls(t, expiry, 1)
	waitTicker(t, clk)

	// 8ч и 16ч после заселения: сутки ещё оплачены
	clk.Advance(8 * time.Hour)
	waitCalls(t, expiry, 2)
	clk.Advance(8 * time.Hour)
	waitCalls(t, expiry, 3)
	assert.Equal(t, model.RoomStatusOccupied, status())
	assert.Zero(t, notifier.Batches())

	// ровно 24ч: now == validUntil
	clk.Advance(8 * time.Hour)
	waitCalls(t, expiry, 4)
	require.Eventually(t, func() bool { return notifier.Batches() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, model.RoomStatusExtensionDue, status())
	assert.Equal(t, 101, notifier.rooms[0][0].RoomNumber)
}
