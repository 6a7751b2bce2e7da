package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Freeeeeet/frontdesk/internal/clock"
	"github.com/Freeeeeet/frontdesk/internal/events"
	"github.com/Freeeeeet/frontdesk/internal/model"
	"github.com/Freeeeeet/frontdesk/internal/repository/memory"
	"github.com/Freeeeeet/frontdesk/internal/service"
)

var start = time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Pending string          `json:"pending"`
}

type testAPI struct {
	router *gin.Engine
	clock  *clock.ManualClock
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	clk := clock.NewManual(start)
	st := memory.New(clk)
	rec := &events.Recorder{}
	logger := zap.NewNop()

	desk := service.NewFrontDeskService(st, clk, rec, nil, logger)
	svc := Services{
		FrontDesk: desk,
		Advance:   service.NewAdvanceBookingService(st, clk, desk, rec, nil, logger),
		Payments:  service.NewPaymentService(st, clk, time.UTC, rec, logger),
		Rooms:     service.NewRoomService(st, nil, logger),
	}
	return &testAPI{router: NewRouter(svc, nil, logger), clock: clk}
}

func (a *testAPI) do(t *testing.T, method, path string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

func (a *testAPI) createRoom(t *testing.T, number int) model.Room {
	t.Helper()
	code, env := a.do(t, http.MethodPost, "/v1/rooms", gin.H{"number": number, "floor": "1", "type": "ac"})
	require.Equal(t, http.StatusCreated, code, env.Error)
	return decode[model.Room](t, env)
}

func TestHealthz(t *testing.T) {
	a := newTestAPI(t)
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestStayLifecycle(t *testing.T) {
	a := newTestAPI(t)
	room := a.createRoom(t, 101)

	code, env := a.do(t, http.MethodPost, "/v1/rooms/"+room.ID.String()+"/check-in", gin.H{
		"guest_name":       "Asha Nair",
		"phone":            "9876543210",
		"id_number":        "AADHAR-1",
		"number_of_guests": 2,
		"rent":             "1000",
		"initial_receipt":  "400",
		"channel":          "cash",
	})
	require.Equal(t, http.StatusCreated, code, env.Error)
	booking := decode[model.Booking](t, env)
	bookingPath := "/v1/bookings/" + booking.ID.String()

	code, env = a.do(t, http.MethodGet, bookingPath+"/ledger", nil)
	require.Equal(t, http.StatusOK, code)
	view := decode[struct {
		Summary struct {
			Pending decimal.Decimal `json:"pending"`
		} `json:"summary"`
	}](t, env)
	assert.True(t, decimal.NewFromInt(600).Equal(view.Summary.Pending))

	code, env = a.do(t, http.MethodPost, bookingPath+"/checkout", nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.False(t, env.Success)
	assert.Equal(t, "600.00", env.Pending)

	code, env = a.do(t, http.MethodPost, bookingPath+"/receipts", gin.H{"amount": "600", "channel": "electronic"})
	require.Equal(t, http.StatusCreated, code, env.Error)

	code, env = a.do(t, http.MethodPost, bookingPath+"/checkout", nil)
	require.Equal(t, http.StatusOK, code, env.Error)
	assert.True(t, decode[model.Booking](t, env).IsCheckedOut)

	code, env = a.do(t, http.MethodPost, "/v1/rooms/"+room.ID.String()+"/cleaning-done", nil)
	require.Equal(t, http.StatusOK, code, env.Error)

	code, env = a.do(t, http.MethodGet, "/v1/rooms?status=available", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]model.Room](t, env), 1)
}

func TestErrorMapping(t *testing.T) {
	a := newTestAPI(t)

	code, env := a.do(t, http.MethodGet, "/v1/bookings/not-a-uuid/ledger", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.False(t, env.Success)

	code, _ = a.do(t, http.MethodGet, "/v1/bookings/6f1c1d1e-7d7c-4a3b-9f4e-2b1a0c9d8e7f/ledger", nil)
	assert.Equal(t, http.StatusNotFound, code)

	room := a.createRoom(t, 101)
	code, env = a.do(t, http.MethodPost, "/v1/rooms/"+room.ID.String()+"/check-in", gin.H{
		"guest_name": "Asha", "phone": "1", "rent": "-5", "channel": "cash",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, env.Error, "rent")

	code, _ = a.do(t, http.MethodPost, "/v1/rooms/"+room.ID.String()+"/check-in", gin.H{"rent": []int{1}})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = a.do(t, http.MethodPost, "/v1/rooms/"+room.ID.String()+"/cleaning-done", nil)
	assert.Equal(t, http.StatusConflict, code)
}

func TestAdvanceBookingEndpoints(t *testing.T) {
	a := newTestAPI(t)
	r1 := a.createRoom(t, 201)
	r2 := a.createRoom(t, 202)

	code, env := a.do(t, http.MethodPost, "/v1/advance-bookings", gin.H{
		"guest_name":      "Ravi Kumar",
		"phone":           "9000000001",
		"date_of_booking": "2025-03-12",
		"room_type":       "ac",
		"number_of_rooms": 2,
		"price_per_room":  "1500",
		"advance_amount":  "1000",
		"payment_channel": "electronic",
	})
	require.Equal(t, http.StatusCreated, code, env.Error)
	ab := decode[model.AdvanceBooking](t, env)
	path := "/v1/advance-bookings/" + ab.ID.String()

	code, env = a.do(t, http.MethodGet, path+"/available-rooms", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]model.Room](t, env), 2)

	code, env = a.do(t, http.MethodPost, path+"/complete", gin.H{"room_ids": []string{r1.ID.String(), r2.ID.String()}})
	require.Equal(t, http.StatusOK, code, env.Error)
	done := decode[model.AdvanceBooking](t, env)
	assert.Equal(t, model.AdvanceBookingStatusCompleted, done.Status)
	assert.Len(t, done.Rooms, 2)

	code, _ = a.do(t, http.MethodPost, path+"/cancel", gin.H{"refund_amount": "0"})
	assert.Equal(t, http.StatusConflict, code)

	code, env = a.do(t, http.MethodGet, "/v1/advance-bookings?status=completed,cancelled", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]model.AdvanceBooking](t, env), 1)

	code, _ = a.do(t, http.MethodPost, "/v1/advance-bookings", gin.H{"date_of_booking": "12/03/2025"})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestPaymentEndpoints(t *testing.T) {
	a := newTestAPI(t)
	room := a.createRoom(t, 101)
	code, env := a.do(t, http.MethodPost, "/v1/rooms/"+room.ID.String()+"/check-in", gin.H{
		"guest_name": "Asha", "phone": "1", "rent": "1000", "initial_receipt": "700", "channel": "cash",
	})
	require.Equal(t, http.StatusCreated, code, env.Error)

	code, env = a.do(t, http.MethodGet, "/v1/payments/pending", nil)
	require.Equal(t, http.StatusOK, code)
	pending := decode[service.CollectionTotals](t, env)
	assert.True(t, decimal.NewFromInt(700).Equal(pending.Cash))

	a.clock.Advance(time.Minute)
	code, env = a.do(t, http.MethodPost, "/v1/payments/collect", nil)
	require.Equal(t, http.StatusCreated, code, env.Error)

	code, _ = a.do(t, http.MethodPost, "/v1/payments/collect", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = a.do(t, http.MethodGet, "/v1/payments/collections?limit=5", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]model.CollectionLog](t, env), 1)

	code, env = a.do(t, http.MethodGet, "/v1/payments/daily?date=2025-03-10", nil)
	require.Equal(t, http.StatusOK, code)
	sum := decode[service.DailySummary](t, env)
	assert.Equal(t, "2025-03-10", sum.Date)
	assert.True(t, decimal.NewFromInt(700).Equal(sum.NetCash))

	code, _ = a.do(t, http.MethodGet, "/v1/payments/daily?date=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}
