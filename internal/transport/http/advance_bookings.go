package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Freeeeeet/frontdesk/internal/apperr"
	"github.com/Freeeeeet/frontdesk/internal/model"
	"github.com/Freeeeeet/frontdesk/internal/service"
)

const dateLayout = "2006-01-02"

type advanceBookingHandler struct {
	advance *service.AdvanceBookingService
	logger  *zap.Logger
}

type advanceBookingRequest struct {
	GuestName      string               `json:"guest_name"`
	Phone          string               `json:"phone"`
	IDNumber       string               `json:"id_number"`
	DateOfBooking  string               `json:"date_of_booking"` // YYYY-MM-DD
	RoomType       model.RoomType       `json:"room_type"`
	NumberOfRooms  int                  `json:"number_of_rooms"`
	PricePerRoom   decimal.Decimal      `json:"price_per_room"`
	AdvanceAmount  decimal.Decimal      `json:"advance_amount"`
	PaymentChannel model.PaymentChannel `json:"payment_channel"`
}

// GET /v1/advance-bookings?status=pending,completed
func (h *advanceBookingHandler) list(c *gin.Context) {
	var statuses []model.AdvanceBookingStatus
	if raw := c.Query("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			statuses = append(statuses, model.AdvanceBookingStatus(strings.TrimSpace(s)))
		}
	}

	list, err := h.advance.List(c.Request.Context(), statuses...)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, list)
}

func (h *advanceBookingHandler) create(c *gin.Context) {
	var req advanceBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	date, err := time.Parse(dateLayout, req.DateOfBooking)
	if err != nil {
		fail(c, h.logger, apperr.Invalid("date_of_booking", "must be YYYY-MM-DD"))
		return
	}

	a, err := h.advance.Create(c.Request.Context(), &model.AdvanceBooking{
		GuestName:      req.GuestName,
		Phone:          req.Phone,
		IDNumber:       req.IDNumber,
		DateOfBooking:  date,
		RoomType:       req.RoomType,
		NumberOfRooms:  req.NumberOfRooms,
		PricePerRoom:   req.PricePerRoom,
		AdvanceAmount:  req.AdvanceAmount,
		PaymentChannel: req.PaymentChannel,
	})
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusCreated, a)
}

func (h *advanceBookingHandler) get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	a, err := h.advance.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, a)
}

func (h *advanceBookingHandler) availableRooms(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	rooms, err := h.advance.AvailableRooms(c.Request.Context(), id)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, rooms)
}

type completeRequest struct {
	RoomIDs []uuid.UUID `json:"room_ids"`
}

func (h *advanceBookingHandler) complete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	var req completeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	a, err := h.advance.Complete(c.Request.Context(), id, req.RoomIDs)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, a)
}

type cancelRequest struct {
	RefundAmount  decimal.Decimal      `json:"refund_amount"`
	RefundChannel model.PaymentChannel `json:"refund_channel"`
}

func (h *advanceBookingHandler) cancel(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	var req cancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	a, err := h.advance.Cancel(c.Request.Context(), id, req.RefundAmount, req.RefundChannel)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, a)
}
