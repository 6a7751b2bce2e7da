package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Freeeeeet/frontdesk/internal/model"
	"github.com/Freeeeeet/frontdesk/internal/service"
)

type bookingHandler struct {
	desk   *service.FrontDeskService
	logger *zap.Logger
}

type checkInRequest struct {
	model.GuestInfo
	Rent           decimal.Decimal      `json:"rent"`
	InitialReceipt decimal.Decimal      `json:"initial_receipt"`
	Channel        model.PaymentChannel `json:"channel"`
}

// POST /v1/rooms/:id/check-in
func (h *bookingHandler) checkIn(c *gin.Context) {
	roomID, err := pathID(c)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	var req checkInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	b, err := h.desk.CheckIn(c.Request.Context(), roomID, req.GuestInfo, req.Rent, req.InitialReceipt, req.Channel)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusCreated, b)
}

func (h *bookingHandler) ledger(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	view, err := h.desk.BookingLedger(c.Request.Context(), id)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, view)
}

type receiptRequest struct {
	Amount  decimal.Decimal      `json:"amount"`
	Channel model.PaymentChannel `json:"channel"`
}

func (h *bookingHandler) addReceipt(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	var req receiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	entry, err := h.desk.AddReceipt(c.Request.Context(), id, req.Amount, req.Channel)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusCreated, entry)
}

type extendRequest struct {
	Charge decimal.Decimal `json:"charge"`
}

func (h *bookingHandler) extend(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	var req extendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	b, err := h.desk.Extend(c.Request.Context(), id, req.Charge)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, b)
}

type extendHouseRequest struct {
	Days   int             `json:"days"`
	Charge decimal.Decimal `json:"charge"`
}

func (h *bookingHandler) extendHouse(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	var req extendHouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	b, err := h.desk.ExtendHouseStay(c.Request.Context(), id, req.Days, req.Charge)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, b)
}

type extraFeeRequest struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

func (h *bookingHandler) addExtraFee(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	var req extraFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	entry, err := h.desk.AddExtraFee(c.Request.Context(), id, req.Description, req.Amount)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusCreated, entry)
}

type purchaseRequest struct {
	InventoryID string          `json:"inventory_id"`
	ItemName    string          `json:"item_name"`
	Quantity    int             `json:"quantity"`
	Amount      decimal.Decimal `json:"amount"`
}

func (h *bookingHandler) recordPurchase(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	var req purchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	p, err := h.desk.RecordShopPurchase(c.Request.Context(), id, req.InventoryID, req.ItemName, req.Quantity, req.Amount)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusCreated, p)
}

func (h *bookingHandler) checkout(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	b, err := h.desk.Checkout(c.Request.Context(), id)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, b)
}
