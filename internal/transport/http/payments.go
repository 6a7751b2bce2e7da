package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Freeeeeet/frontdesk/internal/apperr"
	"github.com/Freeeeeet/frontdesk/internal/service"
)

type paymentHandler struct {
	payments *service.PaymentService
	logger   *zap.Logger
}

func (h *paymentHandler) pending(c *gin.Context) {
	totals, err := h.payments.PendingCollection(c.Request.Context())
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, totals)
}

func (h *paymentHandler) collect(c *gin.Context) {
	log, err := h.payments.Collect(c.Request.Context())
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusCreated, log)
}

// GET /v1/payments/collections?limit=20
func (h *paymentHandler) collections(c *gin.Context) {
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	logs, err := h.payments.CollectionLogs(c.Request.Context(), limit)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, logs)
}

// GET /v1/payments/daily?date=YYYY-MM-DD, без даты сегодняшний день
func (h *paymentHandler) daily(c *gin.Context) {
	var date time.Time
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation(dateLayout, raw, h.payments.Location())
		if err != nil {
			fail(c, h.logger, apperr.Invalid("date", "must be YYYY-MM-DD"))
			return
		}
		date = parsed
	}

	sum, err := h.payments.DailySummary(c.Request.Context(), date)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, sum)
}
