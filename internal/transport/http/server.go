// Package http REST API стойки администратора поверх сервисов ядра
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Freeeeeet/frontdesk/internal/service"
)

// Services зависимости обработчиков
type Services struct {
	FrontDesk *service.FrontDeskService
	Advance   *service.AdvanceBookingService
	Payments  *service.PaymentService
	Rooms     *service.RoomService
}

// NewRouter собирает gin-роутер со всеми маршрутами /v1
func NewRouter(svc Services, corsOrigins []string, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(requestLogger(logger), gin.Recovery())

	if len(corsOrigins) > 0 {
		allowCredentials := true
		for _, origin := range corsOrigins {
			if origin == "*" {
				allowCredentials = false
				break
			}
		}
		r.Use(cors.New(cors.Config{
			AllowOrigins:     corsOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: allowCredentials,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	rooms := &roomHandler{rooms: svc.Rooms, desk: svc.FrontDesk, logger: logger}
	bookings := &bookingHandler{desk: svc.FrontDesk, logger: logger}
	advance := &advanceBookingHandler{advance: svc.Advance, logger: logger}
	payments := &paymentHandler{payments: svc.Payments, logger: logger}

	v1 := r.Group("/v1")
	{
		g := v1.Group("/rooms")
		// статичные пути раньше /:id
		g.GET("/board", rooms.board)
		g.GET("/summary", rooms.summary)
		g.GET("", rooms.list)
		g.POST("", rooms.create)
		g.PUT("/:id", rooms.update)
		g.POST("/:id/maintenance", rooms.maintenance)
		g.POST("/:id/cleaning-done", rooms.cleaningDone)
		g.POST("/:id/check-in", bookings.checkIn)
	}
	{
		g := v1.Group("/bookings")
		g.GET("/:id/ledger", bookings.ledger)
		g.POST("/:id/receipts", bookings.addReceipt)
		g.POST("/:id/extend", bookings.extend)
		g.POST("/:id/extend-house", bookings.extendHouse)
		g.POST("/:id/extra-fees", bookings.addExtraFee)
		g.POST("/:id/purchases", bookings.recordPurchase)
		g.POST("/:id/checkout", bookings.checkout)
	}
	{
		g := v1.Group("/advance-bookings")
		g.GET("", advance.list)
		g.POST("", advance.create)
		g.GET("/:id", advance.get)
		g.GET("/:id/available-rooms", advance.availableRooms)
		g.POST("/:id/complete", advance.complete)
		g.POST("/:id/cancel", advance.cancel)
	}
	{
		g := v1.Group("/payments")
		g.GET("/pending", payments.pending)
		g.POST("/collect", payments.collect)
		g.GET("/collections", payments.collections)
		g.GET("/daily", payments.daily)
	}

	return r
}

// Server HTTP-сервер с плавной остановкой
type Server struct {
	srv    *http.Server
	logger *zap.Logger
}

func NewServer(addr string, handler http.Handler, logger *zap.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Start слушает адрес в отдельной горутине
func (s *Server) Start() {
	go func() {
		s.logger.Info("HTTP server started", zap.String("addr", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server failed", zap.Error(err))
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Stopping HTTP server...")
	return s.srv.Shutdown(ctx)
}
