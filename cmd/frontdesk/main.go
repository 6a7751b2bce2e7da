package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Freeeeeet/frontdesk/internal/app"
	"github.com/Freeeeeet/frontdesk/internal/cache"
	"github.com/Freeeeeet/frontdesk/internal/clock"
	"github.com/Freeeeeet/frontdesk/internal/config"
	"github.com/Freeeeeet/frontdesk/internal/controller"
	"github.com/Freeeeeet/frontdesk/internal/controller/handlers"
	"github.com/Freeeeeet/frontdesk/internal/controller/state"
	"github.com/Freeeeeet/frontdesk/internal/events"
	"github.com/Freeeeeet/frontdesk/internal/repository"
	"github.com/Freeeeeet/frontdesk/internal/repository/memory"
	"github.com/Freeeeeet/frontdesk/internal/service"
	"github.com/Freeeeeet/frontdesk/internal/store"
	httptransport "github.com/Freeeeeet/frontdesk/internal/transport/http"
)

const serviceName = "frontdesk"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := app.NewLogger(cfg.Environment, cfg.LogLevel, serviceName)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Starting front desk",
		zap.String("environment", cfg.Environment),
		zap.String("store", cfg.StoreDriver),
		zap.String("timezone", cfg.Timezone),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Front desk stopped with error", zap.Error(err))
	}
	logger.Info("Front desk stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	clk := clock.NewReal()

	if cfg.OTLPEndpoint != "" {
		shutdown, err := app.InitTracer(ctx, cfg.OTLPEndpoint, serviceName, cfg.Environment, logger)
		if err != nil {
			return err
		}
		defer shutdownWithTimeout(logger, "tracer", shutdown)
	}

	st, closeStore, err := openStore(ctx, cfg, clk, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	var publisher service.Publisher = events.Nop{}
	if cfg.RabbitURL != "" {
		p, err := events.NewPublisher(cfg.RabbitURL, cfg.EventsExchange, logger)
		if err != nil {
			return err
		}
		defer p.Close()
		publisher = p
	}

	var boardCache service.Cache
	if cfg.RedisAddr != "" {
		client, err := cache.NewRedisClient(ctx, cache.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return err
		}
		rc := cache.New(client, cfg.BoardCacheTTL, serviceName, logger)
		defer rc.Close()
		boardCache = rc
	}

	frontDesk := service.NewFrontDeskService(st, clk, publisher, boardCache, logger)
	payments := service.NewPaymentService(st, clk, cfg.Location(), publisher, logger)
	svc := httptransport.Services{
		FrontDesk: frontDesk,
		Advance:   service.NewAdvanceBookingService(st, clk, frontDesk, publisher, boardCache, logger),
		Payments:  payments,
		Rooms:     service.NewRoomService(st, boardCache, logger),
	}
	expiry := service.NewExpiryService(st, clk, publisher, boardCache, logger)

	var notifier app.DueNotifier
	if cfg.TelegramToken != "" {
		h := handlers.NewHandlers(frontDesk, payments, state.NewManager(), cfg.StaffChatIDs, clk, logger)
		botController, err := controller.NewBotController(cfg.TelegramToken, h, cfg.StaffChatIDs, logger)
		if err != nil {
			return err
		}
		if err := botController.RegisterHandlers(ctx); err != nil {
			logger.Warn("Bot commands menu not set", zap.Error(err))
		}
		notifier = botController.Notifier()
		go botController.Start(ctx)
	} else {
		logger.Info("TELEGRAM_TOKEN not set, staff bot disabled")
	}

	scheduler := app.NewScheduler(expiry, notifier, clk, cfg.ExpiryCheckInterval, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	server := httptransport.NewServer(cfg.HTTPAddr, httptransport.NewRouter(svc, cfg.CORSOrigins, logger), logger)
	server.Start()

	<-ctx.Done()
	logger.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
	}
	return nil
}

// openStore выбирает хранилище по STORE_DRIVER
func openStore(ctx context.Context, cfg *config.Config, clk clock.Clock, logger *zap.Logger) (store.Store, func(), error) {
	if cfg.StoreDriver == config.DriverMemory {
		logger.Warn("Using in-memory store, data is lost on restart")
		return memory.New(clk), func() {}, nil
	}

	pool, err := app.NewPool(ctx, cfg.GetDBDSN(), logger)
	if err != nil {
		return nil, nil, err
	}

	if cfg.RunMigrations {
		migrator, err := app.NewMigrator(pool, logger)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		err = migrator.Run(ctx)
		migrator.Close()
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
	}

	return repository.NewStore(pool), pool.Close, nil
}

func shutdownWithTimeout(logger *zap.Logger, name string, shutdown app.ShutdownFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		logger.Error("Shutdown failed", zap.String("component", name), zap.Error(err))
	}
}
