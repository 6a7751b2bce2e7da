package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Freeeeeet/frontdesk/internal/clock"
	"github.com/Freeeeeet/frontdesk/internal/service"
)

// ExpiryChecker переводит номера с истёкшими сутками в extension-due
type ExpiryChecker interface {
	MarkExtensionDue(ctx context.Context) ([]service.DueRoom, error)
}

// DueNotifier сообщает персоналу о номерах, ждущих продления
type DueNotifier interface {
	NotifyExtensionDue(ctx context.Context, rooms []service.DueRoom)
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	expiry   ExpiryChecker
	notifier DueNotifier
	clock    clock.Clock
	interval time.Duration
	logger   *zap.Logger
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewScheduler создаёт новый планировщик. notifier может быть nil
func NewScheduler(expiry ExpiryChecker, notifier DueNotifier, clk clock.Clock, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		expiry:   expiry,
		notifier: notifier,
		clock:    clk,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler", zap.Duration("expiry_interval", s.interval))

	s.wg.Add(1)
	go s.runExpiryTask(ctx)
}

// Stop останавливает фоновые задачи и ждёт их завершения
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("Stopping background scheduler")
		close(s.stopChan)
	})
	s.wg.Wait()
}

// runExpiryTask периодически проверяет истёкшие сутки
func (s *Scheduler) runExpiryTask(ctx context.Context) {
	defer s.wg.Done()

	// Первый запуск сразу при старте
	s.RunOnce(ctx)

	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.Chan():
			s.RunOnce(ctx)
		case <-s.stopChan:
			s.logger.Info("Expiry task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Expiry task cancelled")
			return
		}
	}
}

// RunOnce один проход проверки
func (s *Scheduler) RunOnce(ctx context.Context) []service.DueRoom {
	due, err := s.expiry.MarkExtensionDue(ctx)
	if err != nil {
		s.logger.Error("Failed to check stay expiry", zap.Error(err))
	}

	if len(due) > 0 && s.notifier != nil {
		s.notifier.NotifyExtensionDue(ctx, due)
	}
	return due
}
