package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Freeeeeet/frontdesk/internal/apperr"
	"github.com/Freeeeeet/frontdesk/internal/clock"
	"github.com/Freeeeeet/frontdesk/internal/events"
	"github.com/Freeeeeet/frontdesk/internal/model"
	"github.com/Freeeeeet/frontdesk/internal/store"
)

const defaultCollectionLogsLimit = 20

// CollectionTotals деньги в кассе с момента последней инкассации
type CollectionTotals struct {
	Cash       decimal.Decimal `json:"cash"`
	Electronic decimal.Decimal `json:"electronic"`
	Total      decimal.Decimal `json:"total"`
	Since      *time.Time      `json:"since,omitempty"`
}

// DailySummary итог дня: поступления по заселениям и возвраты по броням
type DailySummary struct {
	Date               string          `json:"date"`
	CashReceipts       decimal.Decimal `json:"cash_receipts"`
	ElectronicReceipts decimal.Decimal `json:"electronic_receipts"`
	Refunds            decimal.Decimal `json:"refunds"` // отрицательная сумма
	NetCash            decimal.Decimal `json:"net_cash"`
	NetElectronic      decimal.Decimal `json:"net_electronic"`
	Total              decimal.Decimal `json:"total"`
	ReceiptCount       int             `json:"receipt_count"`
}

// PaymentService касса: инкассация и дневные итоги
type PaymentService struct {
	store    store.Store
	clock    clock.Clock
	location *time.Location
	notifier
}

func NewPaymentService(st store.Store, clk clock.Clock, location *time.Location, events Publisher, logger *zap.Logger) *PaymentService {
	if location == nil {
		location = time.UTC
	}
	return &PaymentService{
		store:    st,
		clock:    clk,
		location: location,
		notifier: newNotifier(events, nil, logger),
	}
}

// Location часовой пояс, в котором считаются дневные итоги
func (s *PaymentService) Location() *time.Location {
	return s.location
}

// PendingCollection суммы поступлений после последней инкассации
func (s *PaymentService) PendingCollection(ctx context.Context) (*CollectionTotals, error) {
	return s.pendingCollection(ctx, s.store)
}

func (s *PaymentService) pendingCollection(ctx context.Context, st store.Store) (*CollectionTotals, error) {
	latest, err := st.LatestCollectionLog(ctx)
	if err != nil {
		return nil, apperr.Store("latest collection log", err)
	}

	totals := &CollectionTotals{}
	var from time.Time
	if latest != nil {
		// БД хранит микросекунды: поступления в момент инкассации уже в ней учтены
		from = latest.CollectedAt.Add(time.Microsecond)
		since := latest.CollectedAt
		totals.Since = &since
	}

	receipts, err := st.ListReceiptsBetween(ctx, from, s.clock.Now().Add(time.Microsecond))
	if err != nil {
		return nil, apperr.Store("list receipts", err)
	}

	for _, e := range receipts {
		if !e.Amount.IsPositive() {
			continue
		}
		switch e.Channel {
		case model.PaymentChannelCash:
			totals.Cash = totals.Cash.Add(e.Amount)
		case model.PaymentChannelElectronic:
			totals.Electronic = totals.Electronic.Add(e.Amount)
		}
	}
	totals.Total = totals.Cash.Add(totals.Electronic)

	return totals, nil
}

// Collect фиксирует инкассацию текущих сумм и обнуляет счётчики
func (s *PaymentService) Collect(ctx context.Context) (*model.CollectionLog, error) {
	var log *model.CollectionLog
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx store.Store) error {
		totals, err := s.pendingCollection(ctx, tx)
		if err != nil {
			return err
		}
		if totals.Total.IsZero() {
			return apperr.Invalid("amount", "nothing to collect")
		}

		log = &model.CollectionLog{
			CashAmount:       totals.Cash,
			ElectronicAmount: totals.Electronic,
			TotalAmount:      totals.Total,
			CollectedAt:      s.clock.Now(),
		}
		return apperr.Store("create collection log", tx.CreateCollectionLog(ctx, log))
	})
	if err != nil {
		if isDomain(err) {
			s.logger.Warn("Collection rejected", zap.Error(err))
		} else {
			s.logger.Error("Collection failed", zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("Collection recorded",
		zap.String("cash", money(log.CashAmount)),
		zap.String("electronic", money(log.ElectronicAmount)),
		zap.String("total", money(log.TotalAmount)),
	)
	s.publish(ctx, events.CollectionRecorded, log)

	return log, nil
}

// CollectionLogs история инкассаций, новые первыми
func (s *PaymentService) CollectionLogs(ctx context.Context, limit int) ([]model.CollectionLog, error) {
	if limit <= 0 {
		limit = defaultCollectionLogsLimit
	}
	logs, err := s.store.ListCollectionLogs(ctx, limit)
	if err != nil {
		return nil, apperr.Store("list collection logs", err)
	}
	return logs, nil
}

// DailySummary итоги за календарный день в часовом поясе отеля.
// Копии оплат за дома в общем журнале не учитываются: они уже есть в журналах заселений.
// Нулевая дата означает сегодня
func (s *PaymentService) DailySummary(ctx context.Context, date time.Time) (*DailySummary, error) {
	if date.IsZero() {
		date = s.clock.Now()
	}
	local := date.In(s.location)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.location)
	end := start.AddDate(0, 0, 1)

	receipts, err := s.store.ListReceiptsBetween(ctx, start, end)
	if err != nil {
		return nil, apperr.Store("list receipts", err)
	}
	records, err := s.store.ListPaymentRecords(ctx, start, end)
	if err != nil {
		return nil, apperr.Store("list payment records", err)
	}

	sum := &DailySummary{Date: start.Format("2006-01-02")}
	for _, e := range receipts {
		if !e.Amount.IsPositive() {
			continue
		}
		switch e.Channel {
		case model.PaymentChannelCash:
			sum.CashReceipts = sum.CashReceipts.Add(e.Amount)
		case model.PaymentChannelElectronic:
			sum.ElectronicReceipts = sum.ElectronicReceipts.Add(e.Amount)
		default:
			continue
		}
		sum.ReceiptCount++
	}

	sum.NetCash = sum.CashReceipts
	sum.NetElectronic = sum.ElectronicReceipts
	for _, r := range records {
		if r.Kind != model.PaymentRecordRefund {
			continue
		}
		sum.Refunds = sum.Refunds.Add(r.Amount)
		switch r.Channel {
		case model.PaymentChannelCash:
			sum.NetCash = sum.NetCash.Add(r.Amount)
		case model.PaymentChannelElectronic:
			sum.NetElectronic = sum.NetElectronic.Add(r.Amount)
		}
	}
	sum.Total = sum.NetCash.Add(sum.NetElectronic)

	return sum, nil
}
