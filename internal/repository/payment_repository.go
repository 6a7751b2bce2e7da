package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Freeeeeet/frontdesk/internal/model"
	"github.com/Freeeeeet/frontdesk/internal/repository/base"
)

// PaymentRepository общий журнал платежей и инкассации
type PaymentRepository struct {
	*base.Repository
}

func NewPaymentRepository(db base.DBTX) *PaymentRepository {
	return &PaymentRepository{Repository: base.NewRepository(db)}
}

// AppendPaymentRecord добавляет запись в общий журнал
func (r *PaymentRepository) AppendPaymentRecord(ctx context.Context, rec *model.PaymentRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}

	query := `
		INSERT INTO payment_records (id, kind, amount, channel, customer_name, reference, note, ts)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.DB().Exec(ctx, query,
		rec.ID,
		rec.Kind,
		rec.Amount,
		rec.Channel,
		rec.CustomerName,
		rec.Reference,
		rec.Note,
		rec.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("append payment record: %w", err)
	}

	return nil
}

// ListPaymentRecords записи за период [from, to) по возрастанию времени
func (r *PaymentRepository) ListPaymentRecords(ctx context.Context, from, to time.Time) ([]model.PaymentRecord, error) {
	query := `
		SELECT id, kind, amount, channel, customer_name, reference, note, ts
		FROM payment_records
		WHERE ts >= $1 AND ts < $2
		ORDER BY ts, id
	`

	rows, err := r.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("list payment records: %w", err)
	}
	defer rows.Close()

	var records []model.PaymentRecord
	for rows.Next() {
		var rec model.PaymentRecord
		err := rows.Scan(
			&rec.ID,
			&rec.Kind,
			&rec.Amount,
			&rec.Channel,
			&rec.CustomerName,
			&rec.Reference,
			&rec.Note,
			&rec.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("scan payment record: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// CreateCollectionLog сохраняет инкассацию
func (r *PaymentRepository) CreateCollectionLog(ctx context.Context, l *model.CollectionLog) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}

	query := `
		INSERT INTO collection_logs (id, cash_amount, electronic_amount, total_amount, collected_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.DB().Exec(ctx, query, l.ID, l.CashAmount, l.ElectronicAmount, l.TotalAmount, l.CollectedAt)
	if err != nil {
		return fmt.Errorf("create collection log: %w", err)
	}

	return nil
}

// LatestCollectionLog последняя инкассация
func (r *PaymentRepository) LatestCollectionLog(ctx context.Context) (*model.CollectionLog, error) {
	logs, err := r.ListCollectionLogs(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(logs) == 0 {
		return nil, nil
	}
	return &logs[0], nil
}

// ListCollectionLogs инкассации, новые первыми
func (r *PaymentRepository) ListCollectionLogs(ctx context.Context, limit int) ([]model.CollectionLog, error) {
	query := `
		SELECT id, cash_amount, electronic_amount, total_amount, collected_at
		FROM collection_logs
		ORDER BY collected_at DESC
		LIMIT $1
	`

	rows, err := r.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list collection logs: %w", err)
	}
	defer rows.Close()

	var logs []model.CollectionLog
	for rows.Next() {
		var l model.CollectionLog
		if err := rows.Scan(&l.ID, &l.CashAmount, &l.ElectronicAmount, &l.TotalAmount, &l.CollectedAt); err != nil {
			return nil, fmt.Errorf("scan collection log: %w", err)
		}
		logs = append(logs, l)
	}

	return logs, rows.Err()
}
