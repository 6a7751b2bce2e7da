package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Freeeeeet/frontdesk/internal/model"
	"github.com/Freeeeeet/frontdesk/internal/repository/base"
)

// LedgerRepository журнал заселений и покупки в магазине
type LedgerRepository struct {
	*base.Repository
}

func NewLedgerRepository(db base.DBTX) *LedgerRepository {
	return &LedgerRepository{Repository: base.NewRepository(db)}
}

const entryColumns = `id, booking_id, kind, amount, channel, ts, description`

// AppendLedgerEntry добавляет запись в журнал
func (r *LedgerRepository) AppendLedgerEntry(ctx context.Context, e *model.LedgerEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}

	query := `
		INSERT INTO ledger_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.DB().Exec(ctx, query,
		e.ID,
		e.BookingID,
		e.Kind,
		e.Amount,
		e.Channel,
		e.Timestamp,
		e.Description,
	)
	if err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}

	return nil
}

// ListLedgerEntries получает журнал заселения по возрастанию времени
func (r *LedgerRepository) ListLedgerEntries(ctx context.Context, bookingID uuid.UUID) ([]model.LedgerEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM ledger_entries
		WHERE booking_id = $1
		ORDER BY ts, id
	`

	rows, err := r.Query(ctx, query, bookingID)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	return collectEntries(rows)
}

// ListReceiptsBetween получает поступления всех заселений за период
func (r *LedgerRepository) ListReceiptsBetween(ctx context.Context, from, to time.Time) ([]model.LedgerEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM ledger_entries
		WHERE kind IN ('initial', 'advance') AND ts >= $1 AND ts < $2
		ORDER BY ts, id
	`

	rows, err := r.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("list receipts between: %w", err)
	}
	return collectEntries(rows)
}

func collectEntries(rows pgx.Rows) ([]model.LedgerEntry, error) {
	defer rows.Close()

	var entries []model.LedgerEntry
	for rows.Next() {
		var e model.LedgerEntry
		err := rows.Scan(
			&e.ID,
			&e.BookingID,
			&e.Kind,
			&e.Amount,
			&e.Channel,
			&e.Timestamp,
			&e.Description,
		)
		if err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// ListShopPurchases получает покупки заселения
func (r *LedgerRepository) ListShopPurchases(ctx context.Context, bookingID uuid.UUID) ([]model.ShopPurchase, error) {
	query := `
		SELECT id, booking_id, inventory_id, item_name, quantity, amount, payment_status, created_at
		FROM shop_purchases
		WHERE booking_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.Query(ctx, query, bookingID)
	if err != nil {
		return nil, fmt.Errorf("list shop purchases: %w", err)
	}
	defer rows.Close()

	var purchases []model.ShopPurchase
	for rows.Next() {
		var p model.ShopPurchase
		err := rows.Scan(
			&p.ID,
			&p.BookingID,
			&p.InventoryID,
			&p.ItemName,
			&p.Quantity,
			&p.Amount,
			&p.PaymentStatus,
			&p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan shop purchase: %w", err)
		}
		purchases = append(purchases, p)
	}

	return purchases, rows.Err()
}

// CreateShopPurchase сохраняет покупку
func (r *LedgerRepository) CreateShopPurchase(ctx context.Context, p *model.ShopPurchase) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}

	query := `
		INSERT INTO shop_purchases (id, booking_id, inventory_id, item_name, quantity, amount, payment_status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.DB().Exec(ctx, query,
		p.ID,
		p.BookingID,
		p.InventoryID,
		p.ItemName,
		p.Quantity,
		p.Amount,
		p.PaymentStatus,
		p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create shop purchase: %w", err)
	}

	return nil
}
