package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShopPurchase покупка гостя в магазине. Пишется модулем склада, здесь только читается
type ShopPurchase struct {
	ID            uuid.UUID       `json:"id"`
	BookingID     uuid.UUID       `json:"booking_id"`
	InventoryID   string          `json:"inventory_id"`
	ItemName      string          `json:"item_name"`
	Quantity      int             `json:"quantity"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentStatus string          `json:"payment_status"`
	CreatedAt     time.Time       `json:"created_at"`
}

type PaymentRecordKind string

const (
	PaymentRecordRefund       PaymentRecordKind = "refund"         // возврат по отменённой брони
	PaymentRecordHouseCheckIn PaymentRecordKind = "house-check-in" // копия первой оплаты за дом
	PaymentRecordHouseReceipt PaymentRecordKind = "house-receipt"  // копия доп. оплаты за дом
)

// PaymentRecord запись общего журнала платежей (вне журнала конкретного заселения)
type PaymentRecord struct {
	ID           uuid.UUID         `json:"id"`
	Kind         PaymentRecordKind `json:"kind"`
	Amount       decimal.Decimal   `json:"amount"` // со знаком: возвраты отрицательные
	Channel      PaymentChannel    `json:"channel"`
	CustomerName string            `json:"customer_name"`
	Reference    string            `json:"reference"` // номер комнаты, название дома или "Cancelled Booking"
	Note         string            `json:"note,omitempty"`
	Timestamp    time.Time         `json:"timestamp"`
}

// CollectionLog снимок сумм, забранных из кассы
type CollectionLog struct {
	ID               uuid.UUID       `json:"id"`
	CashAmount       decimal.Decimal `json:"cash_amount"`
	ElectronicAmount decimal.Decimal `json:"electronic_amount"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	CollectedAt      time.Time       `json:"collected_at"`
}
