package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type EntryKind string

const (
	EntryKindInitial      EntryKind = "initial"       // оплата при заселении
	EntryKindAdvance      EntryKind = "advance"       // дополнительная оплата
	EntryKindExtension    EntryKind = "extension"     // продление на сутки
	EntryKindExtraFee     EntryKind = "extra-fee"     // доп. сбор (дома)
	EntryKindShopPurchase EntryKind = "shop-purchase" // покупка в магазине
)

type PaymentChannel string

const (
	PaymentChannelCash          PaymentChannel = "cash"
	PaymentChannelElectronic    PaymentChannel = "electronic"
	PaymentChannelNotApplicable PaymentChannel = "n/a"
)

// IsMoney true для каналов, по которым реально приходят деньги
func (c PaymentChannel) IsMoney() bool {
	return c == PaymentChannelCash || c == PaymentChannelElectronic
}

// LedgerEntry строка журнала бронирования. После записи не меняется
type LedgerEntry struct {
	ID          uuid.UUID       `json:"id"`
	BookingID   uuid.UUID       `json:"booking_id"`
	Kind        EntryKind       `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	Channel     PaymentChannel  `json:"channel"`
	Timestamp   time.Time       `json:"timestamp"`
	Description string          `json:"description,omitempty"`
}
