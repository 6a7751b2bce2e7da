package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/Freeeeeet/frontdesk/internal/model"
)

// Summary итог сверки по заселению
type Summary struct {
	BaseCharge         decimal.Decimal `json:"base_charge"`      // аренда при заселении
	EntryCharges       decimal.Decimal `json:"entry_charges"`    // продления, сборы, покупки из журнала
	PurchaseCharges    decimal.Decimal `json:"purchase_charges"` // покупки из магазина
	TotalCharges       decimal.Decimal `json:"total_charges"`
	TotalReceipts      decimal.Decimal `json:"total_receipts"`
	CashReceipts       decimal.Decimal `json:"cash_receipts"`
	ElectronicReceipts decimal.Decimal `json:"electronic_receipts"`
	Pending            decimal.Decimal `json:"pending"`
	// ExcludedReceipts поступления с каналом n/a, не вошедшие в итог
	ExcludedReceipts int `json:"excluded_receipts"`
}

// Settled true если долга нет
func (s Summary) Settled() bool {
	return !s.Pending.IsPositive()
}

// Reconcile сворачивает журнал заселения в начисления, поступления и остаток.
//
// booking.Rent уже включает все начисления из журнала, поэтому базовая аренда
// восстанавливается вычитанием. Поступления берутся только из журнала,
// booking.AmountReceived не используется. Остаток не бывает отрицательным:
// переплата разбирается на ресепшене вручную.
func Reconcile(booking *model.Booking, entries []model.LedgerEntry, purchases []model.ShopPurchase) (Summary, error) {
	var s Summary

	for _, e := range entries {
		c, err := Classify(e)
		if err != nil {
			return Summary{}, err
		}

		switch {
		case c.IsCharge:
			s.EntryCharges = s.EntryCharges.Add(c.Magnitude)
		case c.IsReceipt:
			switch c.Channel {
			case model.PaymentChannelCash:
				s.CashReceipts = s.CashReceipts.Add(c.Magnitude)
			case model.PaymentChannelElectronic:
				s.ElectronicReceipts = s.ElectronicReceipts.Add(c.Magnitude)
			default:
				s.ExcludedReceipts++
			}
		}
	}

	for _, p := range purchases {
		s.PurchaseCharges = s.PurchaseCharges.Add(p.Amount.Abs())
	}

	s.BaseCharge = booking.Rent.Sub(s.EntryCharges)
	s.TotalCharges = s.BaseCharge.Add(s.EntryCharges).Add(s.PurchaseCharges)
	s.TotalReceipts = s.CashReceipts.Add(s.ElectronicReceipts)
	s.Pending = decimal.Max(decimal.Zero, s.TotalCharges.Sub(s.TotalReceipts))

	return s, nil
}

// DeriveTotals считает Rent и AmountReceived заселения из журнала.
// Используется адаптерами хранилища, где аренда не хранится, а вычисляется при чтении
func DeriveTotals(b *model.Booking, entries []model.LedgerEntry) {
	rent := b.BaseRent
	received := decimal.Zero
	for _, e := range entries {
		switch {
		case IsChargeKind(e.Kind):
			rent = rent.Add(e.Amount.Abs())
		case IsReceiptKind(e.Kind):
			received = received.Add(e.Amount)
		}
	}
	b.Rent = rent
	b.AmountReceived = received
}
