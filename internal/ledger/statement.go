package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Freeeeeet/frontdesk/internal/model"
)

type LineKind string

const (
	LineRent     LineKind = "rent"
	LineReceipt  LineKind = "receipt"
	LineCharge   LineKind = "charge"
	LinePurchase LineKind = "purchase"
)

// StatementLine строка истории оплат для экрана заселения
type StatementLine struct {
	Kind        LineKind             `json:"kind"`
	EntryKind   model.EntryKind      `json:"entry_kind,omitempty"`
	Amount      decimal.Decimal      `json:"amount"`
	Channel     model.PaymentChannel `json:"channel"`
	Timestamp   time.Time            `json:"timestamp"`
	Description string               `json:"description,omitempty"`
}

// Statement собирает историю: строка аренды при заселении, записи журнала
// и покупки, по возрастанию времени. Суммы начислений по модулю
func Statement(b *model.Booking, entries []model.LedgerEntry, purchases []model.ShopPurchase) ([]StatementLine, error) {
	sum, err := Reconcile(b, entries, purchases)
	if err != nil {
		return nil, err
	}

	lines := make([]StatementLine, 0, len(entries)+len(purchases)+1)
	lines = append(lines, StatementLine{
		Kind:        LineRent,
		Amount:      sum.BaseCharge,
		Channel:     model.PaymentChannelNotApplicable,
		Timestamp:   b.CheckedInAt,
		Description: "Rent (check-in)",
	})

	for _, e := range entries {
		c, _ := Classify(e)
		line := StatementLine{
			EntryKind:   e.Kind,
			Amount:      c.Magnitude,
			Channel:     c.Channel,
			Timestamp:   e.Timestamp,
			Description: e.Description,
		}
		if c.IsCharge {
			line.Kind = LineCharge
		} else {
			line.Kind = LineReceipt
		}
		lines = append(lines, line)
	}

	for _, p := range purchases {
		lines = append(lines, StatementLine{
			Kind:        LinePurchase,
			Amount:      p.Amount.Abs(),
			Channel:     model.PaymentChannelNotApplicable,
			Timestamp:   p.CreatedAt,
			Description: p.ItemName,
		})
	}

	// строка аренды всегда первая
	rest := lines[1:]
	sort.SliceStable(rest, func(i, j int) bool {
		return rest[i].Timestamp.Before(rest[j].Timestamp)
	})

	return lines, nil
}
