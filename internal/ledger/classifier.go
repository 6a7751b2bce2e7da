// Package ledger содержит расчёты по журналу заселения: классификацию записей,
// сверку начислений и оплат и вычисление срока проживания.
// Пакет не ходит в хранилище и не меняет входные данные.
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/Freeeeeet/frontdesk/internal/apperr"
	"github.com/Freeeeeet/frontdesk/internal/model"
)

// Classification результат классификации записи журнала
type Classification struct {
	IsCharge  bool
	IsReceipt bool
	Channel   model.PaymentChannel
	// Magnitude сумма по модулю. Начисления иногда хранятся со знаком минус
	Magnitude decimal.Decimal
}

// Classify относит запись к начислениям или поступлениям.
//
// Поступление без канала оплаты считается битой записью (MalformedEntryError).
// Неизвестный тип записи возвращает UnclassifiedEntryError: молча пропускать
// такие записи нельзя, иначе занижается остаток к оплате.
func Classify(e model.LedgerEntry) (Classification, error) {
	switch e.Kind {
	case model.EntryKindInitial, model.EntryKindAdvance:
		if e.Channel == "" {
			return Classification{}, &apperr.MalformedEntryError{
				EntryID: e.ID.String(),
				Reason:  "receipt without payment channel",
			}
		}
		if !e.Channel.IsMoney() && e.Channel != model.PaymentChannelNotApplicable {
			return Classification{}, &apperr.MalformedEntryError{
				EntryID: e.ID.String(),
				Reason:  "unknown payment channel " + string(e.Channel),
			}
		}
		return Classification{
			IsReceipt: true,
			Channel:   e.Channel,
			Magnitude: e.Amount,
		}, nil

	case model.EntryKindExtension, model.EntryKindExtraFee, model.EntryKindShopPurchase:
		return Classification{
			IsCharge:  true,
			Channel:   model.PaymentChannelNotApplicable,
			Magnitude: e.Amount.Abs(),
		}, nil
	}

	return Classification{}, &apperr.UnclassifiedEntryError{
		EntryID: e.ID.String(),
		Kind:    string(e.Kind),
	}
}

// IsChargeKind true для типов записей, увеличивающих аренду
func IsChargeKind(k model.EntryKind) bool {
	switch k {
	case model.EntryKindExtension, model.EntryKindExtraFee, model.EntryKindShopPurchase:
		return true
	}
	return false
}

// IsReceiptKind true для типов записей-поступлений
func IsReceiptKind(k model.EntryKind) bool {
	return k == model.EntryKindInitial || k == model.EntryKindAdvance
}
