package handlers

import (
	"errors"

	"github.com/Freeeeeet/frontdesk/internal/apperr"
	"github.com/Freeeeeet/frontdesk/internal/controller/formatting"
)

// ErrorMessage возвращает сообщение для персонала по ошибке сервиса
func ErrorMessage(err error) string {
	var (
		ve *apperr.ValidationError
		pe *apperr.PreconditionError
		ne *apperr.NotFoundError
		ue *apperr.UnclassifiedEntryError
		me *apperr.MalformedEntryError
	)
	switch {
	case errors.As(err, &ve):
		return "❌ Неверные данные: " + ve.Reason
	case errors.As(err, &ne):
		return "❌ Не найдено: " + ne.Entity
	case errors.As(err, &pe):
		if pe.Pending.IsPositive() {
			return "❌ Операция невозможна, долг " + formatting.FormatMoney(pe.Pending)
		}
		return "❌ Операция невозможна: " + pe.Reason
	case errors.As(err, &ue), errors.As(err, &me):
		return "⚠️ Журнал заселения повреждён, обратитесь к администратору"
	default:
		return "❌ Произошла ошибка. Попробуйте позже."
	}
}
