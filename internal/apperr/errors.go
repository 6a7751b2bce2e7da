// Package apperr описывает типизированные ошибки ядра: валидация аргументов,
// нарушенные условия жизненного цикла, повреждённый журнал и сбои хранилища.
// HTTP-слой и бот различают их через errors.As и HTTPStatus.
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
)

// ValidationError неверный аргумент. Всегда до первой записи
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Reason
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

// Invalid создаёт ValidationError
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// PreconditionError не выполнено условие жизненного цикла,
// например выезд при непогашенном остатке
type PreconditionError struct {
	Op        string
	BookingID string
	RoomID    string
	Pending   decimal.Decimal
	Reason    string
}

func (e *PreconditionError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Op, e.Reason)
	if e.BookingID != "" {
		msg += " (booking " + e.BookingID + ")"
	}
	if e.Pending.IsPositive() {
		msg += " pending " + e.Pending.StringFixed(2)
	}
	return msg
}

// UnclassifiedEntryError неизвестный тип записи журнала. Сверка прерывается
type UnclassifiedEntryError struct {
	EntryID string
	Kind    string
}

func (e *UnclassifiedEntryError) Error() string {
	return fmt.Sprintf("ledger entry %s has unknown kind %q", e.EntryID, e.Kind)
}

// MalformedEntryError запись журнала известного типа, но с битыми полями
type MalformedEntryError struct {
	EntryID string
	Reason  string
}

func (e *MalformedEntryError) Error() string {
	return fmt.Sprintf("ledger entry %s is malformed: %s", e.EntryID, e.Reason)
}

// NotFoundError сущность не найдена
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// NotFound создаёт NotFoundError
func NotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// StoreError сбой хранилища. Пробрасывается как есть, без повторов
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Store оборачивает ошибку хранилища. Типизированные ошибки ядра не оборачиваются
func Store(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsDomain(err) {
		return err
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}

// IsDomain true для ошибок, которые ядро формирует само
func IsDomain(err error) bool {
	var (
		ve *ValidationError
		pe *PreconditionError
		ue *UnclassifiedEntryError
		me *MalformedEntryError
		ne *NotFoundError
	)
	return errors.As(err, &ve) || errors.As(err, &pe) || errors.As(err, &ue) ||
		errors.As(err, &me) || errors.As(err, &ne)
}

// HTTPStatus код ответа для ошибки
func HTTPStatus(err error) int {
	var (
		ve *ValidationError
		pe *PreconditionError
		ue *UnclassifiedEntryError
		me *MalformedEntryError
		ne *NotFoundError
	)
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.As(err, &ne):
		return http.StatusNotFound
	case errors.As(err, &pe):
		return http.StatusConflict
	case errors.As(err, &ue), errors.As(err, &me):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// PendingOf возвращает остаток из PreconditionError, если он есть
func PendingOf(err error) (decimal.Decimal, bool) {
	var pe *PreconditionError
	if errors.As(err, &pe) && pe.Pending.IsPositive() {
		return pe.Pending, true
	}
	return decimal.Zero, false
}
