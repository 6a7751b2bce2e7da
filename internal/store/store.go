// Package store описывает хранилище, через которое ядро читает и пишет
// номера, заселения, журнал и платежи. Реализации: repository (PostgreSQL)
// и repository/memory.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Freeeeeet/frontdesk/internal/model"
)

// RoomFilter фильтр списка номеров. Пустые поля не ограничивают выборку
type RoomFilter struct {
	Type   model.RoomType
	Status model.RoomStatus
}

// RoomStore номера и дома
type RoomStore interface {
	// GetRoom возвращает nil, nil если номера нет
	GetRoom(ctx context.Context, id uuid.UUID) (*model.Room, error)
	ListRooms(ctx context.Context, filter RoomFilter) ([]*model.Room, error)
	CreateRoom(ctx context.Context, room *model.Room) error
	UpdateRoom(ctx context.Context, room *model.Room) error
	// TransitionRoomStatus меняет статус только если текущий входит в from.
	// false означает, что статус уже другой и ничего не записано
	TransitionRoomStatus(ctx context.Context, id uuid.UUID, to model.RoomStatus, from ...model.RoomStatus) (bool, error)
}

// BookingStore заселения. Rent и AmountReceived заполняются при чтении из журнала
type BookingStore interface {
	GetBooking(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	// ListActiveBookings активные заселения, по одному номеру если roomID не nil
	ListActiveBookings(ctx context.Context, roomID *uuid.UUID) ([]*model.Booking, error)
	CreateBooking(ctx context.Context, b *model.Booking) error
	SetLastExtension(ctx context.Context, id uuid.UUID, at time.Time) error
	SetExpectedCheckout(ctx context.Context, id uuid.UUID, at time.Time, daysOfStay int) error
	MarkCheckedOut(ctx context.Context, id uuid.UUID, at time.Time) error
}

// LedgerStore журнал заселения и покупки. Записи журнала только добавляются
type LedgerStore interface {
	AppendLedgerEntry(ctx context.Context, e *model.LedgerEntry) error
	// ListLedgerEntries записи по возрастанию времени
	ListLedgerEntries(ctx context.Context, bookingID uuid.UUID) ([]model.LedgerEntry, error)
	// ListReceiptsBetween поступления всех заселений в полуинтервале [from, to)
	ListReceiptsBetween(ctx context.Context, from, to time.Time) ([]model.LedgerEntry, error)

	ListShopPurchases(ctx context.Context, bookingID uuid.UUID) ([]model.ShopPurchase, error)
	CreateShopPurchase(ctx context.Context, p *model.ShopPurchase) error
}

// AdvanceBookingStore предварительные брони
type AdvanceBookingStore interface {
	CreateAdvanceBooking(ctx context.Context, a *model.AdvanceBooking) error
	GetAdvanceBooking(ctx context.Context, id uuid.UUID) (*model.AdvanceBooking, error)
	ListAdvanceBookings(ctx context.Context, statuses ...model.AdvanceBookingStatus) ([]*model.AdvanceBooking, error)
	// CompleteAdvanceBooking и CancelAdvanceBooking пишут только из статуса pending,
	// false если бронь уже не pending
	CompleteAdvanceBooking(ctx context.Context, id uuid.UUID, rooms []model.AssignedRoom, at time.Time) (bool, error)
	CancelAdvanceBooking(ctx context.Context, id uuid.UUID, refund decimal.Decimal, channel model.PaymentChannel, at time.Time) (bool, error)
}

// PaymentStore общий журнал платежей и инкассации
type PaymentStore interface {
	AppendPaymentRecord(ctx context.Context, r *model.PaymentRecord) error
	ListPaymentRecords(ctx context.Context, from, to time.Time) ([]model.PaymentRecord, error)

	CreateCollectionLog(ctx context.Context, l *model.CollectionLog) error
	// LatestCollectionLog nil, nil если инкассаций ещё не было
	LatestCollectionLog(ctx context.Context) (*model.CollectionLog, error)
	ListCollectionLogs(ctx context.Context, limit int) ([]model.CollectionLog, error)
}

// Store всё хранилище целиком
type Store interface {
	RoomStore
	BookingStore
	LedgerStore
	AdvanceBookingStore
	PaymentStore

	// WithinTx выполняет fn в одной транзакции. Ошибка fn откатывает все записи.
	// Вложенный вызов использует уже открытую транзакцию
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}
