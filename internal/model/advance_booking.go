package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AdvanceBookingStatus string

const (
	AdvanceBookingStatusPending   AdvanceBookingStatus = "pending"
	AdvanceBookingStatusCompleted AdvanceBookingStatus = "completed"
	AdvanceBookingStatusCancelled AdvanceBookingStatus = "cancelled"
)

// AssignedRoom номер, выданный по предварительной брони
type AssignedRoom struct {
	RoomID     uuid.UUID `json:"room_id"`
	RoomNumber int       `json:"room_number"`
	BookingID  uuid.UUID `json:"booking_id"`
}

// AdvanceBooking предварительная бронь до фактического заселения
type AdvanceBooking struct {
	ID             uuid.UUID            `json:"id"`
	GuestName      string               `json:"guest_name"`
	Phone          string               `json:"phone"`
	IDNumber       string               `json:"id_number"`
	DateOfBooking  time.Time            `json:"date_of_booking"`
	RoomType       RoomType             `json:"room_type"`
	NumberOfRooms  int                  `json:"number_of_rooms"`
	PricePerRoom   decimal.Decimal      `json:"price_per_room"`
	AdvanceAmount  decimal.Decimal      `json:"advance_amount"`
	PaymentChannel PaymentChannel       `json:"payment_channel"`
	Status         AdvanceBookingStatus `json:"status"`
	Rooms          []AssignedRoom       `json:"rooms"`

	RefundAmount  decimal.Decimal `json:"refund_amount"`
	RefundChannel PaymentChannel  `json:"refund_channel,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}

// TotalPrice полная стоимость брони
func (a *AdvanceBooking) TotalPrice() decimal.Decimal {
	return a.PricePerRoom.Mul(decimal.NewFromInt(int64(a.NumberOfRooms)))
}

// IsTerminal true если бронь уже завершена или отменена
func (a *AdvanceBooking) IsTerminal() bool {
	return a.Status == AdvanceBookingStatusCompleted || a.Status == AdvanceBookingStatusCancelled
}
