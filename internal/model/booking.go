package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Booking заселение гостя в номер или дом
type Booking struct {
	ID             uuid.UUID      `json:"id"`
	RoomID         uuid.UUID      `json:"room_id"`
	RoomNumber     int            `json:"room_number"`
	RoomType       RoomType       `json:"room_type"`
	GuestName      string         `json:"guest_name"`
	Phone          string         `json:"phone"`
	IDNumber       string         `json:"id_number"`
	NumberOfGuests int            `json:"number_of_guests"`
	PaymentChannel PaymentChannel `json:"payment_channel"` // канал первой оплаты

	// BaseRent аренда на момент заселения. Хранится в БД
	BaseRent decimal.Decimal `json:"base_rent"`
	// Rent текущая аренда: BaseRent + все начисления из журнала. Вычисляется при чтении
	Rent decimal.Decimal `json:"rent"`
	// AmountReceived сумма поступлений из журнала. Вычисляется при чтении
	AmountReceived decimal.Decimal `json:"amount_received"`

	CheckedInAt     time.Time  `json:"checked_in_at"`
	LastExtensionAt *time.Time `json:"last_extension_at,omitempty"`

	// Для домов: срок проживания в днях и плановая дата выезда
	DaysOfStay         int        `json:"days_of_stay,omitempty"`
	ExpectedCheckoutAt *time.Time `json:"expected_checkout_at,omitempty"`

	AdvanceBookingID *uuid.UUID `json:"advance_booking_id,omitempty"`
	IsCheckedOut     bool       `json:"is_checked_out"`
	CheckedOutAt     *time.Time `json:"checked_out_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// IsHouse true для бронирования дома
func (b *Booking) IsHouse() bool {
	return b.RoomType == RoomTypeHouse
}

// GuestInfo данные гостя при заселении
type GuestInfo struct {
	Name           string `json:"guest_name"`
	Phone          string `json:"phone"`
	IDNumber       string `json:"id_number"`
	NumberOfGuests int    `json:"number_of_guests"`
	DaysOfStay     int    `json:"days_of_stay,omitempty"` // только для домов
}
