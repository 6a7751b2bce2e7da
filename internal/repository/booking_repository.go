package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Freeeeeet/frontdesk/internal/model"
	"github.com/Freeeeeet/frontdesk/internal/repository/base"
)

type BookingRepository struct {
	*base.Repository
}

func NewBookingRepository(db base.DBTX) *BookingRepository {
	return &BookingRepository{Repository: base.NewRepository(db)}
}

// rent и amount_received не хранятся: считаются из журнала при каждом чтении
const bookingSelect = `
	SELECT b.id, b.room_id, b.room_number, b.room_type, b.guest_name, b.phone, b.id_number,
		b.number_of_guests, b.payment_channel, b.base_rent,
		b.base_rent + COALESCE((
			SELECT SUM(ABS(e.amount)) FROM ledger_entries e
			WHERE e.booking_id = b.id AND e.kind IN ('extension', 'extra-fee', 'shop-purchase')
		), 0) AS rent,
		COALESCE((
			SELECT SUM(e.amount) FROM ledger_entries e
			WHERE e.booking_id = b.id AND e.kind IN ('initial', 'advance')
		), 0) AS amount_received,
		b.checked_in_at, b.last_extension_at, b.days_of_stay, b.expected_checkout_at,
		b.advance_booking_id, b.is_checked_out, b.checked_out_at, b.created_at
	FROM bookings b
`

func scanBooking(row pgx.Row) (*model.Booking, error) {
	var b model.Booking
	err := row.Scan(
		&b.ID,
		&b.RoomID,
		&b.RoomNumber,
		&b.RoomType,
		&b.GuestName,
		&b.Phone,
		&b.IDNumber,
		&b.NumberOfGuests,
		&b.PaymentChannel,
		&b.BaseRent,
		&b.Rent,
		&b.AmountReceived,
		&b.CheckedInAt,
		&b.LastExtensionAt,
		&b.DaysOfStay,
		&b.ExpectedCheckoutAt,
		&b.AdvanceBookingID,
		&b.IsCheckedOut,
		&b.CheckedOutAt,
		&b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// GetBooking получает заселение по ID
func (r *BookingRepository) GetBooking(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	b, err := scanBooking(r.QueryRow(ctx, bookingSelect+` WHERE b.id = $1`, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking by id: %w", err)
	}

	return b, nil
}

// ListActiveBookings получает незакрытые заселения, по номеру комнаты
func (r *BookingRepository) ListActiveBookings(ctx context.Context, roomID *uuid.UUID) ([]*model.Booking, error) {
	query := bookingSelect + ` WHERE NOT b.is_checked_out`
	var args []any
	if roomID != nil {
		query += ` AND b.room_id = $1`
		args = append(args, *roomID)
	}
	query += ` ORDER BY b.room_number`

	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list active bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}

	return bookings, rows.Err()
}

// CreateBooking создаёт заселение. Второе активное заселение в тот же номер
// отклоняется уникальным индексом
func (r *BookingRepository) CreateBooking(ctx context.Context, b *model.Booking) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}

	query := `
		INSERT INTO bookings (
			id, room_id, room_number, room_type, guest_name, phone, id_number,
			number_of_guests, payment_channel, base_rent, checked_in_at,
			days_of_stay, expected_checkout_at, advance_booking_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at
	`

	err := r.QueryRow(ctx, query,
		b.ID,
		b.RoomID,
		b.RoomNumber,
		b.RoomType,
		b.GuestName,
		b.Phone,
		b.IDNumber,
		b.NumberOfGuests,
		b.PaymentChannel,
		b.BaseRent,
		b.CheckedInAt,
		b.DaysOfStay,
		b.ExpectedCheckoutAt,
		b.AdvanceBookingID,
	).Scan(&b.CreatedAt)
	if err != nil {
		if base.IsUniqueViolation(err) {
			return fmt.Errorf("create booking: room %s already has an active booking: %w", b.RoomID, err)
		}
		return fmt.Errorf("create booking: %w", err)
	}

	return nil
}

// SetLastExtension сдвигает опорный момент суток
func (r *BookingRepository) SetLastExtension(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `
		UPDATE bookings
		SET last_extension_at = $2
		WHERE id = $1 AND NOT is_checked_out
	`

	affected, err := r.ExecAffected(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("set last extension: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("set last extension: active booking %s not found", id)
	}

	return nil
}

// SetExpectedCheckout обновляет плановый выезд дома
func (r *BookingRepository) SetExpectedCheckout(ctx context.Context, id uuid.UUID, at time.Time, daysOfStay int) error {
	query := `
		UPDATE bookings
		SET expected_checkout_at = $2, days_of_stay = $3
		WHERE id = $1 AND NOT is_checked_out
	`

	affected, err := r.ExecAffected(ctx, query, id, at, daysOfStay)
	if err != nil {
		return fmt.Errorf("set expected checkout: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("set expected checkout: active booking %s not found", id)
	}

	return nil
}

// MarkCheckedOut закрывает заселение
func (r *BookingRepository) MarkCheckedOut(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `
		UPDATE bookings
		SET is_checked_out = TRUE, checked_out_at = $2
		WHERE id = $1 AND NOT is_checked_out
	`

	affected, err := r.ExecAffected(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("mark checked out: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("mark checked out: active booking %s not found", id)
	}

	return nil
}
