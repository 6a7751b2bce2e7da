package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/Freeeeeet/frontdesk/internal/model"
	"github.com/Freeeeeet/frontdesk/internal/repository/base"
)

type AdvanceBookingRepository struct {
	*base.Repository
}

func NewAdvanceBookingRepository(db base.DBTX) *AdvanceBookingRepository {
	return &AdvanceBookingRepository{Repository: base.NewRepository(db)}
}

const advanceBookingColumns = `
	id, guest_name, phone, id_number, date_of_booking, room_type, number_of_rooms,
	price_per_room, advance_amount, payment_channel, status, rooms,
	refund_amount, refund_channel, created_at, completed_at, cancelled_at
`

func scanAdvanceBooking(row pgx.Row) (*model.AdvanceBooking, error) {
	var a model.AdvanceBooking
	err := row.Scan(
		&a.ID,
		&a.GuestName,
		&a.Phone,
		&a.IDNumber,
		&a.DateOfBooking,
		&a.RoomType,
		&a.NumberOfRooms,
		&a.PricePerRoom,
		&a.AdvanceAmount,
		&a.PaymentChannel,
		&a.Status,
		&a.Rooms,
		&a.RefundAmount,
		&a.RefundChannel,
		&a.CreatedAt,
		&a.CompletedAt,
		&a.CancelledAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateAdvanceBooking создаёт предварительную бронь
func (r *AdvanceBookingRepository) CreateAdvanceBooking(ctx context.Context, a *model.AdvanceBooking) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Rooms == nil {
		a.Rooms = []model.AssignedRoom{}
	}

	query := `
		INSERT INTO advance_bookings (
			id, guest_name, phone, id_number, date_of_booking, room_type, number_of_rooms,
			price_per_room, advance_amount, payment_channel, status, rooms, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.DB().Exec(ctx, query,
		a.ID,
		a.GuestName,
		a.Phone,
		a.IDNumber,
		a.DateOfBooking,
		a.RoomType,
		a.NumberOfRooms,
		a.PricePerRoom,
		a.AdvanceAmount,
		a.PaymentChannel,
		a.Status,
		a.Rooms,
		a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create advance booking: %w", err)
	}

	return nil
}

// GetAdvanceBooking получает бронь по ID
func (r *AdvanceBookingRepository) GetAdvanceBooking(ctx context.Context, id uuid.UUID) (*model.AdvanceBooking, error) {
	query := `SELECT ` + advanceBookingColumns + ` FROM advance_bookings WHERE id = $1`

	a, err := scanAdvanceBooking(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get advance booking by id: %w", err)
	}

	return a, nil
}

// ListAdvanceBookings получает брони с указанными статусами (все, если статусы не заданы)
func (r *AdvanceBookingRepository) ListAdvanceBookings(ctx context.Context, statuses ...model.AdvanceBookingStatus) ([]*model.AdvanceBooking, error) {
	query := `SELECT ` + advanceBookingColumns + ` FROM advance_bookings`
	var args []any
	if len(statuses) > 0 {
		ss := make([]string, len(statuses))
		for i, s := range statuses {
			ss[i] = string(s)
		}
		query += ` WHERE status = ANY($1)`
		args = append(args, ss)
	}
	query += ` ORDER BY date_of_booking, created_at`

	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list advance bookings: %w", err)
	}
	defer rows.Close()

	var list []*model.AdvanceBooking
	for rows.Next() {
		a, err := scanAdvanceBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan advance booking: %w", err)
		}
		list = append(list, a)
	}

	return list, rows.Err()
}

// CompleteAdvanceBooking переводит pending бронь в completed
func (r *AdvanceBookingRepository) CompleteAdvanceBooking(ctx context.Context, id uuid.UUID, rooms []model.AssignedRoom, at time.Time) (bool, error) {
	query := `
		UPDATE advance_bookings
		SET status = 'completed', rooms = $2, completed_at = $3
		WHERE id = $1 AND status = 'pending'
	`

	affected, err := r.ExecAffected(ctx, query, id, rooms, at)
	if err != nil {
		return false, fmt.Errorf("complete advance booking: %w", err)
	}

	return affected > 0, nil
}

// CancelAdvanceBooking переводит pending бронь в cancelled с суммой возврата
func (r *AdvanceBookingRepository) CancelAdvanceBooking(ctx context.Context, id uuid.UUID, refund decimal.Decimal, channel model.PaymentChannel, at time.Time) (bool, error) {
	query := `
		UPDATE advance_bookings
		SET status = 'cancelled', refund_amount = $2, refund_channel = $3, cancelled_at = $4
		WHERE id = $1 AND status = 'pending'
	`

	affected, err := r.ExecAffected(ctx, query, id, refund, channel, at)
	if err != nil {
		return false, fmt.Errorf("cancel advance booking: %w", err)
	}

	return affected > 0, nil
}
