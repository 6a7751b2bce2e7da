package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Freeeeeet/frontdesk/internal/model"
	"github.com/Freeeeeet/frontdesk/internal/repository/base"
	"github.com/Freeeeeet/frontdesk/internal/store"
)

type RoomRepository struct {
	*base.Repository
}

func NewRoomRepository(db base.DBTX) *RoomRepository {
	return &RoomRepository{Repository: base.NewRepository(db)}
}

const roomColumns = `id, number, floor, type, name, status, created_at, updated_at`

func scanRoom(row pgx.Row) (*model.Room, error) {
	var room model.Room
	err := row.Scan(
		&room.ID,
		&room.Number,
		&room.Floor,
		&room.Type,
		&room.Name,
		&room.Status,
		&room.CreatedAt,
		&room.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// GetRoom получает номер по ID
func (r *RoomRepository) GetRoom(ctx context.Context, id uuid.UUID) (*model.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE id = $1`

	room, err := scanRoom(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get room by id: %w", err)
	}

	return room, nil
}

// ListRooms получает номера по фильтру, отсортированные по номеру
func (r *RoomRepository) ListRooms(ctx context.Context, filter store.RoomFilter) ([]*model.Room, error) {
	var (
		where []string
		args  []any
	)
	if filter.Type != "" {
		args = append(args, filter.Type)
		where = append(where, fmt.Sprintf("type = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}

	query := `SELECT ` + roomColumns + ` FROM rooms`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY number`

	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	defer rows.Close()

	var rooms []*model.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		rooms = append(rooms, room)
	}

	return rooms, rows.Err()
}

// CreateRoom создаёт номер
func (r *RoomRepository) CreateRoom(ctx context.Context, room *model.Room) error {
	if room.ID == uuid.Nil {
		room.ID = uuid.New()
	}
	if room.Status == "" {
		room.Status = model.RoomStatusAvailable
	}

	query := `
		INSERT INTO rooms (id, number, floor, type, name, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := r.QueryRow(ctx, query,
		room.ID,
		room.Number,
		room.Floor,
		room.Type,
		room.Name,
		room.Status,
	).Scan(&room.CreatedAt, &room.UpdatedAt)
	if err != nil {
		if base.IsUniqueViolation(err) {
			return fmt.Errorf("create room: number %d already exists: %w", room.Number, err)
		}
		return fmt.Errorf("create room: %w", err)
	}

	return nil
}

// UpdateRoom обновляет номер, этаж, тип и подпись. Статус меняется только через TransitionRoomStatus
func (r *RoomRepository) UpdateRoom(ctx context.Context, room *model.Room) error {
	query := `
		UPDATE rooms
		SET number = $2, floor = $3, type = $4, name = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.QueryRow(ctx, query, room.ID, room.Number, room.Floor, room.Type, room.Name).Scan(&room.UpdatedAt)
	if err != nil {
		if base.IsNotFound(err) {
			return fmt.Errorf("update room: room %s not found", room.ID)
		}
		return fmt.Errorf("update room: %w", err)
	}

	return nil
}

// TransitionRoomStatus условный переход статуса
func (r *RoomRepository) TransitionRoomStatus(ctx context.Context, id uuid.UUID, to model.RoomStatus, from ...model.RoomStatus) (bool, error) {
	query := `
		UPDATE rooms
		SET status = $2, updated_at = NOW()
		WHERE id = $1
	`
	args := []any{id, to}

	if len(from) > 0 {
		statuses := make([]string, len(from))
		for i, s := range from {
			statuses[i] = string(s)
		}
		query += ` AND status = ANY($3)`
		args = append(args, statuses)
	}

	affected, err := r.ExecAffected(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("transition room status: %w", err)
	}

	return affected > 0, nil
}
