package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Freeeeeet/frontdesk/internal/apperr"
	"github.com/Freeeeeet/frontdesk/internal/model"
	"github.com/Freeeeeet/frontdesk/internal/store"
)

// RoomSummary количество номеров по статусам
type RoomSummary struct {
	Total    int                      `json:"total"`
	ByStatus map[model.RoomStatus]int `json:"by_status"`
}

type RoomService struct {
	store store.Store
	notifier
}

func NewRoomService(st store.Store, cache Cache, logger *zap.Logger) *RoomService {
	return &RoomService{
		store:    st,
		notifier: newNotifier(nil, cache, logger),
	}
}

func validateRoom(room *model.Room) error {
	room.Floor = strings.TrimSpace(room.Floor)
	room.Name = strings.TrimSpace(room.Name)

	if room.Number <= 0 {
		return apperr.Invalid("number", "must be positive")
	}
	if !room.Type.Valid() {
		return apperr.Invalid("type", "must be ac, non-ac or house")
	}
	if room.IsHouse() && room.Name == "" {
		return apperr.Invalid("name", "is required for houses")
	}
	return nil
}

// CreateRoom заводит новый номер в статусе available
func (s *RoomService) CreateRoom(ctx context.Context, room *model.Room) (*model.Room, error) {
	if err := validateRoom(room); err != nil {
		return nil, err
	}
	room.ID = uuid.New()
	room.Status = model.RoomStatusAvailable

	if err := s.store.CreateRoom(ctx, room); err != nil {
		return nil, apperr.Store("create room", err)
	}

	s.logger.Info("Room created", idField("room_id", room.ID), zap.Int("number", room.Number), zap.String("type", string(room.Type)))
	s.invalidateBoard(ctx)
	return room, nil
}

// UpdateRoom меняет номер, этаж, тип и подпись. Занятый номер не может сменить тип
func (s *RoomService) UpdateRoom(ctx context.Context, room *model.Room) (*model.Room, error) {
	if err := validateRoom(room); err != nil {
		return nil, err
	}

	cur, err := s.store.GetRoom(ctx, room.ID)
	if err != nil {
		return nil, apperr.Store("get room", err)
	}
	if cur == nil {
		return nil, apperr.NotFound("room", room.ID.String())
	}
	if cur.Type != room.Type && cur.Status != model.RoomStatusAvailable && cur.Status != model.RoomStatusMaintenance {
		return nil, &apperr.PreconditionError{Op: "update room", RoomID: room.ID.String(), Reason: "cannot change type of a " + string(cur.Status) + " room"}
	}

	if err := s.store.UpdateRoom(ctx, room); err != nil {
		return nil, apperr.Store("update room", err)
	}
	room.Status = cur.Status

	s.logger.Info("Room updated", idField("room_id", room.ID), zap.Int("number", room.Number))
	s.invalidateBoard(ctx)
	return room, nil
}

// SetMaintenance снимает номер с продажи или возвращает его
func (s *RoomService) SetMaintenance(ctx context.Context, roomID uuid.UUID, on bool) error {
	room, err := s.store.GetRoom(ctx, roomID)
	if err != nil {
		return apperr.Store("get room", err)
	}
	if room == nil {
		return apperr.NotFound("room", roomID.String())
	}

	from, to := model.RoomStatusAvailable, model.RoomStatusMaintenance
	if !on {
		from, to = to, from
	}

	ok, err := s.store.TransitionRoomStatus(ctx, roomID, to, from)
	if err != nil {
		return apperr.Store("set maintenance", err)
	}
	if !ok {
		return &apperr.PreconditionError{Op: "set maintenance", RoomID: roomID.String(), Reason: fmt.Sprintf("%s is %s", room.Label(), room.Status)}
	}

	s.logger.Info("Room maintenance changed", idField("room_id", roomID), zap.Bool("maintenance", on))
	s.invalidateBoard(ctx)
	return nil
}

func (s *RoomService) ListRooms(ctx context.Context, filter store.RoomFilter) ([]*model.Room, error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, apperr.Invalid("type", "unknown room type")
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperr.Invalid("status", "unknown room status")
	}

	rooms, err := s.store.ListRooms(ctx, filter)
	if err != nil {
		return nil, apperr.Store("list rooms", err)
	}
	return rooms, nil
}

// Summary счётчики для шапки доски
func (s *RoomService) Summary(ctx context.Context) (*RoomSummary, error) {
	rooms, err := s.store.ListRooms(ctx, store.RoomFilter{})
	if err != nil {
		return nil, apperr.Store("list rooms", err)
	}

	sum := &RoomSummary{ByStatus: map[model.RoomStatus]int{
		model.RoomStatusAvailable:    0,
		model.RoomStatusOccupied:     0,
		model.RoomStatusCleaning:     0,
		model.RoomStatusMaintenance:  0,
		model.RoomStatusExtensionDue: 0,
	}}
	for _, r := range rooms {
		sum.Total++
		sum.ByStatus[r.Status]++
	}
	return sum, nil
}
