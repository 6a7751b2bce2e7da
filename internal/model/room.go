package model

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

type RoomStatus string

const (
	RoomStatusAvailable    RoomStatus = "available"
	RoomStatusOccupied     RoomStatus = "occupied"
	RoomStatusCleaning     RoomStatus = "cleaning"
	RoomStatusMaintenance  RoomStatus = "maintenance"
	RoomStatusExtensionDue RoomStatus = "extension-due" // истекли сутки, ждём продление или выезд
)

func (s RoomStatus) Valid() bool {
	switch s {
	case RoomStatusAvailable, RoomStatusOccupied, RoomStatusCleaning, RoomStatusMaintenance, RoomStatusExtensionDue:
		return true
	}
	return false
}

type RoomType string

const (
	RoomTypeAC    RoomType = "ac"
	RoomTypeNonAC RoomType = "non-ac"
	RoomTypeHouse RoomType = "house" // дом сдаётся целиком, сутки не отслеживаются
)

func (t RoomType) Valid() bool {
	switch t {
	case RoomTypeAC, RoomTypeNonAC, RoomTypeHouse:
		return true
	}
	return false
}

type Room struct {
	ID        uuid.UUID  `json:"id"`
	Number    int        `json:"number"`
	Floor     string     `json:"floor"`
	Type      RoomType   `json:"type"`
	Name      string     `json:"name,omitempty"` // подпись для домов, например "Guest House"
	Status    RoomStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// IsHouse true для домов
func (r *Room) IsHouse() bool {
	return r.Type == RoomTypeHouse
}

// Label возвращает название для сообщений
func (r *Room) Label() string {
	if r.Name != "" {
		return r.Name
	}
	return "Room " + strconv.Itoa(r.Number)
}
