package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Freeeeeet/frontdesk/internal/model"
	"github.com/Freeeeeet/frontdesk/internal/service"
	"github.com/Freeeeeet/frontdesk/internal/store"
)

type roomHandler struct {
	rooms  *service.RoomService
	desk   *service.FrontDeskService
	logger *zap.Logger
}

type roomRequest struct {
	Number int            `json:"number"`
	Floor  string         `json:"floor"`
	Type   model.RoomType `json:"type"`
	Name   string         `json:"name"`
}

func (r roomRequest) toModel() *model.Room {
	return &model.Room{Number: r.Number, Floor: r.Floor, Type: r.Type, Name: r.Name}
}

// GET /v1/rooms?type=&status=
func (h *roomHandler) list(c *gin.Context) {
	filter := store.RoomFilter{
		Type:   model.RoomType(c.Query("type")),
		Status: model.RoomStatus(c.Query("status")),
	}
	rooms, err := h.rooms.ListRooms(c.Request.Context(), filter)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, rooms)
}

func (h *roomHandler) create(c *gin.Context) {
	var req roomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	room, err := h.rooms.CreateRoom(c.Request.Context(), req.toModel())
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusCreated, room)
}

func (h *roomHandler) update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	var req roomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	room := req.toModel()
	room.ID = id
	updated, err := h.rooms.UpdateRoom(c.Request.Context(), room)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, updated)
}

type maintenanceRequest struct {
	On bool `json:"on"`
}

func (h *roomHandler) maintenance(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	var req maintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.rooms.SetMaintenance(c.Request.Context(), id, req.On); err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"room_id": id, "maintenance": req.On})
}

func (h *roomHandler) cleaningDone(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	if err := h.desk.ConfirmCleaning(c.Request.Context(), id); err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"room_id": id, "status": model.RoomStatusAvailable})
}

func (h *roomHandler) board(c *gin.Context) {
	items, err := h.desk.RoomBoard(c.Request.Context())
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, items)
}

func (h *roomHandler) summary(c *gin.Context) {
	sum, err := h.rooms.Summary(c.Request.Context())
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, sum)
}
