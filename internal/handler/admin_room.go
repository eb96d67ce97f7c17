package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cottage-reservation/internal/model"
	"github.com/iliyamo/cottage-reservation/internal/repository"
)

// AdminRoomHandler covers room management.  Routes are mounted behind
// the ADMIN role check; the handlers themselves do not re-verify it.
type AdminRoomHandler struct {
	Rooms *repository.RoomRepo
}

func NewAdminRoomHandler(rooms *repository.RoomRepo) *AdminRoomHandler {
	if rooms == nil {
		panic("nil repo passed to NewAdminRoomHandler")
	}
	return &AdminRoomHandler{Rooms: rooms}
}

type createRoomReq struct {
	Name         string `json:"name" validate:"required,min=1,max=100"`
	RoomType     string `json:"room_type" validate:"required"`
	Description  string `json:"description" validate:"omitempty,max=1000"`
	MaxOccupancy uint32 `json:"max_occupancy" validate:"required,min=1,max=50"`
}

type setAvailabilityReq struct {
	IsAvailable *bool `json:"is_available" validate:"required"`
}

// CreateRoom handles POST /v1/admin/rooms.
func (h *AdminRoomHandler) CreateRoom(c echo.Context) error {
	var req createRoomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if !model.ValidRoomType(req.RoomType) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown room_type"})
	}

	room := model.Room{
		Name:         req.Name,
		RoomType:     req.RoomType,
		Description:  req.Description,
		MaxOccupancy: req.MaxOccupancy,
		IsAvailable:  true,
	}
	id, err := h.Rooms.Create(c.Request().Context(), &room)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNameExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "room name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create room failed"})
	}
	created, err := h.Rooms.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load room"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": created})
}

// SetAvailability handles PATCH /v1/admin/rooms/:id/availability.  The
// flag blocks NEW reservations only; existing ones are untouched.
func (h *AdminRoomHandler) SetAvailability(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	var req setAvailabilityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.Rooms.SetAvailability(c.Request().Context(), id, *req.IsAvailable); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update room failed"})
	}
	room, err := h.Rooms.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load room"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": room})
}
