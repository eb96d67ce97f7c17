package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cottage-reservation/internal/repository"
	"github.com/iliyamo/cottage-reservation/internal/service"
)

// RoomHandler serves the public, read-only room endpoints.  Listing and
// availability queries need no authentication so guests can browse the
// cottage before registering.
type RoomHandler struct {
	Rooms        *repository.RoomRepo
	Reservations *service.ReservationService
}

func NewRoomHandler(rooms *repository.RoomRepo, reservations *service.ReservationService) *RoomHandler {
	if rooms == nil || reservations == nil {
		panic("nil dependency passed to NewRoomHandler")
	}
	return &RoomHandler{Rooms: rooms, Reservations: reservations}
}

// ListRooms handles GET /v1/rooms.  It returns the whole inventory
// including administratively disabled rooms.
func (h *RoomHandler) ListRooms(c echo.Context) error {
	rooms, err := h.Rooms.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load rooms"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": rooms})
}

// GetRoom handles GET /v1/rooms/:id.
func (h *RoomHandler) GetRoom(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	room, err := h.Rooms.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load room"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": room})
}

// ListAvailableRooms handles GET /v1/rooms/available.  Without query
// parameters it returns rooms whose administrative flag is on; with
// start_date and end_date (YYYY-MM-DD) it additionally filters out
// rooms that have an active reservation overlapping the range.  Both
// dates must be supplied together.
func (h *RoomHandler) ListAvailableRooms(c echo.Context) error {
	startStr := c.QueryParam("start_date")
	endStr := c.QueryParam("end_date")

	var start, end *time.Time
	if startStr != "" || endStr != "" {
		if startStr == "" || endStr == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_date and end_date must be given together"})
		}
		s, err := parseDate(startStr)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start_date"})
		}
		e, err := parseDate(endStr)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid end_date"})
		}
		start, end = &s, &e
	}

	rooms, err := h.Reservations.ListAvailableRooms(c.Request().Context(), start, end)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRange) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_date must be after start_date"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load rooms"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": rooms})
}
