package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cottage-reservation/internal/service"
)

// ReservationHandler exposes the reservation lifecycle over HTTP.  All
// routes assume JWT authentication has run; the handler extracts the
// caller's user ID from the context and delegates every business rule
// to the lifecycle engine.
type ReservationHandler struct {
	Reservations *service.ReservationService
}

func NewReservationHandler(s *service.ReservationService) *ReservationHandler {
	if s == nil {
		panic("nil service passed to NewReservationHandler")
	}
	return &ReservationHandler{Reservations: s}
}

// reservationReq is the request body for create and update.
type reservationReq struct {
	RoomID       uint64  `json:"room_id" validate:"required,gt=0"`
	CheckInDate  string  `json:"check_in_date" validate:"required"`
	CheckOutDate string  `json:"check_out_date" validate:"required"`
	Guests       uint32  `json:"guests" validate:"required,min=1,max=20"`
	Notes        *string `json:"notes" validate:"omitempty,max=500"`
}

func (r *reservationReq) toInput() (service.ReservationInput, error) {
	checkIn, err := parseDate(r.CheckInDate)
	if err != nil {
		return service.ReservationInput{}, errors.New("invalid check_in_date")
	}
	checkOut, err := parseDate(r.CheckOutDate)
	if err != nil {
		return service.ReservationInput{}, errors.New("invalid check_out_date")
	}
	return service.ReservationInput{
		RoomID:   r.RoomID,
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Guests:   r.Guests,
		Notes:    r.Notes,
	}, nil
}

// Create handles POST /v1/reservations.
func (h *ReservationHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req reservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	in, err := req.toInput()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	res, err := h.Reservations.Create(c.Request().Context(), userID, in)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": res})
}

// Update handles PUT /v1/reservations/:id.
func (h *ReservationHandler) Update(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var req reservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	in, err := req.toInput()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	res, err := h.Reservations.Update(c.Request().Context(), id, userID, in)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": res})
}

// Cancel handles DELETE /v1/reservations/:id.  The reservation is not
// deleted; its status flips to CANCELLED.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	if err := h.Reservations.Cancel(c.Request().Context(), id, userID); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Get handles GET /v1/reservations/:id.
func (h *ReservationHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	res, err := h.Reservations.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": res})
}

// ListMine handles GET /v1/reservations and returns the caller's
// reservations, newest check-in first.
func (h *ReservationHandler) ListMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Reservations.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListActive handles GET /v1/reservations/active and returns every
// PENDING or CONFIRMED reservation so guests can see taken dates.
func (h *ReservationHandler) ListActive(c echo.Context) error {
	items, err := h.Reservations.ListActive(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Calendar handles GET /v1/reservations/calendar?start_date&end_date
// and returns reservations fully contained in the range.
func (h *ReservationHandler) Calendar(c echo.Context) error {
	start, err := parseDate(c.QueryParam("start_date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start_date"})
	}
	end, err := parseDate(c.QueryParam("end_date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid end_date"})
	}
	items, err := h.Reservations.ListBetween(c.Request().Context(), start, end)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// writeServiceError maps the engine's error taxonomy onto HTTP status
// codes.  Anything outside the taxonomy is an unexpected storage
// failure and becomes a 500.
func writeServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, service.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, service.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "room is already booked for the selected dates"})
	case errors.Is(err, service.ErrInvalidState):
		return c.JSON(http.StatusConflict, echo.Map{"error": "reservation is completed or cancelled"})
	case errors.Is(err, service.ErrRoomUnavailable):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room is not available"})
	case errors.Is(err, service.ErrInvalidRange):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date range or guest count"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
}
