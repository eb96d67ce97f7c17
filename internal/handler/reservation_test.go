package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cottage-reservation/internal/service"
)

func TestWriteServiceError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", service.ErrNotFound, http.StatusNotFound},
		{"forbidden", service.ErrForbidden, http.StatusForbidden},
		{"conflict", service.ErrConflict, http.StatusConflict},
		{"terminal state", service.ErrInvalidState, http.StatusConflict},
		{"room unavailable", service.ErrRoomUnavailable, http.StatusBadRequest},
		{"invalid range", service.ErrInvalidRange, http.StatusBadRequest},
		{"storage failure", errors.New("driver: bad connection"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
			require.NoError(t, writeServiceError(c, tc.err))
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestReservationReqToInput(t *testing.T) {
	t.Parallel()

	notes := "late arrival"
	req := reservationReq{
		RoomID:       3,
		CheckInDate:  "2026-06-01",
		CheckOutDate: "2026-06-05",
		Guests:       2,
		Notes:        &notes,
	}
	in, err := req.toInput()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), in.RoomID)
	assert.Equal(t, "2026-06-01", in.CheckIn.Format("2006-01-02"))
	assert.Equal(t, "2026-06-05", in.CheckOut.Format("2006-01-02"))
	assert.Equal(t, uint32(2), in.Guests)
	require.NotNil(t, in.Notes)
	assert.Equal(t, notes, *in.Notes)

	req.CheckInDate = "june first"
	_, err = req.toInput()
	assert.EqualError(t, err, "invalid check_in_date")

	req.CheckInDate = "2026-06-01"
	req.CheckOutDate = "05/06/2026"
	_, err = req.toInput()
	assert.EqualError(t, err, "invalid check_out_date")
}
