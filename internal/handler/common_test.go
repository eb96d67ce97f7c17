package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	t.Parallel()

	got, err := parseDate("2026-06-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), got)

	for _, bad := range []string{"", "2026-6-1", "01-06-2026", "2026-06-01T00:00:00Z", "tomorrow"} {
		_, err := parseDate(bad)
		assert.Error(t, err, bad)
	}
}

func TestGetUserID(t *testing.T) {
	t.Parallel()

	newCtx := func(v interface{}) echo.Context {
		e := echo.New()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		if v != nil {
			c.Set("user_id", v)
		}
		return c
	}

	cases := []struct {
		name string
		val  interface{}
		want uint64
		ok   bool
	}{
		{"float64 claim", float64(42), 42, true},
		{"uint64", uint64(7), 7, true},
		{"int", 9, 9, true},
		{"numeric string", "13", 13, true},
		{"garbage string", "abc", 0, false},
		{"missing", nil, 0, false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := getUserID(newCtx(tc.val))
			if tc.ok {
				require.NoError(t, err)
				assert.Equal(t, tc.want, got)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestParseID(t *testing.T) {
	t.Parallel()

	newCtx := func(id string) echo.Context {
		e := echo.New()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		c.SetParamNames("id")
		c.SetParamValues(id)
		return c
	}

	got, err := parseID(newCtx("15"), "id")
	require.NoError(t, err)
	assert.Equal(t, uint64(15), got)

	for _, bad := range []string{"0", "-1", "abc", ""} {
		_, err := parseID(newCtx(bad), "id")
		assert.Error(t, err, bad)
	}
}
