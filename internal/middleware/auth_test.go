package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cottage-reservation/internal/utils"
)

func runRequest(t *testing.T, mw echo.MiddlewareFunc, setup func(c echo.Context)) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if setup != nil {
		setup(c)
	}
	handler := mw(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	require.NoError(t, handler(c))
	return rec
}

func TestJWTAuthMissingHeader(t *testing.T) {
	t.Parallel()

	rec := runRequest(t, JWTAuth("secret"), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthInvalidToken(t *testing.T) {
	t.Parallel()

	rec := runRequest(t, JWTAuth("secret"), func(c echo.Context) {
		c.Request().Header.Set("Authorization", "Bearer garbage")
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthWrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := utils.NewAccessToken("other-secret", 7, "CUSTOMER", 5)
	require.NoError(t, err)

	rec := runRequest(t, JWTAuth("secret"), func(c echo.Context) {
		c.Request().Header.Set("Authorization", "Bearer "+tok.Token)
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthValidTokenInjectsClaims(t *testing.T) {
	t.Parallel()

	tok, err := utils.NewAccessToken("secret", 7, "CUSTOMER", 5)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotUser interface{}
	var gotRole interface{}
	handler := JWTAuth("secret")(func(c echo.Context) error {
		gotUser = c.Get("user_id")
		gotRole = c.Get("role")
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(7), gotUser) // numeric claims decode as float64
	assert.Equal(t, "CUSTOMER", gotRole)
}

func TestRequireRole(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		allowed []string
		role    interface{}
		want    int
	}{
		{"role in set", []string{"CUSTOMER", "ADMIN"}, "CUSTOMER", http.StatusOK},
		{"admin only", []string{"ADMIN"}, "ADMIN", http.StatusOK},
		{"role not in set", []string{"ADMIN"}, "CUSTOMER", http.StatusForbidden},
		{"missing role", []string{"ADMIN"}, nil, http.StatusForbidden},
		{"non-string role", []string{"ADMIN"}, 42, http.StatusForbidden},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rec := runRequest(t, RequireRole(tc.allowed...), func(c echo.Context) {
				if tc.role != nil {
					c.Set("role", tc.role)
				}
			})
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}
