package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"catalog-service/pkg/jwtutil"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runAuth(t *testing.T, authHeader string) (*httptest.ResponseRecorder, echo.Context, error) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	err := AuthMiddleware(next)(c)
	return rec, c, err
}

func TestAuthMiddleware(t *testing.T) {
	jwtutil.Initialize(&jwtutil.Config{SigningKey: "test-signing-key", ExpirationHours: 1})

	t.Run("valid token passes and claims land in context", func(t *testing.T) {
		token, err := jwtutil.GenerateToken(7, "user@example.com", "admin")
		require.NoError(t, err)

		rec, c, err := runAuth(t, "Bearer "+token)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, uint(7), c.Get("user_id"))
		assert.Equal(t, "user@example.com", c.Get("email"))
		assert.Equal(t, "admin", c.Get("user_role"))
	})

	t.Run("missing header is a 401", func(t *testing.T) {
		rec, _, err := runAuth(t, "")
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("non-bearer header is a 401", func(t *testing.T) {
		rec, _, err := runAuth(t, "Basic dXNlcjpwYXNz")
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("tampered token is a 401", func(t *testing.T) {
		token, err := jwtutil.GenerateToken(7, "user@example.com", "admin")
		require.NoError(t, err)

		rec, _, err := runAuth(t, "Bearer "+token+"x")
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
