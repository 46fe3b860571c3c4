package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brightdesk/portal/internal/models"
	"github.com/brightdesk/portal/internal/service"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

type mockAuthService struct {
	parseTokenFn func(token string) (*service.SessionClaims, error)
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	return "", nil, nil
}
func (m *mockAuthService) ParseToken(token string) (*service.SessionClaims, error) {
	return m.parseTokenFn(token)
}

func runAuth(t *testing.T, auth service.AuthService, header string) (echo.Context, bool, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	nextCalled := false
	next := func(c echo.Context) error {
		nextCalled = true
		return nil
	}
	err := Auth(auth)(next)(c)
	return c, nextCalled, err
}

func TestAuth_ValidToken(t *testing.T) {
	auth := &mockAuthService{
		parseTokenFn: func(token string) (*service.SessionClaims, error) {
			assert.Equal(t, "good-token", token)
			return &service.SessionClaims{UserID: 42, Role: models.RoleMember}, nil
		},
	}

	c, nextCalled, err := runAuth(t, auth, "Bearer good-token")

	assert.NoError(t, err)
	assert.True(t, nextCalled)
	assert.Equal(t, uint(42), UserID(c))
	assert.Equal(t, models.RoleMember, Role(c))
}

func TestAuth_MissingHeader(t *testing.T) {
	_, nextCalled, err := runAuth(t, &mockAuthService{}, "")

	assert.False(t, nextCalled)
	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestAuth_NotBearer(t *testing.T) {
	_, nextCalled, err := runAuth(t, &mockAuthService{}, "Basic dXNlcjpwYXNz")

	assert.False(t, nextCalled)
	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestAuth_InvalidToken(t *testing.T) {
	auth := &mockAuthService{
		parseTokenFn: func(token string) (*service.SessionClaims, error) {
			return nil, jwt.ErrTokenExpired
		},
	}

	_, nextCalled, err := runAuth(t, auth, "Bearer stale-token")

	assert.False(t, nextCalled)
	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestRequireAdmin(t *testing.T) {
	cases := []struct {
		name     string
		role     models.Role
		wantCode int
	}{
		{"admin passes", models.RoleAdmin, 0},
		{"member rejected", models.RoleMember, http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			c.Set(ctxRole, tc.role)

			err := RequireAdmin()(func(c echo.Context) error { return nil })(c)

			if tc.wantCode == 0 {
				assert.NoError(t, err)
			} else {
				he, ok := err.(*echo.HTTPError)
				assert.True(t, ok)
				assert.Equal(t, tc.wantCode, he.Code)
			}
		})
	}
}

func TestRequireAdmin_NoSession(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	err := RequireAdmin()(func(c echo.Context) error { return nil })(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusForbidden, he.Code)
}
