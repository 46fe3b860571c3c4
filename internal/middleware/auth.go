package middleware

import (
	"net/http"
	"strings"

	"github.com/brightdesk/portal/internal/models"
	"github.com/brightdesk/portal/internal/service"
	"github.com/labstack/echo/v4"
)

const (
	ctxUserID = "auth.user_id"
	ctxRole   = "auth.role"
)

// Auth validates the bearer token and stores the session identity on the
// echo context. Requests without a valid session get 401.
func Auth(auth service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}

			claims, err := auth.ParseToken(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			c.Set(ctxUserID, claims.UserID)
			c.Set(ctxRole, claims.Role)
			return next(c)
		}
	}
}

// RequireAdmin rejects non-admin sessions with 403. Must run after Auth.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if Role(c) != models.RoleAdmin {
				return echo.NewHTTPError(http.StatusForbidden, "admin role required")
			}
			return next(c)
		}
	}
}

func UserID(c echo.Context) uint {
	if id, ok := c.Get(ctxUserID).(uint); ok {
		return id
	}
	return 0
}

func Role(c echo.Context) models.Role {
	if role, ok := c.Get(ctxRole).(models.Role); ok {
		return role
	}
	return ""
}
