package auth

import (
	"net/http"
	"slices"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/movie_catalog/internal/tokens"
)

const (
	CtxUserID   = "user_id"
	CtxEmail    = "email"
	CtxUsername = "username"
	CtxRole     = "role"
)

// RequireLogin is the single place bearer tokens are extracted and
// verified. Handlers behind it read the caller's identity from the echo
// context and never touch the Authorization header themselves.
func RequireLogin(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}

			raw := strings.TrimPrefix(header, "Bearer ")
			claims, err := tokens.ClaimsFromToken(raw, secret)
			if err != nil || claims == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}
			if claims.UserID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "token has no subject")
			}

			c.Set(CtxUserID, claims.UserID)
			c.Set(CtxEmail, claims.Email)
			c.Set(CtxUsername, claims.Username)
			c.Set(CtxRole, claims.Role)

			return next(c)
		}
	}
}

func RequireRole(required []string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(CtxRole).(string)
			if role == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing role")
			}
			if !slices.Contains(required, role) {
				return echo.NewHTTPError(http.StatusForbidden, "you don't have enough rights to see this page")
			}
			return next(c)
		}
	}
}
