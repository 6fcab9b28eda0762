package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ovolkov/marketplace/internal/models"
	"github.com/ovolkov/marketplace/pkg/tokens"
)

type AuthMiddleware struct {
	JWTSecret []byte
}

func New(secret []byte) *AuthMiddleware {
	return &AuthMiddleware{JWTSecret: secret}
}

// RequireAuth verifies the access token (Authorization bearer header, or the
// token cookie the web client sets) and puts user_id and role into the echo
// context. Nothing ambient: handlers read the identity from the context of
// the one request it was verified for.
func (m *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw := bearerToken(c)
		if raw == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}

		claims, err := tokens.AccessClaimsFromToken(raw, m.JWTSecret)
		if err != nil || claims == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
		}

		c.Set("user_id", claims.Subject)
		c.Set("role", claims.Role)
		return next(c)
	}
}

func (m *AuthMiddleware) RequireSeller(next echo.HandlerFunc) echo.HandlerFunc {
	return m.RequireAuth(func(c echo.Context) error {
		role, _ := c.Get("role").(string)
		if role != models.RoleSeller {
			return echo.NewHTTPError(http.StatusForbidden, "seller access required")
		}
		return next(c)
	})
}

func bearerToken(c echo.Context) string {
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if ck, err := c.Cookie("token"); err == nil {
		return ck.Value
	}
	return ""
}
