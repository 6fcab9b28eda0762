package httpserver

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/ovolkov/marketplace/internal/service"
	"github.com/ovolkov/marketplace/pkg/logging"
)

func actorID(c echo.Context) (uuid.UUID, error) {
	v := c.Get("user_id")
	s, ok := v.(string)
	if !ok || s == "" {
		return uuid.Nil, errors.New("unauthorized")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, errors.New("unauthorized")
	}
	return id, nil
}

func pathUUID(c echo.Context, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Param(name))
}

// serviceError translates service sentinels into HTTP outcomes. Store
// failures are logged with detail and surface as a generic 500, never as raw
// driver diagnostics.
func serviceError(c echo.Context, handler string, err error) error {
	l := logging.FromContext(c.Request().Context()).With("handler", handler)
	switch {
	case errors.Is(err, service.ErrValidation):
		l.Warn("request rejected", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	case errors.Is(err, service.ErrInvalidCredentials):
		l.Warn("request rejected", "status", 401)
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, service.ErrForbidden):
		l.Warn("request rejected", "status", 403, "error", err)
		return echo.NewHTTPError(http.StatusForbidden, "not allowed")
	case errors.Is(err, service.ErrNotFound):
		l.Warn("request rejected", "status", 404, "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrConflict):
		l.Warn("request rejected", "status", 409, "error", err)
		return echo.NewHTTPError(http.StatusConflict, "already exists")
	default:
		l.Error("request failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
