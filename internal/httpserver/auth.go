package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ovolkov/marketplace/internal/service"
	"github.com/ovolkov/marketplace/internal/transport"
	"github.com/ovolkov/marketplace/pkg/tokens"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := h.Svc.Register(c.Request().Context(), req); err != nil {
		return serviceError(c, "auth.register", err)
	}
	return c.JSON(http.StatusCreated, map[string]string{"message": "user registered successfully"})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	resp, err := h.Svc.Login(c.Request().Context(), req)
	if err != nil {
		return serviceError(c, "auth.login", err)
	}

	c.SetCookie(&http.Cookie{
		Name:     "token",
		Value:    resp.Token,
		Path:     "/",
		Expires:  time.Now().Add(tokens.AccessTokenTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusOK, resp)
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	return c.JSON(http.StatusOK, map[string]string{"message": "logged out successfully"})
}
