package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// PageHandler serves the minimal page endpoints the authentication flow
// redirects to, plus the guarded panel roots. The real panel UI lives
// elsewhere; these endpoints exist so the guards and redirect targets resolve.
type PageHandler struct{}

func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

func (h *PageHandler) Login(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"message":     "request a sign-in link at POST /auth/link",
		"callbackUrl": c.QueryParam("callbackUrl"),
	})
}

func (h *PageHandler) Unauthorized(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"message": "you do not have permission to view this page",
	})
}

func (h *PageHandler) AuthError(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"message": "the sign-in link is invalid, expired, or not permitted",
	})
}

func (h *PageHandler) AdminPanel(c echo.Context) error {
	_, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"panel": "admin", "role": string(role)})
}

func (h *PageHandler) DoctorPanel(c echo.Context) error {
	_, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"panel": "doctor", "role": string(role)})
}
