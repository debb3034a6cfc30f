package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinicsuite/clinic-portal/internal/core/domain"
	"github.com/clinicsuite/clinic-portal/internal/core/ports"
)

// ctxIdentity extracts the identity injected by the Auth middleware and
// performs a fast-fail check before any service call: a non-empty role proves
// the middleware ran and already re-derived the label for this request.
func ctxIdentity(c echo.Context) (ports.Identity, domain.RoleLabel, error) {
	role, _ := c.Get("role").(string)
	if role == "" {
		return ports.Identity{}, domain.RoleUser, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	userID, _ := c.Get("user_id").(string)
	email, _ := c.Get("email").(string)
	return ports.Identity{UserID: userID, Email: email}, domain.RoleLabel(role), nil
}
