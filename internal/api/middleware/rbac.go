package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinicsuite/clinic-portal/internal/core/domain"
)

// RBAC enforces role-based access control for API routes, answering 403 on a
// violation.
func RBAC(allowedRoles ...domain.RoleLabel) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[string(r)] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if _, ok := allowed[role]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}

// RoleGuard is the page-route variant of RBAC: a role violation redirects to
// the unauthorized page rather than raising a protocol error.
func RoleGuard(allowedRoles ...domain.RoleLabel) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[string(r)] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if _, ok := allowed[role]; !ok {
				return c.Redirect(http.StatusFound, "/unauthorized")
			}
			return next(c)
		}
	}
}
