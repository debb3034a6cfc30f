package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/clinicsuite/clinic-portal/internal/core/ports"
)

// Auth validates the session JWT and injects the identity into context. The
// role claim stored in the token is treated only as a hint: the effective
// role is re-derived through the session service on every request, so role
// changes made by an admin propagate without re-authentication.
func Auth(jwtSecret string, sessions ports.SessionService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, err := parseBearer(c, jwtSecret)
			if err != nil {
				return err
			}

			role := sessions.BindRole(c.Request().Context(), identity)

			c.Set("user_id", identity.UserID)
			c.Set("email", identity.Email)
			c.Set("role", string(role))

			return next(c)
		}
	}
}

// PageAuth is the page-route variant of Auth: instead of a 401 protocol
// error, an unauthenticated request is redirected to the login page with the
// original path preserved.
func PageAuth(jwtSecret string, sessions ports.SessionService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, err := parseBearer(c, jwtSecret)
			if err != nil {
				return c.Redirect(http.StatusFound, "/login?callbackUrl="+c.Request().URL.Path)
			}

			role := sessions.BindRole(c.Request().Context(), identity)

			c.Set("user_id", identity.UserID)
			c.Set("email", identity.Email)
			c.Set("role", string(role))

			return next(c)
		}
	}
}

func parseBearer(c echo.Context, jwtSecret string) (ports.Identity, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return ports.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ports.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}

	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !tkn.Valid {
		return ports.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	if sub == "" || email == "" {
		return ports.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "token missing identity claims")
	}

	return ports.Identity{UserID: sub, Email: email}, nil
}
