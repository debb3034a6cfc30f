package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/clinicsuite/clinic-portal/internal/core/domain"
	"github.com/clinicsuite/clinic-portal/internal/core/ports"
)

const testSecret = "secret"

// stubSessions returns a fixed role for every identity, standing in for the
// per-request role re-derivation.
type stubSessions struct {
	role domain.RoleLabel
	last ports.Identity
}

func (s *stubSessions) BindRole(_ context.Context, identity ports.Identity) domain.RoleLabel {
	s.last = identity
	return s.role
}

func (s *stubSessions) Mint(_ context.Context, _ *domain.User) (string, domain.RoleLabel, error) {
	return "", s.role, nil
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestAuth_InjectsRefreshedRole(t *testing.T) {
	e := echo.New()
	token := signToken(t, jwt.MapClaims{
		"sub":   "user-1",
		"email": "doc@clinic.test",
		"role":  "doctor", // stale claim; refresh must win
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	sessions := &stubSessions{role: domain.RoleAdmin}
	handler := Auth(testSecret, sessions)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got, _ := c.Get("role").(string); got != "admin" {
		t.Fatalf("expected re-derived role admin, got %q", got)
	}
	if got, _ := c.Get("user_id").(string); got != "user-1" {
		t.Fatalf("expected user_id user-1, got %q", got)
	}
	if sessions.last.Email != "doc@clinic.test" {
		t.Fatalf("expected BindRole to receive the token identity, got %+v", sessions.last)
	}
}

func TestAuth_MissingHeader(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(testSecret, &stubSessions{role: domain.RoleUser})(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	err := handler(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestAuth_WrongSignature(t *testing.T) {
	e := echo.New()
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1", "email": "doc@clinic.test", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("other-secret"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(testSecret, &stubSessions{role: domain.RoleUser})(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	err := handler(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestPageAuth_RedirectsToLogin(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/admin")

	handler := PageAuth(testSecret, &stubSessions{role: domain.RoleUser})(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login?callbackUrl=/admin" {
		t.Fatalf("unexpected redirect target: %s", loc)
	}
}
