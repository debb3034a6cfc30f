package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinicsuite/clinic-portal/internal/api/metrics"
	"github.com/clinicsuite/clinic-portal/internal/core/domain"
	"github.com/clinicsuite/clinic-portal/internal/core/ports"
)

type AuthHandler struct {
	signIn ports.SignInService
}

func NewAuthHandler(signIn ports.SignInService) *AuthHandler {
	return &AuthHandler{signIn: signIn}
}

type requestLinkRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type sessionResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type callbackResponse struct {
	Token string          `json:"token"`
	User  sessionResponse `json:"user"`
}

// linkRequestedMessage is returned for every well-formed request, allowed or
// denied, so the response never reveals whether an address is registered.
const linkRequestedMessage = "If the address is eligible, a sign-in link has been sent"

// RequestLink issues a magic sign-in link.
//
// @Summary      Request a sign-in link
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      requestLinkRequest  true  "Address to send the link to"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Router       /auth/link [post]
func (h *AuthHandler) RequestLink(c echo.Context) error {
	var req requestLinkRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		metrics.LinkRequestsTotal.WithLabelValues("invalid").Inc()
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if err := h.signIn.RequestLink(c.Request().Context(), req.Email); err != nil {
		if errors.Is(err, domain.ErrInvalidEmail) {
			metrics.LinkRequestsTotal.WithLabelValues("invalid").Inc()
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return err
	}

	metrics.LinkRequestsTotal.WithLabelValues("accepted").Inc()
	return c.JSON(http.StatusOK, map[string]string{"message": linkRequestedMessage})
}

// Callback consumes a magic-link token and mints a session.
//
// @Summary      Complete a magic-link sign-in
// @Tags         auth
// @Produce      json
// @Param        token  query     string  true  "Single-use link token"
// @Success      200    {object}  callbackResponse
// @Failure      302    {string}  string  "redirect to /auth-error"
// @Router       /auth/callback [get]
func (h *AuthHandler) Callback(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return c.Redirect(http.StatusFound, "/auth-error")
	}

	res, err := h.signIn.CompleteSignIn(c.Request().Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrLinkInvalid):
			metrics.SignInsTotal.WithLabelValues("invalid_link").Inc()
		case errors.Is(err, domain.ErrSignInDenied):
			metrics.SignInsTotal.WithLabelValues("denied").Inc()
		default:
			metrics.SignInsTotal.WithLabelValues("error").Inc()
			return err
		}
		return c.Redirect(http.StatusFound, "/auth-error")
	}

	metrics.SignInsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, callbackResponse{
		Token: res.Token,
		User: sessionResponse{
			ID:    res.User.ID,
			Email: res.User.Email,
			Role:  string(res.Role),
		},
	})
}

// Session returns the materialized session for the authenticated caller. The
// role it carries was re-derived by the Auth middleware for this request, not
// read from the stored token claim.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  map[string]string
// @Router       /auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	identity, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, sessionResponse{
		ID:    identity.UserID,
		Email: identity.Email,
		Role:  string(role),
	})
}
