package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/clinicsuite/clinic-portal/internal/api/metrics"
	"github.com/clinicsuite/clinic-portal/internal/core/domain"
	"github.com/clinicsuite/clinic-portal/internal/core/ports"
)

type InvitationHandler struct {
	invitations ports.InvitationService
}

func NewInvitationHandler(invitations ports.InvitationService) *InvitationHandler {
	return &InvitationHandler{invitations: invitations}
}

type inviteRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type inviteResponse struct {
	Message   string                  `json:"message"`
	Email     string                  `json:"email"`
	Status    domain.InvitationStatus `json:"status"`
	EmailSent bool                    `json:"emailSent"`
}

type listInvitationsResponse struct {
	Invitations []*domain.DoctorInvitation `json:"invitations"`
}

// Invite creates or reactivates a doctor invitation.
//
// @Summary      Invite a doctor
// @Tags         invitations
// @Accept       json
// @Produce      json
// @Param        body  body      inviteRequest  true  "Address to invite"
// @Success      201   {object}  inviteResponse
// @Success      200   {object}  inviteResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /invite [post]
func (h *InvitationHandler) Invite(c echo.Context) error {
	identity, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req inviteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	res, err := h.invitations.Invite(c.Request().Context(), req.Email, identity.UserID)
	if err != nil {
		return err
	}

	metrics.InvitesTotal.WithLabelValues(string(res.Outcome), strconv.FormatBool(res.EmailSent)).Inc()

	status := http.StatusOK
	message := "invitation updated"
	if res.Outcome == ports.InviteCreated {
		status = http.StatusCreated
		message = "invitation sent"
	}
	return c.JSON(status, inviteResponse{
		Message:   message,
		Email:     req.Email,
		Status:    res.Invitation.Status,
		EmailSent: res.EmailSent,
	})
}

// List returns all doctor invitations for the admin panel.
//
// @Summary      List doctor invitations
// @Tags         invitations
// @Produce      json
// @Success      200  {object}  listInvitationsResponse
// @Failure      403  {object}  map[string]string
// @Router       /invitations [get]
func (h *InvitationHandler) List(c echo.Context) error {
	invs, err := h.invitations.List(c.Request().Context())
	if err != nil {
		return err
	}
	if invs == nil {
		invs = []*domain.DoctorInvitation{}
	}
	return c.JSON(http.StatusOK, listInvitationsResponse{Invitations: invs})
}

// Revoke blocks future sign-ins for an invited address.
//
// @Summary      Revoke a doctor invitation
// @Tags         invitations
// @Produce      json
// @Param        email  path      string  true  "Invited address"
// @Success      200    {object}  map[string]string
// @Failure      403    {object}  map[string]string
// @Failure      404    {object}  map[string]string
// @Router       /invitations/{email} [delete]
func (h *InvitationHandler) Revoke(c echo.Context) error {
	email := c.Param("email")
	if err := h.invitations.Revoke(c.Request().Context(), email); err != nil {
		return err
	}

	metrics.RevokesTotal.Inc()
	return c.JSON(http.StatusOK, map[string]string{"message": "invitation revoked", "email": email})
}
