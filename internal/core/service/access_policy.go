package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/clinicsuite/clinic-portal/internal/core/domain"
	"github.com/clinicsuite/clinic-portal/internal/core/ports"
)

// AccessPolicy decides who may receive a sign-in link and whose sign-in
// attempt is accepted. Denials are silent and failures are fail-closed: every
// datastore problem collapses to "deny", never to an error the caller could
// leak to the requester.
type AccessPolicy struct {
	admins      domain.AdminSet
	users       ports.UserRepository
	roles       ports.RoleRepository
	invitations ports.InvitationRepository
	log         zerolog.Logger
}

func NewAccessPolicy(
	admins domain.AdminSet,
	users ports.UserRepository,
	roles ports.RoleRepository,
	invitations ports.InvitationRepository,
	log zerolog.Logger,
) *AccessPolicy {
	return &AccessPolicy{
		admins:      admins,
		users:       users,
		roles:       roles,
		invitations: invitations,
		log:         log,
	}
}

// ShouldIssueLink reports whether a verification email may be sent to email.
// Privileged admins always pass; otherwise a pending invitation or an existing
// admin/doctor user is required.
func (p *AccessPolicy) ShouldIssueLink(ctx context.Context, email string) bool {
	if p.admins.Contains(email) {
		return true
	}

	inv, err := p.invitations.FindByEmail(ctx, email)
	if err == nil && inv.Status == domain.InvitationPending {
		return true
	}
	if err != nil && !errors.Is(err, domain.ErrInvitationNotFound) {
		p.log.Warn().Err(err).Str("email", email).Msg("invitation lookup failed, denying link")
		return false
	}

	// Re-authentication of an already-provisioned user.
	label, ok := p.existingRole(ctx, email)
	if !ok {
		return false
	}
	return label == domain.RoleAdmin || label == domain.RoleDoctor
}

// ShouldCompleteSignIn re-validates access at link-consumption time and
// carries the role-attachment side effects. The privileged-admin check always
// short-circuits; a revoked invitation denies unconditionally.
func (p *AccessPolicy) ShouldCompleteSignIn(ctx context.Context, email string) bool {
	if p.admins.Contains(email) {
		p.ensureAdminRole(ctx, email)
		return true
	}

	inv, err := p.invitations.FindByEmail(ctx, email)
	if err == nil {
		if inv.Blocks() {
			p.log.Info().Str("email", email).Msg("sign-in denied: invitation revoked")
			return false
		}
		p.acceptInvitation(ctx, email, inv)
		return true
	}
	if !errors.Is(err, domain.ErrInvitationNotFound) {
		p.log.Warn().Err(err).Str("email", email).Msg("invitation lookup failed, denying sign-in")
		return false
	}

	// No invitation, not privileged: only users that already hold a role get in.
	_, ok := p.existingRole(ctx, email)
	return ok
}

// existingRole looks up the user's attached role. ok is false when the user is
// missing, has no role, or the lookup fails.
func (p *AccessPolicy) existingRole(ctx context.Context, email string) (domain.RoleLabel, bool) {
	user, err := p.users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			p.log.Warn().Err(err).Str("email", email).Msg("user lookup failed")
		}
		return domain.RoleUser, false
	}
	if !user.HasRole() {
		return domain.RoleUser, false
	}
	role, err := p.roles.FindByID(ctx, *user.RoleID)
	if err != nil {
		p.log.Warn().Err(err).Str("email", email).Msg("role lookup failed")
		return domain.RoleUser, false
	}
	return domain.ParseRoleLabel(role.Name), true
}

// ensureAdminRole attaches the admin role to a privileged user's row unless it
// is already attached. Best-effort: the admin is let in even if the
// bookkeeping fails, since the session override forces the label anyway.
func (p *AccessPolicy) ensureAdminRole(ctx context.Context, email string) {
	user, err := p.users.FindByEmail(ctx, email)
	if err != nil {
		p.log.Warn().Err(err).Str("email", email).Msg("admin role upsert: user lookup failed")
		return
	}

	role, err := EnsureRole(ctx, p.roles, string(domain.RoleAdmin))
	if err != nil {
		p.log.Warn().Err(err).Msg("admin role upsert: ensure role failed")
		return
	}
	if user.RoleID != nil && *user.RoleID == role.ID {
		return
	}
	if err := p.users.AssignRole(ctx, user.ID, role.ID); err != nil {
		p.log.Warn().Err(err).Str("email", email).Msg("admin role upsert: assignment failed")
		return
	}
	p.log.Info().Str("email", email).Msg("admin role assigned")
}

// acceptInvitation performs the first-acceptance transition: attach the doctor
// role and mark the invitation accepted. Re-running against an already
// role-bearing user is a no-op. Best-effort: failures are logged, the sign-in
// proceeds.
func (p *AccessPolicy) acceptInvitation(ctx context.Context, email string, inv *domain.DoctorInvitation) {
	user, err := p.users.FindByEmail(ctx, email)
	if err != nil {
		p.log.Warn().Err(err).Str("email", email).Msg("invitation acceptance: user lookup failed")
		return
	}
	if user.HasRole() {
		return
	}

	role, err := EnsureRole(ctx, p.roles, string(domain.RoleDoctor))
	if err != nil {
		p.log.Warn().Err(err).Msg("invitation acceptance: ensure role failed")
		return
	}
	if err := p.users.AssignRole(ctx, user.ID, role.ID); err != nil {
		p.log.Warn().Err(err).Str("email", email).Msg("invitation acceptance: role assignment failed")
		return
	}

	if inv.Status != domain.InvitationAccepted {
		if err := p.invitations.UpdateStatus(ctx, inv.ID, domain.InvitationAccepted); err != nil {
			p.log.Warn().Err(err).Str("email", email).Msg("invitation acceptance: status update failed")
			return
		}
	}
	p.log.Info().Str("email", email).Msg("doctor invitation accepted")
}
