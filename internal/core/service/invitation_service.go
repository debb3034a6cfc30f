package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/clinicsuite/clinic-portal/internal/core/domain"
	"github.com/clinicsuite/clinic-portal/internal/core/ports"
)

// InvitationService manages the doctor invitation lifecycle. The invitation
// record is the source of truth; the notification email is sent last,
// best-effort, and its outcome is reported separately so a transport failure
// never fails the invite.
type InvitationService struct {
	invitations ports.InvitationRepository
	emails      ports.EmailSender
	emailFrom   string
	baseURL     string
	log         zerolog.Logger
}

func NewInvitationService(
	invitations ports.InvitationRepository,
	emails ports.EmailSender,
	emailFrom, baseURL string,
	log zerolog.Logger,
) *InvitationService {
	return &InvitationService{
		invitations: invitations,
		emails:      emails,
		emailFrom:   emailFrom,
		baseURL:     baseURL,
		log:         log,
	}
}

// Invite creates a pending invitation for email, reactivates a revoked one,
// or leaves an existing pending/accepted one untouched. A failed
// existing-invitation check degrades to the create path rather than aborting
// the admin's action.
func (s *InvitationService) Invite(ctx context.Context, email, invitedByUserID string) (*ports.InviteResult, error) {
	inv, outcome, err := s.upsertInvitation(ctx, email, invitedByUserID)
	if err != nil {
		return nil, err
	}

	// Email last: the record is already durable, the notification is
	// independently retriable by re-inviting.
	res := s.emails.Send(ctx, invitationMessage(email, s.emailFrom, s.baseURL))
	if !res.Sent {
		s.log.Warn().Err(res.Err).Str("email", email).Msg("invitation email not delivered")
	} else {
		s.log.Info().Str("email", email).Str("message_id", res.MessageID).Msg("invitation email sent")
	}

	return &ports.InviteResult{Invitation: inv, Outcome: outcome, EmailSent: res.Sent}, nil
}

func (s *InvitationService) upsertInvitation(ctx context.Context, email, invitedByUserID string) (*domain.DoctorInvitation, ports.InviteOutcome, error) {
	existing, err := s.invitations.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrInvitationNotFound) {
		s.log.Warn().Err(err).Str("email", email).Msg("existing-invitation check failed, continuing")
		existing = nil
	}

	if existing != nil {
		if existing.Status != domain.InvitationRevoked {
			return existing, ports.InviteUnchanged, nil
		}
		if err := s.invitations.UpdateStatus(ctx, existing.ID, domain.InvitationPending); err != nil {
			s.log.Warn().Err(err).Str("email", email).Msg("invitation reactivation write failed, continuing")
		}
		existing.Status = domain.InvitationPending
		return existing, ports.InviteReactivated, nil
	}

	now := time.Now().UTC()
	created, err := s.invitations.Create(ctx, &domain.DoctorInvitation{
		Email:     email,
		InvitedBy: invitedByUserID,
		Status:    domain.InvitationPending,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err == nil {
		return created, ports.InviteCreated, nil
	}
	if errors.Is(err, domain.ErrInvitationExists) {
		// Lost a race with a concurrent invite; the unique index on the email
		// arbitrates. Re-read and fall back to the reactivate/unchanged path.
		raced, ferr := s.invitations.FindByEmail(ctx, email)
		if ferr != nil {
			return nil, ports.InviteUnchanged, fmt.Errorf("re-read racing invitation: %w", ferr)
		}
		if raced.Status == domain.InvitationRevoked {
			if uerr := s.invitations.UpdateStatus(ctx, raced.ID, domain.InvitationPending); uerr != nil {
				s.log.Warn().Err(uerr).Str("email", email).Msg("invitation reactivation write failed, continuing")
			}
			raced.Status = domain.InvitationPending
			return raced, ports.InviteReactivated, nil
		}
		return raced, ports.InviteUnchanged, nil
	}
	// The authoritative write failed: this is the one path that surfaces.
	return nil, ports.InviteUnchanged, fmt.Errorf("create invitation: %w", err)
}

// Revoke blocks future sign-ins for email. It does not strip a role already
// granted to a user who accepted earlier; it only gates re-authentication.
func (s *InvitationService) Revoke(ctx context.Context, email string) error {
	inv, err := s.invitations.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrInvitationNotFound) {
			return domain.ErrInvitationNotFound
		}
		return fmt.Errorf("find invitation: %w", err)
	}
	if inv.Status == domain.InvitationRevoked {
		return nil
	}
	if err := s.invitations.UpdateStatus(ctx, inv.ID, domain.InvitationRevoked); err != nil {
		return fmt.Errorf("revoke invitation: %w", err)
	}
	s.log.Info().Str("email", email).Msg("doctor invitation revoked")
	return nil
}

// List returns all invitations for the admin panel.
func (s *InvitationService) List(ctx context.Context) ([]*domain.DoctorInvitation, error) {
	invs, err := s.invitations.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	return invs, nil
}
