package ports

import (
	"context"

	"github.com/clinicsuite/clinic-portal/internal/core/domain"
)

// InviteOutcome tells the caller what the invite call did to the record.
type InviteOutcome string

const (
	InviteCreated     InviteOutcome = "created"
	InviteReactivated InviteOutcome = "reactivated"
	// InviteUnchanged covers re-inviting an email whose invitation is already
	// pending or accepted; the call still succeeds.
	InviteUnchanged InviteOutcome = "unchanged"
)

// InviteResult is the outcome of an invite call. EmailSent reports the
// notification transport result separately from the record write: the
// invitation row is the source of truth, the email is best-effort.
type InviteResult struct {
	Invitation *domain.DoctorInvitation
	Outcome    InviteOutcome
	EmailSent  bool
}

// InvitationService manages doctor invitation state transitions. Callers are
// assumed to be already-authorized admins; enforcement lives at the HTTP
// boundary.
type InvitationService interface {
	Invite(ctx context.Context, email, invitedByUserID string) (*InviteResult, error)
	Revoke(ctx context.Context, email string) error
	List(ctx context.Context) ([]*domain.DoctorInvitation, error)
}
