package ports

import (
	"context"

	"github.com/clinicsuite/clinic-portal/internal/core/domain"
)

// InvitationRepository defines the persistence interface for doctor
// invitations. Email carries a datastore-level uniqueness constraint; Create
// must return domain.ErrInvitationExists on a duplicate so callers can
// re-fetch, making the constraint the arbiter under concurrent invites.
type InvitationRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.DoctorInvitation, error)
	Create(ctx context.Context, inv *domain.DoctorInvitation) (*domain.DoctorInvitation, error)
	UpdateStatus(ctx context.Context, id string, status domain.InvitationStatus) error
	List(ctx context.Context) ([]*domain.DoctorInvitation, error)
}
