package ports

import (
	"context"

	"github.com/clinicsuite/clinic-portal/internal/core/domain"
)

// RoleRepository defines the persistence interface for roles.
// Role.Name carries a datastore-level uniqueness constraint; Create must
// return domain.ErrRoleExists on a duplicate so callers can re-fetch.
type RoleRepository interface {
	FindByName(ctx context.Context, name string) (*domain.Role, error)
	FindByID(ctx context.Context, id string) (*domain.Role, error)
	Create(ctx context.Context, role *domain.Role) (*domain.Role, error)
}
