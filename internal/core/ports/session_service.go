package ports

import (
	"context"

	"github.com/clinicsuite/clinic-portal/internal/core/domain"
)

// Identity is the minimal fact set carried by an authenticated token.
type Identity struct {
	UserID string
	Email  string
}

// SessionService produces the role claim carried by tokens and sessions.
type SessionService interface {
	// BindRole resolves the effective role for an identity. It is evaluated
	// at token mint and again on every refresh, so role changes propagate
	// without re-authentication. It never fails: a missing role row or a
	// datastore error degrades to domain.RoleUser.
	BindRole(ctx context.Context, identity Identity) domain.RoleLabel
	// Mint issues a signed session token for the user with a freshly bound
	// role claim, returning the token and the label that was stamped into it.
	Mint(ctx context.Context, user *domain.User) (string, domain.RoleLabel, error)
}
