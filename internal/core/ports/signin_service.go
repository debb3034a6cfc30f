package ports

import (
	"context"

	"github.com/clinicsuite/clinic-portal/internal/core/domain"
)

// SignInResult is produced when a magic link is successfully consumed.
type SignInResult struct {
	Token string
	User  *domain.User
	Role  domain.RoleLabel
}

// SignInService implements the two halves of the magic-link flow.
type SignInService interface {
	// RequestLink issues a sign-in link for email when the access policy
	// allows it. Denial is silent: the method returns nil either way, so the
	// caller cannot tell whether the address was known. Only a malformed
	// email is reported (domain.ErrInvalidEmail).
	RequestLink(ctx context.Context, email string) error
	// CompleteSignIn consumes a link token, re-validates access, ensures the
	// user record exists, and mints a session token.
	CompleteSignIn(ctx context.Context, token string) (*SignInResult, error)
}
