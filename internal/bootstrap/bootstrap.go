// Package bootstrap provisions the records the portal assumes exist: the
// admin role and a user row for every privileged address. It runs once at
// process start and is idempotent.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/clinicsuite/clinic-portal/internal/core/domain"
	"github.com/clinicsuite/clinic-portal/internal/core/ports"
	"github.com/clinicsuite/clinic-portal/internal/core/service"
)

// Provision ensures the admin role exists and that each configured privileged
// email owns a user row with that role attached. Re-running never duplicates:
// role creation is find-or-create and user writes only happen when the row or
// assignment is missing.
func Provision(
	ctx context.Context,
	users ports.UserRepository,
	roles ports.RoleRepository,
	admins domain.AdminSet,
	log zerolog.Logger,
) error {
	role, err := service.EnsureRole(ctx, roles, string(domain.RoleAdmin))
	if err != nil {
		return fmt.Errorf("bootstrap admin role: %w", err)
	}

	for _, email := range admins.Emails() {
		if err := provisionAdminUser(ctx, users, role, email, log); err != nil {
			return fmt.Errorf("bootstrap admin user %s: %w", email, err)
		}
	}
	return nil
}

func provisionAdminUser(ctx context.Context, users ports.UserRepository, role *domain.Role, email string, log zerolog.Logger) error {
	user, err := users.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		now := time.Now().UTC()
		roleID := role.ID
		created, cerr := users.Create(ctx, &domain.User{
			Email:     email,
			RoleID:    &roleID,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if errors.Is(cerr, domain.ErrUserExists) {
			// Lost a race with another instance starting up; re-read.
			user, err = users.FindByEmail(ctx, email)
			if err != nil {
				return err
			}
		} else if cerr != nil {
			return cerr
		} else {
			log.Info().Str("email", created.Email).Msg("admin user provisioned")
			return nil
		}
	case err != nil:
		return err
	}

	if user.RoleID != nil && *user.RoleID == role.ID {
		return nil
	}
	if err := users.AssignRole(ctx, user.ID, role.ID); err != nil {
		return err
	}
	log.Info().Str("email", email).Msg("admin role attached to existing user")
	return nil
}
