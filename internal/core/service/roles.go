package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/clinicsuite/clinic-portal/internal/core/domain"
	"github.com/clinicsuite/clinic-portal/internal/core/ports"
)

// EnsureRole returns the role named name, creating it when missing. The unique
// index on the role name is the arbiter under concurrent creates: a duplicate
// key is treated as "already exists, re-fetch".
func EnsureRole(ctx context.Context, repo ports.RoleRepository, name string) (*domain.Role, error) {
	role, err := repo.FindByName(ctx, name)
	if err == nil {
		return role, nil
	}
	if !errors.Is(err, domain.ErrRoleNotFound) {
		return nil, fmt.Errorf("find role %q: %w", name, err)
	}

	created, err := repo.Create(ctx, &domain.Role{Name: name})
	if err == nil {
		return created, nil
	}
	if errors.Is(err, domain.ErrRoleExists) {
		return repo.FindByName(ctx, name)
	}
	return nil, fmt.Errorf("create role %q: %w", name, err)
}
