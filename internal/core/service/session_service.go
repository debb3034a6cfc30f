package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/clinicsuite/clinic-portal/internal/core/domain"
	"github.com/clinicsuite/clinic-portal/internal/core/ports"
)

const defaultSessionTTL = 30 * 24 * time.Hour

// SessionService binds the role claim carried by session tokens. The role is
// re-derived from the datastore at mint and on every refresh, with the
// privileged-admin override applied at both points so a configured admin can
// never be locked out by a missing or wrong Role row.
type SessionService struct {
	users     ports.UserRepository
	roles     ports.RoleRepository
	admins    domain.AdminSet
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewSessionService(
	users ports.UserRepository,
	roles ports.RoleRepository,
	admins domain.AdminSet,
	jwtSecret string,
	tokenTTL time.Duration,
	log zerolog.Logger,
) *SessionService {
	if tokenTTL <= 0 {
		tokenTTL = defaultSessionTTL
	}
	return &SessionService{
		users:     users,
		roles:     roles,
		admins:    admins,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		log:       log,
	}
}

// BindRole resolves the effective role for an identity. Fail-closed: a
// missing Role row or any datastore error degrades to RoleUser rather than
// propagating, so a transient hiccup costs privilege, not availability.
func (s *SessionService) BindRole(ctx context.Context, identity ports.Identity) domain.RoleLabel {
	label := domain.RoleUser

	user, err := s.users.FindByID(ctx, identity.UserID)
	switch {
	case err != nil:
		if !errors.Is(err, domain.ErrUserNotFound) {
			s.log.Warn().Err(err).Str("user_id", identity.UserID).Msg("role binding: user lookup failed, defaulting to user")
		}
	case user.HasRole():
		role, rerr := s.roles.FindByID(ctx, *user.RoleID)
		if rerr != nil {
			s.log.Warn().Err(rerr).Str("user_id", identity.UserID).Msg("role binding: role lookup failed, defaulting to user")
		} else {
			label = domain.ParseRoleLabel(role.Name)
		}
	}

	if s.admins.Contains(identity.Email) {
		label = domain.RoleAdmin
	}
	return label
}

// Mint issues an HS256 session token carrying the freshly bound role claim.
func (s *SessionService) Mint(ctx context.Context, user *domain.User) (string, domain.RoleLabel, error) {
	role := s.BindRole(ctx, ports.Identity{UserID: user.ID, Email: user.Email})

	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"role":  string(role),
		"exp":   time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", domain.RoleUser, err
	}
	return signed, role, nil
}
