package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/clinicsuite/clinic-portal/internal/core/domain"
	"github.com/clinicsuite/clinic-portal/internal/core/ports"
)

const linkTokenBytes = 32

// SignInService implements the two halves of the magic-link flow: issuing a
// link (silently gated by the access policy) and consuming it (re-validated,
// defense in depth).
type SignInService struct {
	policy    ports.AccessPolicy
	users     ports.UserRepository
	links     ports.LinkStore
	emails    ports.EmailSender
	sessions  ports.SessionService
	emailFrom string
	baseURL   string
	linkTTL   time.Duration
	log       zerolog.Logger
}

func NewSignInService(
	policy ports.AccessPolicy,
	users ports.UserRepository,
	links ports.LinkStore,
	emails ports.EmailSender,
	sessions ports.SessionService,
	emailFrom, baseURL string,
	linkTTL time.Duration,
	log zerolog.Logger,
) *SignInService {
	return &SignInService{
		policy:    policy,
		users:     users,
		links:     links,
		emails:    emails,
		sessions:  sessions,
		emailFrom: emailFrom,
		baseURL:   baseURL,
		linkTTL:   linkTTL,
		log:       log,
	}
}

// RequestLink issues a sign-in link when the policy allows it. The outcome is
// opaque to the caller: whether the address was unknown, denied, or the link
// could not be stored or mailed, the method returns nil so nothing leaks
// about which emails are registered. Only a syntactically invalid address is
// reported.
func (s *SignInService) RequestLink(ctx context.Context, email string) error {
	if !strings.Contains(email, "@") {
		return domain.ErrInvalidEmail
	}

	if !s.policy.ShouldIssueLink(ctx, email) {
		s.log.Info().Str("email", email).Msg("sign-in link denied")
		return nil
	}

	token, err := newLinkToken()
	if err != nil {
		s.log.Error().Err(err).Msg("link token generation failed")
		return nil
	}
	if err := s.links.Save(ctx, token, email); err != nil {
		s.log.Error().Err(err).Str("email", email).Msg("link token store failed")
		return nil
	}

	link := fmt.Sprintf("%s/auth/callback?token=%s", s.baseURL, url.QueryEscape(token))
	res := s.emails.Send(ctx, signInMessage(email, s.emailFrom, link, s.linkTTL))
	if !res.Sent {
		s.log.Warn().Err(res.Err).Str("email", email).Msg("sign-in email not delivered")
		return nil
	}

	s.log.Info().Str("email", email).Str("message_id", res.MessageID).Msg("sign-in link sent")
	return nil
}

// CompleteSignIn consumes a single-use link token, ensures the user record
// exists (the identity layer creates users on first successful verification),
// re-runs the access policy, and mints a session token.
func (s *SignInService) CompleteSignIn(ctx context.Context, token string) (*ports.SignInResult, error) {
	email, err := s.links.Consume(ctx, token)
	if err != nil {
		if !errors.Is(err, domain.ErrLinkInvalid) {
			s.log.Warn().Err(err).Msg("link consumption failed")
		}
		return nil, domain.ErrLinkInvalid
	}

	user, err := s.ensureUser(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("ensure user: %w", err)
	}

	if !s.policy.ShouldCompleteSignIn(ctx, email) {
		return nil, domain.ErrSignInDenied
	}

	// Re-read to pick up the role the policy side effects may have attached.
	if fresh, ferr := s.users.FindByEmail(ctx, email); ferr == nil {
		user = fresh
	}

	sessionToken, role, err := s.sessions.Mint(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("mint session: %w", err)
	}

	s.log.Info().Str("email", email).Str("role", string(role)).Msg("sign-in completed")
	return &ports.SignInResult{Token: sessionToken, User: user, Role: role}, nil
}

// ensureUser returns the user row for email, creating it on first
// verification. The unique index on the email arbitrates concurrent sign-ins.
func (s *SignInService) ensureUser(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.users.Create(ctx, &domain.User{Email: email, CreatedAt: now, UpdatedAt: now})
	if err == nil {
		return created, nil
	}
	if errors.Is(err, domain.ErrUserExists) {
		return s.users.FindByEmail(ctx, email)
	}
	return nil, err
}

func newLinkToken() (string, error) {
	buf := make([]byte, linkTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
