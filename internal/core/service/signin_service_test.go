package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/clinicsuite/clinic-portal/internal/core/domain"
)

type signInFixture struct {
	users       *stubUserRepo
	roles       *stubRoleRepo
	invitations *stubInvitationRepo
	links       *stubLinkStore
	sender      *stubEmailSender
	signIn      *SignInService
}

func newSignInFixture(adminEmails ...string) *signInFixture {
	f := &signInFixture{
		users:       newStubUserRepo(),
		roles:       newStubRoleRepo(),
		invitations: newStubInvitationRepo(),
		links:       newStubLinkStore(),
		sender:      &stubEmailSender{},
	}
	admins := domain.NewAdminSet(adminEmails...)
	policy := NewAccessPolicy(admins, f.users, f.roles, f.invitations, zerolog.Nop())
	sessions := NewSessionService(f.users, f.roles, admins, "secret", time.Hour, zerolog.Nop())
	f.signIn = NewSignInService(policy, f.users, f.links, f.sender, sessions,
		"noreply@clinic.test", "http://localhost:8080", 30*time.Minute, zerolog.Nop())
	return f
}

func TestRequestLink_MalformedEmail(t *testing.T) {
	f := newSignInFixture("admin@clinic.test")

	if err := f.signIn.RequestLink(context.Background(), "not-an-email"); !errors.Is(err, domain.ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
	if len(f.sender.sent) != 0 {
		t.Fatalf("no email may be attempted for a malformed address")
	}
}

func TestRequestLink_DeniedSilently(t *testing.T) {
	f := newSignInFixture("admin@clinic.test")

	if err := f.signIn.RequestLink(context.Background(), "stranger@clinic.test"); err != nil {
		t.Fatalf("denial must be silent, got %v", err)
	}
	if len(f.sender.sent) != 0 {
		t.Fatalf("no email may be attempted for a denied address")
	}
	if len(f.links.tokens) != 0 {
		t.Fatalf("no link token may be stored for a denied address")
	}
}

func TestRequestLink_AllowedSendsLink(t *testing.T) {
	f := newSignInFixture("admin@clinic.test")
	f.invitations.add(&domain.DoctorInvitation{Email: "doc@clinic.test", Status: domain.InvitationPending})

	if err := f.signIn.RequestLink(context.Background(), "doc@clinic.test"); err != nil {
		t.Fatalf("RequestLink returned error: %v", err)
	}
	if len(f.sender.sent) != 1 {
		t.Fatalf("expected one email, got %d", len(f.sender.sent))
	}
	if len(f.links.tokens) != 1 {
		t.Fatalf("expected one stored token, got %d", len(f.links.tokens))
	}
	for token := range f.links.tokens {
		if !strings.Contains(f.sender.sent[0].TextBody, token) {
			t.Fatalf("email body must carry the link token")
		}
	}
}

func TestRequestLink_StoreFailureStaysOpaque(t *testing.T) {
	f := newSignInFixture("admin@clinic.test")
	f.links.saveErr = errors.New("redis down")

	if err := f.signIn.RequestLink(context.Background(), "admin@clinic.test"); err != nil {
		t.Fatalf("store failure must stay opaque to the requester, got %v", err)
	}
	if len(f.sender.sent) != 0 {
		t.Fatalf("no email may be sent when the token was not stored")
	}
}

func TestCompleteSignIn_InvalidToken(t *testing.T) {
	f := newSignInFixture("admin@clinic.test")

	if _, err := f.signIn.CompleteSignIn(context.Background(), "bogus"); !errors.Is(err, domain.ErrLinkInvalid) {
		t.Fatalf("expected ErrLinkInvalid, got %v", err)
	}
}

func TestCompleteSignIn_LinkIsSingleUse(t *testing.T) {
	f := newSignInFixture("admin@clinic.test")
	f.links.tokens["tok-1"] = "admin@clinic.test"

	if _, err := f.signIn.CompleteSignIn(context.Background(), "tok-1"); err != nil {
		t.Fatalf("first consumption failed: %v", err)
	}
	if _, err := f.signIn.CompleteSignIn(context.Background(), "tok-1"); !errors.Is(err, domain.ErrLinkInvalid) {
		t.Fatalf("expected second consumption to fail with ErrLinkInvalid, got %v", err)
	}
}

func TestCompleteSignIn_CreatesUserOnFirstVerification(t *testing.T) {
	f := newSignInFixture("admin@clinic.test")
	f.invitations.add(&domain.DoctorInvitation{Email: "doc@clinic.test", Status: domain.InvitationPending})
	f.links.tokens["tok-1"] = "doc@clinic.test"

	res, err := f.signIn.CompleteSignIn(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("CompleteSignIn returned error: %v", err)
	}
	if res.Role != domain.RoleDoctor {
		t.Fatalf("expected doctor session role, got %s", res.Role)
	}
	if res.User == nil || res.User.Email != "doc@clinic.test" {
		t.Fatalf("expected a user record for doc@clinic.test, got %+v", res.User)
	}
	if res.Token == "" {
		t.Fatalf("expected a session token")
	}

	stored, err := f.users.FindByEmail(context.Background(), "doc@clinic.test")
	if err != nil {
		t.Fatalf("user was not created: %v", err)
	}
	if !stored.HasRole() {
		t.Fatalf("expected doctor role attached to the new user")
	}
}

func TestCompleteSignIn_RevokedInvitationDenied(t *testing.T) {
	f := newSignInFixture("admin@clinic.test")
	f.invitations.add(&domain.DoctorInvitation{Email: "doc@clinic.test", Status: domain.InvitationRevoked})
	f.links.tokens["tok-1"] = "doc@clinic.test"

	if _, err := f.signIn.CompleteSignIn(context.Background(), "tok-1"); !errors.Is(err, domain.ErrSignInDenied) {
		t.Fatalf("expected ErrSignInDenied, got %v", err)
	}
}

// TestInvitationFlow walks the whole lifecycle: a configured admin invites a
// doctor, the doctor signs in (invitation accepted, doctor role attached and
// carried by the session), the admin revokes, and the next sign-in attempt is
// denied before any email goes out.
func TestInvitationFlow(t *testing.T) {
	f := newSignInFixture("a@x.com")
	invitations := NewInvitationService(f.invitations, f.sender, "noreply@clinic.test", "http://localhost:8080", zerolog.Nop())
	admin := f.users.add(&domain.User{Email: "a@x.com"})

	res, err := invitations.Invite(context.Background(), "doc@y.com", admin.ID)
	if err != nil {
		t.Fatalf("invite failed: %v", err)
	}
	if res.Invitation.Status != domain.InvitationPending || !res.EmailSent {
		t.Fatalf("unexpected invite result: %+v", res)
	}

	if err := f.signIn.RequestLink(context.Background(), "doc@y.com"); err != nil {
		t.Fatalf("link request failed: %v", err)
	}
	var token string
	for tok := range f.links.tokens {
		token = tok
	}
	signedIn, err := f.signIn.CompleteSignIn(context.Background(), token)
	if err != nil {
		t.Fatalf("sign-in failed: %v", err)
	}
	if signedIn.Role != domain.RoleDoctor {
		t.Fatalf("expected session role doctor, got %s", signedIn.Role)
	}
	if got := f.invitations.invs["doc@y.com"].Status; got != domain.InvitationAccepted {
		t.Fatalf("expected invitation ACCEPTED, got %s", got)
	}

	if err := invitations.Revoke(context.Background(), "doc@y.com"); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}

	f.links.tokens["tok-2"] = "doc@y.com"
	if _, err := f.signIn.CompleteSignIn(context.Background(), "tok-2"); !errors.Is(err, domain.ErrSignInDenied) {
		t.Fatalf("expected revoked doctor to be denied, got %v", err)
	}
}
