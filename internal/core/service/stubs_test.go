package service

import (
	"context"
	"fmt"

	"github.com/clinicsuite/clinic-portal/internal/core/domain"
	"github.com/clinicsuite/clinic-portal/internal/core/ports"
)

// In-memory stand-ins for the repository ports. Error fields, when set, are
// returned unconditionally so failure paths can be exercised.

type stubUserRepo struct {
	users map[string]*domain.User // keyed by email

	findByEmailErr error
	findByIDErr    error
	createErr      error
	assignErr      error

	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	if u.RoleID != nil {
		roleID := *u.RoleID
		clone.RoleID = &roleID
	}
	return &clone
}

func (r *stubUserRepo) add(u *domain.User) *domain.User {
	if u.ID == "" {
		r.nextID++
		u.ID = fmt.Sprintf("user-%d", r.nextID)
	}
	r.users[u.Email] = cloneUser(u)
	return cloneUser(u)
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.findByEmailErr != nil {
		return nil, r.findByEmailErr
	}
	u, ok := r.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if r.findByIDErr != nil {
		return nil, r.findByIDErr
	}
	for _, u := range r.users {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	if _, exists := r.users[user.Email]; exists {
		return nil, domain.ErrUserExists
	}
	return r.add(cloneUser(user)), nil
}

func (r *stubUserRepo) AssignRole(_ context.Context, userID, roleID string) error {
	if r.assignErr != nil {
		return r.assignErr
	}
	for _, u := range r.users {
		if u.ID == userID {
			id := roleID
			u.RoleID = &id
			return nil
		}
	}
	return domain.ErrUserNotFound
}

type stubRoleRepo struct {
	roles map[string]*domain.Role // keyed by name

	findErr   error
	createErr error

	nextID int
}

func newStubRoleRepo() *stubRoleRepo {
	return &stubRoleRepo{roles: make(map[string]*domain.Role)}
}

func (r *stubRoleRepo) add(name string) *domain.Role {
	r.nextID++
	role := &domain.Role{ID: fmt.Sprintf("role-%d", r.nextID), Name: name}
	r.roles[name] = role
	return role
}

func (r *stubRoleRepo) FindByName(_ context.Context, name string) (*domain.Role, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	role, ok := r.roles[name]
	if !ok {
		return nil, domain.ErrRoleNotFound
	}
	clone := *role
	return &clone, nil
}

func (r *stubRoleRepo) FindByID(_ context.Context, id string) (*domain.Role, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, role := range r.roles {
		if role.ID == id {
			clone := *role
			return &clone, nil
		}
	}
	return nil, domain.ErrRoleNotFound
}

func (r *stubRoleRepo) Create(_ context.Context, role *domain.Role) (*domain.Role, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	if _, exists := r.roles[role.Name]; exists {
		return nil, domain.ErrRoleExists
	}
	created := r.add(role.Name)
	clone := *created
	return &clone, nil
}

type stubInvitationRepo struct {
	invs map[string]*domain.DoctorInvitation // keyed by email

	findErr   error
	createErr error
	updateErr error

	nextID int
}

func newStubInvitationRepo() *stubInvitationRepo {
	return &stubInvitationRepo{invs: make(map[string]*domain.DoctorInvitation)}
}

func cloneInvitation(i *domain.DoctorInvitation) *domain.DoctorInvitation {
	if i == nil {
		return nil
	}
	clone := *i
	return &clone
}

func (r *stubInvitationRepo) add(inv *domain.DoctorInvitation) *domain.DoctorInvitation {
	if inv.ID == "" {
		r.nextID++
		inv.ID = fmt.Sprintf("inv-%d", r.nextID)
	}
	r.invs[inv.Email] = cloneInvitation(inv)
	return cloneInvitation(inv)
}

func (r *stubInvitationRepo) FindByEmail(_ context.Context, email string) (*domain.DoctorInvitation, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	inv, ok := r.invs[email]
	if !ok {
		return nil, domain.ErrInvitationNotFound
	}
	return cloneInvitation(inv), nil
}

func (r *stubInvitationRepo) Create(_ context.Context, inv *domain.DoctorInvitation) (*domain.DoctorInvitation, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	if _, exists := r.invs[inv.Email]; exists {
		return nil, domain.ErrInvitationExists
	}
	return r.add(cloneInvitation(inv)), nil
}

func (r *stubInvitationRepo) UpdateStatus(_ context.Context, id string, status domain.InvitationStatus) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	for _, inv := range r.invs {
		if inv.ID == id {
			inv.Status = status
			return nil
		}
	}
	return domain.ErrInvitationNotFound
}

func (r *stubInvitationRepo) List(_ context.Context) ([]*domain.DoctorInvitation, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	out := make([]*domain.DoctorInvitation, 0, len(r.invs))
	for _, inv := range r.invs {
		out = append(out, cloneInvitation(inv))
	}
	return out, nil
}

type stubLinkStore struct {
	tokens map[string]string // token → email

	saveErr    error
	consumeErr error
}

func newStubLinkStore() *stubLinkStore {
	return &stubLinkStore{tokens: make(map[string]string)}
}

func (s *stubLinkStore) Save(_ context.Context, token, email string) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.tokens[token] = email
	return nil
}

func (s *stubLinkStore) Consume(_ context.Context, token string) (string, error) {
	if s.consumeErr != nil {
		return "", s.consumeErr
	}
	email, ok := s.tokens[token]
	if !ok {
		return "", domain.ErrLinkInvalid
	}
	delete(s.tokens, token)
	return email, nil
}

type stubEmailSender struct {
	sent []ports.EmailMessage
	fail bool
}

func (s *stubEmailSender) Send(_ context.Context, msg ports.EmailMessage) ports.EmailResult {
	if s.fail {
		return ports.EmailResult{Sent: false, Err: fmt.Errorf("smtp unavailable")}
	}
	s.sent = append(s.sent, msg)
	return ports.EmailResult{Sent: true, MessageID: fmt.Sprintf("<msg-%d@test>", len(s.sent))}
}
