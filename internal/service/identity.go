package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/inspection-case-backend/internal/model"
	"github.com/iliyamo/inspection-case-backend/internal/repository"
)

// UserStore is the Identity Store contract.  Implementations report a
// missing record as repository.ErrNotFound and an email collision as
// repository.ErrEmailExists; Delete is idempotent.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (model.User, error)
	FindByID(ctx context.Context, id uint64) (model.User, error)
	Insert(ctx context.Context, u *model.User) error
	List(ctx context.Context) ([]model.User, error)
	Delete(ctx context.Context, id uint64) error
	UpdateRole(ctx context.Context, id uint64, role string) error
}

// PasswordHasher is the Credential Hasher contract.  Hash must be salted so
// two calls on the same input differ; Verify accepts any digest Hash made.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(hash, plain string) bool
}

// Identity owns user accounts: registration, administrative creation,
// authentication, listing, deletion and role changes.  It never returns a
// password digest to its callers.
type Identity struct {
	users  UserStore
	hasher PasswordHasher
	log    *logrus.Entry
}

func NewIdentity(users UserStore, hasher PasswordHasher, log *logrus.Entry) *Identity {
	if users == nil || hasher == nil {
		panic("nil dependency passed to NewIdentity")
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Identity{users: users, hasher: hasher, log: log.WithField("component", "identity")}
}

// Create registers a new account.  role may be empty, in which case the
// account starts as CASEWORKER.  The email must not be in use.
func (s *Identity) Create(ctx context.Context, name, email, password, role string) (model.PublicUser, error) {
	if name == "" || email == "" || password == "" {
		return model.PublicUser{}, validation("name, email and password are required")
	}
	if role == "" {
		role = model.RoleCaseworker
	}
	if !model.ValidRole(role) {
		return model.PublicUser{}, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}

	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return model.PublicUser{}, ErrDuplicateEmail
	case !errors.Is(err, repository.ErrNotFound):
		return model.PublicUser{}, internal("lookup user", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return model.PublicUser{}, internal("hash password", err)
	}
	if hash == "" {
		return model.PublicUser{}, internal("hash password", errors.New("empty digest"))
	}

	u := model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	if err := s.users.Insert(ctx, &u); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return model.PublicUser{}, ErrDuplicateEmail
		}
		return model.PublicUser{}, internal("insert user", err)
	}
	s.log.WithFields(logrus.Fields{"user_id": u.ID, "role": u.Role}).Info("user created")
	return u.Public(), nil
}

// Authenticate checks an email/password pair.  Unknown email and wrong
// password both yield ErrAuthFailure.
func (s *Identity) Authenticate(ctx context.Context, email, password string) (model.PublicUser, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.PublicUser{}, ErrAuthFailure
		}
		return model.PublicUser{}, internal("lookup user", err)
	}
	if !s.hasher.Verify(u.PasswordHash, password) {
		return model.PublicUser{}, ErrAuthFailure
	}
	return u.Public(), nil
}

// List returns every account without password digests.
func (s *Identity) List(ctx context.Context) ([]model.PublicUser, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, internal("list users", err)
	}
	out := make([]model.PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return out, nil
}

// Get returns one account by id.
func (s *Identity) Get(ctx context.Context, id uint64) (model.PublicUser, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.PublicUser{}, ErrNotFound
		}
		return model.PublicUser{}, internal("lookup user", err)
	}
	return u.Public(), nil
}

// Delete hard-deletes an account.  Deleting an unknown id succeeds.  Cases
// that reference the user keep their inspector snapshot.
func (s *Identity) Delete(ctx context.Context, id uint64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return internal("delete user", err)
	}
	return nil
}

// ChangeRole sets the role of targetID on behalf of actingEmail, which must
// come from a verified identity.  The checks run in a fixed order: role
// validity, target existence, then the self-demotion guard, which rejects
// any non-ADMIN role the acting user tries to give themselves whatever their
// current role is.
func (s *Identity) ChangeRole(ctx context.Context, actingEmail string, targetID uint64, newRole string) (model.PublicUser, error) {
	if !model.ValidRole(newRole) {
		return model.PublicUser{}, fmt.Errorf("%w: %q", ErrInvalidRole, newRole)
	}

	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.PublicUser{}, fmt.Errorf("%w: user %d", ErrNotFound, targetID)
		}
		return model.PublicUser{}, internal("lookup user", err)
	}

	if target.Email == actingEmail && newRole != model.RoleAdmin {
		return model.PublicUser{}, fmt.Errorf("%w: an admin cannot demote themselves", ErrForbidden)
	}

	if err := s.users.UpdateRole(ctx, targetID, newRole); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.PublicUser{}, fmt.Errorf("%w: user %d", ErrNotFound, targetID)
		}
		return model.PublicUser{}, internal("update role", err)
	}
	target.Role = newRole
	s.log.WithFields(logrus.Fields{"user_id": targetID, "role": newRole}).Info("role changed")
	return target.Public(), nil
}

// EnsureAdmin creates an ADMIN account for email unless one with that email
// already exists.  It reports whether an account was created.
func (s *Identity) EnsureAdmin(ctx context.Context, name, email, password string) (bool, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return false, nil
	}
	if name == "" {
		name = "Admin User"
	}
	_, err := s.Create(ctx, name, email, password, model.RoleAdmin)
	if errors.Is(err, ErrDuplicateEmail) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
