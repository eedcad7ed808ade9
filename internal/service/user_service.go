package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/seongmin-k/festival-discovery/internal/model"
	"github.com/seongmin-k/festival-discovery/internal/repository"
	"github.com/seongmin-k/festival-discovery/internal/utils"
)

// UserService manages accounts: signup with unique email, login
// through the pluggable credential verifier, and profile updates.
type UserService struct {
	users    UserStore
	verifier utils.CredentialVerifier
}

// NewUserService constructs a UserService with the given store and
// credential verifier.
func NewUserService(users UserStore, verifier utils.CredentialVerifier) *UserService {
	return &UserService{users: users, verifier: verifier}
}

// SignupInput carries the request payload for a new account.
type SignupInput struct {
	Name      string
	Email     string
	Password  string
	Interests []string
}

// Signup creates a non-admin account.  A registered email fails with
// ErrEmailExists; interests are joined into the stored delimited form.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*model.User, error) {
	_, err := s.users.GetByEmail(ctx, in.Email)
	if err == nil {
		return nil, fmt.Errorf("%w: %s", repository.ErrEmailExists, in.Email)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	stored, err := s.verifier.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	u := model.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: stored,
		Interest: model.JoinCategories(in.Interests),
		Admin:    0,
		JoinedAt: time.Now().UTC(),
	}
	if err := s.users.Create(ctx, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Login verifies the credentials and returns the account.  An unknown
// email and a wrong password both fail with ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (*model.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !s.verifier.Verify(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Get returns an account by id.
func (s *UserService) Get(ctx context.Context, id uint64) (*model.User, error) {
	return s.users.GetByID(ctx, id)
}

// ListAll returns every account.
func (s *UserService) ListAll(ctx context.Context) ([]model.User, error) {
	return s.users.ListAll(ctx)
}

// UserPatch carries the optional fields of a profile update.  Nil
// fields leave the stored value untouched; an empty password string is
// ignored rather than stored.
type UserPatch struct {
	Name      *string
	Password  *string
	Interests []string
}

// Update merges the patch onto the stored account and persists it.
func (s *UserService) Update(ctx context.Context, id uint64, patch UserPatch) (*model.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.Password != nil && *patch.Password != "" {
		stored, err := s.verifier.Hash(*patch.Password)
		if err != nil {
			return nil, err
		}
		u.Password = stored
	}
	if patch.Interests != nil {
		u.Interest = model.JoinCategories(patch.Interests)
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
