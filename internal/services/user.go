package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/loreycode/cms-api/internal/store"
	"github.com/loreycode/cms-api/types"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength applies to passwords set from the command line and at login.
const MinPasswordLength = 6

// ErrInvalidCredentials is returned by Authenticate for an unknown email or wrong password.
var ErrInvalidCredentials = errors.New("invalid email or password")

// dummyHash is compared against when the email is unknown so both failure
// paths cost one bcrypt comparison.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
}

// UserService encapsulates user use-cases.
type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) GetByID(ctx context.Context, id string) (types.User, error) {
	return s.repo.GetByID(ctx, id)
}

// Authenticate returns the user whose email and password match.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (types.User, error) {
	user, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return types.User{}, ErrInvalidCredentials
		}
		return types.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return types.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// Create provisions an administrator with a bcrypt-hashed password.
func (s *UserService) Create(ctx context.Context, email, name, role, password string) (types.User, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)
	if email == "" || name == "" {
		return types.User{}, errors.New("email and name are required")
	}
	if len(password) < MinPasswordLength {
		return types.User{}, fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	if role != types.RoleAdmin && role != types.RoleSuperAdmin {
		return types.User{}, fmt.Errorf("role must be %s or %s", types.RoleAdmin, types.RoleSuperAdmin)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return types.User{}, err
	}
	return s.repo.Create(ctx, types.User{
		Email:        email,
		Name:         name,
		Role:         role,
		PasswordHash: string(hashed),
	})
}
