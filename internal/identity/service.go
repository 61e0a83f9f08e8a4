package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ilumina/ilumina/internal/phone"
)

// ErrInvalidInput wraps validation failures for user provisioning.
var ErrInvalidInput = errors.New("invalid user input")

const minPasswordLength = 8

// Service manages the user lifecycle.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a new identity service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Repository exposes the underlying store to collaborators (auth, middleware).
func (s *Service) Repository() Repository {
	return s.repo
}

// Provision creates an account on behalf of an administrator. Managers and
// admins can only come into existence this way.
func (s *Service) Provision(ctx context.Context, in ProvisionInput) (User, error) {
	if phone.Digits(in.Phone) == "" {
		return User{}, fmt.Errorf("%w: phone is required", ErrInvalidInput)
	}
	normalized := phone.Normalize(in.Phone)
	role := in.Role
	if role == "" {
		role = RoleCitizen
	}
	if !ValidRole(role) {
		return User{}, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}

	now := s.now().UTC()
	user := User{
		ID:        uuid.New().String(),
		Phone:     normalized,
		Role:      role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		user.Name = &name
	}
	if email := strings.TrimSpace(in.Email); email != "" {
		if !strings.Contains(email, "@") {
			return User{}, fmt.Errorf("%w: malformed email", ErrInvalidInput)
		}
		user.Email = &email
	}
	if in.TeamID != "" {
		if _, err := uuid.Parse(in.TeamID); err != nil {
			return User{}, fmt.Errorf("%w: malformed team_id", ErrInvalidInput)
		}
		teamID := in.TeamID
		user.TeamID = &teamID
	}
	if in.Password != "" {
		if len(in.Password) < minPasswordLength {
			return User{}, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return User{}, err
		}
		user.PasswordHash = hash
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return User{}, err
	}
	return user, nil
}

// RegisterCitizen creates an active citizen account for a normalized phone.
func (s *Service) RegisterCitizen(ctx context.Context, normalizedPhone string, name *string) (User, error) {
	now := s.now().UTC()
	user := User{
		ID:        uuid.New().String(),
		Phone:     normalizedPhone,
		Name:      name,
		Role:      RoleCitizen,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return User{}, err
	}
	return user, nil
}

// List returns all users.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}
