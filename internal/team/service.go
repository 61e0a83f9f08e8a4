package team

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidInput wraps validation failures.
var ErrInvalidInput = errors.New("invalid team input")

// Service manages teams.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService builds a team service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Create stores a new team; teams are active unless stated otherwise.
func (s *Service) Create(ctx context.Context, in CreateInput) (Team, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Team{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	now := s.now().UTC()
	t := Team{
		ID:          uuid.New().String(),
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.IsActive != nil {
		t.IsActive = *in.IsActive
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return Team{}, err
	}
	return t, nil
}

// Get returns a team by id.
func (s *Service) Get(ctx context.Context, id string) (Team, error) {
	return s.repo.Get(ctx, id)
}

// List returns every team.
func (s *Service) List(ctx context.Context) ([]Team, error) {
	return s.repo.List(ctx)
}

// FirstActive picks the team new tickets are routed to by default.
func (s *Service) FirstActive(ctx context.Context) (Team, error) {
	return s.repo.FirstActive(ctx)
}
