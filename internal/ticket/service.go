package ticket

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mmcloughlin/geohash"

	"github.com/ilumina/ilumina/internal/phone"
	"github.com/ilumina/ilumina/internal/team"
)

// ErrInvalidInput wraps validation failures.
var ErrInvalidInput = errors.New("invalid ticket input")

// TeamDirectory resolves teams for assignment.
type TeamDirectory interface {
	Get(ctx context.Context, id string) (team.Team, error)
	FirstActive(ctx context.Context) (team.Team, error)
}

// Service manages tickets.
type Service struct {
	repo  Repository
	teams TeamDirectory
	now   func() time.Time
}

// NewService builds a ticket service.
func NewService(repo Repository, teams TeamDirectory) *Service {
	return &Service{repo: repo, teams: teams, now: time.Now}
}

// Create validates a report, routes it to a team and sets its SLA due date.
func (s *Service) Create(ctx context.Context, in CreateInput) (Ticket, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return Ticket{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	priority := in.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	if !validPriority(priority) {
		return Ticket{}, fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, priority)
	}
	status := in.Status
	if status == "" {
		status = StatusOpen
	}
	if !validStatus(status) {
		return Ticket{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	hash, err := locate(in.Latitude, in.Longitude)
	if err != nil {
		return Ticket{}, err
	}

	var citizenPhone string
	if phone.Digits(in.CitizenPhone) != "" {
		citizenPhone = phone.Normalize(in.CitizenPhone)
	}

	now := s.now().UTC()
	due := dueDate(now, priority)
	t := Ticket{
		ID:           uuid.New().String(),
		Title:        title,
		Description:  strings.TrimSpace(in.Description),
		Status:       status,
		Priority:     priority,
		Latitude:     in.Latitude,
		Longitude:    in.Longitude,
		Geohash:      hash,
		Address:      strings.TrimSpace(in.Address),
		PhotoURL:     strings.TrimSpace(in.PhotoURL),
		CitizenPhone: citizenPhone,
		CitizenName:  strings.TrimSpace(in.CitizenName),
		DueDate:      &due,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	teamID, err := s.assign(ctx, in.AssignedTeamID)
	if err != nil {
		return Ticket{}, err
	}
	t.AssignedTeamID = teamID

	if err := s.repo.Create(ctx, t); err != nil {
		return Ticket{}, err
	}
	return t, nil
}

// assign returns the explicit team when it exists, otherwise the first
// active team, otherwise nil.
func (s *Service) assign(ctx context.Context, requested string) (*string, error) {
	if requested != "" {
		t, err := s.teams.Get(ctx, requested)
		if errors.Is(err, team.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown team %q", ErrInvalidInput, requested)
		}
		if err != nil {
			return nil, err
		}
		return &t.ID, nil
	}
	t, err := s.teams.FirstActive(ctx)
	if errors.Is(err, team.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t.ID, nil
}

// Get returns a ticket by id.
func (s *Service) Get(ctx context.Context, id string) (Ticket, error) {
	return s.repo.Get(ctx, id)
}

// List returns tickets matching f.
func (s *Service) List(ctx context.Context, f Filter) ([]Ticket, error) {
	if f.Status != "" && !validStatus(f.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, f.Status)
	}
	return s.repo.List(ctx, f)
}

// Update applies a partial update. Changing the priority moves the due date
// to creation time plus the new SLA.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Ticket, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return Ticket{}, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return Ticket{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
		}
		t.Title = title
	}
	if in.Description != nil {
		t.Description = strings.TrimSpace(*in.Description)
	}
	if in.Status != nil {
		if !validStatus(*in.Status) {
			return Ticket{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *in.Status)
		}
		t.Status = *in.Status
	}
	if in.Priority != nil && *in.Priority != t.Priority {
		if !validPriority(*in.Priority) {
			return Ticket{}, fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, *in.Priority)
		}
		t.Priority = *in.Priority
		due := dueDate(t.CreatedAt, t.Priority)
		t.DueDate = &due
	}
	if in.Latitude != nil || in.Longitude != nil {
		lat, lng := t.Latitude, t.Longitude
		if in.Latitude != nil {
			lat = in.Latitude
		}
		if in.Longitude != nil {
			lng = in.Longitude
		}
		hash, err := locate(lat, lng)
		if err != nil {
			return Ticket{}, err
		}
		t.Latitude, t.Longitude, t.Geohash = lat, lng, hash
	}
	if in.Address != nil {
		t.Address = strings.TrimSpace(*in.Address)
	}
	if in.PhotoURL != nil {
		t.PhotoURL = strings.TrimSpace(*in.PhotoURL)
	}
	if in.CitizenName != nil {
		t.CitizenName = strings.TrimSpace(*in.CitizenName)
	}
	if in.AssignedTeamID != nil {
		if *in.AssignedTeamID == "" {
			t.AssignedTeamID = nil
		} else {
			teamID, err := s.assign(ctx, *in.AssignedTeamID)
			if err != nil {
				return Ticket{}, err
			}
			t.AssignedTeamID = teamID
		}
	}

	t.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, t); err != nil {
		return Ticket{}, err
	}
	return t, nil
}

// Delete removes a ticket.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// KPIs summarizes the backlog as of now.
func (s *Service) KPIs(ctx context.Context) (KPIs, error) {
	return s.repo.KPIs(ctx, s.now().UTC())
}

// locate validates a coordinate pair and returns its geohash. Both or neither
// coordinate must be given.
func locate(lat, lng *float64) (string, error) {
	if lat == nil && lng == nil {
		return "", nil
	}
	if lat == nil || lng == nil {
		return "", fmt.Errorf("%w: latitude and longitude must be sent together", ErrInvalidInput)
	}
	if *lat < -90 || *lat > 90 || *lng < -180 || *lng > 180 {
		return "", fmt.Errorf("%w: coordinates out of range", ErrInvalidInput)
	}
	return geohash.EncodeWithPrecision(*lat, *lng, GeohashPrecision), nil
}

func dueDate(from time.Time, priority string) time.Time {
	return from.AddDate(0, 0, slaDays(priority))
}

func roundHours(h float64) float64 {
	return math.Round(h*100) / 100
}
