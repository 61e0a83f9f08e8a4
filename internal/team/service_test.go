package team

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCreateAndFirstActive(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	svc.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	inactive := false
	if _, err := svc.Create(ctx, CreateInput{Name: "Reserva", IsActive: &inactive}); err != nil {
		t.Fatalf("create inactive: %v", err)
	}
	north, err := svc.Create(ctx, CreateInput{Name: " Equipe Norte "})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if north.Name != "Equipe Norte" || !north.IsActive {
		t.Fatalf("unexpected team %+v", north)
	}
	if _, err := svc.Create(ctx, CreateInput{Name: "Equipe Sul"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	first, err := svc.FirstActive(ctx)
	if err != nil {
		t.Fatalf("first active: %v", err)
	}
	if first.ID != north.ID {
		t.Fatalf("expected oldest active team %s, got %s", north.ID, first.ID)
	}

	teams, err := svc.List(ctx)
	if err != nil || len(teams) != 3 {
		t.Fatalf("expected 3 teams, got %d (%v)", len(teams), err)
	}
}

func TestCreateRequiresName(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	if _, err := svc.Create(context.Background(), CreateInput{Name: "  "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestFirstActiveEmpty(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	if _, err := svc.FirstActive(context.Background()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
