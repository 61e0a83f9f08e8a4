package ticket

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ilumina/ilumina/internal/team"
)

type ticketFixture struct {
	svc   *Service
	teams *team.Service
	clock time.Time
}

func newTicketFixture(t *testing.T) *ticketFixture {
	t.Helper()
	f := &ticketFixture{
		teams: team.NewService(team.NewMemoryRepository()),
		clock: time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC),
	}
	f.svc = NewService(NewMemoryRepository(), f.teams)
	f.svc.now = func() time.Time { return f.clock }
	return f
}

func ptr[T any](v T) *T { return &v }

func TestCreateAppliesSLAAndAutoAssigns(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()

	crew, err := f.teams.Create(ctx, team.CreateInput{Name: "Equipe Centro"})
	if err != nil {
		t.Fatalf("create team: %v", err)
	}

	tk, err := f.svc.Create(ctx, CreateInput{
		Title:        "Poste apagado",
		Priority:     PriorityHigh,
		Latitude:     ptr(-23.55052),
		Longitude:    ptr(-46.633308),
		CitizenPhone: "(11) 98765-4321",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if tk.Status != StatusOpen {
		t.Fatalf("expected open, got %s", tk.Status)
	}
	if tk.DueDate == nil || !tk.DueDate.Equal(f.clock.AddDate(0, 0, 1)) {
		t.Fatalf("high priority is due in one day, got %v", tk.DueDate)
	}
	if tk.AssignedTeamID == nil || *tk.AssignedTeamID != crew.ID {
		t.Fatalf("expected auto-assignment to %s, got %v", crew.ID, tk.AssignedTeamID)
	}
	if tk.CitizenPhone != "5511987654321" {
		t.Fatalf("expected normalized phone, got %s", tk.CitizenPhone)
	}
	if len(tk.Geohash) != GeohashPrecision || tk.Geohash[:4] != "6gyf" {
		t.Fatalf("unexpected geohash %q", tk.Geohash)
	}

	low, err := f.svc.Create(ctx, CreateInput{Title: "Lâmpada piscando", Priority: PriorityLow})
	if err != nil {
		t.Fatalf("create low: %v", err)
	}
	if !low.DueDate.Equal(f.clock.AddDate(0, 0, 7)) || low.Geohash != "" {
		t.Fatalf("unexpected low priority ticket %+v", low)
	}
}

func TestCreateValidation(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()

	cases := []CreateInput{
		{Title: ""},
		{Title: "x", Priority: "urgent"},
		{Title: "x", Status: "archived"},
		{Title: "x", Latitude: ptr(10.0)},
		{Title: "x", Latitude: ptr(95.0), Longitude: ptr(0.0)},
		{Title: "x", AssignedTeamID: "missing-team"},
	}
	for _, in := range cases {
		if _, err := f.svc.Create(ctx, in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected invalid input for %+v, got %v", in, err)
		}
	}
}

func TestUpdateRecomputesDueDateAndGeohash(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()

	tk, err := f.svc.Create(ctx, CreateInput{Title: "Poste caído", Latitude: ptr(-22.9068), Longitude: ptr(-43.1729)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !tk.DueDate.Equal(f.clock.AddDate(0, 0, 3)) {
		t.Fatalf("medium priority is due in three days, got %v", tk.DueDate)
	}

	f.clock = f.clock.Add(2 * time.Hour)
	updated, err := f.svc.Update(ctx, tk.ID, UpdateInput{
		Priority:  ptr(PriorityHigh),
		Status:    ptr(StatusInProgress),
		Latitude:  ptr(-23.55052),
		Longitude: ptr(-46.633308),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.DueDate.Equal(tk.CreatedAt.AddDate(0, 0, 1)) {
		t.Fatalf("expected due date from creation + 1 day, got %v", updated.DueDate)
	}
	if updated.Geohash == tk.Geohash || updated.Status != StatusInProgress {
		t.Fatalf("unexpected update %+v", updated)
	}
	if !updated.UpdatedAt.Equal(f.clock) {
		t.Fatalf("updated_at not bumped")
	}

	if _, err := f.svc.Update(ctx, "missing", UpdateInput{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := f.svc.Update(ctx, tk.ID, UpdateInput{Status: ptr("bogus")}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestListFiltersAndDelete(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()

	sp, _ := f.svc.Create(ctx, CreateInput{Title: "SP", Latitude: ptr(-23.55052), Longitude: ptr(-46.633308)})
	f.clock = f.clock.Add(time.Minute)
	rj, _ := f.svc.Create(ctx, CreateInput{Title: "RJ", Latitude: ptr(-22.9068), Longitude: ptr(-43.1729)})
	f.clock = f.clock.Add(time.Minute)
	if _, err := f.svc.Update(ctx, rj.ID, UpdateInput{Status: ptr(StatusClosed)}); err != nil {
		t.Fatalf("close: %v", err)
	}

	all, err := f.svc.List(ctx, Filter{})
	if err != nil || len(all) != 2 || all[0].ID != rj.ID {
		t.Fatalf("expected newest first, got %+v (%v)", all, err)
	}
	near, _ := f.svc.List(ctx, Filter{GeohashPrefix: sp.Geohash[:5]})
	if len(near) != 1 || near[0].ID != sp.ID {
		t.Fatalf("expected geohash filter to match SP only, got %+v", near)
	}
	closed, _ := f.svc.List(ctx, Filter{Status: StatusClosed})
	if len(closed) != 1 || closed[0].ID != rj.ID {
		t.Fatalf("expected status filter to match RJ only, got %+v", closed)
	}
	if _, err := f.svc.List(ctx, Filter{Status: "nope"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid status filter, got %v", err)
	}

	if err := f.svc.Delete(ctx, sp.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := f.svc.Delete(ctx, sp.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestKPIs(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()
	start := f.clock

	open, _ := f.svc.Create(ctx, CreateInput{Title: "a", Priority: PriorityHigh})
	_, _ = f.svc.Create(ctx, CreateInput{Title: "b", Priority: PriorityLow})
	done, _ := f.svc.Create(ctx, CreateInput{Title: "c"})
	resolved, _ := f.svc.Create(ctx, CreateInput{Title: "d"})

	f.clock = start.Add(10 * time.Hour)
	if _, err := f.svc.Update(ctx, done.ID, UpdateInput{Status: ptr(StatusClosed)}); err != nil {
		t.Fatalf("close: %v", err)
	}
	f.clock = start.Add(5 * time.Hour)
	if _, err := f.svc.Update(ctx, resolved.ID, UpdateInput{Status: ptr(StatusResolved)}); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	f.clock = start.Add(48 * time.Hour)
	k, err := f.svc.KPIs(ctx)
	if err != nil {
		t.Fatalf("kpis: %v", err)
	}
	if k.TotalTickets != 4 || k.OpenTickets != 2 || k.ClosedTickets != 1 || k.ResolvedTickets != 1 {
		t.Fatalf("unexpected counters %+v", k)
	}
	if k.OverdueTickets != 1 {
		t.Fatalf("only the high priority ticket %s is overdue, got %d", open.ID, k.OverdueTickets)
	}
	if k.AvgResolutionTime != 7.5 {
		t.Fatalf("expected 7.5h average resolution, got %v", k.AvgResolutionTime)
	}
}

func TestCreateWithoutCitizenPhoneKeepsItEmpty(t *testing.T) {
	f := newTicketFixture(t)

	tk, err := f.svc.Create(context.Background(), CreateInput{Title: "Fiação exposta", CitizenPhone: "não informado"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if tk.CitizenPhone != "" {
		t.Fatalf("a phone without digits is not stored, got %q", tk.CitizenPhone)
	}
}
