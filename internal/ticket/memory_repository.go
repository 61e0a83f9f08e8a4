package ticket

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

type memoryRepository struct {
	mu      sync.RWMutex
	storage map[string]Ticket
}

// NewMemoryRepository constructs an in-memory repository.
func NewMemoryRepository() Repository {
	return &memoryRepository{storage: make(map[string]Ticket)}
}

func (r *memoryRepository) Create(_ context.Context, t Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storage[t.ID] = t
	return nil
}

func (r *memoryRepository) Get(_ context.Context, id string) (Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.storage[id]
	if !ok {
		return Ticket{}, ErrNotFound
	}
	return t, nil
}

func (r *memoryRepository) List(_ context.Context, f Filter) ([]Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []Ticket{}
	for _, t := range r.storage {
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.TeamID != "" && (t.AssignedTeamID == nil || *t.AssignedTeamID != f.TeamID) {
			continue
		}
		if f.GeohashPrefix != "" && !strings.HasPrefix(t.Geohash, f.GeohashPrefix) {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memoryRepository) Update(_ context.Context, t Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.storage[t.ID]; !ok {
		return ErrNotFound
	}
	r.storage[t.ID] = t
	return nil
}

func (r *memoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.storage[id]; !ok {
		return ErrNotFound
	}
	delete(r.storage, id)
	return nil
}

func (r *memoryRepository) KPIs(_ context.Context, now time.Time) (KPIs, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var (
		k          KPIs
		totalHours float64
		done       int
	)
	for _, t := range r.storage {
		k.TotalTickets++
		switch t.Status {
		case StatusOpen:
			k.OpenTickets++
		case StatusInProgress:
			k.InProgressTickets++
		case StatusResolved:
			k.ResolvedTickets++
		case StatusClosed:
			k.ClosedTickets++
		}
		if finished(t.Status) {
			totalHours += t.UpdatedAt.Sub(t.CreatedAt).Hours()
			done++
		} else if t.DueDate != nil && t.DueDate.Before(now) {
			k.OverdueTickets++
		}
	}
	if done > 0 {
		k.AvgResolutionTime = roundHours(totalHours / float64(done))
	}
	return k, nil
}
