package team

import (
	"context"
	"sort"
	"sync"
)

type memoryRepository struct {
	mu      sync.RWMutex
	storage map[string]Team
}

// NewMemoryRepository constructs an in-memory repository.
func NewMemoryRepository() Repository {
	return &memoryRepository{storage: make(map[string]Team)}
}

func (r *memoryRepository) Create(_ context.Context, team Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storage[team.ID] = team
	return nil
}

func (r *memoryRepository) Get(_ context.Context, id string) (Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	team, ok := r.storage[id]
	if !ok {
		return Team{}, ErrNotFound
	}
	return team, nil
}

func (r *memoryRepository) List(_ context.Context) ([]Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(), nil
}

func (r *memoryRepository) FirstActive(_ context.Context) (Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.sorted() {
		if t.IsActive {
			return t, nil
		}
	}
	return Team{}, ErrNotFound
}

func (r *memoryRepository) sorted() []Team {
	teams := make([]Team, 0, len(r.storage))
	for _, t := range r.storage {
		teams = append(teams, t)
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].CreatedAt.Before(teams[j].CreatedAt) })
	return teams
}
