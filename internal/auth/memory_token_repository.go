package auth

import (
	"context"
	"sync"
	"time"
)

// MemoryTokenRepository is a concurrency-safe in-memory TokenRepository.
type MemoryTokenRepository struct {
	mu     sync.Mutex
	tokens map[string]AuthToken
}

// NewMemoryTokenRepository builds an empty in-memory token store.
func NewMemoryTokenRepository() *MemoryTokenRepository {
	return &MemoryTokenRepository{tokens: make(map[string]AuthToken)}
}

func (r *MemoryTokenRepository) Replace(_ context.Context, token AuthToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, existing := range r.tokens {
		if existing.Phone == token.Phone && existing.UsedAt == nil {
			delete(r.tokens, id)
		}
	}
	r.tokens[token.ID] = token
	return nil
}

func (r *MemoryTokenRepository) Redeem(_ context.Context, phone, code string, now time.Time) (AuthToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, token := range r.tokens {
		if token.Phone != phone || token.Code != code || !token.Redeemable(now) {
			continue
		}
		used := now
		token.UsedAt = &used
		r.tokens[id] = token
		return token, nil
	}
	return AuthToken{}, ErrTokenNotFound
}

func (r *MemoryTokenRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, id)
	return nil
}

// ForPhone returns a snapshot of the tokens stored for phone.
func (r *MemoryTokenRepository) ForPhone(phone string) []AuthToken {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []AuthToken
	for _, token := range r.tokens {
		if token.Phone == phone {
			out = append(out, token)
		}
	}
	return out
}
