package quiz

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/heartmarshall/flashquiz/internal/domain"
)

// Registry keeps live attempts in memory, addressable by attempt ID.
type Registry struct {
	mu       sync.RWMutex
	attempts map[uuid.UUID]*Attempt
	max      int
}

// NewRegistry creates a registry holding at most max attempts.
func NewRegistry(max int) *Registry {
	return &Registry{
		attempts: make(map[uuid.UUID]*Attempt),
		max:      max,
	}
}

// Add registers a new attempt.
func (r *Registry) Add(a *Attempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.max > 0 && len(r.attempts) >= r.max {
		return fmt.Errorf("registry full (%d attempts): %w", r.max, domain.ErrConflict)
	}
	r.attempts[a.id] = a
	return nil
}

// Get returns the attempt if it exists and belongs to userID.
// Attempts of other users are reported as not found.
func (r *Registry) Get(id, userID uuid.UUID) (*Attempt, error) {
	r.mu.RLock()
	a, ok := r.attempts[id]
	r.mu.RUnlock()

	if !ok || !a.visibleTo(userID) {
		return nil, fmt.Errorf("attempt %s: %w", id, domain.ErrNotFound)
	}
	return a, nil
}

// Remove drops the attempt and returns it, or nil if it was not registered.
func (r *Registry) Remove(id uuid.UUID) *Attempt {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.attempts[id]
	if !ok {
		return nil
	}
	delete(r.attempts, id)
	return a
}

// Len returns the number of live attempts.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.attempts)
}

// Expire removes and returns attempts last used before cutoff. Idle times
// are read after the registry lock is released: commands hold an attempt's
// lock while they remove it from the registry.
func (r *Registry) Expire(cutoff time.Time) []*Attempt {
	r.mu.RLock()
	live := make([]*Attempt, 0, len(r.attempts))
	for _, a := range r.attempts {
		live = append(live, a)
	}
	r.mu.RUnlock()

	var expired []*Attempt
	for _, a := range live {
		if !a.idleSince().Before(cutoff) {
			continue
		}
		if removed := r.Remove(a.id); removed != nil {
			expired = append(expired, removed)
		}
	}
	return expired
}

// Drain removes and returns every live attempt.
func (r *Registry) Drain() []*Attempt {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := make([]*Attempt, 0, len(r.attempts))
	for id, a := range r.attempts {
		all = append(all, a)
		delete(r.attempts, id)
	}
	return all
}
