package visit

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bryanwahyu/vital360/internal/application"
)

var ErrVisitNotFound = errors.New("visit not found")

// Registry keeps the live visits. Visits are dropped on End or after the idle TTL.
type Registry struct {
	mu     sync.RWMutex
	visits map[string]*Visit
	clock  application.Clock
	ttl    time.Duration
	bound  int
}

func NewRegistry(clock application.Clock, ttl time.Duration, historyBound int) *Registry {
	if clock == nil {
		clock = application.SystemClock{}
	}
	return &Registry{
		visits: make(map[string]*Visit),
		clock:  clock,
		ttl:    ttl,
		bound:  historyBound,
	}
}

func (r *Registry) Create() *Visit {
	v := newVisit(uuid.NewString(), r.clock.Now(), r.bound)
	r.mu.Lock()
	r.visits[v.ID] = v
	r.mu.Unlock()
	return v
}

// Get returns the visit and refreshes its idle timer.
func (r *Registry) Get(id string) (*Visit, error) {
	r.mu.RLock()
	v, ok := r.visits[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrVisitNotFound
	}
	v.touch(r.clock.Now())
	return v, nil
}

func (r *Registry) End(id string) error {
	r.mu.Lock()
	v, ok := r.visits[id]
	delete(r.visits, id)
	r.mu.Unlock()
	if !ok {
		return ErrVisitNotFound
	}
	v.Events.Close()
	return nil
}

// Sweep drops visits idle for longer than the TTL and returns how many were dropped.
func (r *Registry) Sweep() int {
	if r.ttl <= 0 {
		return 0
	}
	cutoff := r.clock.Now().Add(-r.ttl)

	var stale []*Visit
	r.mu.Lock()
	for id, v := range r.visits {
		if v.LastSeen().Before(cutoff) {
			stale = append(stale, v)
			delete(r.visits, id)
		}
	}
	r.mu.Unlock()

	for _, v := range stale {
		v.Events.Close()
	}
	return len(stale)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.visits)
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				slog.Info("expired idle visits", "count", n, "live", r.Len())
			}
		}
	}
}
