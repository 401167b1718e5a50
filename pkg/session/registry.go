package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/trifractal/pkg/config"
	errs "github.com/matzehuels/trifractal/pkg/errors"
	"github.com/matzehuels/trifractal/pkg/observability"
)

// DefaultIdleTTL is how long an unused session survives Cleanup.
const DefaultIdleTTL = 30 * time.Minute

// Registry is an in-memory store of sessions keyed by UUID.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
	limit   int
	now     func() time.Time
}

type entry struct {
	sess     *Session
	created  time.Time
	lastUsed time.Time
}

// Info describes a registered session.
type Info struct {
	ID        string    `json:"id"`
	MaxDepth  int       `json:"max_depth"`
	Selection Selection `json:"selection"`
	CreatedAt time.Time `json:"created_at"`
	LastUsed  time.Time `json:"last_used"`
}

// NewRegistry returns an empty registry. A positive limit caps the number
// of live sessions.
func NewRegistry(limit int) *Registry {
	return &Registry{
		entries: make(map[string]*entry),
		limit:   limit,
		now:     time.Now,
	}
}

// Create builds a session from cfg and registers it under a fresh id.
func (r *Registry) Create(cfg config.Config) (string, *Session, error) {
	sess, err := New(cfg)
	if err != nil {
		return "", nil, err
	}

	r.mu.Lock()
	if r.limit > 0 && len(r.entries) >= r.limit {
		r.mu.Unlock()
		return "", nil, errs.New(errs.ErrCodeUnsupported, "session limit of %d reached", r.limit)
	}
	id := uuid.NewString()
	now := r.now()
	r.entries[id] = &entry{sess: sess, created: now, lastUsed: now}
	n := len(r.entries)
	r.mu.Unlock()

	observability.Session().OnActiveSessions(context.Background(), n)
	return id, sess, nil
}

// Get returns the session registered under id and marks it as used.
func (r *Registry) Get(id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, errs.New(errs.ErrCodeSessionNotFound, "session %q not found", id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, errs.New(errs.ErrCodeSessionNotFound, "session %q not found", id)
	}
	e.lastUsed = r.now()
	return e.sess, nil
}

// Info returns metadata about a session without marking it as used.
func (r *Registry) Info(id string) (Info, error) {
	r.mu.RLock()
	e, ok := r.entries[id]
	r.mu.RUnlock()
	if !ok {
		return Info{}, errs.New(errs.ErrCodeSessionNotFound, "session %q not found", id)
	}
	return Info{
		ID:        id,
		MaxDepth:  e.sess.MaxDepth(),
		Selection: e.sess.Selection(),
		CreatedAt: e.created,
		LastUsed:  e.lastUsed,
	}, nil
}

// Delete removes a session.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	if _, ok := r.entries[id]; !ok {
		r.mu.Unlock()
		return errs.New(errs.ErrCodeSessionNotFound, "session %q not found", id)
	}
	delete(r.entries, id)
	n := len(r.entries)
	r.mu.Unlock()

	observability.Session().OnActiveSessions(context.Background(), n)
	return nil
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Cleanup removes sessions unused for longer than ttl and returns how many
// were removed.
func (r *Registry) Cleanup(ttl time.Duration) int {
	cutoff := r.now().Add(-ttl)

	r.mu.Lock()
	removed := 0
	for id, e := range r.entries {
		if e.lastUsed.Before(cutoff) {
			delete(r.entries, id)
			removed++
		}
	}
	n := len(r.entries)
	r.mu.Unlock()

	if removed > 0 {
		observability.Session().OnActiveSessions(context.Background(), n)
	}
	return removed
}

// RunCleanup calls Cleanup every interval until ctx is done.
func (r *Registry) RunCleanup(ctx context.Context, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Cleanup(ttl)
		}
	}
}
