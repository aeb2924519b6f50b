package cart

import (
	"context"
	"sync"
	"time"

	"campus-canteen/logger"

	"github.com/google/uuid"
)

// Sessions caches one Store per session id, loading lazily from the
// persister. Evicting an idle store loses nothing; it is reloaded on the next
// request.
type Sessions struct {
	mu        sync.Mutex
	stores    map[string]*Store
	persister Persister
	log       *logger.Logger
}

func NewSessions(p Persister, log *logger.Logger) *Sessions {
	return &Sessions{
		stores:    map[string]*Store{},
		persister: p,
		log:       log.WithComponent("cart"),
	}
}

// NewSessionID returns a fresh random session id.
func NewSessionID() string {
	return uuid.NewString()
}

// Get returns the store for id, opening it on first use. A store that fails
// to load is not cached, so the next request tries again.
func (s *Sessions) Get(ctx context.Context, id string) (*Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.stores[id]; ok {
		return st, nil
	}
	st, err := Open(ctx, id, s.persister, s.log)
	if err != nil {
		return nil, err
	}
	s.stores[id] = st
	return st, nil
}

// Evict drops stores untouched for longer than idle and returns how many.
func (s *Sessions) Evict(idle time.Duration) int {
	cutoff := time.Now().Add(-idle)
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, st := range s.stores {
		if st.idleSince().Before(cutoff) {
			delete(s.stores, id)
			n++
		}
	}
	return n
}

// RunEviction evicts idle stores every interval until ctx is done.
func (s *Sessions) RunEviction(ctx context.Context, interval, idle time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := s.Evict(idle); n > 0 {
				s.log.Debug("evicted idle cart sessions", "count", n)
			}
		}
	}
}
