package checkout

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

type registryEntry struct {
	wizard  *Wizard
	touched time.Time
}

// Registry holds the open checkout of each storefront session. Starting a new
// checkout replaces the previous one, the way remounting the page did.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*registryEntry
	now     func() time.Time
	logger  *zap.Logger
}

func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		entries: make(map[string]*registryEntry),
		now:     time.Now,
		logger:  logger,
	}
}

// Start registers w as the session's checkout.
func (r *Registry) Start(sessionID string, w *Wizard) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[sessionID] = &registryEntry{wizard: w, touched: r.now()}
}

func (r *Registry) Get(sessionID string) (*Wizard, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[sessionID]
	if !ok {
		return nil, false
	}
	e.touched = r.now()
	return e.wizard, true
}

func (r *Registry) Discard(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, sessionID)
}

// Sweep drops checkouts idle for longer than maxIdle and reports how many.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-maxIdle)
	removed := 0
	for id, e := range r.entries {
		if e.touched.Before(cutoff) {
			delete(r.entries, id)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(maxIdle); n > 0 {
				r.logger.Debug("swept idle checkouts", zap.Int("count", n))
			}
		}
	}
}
