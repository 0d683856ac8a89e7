package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/surajacharya12/E-commerce-web-sub000/storage"
	"github.com/surajacharya12/E-commerce-web-sub000/stores"
	"go.uber.org/zap"
)

// Session is the live state of one storefront session.
type Session struct {
	ID   string
	Auth *stores.AuthStore
	Cart *stores.CartStore

	lastSeen time.Time
}

// Manager owns the auth and cart stores of every active session. Stores are
// restored from Storage on first use and dropped again when idle.
type Manager struct {
	storage storage.Storage
	cartAPI stores.CartAPI
	origin  string
	logger  *zap.Logger
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager builds a manager. origin identifies this instance in storage
// change notifications so its own writes are not replayed.
func NewManager(st storage.Storage, cartAPI stores.CartAPI, origin string, logger *zap.Logger) *Manager {
	return &Manager{
		storage:  st,
		cartAPI:  cartAPI,
		origin:   origin,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Get returns the session for id, restoring it from storage on first use.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, errors.New("session id is required")
	}

	if s, ok := m.lookup(id); ok {
		return s, nil
	}

	auth := stores.NewAuthStore(m.storage, id, m.logger)
	if err := auth.Init(ctx); err != nil {
		return nil, err
	}
	cart := stores.NewCartStore(m.cartAPI, auth, m.logger)
	created := &Session{ID: id, Auth: auth, Cart: cart, lastSeen: m.now()}

	m.mu.Lock()
	if existing, ok := m.sessions[id]; ok {
		existing.lastSeen = m.now()
		m.mu.Unlock()
		return existing, nil
	}
	m.sessions[id] = created
	m.mu.Unlock()

	if auth.IsLoggedIn() {
		if err := cart.FetchCart(ctx); err != nil {
			m.logger.Warn("failed to load cart for restored session", zap.String("session_id", id), zap.Error(err))
		}
	}
	return created, nil
}

func (m *Manager) lookup(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if ok {
		s.lastSeen = m.now()
	}
	return s, ok
}

// Len reports how many sessions are live.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep drops sessions idle for longer than maxIdle. Their state stays in storage.
func (m *Manager) Sweep(maxIdle time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-maxIdle)
	removed := 0
	for id, s := range m.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps idle sessions every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(maxIdle); n > 0 {
				m.logger.Debug("evicted idle sessions", zap.Int("count", n))
			}
		}
	}
}

// Follow re-syncs live sessions when another instance changes their stored
// auth state. It returns once the subscription is established.
func (m *Manager) Follow(ctx context.Context) error {
	changes, err := m.storage.Watch(ctx)
	if err != nil {
		return err
	}
	go func() {
		for change := range changes {
			m.dispatch(ctx, change)
		}
	}()
	return nil
}

func (m *Manager) dispatch(ctx context.Context, change storage.Change) {
	if change.Origin != "" && change.Origin == m.origin {
		return
	}
	m.mu.Lock()
	s, ok := m.sessions[change.SessionID]
	m.mu.Unlock()
	if !ok {
		return
	}
	s.Auth.HandleChange(ctx, change)
}
