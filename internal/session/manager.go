// Package session keeps one cart and one profile per storefront client. The
// records of each client live under their own keys in the persisted store;
// the in-memory stores are built on first use and dropped when idle.
package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/Anand-247/FE-VF/internal/cart"
	"github.com/Anand-247/FE-VF/internal/logger"
	"github.com/Anand-247/FE-VF/internal/profile"
	"github.com/Anand-247/FE-VF/internal/storage"
	"github.com/Anand-247/FE-VF/internal/storefront"
)

const hydrateTimeout = 10 * time.Second

// Key scopes a storage key to one client. The empty client id is the local
// installation and keeps the plain key.
func Key(clientID, key string) string {
	if clientID == "" {
		return key
	}
	return "client:" + clientID + ":" + key
}

// Session is the state of one client: its cart, its profile and the
// storefront bound to both.
type Session struct {
	ID      string
	Cart    *cart.Store
	Profile *profile.Store
	Shop    *storefront.Service

	once     sync.Once
	lastSeen atomic.Int64
}

type Manager struct {
	persist storage.Store
	deps    storefront.Deps
	idle    time.Duration
	log     *zap.Logger
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager builds sessions over persist. deps is the template for each
// session's storefront; its stores and logger are set per client. A zero
// idle timeout keeps sessions for the life of the process.
func NewManager(persist storage.Store, deps storefront.Deps, idle time.Duration, log *zap.Logger) *Manager {
	return &Manager{
		persist:  persist,
		deps:     deps,
		idle:     idle,
		log:      logger.OrNop(log),
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Get returns the session of clientID, loading its cart and profile on first
// use. Concurrent first calls wait for the same load.
func (m *Manager) Get(ctx context.Context, clientID string) *Session {
	m.mu.Lock()
	s, ok := m.sessions[clientID]
	if !ok {
		s = m.newSession(clientID)
		m.sessions[clientID] = s
	}
	s.lastSeen.Store(m.now().UnixNano())
	m.mu.Unlock()

	s.once.Do(func() {
		// a cancelled request must not leave the cart hydrated empty
		hctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), hydrateTimeout)
		defer cancel()
		s.Cart.Hydrate(hctx)
		s.Profile.Load(hctx)
	})
	return s
}

func (m *Manager) newSession(clientID string) *Session {
	log := m.log
	if clientID != "" {
		log = log.With(zap.String("client", shortID(clientID)))
	}

	s := &Session{ID: clientID}
	s.Cart = cart.NewStore(m.persist,
		cart.WithKey(Key(clientID, storage.CartKey)),
		cart.WithLogger(log.Named("cart")))
	s.Profile = profile.NewStore(m.persist, log.Named("profile"),
		profile.WithKey(Key(clientID, storage.UserKey)))

	deps := m.deps
	deps.Cart = s.Cart
	deps.Profile = s.Profile
	deps.Logger = log.Named("storefront")
	s.Shop = storefront.NewService(deps)
	return s
}

// Len is the number of sessions held in memory.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep drops sessions idle for longer than the idle timeout and reports how
// many it dropped. Their records stay in the persisted store.
func (m *Manager) Sweep() int {
	if m.idle <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.idle).UnixNano()

	m.mu.Lock()
	defer m.mu.Unlock()
	dropped := 0
	for id, s := range m.sessions {
		if s.lastSeen.Load() < cutoff {
			delete(m.sessions, id)
			dropped++
		}
	}
	return dropped
}

// Run sweeps idle sessions until ctx is done.
func (m *Manager) Run(ctx context.Context) {
	if m.idle <= 0 {
		return
	}
	ticker := time.NewTicker(m.idle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				m.log.Debug("dropped idle sessions", zap.Int("count", n), zap.Int("remaining", m.Len()))
			}
		}
	}
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
