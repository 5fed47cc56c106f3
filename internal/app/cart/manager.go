package cart

import (
	"sync"
	"time"

	"github.com/jcordero/tienda-storefront/internal/app/storage"
	"github.com/jcordero/tienda-storefront/pkg/logger"
)

const keyPrefix = "cart:"

// Manager hands out the live Store for each shopper session, creating and
// rehydrating them on demand. Stores evicted from memory survive in storage
// and rehydrate on the session's next request.
type Manager struct {
	mu      sync.Mutex
	backend storage.Backend
	stores  map[string]*managedStore
}

type managedStore struct {
	store    *Store
	lastSeen time.Time
}

func NewManager(backend storage.Backend) *Manager {
	return &Manager{
		backend: backend,
		stores:  make(map[string]*managedStore),
	}
}

// Get returns the session's store, creating it if needed.
func (m *Manager) Get(sessionID string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.stores[sessionID]
	if !ok {
		entry = &managedStore{store: NewStore(keyPrefix+sessionID, m.backend)}
		m.stores[sessionID] = entry
	}
	entry.lastSeen = time.Now()
	return entry.store
}

// Len reports how many stores are currently live in memory.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stores)
}

// EvictIdle drops stores not touched within ttl and returns how many were
// removed. Their persisted copies are left intact.
func (m *Manager) EvictIdle(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)

	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	for id, entry := range m.stores {
		if entry.lastSeen.Before(cutoff) {
			delete(m.stores, id)
			evicted++
		}
	}
	if evicted > 0 {
		logger.Debug("Evicted idle cart sessions", map[string]interface{}{
			"evicted":   evicted,
			"remaining": len(m.stores),
		})
	}
	return evicted
}
