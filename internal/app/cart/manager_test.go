package cart

import (
	"context"
	"testing"
	"time"

	"github.com/jcordero/tienda-storefront/internal/app/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_GetReturnsSameStorePerSession(t *testing.T) {
	manager := NewManager(storage.NewMemory())

	a := manager.Get("session-a")
	b := manager.Get("session-b")

	assert.Same(t, a, manager.Get("session-a"))
	assert.NotSame(t, a, b)
	assert.Equal(t, 2, manager.Len())
}

func TestManager_EvictIdleKeepsPersistedCart(t *testing.T) {
	backend := storage.NewMemory()
	manager := NewManager(backend)
	ctx := context.Background()

	store := manager.Get("session-a")
	store.Add(ctx, testProduct("P1", 100), testVariant("V1", "M", "#000"), 2)

	// Nothing is idle yet.
	assert.Equal(t, 0, manager.EvictIdle(time.Minute))

	// Everything is idle with a zero TTL.
	evicted := manager.EvictIdle(-time.Second)
	require.Equal(t, 1, evicted)
	assert.Equal(t, 0, manager.Len())

	// A fresh Get rehydrates the same cart from storage.
	rehydrated := manager.Get("session-a")
	assert.NotSame(t, store, rehydrated)
	assert.Equal(t, 2, rehydrated.Count())
}
