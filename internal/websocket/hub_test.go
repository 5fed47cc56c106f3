package websocket

import (
	"context"
	"testing"
	"time"

	"github.com/jcordero/tienda-storefront/internal/app/cart"
	"github.com/jcordero/tienda-storefront/internal/app/model"
	"github.com/jcordero/tienda-storefront/internal/app/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(hub *Hub, store *cart.Store, sessionID string) (*Client, <-chan cart.Event) {
	events, cancel := store.Subscribe()
	return &Client{
		Hub:       hub,
		SessionID: sessionID,
		Send:      make(chan []byte, 16),
		cancel:    cancel,
	}, events
}

func addTestItem(t *testing.T, store *cart.Store) {
	t.Helper()
	store.Add(context.Background(),
		model.ProductSnapshot{ID: "P1", Name: "Camiseta", Price: 10},
		model.VariantSnapshot{ID: "V1", Size: "M", Color: model.Color{Hex: "#000"}},
		1,
	)
}

func TestHub_DisconnectWithBufferedEventsClosesSendCleanly(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	store := cart.NewStore("cart:ws", storage.NewMemory())
	client, events := newTestClient(hub, store, "session-a")
	hub.Register(client)

	done := make(chan struct{})
	go func() {
		client.forwardEvents(events)
		close(done)
	}()

	// Mutations land in the subscription buffer while the tab disconnects.
	for i := 0; i < 5; i++ {
		addTestItem(t, store)
	}
	hub.Unregister(client)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("forwardEvents did not finish after unregister")
	}

	// forwardEvents drained the buffered events into Send and then closed it.
	frames := 0
	for range client.Send {
		frames++
	}
	assert.Equal(t, 5, frames)
	assert.Equal(t, 0, hub.SessionCount())

	// Further mutations after disconnect must not reach a closed channel.
	addTestItem(t, store)
}

func TestHub_UnregisterNeverOvertakesRegister(t *testing.T) {
	hub := NewHub()
	store := cart.NewStore("cart:ws", storage.NewMemory())

	client, events := newTestClient(hub, store, "session-a")
	hub.Register(client)
	hub.Unregister(client)

	// Run starts only after both events are queued; the join must still be
	// processed first so the leave cancels the subscription.
	go hub.Run()

	done := make(chan struct{})
	go func() {
		client.forwardEvents(events)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("subscription was never cancelled, client leaked")
	}
	assert.Equal(t, 0, hub.SessionCount())
}

func TestHub_TracksTabsPerSession(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	store := cart.NewStore("cart:ws", storage.NewMemory())
	first, firstEvents := newTestClient(hub, store, "session-a")
	second, secondEvents := newTestClient(hub, store, "session-a")
	go first.forwardEvents(firstEvents)
	go second.forwardEvents(secondEvents)

	hub.Register(first)
	hub.Register(second)
	require.Eventually(t, func() bool { return hub.SessionCount() == 1 },
		time.Second, 10*time.Millisecond)

	hub.Unregister(first)
	require.Eventually(t, func() bool { return hub.SessionCount() == 1 },
		time.Second, 10*time.Millisecond)

	hub.Unregister(second)
	require.Eventually(t, func() bool { return hub.SessionCount() == 0 },
		time.Second, 10*time.Millisecond)
}
