package cart

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/jcordero/tienda-storefront/internal/app/model"
	"github.com/jcordero/tienda-storefront/internal/app/storage"
	"github.com/jcordero/tienda-storefront/pkg/logger"
)

// Event describes a cart change pushed to subscribers.
type Event struct {
	Count int     `json:"count"`
	Total float64 `json:"total"`
}

// Store holds one shopper's cart: the line items, the transient side-drawer
// flag, and the storage key its contents are written through under.
//
// Mutations never fail from the caller's point of view. The in-memory cart is
// authoritative for the session; persistence is a convenience cache and write
// errors are logged and swallowed. The drawer flag is never persisted.
type Store struct {
	mu         sync.RWMutex
	key        string
	backend    storage.Backend
	items      []model.LineItem
	drawerOpen bool

	subs    map[int]chan Event
	nextSub int
}

// NewStore builds a store for the given storage key, rehydrating any
// previously persisted cart. Missing or unreadable data degrades to an empty
// cart rather than an error.
func NewStore(key string, backend storage.Backend) *Store {
	s := &Store{
		key:     key,
		backend: backend,
		subs:    make(map[int]chan Event),
	}

	data, err := backend.Load(context.Background(), key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logger.Warn("Failed to load persisted cart, starting empty", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
		return s
	}

	var items []model.LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		logger.Warn("Discarding unreadable persisted cart", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return s
	}

	s.items = items
	return s
}

// Add merges the selection into the cart and opens the drawer so the shopper
// sees the confirmation panel.
func (s *Store) Add(ctx context.Context, product model.ProductSnapshot, variant model.VariantSnapshot, quantity int) {
	s.add(ctx, product, variant, quantity, true)
}

// AddSilent merges the selection without touching the drawer. Used by the
// buy-now flow, which redirects to checkout immediately after adding.
func (s *Store) AddSilent(ctx context.Context, product model.ProductSnapshot, variant model.VariantSnapshot, quantity int) {
	s.add(ctx, product, variant, quantity, false)
}

func (s *Store) add(ctx context.Context, product model.ProductSnapshot, variant model.VariantSnapshot, quantity int, openDrawer bool) {
	// Every line item holds at least one unit.
	if quantity <= 0 {
		return
	}
	key := model.ItemKey{ProductID: product.ID, VariantID: variant.ID}

	s.mu.Lock()
	next := s.copyItemsLocked()
	merged := false
	for i := range next {
		if next[i].Key() == key {
			next[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		next = append(next, model.LineItem{
			Product:  product,
			Variant:  variant,
			Quantity: quantity,
		})
	}
	s.items = next
	if openDrawer {
		s.drawerOpen = true
	}
	s.persistLocked(ctx)
	ev := s.eventLocked()
	s.mu.Unlock()

	logger.Debug("Cart item added", map[string]interface{}{
		"key":        s.key,
		"product_id": product.ID,
		"variant_id": variant.ID,
		"quantity":   quantity,
		"merged":     merged,
	})
	s.notify(ev)
}

// Remove drops the matching entry. Removing an absent entry is a no-op.
func (s *Store) Remove(ctx context.Context, productID, variantID string) {
	key := model.ItemKey{ProductID: productID, VariantID: variantID}

	s.mu.Lock()
	next := make([]model.LineItem, 0, len(s.items))
	removed := false
	for _, item := range s.items {
		if item.Key() == key {
			removed = true
			continue
		}
		next = append(next, item)
	}
	if !removed {
		s.mu.Unlock()
		return
	}
	s.items = next
	s.persistLocked(ctx)
	ev := s.eventLocked()
	s.mu.Unlock()

	s.notify(ev)
}

// UpdateQuantity sets the matching entry's quantity to exactly quantity. A
// quantity of zero or less removes the entry. Unknown entries are a no-op.
func (s *Store) UpdateQuantity(ctx context.Context, productID, variantID string, quantity int) {
	if quantity <= 0 {
		s.Remove(ctx, productID, variantID)
		return
	}
	key := model.ItemKey{ProductID: productID, VariantID: variantID}

	s.mu.Lock()
	next := s.copyItemsLocked()
	updated := false
	for i := range next {
		if next[i].Key() == key {
			next[i].Quantity = quantity
			updated = true
			break
		}
	}
	if !updated {
		s.mu.Unlock()
		return
	}
	s.items = next
	s.persistLocked(ctx)
	ev := s.eventLocked()
	s.mu.Unlock()

	s.notify(ev)
}

// Clear empties the cart. Called once after an order is accepted by the
// backend so the next session starts fresh.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.items = nil
	s.persistLocked(ctx)
	ev := s.eventLocked()
	s.mu.Unlock()

	logger.Debug("Cart cleared", map[string]interface{}{"key": s.key})
	s.notify(ev)
}

// Items returns a defensive copy of the current line items.
func (s *Store) Items() []model.LineItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyItemsLocked()
}

// Total sums the discount-aware subtotal of every line.
func (s *Store) Total() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total float64
	for _, item := range s.items {
		total += item.Subtotal()
	}
	return total
}

// Count sums quantities across all lines (units, not distinct entries).
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}

// Quantity reports how many units of the given selection are already in the
// cart, zero when absent.
func (s *Store) Quantity(productID, variantID string) int {
	key := model.ItemKey{ProductID: productID, VariantID: variantID}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.items {
		if item.Key() == key {
			return item.Quantity
		}
	}
	return 0
}

func (s *Store) OpenDrawer() {
	s.mu.Lock()
	s.drawerOpen = true
	s.mu.Unlock()
}

func (s *Store) CloseDrawer() {
	s.mu.Lock()
	s.drawerOpen = false
	s.mu.Unlock()
}

func (s *Store) DrawerOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.drawerOpen
}

// Subscribe registers a change listener. The returned function unsubscribes
// and closes the channel. Slow consumers drop events rather than block
// mutations.
func (s *Store) Subscribe() (<-chan Event, func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	ch := make(chan Event, 8)
	s.subs[id] = ch
	s.mu.Unlock()

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
}

func (s *Store) copyItemsLocked() []model.LineItem {
	if len(s.items) == 0 {
		return nil
	}
	next := make([]model.LineItem, len(s.items))
	copy(next, s.items)
	return next
}

func (s *Store) eventLocked() Event {
	ev := Event{}
	for _, item := range s.items {
		ev.Count += item.Quantity
		ev.Total += item.Subtotal()
	}
	return ev
}

func (s *Store) persistLocked(ctx context.Context) {
	items := s.items
	if items == nil {
		items = []model.LineItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		logger.Warn("Failed to serialize cart for persistence", map[string]interface{}{
			"key":   s.key,
			"error": err.Error(),
		})
		return
	}
	if err := s.backend.Save(ctx, s.key, data); err != nil {
		logger.Warn("Failed to persist cart, keeping in-memory state", map[string]interface{}{
			"key":   s.key,
			"error": err.Error(),
		})
	}
}

func (s *Store) notify(ev Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
