// Package remote defines the contract the engine consumes from the
// authoritative store: per-collection CRUD plus an opaque something-changed
// signal. The engine never sees how the store persists.
package remote

import (
	"context"
	"sync"

	"github.com/nickagee13/pantry-path/internal/auth"
	"github.com/nickagee13/pantry-path/internal/models"
	"github.com/nickagee13/pantry-path/internal/store"
)

// GroceryStore is the remote collection of grocery items.
type GroceryStore interface {
	List(ctx context.Context, p auth.Principal) ([]models.GroceryItem, error)
	Insert(ctx context.Context, p auth.Principal, item models.GroceryItem) (string, error)
	Update(ctx context.Context, p auth.Principal, id string, patch store.GroceryPatch) error
	Delete(ctx context.Context, p auth.Principal, id string) error
}

// InventoryStore is the remote collection of inventory items.
type InventoryStore interface {
	List(ctx context.Context, p auth.Principal) ([]models.InventoryItem, error)
	Insert(ctx context.Context, p auth.Principal, item models.InventoryItem) (string, error)
	Update(ctx context.Context, p auth.Principal, id string, patch store.InventoryPatch) error
	Delete(ctx context.Context, p auth.Principal, id string) error
}

// StoreDirectory is the remote collection of store entries and their sort
// order.
type StoreDirectory interface {
	List(ctx context.Context, p auth.Principal) ([]models.StoreEntry, error)
	// Ensure creates a store entry if it does not exist yet.
	Ensure(ctx context.Context, p auth.Principal, name string) error
	// SetOrder replaces every entry's sort position in one batch. A
	// partial batch must never be observable.
	SetOrder(ctx context.Context, p auth.Principal, entries []models.StoreEntry) error
}

// RecipeStore is the remote, read-mostly collection of recipes. Readiness
// and missing ingredients are recomputed locally against live inventory.
type RecipeStore interface {
	List(ctx context.Context, p auth.Principal) ([]models.Recipe, error)
	Insert(ctx context.Context, p auth.Principal, recipe models.Recipe) (string, error)
}

// Client bundles the per-collection stores with the change signal.
type Client struct {
	Grocery   GroceryStore
	Inventory InventoryStore
	Stores    StoreDirectory
	Recipes   RecipeStore
	Changes   *ChangeBus
}

// ChangeBus delivers collection-changed signals. The signal carries no diff;
// subscribers react by re-listing the collection. Delivery is best-effort
// and at-least-zero: a dropped signal is recovered by the next one.
type ChangeBus struct {
	mu      sync.RWMutex
	subs    map[int]subscription
	nextSub int
}

type subscription struct {
	principalID string
	collection  store.Collection
	fn          func()
}

// NewChangeBus creates an empty bus.
func NewChangeBus() *ChangeBus {
	return &ChangeBus{subs: make(map[int]subscription)}
}

// Subscribe registers a callback for one collection scoped to a principal.
// The returned func unsubscribes.
func (b *ChangeBus) Subscribe(p auth.Principal, c store.Collection, fn func()) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextSub
	b.nextSub++
	b.subs[id] = subscription{principalID: p.ID, collection: c, fn: fn}
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}

// Notify signals that a collection changed for a principal. Callbacks run
// on the caller's goroutine, in no particular order.
func (b *ChangeBus) Notify(principalID string, c store.Collection) {
	b.mu.RLock()
	fns := make([]func(), 0, len(b.subs))
	for _, sub := range b.subs {
		if sub.principalID == principalID && sub.collection == c {
			fns = append(fns, sub.fn)
		}
	}
	b.mu.RUnlock()

	for _, fn := range fns {
		fn()
	}
}
