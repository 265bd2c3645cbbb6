// Package store holds the in-memory authoritative local copy of the grocery
// list, the kitchen inventory and the store ordering. It is the single owner
// of each collection: readers get copies, writers go through the mutation
// primitives, and no mutation here ever touches another collection.
package store

import (
	"sort"
	"sync"

	"github.com/nickagee13/pantry-path/internal/models"
)

// Collection names a collection owned by the entity store.
type Collection string

const (
	// Collections
	CollectionGrocery   Collection = "grocery_items"
	CollectionInventory Collection = "inventory_items"
	CollectionStores    Collection = "stores"
)

// Status carries the loading/error flag for one collection.
type Status struct {
	Loading bool
	Err     error
}

// EntityStore is the local entity cache. All methods are safe for concurrent
// use; reads return snapshots that the caller may mutate freely.
type EntityStore struct {
	mu        sync.RWMutex
	grocery   map[string][]models.GroceryItem
	inventory map[string]models.InventoryItem
	stores    map[string]int
	status    map[Collection]Status
}

// New creates an empty entity store with every collection marked loading.
func New() *EntityStore {
	s := &EntityStore{
		grocery:   make(map[string][]models.GroceryItem),
		inventory: make(map[string]models.InventoryItem),
		stores:    make(map[string]int),
		status:    make(map[Collection]Status),
	}
	for _, c := range []Collection{CollectionGrocery, CollectionInventory, CollectionStores} {
		s.status[c] = Status{Loading: true}
	}
	return s
}

// Status returns the loading/error state of a collection.
func (s *EntityStore) Status(c Collection) Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status[c]
}

// SetStatus records the loading/error state of a collection.
func (s *EntityStore) SetStatus(c Collection, loading bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status[c] = Status{Loading: loading, Err: err}
}

// GroceryList returns a snapshot of the grocery list grouped by store.
func (s *EntityStore) GroceryList() models.GroceryList {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make(models.GroceryList, len(s.grocery))
	for store, items := range s.grocery {
		list[store] = append([]models.GroceryItem(nil), items...)
	}
	return list
}

// GroceryItem looks up a grocery item by identity.
func (s *EntityStore) GroceryItem(id string) (models.GroceryItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, items := range s.grocery {
		for _, item := range items {
			if item.ID == id {
				return item, true
			}
		}
	}
	return models.GroceryItem{}, false
}

// Inventory returns a snapshot of the inventory, newest first to match the
// remote ordering.
func (s *EntityStore) Inventory() []models.InventoryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]models.InventoryItem, 0, len(s.inventory))
	for _, item := range s.inventory {
		item.Details = append(models.StringSlice(nil), item.Details...)
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})
	return items
}

// InventoryItem looks up an inventory item by identity.
func (s *EntityStore) InventoryItem(id string) (models.InventoryItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.inventory[id]
	if ok {
		item.Details = append(models.StringSlice(nil), item.Details...)
	}
	return item, ok
}

// StoreOrder returns the store names in their canonical sequence.
func (s *EntityStore) StoreOrder() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.stores))
	for name := range s.stores {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if s.stores[names[i]] != s.stores[names[j]] {
			return s.stores[names[i]] < s.stores[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}

// InsertGroceryItem adds an item to its store's bucket. A store bucket is
// created implicitly on first reference and appended to the store ordering.
func (s *EntityStore) InsertGroceryItem(item models.GroceryItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item.Store == "" {
		item.Store = models.DefaultStore
	}
	if _, ok := s.stores[item.Store]; !ok {
		s.stores[item.Store] = s.nextStorePosition()
	}
	s.grocery[item.Store] = append(s.grocery[item.Store], item)
}

// GroceryPatch holds the mutable fields of a grocery item. Nil fields are
// left untouched.
type GroceryPatch struct {
	Name     *string
	Quantity *string
	Checked  *bool
}

// PatchGroceryItem applies a partial update. Unknown identities are a no-op.
func (s *EntityStore) PatchGroceryItem(id string, patch GroceryPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for store, items := range s.grocery {
		for i, item := range items {
			if item.ID != id {
				continue
			}
			if patch.Name != nil {
				item.Name = *patch.Name
			}
			if patch.Quantity != nil {
				item.Quantity = *patch.Quantity
			}
			if patch.Checked != nil {
				item.Checked = *patch.Checked
			}
			s.grocery[store][i] = item
			return true
		}
	}
	return false
}

// RemoveGroceryItem deletes an item by identity. Unknown identities are a
// no-op. Empty store buckets are kept so the store stays visible.
func (s *EntityStore) RemoveGroceryItem(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for store, items := range s.grocery {
		for i, item := range items {
			if item.ID == id {
				s.grocery[store] = append(items[:i:i], items[i+1:]...)
				return true
			}
		}
	}
	return false
}

// ReplaceGroceryList swaps in an authoritative grocery list from the remote.
func (s *EntityStore) ReplaceGroceryList(list models.GroceryList) {
	s.mu.Lock()
	defer s.mu.Unlock()

	grocery := make(map[string][]models.GroceryItem, len(list))
	for store, items := range list {
		grocery[store] = append([]models.GroceryItem(nil), items...)
	}
	s.grocery = grocery
}

// InsertInventoryItem adds an item to the inventory.
func (s *EntityStore) InsertInventoryItem(item models.InventoryItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inventory[item.ID] = item
}

// InventoryPatch holds the mutable fields of an inventory item. Nil fields
// are left untouched.
type InventoryPatch struct {
	Quantity   *float64
	Percentage *float64
	DaysLeft   *int
	Location   *models.Location
	Details    *models.StringSlice
}

// PatchInventoryItem applies a partial update. Unknown identities are a
// no-op.
func (s *EntityStore) PatchInventoryItem(id string, patch InventoryPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.inventory[id]
	if !ok {
		return false
	}
	if patch.Quantity != nil {
		item.Quantity = *patch.Quantity
	}
	if patch.Percentage != nil {
		item.Percentage = *patch.Percentage
	}
	if patch.DaysLeft != nil {
		item.DaysLeft = *patch.DaysLeft
	}
	if patch.Location != nil {
		item.Location = *patch.Location
	}
	if patch.Details != nil {
		item.Details = append(models.StringSlice(nil), *patch.Details...)
	}
	s.inventory[id] = item
	return true
}

// RemoveInventoryItem deletes an item by identity. Unknown identities are a
// no-op.
func (s *EntityStore) RemoveInventoryItem(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.inventory[id]; !ok {
		return false
	}
	delete(s.inventory, id)
	return true
}

// ReplaceInventory swaps in an authoritative inventory from the remote.
func (s *EntityStore) ReplaceInventory(items []models.InventoryItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inventory := make(map[string]models.InventoryItem, len(items))
	for _, item := range items {
		inventory[item.ID] = item
	}
	s.inventory = inventory
}

// SetStoreOrder replaces the whole store ordering in one step. The order is
// a total permutation: positions are assigned 1..n from the given sequence,
// and the previous map is swapped out only once the new one is complete.
func (s *EntityStore) SetStoreOrder(order []string) {
	staged := make(map[string]int, len(order))
	for i, name := range order {
		staged[name] = i + 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stores = staged
}

// ReplaceStores swaps in authoritative store entries from the remote.
func (s *EntityStore) ReplaceStores(entries []models.StoreEntry) {
	staged := make(map[string]int, len(entries))
	for _, e := range entries {
		staged[e.Name] = e.SortOrder
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stores = staged
}

func (s *EntityStore) nextStorePosition() int {
	max := 0
	for _, pos := range s.stores {
		if pos > max {
			max = pos
		}
	}
	return max + 1
}
