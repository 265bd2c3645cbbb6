// Package engine is the reconciliation layer: it applies user intents to
// the local entity store optimistically, dispatches the matching remote
// operation, and merges authoritative state back when the remote store
// signals a change.
package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/nickagee13/pantry-path/internal/apperr"
	"github.com/nickagee13/pantry-path/internal/auth"
	"github.com/nickagee13/pantry-path/internal/derive"
	"github.com/nickagee13/pantry-path/internal/gesture"
	"github.com/nickagee13/pantry-path/internal/models"
	"github.com/nickagee13/pantry-path/internal/monitoring"
	"github.com/nickagee13/pantry-path/internal/remote"
	"github.com/nickagee13/pantry-path/internal/store"
)

// Engine coordinates the entity store, the remote client and the auth
// provider. All mutating operations are optimistic: local state changes
// first, the remote write follows, and a failed write is surfaced without
// rolling the local state back.
type Engine struct {
	store    *store.EntityStore
	remote   *remote.Client
	auth     auth.Provider
	notifier *Notifier
	metrics  *monitoring.Metrics

	// Per-collection apply locks: in-flight remote results for one
	// collection are merged in completion order.
	groceryApply   sync.Mutex
	inventoryApply sync.Mutex
	storesApply    sync.Mutex

	mu      sync.Mutex
	closed  bool
	unsubs  []func()
	busSubs []func()
}

// New creates an engine over the given collaborators. Metrics may be nil.
func New(st *store.EntityStore, rc *remote.Client, ap auth.Provider, m *monitoring.Metrics) *Engine {
	return &Engine{
		store:    st,
		remote:   rc,
		auth:     ap,
		notifier: NewNotifier(),
		metrics:  m,
	}
}

// Store returns the entity store for snapshot reads.
func (e *Engine) Store() *store.EntityStore { return e.store }

// Notifier returns the notification center.
func (e *Engine) Notifier() *Notifier { return e.notifier }

// Start performs the initial fetch and wires change subscriptions for the
// current principal. A principal change rebinds everything.
func (e *Engine) Start(ctx context.Context) {
	unsub := e.auth.Subscribe(func(p *auth.Principal) {
		e.bind(ctx, p)
	})

	e.mu.Lock()
	e.unsubs = append(e.unsubs, unsub)
	e.mu.Unlock()

	e.bind(ctx, e.auth.Current())
}

// Close stops the engine. Late-arriving remote results are no longer
// applied; remote side effects already dispatched are not rolled back.
func (e *Engine) Close() {
	e.mu.Lock()
	e.closed = true
	unsubs := append(append([]func(){}, e.unsubs...), e.busSubs...)
	e.unsubs = nil
	e.busSubs = nil
	e.mu.Unlock()

	for _, u := range unsubs {
		u()
	}
}

func (e *Engine) isClosed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}

// bind points the engine at a principal: empty collections when signed out,
// otherwise a full refetch plus change subscriptions.
func (e *Engine) bind(ctx context.Context, p *auth.Principal) {
	e.mu.Lock()
	for _, u := range e.busSubs {
		u()
	}
	e.busSubs = nil
	closed := e.closed
	e.mu.Unlock()

	if closed {
		return
	}

	if p == nil {
		e.store.ReplaceGroceryList(nil)
		e.store.ReplaceInventory(nil)
		e.store.ReplaceStores(nil)
		for _, c := range []store.Collection{store.CollectionGrocery, store.CollectionInventory, store.CollectionStores} {
			e.store.SetStatus(c, false, nil)
		}
		return
	}

	principal := *p
	var subs []func()
	for _, c := range []store.Collection{store.CollectionGrocery, store.CollectionInventory, store.CollectionStores} {
		collection := c
		subs = append(subs, e.remote.Changes.Subscribe(principal, collection, func() {
			go e.Refresh(ctx, collection)
		}))
	}

	e.mu.Lock()
	e.busSubs = subs
	e.mu.Unlock()

	for _, c := range []store.Collection{store.CollectionGrocery, store.CollectionInventory, store.CollectionStores} {
		e.Refresh(ctx, c)
	}
}

// Refresh refetches one collection and merges it over local state.
// Remote wins: a concurrent optimistic mutation for the same identity is
// superseded, which can visibly undo a rejected optimistic update.
func (e *Engine) Refresh(ctx context.Context, c store.Collection) {
	p := e.auth.Current()
	if p == nil {
		return
	}
	principal := *p
	started := time.Now()

	switch c {
	case store.CollectionGrocery:
		items, err := e.remote.Grocery.List(ctx, principal)

		e.groceryApply.Lock()
		defer e.groceryApply.Unlock()
		if e.isClosed() {
			return
		}
		if err != nil {
			e.store.SetStatus(c, false, err)
			return
		}
		list := make(models.GroceryList)
		for _, item := range items {
			if item.Store == "" {
				item.Store = models.DefaultStore
			}
			list[item.Store] = append(list[item.Store], item)
		}
		e.store.ReplaceGroceryList(list)
		e.store.SetStatus(c, false, nil)

	case store.CollectionInventory:
		items, err := e.remote.Inventory.List(ctx, principal)

		e.inventoryApply.Lock()
		defer e.inventoryApply.Unlock()
		if e.isClosed() {
			return
		}
		if err != nil {
			e.store.SetStatus(c, false, err)
			return
		}
		e.store.ReplaceInventory(items)
		e.store.SetStatus(c, false, nil)

	case store.CollectionStores:
		entries, err := e.remote.Stores.List(ctx, principal)

		e.storesApply.Lock()
		defer e.storesApply.Unlock()
		if e.isClosed() {
			return
		}
		if err != nil {
			e.store.SetStatus(c, false, err)
			return
		}
		e.store.ReplaceStores(entries)
		e.store.SetStatus(c, false, nil)
	}

	e.metrics.ObserveRefresh(string(c), time.Since(started).Seconds())
}

func (e *Engine) principal() (auth.Principal, error) {
	p := e.auth.Current()
	if p == nil {
		return auth.Principal{}, apperr.ErrNotAuthenticated
	}
	return *p, nil
}

func (e *Engine) remoteRejected(collection, op string, err error) error {
	e.metrics.ObserveRemoteFailure(collection)
	return fmt.Errorf("%s: %w: %v", op, apperr.ErrRemoteRejected, err)
}

func (e *Engine) show(message string, kind models.NotificationKind, undo models.UndoFunc) {
	e.metrics.ObserveNotification()
	e.notifier.Show(message, kind, undo)
}

// AddItemInput is the user input for a new grocery item.
type AddItemInput struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Store    string `json:"store"`
	AddedBy  string `json:"added_by"`
}

// Validate rejects unusable input before any state changes.
func (in AddItemInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 80)),
		validation.Field(&in.Quantity, validation.Length(0, 40)),
		validation.Field(&in.Store, validation.Length(0, 60)),
	)
}

// AddGroceryItem adds an item to the list, defaulting quantity and store.
func (e *Engine) AddGroceryItem(ctx context.Context, in AddItemInput) (models.GroceryItem, error) {
	p, err := e.principal()
	if err != nil {
		return models.GroceryItem{}, err
	}
	if err := in.Validate(); err != nil {
		return models.GroceryItem{}, fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}

	if in.Quantity == "" {
		in.Quantity = "1"
	}
	if in.Store == "" {
		in.Store = models.DefaultStore
	}

	item := models.GroceryItem{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Quantity:  in.Quantity,
		AddedBy:   in.AddedBy,
		Store:     in.Store,
		CreatedAt: time.Now(),
	}

	e.store.InsertGroceryItem(item)
	e.metrics.ObserveOp("add_grocery_item")

	if err := e.remote.Stores.Ensure(ctx, p, item.Store); err != nil {
		e.notifier.ShowError("Couldn't save " + item.Name)
		return item, e.remoteRejected(string(store.CollectionStores), "ensure store", err)
	}
	if _, err := e.remote.Grocery.Insert(ctx, p, item); err != nil {
		e.notifier.ShowError("Couldn't save " + item.Name)
		return item, e.remoteRejected(string(store.CollectionGrocery), "insert grocery item", err)
	}

	e.show(item.Name+" added to "+item.Store, models.KindAdded, e.undoAddGrocery(p, item.ID))
	return item, nil
}

// ToggleGroceryItem flips an item's checked state. Checking an item off the
// list also moves it into the inventory via the inference tables.
func (e *Engine) ToggleGroceryItem(ctx context.Context, id string) error {
	p, err := e.principal()
	if err != nil {
		return err
	}
	item, ok := e.store.GroceryItem(id)
	if !ok {
		// Stale identity, nothing to do.
		return nil
	}

	checked := !item.Checked
	e.store.PatchGroceryItem(id, store.GroceryPatch{Checked: &checked})
	e.metrics.ObserveOp("toggle_check")

	if err := e.remote.Grocery.Update(ctx, p, id, store.GroceryPatch{Checked: &checked}); err != nil && !errors.Is(err, apperr.ErrNotFound) {
		e.notifier.ShowError("Couldn't save " + item.Name)
		return e.remoteRejected(string(store.CollectionGrocery), "update grocery item", err)
	}

	if !checked {
		return nil
	}

	inv := InferInventoryItem(item)
	inv.ID = uuid.NewString()
	inv.CreatedAt = time.Now()
	e.store.InsertInventoryItem(inv)

	if _, err := e.remote.Inventory.Insert(ctx, p, inv); err != nil {
		e.notifier.ShowError("Couldn't move " + item.Name + " to inventory")
		return e.remoteRejected(string(store.CollectionInventory), "insert inventory item", err)
	}

	e.show(item.Name+" moved to inventory", models.KindAdded, nil)
	return nil
}

// AddMissingIngredients puts one grocery item per missing ingredient on the
// default store's list. Identities are generated per item, so two calls in
// the same instant never collide.
func (e *Engine) AddMissingIngredients(ctx context.Context, recipe models.Recipe) ([]models.GroceryItem, error) {
	p, err := e.principal()
	if err != nil {
		return nil, err
	}

	missing := derive.MissingIngredients(recipe, e.store.Inventory())
	if len(missing) == 0 {
		return nil, nil
	}

	items := make([]models.GroceryItem, 0, len(missing))
	for _, name := range missing {
		item := models.GroceryItem{
			ID:        uuid.NewString(),
			Name:      name,
			Quantity:  "1",
			Store:     models.DefaultStore,
			CreatedAt: time.Now(),
		}
		e.store.InsertGroceryItem(item)
		items = append(items, item)
	}
	e.metrics.ObserveOp("add_missing_ingredients")

	if err := e.remote.Stores.Ensure(ctx, p, models.DefaultStore); err != nil {
		e.notifier.ShowError("Couldn't save ingredients from " + recipe.Title)
		return items, e.remoteRejected(string(store.CollectionStores), "ensure store", err)
	}
	for _, item := range items {
		if _, err := e.remote.Grocery.Insert(ctx, p, item); err != nil {
			e.notifier.ShowError("Couldn't save ingredients from " + recipe.Title)
			return items, e.remoteRejected(string(store.CollectionGrocery), "insert grocery item", err)
		}
	}

	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	e.show(fmt.Sprintf("%d ingredients added to %s", len(items), models.DefaultStore),
		models.KindAdded, e.undoAddGroceryBatch(p, ids))
	return items, nil
}

// CookRecipe depletes inventory items matching the recipe's ingredients.
// The model is a fixed 20%-per-serving-equivalent baseline scaled by the
// requested/base serving ratio — a known approximation carried over from
// the source app, not a unit-aware consumption model.
func (e *Engine) CookRecipe(ctx context.Context, recipe models.Recipe, servings int) error {
	p, err := e.principal()
	if err != nil {
		return err
	}
	if servings <= 0 || recipe.Servings <= 0 {
		return fmt.Errorf("%w: servings must be positive", apperr.ErrValidation)
	}

	ratio := float64(servings) / float64(recipe.Servings)
	e.metrics.ObserveOp("cook_recipe")

	var firstErr error
	for _, item := range e.store.Inventory() {
		if !derive.ItemMatchesAny(item.Name, recipe.Ingredients) {
			continue
		}

		usage := math.Min(20*ratio, item.Percentage)
		pct := item.Percentage - usage
		if pct < 0 {
			pct = 0
		}

		e.store.PatchInventoryItem(item.ID, store.InventoryPatch{Percentage: &pct})
		if err := e.remote.Inventory.Update(ctx, p, item.ID, store.InventoryPatch{Percentage: &pct}); err != nil && !errors.Is(err, apperr.ErrNotFound) {
			if firstErr == nil {
				firstErr = e.remoteRejected(string(store.CollectionInventory), "update inventory item", err)
			}
		}
	}

	if firstErr != nil {
		e.notifier.ShowError("Some items couldn't be updated after cooking " + recipe.Title)
		return firstErr
	}
	e.show("Cooked "+recipe.Title, models.KindAdded, nil)
	return nil
}

// UpdateInventoryInput is the user input for an inventory edit. Nil fields
// are left untouched.
type UpdateInventoryInput struct {
	Quantity   *float64         `json:"quantity"`
	Percentage *float64         `json:"percentage"`
	DaysLeft   *int             `json:"days_left"`
	Location   *models.Location `json:"location"`
}

// UpdateInventoryItem saves an inventory edit. Percentage is clamped into
// [0,100] and days left to >= 0 before anything is applied.
func (e *Engine) UpdateInventoryItem(ctx context.Context, id string, in UpdateInventoryInput) error {
	p, err := e.principal()
	if err != nil {
		return err
	}
	item, ok := e.store.InventoryItem(id)
	if !ok {
		return nil
	}

	next := item
	if in.Quantity != nil {
		next.Quantity = *in.Quantity
	}
	if in.Percentage != nil {
		next.Percentage = *in.Percentage
	}
	if in.DaysLeft != nil {
		next.DaysLeft = *in.DaysLeft
	}
	if in.Location != nil {
		next.Location = *in.Location
	}
	next.ClampEdits()

	patch := store.InventoryPatch{Quantity: in.Quantity, Location: in.Location}
	if in.Percentage != nil {
		patch.Percentage = &next.Percentage
	}
	if in.DaysLeft != nil {
		patch.DaysLeft = &next.DaysLeft
	}
	e.store.PatchInventoryItem(id, patch)
	e.metrics.ObserveOp("update_inventory_item")

	if err := e.remote.Inventory.Update(ctx, p, id, patch); err != nil && !errors.Is(err, apperr.ErrNotFound) {
		e.notifier.ShowError("Couldn't save " + item.Name)
		return e.remoteRejected(string(store.CollectionInventory), "update inventory item", err)
	}
	return nil
}

// RemoveInventoryItem deletes an item, with an undo that restores it with
// its prior field values.
func (e *Engine) RemoveInventoryItem(ctx context.Context, id string) error {
	p, err := e.principal()
	if err != nil {
		return err
	}
	prior, ok := e.store.InventoryItem(id)
	if !ok {
		return nil
	}

	e.store.RemoveInventoryItem(id)
	e.metrics.ObserveOp("remove_inventory_item")

	if err := e.remote.Inventory.Delete(ctx, p, id); err != nil && !errors.Is(err, apperr.ErrNotFound) {
		e.notifier.ShowError("Couldn't remove " + prior.Name)
		return e.remoteRejected(string(store.CollectionInventory), "delete inventory item", err)
	}

	e.show(prior.Name+" removed from inventory", models.KindRemoved, e.undoRemoveInventory(p, prior))
	return nil
}

// TransferToList moves an inventory item onto the grocery list. An item
// already at 0% is also removed from the inventory in the same logical
// transaction: one notification, one combined undo.
func (e *Engine) TransferToList(ctx context.Context, id string) error {
	p, err := e.principal()
	if err != nil {
		return err
	}
	item, ok := e.store.InventoryItem(id)
	if !ok {
		return nil
	}

	grocery := models.GroceryItem{
		ID:        uuid.NewString(),
		Name:      item.Name,
		Quantity:  "1",
		Store:     models.DefaultStore,
		CreatedAt: time.Now(),
	}
	e.store.InsertGroceryItem(grocery)
	e.metrics.ObserveOp("transfer_to_list")

	removeEmpty := item.Empty()
	if removeEmpty {
		e.store.RemoveInventoryItem(id)
	}

	if err := e.remote.Stores.Ensure(ctx, p, grocery.Store); err != nil {
		e.notifier.ShowError("Couldn't add " + item.Name + " to the list")
		return e.remoteRejected(string(store.CollectionStores), "ensure store", err)
	}
	if _, err := e.remote.Grocery.Insert(ctx, p, grocery); err != nil {
		e.notifier.ShowError("Couldn't add " + item.Name + " to the list")
		return e.remoteRejected(string(store.CollectionGrocery), "insert grocery item", err)
	}
	if removeEmpty {
		if err := e.remote.Inventory.Delete(ctx, p, id); err != nil && !errors.Is(err, apperr.ErrNotFound) {
			e.notifier.ShowError("Couldn't remove " + item.Name)
			return e.remoteRejected(string(store.CollectionInventory), "delete inventory item", err)
		}
	}

	message := item.Name + " added to grocery list"
	undo := e.undoAddGrocery(p, grocery.ID)
	if removeEmpty {
		message = item.Name + " added to grocery list and removed from inventory (empty)"
		undo = e.undoTransferEmpty(p, grocery.ID, item)
	}
	e.show(message, models.KindAdded, undo)
	return nil
}

// ReorderStores replaces the canonical store order with a full permutation.
// The new order is staged completely, swapped locally in one step, then
// persisted as a single remote batch.
func (e *Engine) ReorderStores(ctx context.Context, order []string) error {
	p, err := e.principal()
	if err != nil {
		return err
	}
	if len(order) == 0 {
		return fmt.Errorf("%w: order must not be empty", apperr.ErrValidation)
	}
	seen := make(map[string]bool, len(order))
	for _, name := range order {
		if name == "" || seen[name] {
			return fmt.Errorf("%w: order must be a permutation of store names", apperr.ErrValidation)
		}
		seen[name] = true
	}

	entries := make([]models.StoreEntry, len(order))
	for i, name := range order {
		entries[i] = models.StoreEntry{Name: name, SortOrder: i + 1}
	}

	e.store.SetStoreOrder(order)
	e.metrics.ObserveOp("reorder_stores")

	if err := e.remote.Stores.SetOrder(ctx, p, entries); err != nil {
		e.notifier.ShowError("Couldn't save store order")
		return e.remoteRejected(string(store.CollectionStores), "reorder stores", err)
	}
	return nil
}

// ApplyInventoryIntent maps a classified gesture on an inventory card to its
// engine operation. Swipe left removes, swipe right transfers to the list;
// taps and cancelled contacts change nothing here.
func (e *Engine) ApplyInventoryIntent(ctx context.Context, id string, intent gesture.Intent) error {
	switch intent {
	case gesture.IntentSwipeLeft:
		return e.RemoveInventoryItem(ctx, id)
	case gesture.IntentSwipeRight:
		return e.TransferToList(ctx, id)
	default:
		return nil
	}
}

// Compensating actions carried inside notifications.

func (e *Engine) undoAddGrocery(p auth.Principal, id string) models.UndoFunc {
	return func() error {
		e.store.RemoveGroceryItem(id)
		if err := e.remote.Grocery.Delete(context.Background(), p, id); err != nil && !errors.Is(err, apperr.ErrNotFound) {
			return e.remoteRejected(string(store.CollectionGrocery), "undo add", err)
		}
		return nil
	}
}

func (e *Engine) undoAddGroceryBatch(p auth.Principal, ids []string) models.UndoFunc {
	return func() error {
		var firstErr error
		for _, id := range ids {
			e.store.RemoveGroceryItem(id)
			if err := e.remote.Grocery.Delete(context.Background(), p, id); err != nil && !errors.Is(err, apperr.ErrNotFound) {
				if firstErr == nil {
					firstErr = e.remoteRejected(string(store.CollectionGrocery), "undo add", err)
				}
			}
		}
		return firstErr
	}
}

func (e *Engine) undoRemoveInventory(p auth.Principal, prior models.InventoryItem) models.UndoFunc {
	return func() error {
		e.store.InsertInventoryItem(prior)
		if _, err := e.remote.Inventory.Insert(context.Background(), p, prior); err != nil {
			return e.remoteRejected(string(store.CollectionInventory), "undo remove", err)
		}
		return nil
	}
}

func (e *Engine) undoTransferEmpty(p auth.Principal, groceryID string, prior models.InventoryItem) models.UndoFunc {
	return func() error {
		e.store.RemoveGroceryItem(groceryID)
		e.store.InsertInventoryItem(prior)

		if err := e.remote.Grocery.Delete(context.Background(), p, groceryID); err != nil && !errors.Is(err, apperr.ErrNotFound) {
			return e.remoteRejected(string(store.CollectionGrocery), "undo transfer", err)
		}
		if _, err := e.remote.Inventory.Insert(context.Background(), p, prior); err != nil {
			return e.remoteRejected(string(store.CollectionInventory), "undo transfer", err)
		}
		return nil
	}
}
