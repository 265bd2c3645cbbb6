package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nickagee13/pantry-path/internal/models"
)

func TestInsertGroceryItemCreatesStoreBucket(t *testing.T) {
	s := New()

	s.InsertGroceryItem(models.GroceryItem{ID: "g1", Name: "Milk", Store: "Costco"})
	s.InsertGroceryItem(models.GroceryItem{ID: "g2", Name: "Bread", Store: "Target"})
	s.InsertGroceryItem(models.GroceryItem{ID: "g3", Name: "Eggs", Store: "Costco"})

	list := s.GroceryList()
	assert.Len(t, list["Costco"], 2)
	assert.Len(t, list["Target"], 1)
	assert.Equal(t, []string{"Costco", "Target"}, s.StoreOrder())
}

func TestInsertGroceryItemDefaultsStore(t *testing.T) {
	s := New()
	s.InsertGroceryItem(models.GroceryItem{ID: "g1", Name: "Milk"})

	item, ok := s.GroceryItem("g1")
	assert.True(t, ok)
	assert.Equal(t, models.DefaultStore, item.Store)
}

func TestPatchGroceryItem(t *testing.T) {
	s := New()
	s.InsertGroceryItem(models.GroceryItem{ID: "g1", Name: "Milk", Quantity: "1"})

	checked := true
	qty := "2 gal"
	assert.True(t, s.PatchGroceryItem("g1", GroceryPatch{Checked: &checked, Quantity: &qty}))

	item, _ := s.GroceryItem("g1")
	assert.True(t, item.Checked)
	assert.Equal(t, "2 gal", item.Quantity)
	assert.Equal(t, "Milk", item.Name, "unset patch fields stay untouched")
}

func TestPatchGroceryItemUnknownIDIsNoOp(t *testing.T) {
	s := New()
	s.InsertGroceryItem(models.GroceryItem{ID: "g1", Name: "Milk"})

	checked := true
	assert.False(t, s.PatchGroceryItem("missing", GroceryPatch{Checked: &checked}))

	item, _ := s.GroceryItem("g1")
	assert.False(t, item.Checked)
}

func TestRemoveGroceryItemKeepsEmptyBucket(t *testing.T) {
	s := New()
	s.InsertGroceryItem(models.GroceryItem{ID: "g1", Name: "Milk", Store: "Costco"})

	assert.True(t, s.RemoveGroceryItem("g1"))
	assert.False(t, s.RemoveGroceryItem("g1"), "second delete is a no-op")

	list := s.GroceryList()
	items, ok := list["Costco"]
	assert.True(t, ok, "emptied store bucket stays visible")
	assert.Empty(t, items)
}

func TestGroceryListReturnsSnapshot(t *testing.T) {
	s := New()
	s.InsertGroceryItem(models.GroceryItem{ID: "g1", Name: "Milk", Store: "Costco"})

	list := s.GroceryList()
	list["Costco"][0].Name = "mutated"

	item, _ := s.GroceryItem("g1")
	assert.Equal(t, "Milk", item.Name)
}

func TestInventorySortedNewestFirst(t *testing.T) {
	s := New()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.InsertInventoryItem(models.InventoryItem{ID: "b", Name: "Older", CreatedAt: base})
	s.InsertInventoryItem(models.InventoryItem{ID: "a", Name: "Newer", CreatedAt: base.Add(time.Hour)})
	s.InsertInventoryItem(models.InventoryItem{ID: "c", Name: "Tie", CreatedAt: base})

	items := s.Inventory()
	assert.Equal(t, []string{"a", "b", "c"}, []string{items[0].ID, items[1].ID, items[2].ID})
}

func TestInventorySnapshotCopiesDetails(t *testing.T) {
	s := New()
	s.InsertInventoryItem(models.InventoryItem{ID: "i1", Details: models.StringSlice{"organic"}})

	item, _ := s.InventoryItem("i1")
	item.Details[0] = "mutated"

	again, _ := s.InventoryItem("i1")
	assert.Equal(t, "organic", again.Details[0])
}

func TestPatchInventoryItem(t *testing.T) {
	s := New()
	s.InsertInventoryItem(models.InventoryItem{ID: "i1", Percentage: 80, DaysLeft: 5})

	pct := 60.0
	days := 2
	loc := models.LocationFreezer
	assert.True(t, s.PatchInventoryItem("i1", InventoryPatch{Percentage: &pct, DaysLeft: &days, Location: &loc}))

	item, _ := s.InventoryItem("i1")
	assert.Equal(t, 60.0, item.Percentage)
	assert.Equal(t, 2, item.DaysLeft)
	assert.Equal(t, models.LocationFreezer, item.Location)

	assert.False(t, s.PatchInventoryItem("missing", InventoryPatch{Percentage: &pct}))
}

func TestRemoveInventoryItem(t *testing.T) {
	s := New()
	s.InsertInventoryItem(models.InventoryItem{ID: "i1"})

	assert.True(t, s.RemoveInventoryItem("i1"))
	assert.False(t, s.RemoveInventoryItem("i1"))

	_, ok := s.InventoryItem("i1")
	assert.False(t, ok)
}

func TestSetStoreOrderReplacesWholePermutation(t *testing.T) {
	s := New()
	s.ReplaceStores([]models.StoreEntry{
		{Name: "Costco", SortOrder: 1},
		{Name: "Target", SortOrder: 2},
		{Name: "Farmers Market", SortOrder: 3},
	})

	s.SetStoreOrder([]string{"Target", "Farmers Market", "Costco"})
	assert.Equal(t, []string{"Target", "Farmers Market", "Costco"}, s.StoreOrder())
}

func TestImplicitStoreAppendsAfterExistingOrder(t *testing.T) {
	s := New()
	s.ReplaceStores([]models.StoreEntry{
		{Name: "Costco", SortOrder: 1},
		{Name: "Target", SortOrder: 2},
	})

	s.InsertGroceryItem(models.GroceryItem{ID: "g1", Name: "Milk", Store: "Whole Foods"})
	assert.Equal(t, []string{"Costco", "Target", "Whole Foods"}, s.StoreOrder())
}

func TestStatusLifecycle(t *testing.T) {
	s := New()
	assert.True(t, s.Status(CollectionGrocery).Loading, "collections start loading")

	s.SetStatus(CollectionGrocery, false, nil)
	st := s.Status(CollectionGrocery)
	assert.False(t, st.Loading)
	assert.NoError(t, st.Err)
}

func TestReplaceGroceryListIsAuthoritative(t *testing.T) {
	s := New()
	s.InsertGroceryItem(models.GroceryItem{ID: "local", Name: "Optimistic", Store: "Costco"})

	s.ReplaceGroceryList(models.GroceryList{
		"Target": {{ID: "remote", Name: "Confirmed", Store: "Target"}},
	})

	_, ok := s.GroceryItem("local")
	assert.False(t, ok, "remote snapshot supersedes optimistic rows")
	_, ok = s.GroceryItem("remote")
	assert.True(t, ok)
}
