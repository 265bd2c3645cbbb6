package derive

import (
	"strings"

	"github.com/nickagee13/pantry-path/internal/models"
)

// GroceryView is the explicit view configuration for the grocery list.
// It replaces the source app's ambient view flags.
type GroceryView struct {
	SearchQuery string
	StoreFilter string // empty or "All Stores"
}

// VisibleStores returns the store names to render, in canonical order,
// restricted to stores that have a bucket and the active filter.
func (v GroceryView) VisibleStores(order []string, list models.GroceryList) []string {
	var visible []string
	for _, name := range order {
		if _, ok := list[name]; !ok {
			continue
		}
		if v.StoreFilter != "" && v.StoreFilter != "All Stores" && name != v.StoreFilter {
			continue
		}
		visible = append(visible, name)
	}
	return visible
}

// FilterItems narrows a store's items by the search query.
func (v GroceryView) FilterItems(items []models.GroceryItem) []models.GroceryItem {
	if v.SearchQuery == "" {
		return items
	}
	q := strings.ToLower(v.SearchQuery)
	var out []models.GroceryItem
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Name), q) {
			out = append(out, item)
		}
	}
	return out
}

// SortForDisplay orders a store's items for rendering: unchecked first in
// their original order, then checked in theirs. A checked item sinks to the
// bottom of its group without shuffling its same-state peers.
func SortForDisplay(items []models.GroceryItem) []models.GroceryItem {
	sorted := make([]models.GroceryItem, 0, len(items))
	for _, item := range items {
		if !item.Checked {
			sorted = append(sorted, item)
		}
	}
	for _, item := range items {
		if item.Checked {
			sorted = append(sorted, item)
		}
	}
	return sorted
}

// StoreCompleted reports whether a store has at least one item and all of
// them are checked. Used for the header summary, not for hiding the store.
func StoreCompleted(items []models.GroceryItem) bool {
	if len(items) == 0 {
		return false
	}
	for _, item := range items {
		if !item.Checked {
			return false
		}
	}
	return true
}

// CompletedStores counts the completed stores in a list.
func CompletedStores(list models.GroceryList) int {
	n := 0
	for _, items := range list {
		if StoreCompleted(items) {
			n++
		}
	}
	return n
}
