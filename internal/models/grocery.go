package models

import "time"

// DefaultStore is the store new items fall back to when none is given.
const DefaultStore = "Farmers Market"

// GroceryItem represents a single entry on the shopping list.
type GroceryItem struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Quantity  string    `json:"quantity"`
	Checked   bool      `json:"checked"`
	AddedBy   string    `json:"added_by,omitempty"`
	Store     string    `json:"store"`
	CreatedAt time.Time `json:"created_at"`
}

// StoreEntry represents a merchant in the user's store list. The sort
// position is unique within the active ordering.
type StoreEntry struct {
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
}

// GroceryList groups grocery items by the store they belong to.
type GroceryList map[string][]GroceryItem

// Items flattens the list across all stores.
func (l GroceryList) Items() []GroceryItem {
	var items []GroceryItem
	for _, storeItems := range l {
		items = append(items, storeItems...)
	}
	return items
}

// StoreSuggestion is a quick-pick store shown on the add-item form.
type StoreSuggestion struct {
	Name string `json:"name"`
	Hint string `json:"hint"`
}

// ItemSuggestion is a quick-add entry shown on the add-item form.
type ItemSuggestion struct {
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
	Hint  string `json:"hint"`
}

// Default suggestion tables for the add-item flow.
var (
	ItemSuggestions = []ItemSuggestion{
		{Name: "Milk", Emoji: "🥛", Hint: "Running low"},
		{Name: "Bread", Emoji: "🍞", Hint: "Frequently bought"},
		{Name: "Eggs", Emoji: "🥚", Hint: "Last bought 2 weeks ago"},
	}

	StoreSuggestions = []StoreSuggestion{
		{Name: "Farmers Market", Hint: "Produce default"},
		{Name: "Costco", Hint: "Bulk items"},
		{Name: "Whole Foods", Hint: "Organic"},
		{Name: "Trader Joe's", Hint: "Specialty"},
		{Name: "Target", Hint: "Everyday essentials"},
	}
)
