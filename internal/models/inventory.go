package models

import "time"

// InventoryItem represents an item in the kitchen inventory.
type InventoryItem struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Category   Category    `json:"category"`
	Emoji      string      `json:"emoji"`
	Quantity   float64     `json:"quantity"`
	Unit       string      `json:"unit"`
	DaysLeft   int         `json:"days_left"`
	Percentage float64     `json:"percentage"`
	Location   Location    `json:"location"`
	Details    StringSlice `json:"details,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

// LowStockThreshold marks the remaining percentage below which an item is
// considered to be running low.
const LowStockThreshold = 25

// RunningLow reports whether the item is at or below the low-stock threshold.
func (i InventoryItem) RunningLow() bool {
	return i.Percentage <= LowStockThreshold
}

// Empty reports whether nothing of the item remains.
func (i InventoryItem) Empty() bool {
	return i.Percentage <= 0
}

// Expiring reports whether the item should be used within the alert window.
func (i InventoryItem) Expiring() bool {
	return i.DaysLeft <= 2
}

// ClampEdits normalizes user-supplied fields: percentage stays in [0,100]
// and days left never goes negative on a save.
func (i *InventoryItem) ClampEdits() {
	if i.Percentage < 0 {
		i.Percentage = 0
	}
	if i.Percentage > 100 {
		i.Percentage = 100
	}
	if i.DaysLeft < 0 {
		i.DaysLeft = 0
	}
}

// Category represents the category of an inventory item.
type Category string

const (
	// Inventory categories
	CategoryDairy      Category = "Dairy"
	CategoryFruits     Category = "Fruits"
	CategoryVegetables Category = "Vegetables"
	CategoryMeat       Category = "Meat"
	CategoryPantry     Category = "Pantry"
	CategoryFrozen     Category = "Frozen"
	CategoryBakery     Category = "Bakery"
	CategoryBeverages  Category = "Beverages"
)

// Perishable reports whether items of this category get a freshness window
// when added to the inventory.
func (c Category) Perishable() bool {
	switch c {
	case CategoryDairy, CategoryFruits, CategoryVegetables, CategoryMeat:
		return true
	}
	return false
}

// Location represents the storage location of an inventory item.
type Location string

const (
	// Storage locations
	LocationFridge  Location = "Fridge"
	LocationPantry  Location = "Pantry"
	LocationFreezer Location = "Freezer"
	LocationCounter Location = "Counter"
)
