package engine

import (
	"strings"

	"github.com/nickagee13/pantry-path/internal/models"
)

// CategoryRule maps a name keyword to a category. Rules are checked in
// order; the first keyword contained in the item name wins.
type CategoryRule struct {
	Keyword  string
	Category models.Category
}

// DefaultCategoryRules is the ordered keyword table for category inference.
// The keyword match is a deliberately simple heuristic carried over from the
// source app, kept as a swappable table rather than anything
// correctness-critical.
var DefaultCategoryRules = []CategoryRule{
	{"milk", models.CategoryDairy},
	{"cheese", models.CategoryDairy},
	{"yogurt", models.CategoryDairy},
	{"butter", models.CategoryDairy},
	{"cream", models.CategoryDairy},
	{"egg", models.CategoryDairy},
	{"chicken", models.CategoryMeat},
	{"beef", models.CategoryMeat},
	{"pork", models.CategoryMeat},
	{"fish", models.CategoryMeat},
	{"salmon", models.CategoryMeat},
	{"turkey", models.CategoryMeat},
	{"apple", models.CategoryFruits},
	{"banana", models.CategoryFruits},
	{"orange", models.CategoryFruits},
	{"berr", models.CategoryFruits},
	{"grape", models.CategoryFruits},
	{"lemon", models.CategoryFruits},
	{"pepper", models.CategoryVegetables},
	{"tomato", models.CategoryVegetables},
	{"onion", models.CategoryVegetables},
	{"lettuce", models.CategoryVegetables},
	{"carrot", models.CategoryVegetables},
	{"broccoli", models.CategoryVegetables},
	{"spinach", models.CategoryVegetables},
	{"basil", models.CategoryVegetables},
	{"bread", models.CategoryBakery},
	{"bagel", models.CategoryBakery},
	{"frozen", models.CategoryFrozen},
	{"ice cream", models.CategoryFrozen},
	{"juice", models.CategoryBeverages},
	{"soda", models.CategoryBeverages},
	{"water", models.CategoryBeverages},
}

// DefaultLocations maps categories to storage locations.
var DefaultLocations = map[models.Category]models.Location{
	models.CategoryDairy:      models.LocationFridge,
	models.CategoryFruits:     models.LocationCounter,
	models.CategoryVegetables: models.LocationFridge,
	models.CategoryMeat:       models.LocationFridge,
	models.CategoryPantry:     models.LocationPantry,
	models.CategoryFrozen:     models.LocationFreezer,
	models.CategoryBakery:     models.LocationCounter,
	models.CategoryBeverages:  models.LocationFridge,
}

// DefaultEmojis maps categories to display emojis.
var DefaultEmojis = map[models.Category]string{
	models.CategoryDairy:      "🥛",
	models.CategoryFruits:     "🍎",
	models.CategoryVegetables: "🥬",
	models.CategoryMeat:       "🍗",
	models.CategoryPantry:     "🥫",
	models.CategoryFrozen:     "🧊",
	models.CategoryBakery:     "🍞",
	models.CategoryBeverages:  "🧃",
}

// Freshness windows assigned on inventory creation, in days.
const (
	defaultFreshDays    = 7
	defaultNonPerishDay = 365
)

// InferCategory returns the category for an item name via the ordered
// keyword table, falling back to Pantry.
func InferCategory(name string) models.Category {
	lower := strings.ToLower(name)
	for _, rule := range DefaultCategoryRules {
		if strings.Contains(lower, rule.Keyword) {
			return rule.Category
		}
	}
	return models.CategoryPantry
}

// InferInventoryItem derives the inventory fields for a grocery item that
// was just checked off. Perishable categories get a 7-day window; shelf-
// stable items get a nominal year.
func InferInventoryItem(g models.GroceryItem) models.InventoryItem {
	category := InferCategory(g.Name)

	location, ok := DefaultLocations[category]
	if !ok {
		location = models.LocationPantry
	}
	emoji, ok := DefaultEmojis[category]
	if !ok {
		emoji = DefaultEmojis[models.CategoryPantry]
	}
	daysLeft := defaultNonPerishDay
	if category.Perishable() {
		daysLeft = defaultFreshDays
	}

	return models.InventoryItem{
		Name:       g.Name,
		Category:   category,
		Emoji:      emoji,
		Quantity:   1,
		Unit:       g.Quantity,
		DaysLeft:   daysLeft,
		Percentage: 100,
		Location:   location,
	}
}
