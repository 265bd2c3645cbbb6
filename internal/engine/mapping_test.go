package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nickagee13/pantry-path/internal/models"
)

func TestInferCategory(t *testing.T) {
	tests := []struct {
		name string
		want models.Category
	}{
		{"Whole Milk", models.CategoryDairy},
		{"Sharp Cheddar Cheese", models.CategoryDairy},
		{"Chicken Thighs", models.CategoryMeat},
		{"Strawberries", models.CategoryFruits},
		{"Roma Tomatoes", models.CategoryVegetables},
		{"Sourdough Bread", models.CategoryBakery},
		{"Frozen Peas", models.CategoryFrozen},
		{"Orange Juice", models.CategoryFruits},
		{"Canned Beans", models.CategoryPantry},
		{"", models.CategoryPantry},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferCategory(tt.name))
		})
	}
}

func TestInferCategoryFirstRuleWins(t *testing.T) {
	// "juice" and "orange" both match; the ordered table decides.
	assert.Equal(t, models.CategoryFruits, InferCategory("Orange Juice"))
	assert.Equal(t, models.CategoryBeverages, InferCategory("Sparkling Juice"))
}

func TestInferInventoryItem(t *testing.T) {
	item := InferInventoryItem(models.GroceryItem{Name: "Whole Milk", Quantity: "2 gal"})

	assert.Equal(t, models.CategoryDairy, item.Category)
	assert.Equal(t, models.LocationFridge, item.Location)
	assert.Equal(t, 100.0, item.Percentage)
	assert.Equal(t, 1.0, item.Quantity)
	assert.Equal(t, "2 gal", item.Unit, "the grocery quantity text becomes the display unit")
	assert.Equal(t, defaultFreshDays, item.DaysLeft, "perishables get the freshness window")
	assert.NotEmpty(t, item.Emoji)
}

func TestInferInventoryItemShelfStable(t *testing.T) {
	item := InferInventoryItem(models.GroceryItem{Name: "Canned Beans", Quantity: "3"})

	assert.Equal(t, models.CategoryPantry, item.Category)
	assert.Equal(t, models.LocationPantry, item.Location)
	assert.Equal(t, defaultNonPerishDay, item.DaysLeft)
}
