// Package derive computes views over entity-store snapshots: aggregate
// stats, recipe readiness and grouping, store completion and item ordering.
// Everything here is a pure function; the package holds no state.
package derive

import (
	"strings"

	"github.com/nickagee13/pantry-path/internal/models"
)

// Stats is the header summary across the three collections.
type Stats struct {
	List     int `json:"list"`
	Expiring int `json:"expiring"`
	CanMake  int `json:"can_make"`
}

// ComputeStats counts unchecked grocery items, inventory items inside the
// expiry alert window, and ready recipes.
func ComputeStats(list models.GroceryList, inventory []models.InventoryItem, recipes []models.Recipe) Stats {
	var s Stats
	for _, item := range list.Items() {
		if !item.Checked {
			s.List++
		}
	}
	for _, item := range inventory {
		if item.Expiring() {
			s.Expiring++
		}
	}
	for _, r := range recipes {
		if r.Ready {
			s.CanMake++
		}
	}
	return s
}

// RunningLowCount counts items at or below the low-stock threshold, empties
// included.
func RunningLowCount(items []models.InventoryItem) int {
	n := 0
	for _, item := range items {
		if item.RunningLow() {
			n++
		}
	}
	return n
}

// MatchesIngredient reports whether an inventory item name and a recipe
// ingredient refer to the same thing. Case-insensitive substring match in
// either direction — an intentionally simple heuristic from the source app,
// not a tokenizing matcher.
func MatchesIngredient(ingredient, itemName string) bool {
	ing := strings.ToLower(ingredient)
	name := strings.ToLower(itemName)
	if ing == "" || name == "" {
		return false
	}
	return strings.Contains(ing, name) || strings.Contains(name, ing)
}

// ItemMatchesAny reports whether an item name matches any ingredient.
func ItemMatchesAny(itemName string, ingredients []string) bool {
	for _, ing := range ingredients {
		if MatchesIngredient(ing, itemName) {
			return true
		}
	}
	return false
}

// MissingIngredients recomputes which of a recipe's ingredients are not
// satisfied by the live inventory. An item at 0% does not satisfy anything.
func MissingIngredients(recipe models.Recipe, inventory []models.InventoryItem) []string {
	var missing []string
	for _, ing := range recipe.Ingredients {
		satisfied := false
		for _, item := range inventory {
			if !item.Empty() && MatchesIngredient(ing, item.Name) {
				satisfied = true
				break
			}
		}
		if !satisfied {
			missing = append(missing, ing)
		}
	}
	return missing
}

// DecorateRecipes recomputes MissingIngredients and Ready against the live
// inventory, superseding whatever the data source stored.
func DecorateRecipes(recipes []models.Recipe, inventory []models.InventoryItem) []models.Recipe {
	out := make([]models.Recipe, len(recipes))
	for i, r := range recipes {
		r.MissingIngredients = MissingIngredients(r, inventory)
		r.Ready = len(r.MissingIngredients) == 0
		out[i] = r
	}
	return out
}
