package derive

import (
	"strings"

	"github.com/nickagee13/pantry-path/internal/models"
)

// RecipeSectionView is one rendered group of recipes.
type RecipeSectionView struct {
	Title   string          `json:"title"`
	Recipes []models.Recipe `json:"recipes"`
}

// FilterRecipes narrows the recipe set by the active filter name.
func FilterRecipes(recipes []models.Recipe, filter string) []models.Recipe {
	if filter == "" || filter == "All" {
		return recipes
	}

	var out []models.Recipe
	for _, r := range recipes {
		switch filter {
		case "Ready":
			if r.Ready {
				out = append(out, r)
			}
		case "Favorites":
			if r.Section == models.SectionFavorites {
				out = append(out, r)
			}
		case "Expiring Items":
			if r.Section == models.SectionExpiring {
				out = append(out, r)
			}
		case "Quick Meals":
			if r.Section == models.SectionQuick {
				out = append(out, r)
			}
		default:
			// Cuisine filters match the lowercase tag.
			if hasTag(r.CuisineTags, strings.ToLower(filter)) {
				out = append(out, r)
			}
		}
	}
	return out
}

// GroupBySection partitions filtered recipes into the named sections,
// preserving recipe order within each. With a non-"All" filter active the
// result is one unlabeled section instead.
func GroupBySection(recipes []models.Recipe, filter string) []RecipeSectionView {
	if filter != "" && filter != "All" {
		return []RecipeSectionView{{Title: filter, Recipes: recipes}}
	}

	order := []models.RecipeSection{models.SectionExpiring, models.SectionQuick, models.SectionFavorites}
	buckets := make(map[models.RecipeSection][]models.Recipe)
	for _, r := range recipes {
		buckets[r.Section] = append(buckets[r.Section], r)
	}

	var sections []RecipeSectionView
	for _, s := range order {
		if len(buckets[s]) == 0 {
			continue
		}
		sections = append(sections, RecipeSectionView{
			Title:   models.SectionTitles[s],
			Recipes: buckets[s],
		})
	}
	return sections
}

// InventoryView is the explicit view configuration for the inventory grid.
type InventoryView struct {
	Category models.Category // empty or "All"
	Location models.Location // empty or "All"
}

// FilterInventory narrows inventory items by category and location.
func (v InventoryView) FilterInventory(items []models.InventoryItem) []models.InventoryItem {
	var out []models.InventoryItem
	for _, item := range items {
		if v.Category != "" && v.Category != "All" && item.Category != v.Category {
			continue
		}
		if v.Location != "" && v.Location != "All" && item.Location != v.Location {
			continue
		}
		out = append(out, item)
	}
	return out
}

func hasTag(tags models.StringSlice, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
