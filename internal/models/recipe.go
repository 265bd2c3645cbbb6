package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// StringSlice represents a slice of strings that can be stored in the database
type StringSlice []string

// Value converts the slice to a JSON string for storage
func (s StringSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	return json.Marshal(s)
}

// Scan converts the database value back to a slice
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return errors.New("unsupported type for StringSlice")
	}
}

// Recipe represents a dish that can be cooked from the inventory. The record
// is read-mostly: the data source supplies it, the engine derives readiness.
type Recipe struct {
	ID                 string        `json:"id"`
	Title              string        `json:"title"`
	CuisineTags        StringSlice   `json:"cuisine_tags"`
	TimeMinutes        int           `json:"time_minutes"`
	Difficulty         string        `json:"difficulty"`
	Servings           int           `json:"servings"`
	Ingredients        StringSlice   `json:"ingredients"`
	MissingIngredients StringSlice   `json:"missing_ingredients"`
	Section            RecipeSection `json:"section"`
	Ready              bool          `json:"ready"`
}

// RecipeSection tags a recipe for grouping on the recipes view.
type RecipeSection string

const (
	// Recipe sections
	SectionExpiring  RecipeSection = "expiring"
	SectionQuick     RecipeSection = "quick"
	SectionFavorites RecipeSection = "favorites"
)

// SectionTitles maps sections to their display headings.
var SectionTitles = map[RecipeSection]string{
	SectionExpiring:  "🔥 Use Soon - Expiring Items",
	SectionQuick:     "✨ Quick Meals",
	SectionFavorites: "🌟 Favorites",
}

// RecipeFilters is the ordered set of filters the recipes view offers.
var RecipeFilters = []string{
	"All", "Ready", "Favorites", "Expiring Items", "Quick Meals",
	"Healthy", "Comfort Food", "Italian", "Chinese", "Mexican",
}
