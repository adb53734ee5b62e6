package models

import (
	"encoding/json"

	"github.com/jinzhu/gorm"
)

// MenuItem represents a dish on the menu. The recipe is deliberately kept
// in a separate record (MenuItemRecipe) so ingredient data is not exposed
// wherever menu items are read.
type MenuItem struct {
	gorm.Model
	Name       string       `json:"name"`
	PriceCents int          `json:"priceCents"`
	Image      string       `json:"image"`
	Category   MenuCategory `json:"category"`
	Available  bool         `json:"available"`
}

// MenuCategory represents the category of a menu item
type MenuCategory string

const (
	CategoryBurgers MenuCategory = "Burgers"
	CategorySides   MenuCategory = "Sides"
	CategoryWraps   MenuCategory = "Wraps"
	CategoryPizzas  MenuCategory = "Pizzas"
	CategoryDrinks  MenuCategory = "Drinks"
	CategoryPasta   MenuCategory = "Pasta"
)

// ValidCategory reports whether c belongs to the closed category set.
func ValidCategory(c MenuCategory) bool {
	switch c {
	case CategoryBurgers, CategorySides, CategoryWraps, CategoryPizzas, CategoryDrinks, CategoryPasta:
		return true
	}
	return false
}

// MenuItemRecipe stores the ingredient mapping for one menu item. Entries
// are serialized as JSON in a single column.
type MenuItemRecipe struct {
	gorm.Model
	MenuItemID  uint   `json:"menuItemId"`
	EntriesJSON string `json:"-"`
}

// RecipeEntry pairs a stock ingredient with the quantity a dish consumes.
// Consumption is tracked, not enforced against stock levels.
type RecipeEntry struct {
	StockItemID uint    `json:"stockItemId"`
	Quantity    float64 `json:"quantity"`
}

// Entries deserializes the recipe's ingredient list.
func (r *MenuItemRecipe) Entries() ([]RecipeEntry, error) {
	if r.EntriesJSON == "" {
		return nil, nil
	}
	var entries []RecipeEntry
	if err := json.Unmarshal([]byte(r.EntriesJSON), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// SetEntries serializes the ingredient list into the record.
func (r *MenuItemRecipe) SetEntries(entries []RecipeEntry) error {
	b, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	r.EntriesJSON = string(b)
	return nil
}
