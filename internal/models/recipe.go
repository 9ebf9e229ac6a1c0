package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultRecipeCategory is assigned to recipes created without a category
const DefaultRecipeCategory = "General"

// RecipeIngredient is one line of a technical sheet. Quantity is expressed in
// the ingredient's own unit.
type RecipeIngredient struct {
	IngredientID string  `json:"ingredientId"`
	Quantity     float64 `json:"quantity"`
}

// Recipe represents a dish and its technical sheet ("ficha técnica")
type Recipe struct {
	ID                 string             `json:"id"`
	Name               string             `json:"name"`
	Category           string             `json:"category"`
	Ingredients        []RecipeIngredient `json:"ingredients"`
	PreparationMinutes int                `json:"preparationMinutes"`
	YieldServings      int                `json:"yieldServings"`
	SalePrice          decimal.Decimal    `json:"salePrice"`
	Instructions       string             `json:"instructions"`
	LastRevision       time.Time          `json:"lastRevision"`
}

// NewRecipe returns an empty recipe with the defaults used for new sheets
func NewRecipe(id, name string, now time.Time) Recipe {
	return Recipe{
		ID:            id,
		Name:          name,
		Category:      DefaultRecipeCategory,
		Ingredients:   []RecipeIngredient{},
		YieldServings: 1,
		SalePrice:     decimal.Zero,
		LastRevision:  now,
	}
}

// Clone returns a deep copy of the recipe
func (r Recipe) Clone() Recipe {
	r.Ingredients = append([]RecipeIngredient(nil), r.Ingredients...)
	return r
}

// HasIngredient checks if the recipe already lists an ingredient
func (r *Recipe) HasIngredient(ingredientID string) bool {
	for _, line := range r.Ingredients {
		if line.IngredientID == ingredientID {
			return true
		}
	}
	return false
}

// AddIngredient appends a line unless the ingredient is already listed.
// It reports whether the recipe changed.
func (r *Recipe) AddIngredient(ingredientID string, quantity float64) bool {
	if r.HasIngredient(ingredientID) {
		return false
	}
	r.Ingredients = append(r.Ingredients, RecipeIngredient{IngredientID: ingredientID, Quantity: quantity})
	return true
}

// RemoveIngredient drops the line for an ingredient
func (r *Recipe) RemoveIngredient(ingredientID string) bool {
	for i, line := range r.Ingredients {
		if line.IngredientID == ingredientID {
			r.Ingredients = append(r.Ingredients[:i], r.Ingredients[i+1:]...)
			return true
		}
	}
	return false
}

// SetQuantity updates the quantity of an existing line
func (r *Recipe) SetQuantity(ingredientID string, quantity float64) bool {
	for i := range r.Ingredients {
		if r.Ingredients[i].IngredientID == ingredientID {
			r.Ingredients[i].Quantity = quantity
			return true
		}
	}
	return false
}

// ValidateRecipe validates a recipe before it is saved
func ValidateRecipe(r *Recipe) error {
	if r.Name == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}
	if r.SalePrice.IsNegative() {
		return &ValidationError{Field: "salePrice", Reason: "must not be negative"}
	}
	if r.YieldServings < 0 {
		return &ValidationError{Field: "yieldServings", Reason: "must not be negative"}
	}
	seen := make(map[string]bool, len(r.Ingredients))
	for _, line := range r.Ingredients {
		if seen[line.IngredientID] {
			return &ValidationError{Field: "ingredients", Reason: "duplicate ingredient " + line.IngredientID}
		}
		seen[line.IngredientID] = true
		if !IsCount(line.Quantity) {
			return &ValidationError{Field: "ingredients", Reason: "quantity must be a non-negative number"}
		}
	}
	return nil
}
