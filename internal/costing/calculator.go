// Package costing derives the cost and CMV percentage of a recipe's
// technical sheet from current ingredient costs.
package costing

import (
	"cmvboard/internal/models"

	"github.com/shopspring/decimal"
)

// Rating classifies a recipe's CMV percentage for presentation
type Rating string

const (
	RatingGood          Rating = "good"
	RatingWatch         Rating = "watch"
	RatingCritical      Rating = "critical"
	RatingNotComputable Rating = "not_computable"
)

// Classification thresholds, in percent of sale price
const (
	GoodThreshold  = 28.0
	WatchThreshold = 35.0
)

// Catalog resolves ingredient references. *catalog.Store satisfies it.
type Catalog interface {
	Ingredient(id string) (models.Ingredient, bool)
}

// Line is one costed line of a recipe
type Line struct {
	IngredientID string          `json:"ingredientId"`
	Name         string          `json:"name,omitempty"`
	Unit         models.Unit     `json:"unit,omitempty"`
	Quantity     float64         `json:"quantity"`
	UnitCost     decimal.Decimal `json:"unitCost"`
	Cost         decimal.Decimal `json:"cost"`
	Removed      bool            `json:"removed"`
}

// Breakdown is the derived cost sheet of a recipe. It is never stored on the
// recipe itself.
type Breakdown struct {
	RecipeID      string          `json:"recipeId"`
	Lines         []Line          `json:"lines"`
	TotalCost     decimal.Decimal `json:"totalCost"`
	SalePrice     decimal.Decimal `json:"salePrice"`
	CMVPercentage float64         `json:"cmvPercentage"`
	Margin        decimal.Decimal `json:"margin"`
	Rating        Rating          `json:"rating"`
	Removed       []string        `json:"removed,omitempty"`
}

// HasRemoved reports whether any line references a missing ingredient
func (b Breakdown) HasRemoved() bool {
	return len(b.Removed) > 0
}

// Calculate costs a recipe against the catalog. Lines whose ingredient no
// longer exists contribute zero and are reported in Removed.
func Calculate(r models.Recipe, c Catalog) Breakdown {
	b := Breakdown{
		RecipeID:  r.ID,
		Lines:     make([]Line, 0, len(r.Ingredients)),
		TotalCost: decimal.Zero,
		SalePrice: r.SalePrice,
	}

	for _, item := range r.Ingredients {
		line := Line{IngredientID: item.IngredientID, Quantity: item.Quantity, UnitCost: decimal.Zero, Cost: decimal.Zero}
		ing, ok := c.Ingredient(item.IngredientID)
		if !ok {
			line.Removed = true
			b.Removed = append(b.Removed, item.IngredientID)
			b.Lines = append(b.Lines, line)
			continue
		}
		line.Name = ing.Name
		line.Unit = ing.Unit
		line.UnitCost = ing.CostPerUnit
		line.Cost = ing.CostPerUnit.Mul(decimal.NewFromFloat(item.Quantity))
		b.TotalCost = b.TotalCost.Add(line.Cost)
		b.Lines = append(b.Lines, line)
	}

	b.CMVPercentage = Percentage(b.TotalCost, r.SalePrice)
	b.Margin = r.SalePrice.Sub(b.TotalCost)
	if r.SalePrice.IsPositive() {
		b.Rating = Classify(b.CMVPercentage)
	} else {
		b.Rating = RatingNotComputable
	}
	return b
}

// Percentage returns cost / price × 100, or 0 when price is not positive
func Percentage(cost, price decimal.Decimal) float64 {
	if !price.IsPositive() {
		return 0
	}
	return cost.Div(price).Mul(decimal.NewFromInt(100)).InexactFloat64()
}

// Classify maps a CMV percentage to its rating
func Classify(pct float64) Rating {
	switch {
	case pct <= GoodThreshold:
		return RatingGood
	case pct <= WatchThreshold:
		return RatingWatch
	default:
		return RatingCritical
	}
}

// IngredientSlice adapts a plain ingredient list to the Catalog interface
type IngredientSlice []models.Ingredient

// Ingredient implements Catalog
func (s IngredientSlice) Ingredient(id string) (models.Ingredient, bool) {
	for _, ing := range s {
		if ing.ID == id {
			return ing, true
		}
	}
	return models.Ingredient{}, false
}
