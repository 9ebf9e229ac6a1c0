package audit

import (
	"cmvboard/internal/models"

	"github.com/shopspring/decimal"
)

// VarianceKind tells a matching count apart from a surplus or shortage
type VarianceKind string

const (
	VarianceMatch    VarianceKind = "match"
	VarianceSurplus  VarianceKind = "surplus"
	VarianceShortage VarianceKind = "shortage"
)

// Variance compares a counted quantity with system stock
type Variance struct {
	IngredientID string          `json:"ingredientId"`
	Name         string          `json:"name"`
	Unit         models.Unit     `json:"unit"`
	SystemStock  float64         `json:"systemStock"`
	Counted      float64         `json:"counted"`
	Diff         float64         `json:"diff"`
	Kind         VarianceKind    `json:"kind"`
	ValueDiff    decimal.Decimal `json:"valueDiff"`
}

// Compare computes the variance of one counted ingredient
func Compare(ing models.Ingredient, counted float64) Variance {
	diff := counted - ing.CurrentStock
	v := Variance{
		IngredientID: ing.ID,
		Name:         ing.Name,
		Unit:         ing.Unit,
		SystemStock:  ing.CurrentStock,
		Counted:      counted,
		Diff:         diff,
		ValueDiff:    ing.CostPerUnit.Mul(decimal.NewFromFloat(diff)),
	}
	switch {
	case diff > 0:
		v.Kind = VarianceSurplus
	case diff < 0:
		v.Kind = VarianceShortage
	default:
		v.Kind = VarianceMatch
	}
	return v
}

// Variances lists count-vs-system differences for the running session.
// They are display-only and never stored.
func (e *Engine) Variances() ([]Variance, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateCounting {
		return nil, models.ErrAuditNotStarted
	}

	out := make([]Variance, 0, len(e.order))
	for _, id := range e.order {
		ing, ok := e.store.Ingredient(id)
		if !ok {
			continue
		}
		out = append(out, Compare(ing, e.counts[id]))
	}
	return out, nil
}
