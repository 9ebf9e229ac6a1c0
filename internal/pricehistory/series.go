// Package pricehistory derives the purchase unit-price series of an ingredient.
package pricehistory

import (
	"iter"
	"time"

	"cmvboard/internal/models"

	"github.com/shopspring/decimal"
)

// DefaultWindowMonths is the trailing window of purchases considered
const DefaultWindowMonths = 6

// CurrentLabel marks the synthetic point carrying the live unit cost
const CurrentLabel = "current"

const labelLayout = "02/01"

// Point is one price observation
type Point struct {
	Date      time.Time       `json:"date"`
	Label     string          `json:"label"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Current   bool            `json:"current,omitempty"`
}

type options struct {
	months int
}

// Option configures Series
type Option func(*options)

// WithWindowMonths sets the trailing window. Non-positive values keep the default.
func WithWindowMonths(months int) Option {
	return func(o *options) {
		if months > 0 {
			o.months = months
		}
	}
}

// Series returns the purchase prices of ing found in movements within the
// trailing window ending at now, oldest first. When there are no purchases
// in the window, or the last one differs from the live cost, a final point
// labeled "current" carries ing.CostPerUnit.
//
// The sequence is computed from a private copy of the matching movements and
// can be iterated any number of times.
func Series(ing models.Ingredient, movements []models.StockMovement, now time.Time, opts ...Option) iter.Seq[Point] {
	o := options{months: DefaultWindowMonths}
	for _, opt := range opts {
		opt(&o)
	}
	since := now.AddDate(0, -o.months, 0)

	var purchases []models.StockMovement
	for _, m := range movements {
		if m.IngredientID != ing.ID || m.Direction != models.DirectionIn {
			continue
		}
		if m.Date.Before(since) {
			continue
		}
		purchases = append(purchases, m)
	}
	models.SortMovementsByDate(purchases)
	cost := ing.CostPerUnit

	return func(yield func(Point) bool) {
		last := decimal.Zero
		for i, m := range purchases {
			// quantity > 0 is guaranteed by the ledger
			p := Point{
				Date:      m.Date,
				Label:     m.Date.Format(labelLayout),
				UnitPrice: m.UnitPrice(),
			}
			if !yield(p) {
				return
			}
			if i == len(purchases)-1 {
				last = p.UnitPrice
			}
		}
		if len(purchases) == 0 || !last.Equal(cost) {
			yield(Point{Date: now, Label: CurrentLabel, UnitPrice: cost, Current: true})
		}
	}
}

// Collect drains a series into a slice
func Collect(seq iter.Seq[Point]) []Point {
	out := []Point{}
	for p := range seq {
		out = append(out, p)
	}
	return out
}
