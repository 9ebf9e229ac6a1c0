package models

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Direction represents whether a movement adds or removes stock
type Direction string

const (
	// DirectionIn is a purchase or receipt
	DirectionIn Direction = "IN"
	// DirectionOut is consumption or a sale
	DirectionOut Direction = "OUT"
)

// IsValid reports whether the direction is IN or OUT
func (d Direction) IsValid() bool {
	return d == DirectionIn || d == DirectionOut
}

// StockMovement is an immutable ledger entry. IngredientID is a weak
// reference: the ingredient may be removed from the catalog later.
type StockMovement struct {
	ID           string          `json:"id"`
	IngredientID string          `json:"ingredientId"`
	Direction    Direction       `json:"type"`
	Quantity     float64         `json:"quantity"`
	Value        decimal.Decimal `json:"value"`
	Date         time.Time       `json:"date"`
	Description  string          `json:"description,omitempty"`
}

// UnitPrice returns value / quantity. Quantity is always positive for
// movements produced by the ledger.
func (m StockMovement) UnitPrice() decimal.Decimal {
	return m.Value.Div(decimal.NewFromFloat(m.Quantity))
}

// SortMovementsByDate sorts movements oldest first, keeping insertion order
// for movements on the same instant
func SortMovementsByDate(movements []StockMovement) {
	sort.SliceStable(movements, func(i, j int) bool {
		return movements[i].Date.Before(movements[j].Date)
	})
}

// WasteReason is the reason stock was lost
type WasteReason string

const (
	// Waste reasons offered by the dashboard; free text is accepted too
	WasteExpiration      WasteReason = "Expiration"
	WasteImproperStorage WasteReason = "Improper Storage"
	WasteProductionError WasteReason = "Production Error"
	WasteBreakage        WasteReason = "Breakage/Drop"
)

// WasteLog records stock lost to spoilage, error or damage
type WasteLog struct {
	ID           string          `json:"id"`
	IngredientID string          `json:"ingredientId"`
	Quantity     float64         `json:"quantity"`
	Cost         decimal.Decimal `json:"cost"`
	Reason       WasteReason     `json:"reason"`
	Responsible  string          `json:"responsible"`
	Date         time.Time       `json:"date"`
}
