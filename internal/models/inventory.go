package models

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Unit represents the unit of measure an ingredient is stocked and costed in
type Unit string

const (
	// Mass units
	UnitKilogram Unit = "kg"
	UnitGram     Unit = "g"

	// Volume units
	UnitLiter      Unit = "L"
	UnitMilliliter Unit = "ml"

	// Count units
	UnitPiece Unit = "un"
)

// IsValid reports whether the unit belongs to the supported set
func (u Unit) IsValid() bool {
	switch u {
	case UnitKilogram, UnitGram, UnitLiter, UnitMilliliter, UnitPiece:
		return true
	default:
		return false
	}
}

// Ingredient represents a stocked raw material ("insumo")
type Ingredient struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Unit         Unit            `json:"unit"`
	CostPerUnit  decimal.Decimal `json:"costPerUnit"`
	CurrentStock float64         `json:"currentStock"`
	MinStock     float64         `json:"minStock"`
	SupplierID   string          `json:"supplierId,omitempty"`
	LastUpdated  time.Time       `json:"lastUpdated"`
}

// IsLowStock reports whether the ingredient sits at or below its minimum
func (i Ingredient) IsLowStock() bool {
	return i.CurrentStock <= i.MinStock
}

// StockValue returns the current stock valued at the current unit cost
func (i Ingredient) StockValue() decimal.Decimal {
	return i.CostPerUnit.Mul(decimal.NewFromFloat(i.CurrentStock))
}

// ValidateIngredient validates an ingredient before it enters the catalog
func ValidateIngredient(ing *Ingredient) error {
	if ing.Name == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}
	if !ing.Unit.IsValid() {
		return &ValidationError{Field: "unit", Reason: "unsupported unit " + string(ing.Unit)}
	}
	if ing.CostPerUnit.IsNegative() {
		return &ValidationError{Field: "costPerUnit", Reason: "must not be negative"}
	}
	if !IsCount(ing.CurrentStock) {
		return &ValidationError{Field: "currentStock", Reason: "must be a non-negative number"}
	}
	if !IsCount(ing.MinStock) {
		return &ValidationError{Field: "minStock", Reason: "must be a non-negative number"}
	}
	return nil
}

// ClampStock keeps a stock level from going below zero
func ClampStock(v float64) float64 {
	return math.Max(0, v)
}

// IsQuantity reports whether q is usable as a movement or waste quantity
func IsQuantity(q float64) bool {
	return q > 0 && !math.IsInf(q, 0) && !math.IsNaN(q)
}

// IsCount reports whether q is usable as a physical count (zero allowed)
func IsCount(q float64) bool {
	return q >= 0 && !math.IsInf(q, 0) && !math.IsNaN(q)
}

// SnapshotEntry is one counted line of an inventory record
type SnapshotEntry struct {
	IngredientID string          `json:"ingredientId"`
	Quantity     float64         `json:"quantity"`
	Cost         decimal.Decimal `json:"cost"`
}

// InventoryRecord is the valued result of a finalized audit. Records are
// immutable once created and bound the periods of the CMV report.
type InventoryRecord struct {
	ID           string          `json:"id"`
	Date         time.Time       `json:"date"`
	TotalValue   decimal.Decimal `json:"totalValue"`
	ItemsCounted int             `json:"itemsCounted"`
	Snapshot     []SnapshotEntry `json:"snapshot"`
}

// Clone returns a deep copy of the record
func (r InventoryRecord) Clone() InventoryRecord {
	r.Snapshot = append([]SnapshotEntry(nil), r.Snapshot...)
	return r
}

// SortRecordsByDate sorts records oldest first
func SortRecordsByDate(records []InventoryRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})
}
