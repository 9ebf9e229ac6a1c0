// Package ledger records stock movements and waste against the catalog.
//
// Each write is a single catalog transaction: the ingredient is read, the
// entry is valued at the cost the ingredient carried before the write, and
// the new stock level (clamped at zero) is committed together with the
// immutable ledger entry.
package ledger

import (
	"fmt"
	"strings"
	"time"

	"cmvboard/internal/catalog"
	"cmvboard/internal/models"
	"cmvboard/internal/monitoring"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Ledger appends movements and waste logs to a catalog store
type Ledger struct {
	store   *catalog.Store
	policy  CostingPolicy
	log     logrus.FieldLogger
	monitor *monitoring.Monitor
	newID   func() string
}

// Option configures a Ledger
type Option func(*Ledger)

// WithPolicy sets the purchase costing policy
func WithPolicy(p CostingPolicy) Option {
	return func(l *Ledger) {
		if p != nil {
			l.policy = p
		}
	}
}

// WithLogger sets the logger
func WithLogger(log logrus.FieldLogger) Option {
	return func(l *Ledger) {
		l.log = log
	}
}

// WithMonitor sets the metrics sink
func WithMonitor(m *monitoring.Monitor) Option {
	return func(l *Ledger) {
		l.monitor = m
	}
}

// WithIDGenerator replaces the uuid generator
func WithIDGenerator(fn func() string) Option {
	return func(l *Ledger) {
		l.newID = fn
	}
}

// New creates a ledger over store
func New(store *catalog.Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:  store,
		policy: LastPriceWins{},
		log:    logrus.StandardLogger(),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Policy returns the active costing policy
func (l *Ledger) Policy() CostingPolicy {
	return l.policy
}

// MovementInput describes a movement to record. A zero Date means now.
// UnitPrice is only meaningful for IN movements; nil or zero means "not
// supplied" and the movement is valued at the current unit cost.
type MovementInput struct {
	IngredientID string           `json:"ingredientId" binding:"required"`
	Direction    models.Direction `json:"type" binding:"required"`
	Quantity     float64          `json:"quantity"`
	Date         time.Time        `json:"date"`
	UnitPrice    *decimal.Decimal `json:"unitPrice,omitempty"`
	Description  string           `json:"description"`
}

// RecordMovement appends a movement and applies it to the ingredient's stock
func (l *Ledger) RecordMovement(in MovementInput) (models.StockMovement, error) {
	if !in.Direction.IsValid() {
		return models.StockMovement{}, fmt.Errorf("%w: %q", models.ErrInvalidDirection, in.Direction)
	}
	if !models.IsQuantity(in.Quantity) {
		return models.StockMovement{}, fmt.Errorf("%w: %v", models.ErrInvalidQuantity, in.Quantity)
	}
	if in.UnitPrice != nil && in.UnitPrice.IsNegative() {
		return models.StockMovement{}, fmt.Errorf("%w: %s", models.ErrInvalidPrice, in.UnitPrice)
	}

	var mv models.StockMovement
	err := l.store.Update(func(tx *catalog.Tx) error {
		ing, ok := tx.Ingredient(in.IngredientID)
		if !ok {
			return fmt.Errorf("%w: %s", models.ErrUnknownIngredient, in.IngredientID)
		}

		now := tx.Now()
		qty := decimal.NewFromFloat(in.Quantity)
		costBefore := ing.CostPerUnit
		stockBefore := ing.CurrentStock

		mv = models.StockMovement{
			ID:           l.newID(),
			IngredientID: ing.ID,
			Direction:    in.Direction,
			Quantity:     in.Quantity,
			Value:        costBefore.Mul(qty),
			Date:         in.Date,
			Description:  strings.TrimSpace(in.Description),
		}
		if mv.Date.IsZero() {
			mv.Date = now
		}

		if in.Direction == models.DirectionIn {
			if in.UnitPrice != nil && in.UnitPrice.IsPositive() {
				mv.Value = in.UnitPrice.Mul(qty)
				ing.CostPerUnit = l.policy.NextCost(stockBefore, costBefore, in.Quantity, *in.UnitPrice)
			}
			ing.CurrentStock = models.ClampStock(stockBefore + in.Quantity)
		} else {
			ing.CurrentStock = models.ClampStock(stockBefore - in.Quantity)
		}
		ing.LastUpdated = now

		if err := tx.PutIngredient(ing); err != nil {
			return err
		}
		tx.AppendMovement(mv)
		return nil
	})
	if err != nil {
		return models.StockMovement{}, err
	}

	l.log.WithFields(logrus.Fields{
		"movement_id":   mv.ID,
		"ingredient_id": mv.IngredientID,
		"direction":     mv.Direction,
		"quantity":      mv.Quantity,
		"value":         mv.Value.StringFixed(2),
	}).Info("stock movement recorded")
	l.monitor.RecordMovement(string(mv.Direction), mv.Value.InexactFloat64())

	return mv, nil
}

// WasteInput describes stock lost to waste. A zero Date means now.
type WasteInput struct {
	IngredientID string             `json:"ingredientId" binding:"required"`
	Quantity     float64            `json:"quantity"`
	Reason       models.WasteReason `json:"reason"`
	Responsible  string             `json:"responsible"`
	Date         time.Time          `json:"date"`
}

// LogWaste values the loss at the current unit cost and removes it from stock
func (l *Ledger) LogWaste(in WasteInput) (models.WasteLog, error) {
	if !models.IsQuantity(in.Quantity) {
		return models.WasteLog{}, fmt.Errorf("%w: %v", models.ErrInvalidQuantity, in.Quantity)
	}

	var w models.WasteLog
	err := l.store.Update(func(tx *catalog.Tx) error {
		ing, ok := tx.Ingredient(in.IngredientID)
		if !ok {
			return fmt.Errorf("%w: %s", models.ErrUnknownIngredient, in.IngredientID)
		}

		now := tx.Now()
		w = models.WasteLog{
			ID:           l.newID(),
			IngredientID: ing.ID,
			Quantity:     in.Quantity,
			Cost:         ing.CostPerUnit.Mul(decimal.NewFromFloat(in.Quantity)),
			Reason:       models.WasteReason(strings.TrimSpace(string(in.Reason))),
			Responsible:  strings.TrimSpace(in.Responsible),
			Date:         in.Date,
		}
		if w.Date.IsZero() {
			w.Date = now
		}

		ing.CurrentStock = models.ClampStock(ing.CurrentStock - in.Quantity)
		ing.LastUpdated = now
		if err := tx.PutIngredient(ing); err != nil {
			return err
		}
		tx.AppendWasteLog(w)
		return nil
	})
	if err != nil {
		return models.WasteLog{}, err
	}

	l.log.WithFields(logrus.Fields{
		"waste_id":      w.ID,
		"ingredient_id": w.IngredientID,
		"quantity":      w.Quantity,
		"cost":          w.Cost.StringFixed(2),
		"reason":        w.Reason,
	}).Info("waste logged")
	l.monitor.RecordWaste(w.Cost.InexactFloat64())

	return w, nil
}

// Movements returns the ledger sorted oldest first
func (l *Ledger) Movements() []models.StockMovement {
	out := l.store.Movements()
	models.SortMovementsByDate(out)
	return out
}

// MovementsFor returns the movements of one ingredient, oldest first
func (l *Ledger) MovementsFor(ingredientID string) []models.StockMovement {
	var out []models.StockMovement
	for _, m := range l.Movements() {
		if m.IngredientID == ingredientID {
			out = append(out, m)
		}
	}
	return out
}

// WasteLogs returns all waste logs, newest first
func (l *Ledger) WasteLogs() []models.WasteLog {
	logs := l.store.WasteLogs()
	for i, j := 0, len(logs)-1; i < j; i, j = i+1, j-1 {
		logs[i], logs[j] = logs[j], logs[i]
	}
	return logs
}

// TotalWasteCost sums the cost of the given waste logs
func TotalWasteCost(logs []models.WasteLog) decimal.Decimal {
	total := decimal.Zero
	for _, w := range logs {
		total = total.Add(w.Cost)
	}
	return total
}
