package catalog

import (
	"fmt"
	"time"

	"cmvboard/internal/models"
)

// Tx stages changes made inside Update. Nothing becomes visible to readers
// until the update function returns without error.
type Tx struct {
	s *Store

	ingredients map[string]models.Ingredient
	movements   []models.StockMovement
	records     []models.InventoryRecord
	wasteLogs   []models.WasteLog
}

// Update runs fn under the catalog write lock and commits its staged
// changes if fn succeeds. Read-then-write operations on ingredients
// (movements, waste, audit finalize) must go through Update.
func (s *Store) Update(fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Tx{
		s:           s,
		ingredients: make(map[string]models.Ingredient),
	}
	if err := fn(tx); err != nil {
		return err
	}
	tx.commit()
	return nil
}

// Ingredient returns an ingredient as seen by this transaction
func (tx *Tx) Ingredient(id string) (models.Ingredient, bool) {
	if ing, ok := tx.ingredients[id]; ok {
		return ing, true
	}
	i, ok := tx.s.ingredientIdx[id]
	if !ok {
		return models.Ingredient{}, false
	}
	return tx.s.ingredients[i], true
}

// Ingredients returns all ingredients as seen by this transaction, in catalog order
func (tx *Tx) Ingredients() []models.Ingredient {
	out := make([]models.Ingredient, len(tx.s.ingredients))
	for i, ing := range tx.s.ingredients {
		if staged, ok := tx.ingredients[ing.ID]; ok {
			ing = staged
		}
		out[i] = ing
	}
	return out
}

// PutIngredient stages a replacement for an existing ingredient
func (tx *Tx) PutIngredient(ing models.Ingredient) error {
	if _, ok := tx.s.ingredientIdx[ing.ID]; !ok {
		return fmt.Errorf("%w: %s", models.ErrUnknownIngredient, ing.ID)
	}
	tx.ingredients[ing.ID] = ing
	return nil
}

// AppendMovement stages a ledger entry
func (tx *Tx) AppendMovement(m models.StockMovement) {
	tx.movements = append(tx.movements, m)
}

// AppendWasteLog stages a waste log
func (tx *Tx) AppendWasteLog(w models.WasteLog) {
	tx.wasteLogs = append(tx.wasteLogs, w)
}

// AppendInventoryRecord stages an inventory record
func (tx *Tx) AppendInventoryRecord(r models.InventoryRecord) {
	tx.records = append(tx.records, r.Clone())
}

// Now returns the store clock
func (tx *Tx) Now() time.Time {
	return tx.s.now()
}

func (tx *Tx) commit() {
	for id, ing := range tx.ingredients {
		tx.s.ingredients[tx.s.ingredientIdx[id]] = ing
	}
	tx.s.movements = append(tx.s.movements, tx.movements...)
	tx.s.wasteLogs = append(tx.s.wasteLogs, tx.wasteLogs...)
	tx.s.records = append(tx.s.records, tx.records...)
}
