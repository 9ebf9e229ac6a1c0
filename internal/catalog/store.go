// Package catalog owns the canonical entity collections of the dashboard:
// ingredients, recipes, suppliers, stock movements, inventory records and
// waste logs.
package catalog

import (
	"fmt"
	"sync"
	"time"

	"cmvboard/internal/models"

	"github.com/shopspring/decimal"
)

// Store is the in-memory entity catalog. Reads return copies; writes go
// through the explicit mutation methods or through Update.
type Store struct {
	mu sync.RWMutex

	ingredients   []models.Ingredient
	ingredientIdx map[string]int
	recipes       []models.Recipe
	recipeIdx     map[string]int
	suppliers     []models.Supplier
	supplierIdx   map[string]int

	movements []models.StockMovement
	records   []models.InventoryRecord
	wasteLogs []models.WasteLog

	now func() time.Time
}

// Option configures a Store
type Option func(*Store)

// WithClock sets the time source used to stamp revisions and updates
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a catalog initialized from seed data
func NewStore(seed Seed, opts ...Option) (*Store, error) {
	s := &Store{
		ingredientIdx: make(map[string]int),
		recipeIdx:     make(map[string]int),
		supplierIdx:   make(map[string]int),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, sup := range seed.Suppliers {
		if err := s.addSupplier(sup); err != nil {
			return nil, fmt.Errorf("seeding supplier %q: %w", sup.ID, err)
		}
	}
	for _, ing := range seed.Ingredients {
		if err := s.addIngredient(ing); err != nil {
			return nil, fmt.Errorf("seeding ingredient %q: %w", ing.ID, err)
		}
	}
	for _, r := range seed.Recipes {
		if err := s.addRecipe(r); err != nil {
			return nil, fmt.Errorf("seeding recipe %q: %w", r.ID, err)
		}
	}

	return s, nil
}

// Now returns the store's notion of the current time
func (s *Store) Now() time.Time {
	return s.now()
}

// ============================================================================
// INGREDIENTS
// ============================================================================

// Ingredients returns all ingredients in insertion order
func (s *Store) Ingredients() []models.Ingredient {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Ingredient(nil), s.ingredients...)
}

// Ingredient returns one ingredient by id
func (s *Store) Ingredient(id string) (models.Ingredient, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.ingredientIdx[id]
	if !ok {
		return models.Ingredient{}, false
	}
	return s.ingredients[i], true
}

// AddIngredient appends a new ingredient
func (s *Store) AddIngredient(ing models.Ingredient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ing.LastUpdated.IsZero() {
		ing.LastUpdated = s.now()
	}
	return s.addIngredient(ing)
}

// ReplaceIngredient replaces the ingredient with the same id
func (s *Store) ReplaceIngredient(ing models.Ingredient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkIngredient(&ing); err != nil {
		return err
	}
	i, ok := s.ingredientIdx[ing.ID]
	if !ok {
		return fmt.Errorf("%w: %s", models.ErrUnknownIngredient, ing.ID)
	}
	ing.LastUpdated = s.now()
	s.ingredients[i] = ing
	return nil
}

// RemoveIngredient deletes an ingredient. Recipes, movements and waste logs
// keep their references and render them as removed items.
func (s *Store) RemoveIngredient(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.ingredientIdx[id]
	if !ok {
		return fmt.Errorf("%w: %s", models.ErrUnknownIngredient, id)
	}
	s.ingredients = append(s.ingredients[:i], s.ingredients[i+1:]...)
	s.ingredientIdx = make(map[string]int, len(s.ingredients))
	for j, ing := range s.ingredients {
		s.ingredientIdx[ing.ID] = j
	}
	return nil
}

// LowStock returns ingredients at or below their minimum stock
func (s *Store) LowStock() []models.Ingredient {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var low []models.Ingredient
	for _, ing := range s.ingredients {
		if ing.IsLowStock() {
			low = append(low, ing)
		}
	}
	return low
}

// StockValue returns the sum of current stock valued at current cost
func (s *Store) StockValue() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := decimal.Zero
	for _, ing := range s.ingredients {
		total = total.Add(ing.StockValue())
	}
	return total
}

func (s *Store) addIngredient(ing models.Ingredient) error {
	if err := s.checkIngredient(&ing); err != nil {
		return err
	}
	if _, exists := s.ingredientIdx[ing.ID]; exists {
		return fmt.Errorf("%w: ingredient %s", models.ErrDuplicateID, ing.ID)
	}
	s.ingredientIdx[ing.ID] = len(s.ingredients)
	s.ingredients = append(s.ingredients, ing)
	return nil
}

func (s *Store) checkIngredient(ing *models.Ingredient) error {
	if ing.ID == "" {
		return &models.ValidationError{Field: "id", Reason: "is required"}
	}
	if err := models.ValidateIngredient(ing); err != nil {
		return err
	}
	if ing.SupplierID != "" {
		if _, ok := s.supplierIdx[ing.SupplierID]; !ok {
			return fmt.Errorf("%w: %s", models.ErrUnknownSupplier, ing.SupplierID)
		}
	}
	return nil
}

// ============================================================================
// RECIPES
// ============================================================================

// Recipes returns all recipes in insertion order
func (s *Store) Recipes() []models.Recipe {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Recipe, len(s.recipes))
	for i, r := range s.recipes {
		out[i] = r.Clone()
	}
	return out
}

// Recipe returns one recipe by id
func (s *Store) Recipe(id string) (models.Recipe, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.recipeIdx[id]
	if !ok {
		return models.Recipe{}, false
	}
	return s.recipes[i].Clone(), true
}

// AddRecipe appends a new recipe
func (s *Store) AddRecipe(r models.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.LastRevision.IsZero() {
		r.LastRevision = s.now()
	}
	return s.addRecipe(r)
}

// ReplaceRecipe replaces a recipe wholesale and stamps its revision time
func (s *Store) ReplaceRecipe(r models.Recipe) (models.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.recipeIdx[r.ID]
	if !ok {
		return models.Recipe{}, fmt.Errorf("%w: %s", models.ErrUnknownRecipe, r.ID)
	}
	if err := models.ValidateRecipe(&r); err != nil {
		return models.Recipe{}, err
	}
	r = r.Clone()
	r.LastRevision = s.now()
	s.recipes[i] = r
	return r.Clone(), nil
}

func (s *Store) addRecipe(r models.Recipe) error {
	if r.ID == "" {
		return &models.ValidationError{Field: "id", Reason: "is required"}
	}
	if err := models.ValidateRecipe(&r); err != nil {
		return err
	}
	if _, exists := s.recipeIdx[r.ID]; exists {
		return fmt.Errorf("%w: recipe %s", models.ErrDuplicateID, r.ID)
	}
	s.recipeIdx[r.ID] = len(s.recipes)
	s.recipes = append(s.recipes, r.Clone())
	return nil
}

// ============================================================================
// SUPPLIERS
// ============================================================================

// Suppliers returns the supplier directory
func (s *Store) Suppliers() []models.Supplier {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Supplier(nil), s.suppliers...)
}

// Supplier returns one supplier by id
func (s *Store) Supplier(id string) (models.Supplier, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.supplierIdx[id]
	if !ok {
		return models.Supplier{}, false
	}
	return s.suppliers[i], true
}

// SupplierOf resolves the supplier of an ingredient. The second result is
// false for unassigned ingredients.
func (s *Store) SupplierOf(ing models.Ingredient) (models.Supplier, bool) {
	if ing.SupplierID == "" {
		return models.Supplier{}, false
	}
	return s.Supplier(ing.SupplierID)
}

// IngredientsBySupplier returns the ingredients supplied by one supplier
func (s *Store) IngredientsBySupplier(supplierID string) ([]models.Ingredient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.supplierIdx[supplierID]; !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrUnknownSupplier, supplierID)
	}
	out := []models.Ingredient{}
	for _, ing := range s.ingredients {
		if ing.SupplierID == supplierID {
			out = append(out, ing)
		}
	}
	return out, nil
}

func (s *Store) addSupplier(sup models.Supplier) error {
	if err := models.ValidateSupplier(&sup); err != nil {
		return err
	}
	if _, exists := s.supplierIdx[sup.ID]; exists {
		return fmt.Errorf("%w: supplier %s", models.ErrDuplicateID, sup.ID)
	}
	s.supplierIdx[sup.ID] = len(s.suppliers)
	s.suppliers = append(s.suppliers, sup)
	return nil
}

// ============================================================================
// LEDGERS
// ============================================================================

// Movements returns the movement ledger in insertion order. Insertion order
// does not imply date order.
func (s *Store) Movements() []models.StockMovement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.StockMovement(nil), s.movements...)
}

// InventoryRecords returns all finalized inventory records
func (s *Store) InventoryRecords() []models.InventoryRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.InventoryRecord, len(s.records))
	for i, r := range s.records {
		out[i] = r.Clone()
	}
	return out
}

// WasteLogs returns all waste logs
func (s *Store) WasteLogs() []models.WasteLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.WasteLog(nil), s.wasteLogs...)
}
