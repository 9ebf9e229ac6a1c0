// Package shopping keeps the purchase checklist built from low-stock alerts.
package shopping

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"cmvboard/internal/models"

	"github.com/google/uuid"
)

// ErrUnknownItem is returned for item ids not on the list
var ErrUnknownItem = errors.New("unknown shopping list item")

// Catalog is the part of the catalog store the list reads from
type Catalog interface {
	Ingredient(id string) (models.Ingredient, bool)
	LowStock() []models.Ingredient
	Supplier(id string) (models.Supplier, bool)
}

// Item is one line of the shopping list
type Item struct {
	ID           string      `json:"id"`
	IngredientID string      `json:"ingredientId"`
	Name         string      `json:"name"`
	Quantity     float64     `json:"quantity"`
	Unit         models.Unit `json:"unit"`
	Checked      bool        `json:"checked"`
	SupplierID   string      `json:"supplierId,omitempty"`
}

// Group is a labeled subset of the list
type Group struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Items []Item `json:"items"`
}

// SuggestedQuantity is what to buy to get back to twice the minimum, at least one unit
func SuggestedQuantity(ing models.Ingredient) float64 {
	return math.Max(1, ing.MinStock*2-ing.CurrentStock)
}

// List is a concurrency-safe shopping list
type List struct {
	mu      sync.Mutex
	catalog Catalog
	items   []Item
	newID   func() string
}

// NewList creates an empty list over catalog
func NewList(catalog Catalog) *List {
	return &List{
		catalog: catalog,
		items:   []Item{},
		newID:   uuid.NewString,
	}
}

// Items returns the list in insertion order
func (l *List) Items() []Item {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Item(nil), l.items...)
}

// Add puts an ingredient on the list
func (l *List) Add(ingredientID string, quantity float64) (Item, error) {
	if !models.IsQuantity(quantity) {
		return Item{}, fmt.Errorf("%w: %v", models.ErrInvalidQuantity, quantity)
	}
	ing, ok := l.catalog.Ingredient(ingredientID)
	if !ok {
		return Item{}, fmt.Errorf("%w: %s", models.ErrUnknownIngredient, ingredientID)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	item := l.itemFor(ing, quantity)
	l.items = append(l.items, item)
	return item, nil
}

// PopulateFromLowStock adds every low-stock ingredient not already listed
// and returns the items it added
func (l *List) PopulateFromLowStock() []Item {
	low := l.catalog.LowStock()

	l.mu.Lock()
	defer l.mu.Unlock()
	listed := make(map[string]bool, len(l.items))
	for _, it := range l.items {
		listed[it.IngredientID] = true
	}

	added := []Item{}
	for _, ing := range low {
		if listed[ing.ID] {
			continue
		}
		item := l.itemFor(ing, SuggestedQuantity(ing))
		l.items = append(l.items, item)
		added = append(added, item)
		listed[ing.ID] = true
	}
	return added
}

func (l *List) itemFor(ing models.Ingredient, quantity float64) Item {
	return Item{
		ID:           l.newID(),
		IngredientID: ing.ID,
		Name:         ing.Name,
		Quantity:     quantity,
		Unit:         ing.Unit,
		SupplierID:   ing.SupplierID,
	}
}

// Toggle flips the checked state of an item
func (l *List) Toggle(id string) (Item, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.items {
		if l.items[i].ID == id {
			l.items[i].Checked = !l.items[i].Checked
			return l.items[i], nil
		}
	}
	return Item{}, fmt.Errorf("%w: %s", ErrUnknownItem, id)
}

// Remove deletes an item
func (l *List) Remove(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.items {
		if l.items[i].ID == id {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownItem, id)
}

// ClearChecked drops every bought item and returns how many were removed
func (l *List) ClearChecked() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	kept := l.items[:0]
	for _, it := range l.items {
		if !it.Checked {
			kept = append(kept, it)
		}
	}
	removed := len(l.items) - len(kept)
	l.items = kept
	return removed
}

// ByStatus groups the list into pending and bought items
func (l *List) ByStatus() []Group {
	pending := Group{Key: "pending", Label: "Pending", Items: []Item{}}
	bought := Group{Key: "bought", Label: "Bought", Items: []Item{}}
	for _, it := range l.Items() {
		if it.Checked {
			bought.Items = append(bought.Items, it)
		} else {
			pending.Items = append(pending.Items, it)
		}
	}
	return []Group{pending, bought}
}

// BySupplier groups the list by supplier, sorted by supplier name, with
// unassigned items last
func (l *List) BySupplier() []Group {
	groups := make(map[string]*Group)
	var unassigned *Group
	for _, it := range l.Items() {
		sup, ok := l.lookupSupplier(it.SupplierID)
		if !ok {
			if unassigned == nil {
				unassigned = &Group{Key: models.UnassignedSupplier, Label: "Unassigned"}
			}
			unassigned.Items = append(unassigned.Items, it)
			continue
		}
		g, exists := groups[sup.ID]
		if !exists {
			g = &Group{Key: sup.ID, Label: sup.Name}
			groups[sup.ID] = g
		}
		g.Items = append(g.Items, it)
	}

	out := make([]Group, 0, len(groups)+1)
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	if unassigned != nil {
		out = append(out, *unassigned)
	}
	return out
}

func (l *List) lookupSupplier(id string) (models.Supplier, bool) {
	if id == "" {
		return models.Supplier{}, false
	}
	return l.catalog.Supplier(id)
}
