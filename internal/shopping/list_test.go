package shopping

import (
	"fmt"
	"testing"

	"cmvboard/internal/catalog"
	"cmvboard/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newList(t *testing.T) (*List, *catalog.Store) {
	t.Helper()
	store, err := catalog.NewStore(catalog.Seed{
		Suppliers: []models.Supplier{
			{ID: "s1", Name: "Hortifruti Fresco"},
			{ID: "s2", Name: "Casa de Carnes"},
		},
		Ingredients: []models.Ingredient{
			{ID: "onion", Name: "Cebola", Unit: models.UnitKilogram, CostPerUnit: decimal.NewFromInt(4), CurrentStock: 2, MinStock: 5, SupplierID: "s1"},
			{ID: "beef", Name: "Filé", Unit: models.UnitKilogram, CostPerUnit: decimal.NewFromInt(70), CurrentStock: 10, MinStock: 10, SupplierID: "s2"},
			{ID: "salt", Name: "Sal", Unit: models.UnitKilogram, CostPerUnit: decimal.NewFromInt(2), CurrentStock: 50, MinStock: 2},
			{ID: "oil", Name: "Azeite", Unit: models.UnitLiter, CostPerUnit: decimal.NewFromInt(45), CurrentStock: 0.5, MinStock: 0.5},
		},
	})
	require.NoError(t, err)

	l := NewList(store)
	seq := 0
	l.newID = func() string { seq++; return fmt.Sprintf("item-%d", seq) }
	return l, store
}

func TestSuggestedQuantity(t *testing.T) {
	assert.Equal(t, 8.0, SuggestedQuantity(models.Ingredient{CurrentStock: 2, MinStock: 5}))
	assert.Equal(t, 10.0, SuggestedQuantity(models.Ingredient{CurrentStock: 10, MinStock: 10}))
	assert.Equal(t, 1.0, SuggestedQuantity(models.Ingredient{CurrentStock: 0.5, MinStock: 0.5}), "never below one unit")
}

func TestPopulateFromLowStock(t *testing.T) {
	l, _ := newList(t)

	added := l.PopulateFromLowStock()
	require.Len(t, added, 3)
	assert.Equal(t, "onion", added[0].IngredientID)
	assert.Equal(t, 8.0, added[0].Quantity)
	assert.Equal(t, "s1", added[0].SupplierID)

	again := l.PopulateFromLowStock()
	assert.Empty(t, again, "already listed ingredients are not duplicated")
	assert.Len(t, l.Items(), 3)
}

func TestPopulateKeepsManualItems(t *testing.T) {
	l, _ := newList(t)

	manual, err := l.Add("onion", 3)
	require.NoError(t, err)

	added := l.PopulateFromLowStock()
	assert.Len(t, added, 2)

	items := l.Items()
	assert.Equal(t, manual, items[0])
	assert.Equal(t, 3.0, items[0].Quantity)
}

func TestAdd_Validation(t *testing.T) {
	l, _ := newList(t)

	_, err := l.Add("onion", 0)
	assert.ErrorIs(t, err, models.ErrInvalidQuantity)
	_, err = l.Add("ghost", 1)
	assert.ErrorIs(t, err, models.ErrUnknownIngredient)
	assert.Empty(t, l.Items())
}

func TestToggleRemoveClear(t *testing.T) {
	l, _ := newList(t)
	l.PopulateFromLowStock()

	it, err := l.Toggle("item-1")
	require.NoError(t, err)
	assert.True(t, it.Checked)

	it, err = l.Toggle("item-1")
	require.NoError(t, err)
	assert.False(t, it.Checked)

	_, err = l.Toggle("nope")
	assert.ErrorIs(t, err, ErrUnknownItem)

	require.NoError(t, l.Remove("item-2"))
	assert.ErrorIs(t, l.Remove("item-2"), ErrUnknownItem)

	_, _ = l.Toggle("item-3")
	assert.Equal(t, 1, l.ClearChecked())
	require.Len(t, l.Items(), 1)
	assert.Equal(t, "item-1", l.Items()[0].ID)
}

func TestByStatus(t *testing.T) {
	l, _ := newList(t)
	l.PopulateFromLowStock()
	_, _ = l.Toggle("item-2")

	groups := l.ByStatus()
	require.Len(t, groups, 2)
	assert.Equal(t, "pending", groups[0].Key)
	assert.Len(t, groups[0].Items, 2)
	assert.Equal(t, "bought", groups[1].Key)
	assert.Len(t, groups[1].Items, 1)
}

func TestBySupplier(t *testing.T) {
	l, _ := newList(t)
	l.PopulateFromLowStock()

	groups := l.BySupplier()
	require.Len(t, groups, 3)
	assert.Equal(t, "Casa de Carnes", groups[0].Label)
	assert.Equal(t, "Hortifruti Fresco", groups[1].Label)
	assert.Equal(t, models.UnassignedSupplier, groups[2].Key)
	assert.Equal(t, "oil", groups[2].Items[0].IngredientID)
}
