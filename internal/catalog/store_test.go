package catalog

import (
	"errors"
	"testing"
	"time"

	"cmvboard/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(DefaultSeed(), WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	return s
}

func TestNewStore_DefaultSeed(t *testing.T) {
	s := newTestStore(t)

	assert.Len(t, s.Ingredients(), 8)
	assert.Len(t, s.Recipes(), 2)
	assert.Len(t, s.Suppliers(), 3)
	assert.Empty(t, s.Movements())
	assert.Empty(t, s.InventoryRecords())
	assert.Empty(t, s.WasteLogs())
}

func TestNewStore_RejectsUnknownSupplier(t *testing.T) {
	seed := DefaultSeed()
	seed.Ingredients[0].SupplierID = "99"

	_, err := NewStore(seed)
	assert.True(t, errors.Is(err, models.ErrUnknownSupplier))
}

func TestNewStore_RejectsDuplicateIngredient(t *testing.T) {
	seed := DefaultSeed()
	seed.Ingredients = append(seed.Ingredients, seed.Ingredients[0])

	_, err := NewStore(seed)
	assert.True(t, errors.Is(err, models.ErrDuplicateID))
}

func TestSupplierOf(t *testing.T) {
	s := newTestStore(t)

	mignon, ok := s.Ingredient("3")
	require.True(t, ok)
	sup, ok := s.SupplierOf(mignon)
	require.True(t, ok)
	assert.Equal(t, "Casa de Carnes Premium", sup.Name)

	oil, ok := s.Ingredient("6")
	require.True(t, ok)
	_, ok = s.SupplierOf(oil)
	assert.False(t, ok, "olive oil has no supplier record")
}

func TestIngredientsBySupplier(t *testing.T) {
	s := newTestStore(t)

	produce, err := s.IngredientsBySupplier("3")
	require.NoError(t, err)
	names := make([]string, 0, len(produce))
	for _, ing := range produce {
		names = append(names, ing.Name)
	}
	assert.Equal(t, []string{"Cebola", "Alho", "Batata Inglesa"}, names)

	_, err = s.IngredientsBySupplier("missing")
	assert.True(t, errors.Is(err, models.ErrUnknownSupplier))
}

func TestReplaceRecipe_StampsRevision(t *testing.T) {
	s := newTestStore(t)

	r, ok := s.Recipe("2")
	require.True(t, ok)
	r.SalePrice = decimal.NewFromInt(15)
	r.Ingredients = r.Ingredients[:1]

	saved, err := s.ReplaceRecipe(r)
	require.NoError(t, err)
	assert.Equal(t, fixedNow, saved.LastRevision)

	got, _ := s.Recipe("2")
	assert.Len(t, got.Ingredients, 1)
	assert.True(t, got.SalePrice.Equal(decimal.NewFromInt(15)))

	_, err = s.ReplaceRecipe(models.Recipe{ID: "nope", Name: "x"})
	assert.True(t, errors.Is(err, models.ErrUnknownRecipe))
}

func TestRecipe_ReturnsCopy(t *testing.T) {
	s := newTestStore(t)

	r, _ := s.Recipe("1")
	r.Ingredients[0].Quantity = 99

	again, _ := s.Recipe("1")
	assert.Equal(t, 0.2, again.Ingredients[0].Quantity)
}

func TestRemoveIngredient_ReindexesCatalog(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.RemoveIngredient("4"))
	_, ok := s.Ingredient("4")
	assert.False(t, ok)

	garlic, ok := s.Ingredient("5")
	require.True(t, ok)
	assert.Equal(t, "Alho", garlic.Name)
	assert.Len(t, s.Ingredients(), 7)

	assert.True(t, errors.Is(s.RemoveIngredient("4"), models.ErrUnknownIngredient))
}

func TestLowStockAndStockValue(t *testing.T) {
	s, err := NewStore(Seed{
		Ingredients: []models.Ingredient{
			{ID: "a", Name: "A", Unit: models.UnitKilogram, CostPerUnit: decimal.NewFromInt(10), CurrentStock: 2, MinStock: 5},
			{ID: "b", Name: "B", Unit: models.UnitLiter, CostPerUnit: decimal.NewFromInt(3), CurrentStock: 10, MinStock: 1},
		},
	})
	require.NoError(t, err)

	low := s.LowStock()
	require.Len(t, low, 1)
	assert.Equal(t, "a", low[0].ID)
	assert.True(t, s.StockValue().Equal(decimal.NewFromInt(50)))
}

func TestUpdate_CommitsOnSuccess(t *testing.T) {
	s := newTestStore(t)

	err := s.Update(func(tx *Tx) error {
		ing, ok := tx.Ingredient("1")
		require.True(t, ok)
		ing.CurrentStock = 7
		require.NoError(t, tx.PutIngredient(ing))

		staged, _ := tx.Ingredient("1")
		assert.Equal(t, 7.0, staged.CurrentStock, "transaction sees its own writes")

		tx.AppendMovement(models.StockMovement{ID: "m1", IngredientID: "1"})
		return nil
	})
	require.NoError(t, err)

	ing, _ := s.Ingredient("1")
	assert.Equal(t, 7.0, ing.CurrentStock)
	assert.Len(t, s.Movements(), 1)
}

func TestUpdate_DiscardsOnError(t *testing.T) {
	s := newTestStore(t)
	boom := errors.New("boom")

	err := s.Update(func(tx *Tx) error {
		ing, _ := tx.Ingredient("1")
		ing.CurrentStock = 0
		_ = tx.PutIngredient(ing)
		tx.AppendWasteLog(models.WasteLog{ID: "w1"})
		return boom
	})
	assert.Equal(t, boom, err)

	ing, _ := s.Ingredient("1")
	assert.Equal(t, 50.0, ing.CurrentStock)
	assert.Empty(t, s.WasteLogs())
}

func TestPutIngredient_Unknown(t *testing.T) {
	s := newTestStore(t)

	err := s.Update(func(tx *Tx) error {
		return tx.PutIngredient(models.Ingredient{ID: "ghost"})
	})
	assert.True(t, errors.Is(err, models.ErrUnknownIngredient))
}
