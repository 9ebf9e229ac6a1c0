package ledger

import (
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"cmvboard/internal/catalog"
	"cmvboard/internal/models"
	"cmvboard/internal/monitoring"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newLedger(t *testing.T, opts ...Option) (*Ledger, *catalog.Store) {
	t.Helper()
	store, err := catalog.NewStore(catalog.Seed{
		Ingredients: []models.Ingredient{
			{ID: "rice", Name: "Arroz", Unit: models.UnitKilogram, CostPerUnit: decimal.RequireFromString("5.50"), CurrentStock: 50, MinStock: 20},
			{ID: "beef", Name: "Filé Mignon", Unit: models.UnitKilogram, CostPerUnit: decimal.RequireFromString("70"), CurrentStock: 10, MinStock: 5},
		},
	}, catalog.WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	seq := 0
	opts = append([]Option{
		WithLogger(quietLogger()),
		WithIDGenerator(func() string { seq++; return fmt.Sprintf("id-%d", seq) }),
	}, opts...)
	return New(store, opts...), store
}

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestRecordMovement_InWithPrice(t *testing.T) {
	l, store := newLedger(t)

	mv, err := l.RecordMovement(MovementInput{
		IngredientID: "rice",
		Direction:    models.DirectionIn,
		Quantity:     10,
		UnitPrice:    price("6.00"),
		Description:  " Compra semanal ",
	})
	require.NoError(t, err)

	assert.Equal(t, "id-1", mv.ID)
	assert.True(t, mv.Value.Equal(decimal.NewFromInt(60)))
	assert.Equal(t, now, mv.Date, "zero date defaults to now")
	assert.Equal(t, "Compra semanal", mv.Description)

	rice, _ := store.Ingredient("rice")
	assert.Equal(t, 60.0, rice.CurrentStock)
	assert.True(t, rice.CostPerUnit.Equal(decimal.RequireFromString("6")), "last price wins")
	assert.Equal(t, now, rice.LastUpdated)
}

func TestRecordMovement_InWithoutPriceUsesCurrentCost(t *testing.T) {
	l, store := newLedger(t)

	for _, p := range []*decimal.Decimal{nil, price("0")} {
		mv, err := l.RecordMovement(MovementInput{IngredientID: "rice", Direction: models.DirectionIn, Quantity: 2, UnitPrice: p})
		require.NoError(t, err)
		assert.True(t, mv.Value.Equal(decimal.NewFromInt(11)), mv.Value.String())
	}

	rice, _ := store.Ingredient("rice")
	assert.True(t, rice.CostPerUnit.Equal(decimal.RequireFromString("5.50")))
	assert.Equal(t, 54.0, rice.CurrentStock)
}

func TestRecordMovement_OutCapturesCostBeforeUpdate(t *testing.T) {
	l, _ := newLedger(t)

	mv, err := l.RecordMovement(MovementInput{
		IngredientID: "beef",
		Direction:    models.DirectionOut,
		Quantity:     2,
		UnitPrice:    price("99"),
	})
	require.NoError(t, err)
	assert.True(t, mv.Value.Equal(decimal.NewFromInt(140)), "OUT ignores unit price")
}

func TestRecordMovement_OutClampsAtZero(t *testing.T) {
	l, store := newLedger(t)

	_, err := l.RecordMovement(MovementInput{IngredientID: "beef", Direction: models.DirectionOut, Quantity: 25})
	require.NoError(t, err)

	beef, _ := store.Ingredient("beef")
	assert.Equal(t, 0.0, beef.CurrentStock)
}

func TestRecordMovement_Rejections(t *testing.T) {
	tests := []struct {
		name string
		in   MovementInput
		want error
	}{
		{"zero quantity", MovementInput{IngredientID: "rice", Direction: models.DirectionIn, Quantity: 0}, models.ErrInvalidQuantity},
		{"negative quantity", MovementInput{IngredientID: "rice", Direction: models.DirectionOut, Quantity: -1}, models.ErrInvalidQuantity},
		{"bad direction", MovementInput{IngredientID: "rice", Direction: "SIDEWAYS", Quantity: 1}, models.ErrInvalidDirection},
		{"negative price", MovementInput{IngredientID: "rice", Direction: models.DirectionIn, Quantity: 1, UnitPrice: price("-1")}, models.ErrInvalidPrice},
		{"unknown ingredient", MovementInput{IngredientID: "ghost", Direction: models.DirectionIn, Quantity: 1}, models.ErrUnknownIngredient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, store := newLedger(t)
			_, err := l.RecordMovement(tt.in)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.Empty(t, store.Movements(), "rejected movements leave no trace")
			rice, _ := store.Ingredient("rice")
			assert.Equal(t, 50.0, rice.CurrentStock)
		})
	}
}

func TestRecordMovement_WeightedAverage(t *testing.T) {
	l, store := newLedger(t, WithPolicy(WeightedAverage{}))

	_, err := l.RecordMovement(MovementInput{IngredientID: "beef", Direction: models.DirectionIn, Quantity: 10, UnitPrice: price("80")})
	require.NoError(t, err)

	beef, _ := store.Ingredient("beef")
	assert.True(t, beef.CostPerUnit.Equal(decimal.NewFromInt(75)), beef.CostPerUnit.String())
	assert.Equal(t, PolicyWeightedAverage, l.Policy().Name())
}

func TestRecordMovement_Metrics(t *testing.T) {
	m := monitoring.NewMonitor()
	l, _ := newLedger(t, WithMonitor(m))

	_, err := l.RecordMovement(MovementInput{IngredientID: "rice", Direction: models.DirectionIn, Quantity: 1, UnitPrice: price("5")})
	require.NoError(t, err)

	n, err := testutil.GatherAndCount(m.Registry(), "cmvboard_stock_movements_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMovements_SortedByDate(t *testing.T) {
	l, _ := newLedger(t)

	dates := []time.Time{now.AddDate(0, 0, -1), now.AddDate(0, 0, -10), now.AddDate(0, 0, -5)}
	for _, d := range dates {
		_, err := l.RecordMovement(MovementInput{IngredientID: "rice", Direction: models.DirectionIn, Quantity: 1, Date: d})
		require.NoError(t, err)
	}
	_, err := l.RecordMovement(MovementInput{IngredientID: "beef", Direction: models.DirectionOut, Quantity: 1, Date: now.AddDate(0, 0, -7)})
	require.NoError(t, err)

	all := l.Movements()
	require.Len(t, all, 4)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].Date.Before(all[i-1].Date))
	}

	rice := l.MovementsFor("rice")
	require.Len(t, rice, 3)
	assert.Equal(t, dates[1], rice[0].Date)
}

func TestLogWaste(t *testing.T) {
	l, store := newLedger(t)

	w, err := l.LogWaste(WasteInput{IngredientID: "beef", Quantity: 0.5, Reason: models.WasteExpiration, Responsible: "Ana"})
	require.NoError(t, err)
	assert.True(t, w.Cost.Equal(decimal.NewFromInt(35)))
	assert.Equal(t, now, w.Date)

	beef, _ := store.Ingredient("beef")
	assert.Equal(t, 9.5, beef.CurrentStock)

	_, err = l.LogWaste(WasteInput{IngredientID: "beef", Quantity: 50, Reason: "Dropped on the floor"})
	require.NoError(t, err)
	beef, _ = store.Ingredient("beef")
	assert.Equal(t, 0.0, beef.CurrentStock)

	logs := l.WasteLogs()
	require.Len(t, logs, 2)
	assert.Equal(t, models.WasteReason("Dropped on the floor"), logs[0].Reason, "newest first")
	assert.True(t, TotalWasteCost(logs).Equal(decimal.NewFromInt(35+3500)))
}

func TestLogWaste_Rejections(t *testing.T) {
	l, store := newLedger(t)

	_, err := l.LogWaste(WasteInput{IngredientID: "beef", Quantity: 0})
	assert.True(t, errors.Is(err, models.ErrInvalidQuantity))

	_, err = l.LogWaste(WasteInput{IngredientID: "ghost", Quantity: 1})
	assert.True(t, errors.Is(err, models.ErrUnknownIngredient))

	assert.Empty(t, store.WasteLogs())
}

func TestPolicyByName(t *testing.T) {
	p, err := PolicyByName("")
	require.NoError(t, err)
	assert.Equal(t, PolicyLastPrice, p.Name())

	p, err = PolicyByName("weighted_average")
	require.NoError(t, err)
	assert.Equal(t, PolicyWeightedAverage, p.Name())

	_, err = PolicyByName("fifo")
	assert.Error(t, err)
}

func TestWeightedAverage_EmptyStock(t *testing.T) {
	got := WeightedAverage{}.NextCost(0, decimal.NewFromInt(10), 0, decimal.NewFromInt(12))
	assert.True(t, got.Equal(decimal.NewFromInt(12)))
}
