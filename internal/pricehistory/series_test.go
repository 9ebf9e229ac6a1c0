package pricehistory

import (
	"testing"
	"time"

	"cmvboard/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)

func purchase(id string, at time.Time, qty float64, value string) models.StockMovement {
	return models.StockMovement{
		IngredientID: id,
		Direction:    models.DirectionIn,
		Quantity:     qty,
		Value:        decimal.RequireFromString(value),
		Date:         at,
	}
}

func rice(cost string) models.Ingredient {
	return models.Ingredient{ID: "rice", Name: "Arroz", Unit: models.UnitKilogram, CostPerUnit: decimal.RequireFromString(cost)}
}

func TestSeries_NoPurchasesYieldsCurrentPoint(t *testing.T) {
	points := Collect(Series(rice("5.50"), nil, now))

	require.Len(t, points, 1)
	assert.True(t, points[0].Current)
	assert.Equal(t, CurrentLabel, points[0].Label)
	assert.Equal(t, now, points[0].Date)
	assert.True(t, points[0].UnitPrice.Equal(decimal.RequireFromString("5.5")))
}

func TestSeries_SortsAndFilters(t *testing.T) {
	movements := []models.StockMovement{
		purchase("rice", time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC), 10, "60"),
		purchase("rice", time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC), 4, "20"),
		purchase("rice", time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC), 1, "3"), // outside window
		purchase("beans", time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), 1, "9"),
		{IngredientID: "rice", Direction: models.DirectionOut, Quantity: 2, Value: decimal.NewFromInt(11), Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	}

	points := Collect(Series(rice("6"), movements, now))
	require.Len(t, points, 2, "last purchase matches live cost, no synthetic point")
	assert.Equal(t, "03/02", points[0].Label)
	assert.True(t, points[0].UnitPrice.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, "20/05", points[1].Label)
	assert.True(t, points[1].UnitPrice.Equal(decimal.NewFromInt(6)))
	assert.False(t, points[1].Current)
}

func TestSeries_AppendsCurrentWhenLastDiffers(t *testing.T) {
	movements := []models.StockMovement{purchase("rice", now.AddDate(0, -1, 0), 2, "10")}

	points := Collect(Series(rice("7"), movements, now))
	require.Len(t, points, 2)
	assert.True(t, points[1].Current)
	assert.True(t, points[1].UnitPrice.Equal(decimal.NewFromInt(7)))
}

func TestSeries_Restartable(t *testing.T) {
	movements := []models.StockMovement{purchase("rice", now.AddDate(0, 0, -3), 2, "10")}
	seq := Series(rice("9"), movements, now)

	first := Collect(seq)
	movements[0].Value = decimal.NewFromInt(1000)
	second := Collect(seq)

	assert.Equal(t, len(first), len(second))
	assert.True(t, second[0].UnitPrice.Equal(decimal.NewFromInt(5)), "series does not see later changes to the input")
}

func TestSeries_EarlyStop(t *testing.T) {
	movements := []models.StockMovement{
		purchase("rice", now.AddDate(0, 0, -3), 1, "1"),
		purchase("rice", now.AddDate(0, 0, -2), 1, "2"),
	}

	n := 0
	for range Series(rice("9"), movements, now) {
		n++
		break
	}
	assert.Equal(t, 1, n)
}

func TestSeries_WindowOption(t *testing.T) {
	movements := []models.StockMovement{purchase("rice", now.AddDate(0, -2, 0), 1, "4")}

	points := Collect(Series(rice("4"), movements, now, WithWindowMonths(1)))
	require.Len(t, points, 1)
	assert.True(t, points[0].Current)

	points = Collect(Series(rice("4"), movements, now, WithWindowMonths(0)))
	require.Len(t, points, 1)
	assert.False(t, points[0].Current)
}
