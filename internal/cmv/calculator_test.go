package cmv

import (
	"testing"
	"time"

	"cmvboard/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func record(id string, at time.Time, value int64) models.InventoryRecord {
	return models.InventoryRecord{ID: id, Date: at, TotalValue: decimal.NewFromInt(value)}
}

func movement(dir models.Direction, at time.Time, value int64) models.StockMovement {
	return models.StockMovement{IngredientID: "x", Direction: dir, Quantity: 1, Value: decimal.NewFromInt(value), Date: at}
}

func TestCalculate_ReferenceExample(t *testing.T) {
	start := record("jan", date(2024, 1, 1), 1000)
	end := record("feb", date(2024, 2, 1), 800)
	movements := []models.StockMovement{movement(models.DirectionIn, date(2024, 1, 15), 500)}

	res, err := Calculate(start, end, movements)
	require.NoError(t, err)
	assert.True(t, res.CMV.Equal(decimal.NewFromInt(700)), res.CMV.String())
	assert.True(t, res.AvailableForSale.Equal(decimal.NewFromInt(1500)))
	assert.Equal(t, 1, res.PurchaseCount)
	assert.Equal(t, "jan", res.StartRecordID)
	assert.Equal(t, "feb", res.EndRecordID)
}

func TestPurchases_WindowBoundaries(t *testing.T) {
	from, to := date(2024, 1, 1), date(2024, 2, 1)
	movements := []models.StockMovement{
		movement(models.DirectionIn, from, 1),                   // on start: excluded
		movement(models.DirectionIn, from.Add(time.Second), 10), // just after start
		movement(models.DirectionIn, to, 100),                   // on end: included
		movement(models.DirectionIn, to.Add(time.Second), 1000), // after end
		movement(models.DirectionOut, date(2024, 1, 10), 5000),  // OUT never counts
	}

	total, count := Purchases(movements, from, to)
	assert.True(t, total.Equal(decimal.NewFromInt(110)))
	assert.Equal(t, 2, count)
}

func TestCalculate_InvalidPeriod(t *testing.T) {
	a := record("a", date(2024, 2, 1), 100)
	b := record("b", date(2024, 1, 1), 100)

	_, err := Calculate(a, b, nil)
	assert.ErrorIs(t, err, models.ErrInsufficientPeriodData)
	assert.ErrorIs(t, err, models.ErrInvalidPeriod)

	_, err = Calculate(a, a, nil)
	assert.ErrorIs(t, err, models.ErrInsufficientPeriodData, "equal dates are not a period")
}

func TestCalculate_NegativeNotClamped(t *testing.T) {
	start := record("a", date(2024, 1, 1), 100)
	end := record("b", date(2024, 2, 1), 900)

	res, err := Calculate(start, end, nil)
	require.NoError(t, err)
	assert.True(t, res.CMV.Equal(decimal.NewFromInt(-800)))
	assert.True(t, res.IsNegative())
}

func TestDefaultPeriod(t *testing.T) {
	_, _, err := DefaultPeriod(nil)
	assert.ErrorIs(t, err, models.ErrInsufficientPeriodData)
	_, _, err = DefaultPeriod([]models.InventoryRecord{record("only", date(2024, 1, 1), 1)})
	assert.ErrorIs(t, err, models.ErrInsufficientPeriodData)

	records := []models.InventoryRecord{
		record("mar", date(2024, 3, 1), 3),
		record("jan", date(2024, 1, 1), 1),
		record("feb", date(2024, 2, 1), 2),
	}
	start, end, err := DefaultPeriod(records)
	require.NoError(t, err)
	assert.Equal(t, "feb", start.ID)
	assert.Equal(t, "mar", end.ID)
	assert.Equal(t, "mar", records[0].ID, "input is not reordered")
}

func TestPeriod_ExplicitSelection(t *testing.T) {
	records := []models.InventoryRecord{
		record("jan", date(2024, 1, 1), 1),
		record("feb", date(2024, 2, 1), 2),
		record("mar", date(2024, 3, 1), 3),
	}

	start, end, err := Period(records, "jan", "mar")
	require.NoError(t, err)
	assert.Equal(t, "jan", start.ID)
	assert.Equal(t, "mar", end.ID)

	start, end, err = Period(records, "jan", "")
	require.NoError(t, err)
	assert.Equal(t, "jan", start.ID)
	assert.Equal(t, "mar", end.ID)

	_, _, err = Period(records, "dec", "")
	assert.ErrorIs(t, err, models.ErrUnknownRecord)
}

func TestReport(t *testing.T) {
	records := []models.InventoryRecord{
		record("jan", date(2024, 1, 1), 1000),
		record("feb", date(2024, 2, 1), 800),
	}
	movements := []models.StockMovement{movement(models.DirectionIn, date(2024, 1, 15), 500)}
	waste := []models.WasteLog{
		{Cost: decimal.NewFromInt(20), Date: date(2024, 1, 20)},
		{Cost: decimal.NewFromInt(99), Date: date(2023, 12, 31)},
	}

	res, err := Report(records, movements, waste, "", "")
	require.NoError(t, err)
	assert.True(t, res.CMV.Equal(decimal.NewFromInt(700)))
	assert.True(t, res.Waste.Equal(decimal.NewFromInt(20)))

	_, err = Report(records, movements, waste, "feb", "jan")
	assert.ErrorIs(t, err, models.ErrInsufficientPeriodData)

	_, err = Report(records[:1], movements, waste, "", "")
	assert.ErrorIs(t, err, models.ErrInsufficientPeriodData)
}
