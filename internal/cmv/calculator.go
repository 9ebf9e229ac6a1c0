// Package cmv computes cost of goods sold (Custo da Mercadoria Vendida) for
// the period bounded by two inventory records.
package cmv

import (
	"fmt"
	"time"

	"cmvboard/internal/models"

	"github.com/shopspring/decimal"
)

// Result is the CMV of one period. CMV may be negative when purchases were
// misrecorded; it is reported as computed.
type Result struct {
	StartRecordID    string          `json:"startRecordId"`
	EndRecordID      string          `json:"endRecordId"`
	StartDate        time.Time       `json:"startDate"`
	EndDate          time.Time       `json:"endDate"`
	OpeningValue     decimal.Decimal `json:"openingValue"`
	Purchases        decimal.Decimal `json:"purchases"`
	PurchaseCount    int             `json:"purchaseCount"`
	AvailableForSale decimal.Decimal `json:"availableForSale"`
	ClosingValue     decimal.Decimal `json:"closingValue"`
	CMV              decimal.Decimal `json:"cmv"`
	// Waste is informational only; it is already part of CMV through the
	// closing count.
	Waste            decimal.Decimal `json:"waste"`
}

// IsNegative reports a negative CMV, usually a sign of bad purchase data
func (r Result) IsNegative() bool {
	return r.CMV.IsNegative()
}

// Calculate computes CMV = opening + purchases − closing
func Calculate(start, end models.InventoryRecord, movements []models.StockMovement) (Result, error) {
	if !start.Date.Before(end.Date) {
		return Result{}, fmt.Errorf("%w: %s is not before %s", models.ErrInvalidPeriod,
			start.Date.Format(time.RFC3339), end.Date.Format(time.RFC3339))
	}

	purchases, count := Purchases(movements, start.Date, end.Date)
	available := start.TotalValue.Add(purchases)
	return Result{
		StartRecordID:    start.ID,
		EndRecordID:      end.ID,
		StartDate:        start.Date,
		EndDate:          end.Date,
		OpeningValue:     start.TotalValue,
		Purchases:        purchases,
		PurchaseCount:    count,
		AvailableForSale: available,
		ClosingValue:     end.TotalValue,
		CMV:              available.Sub(end.TotalValue),
		Waste:            decimal.Zero,
	}, nil
}

// Purchases sums IN movement values dated strictly after from and on or
// before to
func Purchases(movements []models.StockMovement, from, to time.Time) (decimal.Decimal, int) {
	total := decimal.Zero
	count := 0
	for _, m := range movements {
		if m.Direction != models.DirectionIn {
			continue
		}
		if m.Date.After(from) && !m.Date.After(to) {
			total = total.Add(m.Value)
			count++
		}
	}
	return total, count
}

// WasteBetween sums waste cost dated strictly after from and on or before to
func WasteBetween(logs []models.WasteLog, from, to time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, w := range logs {
		if w.Date.After(from) && !w.Date.After(to) {
			total = total.Add(w.Cost)
		}
	}
	return total
}

// DefaultPeriod picks the two most recent records as start and end
func DefaultPeriod(records []models.InventoryRecord) (start, end models.InventoryRecord, err error) {
	if len(records) < 2 {
		return start, end, fmt.Errorf("%w: need two inventory records, have %d", models.ErrInsufficientPeriodData, len(records))
	}
	sorted := append([]models.InventoryRecord(nil), records...)
	models.SortRecordsByDate(sorted)
	return sorted[len(sorted)-2], sorted[len(sorted)-1], nil
}

// Period selects the records bounding a report. Empty ids fall back to the
// default period.
func Period(records []models.InventoryRecord, startID, endID string) (start, end models.InventoryRecord, err error) {
	if len(records) < 2 {
		return start, end, fmt.Errorf("%w: need two inventory records, have %d", models.ErrInsufficientPeriodData, len(records))
	}
	if startID == "" && endID == "" {
		return DefaultPeriod(records)
	}

	defStart, defEnd, _ := DefaultPeriod(records)
	start, end = defStart, defEnd
	if startID != "" {
		if start, err = find(records, startID); err != nil {
			return start, end, err
		}
	}
	if endID != "" {
		if end, err = find(records, endID); err != nil {
			return start, end, err
		}
	}
	return start, end, nil
}

func find(records []models.InventoryRecord, id string) (models.InventoryRecord, error) {
	for _, r := range records {
		if r.ID == id {
			return r, nil
		}
	}
	return models.InventoryRecord{}, fmt.Errorf("%w: %s", models.ErrUnknownRecord, id)
}

// Report selects the period and computes its CMV, including the waste
// logged inside it
func Report(records []models.InventoryRecord, movements []models.StockMovement, waste []models.WasteLog, startID, endID string) (Result, error) {
	start, end, err := Period(records, startID, endID)
	if err != nil {
		return Result{}, err
	}
	res, err := Calculate(start, end, movements)
	if err != nil {
		return Result{}, err
	}
	res.Waste = WasteBetween(waste, start.Date, end.Date)
	return res, nil
}
