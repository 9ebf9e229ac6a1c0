package api

import (
	"context"
	"net/http"
	"time"

	"cmvboard/internal/cmv"
	"cmvboard/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ListInventoryRecords returns finalized inventory records, oldest first
func (a *DashboardAPI) ListInventoryRecords(c *gin.Context) {
	records := a.store.InventoryRecords()
	models.SortRecordsByDate(records)
	c.JSON(http.StatusOK, gin.H{"records": records, "count": len(records)})
}

// GetCMV computes the CMV between two inventory records. Without ?start=
// and ?end= the two most recent records are used.
func (a *DashboardAPI) GetCMV(c *gin.Context) {
	res, err := cmv.Report(
		a.store.InventoryRecords(),
		a.store.Movements(),
		a.store.WasteLogs(),
		c.Query("start"),
		c.Query("end"),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": res, "negative": res.IsNegative()})
}

// Summary is the headline view of the dashboard
type Summary struct {
	IngredientCount  int                 `json:"ingredientCount"`
	RecipeCount      int                 `json:"recipeCount"`
	LowStockCount    int                 `json:"lowStockCount"`
	Alerts           []models.Ingredient `json:"alerts"`
	StockValue       decimal.Decimal     `json:"stockValue"`
	WasteCost        decimal.Decimal     `json:"wasteCost"`
	LatestRecordDate *time.Time          `json:"latestRecordDate,omitempty"`
	AuditState       string              `json:"auditState"`
	AdvisoryEnabled  bool                `json:"advisoryEnabled"`
}

// GetDashboard returns the dashboard summary
func (a *DashboardAPI) GetDashboard(c *gin.Context) {
	low := a.store.LowStock()
	alerts := low
	if n := a.settings.LowStockAlerts; n > 0 && len(alerts) > n {
		alerts = alerts[:n]
	}
	if alerts == nil {
		alerts = []models.Ingredient{}
	}

	s := Summary{
		IngredientCount: len(a.store.Ingredients()),
		RecipeCount:     len(a.store.Recipes()),
		LowStockCount:   len(low),
		Alerts:          alerts,
		StockValue:      a.store.StockValue(),
		WasteCost:       decimal.Zero,
		AuditState:      string(a.audit.State()),
		AdvisoryEnabled: a.advisor.Configured(),
	}
	for _, w := range a.store.WasteLogs() {
		s.WasteCost = s.WasteCost.Add(w.Cost)
	}
	for _, r := range a.store.InventoryRecords() {
		if s.LatestRecordDate == nil || r.Date.After(*s.LatestRecordDate) {
			d := r.Date
			s.LatestRecordDate = &d
		}
	}
	c.JSON(http.StatusOK, s)
}

// advisoryContext bounds an advisory call by the configured timeout
func (a *DashboardAPI) advisoryContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if a.settings.AdvisoryTimeout > 0 {
		return context.WithTimeout(c.Request.Context(), a.settings.AdvisoryTimeout)
	}
	return context.WithCancel(c.Request.Context())
}
