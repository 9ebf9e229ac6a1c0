package api

import (
	"net/http"

	"cmvboard/internal/ledger"
	"cmvboard/internal/models"

	"github.com/gin-gonic/gin"
)

// MovementView is a ledger entry with the ingredient it refers to resolved.
// Removed is set when the ingredient is no longer in the catalog.
type MovementView struct {
	models.StockMovement
	IngredientName string      `json:"ingredientName"`
	Unit           models.Unit `json:"unit,omitempty"`
	Removed        bool        `json:"removed"`
}

// WasteView is a waste log with its ingredient resolved
type WasteView struct {
	models.WasteLog
	IngredientName string      `json:"ingredientName"`
	Unit           models.Unit `json:"unit,omitempty"`
	Removed        bool        `json:"removed"`
}

// removedLabel names ingredients that were deleted from the catalog
const removedLabel = "Removed item"

func (a *DashboardAPI) resolve(id string) (name string, unit models.Unit, removed bool) {
	ing, ok := a.store.Ingredient(id)
	if !ok {
		return removedLabel, "", true
	}
	return ing.Name, ing.Unit, false
}

func (a *DashboardAPI) movementView(m models.StockMovement) MovementView {
	v := MovementView{StockMovement: m}
	v.IngredientName, v.Unit, v.Removed = a.resolve(m.IngredientID)
	return v
}

func (a *DashboardAPI) wasteView(w models.WasteLog) WasteView {
	v := WasteView{WasteLog: w}
	v.IngredientName, v.Unit, v.Removed = a.resolve(w.IngredientID)
	return v
}

// ListMovements returns the movement ledger sorted by date, optionally
// filtered with ?ingredientId=
func (a *DashboardAPI) ListMovements(c *gin.Context) {
	movements := a.ledger.Movements()
	if id := c.Query("ingredientId"); id != "" {
		movements = a.ledger.MovementsFor(id)
	}

	views := make([]MovementView, 0, len(movements))
	for _, m := range movements {
		views = append(views, a.movementView(m))
	}
	c.JSON(http.StatusOK, gin.H{"movements": views, "count": len(views)})
}

// RecordMovement appends an IN or OUT movement
func (a *DashboardAPI) RecordMovement(c *gin.Context) {
	var in ledger.MovementInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	mv, err := a.ledger.RecordMovement(in)
	if err != nil {
		respondError(c, err)
		return
	}
	view := a.movementView(mv)
	a.events.Publish(EventMovementRecorded, view)
	c.JSON(http.StatusCreated, view)
}

// ListWaste returns waste logs, newest first, with their total cost
func (a *DashboardAPI) ListWaste(c *gin.Context) {
	logs := a.ledger.WasteLogs()
	views := make([]WasteView, 0, len(logs))
	for _, w := range logs {
		views = append(views, a.wasteView(w))
	}
	c.JSON(http.StatusOK, gin.H{
		"waste":     views,
		"count":     len(views),
		"totalCost": ledger.TotalWasteCost(logs),
	})
}

// LogWaste records stock lost to waste
func (a *DashboardAPI) LogWaste(c *gin.Context) {
	var in ledger.WasteInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	w, err := a.ledger.LogWaste(in)
	if err != nil {
		respondError(c, err)
		return
	}
	view := a.wasteView(w)
	a.events.Publish(EventWasteLogged, view)
	c.JSON(http.StatusCreated, view)
}
