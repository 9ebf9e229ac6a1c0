package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetShoppingList returns the list. ?view=status groups by pending/bought,
// ?view=supplier groups by supplier.
func (a *DashboardAPI) GetShoppingList(c *gin.Context) {
	switch view := c.DefaultQuery("view", "list"); view {
	case "list":
		c.JSON(http.StatusOK, gin.H{"view": view, "items": a.shopping.Items()})
	case "status":
		c.JSON(http.StatusOK, gin.H{"view": view, "groups": a.shopping.ByStatus()})
	case "supplier":
		c.JSON(http.StatusOK, gin.H{"view": view, "groups": a.shopping.BySupplier()})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown view " + view})
	}
}

// ShoppingItemRequest adds an ingredient to the list
type ShoppingItemRequest struct {
	IngredientID string  `json:"ingredientId" binding:"required"`
	Quantity     float64 `json:"quantity"`
}

// AddShoppingItem puts an ingredient on the list
func (a *DashboardAPI) AddShoppingItem(c *gin.Context) {
	var req ShoppingItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	item, err := a.shopping.Add(req.IngredientID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// PopulateShoppingList adds every low-stock ingredient not yet listed
func (a *DashboardAPI) PopulateShoppingList(c *gin.Context) {
	added := a.shopping.PopulateFromLowStock()
	c.JSON(http.StatusOK, gin.H{"added": added, "count": len(added)})
}

// ToggleShoppingItem flips an item between pending and bought
func (a *DashboardAPI) ToggleShoppingItem(c *gin.Context) {
	item, err := a.shopping.Toggle(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// RemoveShoppingItem deletes an item
func (a *DashboardAPI) RemoveShoppingItem(c *gin.Context) {
	if err := a.shopping.Remove(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "item removed", "id": c.Param("id")})
}

// ClearCheckedShoppingItems drops every bought item
func (a *DashboardAPI) ClearCheckedShoppingItems(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"removed": a.shopping.ClearChecked()})
}

// ShoppingInsights asks the advisory service about the low-stock items
func (a *DashboardAPI) ShoppingInsights(c *gin.Context) {
	ctx, cancel := a.advisoryContext(c)
	defer cancel()
	c.JSON(http.StatusOK, a.advisor.ShoppingInsights(ctx, a.store.LowStock()))
}
