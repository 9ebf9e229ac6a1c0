package api

import (
	"fmt"
	"net/http"
	"strings"

	"cmvboard/internal/costing"
	"cmvboard/internal/models"
	"cmvboard/internal/pricehistory"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ============================================================================
// INGREDIENTS
// ============================================================================

// ListIngredients returns the catalog, or only low-stock items with ?lowStock=true
func (a *DashboardAPI) ListIngredients(c *gin.Context) {
	ingredients := a.store.Ingredients()
	if c.Query("lowStock") == "true" {
		ingredients = a.store.LowStock()
	}
	if ingredients == nil {
		ingredients = []models.Ingredient{}
	}
	c.JSON(http.StatusOK, gin.H{"ingredients": ingredients, "count": len(ingredients)})
}

// GetIngredient returns one ingredient
func (a *DashboardAPI) GetIngredient(c *gin.Context) {
	ing, ok := a.store.Ingredient(c.Param("id"))
	if !ok {
		respondError(c, fmt.Errorf("%w: %s", models.ErrUnknownIngredient, c.Param("id")))
		return
	}
	c.JSON(http.StatusOK, ing)
}

// CreateIngredient adds an ingredient. An id is generated when none is given.
func (a *DashboardAPI) CreateIngredient(c *gin.Context) {
	var ing models.Ingredient
	if err := c.ShouldBindJSON(&ing); err != nil {
		badRequest(c, err)
		return
	}
	if strings.TrimSpace(ing.ID) == "" {
		ing.ID = a.newID()
	}

	if err := a.store.AddIngredient(ing); err != nil {
		respondError(c, err)
		return
	}
	created, _ := a.store.Ingredient(ing.ID)
	a.events.Publish(EventCatalogChanged, created)
	c.JSON(http.StatusCreated, created)
}

// ReplaceIngredient overwrites an ingredient
func (a *DashboardAPI) ReplaceIngredient(c *gin.Context) {
	var ing models.Ingredient
	if err := c.ShouldBindJSON(&ing); err != nil {
		badRequest(c, err)
		return
	}
	ing.ID = c.Param("id")

	if err := a.store.ReplaceIngredient(ing); err != nil {
		respondError(c, err)
		return
	}
	updated, _ := a.store.Ingredient(ing.ID)
	a.events.Publish(EventCatalogChanged, updated)
	c.JSON(http.StatusOK, updated)
}

// DeleteIngredient removes an ingredient from the catalog
func (a *DashboardAPI) DeleteIngredient(c *gin.Context) {
	id := c.Param("id")
	if err := a.store.RemoveIngredient(id); err != nil {
		respondError(c, err)
		return
	}
	a.events.Publish(EventCatalogChanged, gin.H{"removed": id})
	c.JSON(http.StatusOK, gin.H{"message": "ingredient removed", "id": id})
}

// GetPriceHistory returns the purchase price series of an ingredient
func (a *DashboardAPI) GetPriceHistory(c *gin.Context) {
	ing, ok := a.store.Ingredient(c.Param("id"))
	if !ok {
		respondError(c, fmt.Errorf("%w: %s", models.ErrUnknownIngredient, c.Param("id")))
		return
	}

	series := pricehistory.Series(ing, a.ledger.MovementsFor(ing.ID), a.store.Now(),
		pricehistory.WithWindowMonths(a.settings.PriceHistoryMonths))
	c.JSON(http.StatusOK, gin.H{
		"ingredientId": ing.ID,
		"name":         ing.Name,
		"unit":         ing.Unit,
		"points":       pricehistory.Collect(series),
	})
}

// ============================================================================
// RECIPES
// ============================================================================

// RecipeView is a recipe together with its derived cost sheet
type RecipeView struct {
	models.Recipe
	Cost costing.Breakdown `json:"cost"`
}

func (a *DashboardAPI) recipeView(r models.Recipe) RecipeView {
	return RecipeView{Recipe: r, Cost: costing.Calculate(r, a.store)}
}

// ListRecipes returns every recipe with its cost sheet
func (a *DashboardAPI) ListRecipes(c *gin.Context) {
	recipes := a.store.Recipes()
	views := make([]RecipeView, 0, len(recipes))
	for _, r := range recipes {
		views = append(views, a.recipeView(r))
	}
	c.JSON(http.StatusOK, gin.H{"recipes": views, "count": len(views)})
}

// GetRecipe returns one recipe with its cost sheet
func (a *DashboardAPI) GetRecipe(c *gin.Context) {
	r, ok := a.store.Recipe(c.Param("id"))
	if !ok {
		respondError(c, fmt.Errorf("%w: %s", models.ErrUnknownRecipe, c.Param("id")))
		return
	}
	c.JSON(http.StatusOK, a.recipeView(r))
}

// RecipeRequest is the body accepted when creating or replacing a recipe
type RecipeRequest struct {
	ID                 string                    `json:"id"`
	Name               string                    `json:"name" binding:"required"`
	Category           string                    `json:"category"`
	Ingredients        []models.RecipeIngredient `json:"ingredients"`
	PreparationMinutes int                       `json:"preparationMinutes"`
	YieldServings      int                       `json:"yieldServings"`
	SalePrice          decimal.Decimal           `json:"salePrice"`
	Instructions       string                    `json:"instructions"`
}

func (req RecipeRequest) recipe(id string, a *DashboardAPI) models.Recipe {
	r := models.NewRecipe(id, strings.TrimSpace(req.Name), a.store.Now())
	if req.Category != "" {
		r.Category = req.Category
	}
	if req.YieldServings > 0 {
		r.YieldServings = req.YieldServings
	}
	for _, line := range req.Ingredients {
		// Repeated lines keep the first quantity
		r.AddIngredient(line.IngredientID, line.Quantity)
	}
	r.PreparationMinutes = req.PreparationMinutes
	r.SalePrice = req.SalePrice
	r.Instructions = req.Instructions
	return r
}

// CreateRecipe adds a recipe
func (a *DashboardAPI) CreateRecipe(c *gin.Context) {
	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = a.newID()
	}

	if err := a.store.AddRecipe(req.recipe(id, a)); err != nil {
		respondError(c, err)
		return
	}
	created, _ := a.store.Recipe(id)
	view := a.recipeView(created)
	a.events.Publish(EventRecipeSaved, view)
	c.JSON(http.StatusCreated, view)
}

// ReplaceRecipe replaces a recipe's technical sheet
func (a *DashboardAPI) ReplaceRecipe(c *gin.Context) {
	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	saved, err := a.store.ReplaceRecipe(req.recipe(c.Param("id"), a))
	if err != nil {
		respondError(c, err)
		return
	}
	view := a.recipeView(saved)
	a.events.Publish(EventRecipeSaved, view)
	c.JSON(http.StatusOK, view)
}

// GetRecipeCost returns only the cost sheet of a recipe
func (a *DashboardAPI) GetRecipeCost(c *gin.Context) {
	r, ok := a.store.Recipe(c.Param("id"))
	if !ok {
		respondError(c, fmt.Errorf("%w: %s", models.ErrUnknownRecipe, c.Param("id")))
		return
	}
	c.JSON(http.StatusOK, costing.Calculate(r, a.store))
}

// AnalyzeRecipe asks the advisory service about a recipe's pricing
func (a *DashboardAPI) AnalyzeRecipe(c *gin.Context) {
	r, ok := a.store.Recipe(c.Param("id"))
	if !ok {
		respondError(c, fmt.Errorf("%w: %s", models.ErrUnknownRecipe, c.Param("id")))
		return
	}

	ctx, cancel := a.advisoryContext(c)
	defer cancel()
	c.JSON(http.StatusOK, a.advisor.AnalyzeRecipe(ctx, r, a.store))
}

// ============================================================================
// SUPPLIERS
// ============================================================================

// ListSuppliers returns the supplier directory
func (a *DashboardAPI) ListSuppliers(c *gin.Context) {
	suppliers := a.store.Suppliers()
	c.JSON(http.StatusOK, gin.H{"suppliers": suppliers, "count": len(suppliers)})
}

// ListSupplierIngredients returns the ingredients bought from a supplier
func (a *DashboardAPI) ListSupplierIngredients(c *gin.Context) {
	ingredients, err := a.store.IngredientsBySupplier(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if ingredients == nil {
		ingredients = []models.Ingredient{}
	}
	c.JSON(http.StatusOK, gin.H{"supplierId": c.Param("id"), "ingredients": ingredients, "count": len(ingredients)})
}
