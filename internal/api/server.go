package api

import (
	"net/http"
	"time"

	"cmvboard/internal/advisory"
	"cmvboard/internal/audit"
	"cmvboard/internal/catalog"
	"cmvboard/internal/ledger"
	"cmvboard/internal/pricehistory"
	"cmvboard/internal/shopping"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Settings tunes presentation details of the API
type Settings struct {
	PriceHistoryMonths int
	LowStockAlerts     int
	AdvisoryTimeout    time.Duration
}

// DefaultSettings returns the settings used by the dashboard out of the box
func DefaultSettings() Settings {
	return Settings{
		PriceHistoryMonths: pricehistory.DefaultWindowMonths,
		LowStockAlerts:     4,
		AdvisoryTimeout:    30 * time.Second,
	}
}

// Deps are the services the API is built on
type Deps struct {
	Store    *catalog.Store
	Ledger   *ledger.Ledger
	Audit    *audit.Engine
	Shopping *shopping.List
	Advisor  *advisory.Advisor
	Events   *EventHub
	Log      logrus.FieldLogger
	Settings Settings
}

// DashboardAPI represents the HTTP API of the costing dashboard
type DashboardAPI struct {
	Router *gin.Engine

	store    *catalog.Store
	ledger   *ledger.Ledger
	audit    *audit.Engine
	shopping *shopping.List
	advisor  *advisory.Advisor
	events   *EventHub
	log      logrus.FieldLogger
	settings Settings
	newID    func() string
}

// NewDashboardAPI creates a new dashboard API instance
func NewDashboardAPI(d Deps) *DashboardAPI {
	if d.Log == nil {
		d.Log = logrus.StandardLogger()
	}
	if d.Events == nil {
		d.Events = NewEventHub(d.Log)
	}
	if d.Advisor == nil {
		d.Advisor = advisory.NewAdvisor(nil, d.Log, nil)
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(d.Log))

	api := &DashboardAPI{
		Router:   router,
		store:    d.Store,
		ledger:   d.Ledger,
		audit:    d.Audit,
		shopping: d.Shopping,
		advisor:  d.Advisor,
		events:   d.Events,
		log:      d.Log,
		settings: d.Settings,
		newID:    uuid.NewString,
	}

	api.setupRoutes()
	return api
}

// setupRoutes configures all API endpoints
func (a *DashboardAPI) setupRoutes() {
	// Health check
	a.Router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "CMV dashboard API is running"})
	})

	// Live event feed
	a.Router.GET("/ws", a.events.ServeWS)

	v1 := a.Router.Group("/api/v1")
	{
		v1.GET("/dashboard", a.GetDashboard)

		// Ingredients
		v1.GET("/ingredients", a.ListIngredients)
		v1.POST("/ingredients", a.CreateIngredient)
		v1.GET("/ingredients/:id", a.GetIngredient)
		v1.PUT("/ingredients/:id", a.ReplaceIngredient)
		v1.DELETE("/ingredients/:id", a.DeleteIngredient)
		v1.GET("/ingredients/:id/price-history", a.GetPriceHistory)

		// Recipes
		v1.GET("/recipes", a.ListRecipes)
		v1.POST("/recipes", a.CreateRecipe)
		v1.GET("/recipes/:id", a.GetRecipe)
		v1.PUT("/recipes/:id", a.ReplaceRecipe)
		v1.GET("/recipes/:id/cost", a.GetRecipeCost)
		v1.POST("/recipes/:id/analysis", a.AnalyzeRecipe)

		// Suppliers
		v1.GET("/suppliers", a.ListSuppliers)
		v1.GET("/suppliers/:id/ingredients", a.ListSupplierIngredients)

		// Ledger
		v1.GET("/movements", a.ListMovements)
		v1.POST("/movements", a.RecordMovement)
		v1.GET("/waste", a.ListWaste)
		v1.POST("/waste", a.LogWaste)

		// Audit
		v1.GET("/audit", a.GetAudit)
		v1.POST("/audit/start", a.StartAudit)
		v1.PUT("/audit/counts/:ingredientId", a.SetAuditCount)
		v1.POST("/audit/cancel", a.CancelAudit)
		v1.POST("/audit/finalize", a.FinalizeAudit)

		// Reports
		v1.GET("/inventory-records", a.ListInventoryRecords)
		v1.GET("/cmv", a.GetCMV)

		// Shopping list
		v1.GET("/shopping-list", a.GetShoppingList)
		v1.POST("/shopping-list/items", a.AddShoppingItem)
		v1.POST("/shopping-list/populate", a.PopulateShoppingList)
		v1.POST("/shopping-list/items/:id/toggle", a.ToggleShoppingItem)
		v1.DELETE("/shopping-list/items/:id", a.RemoveShoppingItem)
		v1.POST("/shopping-list/clear-checked", a.ClearCheckedShoppingItems)
		v1.POST("/shopping-list/insights", a.ShoppingInsights)
	}
}

func requestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"status":   c.Writer.Status(),
			"duration": time.Since(start),
		}).Debug("request handled")
	}
}
