package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

const defaultBaseURL = "http://localhost:8080"

// ApiClient handles requests to the CMV dashboard API
type ApiClient struct {
	httpClient *http.Client
	BaseURL    string
}

// NewApiClient creates a new API client
func NewApiClient() *ApiClient {
	baseURL := os.Getenv("CMVBOARD_API_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &ApiClient{
		httpClient: &http.Client{
			Timeout: time.Second * 45,
		},
		BaseURL: baseURL,
	}
}

// CheckHealth checks if the API is up and running
func (c *ApiClient) CheckHealth() (bool, error) {
	resp, err := c.httpClient.Get(c.BaseURL + "/health")
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("API health check failed with status code: %d", resp.StatusCode)
	}

	return true, nil
}

// Money values arrive as decimal strings and are shown as-is

// Ingredient mirrors the API ingredient
type Ingredient struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Unit         string  `json:"unit"`
	CostPerUnit  string  `json:"costPerUnit"`
	CurrentStock float64 `json:"currentStock"`
	MinStock     float64 `json:"minStock"`
	SupplierID   string  `json:"supplierId"`
}

// Summary is the dashboard headline
type Summary struct {
	IngredientCount  int          `json:"ingredientCount"`
	RecipeCount      int          `json:"recipeCount"`
	LowStockCount    int          `json:"lowStockCount"`
	Alerts           []Ingredient `json:"alerts"`
	StockValue       string       `json:"stockValue"`
	WasteCost        string       `json:"wasteCost"`
	LatestRecordDate *time.Time   `json:"latestRecordDate"`
	AuditState       string       `json:"auditState"`
	AdvisoryEnabled  bool         `json:"advisoryEnabled"`
}

// CostSheet is the derived cost of a recipe
type CostSheet struct {
	TotalCost     string   `json:"totalCost"`
	SalePrice     string   `json:"salePrice"`
	CMVPercentage float64  `json:"cmvPercentage"`
	Margin        string   `json:"margin"`
	Rating        string   `json:"rating"`
	Removed       []string `json:"removed"`
}

// Recipe is a recipe with its cost sheet
type Recipe struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Category string    `json:"category"`
	Cost     CostSheet `json:"cost"`
}

// CMVReport is the CMV of one inventory period
type CMVReport struct {
	StartDate        time.Time `json:"startDate"`
	EndDate          time.Time `json:"endDate"`
	OpeningValue     string    `json:"openingValue"`
	Purchases        string    `json:"purchases"`
	PurchaseCount    int       `json:"purchaseCount"`
	AvailableForSale string    `json:"availableForSale"`
	ClosingValue     string    `json:"closingValue"`
	CMV              string    `json:"cmv"`
	Waste            string    `json:"waste"`
}

// ShoppingItem is one line of the shopping list
type ShoppingItem struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Quantity   float64 `json:"quantity"`
	Unit       string  `json:"unit"`
	Checked    bool    `json:"checked"`
	SupplierID string  `json:"supplierId"`
}

// Advice is a generated recommendation
type Advice struct {
	Text      string `json:"text"`
	Available bool   `json:"available"`
}

// GetDashboard retrieves the dashboard summary
func (c *ApiClient) GetDashboard() (*Summary, error) {
	var s Summary
	if err := c.do(http.MethodGet, "/api/v1/dashboard", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetIngredients retrieves the catalog
func (c *ApiClient) GetIngredients() ([]Ingredient, error) {
	var resp struct {
		Ingredients []Ingredient `json:"ingredients"`
	}
	if err := c.do(http.MethodGet, "/api/v1/ingredients", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Ingredients, nil
}

// GetRecipes retrieves every recipe with its cost sheet
func (c *ApiClient) GetRecipes() ([]Recipe, error) {
	var resp struct {
		Recipes []Recipe `json:"recipes"`
	}
	if err := c.do(http.MethodGet, "/api/v1/recipes", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Recipes, nil
}

// AnalyzeRecipe asks the advisory service about a recipe
func (c *ApiClient) AnalyzeRecipe(id string) (*Advice, error) {
	var a Advice
	if err := c.do(http.MethodPost, "/api/v1/recipes/"+url.PathEscape(id)+"/analysis", nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// GetCMV retrieves the CMV of the latest period
func (c *ApiClient) GetCMV() (*CMVReport, error) {
	var resp struct {
		Result CMVReport `json:"result"`
	}
	if err := c.do(http.MethodGet, "/api/v1/cmv", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Result, nil
}

// GetShoppingList retrieves the shopping list
func (c *ApiClient) GetShoppingList() ([]ShoppingItem, error) {
	var resp struct {
		Items []ShoppingItem `json:"items"`
	}
	if err := c.do(http.MethodGet, "/api/v1/shopping-list", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// PopulateShoppingList adds every low-stock ingredient to the list
func (c *ApiClient) PopulateShoppingList() (int, error) {
	var resp struct {
		Count int `json:"count"`
	}
	if err := c.do(http.MethodPost, "/api/v1/shopping-list/populate", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

// ToggleShoppingItem flips an item between pending and bought
func (c *ApiClient) ToggleShoppingItem(id string) error {
	return c.do(http.MethodPost, "/api/v1/shopping-list/items/"+url.PathEscape(id)+"/toggle", nil, nil)
}

// do sends a JSON request and decodes the response into out
func (c *ApiClient) do(method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("API error (%d): %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("API returned status code %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}
