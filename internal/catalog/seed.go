package catalog

import (
	"fmt"
	"os"
	"strings"
	"time"

	"cmvboard/internal/models"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Seed holds the collections a catalog starts from
type Seed struct {
	Suppliers   []models.Supplier
	Ingredients []models.Ingredient
	Recipes     []models.Recipe
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// DefaultSeed returns the demo catalog the dashboard ships with. Two of the
// ingredients have no supplier record and show up as unassigned.
func DefaultSeed() Seed {
	return Seed{
		Suppliers: []models.Supplier{
			{ID: "1", Name: "Cerealista Bom Grão", Contact: "(11) 9999-9999", Category: "Grãos", Rating: 4.5},
			{ID: "2", Name: "Casa de Carnes Premium", Contact: "(11) 8888-8888", Category: "Carnes", Rating: 5.0},
			{ID: "3", Name: "Hortifruti Fresco", Contact: "(11) 7777-7777", Category: "Hortifruti", Rating: 4.0},
		},
		Ingredients: []models.Ingredient{
			{ID: "1", Name: "Arroz Agulhinha", Unit: models.UnitKilogram, CostPerUnit: decimal.RequireFromString("5.50"), CurrentStock: 50, MinStock: 20, SupplierID: "1", LastUpdated: day("2023-10-25")},
			{ID: "2", Name: "Feijão Carioca", Unit: models.UnitKilogram, CostPerUnit: decimal.RequireFromString("8.90"), CurrentStock: 30, MinStock: 15, SupplierID: "1", LastUpdated: day("2023-10-25")},
			{ID: "3", Name: "Filé Mignon", Unit: models.UnitKilogram, CostPerUnit: decimal.RequireFromString("69.90"), CurrentStock: 12, MinStock: 10, SupplierID: "2", LastUpdated: day("2023-10-26")},
			{ID: "4", Name: "Cebola", Unit: models.UnitKilogram, CostPerUnit: decimal.RequireFromString("4.50"), CurrentStock: 15, MinStock: 5, SupplierID: "3", LastUpdated: day("2023-10-27")},
			{ID: "5", Name: "Alho", Unit: models.UnitKilogram, CostPerUnit: decimal.RequireFromString("25.00"), CurrentStock: 2, MinStock: 1, SupplierID: "3", LastUpdated: day("2023-10-27")},
			{ID: "6", Name: "Azeite de Oliva", Unit: models.UnitLiter, CostPerUnit: decimal.RequireFromString("45.00"), CurrentStock: 5, MinStock: 3, LastUpdated: day("2023-10-20")},
			{ID: "7", Name: "Batata Inglesa", Unit: models.UnitKilogram, CostPerUnit: decimal.RequireFromString("3.90"), CurrentStock: 40, MinStock: 20, SupplierID: "3", LastUpdated: day("2023-10-27")},
			{ID: "8", Name: "Sal Refinado", Unit: models.UnitKilogram, CostPerUnit: decimal.RequireFromString("2.00"), CurrentStock: 10, MinStock: 2, LastUpdated: day("2023-10-15")},
		},
		Recipes: []models.Recipe{
			{
				ID:                 "1",
				Name:               "Picadinho de Mignon",
				Category:           "Prato Principal",
				PreparationMinutes: 45,
				YieldServings:      1,
				SalePrice:          decimal.RequireFromString("59.90"),
				LastRevision:       day("2023-10-01"),
				Instructions:       "Cortar a carne em cubos. Refogar cebola e alho...",
				Ingredients: []models.RecipeIngredient{
					{IngredientID: "3", Quantity: 0.200},
					{IngredientID: "4", Quantity: 0.050},
					{IngredientID: "5", Quantity: 0.010},
					{IngredientID: "6", Quantity: 0.015},
					{IngredientID: "8", Quantity: 0.005},
				},
			},
			{
				ID:                 "2",
				Name:               "Arroz Branco (Porção)",
				Category:           "Guarnição",
				PreparationMinutes: 20,
				YieldServings:      4,
				SalePrice:          decimal.RequireFromString("12.00"),
				LastRevision:       day("2023-09-15"),
				Instructions:       "Refogar alho no azeite, adicionar arroz...",
				Ingredients: []models.RecipeIngredient{
					{IngredientID: "1", Quantity: 0.250},
					{IngredientID: "5", Quantity: 0.010},
					{IngredientID: "6", Quantity: 0.010},
					{IngredientID: "8", Quantity: 0.005},
				},
			},
		},
	}
}

// seedFile is the YAML layout of a seed file. Ingredients name their
// supplier; names are resolved to supplier ids once, at load time.
type seedFile struct {
	Suppliers []struct {
		ID       string  `yaml:"id"`
		Name     string  `yaml:"name"`
		Contact  string  `yaml:"contact"`
		Category string  `yaml:"category"`
		Rating   float64 `yaml:"rating"`
	} `yaml:"suppliers"`
	Ingredients []struct {
		ID           string  `yaml:"id"`
		Name         string  `yaml:"name"`
		Unit         string  `yaml:"unit"`
		CostPerUnit  string  `yaml:"cost_per_unit"`
		CurrentStock float64 `yaml:"current_stock"`
		MinStock     float64 `yaml:"min_stock"`
		Supplier     string  `yaml:"supplier"`
		LastUpdated  string  `yaml:"last_updated"`
	} `yaml:"ingredients"`
	Recipes []struct {
		ID                 string  `yaml:"id"`
		Name               string  `yaml:"name"`
		Category           string  `yaml:"category"`
		PreparationMinutes int     `yaml:"preparation_minutes"`
		YieldServings      int     `yaml:"yield_servings"`
		SalePrice          string  `yaml:"sale_price"`
		Instructions       string  `yaml:"instructions"`
		LastRevision       string  `yaml:"last_revision"`
		Ingredients        []struct {
			IngredientID string  `yaml:"ingredient_id"`
			Quantity     float64 `yaml:"quantity"`
		} `yaml:"ingredients"`
	} `yaml:"recipes"`
}

// LoadSeed reads a YAML seed file
func LoadSeed(path string) (Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("reading seed file: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes YAML seed data
func ParseSeed(data []byte) (Seed, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Seed{}, fmt.Errorf("parsing seed YAML: %w", err)
	}

	var seed Seed
	byName := make(map[string]string, len(f.Suppliers))
	for _, s := range f.Suppliers {
		seed.Suppliers = append(seed.Suppliers, models.Supplier{
			ID:       s.ID,
			Name:     s.Name,
			Contact:  s.Contact,
			Category: s.Category,
			Rating:   s.Rating,
		})
		byName[supplierKey(s.Name)] = s.ID
	}

	for _, in := range f.Ingredients {
		cost, err := parseMoney(in.CostPerUnit)
		if err != nil {
			return Seed{}, fmt.Errorf("ingredient %q cost: %w", in.ID, err)
		}
		updated, err := parseDate(in.LastUpdated)
		if err != nil {
			return Seed{}, fmt.Errorf("ingredient %q last_updated: %w", in.ID, err)
		}
		seed.Ingredients = append(seed.Ingredients, models.Ingredient{
			ID:           in.ID,
			Name:         in.Name,
			Unit:         models.Unit(in.Unit),
			CostPerUnit:  cost,
			CurrentStock: in.CurrentStock,
			MinStock:     in.MinStock,
			SupplierID:   byName[supplierKey(in.Supplier)],
			LastUpdated:  updated,
		})
	}

	for _, in := range f.Recipes {
		price, err := parseMoney(in.SalePrice)
		if err != nil {
			return Seed{}, fmt.Errorf("recipe %q sale_price: %w", in.ID, err)
		}
		revised, err := parseDate(in.LastRevision)
		if err != nil {
			return Seed{}, fmt.Errorf("recipe %q last_revision: %w", in.ID, err)
		}
		r := models.Recipe{
			ID:                 in.ID,
			Name:               in.Name,
			Category:           in.Category,
			Ingredients:        []models.RecipeIngredient{},
			PreparationMinutes: in.PreparationMinutes,
			YieldServings:      in.YieldServings,
			SalePrice:          price,
			Instructions:       in.Instructions,
			LastRevision:       revised,
		}
		if r.Category == "" {
			r.Category = models.DefaultRecipeCategory
		}
		for _, line := range in.Ingredients {
			r.AddIngredient(line.IngredientID, line.Quantity)
		}
		seed.Recipes = append(seed.Recipes, r)
	}

	return seed, nil
}

func supplierKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func parseMoney(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
