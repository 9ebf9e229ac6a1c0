package advisory

import (
	"context"
	"fmt"
	"strconv"

	"cmvboard/internal/costing"
	"cmvboard/internal/models"
	"cmvboard/internal/monitoring"

	"github.com/sirupsen/logrus"
)

// Placeholder texts shown when no advice could be produced
const (
	MessageNotConfigured   = "Advisory service is not configured. Set an advisory provider and its API key."
	MessageRecipeFailed    = "Could not analyze the recipe right now."
	MessageShoppingFailed  = "Could not generate purchasing insights right now."
	MessageHealthyStock    = "Your stock is healthy! There are no critical items to analyze right now."
	removedIngredientLabel = "Unknown"
)

// Request kinds, used as metric labels
const (
	KindRecipe   = "recipe"
	KindShopping = "shopping"
)

// Advice is the outcome of an advisory request. When Available is false,
// Text holds a placeholder for the user.
type Advice struct {
	Kind      string `json:"kind"`
	Text      string `json:"text"`
	Available bool   `json:"available"`
	Provider  string `json:"provider,omitempty"`
}

// Advisor builds prompts from catalog data and asks the provider for text.
// It applies no timeout or retry of its own; callers bound the context.
type Advisor struct {
	provider Provider
	log      logrus.FieldLogger
	monitor  *monitoring.Monitor
}

// NewAdvisor creates an advisor. A nil provider leaves the service unconfigured.
func NewAdvisor(provider Provider, log logrus.FieldLogger, monitor *monitoring.Monitor) *Advisor {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Advisor{provider: provider, log: log, monitor: monitor}
}

// Configured reports whether a provider is set
func (a *Advisor) Configured() bool {
	return a.provider != nil
}

// AnalyzeRecipe asks for pricing and CMV advice on a recipe
func (a *Advisor) AnalyzeRecipe(ctx context.Context, r models.Recipe, catalog costing.Catalog) Advice {
	lines := make([]string, 0, len(r.Ingredients))
	for _, item := range r.Ingredients {
		name, unit := removedIngredientLabel, ""
		if ing, ok := catalog.Ingredient(item.IngredientID); ok {
			name, unit = ing.Name, string(ing.Unit)
		}
		lines = append(lines, fmt.Sprintf("%s: %s %s", name, formatQuantity(item.Quantity), unit))
	}

	prompt, err := recipePrompt.Format(map[string]any{
		"name":  r.Name,
		"price": r.SalePrice.StringFixed(2),
		"lines": lines,
	})
	if err != nil {
		return a.fail(KindRecipe, MessageRecipeFailed, fmt.Errorf("formatting recipe prompt: %w", err))
	}
	return a.complete(ctx, KindRecipe, prompt, MessageRecipeFailed)
}

// ShoppingInsights asks for a purchasing strategy for low-stock ingredients.
// An empty list short-circuits with a healthy-stock message.
func (a *Advisor) ShoppingInsights(ctx context.Context, lowStock []models.Ingredient) Advice {
	if len(lowStock) == 0 {
		return Advice{Kind: KindShopping, Text: MessageHealthyStock, Available: true}
	}

	items := make([]string, 0, len(lowStock))
	for _, ing := range lowStock {
		items = append(items, fmt.Sprintf("%s (stock: %s %s, minimum: %s %s)",
			ing.Name, formatQuantity(ing.CurrentStock), ing.Unit, formatQuantity(ing.MinStock), ing.Unit))
	}

	prompt, err := shoppingPrompt.Format(map[string]any{"items": items})
	if err != nil {
		return a.fail(KindShopping, MessageShoppingFailed, fmt.Errorf("formatting shopping prompt: %w", err))
	}
	return a.complete(ctx, KindShopping, prompt, MessageShoppingFailed)
}

func (a *Advisor) complete(ctx context.Context, kind, prompt, failure string) Advice {
	if a.provider == nil {
		return a.fail(kind, MessageNotConfigured, models.ErrAdvisoryUnavailable)
	}

	text, err := a.provider.Complete(ctx, prompt)
	if err != nil {
		return a.fail(kind, failure, fmt.Errorf("%w: %v", models.ErrAdvisoryUnavailable, err))
	}
	if text == "" {
		return a.fail(kind, failure, fmt.Errorf("%w: empty response", models.ErrAdvisoryUnavailable))
	}

	a.monitor.RecordAdvisory(kind, "ok")
	return Advice{Kind: kind, Text: text, Available: true, Provider: a.provider.Name()}
}

func (a *Advisor) fail(kind, placeholder string, err error) Advice {
	a.log.WithFields(logrus.Fields{"kind": kind, "error": err}).Warn("advisory unavailable")
	a.monitor.RecordAdvisory(kind, "unavailable")
	return Advice{Kind: kind, Text: placeholder, Available: false}
}

func formatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}
