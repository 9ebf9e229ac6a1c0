package advisory

import (
	"github.com/tmc/langchaingo/prompts"
)

var recipePrompt = prompts.NewPromptTemplate(`Act as an executive chef and financial consultant for high-performance restaurants.
Analyze the following technical sheet:

Dish: {{.name}}
Sale price: R$ {{.price}}
Ingredients:
{{- range .lines}}
- {{.}}
{{- end}}

Give a short, direct analysis (150 words at most) covering:
1. Whether the sale price looks right given typical ingredient costs.
2. Two substitutions or techniques that would lower the CMV without losing much quality.
3. One marketing tip to sell this dish.

Answer in Brazilian Portuguese, formatted as Markdown.`, []string{"name", "price", "lines"})

var shoppingPrompt = prompts.NewPromptTemplate(`Analyze this list of restaurant ingredients with low or critical stock:
{{- range .items}}
- {{.}}
{{- end}}

Suggest a quick purchasing strategy. Group the items by likely supplier type (butcher, produce, dry goods) and give one tip about seasonality or negotiation for one of them.
Be brief and answer in Brazilian Portuguese.`, []string{"items"})
