package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Styling
var (
	docStyle = lipgloss.NewStyle().Margin(1, 2)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#0a84ff")).
			Padding(0, 1)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#30d158")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#ff453a")).
			Padding(0, 1)
)

// Model defines the application state
type Model struct {
	mainMenu    list.Model
	ingredients table.Model
	recipes     table.Model
	shopping    table.Model
	spinner     spinner.Model
	client      *ApiClient
	summary     *Summary
	report      *CMVReport
	advice      string
	loading     bool
	currentView string
	message     string
	error       string
}

// item represents a list item
type item struct {
	title, desc string
}

// FilterValue implements list.Item interface
func (i item) FilterValue() string { return i.title }

// Title implements list.Item interface
func (i item) Title() string { return i.title }

// Description implements list.Item interface
func (i item) Description() string { return i.desc }

func newTable(columns []table.Column) table.Model {
	return table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)
}

// Initialize the model
func initialModel() Model {
	// Initialize spinner
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	// Initialize main menu items
	items := []list.Item{
		item{title: "Dashboard", desc: "Stock value, low-stock alerts and latest inventory"},
		item{title: "Ingredients", desc: "Catalog with unit costs and stock levels"},
		item{title: "Recipes", desc: "Technical sheets with cost and CMV percentage"},
		item{title: "CMV Report", desc: "Cost of goods sold between the last two inventories"},
		item{title: "Shopping List", desc: "Purchase checklist built from low-stock alerts"},
		item{title: "Exit", desc: "Exit the application"},
	}

	// Initialize main menu
	mainMenu := list.New(items, list.NewDefaultDelegate(), 0, 0)
	mainMenu.Title = "CMV Dashboard"

	return Model{
		mainMenu: mainMenu,
		ingredients: newTable([]table.Column{
			{Title: "Name", Width: 22},
			{Title: "Unit", Width: 5},
			{Title: "Cost", Width: 10},
			{Title: "Stock", Width: 8},
			{Title: "Min", Width: 8},
			{Title: "Alert", Width: 6},
		}),
		recipes: newTable([]table.Column{
			{Title: "ID", Width: 8},
			{Title: "Recipe", Width: 24},
			{Title: "Cost", Width: 10},
			{Title: "Price", Width: 10},
			{Title: "CMV %", Width: 8},
			{Title: "Rating", Width: 14},
		}),
		shopping: newTable([]table.Column{
			{Title: "ID", Width: 8},
			{Title: "Item", Width: 22},
			{Title: "Qty", Width: 8},
			{Title: "Unit", Width: 5},
			{Title: "Bought", Width: 7},
		}),
		spinner:     s,
		client:      NewApiClient(),
		currentView: "main",
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, checkHealth(m.client))
}

// Update handles UI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.mainMenu.SetSize(msg.Width-h, msg.Height-v)
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			if m.currentView != "main" {
				m.currentView = "main"
				m.error, m.message, m.advice = "", "", ""
			}
			return m, nil
		case "enter":
			switch m.currentView {
			case "main":
				selected, ok := m.mainMenu.SelectedItem().(item)
				if !ok {
					break
				}
				m.error, m.message = "", ""
				switch selected.title {
				case "Exit":
					return m, tea.Quit
				case "Dashboard":
					m.currentView = "dashboard"
					m.loading = true
					return m, fetchDashboard(m.client)
				case "Ingredients":
					m.currentView = "ingredients"
					m.loading = true
					return m, fetchIngredients(m.client)
				case "Recipes":
					m.currentView = "recipes"
					m.loading = true
					return m, fetchRecipes(m.client)
				case "CMV Report":
					m.currentView = "cmv"
					m.loading = true
					return m, fetchCMV(m.client)
				case "Shopping List":
					m.currentView = "shopping"
					m.loading = true
					return m, fetchShopping(m.client)
				}
				return m, nil
			case "recipes":
				if row := m.recipes.SelectedRow(); row != nil {
					m.loading = true
					m.advice = ""
					return m, analyzeRecipe(m.client, row[0])
				}
				return m, nil
			}
		case "p":
			if m.currentView == "shopping" {
				m.loading = true
				return m, populateShopping(m.client)
			}
		case "t":
			if m.currentView == "shopping" {
				if row := m.shopping.SelectedRow(); row != nil {
					return m, toggleShopping(m.client, row[0])
				}
			}
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case summaryMsg:
		m.loading = false
		m.summary = msg.summary
		return m, nil
	case ingredientsMsg:
		m.loading = false
		m.ingredients.SetRows(ingredientRows(msg.ingredients))
		return m, nil
	case recipesMsg:
		m.loading = false
		m.recipes.SetRows(recipeRows(msg.recipes))
		return m, nil
	case cmvMsg:
		m.loading = false
		m.report = msg.report
		return m, nil
	case shoppingMsg:
		m.loading = false
		m.shopping.SetRows(shoppingRows(msg.items))
		return m, nil
	case adviceMsg:
		m.loading = false
		m.advice = msg.text
		return m, nil
	case errorMsg:
		m.loading = false
		m.error = msg.err
		return m, nil
	case confirmMsg:
		m.loading = false
		m.error = ""
		m.message = msg.message
		if m.currentView == "shopping" {
			return m, fetchShopping(m.client)
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch m.currentView {
	case "main":
		m.mainMenu, cmd = m.mainMenu.Update(msg)
	case "ingredients":
		m.ingredients, cmd = m.ingredients.Update(msg)
	case "recipes":
		m.recipes, cmd = m.recipes.Update(msg)
	case "shopping":
		m.shopping, cmd = m.shopping.Update(msg)
	}

	return m, cmd
}

// View renders the UI
func (m Model) View() string {
	var footer string
	if m.loading {
		footer += "\n" + m.spinner.View() + " Loading...\n"
	}
	if m.message != "" {
		footer += "\n" + successStyle.Render(m.message) + "\n"
	}
	if m.error != "" {
		footer += "\n" + errorStyle.Render(m.error) + "\n"
	}

	switch m.currentView {
	case "main":
		return docStyle.Render(m.mainMenu.View() + footer)
	case "dashboard":
		return docStyle.Render(titleStyle.Render("Dashboard") + "\n\n" + dashboardView(m.summary) + footer + "\nPress 'esc' to go back\n")
	case "ingredients":
		return docStyle.Render(titleStyle.Render("Ingredients") + "\n\n" + m.ingredients.View() + footer + "\nPress 'esc' to go back\n")
	case "recipes":
		view := titleStyle.Render("Recipes") + "\n\n" + m.recipes.View() + "\n"
		if m.advice != "" {
			view += "\n" + infoStyle.Render("Advice") + "\n" + m.advice + "\n"
		}
		return docStyle.Render(view + footer + "\nPress 'enter' for pricing advice, 'esc' to go back\n")
	case "cmv":
		return docStyle.Render(titleStyle.Render("CMV Report") + "\n\n" + cmvView(m.report) + footer + "\nPress 'esc' to go back\n")
	case "shopping":
		return docStyle.Render(titleStyle.Render("Shopping List") + "\n\n" + m.shopping.View() + footer +
			"\nPress 'p' to add low-stock items, 't' to mark bought, 'esc' to go back\n")
	default:
		return "Loading..."
	}
}

// Custom message types for the tea.Model
type summaryMsg struct {
	summary *Summary
}

type ingredientsMsg struct {
	ingredients []Ingredient
}

type recipesMsg struct {
	recipes []Recipe
}

type cmvMsg struct {
	report *CMVReport
}

type shoppingMsg struct {
	items []ShoppingItem
}

type adviceMsg struct {
	text string
}

type errorMsg struct {
	err string
}

type confirmMsg struct {
	message string
}

func checkHealth(client *ApiClient) tea.Cmd {
	return func() tea.Msg {
		if _, err := client.CheckHealth(); err != nil {
			return errorMsg{err: fmt.Sprintf("API server at %s is not available: %v", client.BaseURL, err)}
		}
		return confirmMsg{message: "Connected to " + client.BaseURL}
	}
}

func fetchDashboard(client *ApiClient) tea.Cmd {
	return func() tea.Msg {
		s, err := client.GetDashboard()
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error fetching dashboard: %v", err)}
		}
		return summaryMsg{summary: s}
	}
}

func fetchIngredients(client *ApiClient) tea.Cmd {
	return func() tea.Msg {
		ingredients, err := client.GetIngredients()
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error fetching ingredients: %v", err)}
		}
		return ingredientsMsg{ingredients: ingredients}
	}
}

func fetchRecipes(client *ApiClient) tea.Cmd {
	return func() tea.Msg {
		recipes, err := client.GetRecipes()
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error fetching recipes: %v", err)}
		}
		return recipesMsg{recipes: recipes}
	}
}

func analyzeRecipe(client *ApiClient, id string) tea.Cmd {
	return func() tea.Msg {
		advice, err := client.AnalyzeRecipe(id)
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error analyzing recipe: %v", err)}
		}
		return adviceMsg{text: advice.Text}
	}
}

func fetchCMV(client *ApiClient) tea.Cmd {
	return func() tea.Msg {
		report, err := client.GetCMV()
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error computing CMV: %v", err)}
		}
		return cmvMsg{report: report}
	}
}

func fetchShopping(client *ApiClient) tea.Cmd {
	return func() tea.Msg {
		items, err := client.GetShoppingList()
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error fetching shopping list: %v", err)}
		}
		return shoppingMsg{items: items}
	}
}

func populateShopping(client *ApiClient) tea.Cmd {
	return func() tea.Msg {
		n, err := client.PopulateShoppingList()
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error populating shopping list: %v", err)}
		}
		return confirmMsg{message: fmt.Sprintf("%d low-stock items added", n)}
	}
}

func toggleShopping(client *ApiClient, id string) tea.Cmd {
	return func() tea.Msg {
		if err := client.ToggleShoppingItem(id); err != nil {
			return errorMsg{err: fmt.Sprintf("Error updating item: %v", err)}
		}
		return confirmMsg{message: "Item updated"}
	}
}

func formatQuantity(q float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.3f", q), "0"), ".")
}

func ingredientRows(ingredients []Ingredient) []table.Row {
	rows := make([]table.Row, len(ingredients))
	for i, ing := range ingredients {
		alert := ""
		if ing.CurrentStock <= ing.MinStock {
			alert = "LOW"
		}
		rows[i] = table.Row{ing.Name, ing.Unit, ing.CostPerUnit, formatQuantity(ing.CurrentStock), formatQuantity(ing.MinStock), alert}
	}
	return rows
}

func recipeRows(recipes []Recipe) []table.Row {
	rows := make([]table.Row, len(recipes))
	for i, r := range recipes {
		rating := r.Cost.Rating
		if len(r.Cost.Removed) > 0 {
			rating += " *"
		}
		rows[i] = table.Row{r.ID, r.Name, r.Cost.TotalCost, r.Cost.SalePrice, fmt.Sprintf("%.1f", r.Cost.CMVPercentage), rating}
	}
	return rows
}

func shoppingRows(items []ShoppingItem) []table.Row {
	rows := make([]table.Row, len(items))
	for i, it := range items {
		bought := ""
		if it.Checked {
			bought = "yes"
		}
		rows[i] = table.Row{it.ID, it.Name, formatQuantity(it.Quantity), it.Unit, bought}
	}
	return rows
}

// dashboardView renders the summary
func dashboardView(s *Summary) string {
	if s == nil {
		return ""
	}
	view := fmt.Sprintf("Ingredients: %d    Recipes: %d\n", s.IngredientCount, s.RecipeCount)
	view += fmt.Sprintf("Stock value: R$ %s\n", s.StockValue)
	view += fmt.Sprintf("Waste logged: R$ %s\n", s.WasteCost)
	if s.LatestRecordDate != nil {
		view += fmt.Sprintf("Latest inventory: %s\n", s.LatestRecordDate.Format(time.RFC1123))
	} else {
		view += "Latest inventory: none yet\n"
	}
	view += fmt.Sprintf("Audit: %s    Advisory: %t\n", s.AuditState, s.AdvisoryEnabled)

	view += fmt.Sprintf("\nLow stock (%d):\n", s.LowStockCount)
	if len(s.Alerts) == 0 {
		view += "No items below minimum\n"
	}
	for _, ing := range s.Alerts {
		view += fmt.Sprintf("• %s: %s / %s %s\n", ing.Name, formatQuantity(ing.CurrentStock), formatQuantity(ing.MinStock), ing.Unit)
	}
	return view
}

// cmvView renders the period report
func cmvView(r *CMVReport) string {
	if r == nil {
		return ""
	}
	view := fmt.Sprintf("Period: %s to %s\n\n", r.StartDate.Format("02/01/2006"), r.EndDate.Format("02/01/2006"))
	view += fmt.Sprintf("Opening inventory:   R$ %s\n", r.OpeningValue)
	view += fmt.Sprintf("+ Purchases (%d):     R$ %s\n", r.PurchaseCount, r.Purchases)
	view += fmt.Sprintf("= Available:         R$ %s\n", r.AvailableForSale)
	view += fmt.Sprintf("- Closing inventory: R$ %s\n", r.ClosingValue)
	view += fmt.Sprintf("= CMV:               R$ %s\n", r.CMV)
	view += fmt.Sprintf("\nWaste in period:     R$ %s\n", r.Waste)
	if strings.HasPrefix(r.CMV, "-") {
		view += "\n" + errorStyle.Render("Negative CMV: check purchase entries") + "\n"
	}
	return view
}

func main() {
	p := tea.NewProgram(initialModel(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v", err)
		os.Exit(1)
	}
}
