package ui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"vitrine/internal/auth"
	"vitrine/internal/cart"
	"vitrine/internal/catalog"
	"vitrine/internal/config"
	"vitrine/internal/order"
)

// Deps are the wired stores and services the browser runs against.
type Deps struct {
	Catalog *catalog.Service
	Cart    *cart.Store
	Session *auth.Session
	Orders  *order.Service
	Config  config.Config
	Logger  *zap.Logger
}

type page int

const (
	pageCatalog page = iota
	pageDetail
	pageCart
	pageOrders
)

// App is the root model: it owns the pages, routes messages to the active
// one and renders the shared header and footer.
type App struct {
	deps   Deps
	styles Styles

	page    page
	catalog CatalogPage
	detail  DetailPage
	cart    CartPage
	orders  OrdersPage

	width  int
	height int
	status string
}

// NewApp builds the browser model.
func NewApp(deps Deps) App {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	styles := NewStyles(ThemeFor(deps.Config.Theme))

	return App{
		deps:    deps,
		styles:  styles,
		catalog: NewCatalogPage(deps.Catalog, styles),
		detail:  NewDetailPage(styles),
		cart:    NewCartPage(deps.Cart, styles),
		orders:  NewOrdersPage(deps.Orders, styles),
	}
}

// Init starts the catalog's initial load.
func (a App) Init() tea.Cmd {
	return a.catalog.InitialLoad()
}

// Update routes messages. Global keys are handled here unless the catalog's
// search input owns the keyboard.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.catalog.SetSize(msg.Width, msg.Height-3)
		a.detail.SetSize(msg.Width, msg.Height-3)
		a.cart.SetSize(msg.Width, msg.Height-3)
		a.orders.SetSize(msg.Width, msg.Height-3)
		return a, nil

	case ConfigReloadedMsg:
		a.deps.Config = msg.Config
		a.styles = NewStyles(ThemeFor(msg.Config.Theme))
		a.catalog.SetStyles(a.styles)
		a.detail.SetStyles(a.styles)
		a.cart.SetStyles(a.styles)
		a.orders.SetStyles(a.styles)
		a.status = "configuration reloaded"
		return a, nil

	case tea.KeyMsg:
		a.status = ""

		// While the search input is focused it owns every key.
		if a.page == pageCatalog && a.catalog.Searching() {
			var cmd tea.Cmd
			a.catalog, cmd = a.catalog.Update(msg)
			return a, cmd
		}

		switch msg.String() {
		case "q", "ctrl+c":
			return a, tea.Quit
		case "1":
			a.page = pageCatalog
			return a, nil
		case "2":
			a.page = pageCart
			return a, a.cart.Refresh()
		case "3":
			a.page = pageOrders
			return a, a.orders.Load()
		case "esc":
			if a.page == pageDetail {
				a.page = pageCatalog
			}
			return a, nil
		case "enter":
			if a.page == pageCatalog {
				return a, a.catalog.OpenSelected()
			}
		case "a":
			var p *catalog.Product
			switch a.page {
			case pageCatalog:
				p = a.catalog.Selected()
			case pageDetail:
				p = a.detail.Product()
			}
			if p != nil {
				return a, addToCart(a.deps.Cart, *p)
			}
		}

	case detailLoadedMsg:
		var cmd tea.Cmd
		a.detail, cmd = a.detail.Update(msg)
		if msg.err == nil {
			a.page = pageDetail
		} else {
			a.status = errorLine(msg.err)
		}
		return a, cmd

	case addedToCartMsg:
		if msg.err != nil {
			a.status = errorLine(msg.err)
		} else {
			a.status = fmt.Sprintf("added %q to cart", msg.name)
		}
		return a, nil
	}

	return a.routeToPage(msg)
}

func (a App) routeToPage(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.page {
	case pageCatalog:
		a.catalog, cmd = a.catalog.Update(msg)
	case pageDetail:
		a.detail, cmd = a.detail.Update(msg)
	case pageCart:
		a.cart, cmd = a.cart.Update(msg)
	case pageOrders:
		a.orders, cmd = a.orders.Update(msg)
	}
	return a, cmd
}

// View renders the header, the active page and the footer.
func (a App) View() string {
	var body string
	switch a.page {
	case pageCatalog:
		body = a.catalog.View()
	case pageDetail:
		body = a.detail.View()
	case pageCart:
		body = a.cart.View()
	case pageOrders:
		body = a.orders.View()
	}

	header := a.styles.Header.Render("vitrine") + "  " + a.tabs()
	if a.deps.Session != nil {
		if u := a.deps.Session.User(); u != nil {
			header += "  " + a.styles.Muted.Render(u.Email)
		}
	}

	footer := a.styles.Footer.Render("1 catalog · 2 cart · 3 orders · / search · q quit")
	if a.status != "" {
		footer = a.styles.Footer.Render(a.status)
	}

	return strings.Join([]string{header, body, footer}, "\n")
}

func (a App) tabs() string {
	names := []string{"Catalog", "Cart", "Orders"}
	pages := []page{pageCatalog, pageCart, pageOrders}

	parts := make([]string, len(names))
	for i, name := range names {
		active := a.page == pages[i] || (a.page == pageDetail && pages[i] == pageCatalog)
		if active {
			parts[i] = a.styles.Selected.Render(name)
		} else {
			parts[i] = a.styles.Muted.Render(name)
		}
	}
	return strings.Join(parts, a.styles.Muted.Render(" | "))
}

func errorLine(err error) string {
	return "error: " + err.Error()
}

// addToCart adds one unit of p through the cart store, which resynchronizes
// with the server afterwards.
func addToCart(store *cart.Store, p catalog.Product) tea.Cmd {
	return func() tea.Msg {
		err := store.Add(context.Background(), p.ID, 1)
		return addedToCartMsg{name: p.Name, err: err}
	}
}
