package ui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"vitrine/internal/cart"
)

// CartPage mirrors the server-side cart. Every mutation goes through the
// store, which refetches afterwards; the page only ever renders store state.
type CartPage struct {
	store  *cart.Store
	styles Styles

	cursor int
	errMsg string
	width  int
	height int
}

// NewCartPage builds the page.
func NewCartPage(store *cart.Store, styles Styles) CartPage {
	return CartPage{store: store, styles: styles}
}

// SetSize updates the layout bounds.
func (m *CartPage) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// SetStyles applies a new theme.
func (m *CartPage) SetStyles(styles Styles) {
	m.styles = styles
}

// Refresh fetches the cart from the server.
func (m CartPage) Refresh() tea.Cmd {
	store := m.store
	return func() tea.Msg {
		return cartRefreshedMsg{err: store.Fetch(context.Background())}
	}
}

// Update handles messages.
func (m CartPage) Update(msg tea.Msg) (CartPage, tea.Cmd) {
	switch msg := msg.(type) {
	case cartRefreshedMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
		} else {
			m.errMsg = ""
		}
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m CartPage) updateKeys(msg tea.KeyMsg) (CartPage, tea.Cmd) {
	items := m.store.Items()

	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(items)-1 {
			m.cursor++
		}

	case "+", "=":
		if m.cursor < len(items) {
			it := items[m.cursor]
			return m, m.mutate(func(ctx context.Context) error {
				return m.store.Update(ctx, it.ID, it.Quantity+1)
			})
		}
	case "-":
		if m.cursor < len(items) && items[m.cursor].Quantity > 1 {
			it := items[m.cursor]
			return m, m.mutate(func(ctx context.Context) error {
				return m.store.Update(ctx, it.ID, it.Quantity-1)
			})
		}
	case "d", "x":
		if m.cursor < len(items) {
			it := items[m.cursor]
			return m, m.mutate(func(ctx context.Context) error {
				return m.store.Remove(ctx, it.ID)
			})
		}
	case "C":
		if len(items) > 0 {
			return m, m.mutate(m.store.Clear)
		}
	case "r":
		return m, m.Refresh()
	}
	return m, nil
}

func (m CartPage) mutate(op func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return cartRefreshedMsg{err: op(context.Background())}
	}
}

func (m *CartPage) clampCursor() {
	n := m.store.Len()
	if n == 0 {
		m.cursor = 0
		return
	}
	if m.cursor >= n {
		m.cursor = n - 1
	}
}

// View renders the page.
func (m CartPage) View() string {
	items := m.store.Items()

	if len(items) == 0 {
		out := m.styles.Muted.Render("your cart is empty")
		if m.errMsg != "" {
			out += "\n" + m.styles.Error.Render(m.errMsg)
		}
		return out
	}

	table := NewSimpleTable("Cart", []string{"", "Product", "Qty", "Price"})
	for i, it := range items {
		marker := " "
		if i == m.cursor {
			marker = ">"
		}
		table.AddRow(marker, truncate(it.Product.Name, 34),
			fmt.Sprintf("%d", it.Quantity),
			fmt.Sprintf("%.2f€", it.Product.Price))
	}

	out := table.View(m.styles)
	out += m.styles.Bold.Render(fmt.Sprintf("Total: %.2f€", m.store.Total())) + "\n"
	out += m.styles.Muted.Render("+/- quantity · d remove · C clear · r refresh")
	if m.errMsg != "" {
		out += "\n" + m.styles.Error.Render(m.errMsg)
	}
	return out
}
