package ui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"vitrine/internal/order"
)

// OrdersPage shows the order history. The expanded view renders the frozen
// unit prices, not today's catalog prices.
type OrdersPage struct {
	svc    *order.Service
	styles Styles

	orders   []order.Order
	cursor   int
	expanded bool
	errMsg   string
	width    int
	height   int
}

// NewOrdersPage builds the page.
func NewOrdersPage(svc *order.Service, styles Styles) OrdersPage {
	return OrdersPage{svc: svc, styles: styles}
}

// SetSize updates the layout bounds.
func (m *OrdersPage) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// SetStyles applies a new theme.
func (m *OrdersPage) SetStyles(styles Styles) {
	m.styles = styles
}

// Load fetches the order history.
func (m OrdersPage) Load() tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		orders, err := svc.List(context.Background())
		return ordersLoadedMsg{orders: orders, err: err}
	}
}

// Update handles messages.
func (m OrdersPage) Update(msg tea.Msg) (OrdersPage, tea.Cmd) {
	switch msg := msg.(type) {
	case ordersLoadedMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.orders = msg.orders
		if m.cursor >= len(m.orders) {
			m.cursor = 0
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				m.expanded = false
			}
		case "down", "j":
			if m.cursor < len(m.orders)-1 {
				m.cursor++
				m.expanded = false
			}
		case "enter":
			m.expanded = !m.expanded
		case "r":
			return m, m.Load()
		}
	}
	return m, nil
}

// View renders the page.
func (m OrdersPage) View() string {
	if m.errMsg != "" {
		return m.styles.Error.Render("could not load orders") + "\n" +
			m.styles.Muted.Render(m.errMsg)
	}
	if len(m.orders) == 0 {
		return m.styles.Muted.Render("no orders yet")
	}

	table := NewSimpleTable("Orders", []string{"", "Order", "Status", "Total", "Placed"})
	for i, o := range m.orders {
		marker := " "
		if i == m.cursor {
			marker = ">"
		}
		table.AddRow(marker,
			fmt.Sprintf("#%d", o.ID),
			string(o.Status),
			fmt.Sprintf("%.2f€", o.Total),
			o.CreatedAt.Format("2006-01-02 15:04"))
	}

	out := table.View(m.styles)

	if m.expanded && m.cursor < len(m.orders) {
		o := m.orders[m.cursor]
		out += "\n" + m.styles.Title.Render(fmt.Sprintf("Order #%d", o.ID)) + "\n"
		out += m.styles.Muted.Render("ship to: "+o.ShippingAddress) + "\n"
		for _, it := range o.Items {
			out += m.styles.Body.Render(fmt.Sprintf("  %dx %-30s %8.2f€",
				it.Quantity, truncate(it.Product.Name, 30), it.PriceAtTime)) + "\n"
		}
		out += m.styles.Bold.Render(fmt.Sprintf("  Total: %.2f€", o.Total)) + "\n"
	}

	out += "\n" + m.styles.Muted.Render("enter details · r refresh")
	return out
}
