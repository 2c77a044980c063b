package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"vitrine/internal/catalog"
)

// DetailPage shows a single product, with its markdown description rendered
// for the terminal.
type DetailPage struct {
	styles   Styles
	viewport viewport.Model

	product  *catalog.Product
	rendered string
}

// NewDetailPage builds the page.
func NewDetailPage(styles Styles) DetailPage {
	return DetailPage{
		styles:   styles,
		viewport: viewport.New(80, 20),
	}
}

// SetSize updates the viewport bounds.
func (m *DetailPage) SetSize(w, h int) {
	m.viewport.Width = w
	m.viewport.Height = h - 2
	m.refresh()
}

// SetStyles applies a new theme.
func (m *DetailPage) SetStyles(styles Styles) {
	m.styles = styles
	m.refresh()
}

// Product returns the displayed product, or nil.
func (m DetailPage) Product() *catalog.Product {
	return m.product
}

// Update handles messages.
func (m DetailPage) Update(msg tea.Msg) (DetailPage, tea.Cmd) {
	if loaded, ok := msg.(detailLoadedMsg); ok {
		if loaded.err == nil {
			m.product = loaded.product
			m.rendered = loaded.rendered
			m.refresh()
			m.viewport.GotoTop()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *DetailPage) refresh() {
	if m.product == nil {
		return
	}
	p := m.product

	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render(p.Name) + "\n")
	sb.WriteString(m.styles.Bold.Render(fmt.Sprintf("%.2f€", p.Price)))
	if p.InStock() {
		sb.WriteString(m.styles.Muted.Render(fmt.Sprintf("   %d in stock", p.Stock)))
	} else {
		sb.WriteString("   " + m.styles.Error.Render("out of stock"))
	}
	if p.CategoryName != "" {
		sb.WriteString("   " + m.styles.Badge.Render(p.CategoryName))
	}
	sb.WriteString("\n")
	if m.rendered != "" {
		sb.WriteString(m.rendered)
	}
	m.viewport.SetContent(sb.String())
}

// View renders the page.
func (m DetailPage) View() string {
	if m.product == nil {
		return m.styles.Muted.Render("no product selected")
	}
	return m.viewport.View() + "\n" + m.styles.Muted.Render("esc back · a add to cart")
}

// renderDescription turns the product's markdown description into styled
// terminal output. On any renderer failure the raw text is shown instead.
func renderDescription(markdown string, width int) string {
	if markdown == "" {
		return ""
	}
	if width < 20 {
		width = 80
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-4),
	)
	if err != nil {
		return markdown
	}
	out, err := r.Render(markdown)
	if err != nil {
		return markdown
	}
	return out
}
