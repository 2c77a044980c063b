package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"vitrine/internal/catalog"
	"vitrine/internal/fetch"
)

// searchDebounce is the typing pause after which the search fires.
const searchDebounce = 300 * time.Millisecond

// CatalogPage is the product listing: debounced search, category filter and
// pagination. Every parameter change issues a new request through the
// generation-guarded controller, so a slow page-1 response can never
// overwrite a fast page-2 one.
type CatalogPage struct {
	svc    *catalog.Service
	styles Styles

	ctrl       *fetch.Controller[catalog.ProductList]
	params     catalog.ListParams
	categories []catalog.Category
	catIndex   int // 0 = all, i > 0 = categories[i-1]

	search    textinput.Model
	searching bool
	searchSeq int

	spin   spinner.Model
	cursor int
	width  int
	height int
}

// NewCatalogPage builds the page.
func NewCatalogPage(svc *catalog.Service, styles Styles) CatalogPage {
	search := textinput.New()
	search.Placeholder = "search products"
	search.CharLimit = 80

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = styles.Selected

	return CatalogPage{
		svc:    svc,
		styles: styles,
		ctrl:   fetch.NewController[catalog.ProductList](),
		params: catalog.DefaultListParams(),
		search: search,
		spin:   spin,
	}
}

// SetSize updates the layout bounds.
func (m *CatalogPage) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.search.Width = min(w-10, 60)
}

// SetStyles applies a new theme.
func (m *CatalogPage) SetStyles(styles Styles) {
	m.styles = styles
	m.spin.Style = styles.Selected
}

// Searching reports whether the search input owns the keyboard.
func (m CatalogPage) Searching() bool { return m.searching }

// Selected returns the product under the cursor, or nil.
func (m CatalogPage) Selected() *catalog.Product {
	snap := m.ctrl.Snapshot()
	if snap.Data == nil || m.cursor >= len(snap.Data.Products) {
		return nil
	}
	p := snap.Data.Products[m.cursor]
	return &p
}

// InitialLoad fetches the first product page and the categories in parallel.
func (m CatalogPage) InitialLoad() tea.Cmd {
	gen := m.ctrl.Begin()
	svc := m.svc
	params := m.params

	return tea.Batch(m.spin.Tick, func() tea.Msg {
		g, ctx := errgroup.WithContext(context.Background())

		var list *catalog.ProductList
		var cats []catalog.Category
		g.Go(func() error {
			l, err := svc.ListProducts(ctx, params)
			list = l
			return err
		})
		g.Go(func() error {
			c, err := svc.ListCategories(ctx)
			cats = c
			return err
		})

		err := g.Wait()
		return initialLoadedMsg{gen: gen, list: list, cats: cats, err: err}
	})
}

// OpenSelected fetches the selected product's detail and renders its
// description for the terminal.
func (m CatalogPage) OpenSelected() tea.Cmd {
	selected := m.Selected()
	if selected == nil {
		return nil
	}
	svc := m.svc
	slug := selected.Slug
	width := m.width

	return func() tea.Msg {
		p, err := svc.GetProduct(context.Background(), slug)
		if err != nil {
			return detailLoadedMsg{err: err}
		}
		return detailLoadedMsg{product: p, rendered: renderDescription(p.Description, width)}
	}
}

// load issues a listing request for the current parameters.
func (m *CatalogPage) load() tea.Cmd {
	gen := m.ctrl.Begin()
	svc := m.svc
	params := m.params

	return tea.Batch(m.spin.Tick, func() tea.Msg {
		list, err := svc.ListProducts(context.Background(), params)
		return productsLoadedMsg{gen: gen, list: list, err: err}
	})
}

// Update handles messages.
func (m CatalogPage) Update(msg tea.Msg) (CatalogPage, tea.Cmd) {
	switch msg := msg.(type) {
	case initialLoadedMsg:
		m.categories = msg.cats
		if m.ctrl.Complete(msg.gen, msg.list, msg.err) {
			m.cursor = 0
		}
		return m, nil

	case productsLoadedMsg:
		// A superseded response is discarded wholesale; the newer request
		// is still in flight and will land on its own.
		if m.ctrl.Complete(msg.gen, msg.list, msg.err) {
			m.clampCursor()
		}
		return m, nil

	case searchDebounceMsg:
		if msg.seq != m.searchSeq {
			return m, nil // user kept typing
		}
		m.params = m.params.WithSearch(m.search.Value())
		return m, m.load()

	case spinner.TickMsg:
		if !m.ctrl.Snapshot().Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m CatalogPage) updateSearch(msg tea.KeyMsg) (CatalogPage, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.search.Blur()
		return m, nil
	case "enter":
		// Fire immediately, invalidating any pending debounce tick.
		m.searching = false
		m.search.Blur()
		m.searchSeq++
		m.params = m.params.WithSearch(m.search.Value())
		return m, m.load()
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)

	m.searchSeq++
	seq := m.searchSeq
	tick := tea.Tick(searchDebounce, func(time.Time) tea.Msg {
		return searchDebounceMsg{seq: seq}
	})
	return m, tea.Batch(cmd, tick)
}

func (m CatalogPage) updateKeys(msg tea.KeyMsg) (CatalogPage, tea.Cmd) {
	snap := m.ctrl.Snapshot()

	switch msg.String() {
	case "/":
		m.searching = true
		m.search.Focus()
		return m, textinput.Blink

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if snap.Data != nil && m.cursor < len(snap.Data.Products)-1 {
			m.cursor++
		}

	case "n", "right":
		if snap.Data != nil && snap.Data.Page < snap.Data.Pages {
			m.params = m.params.WithPage(snap.Data.Page + 1)
			return m, m.load()
		}
	case "p", "left":
		if snap.Data != nil && snap.Data.Page > 1 {
			m.params = m.params.WithPage(snap.Data.Page - 1)
			return m, m.load()
		}

	case "c":
		m.catIndex = (m.catIndex + 1) % (len(m.categories) + 1)
		slug := ""
		if m.catIndex > 0 {
			slug = m.categories[m.catIndex-1].Slug
		}
		m.params = m.params.WithCategory(slug)
		return m, m.load()

	case "r":
		return m, m.load()
	}

	return m, nil
}

func (m *CatalogPage) clampCursor() {
	snap := m.ctrl.Snapshot()
	if snap.Data == nil || len(snap.Data.Products) == 0 {
		m.cursor = 0
		return
	}
	if m.cursor >= len(snap.Data.Products) {
		m.cursor = len(snap.Data.Products) - 1
	}
}

// View renders the page.
func (m CatalogPage) View() string {
	var sb strings.Builder
	snap := m.ctrl.Snapshot()

	// Filter line
	filter := "all categories"
	if m.catIndex > 0 {
		filter = m.categories[m.catIndex-1].Name
	}
	sb.WriteString(m.styles.Muted.Render("category: ") + m.styles.Bold.Render(filter))
	if m.searching {
		sb.WriteString("   " + m.search.View())
	} else if m.search.Value() != "" {
		sb.WriteString("   " + m.styles.Muted.Render("search: ") + m.styles.Bold.Render(m.search.Value()))
	}
	if snap.Loading {
		sb.WriteString("   " + m.spin.View())
	}
	sb.WriteString("\n\n")

	switch {
	case snap.Err != nil:
		sb.WriteString(m.styles.Error.Render("could not load products"))
		sb.WriteString("\n" + m.styles.Muted.Render(snap.Err.Error()) + "\n")
		sb.WriteString(m.styles.Muted.Render("press r to retry") + "\n")

	case snap.Data == nil:
		sb.WriteString(m.styles.Muted.Render("loading catalog...") + "\n")

	case len(snap.Data.Products) == 0:
		sb.WriteString(m.styles.Muted.Render("no products match") + "\n")

	default:
		for i, p := range snap.Data.Products {
			line := fmt.Sprintf("%-34s %8.2f€  %s", truncate(p.Name, 34), p.Price, m.stockLabel(p))
			if i == m.cursor {
				sb.WriteString(m.styles.Selected.Render("> " + line))
			} else {
				sb.WriteString(m.styles.Body.Render("  " + line))
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n" + m.styles.Muted.Render(
			fmt.Sprintf("page %d/%d · %d products · n/p to flip · enter for detail · a to add",
				snap.Data.Page, snap.Data.Pages, snap.Data.Total)))
		sb.WriteString("\n")
	}

	return sb.String()
}

func (m CatalogPage) stockLabel(p catalog.Product) string {
	if !p.InStock() {
		return m.styles.Error.Render("out of stock")
	}
	if p.Stock <= 3 {
		return m.styles.Warning.Render(fmt.Sprintf("%d left", p.Stock))
	}
	return m.styles.Muted.Render("in stock")
}

func truncate(s string, l int) string {
	if len(s) > l {
		return s[:l-3] + "..."
	}
	return s
}
