package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"vitrine/internal/catalog"
)

func testPage() CatalogPage {
	m := NewCatalogPage(nil, NewStyles(LightTheme()))
	m.SetSize(100, 30)
	return m
}

func pageOf(products ...catalog.Product) *catalog.ProductList {
	return &catalog.ProductList{Products: products, Total: len(products), Page: 1, Pages: 1}
}

// Parameters change from A to B, B's response arrives first: when A's
// response finally lands it must be dropped, not rendered.
func TestCatalogPage_StaleResponseDiscarded(t *testing.T) {
	m := testPage()

	genA := m.ctrl.Begin()
	genB := m.ctrl.Begin()

	listB := &catalog.ProductList{
		Products: []catalog.Product{{ID: 2, Name: "Souris sans fil"}},
		Total:    1, Page: 2, Pages: 2,
	}
	m, _ = m.Update(productsLoadedMsg{gen: genB, list: listB})

	listA := &catalog.ProductList{
		Products: []catalog.Product{{ID: 1, Name: "Clavier mécanique"}},
		Total:    1, Page: 1, Pages: 2,
	}
	m, _ = m.Update(productsLoadedMsg{gen: genA, list: listA})

	snap := m.ctrl.Snapshot()
	if snap.Data == nil || snap.Data.Page != 2 {
		t.Fatalf("displayed page = %+v, want page 2 (the latest request)", snap.Data)
	}
	if snap.Data.Products[0].ID != 2 {
		t.Errorf("displayed product = %+v", snap.Data.Products[0])
	}
}

func TestCatalogPage_DebounceIgnoresStaleSeq(t *testing.T) {
	m := testPage()
	m.searchSeq = 5

	m, cmd := m.Update(searchDebounceMsg{seq: 3})
	if cmd != nil {
		t.Fatal("a superseded debounce tick must not fire a request")
	}

	m, cmd = m.Update(searchDebounceMsg{seq: 5})
	if cmd == nil {
		t.Fatal("the latest debounce tick must fire the request")
	}
	if m.params.Page != 1 {
		t.Errorf("search must reset to page 1, got %d", m.params.Page)
	}
}

func TestCatalogPage_TypingResetsDebounce(t *testing.T) {
	m := testPage()
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	if !m.Searching() {
		t.Fatal("/ must focus the search input")
	}

	before := m.searchSeq
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	if m.searchSeq != before+1 {
		t.Errorf("seq = %d, want %d", m.searchSeq, before+1)
	}
	if cmd == nil {
		t.Error("each keystroke must schedule a new debounce tick")
	}
}

func TestCatalogPage_CategoryCycleResetsPage(t *testing.T) {
	m := testPage()
	m.categories = []catalog.Category{{ID: 1, Name: "Périphériques", Slug: "peripheriques"}}
	m.params = m.params.WithPage(3)

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	if cmd == nil {
		t.Fatal("changing the filter must issue a request")
	}
	if m.params.Category != "peripheriques" {
		t.Errorf("category = %q", m.params.Category)
	}
	if m.params.Page != 1 {
		t.Errorf("page = %d, want 1 after a filter change", m.params.Page)
	}
}

func TestCatalogPage_SelectedFollowsCursor(t *testing.T) {
	m := testPage()
	gen := m.ctrl.Begin()
	m, _ = m.Update(productsLoadedMsg{gen: gen, list: pageOf(
		catalog.Product{ID: 1, Name: "Clavier", Slug: "clavier"},
		catalog.Product{ID: 2, Name: "Souris", Slug: "souris"},
	)})

	if got := m.Selected(); got == nil || got.ID != 1 {
		t.Fatalf("selected = %+v, want product 1", got)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if got := m.Selected(); got == nil || got.ID != 2 {
		t.Fatalf("selected = %+v, want product 2", got)
	}
}

func TestCatalogPage_CursorClampedOnShorterPage(t *testing.T) {
	m := testPage()

	gen := m.ctrl.Begin()
	m, _ = m.Update(productsLoadedMsg{gen: gen, list: pageOf(
		catalog.Product{ID: 1}, catalog.Product{ID: 2}, catalog.Product{ID: 3},
	)})
	m.cursor = 2

	gen = m.ctrl.Begin()
	m, _ = m.Update(productsLoadedMsg{gen: gen, list: pageOf(catalog.Product{ID: 4})})

	if m.cursor != 0 {
		t.Errorf("cursor = %d, want clamped to 0", m.cursor)
	}
}

func TestCatalogPage_ErrorStateOffersRetry(t *testing.T) {
	m := testPage()
	gen := m.ctrl.Begin()
	m, _ = m.Update(productsLoadedMsg{gen: gen, err: errFake})

	view := m.View()
	if !contains(view, "could not load products") {
		t.Errorf("view missing error line:\n%s", view)
	}
	if !contains(view, "r to retry") {
		t.Errorf("view missing retry hint:\n%s", view)
	}
}
