package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"vitrine/internal/cart"
	"vitrine/internal/config"
)

var errFake = errors.New("backend unreachable")

func contains(s, sub string) bool { return strings.Contains(s, sub) }

func testApp() App {
	return NewApp(Deps{
		Cart:   cart.NewStore(nil, nil),
		Config: config.Config{Theme: "light"},
	})
}

func TestApp_ConfigReloadRethemes(t *testing.T) {
	a := testApp()
	if a.styles.Theme.IsDark {
		t.Fatal("precondition: light theme")
	}

	model, _ := a.Update(ConfigReloadedMsg{Config: config.Config{Theme: "dark"}})
	a = model.(App)

	if !a.styles.Theme.IsDark {
		t.Error("theme must follow the reloaded config")
	}
	if !contains(a.View(), "configuration reloaded") {
		t.Error("status line must mention the reload")
	}
}

func TestApp_TabSwitchTriggersLoad(t *testing.T) {
	a := testApp()

	model, cmd := a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}})
	a = model.(App)
	if a.page != pageCart {
		t.Errorf("page = %v, want cart", a.page)
	}
	if cmd == nil {
		t.Error("entering the cart page must refresh it")
	}
}

func TestApp_QuitKey(t *testing.T) {
	a := testApp()
	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q must quit")
	}
}

func TestThemeFor(t *testing.T) {
	if ThemeFor("light").IsDark {
		t.Error("light must not be dark")
	}
	if !ThemeFor("dark").IsDark {
		t.Error("dark must be dark")
	}
}

func TestSimpleTable_View(t *testing.T) {
	table := NewSimpleTable("Cart", []string{"Product", "Qty"})
	table.AddRow("Clavier mécanique", "2")
	table.AddRow("Souris sans fil", "1")

	out := table.View(NewStyles(LightTheme()))
	for _, want := range []string{"Cart", "Product", "Qty", "Clavier mécanique", "Souris sans fil"} {
		if !contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestSimpleTable_EmptyRendersNothing(t *testing.T) {
	table := NewSimpleTable("Empty", []string{"A"})
	if out := table.View(NewStyles(LightTheme())); out != "" {
		t.Errorf("empty table rendered %q", out)
	}
}

func TestRenderDescription(t *testing.T) {
	if got := renderDescription("", 80); got != "" {
		t.Errorf("empty description rendered %q", got)
	}

	out := renderDescription("# Clavier\n\nSwitches **rouges**.", 80)
	if !contains(out, "Clavier") {
		t.Errorf("rendered description lost content:\n%s", out)
	}
}
