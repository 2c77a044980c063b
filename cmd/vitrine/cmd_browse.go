package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"vitrine/cmd/vitrine/ui"
	"vitrine/internal/config"
)

// browseCmd launches the interactive catalog browser
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the shop interactively",
	Long: `Launch the full-screen interactive browser.

Keys:
  /         search (debounced as you type)
  c         cycle category filter
  n / p     next / previous page
  enter     open the selected product
  a         add the selected product to the cart
  1 2 3     switch between catalog, cart and orders
  q         quit`,
	RunE: runBrowse,
}

func runBrowse(cmd *cobra.Command, args []string) error {
	// Validate any stored token so the header can show who is signed in. A
	// stale token self-clears; browsing works anonymously either way.
	if app.Session.HasToken() {
		_ = app.Session.FetchMe(cmd.Context())
	}

	model := ui.NewApp(ui.Deps{
		Catalog: app.Catalog,
		Cart:    app.Cart,
		Session: app.Session,
		Orders:  app.Orders,
		Config:  app.Config,
		Logger:  logger,
	})

	program := tea.NewProgram(model, tea.WithAltScreen())

	// Re-theme live when config.json changes on disk.
	if path, err := config.File(); err == nil {
		watcher, werr := config.Watch(path, logger, func(cfg config.Config) {
			program.Send(ui.ConfigReloadedMsg{Config: cfg})
		})
		if werr == nil {
			defer watcher.Close()
		}
	}

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("browser exited: %w", err)
	}
	return nil
}
