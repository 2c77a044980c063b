package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vitrine/internal/config"
)

// configCmd inspects and edits the persisted preferences
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the persisted configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value and write it back to config.json.

Keys:
  api-url - backend base URL
  theme   - "light", "dark" or "" for auto`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configSetCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	path, err := config.File()
	if err != nil {
		return err
	}

	fmt.Printf("File:    %s\n", path)
	fmt.Printf("API URL: %s\n", app.Config.APIURL)
	if app.Config.Theme != "" {
		fmt.Printf("Theme:   %s\n", app.Config.Theme)
	} else {
		fmt.Println("Theme:   auto")
	}
	fmt.Printf("Timeout: %s\n", app.Config.Timeout())
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	// Reload from disk so a flag override on this run is not persisted.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	switch key {
	case "api-url":
		cfg.APIURL = value
	case "theme":
		if value != "light" && value != "dark" && value != "" {
			return fmt.Errorf("theme must be \"light\", \"dark\" or \"\"")
		}
		cfg.Theme = value
	default:
		return fmt.Errorf("unknown key %q (api-url, theme)", key)
	}

	if err := config.Save(cfg); err != nil {
		return err
	}
	fmt.Printf("✓ %s = %s\n", key, value)
	return nil
}
