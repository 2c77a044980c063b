package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"vitrine/internal/config"
	"vitrine/internal/logging"
)

var (
	// Global flags
	verbose    bool
	apiURL     string
	timeoutSec int

	// Process-wide state, built in PersistentPreRunE
	logger *zap.Logger
	app    *App
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "vitrine",
	Short: "vitrine - terminal storefront client",
	Long: `vitrine is a terminal client for the storefront REST API.

Browse the catalog, manage your cart and place orders from the command
line, or run without arguments for the interactive browser. Admin
accounts get a back office under 'vitrine admin'.

The session token and preferences live in a .vitrine directory next to
the current working directory (falling back to your home directory).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v (using defaults)\n", err)
		}
		if apiURL != "" {
			cfg.APIURL = apiURL
		}
		if timeoutSec > 0 {
			cfg.TimeoutSeconds = timeoutSec
		}

		dir, err := config.Dir()
		if err != nil {
			return fmt.Errorf("resolve config directory: %w", err)
		}

		logger, err = logging.New(dir, verbose)
		if err != nil {
			// Logging must never block the storefront itself.
			fmt.Fprintf(os.Stderr, "warning: file logging disabled: %v\n", err)
			logger = zap.NewNop()
		}

		app, err = newApp(cfg, dir, logger)
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: launch the interactive browser
		return runBrowse(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "backend base URL (overrides config)")
	rootCmd.PersistentFlags().IntVar(&timeoutSec, "timeout", 0, "request timeout in seconds (overrides config)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(productsCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(cartCmd)
	rootCmd.AddCommand(checkoutCmd)
	rootCmd.AddCommand(ordersCmd)
	rootCmd.AddCommand(adminCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
