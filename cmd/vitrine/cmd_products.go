package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"vitrine/internal/catalog"
)

var (
	productsPage     int
	productsLimit    int
	productsCategory string
	productsSearch   string
)

// productsCmd lists and inspects the catalog
var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Browse the product catalog",
	Long: `List products with pagination, search and category filtering.

Examples:
  vitrine products
  vitrine products --search clavier --page 2
  vitrine products --category peripheriques
  vitrine products show clavier-mecanique`,
	RunE: runProductsList,
}

// productsShowCmd shows one product by slug
var productsShowCmd = &cobra.Command{
	Use:   "show <slug>",
	Short: "Show one product in detail",
	Args:  cobra.ExactArgs(1),
	RunE:  runProductsShow,
}

// categoriesCmd lists the categories
var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List product categories",
	RunE:  runCategories,
}

func init() {
	productsCmd.Flags().IntVar(&productsPage, "page", 1, "page number")
	productsCmd.Flags().IntVar(&productsLimit, "limit", catalog.DefaultLimit, "items per page")
	productsCmd.Flags().StringVar(&productsCategory, "category", "", "filter by category slug")
	productsCmd.Flags().StringVar(&productsSearch, "search", "", "search by product name")

	productsCmd.AddCommand(productsShowCmd)
}

func runProductsList(cmd *cobra.Command, args []string) error {
	params := catalog.ListParams{
		Page:     productsPage,
		Limit:    productsLimit,
		Category: productsCategory,
		Search:   productsSearch,
	}

	list, err := app.Catalog.ListProducts(cmd.Context(), params)
	if err != nil {
		return err
	}

	if len(list.Products) == 0 {
		fmt.Println("No products found.")
		return nil
	}

	fmt.Printf("%-30s %-25s %10s %7s  %s\n", "Name", "Slug", "Price", "Stock", "Category")
	fmt.Println(strings.Repeat("-", 85))
	for _, p := range list.Products {
		stock := fmt.Sprintf("%d", p.Stock)
		if !p.InStock() {
			stock = "out"
		}
		fmt.Printf("%-30s %-25s %9.2f€ %7s  %s\n",
			truncate(p.Name, 30), truncate(p.Slug, 25), p.Price, stock, p.CategoryName)
	}
	fmt.Printf("\nPage %d/%d (%d products)\n", list.Page, list.Pages, list.Total)
	return nil
}

func runProductsShow(cmd *cobra.Command, args []string) error {
	p, err := app.Catalog.GetProduct(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	fmt.Println(p.Name)
	fmt.Println(strings.Repeat("=", len(p.Name)))
	fmt.Printf("Price:    %.2f€\n", p.Price)
	if p.InStock() {
		fmt.Printf("Stock:    %d\n", p.Stock)
	} else {
		fmt.Println("Stock:    out of stock")
	}
	if p.CategoryName != "" {
		fmt.Printf("Category: %s\n", p.CategoryName)
	}
	if p.Description != "" {
		fmt.Printf("\n%s\n", p.Description)
	}
	return nil
}

func runCategories(cmd *cobra.Command, args []string) error {
	cats, err := app.Catalog.ListCategories(cmd.Context())
	if err != nil {
		return err
	}

	if len(cats) == 0 {
		fmt.Println("No categories.")
		return nil
	}
	for _, c := range cats {
		fmt.Printf("%-25s %s\n", c.Slug, c.Name)
	}
	return nil
}

func truncate(s string, l int) string {
	if len(s) > l {
		return s[:l-3] + "..."
	}
	return s
}
