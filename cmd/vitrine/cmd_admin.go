package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"vitrine/internal/admin"
	"vitrine/internal/order"
)

var (
	productName        string
	productDescription string
	productPrice       float64
	productImageURL    string
	productStock       int
	productActive      bool
	productCategoryID  int

	categoryName        string
	categoryDescription string
)

// adminCmd is the back office. The server rejects non-admin sessions with a
// 403; the subcommands just surface it.
var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Back-office commands (admin accounts only)",
	Long: `Manage the shop: dashboard stats, products, categories and orders.

Available subcommands:
  stats      - Show dashboard aggregates
  products   - Create, update, delete or bulk-import products
  categories - Create, update or delete categories
  orders     - List all orders and advance their status`,
}

var adminStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show dashboard aggregates",
	RunE:  runAdminStats,
}

var adminProductsCmd = &cobra.Command{
	Use:   "products",
	Short: "Manage products",
}

var adminProductsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a product",
	Long: `Create a product. The server derives the slug from the name.

Example:
  vitrine admin products create --name "Clavier mécanique" --price 89.90 --stock 12`,
	RunE: runAdminProductsCreate,
}

var adminProductsUpdateCmd = &cobra.Command{
	Use:   "update <product-id>",
	Short: "Update a product (only the flags you pass are changed)",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdminProductsUpdate,
}

var adminProductsDeleteCmd = &cobra.Command{
	Use:   "delete <product-id>",
	Short: "Delete a product",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdminProductsDelete,
}

var adminProductsImportCmd = &cobra.Command{
	Use:   "import <file.yaml>",
	Short: "Bulk-create products from a YAML file",
	Long: `Create products in bulk from a YAML file of the form:

  products:
    - name: Clavier mécanique
      price: 89.90
      stock: 12

Entries are created one by one; a rejected entry does not stop the rest.`,
	Args: cobra.ExactArgs(1),
	RunE: runAdminProductsImport,
}

var adminCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Manage categories",
}

var adminCategoriesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a category",
	RunE:  runAdminCategoriesCreate,
}

var adminCategoriesUpdateCmd = &cobra.Command{
	Use:   "update <category-id>",
	Short: "Rename a category",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdminCategoriesUpdate,
}

var adminCategoriesDeleteCmd = &cobra.Command{
	Use:   "delete <category-id>",
	Short: "Delete a category",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdminCategoriesDelete,
}

var adminOrdersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List every order in the shop",
	RunE:  runAdminOrdersList,
}

var adminOrdersStatusCmd = &cobra.Command{
	Use:   "status <order-id> <status>",
	Short: "Advance an order's status",
	Long: fmt.Sprintf(`Move an order to a new status.

The progression is pending → paid → shipped → delivered; cancelled is
reachable from any non-terminal status. Valid statuses: %s.`, statusList()),
	Args: cobra.ExactArgs(2),
	RunE: runAdminOrdersStatus,
}

func init() {
	addProductFlags := func(cmd *cobra.Command) {
		cmd.Flags().StringVar(&productName, "name", "", "product name")
		cmd.Flags().StringVar(&productDescription, "description", "", "product description (markdown)")
		cmd.Flags().Float64Var(&productPrice, "price", 0, "unit price")
		cmd.Flags().StringVar(&productImageURL, "image-url", "", "image URL")
		cmd.Flags().IntVar(&productStock, "stock", 0, "units in stock")
		cmd.Flags().BoolVar(&productActive, "active", true, "whether the product is listed")
		cmd.Flags().IntVar(&productCategoryID, "category-id", 0, "category ID")
	}
	addProductFlags(adminProductsCreateCmd)
	addProductFlags(adminProductsUpdateCmd)

	addCategoryFlags := func(cmd *cobra.Command) {
		cmd.Flags().StringVar(&categoryName, "name", "", "category name")
		cmd.Flags().StringVar(&categoryDescription, "description", "", "category description")
	}
	addCategoryFlags(adminCategoriesCreateCmd)
	addCategoryFlags(adminCategoriesUpdateCmd)

	adminProductsCmd.AddCommand(adminProductsCreateCmd)
	adminProductsCmd.AddCommand(adminProductsUpdateCmd)
	adminProductsCmd.AddCommand(adminProductsDeleteCmd)
	adminProductsCmd.AddCommand(adminProductsImportCmd)

	adminCategoriesCmd.AddCommand(adminCategoriesCreateCmd)
	adminCategoriesCmd.AddCommand(adminCategoriesUpdateCmd)
	adminCategoriesCmd.AddCommand(adminCategoriesDeleteCmd)

	adminOrdersCmd.AddCommand(adminOrdersStatusCmd)

	adminCmd.AddCommand(adminStatsCmd)
	adminCmd.AddCommand(adminProductsCmd)
	adminCmd.AddCommand(adminCategoriesCmd)
	adminCmd.AddCommand(adminOrdersCmd)
}

func runAdminStats(cmd *cobra.Command, args []string) error {
	stats, err := app.Admin.GetStats(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Println("Shop Dashboard")
	fmt.Println(strings.Repeat("=", 30))
	fmt.Printf("Orders:   %d\n", stats.TotalOrders)
	fmt.Printf("Revenue:  %.2f€\n", stats.TotalRevenue)
	fmt.Printf("Users:    %d\n", stats.TotalUsers)
	fmt.Printf("Products: %d\n", stats.TotalProducts)
	return nil
}

// productInputFromFlags builds a partial payload: only flags the user passed
// on the command line end up in the request body.
func productInputFromFlags(cmd *cobra.Command) admin.ProductInput {
	input := admin.ProductInput{}
	if cmd.Flags().Changed("name") {
		input.Name = productName
	}
	if cmd.Flags().Changed("description") {
		input.Description = productDescription
	}
	if cmd.Flags().Changed("price") {
		price := productPrice
		input.Price = &price
	}
	if cmd.Flags().Changed("image-url") {
		input.ImageURL = productImageURL
	}
	if cmd.Flags().Changed("stock") {
		stock := productStock
		input.Stock = &stock
	}
	if cmd.Flags().Changed("active") {
		active := productActive
		input.IsActive = &active
	}
	if cmd.Flags().Changed("category-id") {
		id := productCategoryID
		input.CategoryID = &id
	}
	return input
}

func runAdminProductsCreate(cmd *cobra.Command, args []string) error {
	p, err := app.Admin.CreateProduct(cmd.Context(), productInputFromFlags(cmd))
	if err != nil {
		return err
	}
	fmt.Printf("✓ Product #%d created (slug: %s)\n", p.ID, p.Slug)
	return nil
}

func runAdminProductsUpdate(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("product id must be a number: %q", args[0])
	}

	p, err := app.Admin.UpdateProduct(cmd.Context(), id, productInputFromFlags(cmd))
	if err != nil {
		return err
	}
	fmt.Printf("✓ Product #%d updated\n", p.ID)
	return nil
}

func runAdminProductsDelete(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("product id must be a number: %q", args[0])
	}

	if err := app.Admin.DeleteProduct(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Printf("✓ Product #%d deleted\n", id)
	return nil
}

func runAdminProductsImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	result, err := app.Admin.ImportProducts(cmd.Context(), f)
	if err != nil {
		return err
	}

	fmt.Printf("✓ %d created, %d failed\n", len(result.Created), len(result.Failed))
	for _, failure := range result.Failed {
		fmt.Printf("  entry %d (%s): %v\n", failure.Index+1, failure.Name, failure.Err)
	}
	if len(result.Failed) > 0 {
		return fmt.Errorf("%d entries were rejected", len(result.Failed))
	}
	return nil
}

func runAdminCategoriesCreate(cmd *cobra.Command, args []string) error {
	c, err := app.Admin.CreateCategory(cmd.Context(), admin.CategoryInput{
		Name:        categoryName,
		Description: categoryDescription,
	})
	if err != nil {
		return err
	}
	fmt.Printf("✓ Category #%d created (slug: %s)\n", c.ID, c.Slug)
	return nil
}

func runAdminCategoriesUpdate(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("category id must be a number: %q", args[0])
	}

	c, err := app.Admin.UpdateCategory(cmd.Context(), id, admin.CategoryInput{
		Name:        categoryName,
		Description: categoryDescription,
	})
	if err != nil {
		return err
	}
	fmt.Printf("✓ Category #%d updated\n", c.ID)
	return nil
}

func runAdminCategoriesDelete(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("category id must be a number: %q", args[0])
	}

	if err := app.Admin.DeleteCategory(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Printf("✓ Category #%d deleted\n", id)
	return nil
}

func runAdminOrdersList(cmd *cobra.Command, args []string) error {
	orders, err := app.Admin.ListOrders(cmd.Context())
	if err != nil {
		return err
	}

	if len(orders) == 0 {
		fmt.Println("No orders.")
		return nil
	}

	fmt.Printf("%-8s %-12s %10s  %-19s %s\n", "Order", "Status", "Total", "Placed", "Next")
	fmt.Println(strings.Repeat("-", 70))
	for _, o := range orders {
		fmt.Printf("#%-7d %-12s %9.2f€  %-19s %s\n",
			o.ID, o.Status, o.Total, o.CreatedAt.Format("2006-01-02 15:04"), nextStatuses(o.Status))
	}
	return nil
}

func runAdminOrdersStatus(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("order id must be a number: %q", args[0])
	}
	next := order.Status(args[1])

	// The transition check needs the order's current status.
	orders, err := app.Admin.ListOrders(cmd.Context())
	if err != nil {
		return err
	}
	var current *order.Order
	for i := range orders {
		if orders[i].ID == id {
			current = &orders[i]
			break
		}
	}
	if current == nil {
		return fmt.Errorf("order #%d not found", id)
	}

	updated, err := app.Admin.UpdateOrderStatus(cmd.Context(), *current, next)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Order #%d: %s → %s\n", updated.ID, current.Status, updated.Status)
	return nil
}

// nextStatuses renders the statuses an order can still move to.
func nextStatuses(from order.Status) string {
	var next []string
	for _, s := range order.Statuses {
		if from.CanTransition(s) {
			next = append(next, string(s))
		}
	}
	if len(next) == 0 {
		return "(terminal)"
	}
	return strings.Join(next, ", ")
}

func statusList() string {
	parts := make([]string, len(order.Statuses))
	for i, s := range order.Statuses {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}
