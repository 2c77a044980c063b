package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var checkoutAddress string

// checkoutCmd turns the cart into an order
var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Place an order from the current cart",
	Long: `Place an order from the server-side cart.

The server freezes each line's unit price at this moment, decrements
stock and empties the cart. A shipping address is required:
  vitrine checkout --address "12 rue de la Paix, 75002 Paris"`,
	RunE: runCheckout,
}

// ordersCmd shows order history
var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List your orders",
	RunE:  runOrdersList,
}

var ordersShowCmd = &cobra.Command{
	Use:   "show <order-id>",
	Short: "Show one order with its frozen line prices",
	Args:  cobra.ExactArgs(1),
	RunE:  runOrdersShow,
}

func init() {
	checkoutCmd.Flags().StringVar(&checkoutAddress, "address", "", "shipping address (required)")

	ordersCmd.AddCommand(ordersShowCmd)
}

func runCheckout(cmd *cobra.Command, args []string) error {
	if checkoutAddress == "" {
		return fmt.Errorf("--address is required")
	}

	o, err := app.Orders.Create(cmd.Context(), checkoutAddress)
	if err != nil {
		return err
	}

	// The server emptied the cart as part of the order; drop the mirror.
	app.Cart.Reset()

	fmt.Printf("✓ Order #%d placed\n", o.ID)
	fmt.Printf("  Total:  %.2f€\n", o.Total)
	fmt.Printf("  Status: %s\n", o.Status)
	return nil
}

func runOrdersList(cmd *cobra.Command, args []string) error {
	orders, err := app.Orders.List(cmd.Context())
	if err != nil {
		return err
	}

	if len(orders) == 0 {
		fmt.Println("No orders yet.")
		return nil
	}

	fmt.Printf("%-8s %-12s %10s  %-19s %s\n", "Order", "Status", "Total", "Placed", "Items")
	fmt.Println(strings.Repeat("-", 65))
	for _, o := range orders {
		fmt.Printf("#%-7d %-12s %9.2f€  %-19s %d\n",
			o.ID, o.Status, o.Total, o.CreatedAt.Format("2006-01-02 15:04"), len(o.Items))
	}
	return nil
}

func runOrdersShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("order id must be a number: %q", args[0])
	}

	o, err := app.Orders.Get(cmd.Context(), id)
	if err != nil {
		return err
	}

	fmt.Printf("Order #%d\n", o.ID)
	fmt.Printf("Status:  %s\n", o.Status)
	fmt.Printf("Placed:  %s\n", o.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Printf("Address: %s\n", o.ShippingAddress)
	fmt.Println()

	// Unit prices are the ones frozen at checkout, not today's catalog prices.
	fmt.Printf("%-30s %5s %12s\n", "Product", "Qty", "Unit price")
	fmt.Println(strings.Repeat("-", 50))
	for _, it := range o.Items {
		fmt.Printf("%-30s %5d %11.2f€\n", truncate(it.Product.Name, 30), it.Quantity, it.PriceAtTime)
	}
	fmt.Println(strings.Repeat("-", 50))
	fmt.Printf("%37s %11.2f€\n", "Total:", o.Total)
	return nil
}
