package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var cartAddQuantity int

// cartCmd manages the shopping cart. Every subcommand requires a session.
var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Manage your shopping cart",
	Long: `Show and mutate the server-side cart.

All totals come from the server. Examples:
  vitrine cart
  vitrine cart add 7 --qty 2
  vitrine cart update 3 5
  vitrine cart remove 3
  vitrine cart clear`,
	RunE: runCartShow,
}

var cartAddCmd = &cobra.Command{
	Use:   "add <product-id>",
	Short: "Add a product to the cart",
	Args:  cobra.ExactArgs(1),
	RunE:  runCartAdd,
}

var cartUpdateCmd = &cobra.Command{
	Use:   "update <item-id> <quantity>",
	Short: "Change a cart line's quantity",
	Args:  cobra.ExactArgs(2),
	RunE:  runCartUpdate,
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove <item-id>",
	Short: "Remove a line from the cart",
	Args:  cobra.ExactArgs(1),
	RunE:  runCartRemove,
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart",
	RunE:  runCartClear,
}

func init() {
	cartAddCmd.Flags().IntVar(&cartAddQuantity, "qty", 1, "quantity to add")

	cartCmd.AddCommand(cartAddCmd)
	cartCmd.AddCommand(cartUpdateCmd)
	cartCmd.AddCommand(cartRemoveCmd)
	cartCmd.AddCommand(cartClearCmd)
}

func runCartShow(cmd *cobra.Command, args []string) error {
	if err := app.Cart.Fetch(cmd.Context()); err != nil {
		return err
	}
	printCart()
	return nil
}

func runCartAdd(cmd *cobra.Command, args []string) error {
	productID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("product id must be a number: %q", args[0])
	}

	if err := app.Cart.Add(cmd.Context(), productID, cartAddQuantity); err != nil {
		return err
	}
	fmt.Println("✓ Added to cart")
	printCart()
	return nil
}

func runCartUpdate(cmd *cobra.Command, args []string) error {
	itemID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("item id must be a number: %q", args[0])
	}
	quantity, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("quantity must be a number: %q", args[1])
	}

	if err := app.Cart.Update(cmd.Context(), itemID, quantity); err != nil {
		return err
	}
	printCart()
	return nil
}

func runCartRemove(cmd *cobra.Command, args []string) error {
	itemID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("item id must be a number: %q", args[0])
	}

	if err := app.Cart.Remove(cmd.Context(), itemID); err != nil {
		return err
	}
	fmt.Println("✓ Removed")
	printCart()
	return nil
}

func runCartClear(cmd *cobra.Command, args []string) error {
	if err := app.Cart.Clear(cmd.Context()); err != nil {
		return err
	}
	fmt.Println("✓ Cart emptied")
	return nil
}

func printCart() {
	items := app.Cart.Items()
	if len(items) == 0 {
		fmt.Println("Your cart is empty.")
		return
	}

	fmt.Printf("\n%-5s %-30s %5s %10s\n", "Item", "Product", "Qty", "Price")
	fmt.Println(strings.Repeat("-", 54))
	for _, it := range items {
		fmt.Printf("%-5d %-30s %5d %9.2f€\n",
			it.ID, truncate(it.Product.Name, 30), it.Quantity, it.Product.Price)
	}
	fmt.Println(strings.Repeat("-", 54))
	// The total is the server's number, never recomputed from the lines.
	fmt.Printf("%42s %9.2f€\n", "Total:", app.Cart.Total())
}
