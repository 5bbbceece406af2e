package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Anand-247/FE-VF/internal/checkout"
	"github.com/Anand-247/FE-VF/internal/domain"
	"github.com/Anand-247/FE-VF/internal/storefront"
	"github.com/Anand-247/FE-VF/internal/whatsapp"
)

var (
	cartQuantity int
	cartVariant  string
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Show and change the saved cart",
}

var cartListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the items in the cart",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app, _ []string) error {
		printCart(cmd.OutOrStdout(), a.shop.Cart())
		return nil
	}),
}

var cartAddCmd = &cobra.Command{
	Use:   "add <product-slug>",
	Short: "Add a product to the cart",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
		product, err := a.catalog.Product(ctx, args[0])
		if err != nil {
			return err
		}
		variant, err := productVariant(product)
		if err != nil {
			return err
		}
		line, err := a.shop.AddProduct(ctx, product, cartQuantity, variant)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s to cart (%d in cart)\n", line.Name, line.Quantity)
		return nil
	}),
}

var cartUpdateCmd = &cobra.Command{
	Use:   "update <product-id> <quantity>",
	Short: "Set the quantity of a cart item; 0 removes it",
	Args:  cobra.ExactArgs(2),
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
		qty, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid quantity %q", args[1])
		}
		variant, err := cartLineVariant(a.shop.Cart().Items, args[0])
		if err != nil {
			return err
		}
		if err := a.shop.UpdateQuantity(ctx, args[0], qty, variant); err != nil {
			return err
		}
		printCart(cmd.OutOrStdout(), a.shop.Cart())
		return nil
	}),
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove <product-id>",
	Short: "Remove an item from the cart",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
		variant, err := cartLineVariant(a.shop.Cart().Items, args[0])
		if err != nil {
			return err
		}
		if err := a.shop.RemoveFromCart(ctx, args[0], variant); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Removed from cart")
		return nil
	}),
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app, _ []string) error {
		a.shop.ClearCart(ctx)
		fmt.Fprintln(cmd.OutOrStdout(), "Cart cleared")
		return nil
	}),
}

func init() {
	cartAddCmd.Flags().IntVarP(&cartQuantity, "quantity", "q", 1, "number of units to add")
	for _, c := range []*cobra.Command{cartAddCmd, cartUpdateCmd, cartRemoveCmd} {
		c.Flags().StringVar(&cartVariant, "variant", "", "variant id or name")
	}

	cartCmd.AddCommand(cartListCmd, cartAddCmd, cartUpdateCmd, cartRemoveCmd, cartClearCmd)
	rootCmd.AddCommand(cartCmd)
}

// withApp wires the storefront for a one-shot command. Links are opened in
// the desktop browser.
func withApp(run func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, whatsapp.BrowserOpener{})
		if err != nil {
			return err
		}
		defer a.Close()
		a.bindLocal(ctx)
		return run(ctx, cmd, a, args)
	}
}

// productVariant picks the --variant the user named from the product's own
// variants.
func productVariant(product domain.Product) (*domain.Variant, error) {
	if cartVariant == "" {
		return nil, nil
	}
	for i := range product.Variants {
		v := &product.Variants[i]
		if v.ID == cartVariant || v.Name == cartVariant {
			return v.Clone(), nil
		}
	}
	return nil, storefront.ErrUnknownVariant
}

// cartLineVariant finds the stored variant of the cart line the user means.
// Without --variant the plain product line is used.
func cartLineVariant(items []domain.CartLineItem, productID string) (*domain.Variant, error) {
	if cartVariant == "" {
		return nil, nil
	}
	for _, item := range items {
		v := item.SelectedVariant
		if item.ID == productID && v != nil && (v.ID == cartVariant || v.Name == cartVariant) {
			return v, nil
		}
	}
	return nil, storefront.ErrItemNotInCart
}

func printCart(w io.Writer, view storefront.CartView) {
	if len(view.Items) == 0 {
		fmt.Fprintln(w, "Your cart is empty")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPRODUCT\tVARIANT\tQTY\tPRICE\tSUBTOTAL")
	for _, item := range view.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s%s\t%s%s\n",
			item.ID, item.Name, item.SelectedVariant.Label(), item.Quantity,
			view.Currency, checkout.FormatAmount(item.UnitPrice()),
			view.Currency, checkout.FormatAmount(item.Subtotal()))
	}
	tw.Flush()
	fmt.Fprintf(w, "\n%d items, total %s%s\n", view.ItemsCount, view.Currency, checkout.FormatAmount(view.Total))
}
