package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Anand-247/FE-VF/internal/checkout"
	"github.com/Anand-247/FE-VF/internal/domain"
	"github.com/Anand-247/FE-VF/internal/storefront"
)

var customer domain.UserProfile

var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Send the cart to the shop on WhatsApp",
	Long: `Compose the order message for everything in the cart and open the shop's
WhatsApp chat with it. Customer details not given as flags are taken from
the saved profile; the details used are saved for next time.`,
	Args: cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app, _ []string) error {
		res, err := a.shop.CheckoutCart(ctx, customerDetails(a))
		if err != nil {
			return err
		}
		printCheckout(cmd.OutOrStdout(), res, a.cfg.Shop.Currency)
		return nil
	}),
}

var buyNowCmd = &cobra.Command{
	Use:   "buy-now <product-slug>",
	Short: "Order a single product on WhatsApp without using the cart",
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
		res, err := a.shop.BuyNow(ctx, args[0], cartQuantity, variant, customerDetails(a))
		if err != nil {
			return err
		}
		printCheckout(cmd.OutOrStdout(), res, a.cfg.Shop.Currency)
		return nil
	}),
}

func init() {
	for _, c := range []*cobra.Command{checkoutCmd, buyNowCmd} {
		c.Flags().StringVar(&customer.Name, "name", "", "customer name")
		c.Flags().StringVar(&customer.Phone, "phone", "", "10-digit phone number")
		c.Flags().StringVar(&customer.Address, "address", "", "delivery address")
		c.Flags().StringVar(&customer.Email, "email", "", "email (optional)")
	}
	buyNowCmd.Flags().IntVarP(&cartQuantity, "quantity", "q", 1, "number of units")
	buyNowCmd.Flags().StringVar(&cartVariant, "variant", "", "variant id or name")

	rootCmd.AddCommand(checkoutCmd, buyNowCmd)
}

// customerDetails fills fields missing from the flags with the saved profile.
func customerDetails(a *app) domain.UserProfile {
	user := customer
	saved, ok := a.profile.Current()
	if !ok {
		return user
	}
	if user.Name == "" {
		user.Name = saved.Name
	}
	if user.Phone == "" {
		user.Phone = saved.Phone
	}
	if user.Address == "" {
		user.Address = saved.Address
	}
	if user.Email == "" {
		user.Email = saved.Email
	}
	return user
}

func printCheckout(w io.Writer, res storefront.CheckoutResult, currency string) {
	if currency == "" {
		currency = checkout.DefaultCurrency
	}
	fmt.Fprintf(w, "Order %s (%s%s) sent to WhatsApp\n", res.OrderRef, currency, checkout.FormatAmount(res.Total))
	fmt.Fprintf(w, "If the chat did not open, use this link:\n%s\n", res.Link)
}
