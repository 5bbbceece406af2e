package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Anand-247/FE-VF/internal/api"
	"github.com/Anand-247/FE-VF/internal/checkout"
)

var productQuery = api.ProductQuery{Page: 1, Limit: 12}

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List catalog products",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app, _ []string) error {
		page, err := a.catalog.Products(ctx, productQuery)
		if err != nil {
			return err
		}

		currency := a.cfg.Shop.Currency
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "SLUG\tNAME\tPRICE\tSTOCK")
		for _, p := range page.Products {
			fmt.Fprintf(tw, "%s\t%s\t%s%s\t%s\n", p.Slug, p.Name, currency, checkout.FormatAmount(p.Price), p.StockStatus())
		}
		tw.Flush()
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d products\n", page.TotalCount())
		return nil
	}),
}

func init() {
	f := productsCmd.Flags()
	f.StringVarP(&productQuery.Search, "search", "s", "", "search text")
	f.StringVar(&productQuery.Category, "category", "", "category slug")
	f.Float64Var(&productQuery.MinPrice, "min-price", 0, "minimum price")
	f.Float64Var(&productQuery.MaxPrice, "max-price", 0, "maximum price")
	f.BoolVar(&productQuery.InStock, "in-stock", false, "only products in stock")
	f.BoolVar(&productQuery.Featured, "featured", false, "only featured products")
	f.StringVar(&productQuery.SortBy, "sort-by", "", "sort field (price, name, createdAt)")
	f.StringVar(&productQuery.SortOrder, "sort-order", "", "asc or desc")
	f.IntVar(&productQuery.Page, "page", 1, "page number")
	f.IntVar(&productQuery.Limit, "limit", 12, "products per page")

	rootCmd.AddCommand(productsCmd)
}
