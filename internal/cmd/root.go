package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "WoodCraft storefront - cart, profile and WhatsApp checkout",
	Long: `WoodCraft storefront keeps the customer's cart and profile, reads the
shop catalog from the WoodCraft API and hands orders to the shop over WhatsApp.

It can run as an HTTP server for the web frontend, or be used directly from
the command line to manage the cart and check out.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default ./config.yaml)")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
