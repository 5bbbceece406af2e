package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Anand-247/FE-VF/internal/profile"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show and change the saved customer details",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the saved customer details",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app, _ []string) error {
		user, ok := a.profile.Current()
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "No saved profile")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Name:    %s\nPhone:   %s\nAddress: %s\n", user.Name, user.Phone, user.Address)
		if user.Email != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Email:   %s\n", user.Email)
		}
		return nil
	}),
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Save customer details used at checkout",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app, _ []string) error {
		user := profile.Normalize(customerDetails(a))
		if err := profile.Validate(user); err != nil {
			return err
		}
		if err := a.profile.SaveUser(ctx, user); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Profile saved")
		return nil
	}),
}

var profileClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget the saved customer details",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app, _ []string) error {
		if err := a.profile.ClearUser(ctx); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Profile cleared")
		return nil
	}),
}

func init() {
	profileSetCmd.Flags().StringVar(&customer.Name, "name", "", "customer name")
	profileSetCmd.Flags().StringVar(&customer.Phone, "phone", "", "10-digit phone number")
	profileSetCmd.Flags().StringVar(&customer.Address, "address", "", "delivery address")
	profileSetCmd.Flags().StringVar(&customer.Email, "email", "", "email (optional)")

	profileCmd.AddCommand(profileShowCmd, profileSetCmd, profileClearCmd)
	rootCmd.AddCommand(profileCmd)
}
