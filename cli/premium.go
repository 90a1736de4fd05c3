package cli

import (
	"fmt"
	"net/http"

	"github.com/binhbb2204/Anime-Hub-Group13/pkg/models"
	"github.com/spf13/cobra"
)

var premiumCmd = &cobra.Command{
	Use:   "premium",
	Short: "Manage your premium subscription",
}

var premiumStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show subscription status",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient(true)
		if err != nil {
			return err
		}
		var sub models.Subscription
		if err := client.do(http.MethodPost, "/billing/check-subscription", nil, &sub); err != nil {
			printError(fmt.Sprintf("Failed to check subscription: %v", err))
			return err
		}
		if !sub.Subscribed {
			printInfo("You are on the free plan")
			fmt.Println("Upgrade: animehub premium subscribe")
			return nil
		}
		printSuccess(fmt.Sprintf("Premium active (%s)", sub.Tier))
		if sub.CurrentPeriodEnd != nil {
			fmt.Printf("Renews or ends on %s\n", sub.CurrentPeriodEnd.Format("2006-01-02"))
		}
		return nil
	},
}

var premiumSubscribeCmd = &cobra.Command{
	Use:   "subscribe",
	Short: "Start a premium checkout",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient(true)
		if err != nil {
			return err
		}
		var res models.RedirectResponse
		if err := client.do(http.MethodPost, "/billing/create-checkout", nil, &res); err != nil {
			printError(fmt.Sprintf("Failed to create checkout: %v", err))
			return err
		}
		fmt.Println("Open this link to complete your purchase:")
		fmt.Printf("  %s\n", res.URL)
		fmt.Println("\nThen run: animehub premium status")
		return nil
	},
}

var premiumPortalCmd = &cobra.Command{
	Use:   "portal",
	Short: "Open the billing portal",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient(true)
		if err != nil {
			return err
		}
		var res models.RedirectResponse
		if err := client.do(http.MethodPost, "/billing/customer-portal", nil, &res); err != nil {
			if apiErr, ok := err.(*apiError); ok && apiErr.Status == http.StatusNotFound {
				printInfo("No billing account yet. Subscribe first: animehub premium subscribe")
				return nil
			}
			printError(fmt.Sprintf("Failed to open portal: %v", err))
			return err
		}
		fmt.Println("Manage your subscription here:")
		fmt.Printf("  %s\n", res.URL)
		return nil
	},
}

func init() {
	premiumCmd.AddCommand(premiumStatusCmd)
	premiumCmd.AddCommand(premiumSubscribeCmd)
	premiumCmd.AddCommand(premiumPortalCmd)
}
