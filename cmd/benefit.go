package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gift-redeem/redeemctl/internal/guard"
)

var benefitCmd = &cobra.Command{
	Use:   "benefit",
	Short: "Manage your benefits",
	Long: `Create and manage the benefits you offer.

All benefit subcommands operate on benefits owned by the logged-in
user and require an active session.`,
	Annotations: map[string]string{
		guard.AnnotationRequiresAuth: "true",
		guard.AnnotationTitle:        "My Benefits",
	},
}

func init() {
	rootCmd.AddCommand(benefitCmd)
}
