package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gift-redeem/redeemctl/internal/guard"
	"github.com/gift-redeem/redeemctl/internal/output"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List available login providers",
	Long:  `List the OAuth providers the server accepts for login.`,
	Annotations: map[string]string{
		guard.AnnotationTitle: "Providers",
	},
	Args: cobra.NoArgs,
	RunE: runProviders,
}

func init() {
	rootCmd.AddCommand(providersCmd)
}

func runProviders(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	providers, err := app.session.FetchProviders(cmd.Context())
	if err != nil {
		return output.ClassifyError(err)
	}
	if len(providers) == 0 {
		app.printer.Info("No login providers configured on the server")
		return nil
	}

	app.printer.Header(currentRoute.Title)
	table := output.NewTableWithWriter(cmd.OutOrStdout(), []string{"Name", "Display Name"})
	for _, p := range providers {
		table.AddRow([]string{p.Name, p.DisplayName})
	}
	table.Render()
	app.printer.PrintHints("providers")
	return nil
}
