package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gift-redeem/redeemctl/internal/guard"
	"github.com/gift-redeem/redeemctl/internal/output"
)

var claimsJSON bool

var claimsCmd = &cobra.Command{
	Use:   "claims",
	Short: "List the benefits you claimed",
	Long:  `List your claims, newest first, with the redeemed codes.`,
	Annotations: map[string]string{
		guard.AnnotationRequiresAuth: "true",
		guard.AnnotationTitle:        "My Claims",
	},
	Args: cobra.NoArgs,
	RunE: runClaims,
}

func init() {
	claimsCmd.Flags().BoolVar(&claimsJSON, "json", false, "output claims as JSON")
	rootCmd.AddCommand(claimsCmd)
}

func runClaims(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	claims, err := app.store.FetchMyClaims(cmd.Context())
	if err != nil {
		return output.ClassifyError(err)
	}

	if claimsJSON {
		data, err := json.MarshalIndent(claims, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	if len(claims) == 0 {
		app.printer.Info("You have not claimed any benefits yet")
		app.printer.PrintHints("claims")
		return nil
	}

	app.printer.Header(currentRoute.Title)
	table := output.NewTableWithWriter(cmd.OutOrStdout(), []string{"Claimed At", "Benefit", "Code"})
	for _, c := range claims {
		title := ""
		if c.Benefit != nil {
			title = c.Benefit.Title
		}
		table.AddRow([]string{c.ClaimedAt.Format("2006-01-02 15:04"), title, c.Code})
	}
	table.Render()
	app.printer.PrintHints("claims")
	return nil
}
