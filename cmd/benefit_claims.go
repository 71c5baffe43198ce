package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gift-redeem/redeemctl/internal/guard"
	"github.com/gift-redeem/redeemctl/internal/output"
)

var benefitClaimsJSON bool

var benefitClaimsCmd = &cobra.Command{
	Use:   "claims <uuid>",
	Short: "List who claimed a benefit",
	Long:  `List the claims recorded against one of your benefits.`,
	Annotations: map[string]string{
		guard.AnnotationTitle: "Benefit Claims",
	},
	Args: cobra.ExactArgs(1),
	RunE: runBenefitClaims,
}

func init() {
	benefitClaimsCmd.Flags().BoolVar(&benefitClaimsJSON, "json", false, "output claims as JSON")
	benefitCmd.AddCommand(benefitClaimsCmd)
}

func runBenefitClaims(cmd *cobra.Command, args []string) error {
	id := args[0]
	if err := validateUUID(id); err != nil {
		return err
	}

	app, err := newApp()
	if err != nil {
		return err
	}

	claims, err := app.store.FetchBenefitClaims(cmd.Context(), id)
	if err != nil {
		return output.ClassifyError(err)
	}

	if benefitClaimsJSON {
		data, err := json.MarshalIndent(claims, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	if len(claims) == 0 {
		app.printer.Info("No claims yet")
		return nil
	}

	app.printer.Header(currentRoute.Title)
	table := output.NewTableWithWriter(cmd.OutOrStdout(), []string{"Claimed At", "User", "Provider"})
	for _, c := range claims {
		username := ""
		if c.User != nil {
			username = c.User.Username
		}
		table.AddRow([]string{c.ClaimedAt.Format("2006-01-02 15:04"), username, c.OAuthProvider})
	}
	table.Render()
	app.printer.PrintHints("benefit claims")
	return nil
}
