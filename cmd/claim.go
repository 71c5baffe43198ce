package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gift-redeem/redeemctl/internal/guard"
	"github.com/gift-redeem/redeemctl/internal/output"
)

var claimCmd = &cobra.Command{
	Use:   "claim <uuid>",
	Short: "Claim a benefit",
	Long: `Claim a benefit and reveal your redemption code.

A benefit can be claimed once per user. The server checks the benefit's
conditions, such as allowed providers and minimum account age, and
reserves one of the remaining codes for you.`,
	Annotations: map[string]string{
		guard.AnnotationRequiresAuth: "true",
		guard.AnnotationTitle:        "Claim Benefit",
	},
	Args: cobra.ExactArgs(1),
	RunE: runClaim,
}

func init() {
	rootCmd.AddCommand(claimCmd)
}

func runClaim(cmd *cobra.Command, args []string) error {
	id := args[0]
	if err := validateUUID(id); err != nil {
		return err
	}

	app, err := newApp()
	if err != nil {
		return err
	}

	// Fetch the public view first so the user sees what they are claiming.
	view, err := app.store.GetByUUID(cmd.Context(), id)
	if err != nil {
		return output.ClassifyError(err)
	}
	app.printer.Header(currentRoute.Title)
	app.printer.Print("%s", app.printer.Bold(view.Benefit.Title))
	if view.Benefit.Description != "" {
		app.printer.Print("%s", view.Benefit.Description)
	}

	result, err := app.store.ClaimBenefit(cmd.Context(), id)
	if err != nil {
		return output.ClassifyError(err)
	}

	c := result.Claim
	if c.Benefit != nil {
		app.printer.Success("Claimed %s", app.printer.Bold(c.Benefit.Title))
	} else {
		app.printer.Success("Benefit claimed")
	}
	if c.Code != "" {
		app.printer.Print("Your code: %s", app.printer.Bold(c.Code))
	}
	app.printer.PrintHints("claim")
	return nil
}
