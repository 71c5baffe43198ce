package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gift-redeem/redeemctl/internal/guard"
	"github.com/gift-redeem/redeemctl/internal/output"
)

var showJSON bool

var showCmd = &cobra.Command{
	Use:   "show <uuid>",
	Short: "Show a benefit by its claim uuid",
	Long: `Show the public view of a benefit, including whether you could
claim it. This works without logging in; the claim status is only
meaningful when a session is active.`,
	Annotations: map[string]string{
		guard.AnnotationTitle: "Claim Benefit",
	},
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "output the benefit as JSON")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	id := args[0]
	if err := validateUUID(id); err != nil {
		return err
	}

	app, err := newApp()
	if err != nil {
		return err
	}

	view, err := app.store.GetByUUID(cmd.Context(), id)
	if err != nil {
		return output.ClassifyError(err)
	}

	if showJSON {
		data, err := json.MarshalIndent(view, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	b := view.Benefit
	app.printer.Header(b.Title)
	if b.Description != "" {
		app.printer.Print("%s", b.Description)
	}
	app.printer.Print("%s %s", app.printer.StatusBadge(b.Status), b.Status)
	app.printer.Print("Remaining: %d of %d", b.TotalCount-b.ClaimedCount, b.TotalCount)
	app.printer.Print("Expires:   %s", formatExpiry(b.ExpiresAt))
	if b.Creator != nil {
		app.printer.Print("Offered by: %s", b.Creator.Username)
	}
	if len(b.AllowedProviders) > 0 {
		app.printer.Print("Providers: %v", b.AllowedProviders)
	}
	if view.ClaimStatus != "" {
		app.printer.Print("Claim status: %s", view.ClaimStatus)
	}
	app.printer.PrintHints("show")
	return nil
}
