package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gift-redeem/redeemctl/internal/guard"
	"github.com/gift-redeem/redeemctl/internal/model"
	"github.com/gift-redeem/redeemctl/internal/output"
)

var (
	benefitListActive  bool
	benefitListExpired bool
	benefitListJSON    bool
)

var benefitListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your benefits",
	Long: `List the benefits you created, newest first.

By default all of your benefits are shown. Use --active or --expired to
narrow the list to one section.`,
	Annotations: map[string]string{
		guard.AnnotationTitle: "My Benefits",
	},
	Args: cobra.NoArgs,
	RunE: runBenefitList,
}

func init() {
	benefitListCmd.Flags().BoolVar(&benefitListActive, "active", false, "show only active benefits")
	benefitListCmd.Flags().BoolVar(&benefitListExpired, "expired", false, "show only expired or exhausted benefits")
	benefitListCmd.Flags().BoolVar(&benefitListJSON, "json", false, "output benefits as JSON")
	benefitListCmd.MarkFlagsMutuallyExclusive("active", "expired")
	benefitCmd.AddCommand(benefitListCmd)
}

func runBenefitList(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	if _, err := app.store.FetchMine(cmd.Context()); err != nil {
		return output.ClassifyError(err)
	}

	var benefits []model.Benefit
	switch {
	case benefitListActive:
		benefits = app.store.Active()
	case benefitListExpired:
		benefits = app.store.Expired()
	default:
		benefits = app.store.Benefits()
	}

	if benefitListJSON {
		data, err := json.MarshalIndent(benefits, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	if len(benefits) == 0 {
		app.printer.Info("No benefits to show")
		app.printer.PrintHints("benefit list")
		return nil
	}

	app.printer.Header(currentRoute.Title)
	table := output.NewTableWithWriter(cmd.OutOrStdout(), []string{"", "UUID", "Title", "Claimed", "Expires", "Status"})
	for _, b := range benefits {
		table.AddRow([]string{
			app.printer.StatusBadge(b.Status),
			b.UUID,
			b.Title,
			fmt.Sprintf("%d/%d", b.ClaimedCount, b.TotalCount),
			formatExpiry(b.ExpiresAt),
			b.Status,
		})
	}
	table.Render()
	app.printer.PrintHints("benefit list")
	return nil
}

func formatExpiry(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Format("2006-01-02")
}
