package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gift-redeem/redeemctl/internal/guard"
	"github.com/gift-redeem/redeemctl/internal/model"
	"github.com/gift-redeem/redeemctl/internal/output"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show an account summary",
	Long: `Show a one-screen summary of your account: profile, benefits you
offer, and benefits you claimed.

Examples:
  redeemctl status
  redeemctl status --json`,
	Annotations: map[string]string{
		guard.AnnotationRequiresAuth: "true",
		guard.AnnotationTitle:        "Account Status",
	},
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output the summary as JSON")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	var (
		user   *model.User
		claims []model.Claim
	)

	// The three fetches are independent, so run them together. Benefits
	// land in the store; profile and claims are captured directly.
	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		var err error
		user, err = app.session.FetchProfile(ctx)
		return err
	})
	g.Go(func() error {
		_, err := app.store.FetchMine(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		claims, err = app.store.FetchMyClaims(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return output.ClassifyError(err)
	}

	active := app.store.Active()
	expired := app.store.Expired()

	if statusJSON {
		summary := struct {
			User     *model.User   `json:"user"`
			Active   int           `json:"active_benefits"`
			Expired  int           `json:"expired_benefits"`
			Claims   []model.Claim `json:"claims"`
			Benefits int           `json:"total_benefits"`
		}{user, len(active), len(expired), claims, len(app.store.Benefits())}
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	app.printer.Header(currentRoute.Title)
	if user != nil {
		app.printer.Print("Logged in as %s", app.printer.Bold(user.Username))
	}
	app.printer.Print("Benefits offered: %d active, %d expired", len(active), len(expired))
	app.printer.Print("Benefits claimed: %d", len(claims))

	if len(active) > 0 {
		table := output.NewTableWithWriter(cmd.OutOrStdout(), []string{"", "UUID", "Title", "Claimed"})
		for _, b := range active {
			table.AddRow([]string{
				app.printer.StatusBadge(b.Status),
				b.UUID,
				b.Title,
				fmt.Sprintf("%d/%d", b.ClaimedCount, b.TotalCount),
			})
		}
		table.Render()
	}
	app.printer.PrintHints("status")
	return nil
}
