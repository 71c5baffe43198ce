package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gift-redeem/redeemctl/internal/guard"
	"github.com/gift-redeem/redeemctl/internal/model"
	"github.com/gift-redeem/redeemctl/internal/output"
)

var (
	benefitCreateTitle         string
	benefitCreateDescription   string
	benefitCreateCodes         []string
	benefitCreateExpires       string
	benefitCreateProviders     []string
	benefitCreateMinAccountAge int
)

var benefitCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new benefit",
	Long: `Create a benefit from a set of redemption codes.

Each --code flag adds one redeemable code; the number of codes is the
total claim capacity. The server assigns the UUID and the claim URL.

Examples:
  redeemctl benefit create --title "Beta keys" --code KEY-1 --code KEY-2
  redeemctl benefit create --title "Trial" --code T-1 --expires 2026-12-31 --provider github`,
	Annotations: map[string]string{
		guard.AnnotationTitle: "Create Benefit",
	},
	Args: cobra.NoArgs,
	RunE: runBenefitCreate,
}

func init() {
	benefitCreateCmd.Flags().StringVar(&benefitCreateTitle, "title", "", "benefit title (required)")
	benefitCreateCmd.Flags().StringVar(&benefitCreateDescription, "description", "", "benefit description")
	benefitCreateCmd.Flags().StringArrayVar(&benefitCreateCodes, "code", nil, "redemption code, repeatable (required)")
	benefitCreateCmd.Flags().StringVar(&benefitCreateExpires, "expires", "", "expiry date (YYYY-MM-DD)")
	benefitCreateCmd.Flags().StringSliceVar(&benefitCreateProviders, "provider", nil, "restrict claiming to these OAuth providers")
	benefitCreateCmd.Flags().IntVar(&benefitCreateMinAccountAge, "min-account-age", 0, "minimum claimer account age in days")
	benefitCreateCmd.MarkFlagRequired("title")
	benefitCreateCmd.MarkFlagRequired("code")
	benefitCmd.AddCommand(benefitCreateCmd)
}

func runBenefitCreate(cmd *cobra.Command, args []string) error {
	input := model.CreateBenefitInput{
		Title:            benefitCreateTitle,
		Description:      benefitCreateDescription,
		Codes:            benefitCreateCodes,
		AllowedProviders: benefitCreateProviders,
		MinAccountAge:    benefitCreateMinAccountAge,
	}

	if benefitCreateExpires != "" {
		expires, err := time.ParseInLocation("2006-01-02", benefitCreateExpires, time.Local)
		if err != nil {
			return &output.CLIError{
				Summary:    fmt.Sprintf("invalid expiry date %q", benefitCreateExpires),
				Suggestion: "use the YYYY-MM-DD format, for example --expires 2026-12-31",
				ExitCode:   output.ExitUsageError,
			}
		}
		// Expire at the end of the given day
		expires = expires.Add(24*time.Hour - time.Second)
		input.ExpiresAt = &expires
	}

	app, err := newApp()
	if err != nil {
		return err
	}

	result, err := app.store.Create(cmd.Context(), input)
	if err != nil {
		return output.ClassifyError(err)
	}

	b := result.Benefit
	app.printer.Success("Created benefit %s", app.printer.Bold(b.Title))
	app.printer.Print("  UUID:   %s", b.UUID)
	if b.ClaimURL != "" {
		app.printer.Print("  Claim:  %s", b.ClaimURL)
	}
	app.printer.Print("  Codes:  %d", b.TotalCount)
	if !b.ExpiresAt.IsZero() {
		app.printer.Print("  Expires: %s", b.ExpiresAt.Format("2006-01-02"))
	}
	app.printer.PrintHints("benefit create")
	return nil
}
