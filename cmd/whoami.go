package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gift-redeem/redeemctl/internal/guard"
	"github.com/gift-redeem/redeemctl/internal/output"
)

var whoamiJSON bool

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user profile",
	Long: `Fetch and display the profile of the current user, including the
OAuth accounts linked to it.`,
	Annotations: map[string]string{
		guard.AnnotationRequiresAuth: "true",
		guard.AnnotationTitle:        "Profile",
	},
	Args: cobra.NoArgs,
	RunE: runWhoami,
}

func init() {
	whoamiCmd.Flags().BoolVar(&whoamiJSON, "json", false, "output profile as JSON")
	rootCmd.AddCommand(whoamiCmd)
}

func runWhoami(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	user, err := app.session.FetchProfile(ctx)
	if err != nil {
		return output.ClassifyError(err)
	}
	if user == nil {
		return &output.CLIError{
			Summary:    "no profile available",
			Suggestion: "Run 'redeemctl login' to authenticate first.",
			ExitCode:   output.ExitAuth,
		}
	}

	if whoamiJSON {
		data, err := json.MarshalIndent(user, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	app.printer.Header(currentRoute.Title)
	app.printer.Print("%s  %s", app.printer.Bold(user.Username), app.printer.Dim(fmt.Sprintf("(id %d)", user.ID)))
	if !user.CreatedAt.IsZero() {
		app.printer.Print("Joined %s", user.CreatedAt.Format("2006-01-02"))
	}
	if len(user.Accounts) > 0 {
		table := output.NewTableWithWriter(cmd.OutOrStdout(), []string{"Provider", "Account", "Linked"})
		for _, acct := range user.Accounts {
			table.AddRow([]string{acct.Provider, acct.ProviderUsername, acct.CreatedAt.Format("2006-01-02")})
		}
		table.Render()
	}
	app.printer.PrintHints("whoami")
	return nil
}
