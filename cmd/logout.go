package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gift-redeem/redeemctl/internal/guard"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the local session",
	Long: `Clear the stored token and user profile.

Logout is purely local: no request is sent to the server and the command
cannot fail. Logging out while already logged out is a no-op.`,
	Annotations: map[string]string{
		guard.AnnotationTitle: "Logout",
	},
	Args: cobra.NoArgs,
	RunE: runLogout,
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

func runLogout(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	wasAuthenticated := app.session.IsAuthenticated()
	app.session.Logout()

	if wasAuthenticated {
		app.printer.Success("Logged out")
	} else {
		app.printer.Info("Not logged in")
	}
	app.printer.PrintHints("logout")
	return nil
}
