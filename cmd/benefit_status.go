package cmd

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/gift-redeem/redeemctl/internal/guard"
	"github.com/gift-redeem/redeemctl/internal/model"
	"github.com/gift-redeem/redeemctl/internal/output"
)

var benefitStatuses = []string{model.StatusActive, model.StatusPaused, model.StatusDeleted}

var benefitStatusCmd = &cobra.Command{
	Use:   "status <uuid> <status>",
	Short: "Change a benefit's status",
	Long: fmt.Sprintf(`Change the status of one of your benefits.

Valid statuses: %s. The verb spellings pause, resume, and delete are
accepted as shorthands. The expired status is derived by the server and
cannot be set directly.`, strings.Join(benefitStatuses, ", ")),
	Annotations: map[string]string{
		guard.AnnotationTitle: "My Benefits",
	},
	Args: cobra.ExactArgs(2),
	RunE: runBenefitStatus,
}

func init() {
	benefitCmd.AddCommand(benefitStatusCmd)
}

// statusVerbs maps convenience verb spellings onto the canonical statuses.
var statusVerbs = map[string]string{
	"pause":  model.StatusPaused,
	"resume": model.StatusActive,
	"delete": model.StatusDeleted,
}

func runBenefitStatus(cmd *cobra.Command, args []string) error {
	id, status := args[0], args[1]

	if err := validateUUID(id); err != nil {
		return err
	}
	if canonical, ok := statusVerbs[status]; ok {
		status = canonical
	}
	if !validStatus(status) {
		return &output.CLIError{
			Summary:    fmt.Sprintf("invalid status %q", status),
			Suggestion: fmt.Sprintf("use one of: %s", strings.Join(benefitStatuses, ", ")),
			ExitCode:   output.ExitUsageError,
		}
	}

	app, err := newApp()
	if err != nil {
		return err
	}

	updated, err := app.store.UpdateStatus(cmd.Context(), id, status)
	if err != nil {
		return output.ClassifyError(err)
	}

	if updated {
		app.printer.Success("Benefit %s is now %s", id, status)
	} else {
		app.printer.Success("Benefit status set to %s", status)
	}
	app.printer.PrintHints("benefit status")
	return nil
}

// validateUUID rejects malformed benefit identifiers before a request is made
func validateUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return &output.CLIError{
			Summary:    fmt.Sprintf("invalid benefit uuid %q", id),
			Suggestion: "run 'redeemctl benefit list' to find the uuid",
			ExitCode:   output.ExitUsageError,
		}
	}
	return nil
}

func validStatus(status string) bool {
	for _, s := range benefitStatuses {
		if s == status {
			return true
		}
	}
	return false
}
