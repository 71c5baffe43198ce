package output

import (
	"errors"
	"fmt"

	"github.com/fatih/color"

	"github.com/gift-redeem/redeemctl/internal/gateway"
)

// Exit code constants
const (
	ExitSuccess    = 0
	ExitGeneral    = 1
	ExitUsageError = 2
	ExitNetwork    = 3
	ExitDomain     = 4
	ExitAuth       = 5
	ExitConfig     = 6
)

// CLIError is a structured error with user-facing context
type CLIError struct {
	Summary    string
	Detail     string
	Suggestion string
	ExitCode   int
}

// Error implements the error interface, returning the summary
func (e *CLIError) Error() string {
	return e.Summary
}

// ClassifyError maps a gateway failure to a structured CLI error. Other
// errors pass through with the general exit code.
func ClassifyError(err error) *CLIError {
	var cliErr *CLIError
	var netErr *gateway.NetworkError
	var domErr *gateway.DomainError
	var authErr *gateway.UnauthorizedError

	switch {
	case errors.As(err, &cliErr):
		return cliErr
	case errors.As(err, &authErr):
		return &CLIError{
			Summary:    authErr.Msg,
			Detail:     "the server rejected the session token",
			Suggestion: "run 'redeemctl login' to start a new session",
			ExitCode:   ExitAuth,
		}
	case errors.As(err, &netErr):
		return &CLIError{
			Summary:    netErr.Msg,
			Detail:     detail(netErr.Err),
			Suggestion: "check api.base_url in your configuration and that the server is reachable",
			ExitCode:   ExitNetwork,
		}
	case errors.As(err, &domErr):
		return &CLIError{
			Summary:  domErr.Msg,
			Detail:   fmt.Sprintf("server error code %d", domErr.Code),
			ExitCode: ExitDomain,
		}
	default:
		return &CLIError{
			Summary:  err.Error(),
			ExitCode: ExitGeneral,
		}
	}
}

func detail(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// FormatError prints a structured error message to stderr
func (p *Printer) FormatError(e *CLIError) {
	if p.useColors {
		color.New(color.FgRed, color.Bold).Fprintf(p.err, "Error: %s\n", e.Summary)
		if e.Detail != "" {
			fmt.Fprintf(p.err, "  Cause: %s\n", e.Detail)
		}
		if e.Suggestion != "" {
			color.New(color.FgCyan).Fprintf(p.err, "  Suggestion: %s\n", e.Suggestion)
		}
	} else {
		fmt.Fprintf(p.err, "[ERROR] %s\n", e.Summary)
		if e.Detail != "" {
			fmt.Fprintf(p.err, "  Cause: %s\n", e.Detail)
		}
		if e.Suggestion != "" {
			fmt.Fprintf(p.err, "  Suggestion: %s\n", e.Suggestion)
		}
	}
}
