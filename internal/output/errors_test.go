package output

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/gift-redeem/redeemctl/internal/gateway"
)

func TestCLIError_Error(t *testing.T) {
	err := &CLIError{
		Summary:    "something failed",
		Detail:     "because of reasons",
		Suggestion: "try again",
		ExitCode:   ExitGeneral,
	}

	if err.Error() != "something failed" {
		t.Errorf("Error() = %q, want %q", err.Error(), "something failed")
	}
}

func TestFormatError_AllFields(t *testing.T) {
	var stderr bytes.Buffer
	p := NewPrinterWithOptions(PrinterOptions{
		ColorMode:    ColorNever,
		ConfigColors: false,
	})
	p.err = &stderr

	cliErr := &CLIError{
		Summary:    "unknown provider: foo",
		Detail:     "the server does not list this provider",
		Suggestion: "Run 'redeemctl providers' to see what is available",
		ExitCode:   ExitUsageError,
	}

	p.FormatError(cliErr)

	out := stderr.String()
	if !strings.Contains(out, "unknown provider: foo") {
		t.Errorf("missing summary in output: %q", out)
	}
	if !strings.Contains(out, "the server does not list this provider") {
		t.Errorf("missing detail in output: %q", out)
	}
	if !strings.Contains(out, "Run 'redeemctl providers' to see what is available") {
		t.Errorf("missing suggestion in output: %q", out)
	}
}

func TestFormatError_NoDetail(t *testing.T) {
	var stderr bytes.Buffer
	p := NewPrinterWithOptions(PrinterOptions{
		ColorMode:    ColorNever,
		ConfigColors: false,
	})
	p.err = &stderr

	cliErr := &CLIError{
		Summary:    "config file not found",
		Suggestion: "Check .redeemctl.yaml syntax or use --config flag",
		ExitCode:   ExitConfig,
	}

	p.FormatError(cliErr)

	out := stderr.String()
	if !strings.Contains(out, "config file not found") {
		t.Errorf("missing summary in output: %q", out)
	}
	if strings.Contains(out, "Cause:") {
		t.Errorf("should not contain Cause line when Detail is empty: %q", out)
	}
	if !strings.Contains(out, "Check .redeemctl.yaml syntax or use --config flag") {
		t.Errorf("missing suggestion in output: %q", out)
	}
}

func TestClassifyError_Unauthorized(t *testing.T) {
	err := fmt.Errorf("fetching profile: %w", &gateway.UnauthorizedError{Msg: "session expired"})

	cliErr := ClassifyError(err)
	if cliErr.ExitCode != ExitAuth {
		t.Errorf("expected ExitAuth, got %d", cliErr.ExitCode)
	}
	if !strings.Contains(cliErr.Suggestion, "login") {
		t.Errorf("expected login suggestion, got %q", cliErr.Suggestion)
	}
}

func TestClassifyError_Network(t *testing.T) {
	err := &gateway.NetworkError{Msg: "request failed", Err: errors.New("connection refused")}

	cliErr := ClassifyError(err)
	if cliErr.ExitCode != ExitNetwork {
		t.Errorf("expected ExitNetwork, got %d", cliErr.ExitCode)
	}
	if cliErr.Detail != "connection refused" {
		t.Errorf("expected cause in detail, got %q", cliErr.Detail)
	}
}

func TestClassifyError_Domain(t *testing.T) {
	err := &gateway.DomainError{Code: 404, Msg: "benefit not found"}

	cliErr := ClassifyError(err)
	if cliErr.ExitCode != ExitDomain {
		t.Errorf("expected ExitDomain, got %d", cliErr.ExitCode)
	}
	if cliErr.Summary != "benefit not found" {
		t.Errorf("expected server message as summary, got %q", cliErr.Summary)
	}
}

func TestClassifyError_PassesThroughCLIError(t *testing.T) {
	original := &CLIError{Summary: "already structured", ExitCode: ExitUsageError}

	cliErr := ClassifyError(original)
	if cliErr != original {
		t.Error("expected the original CLIError to pass through unchanged")
	}
}

func TestClassifyError_Generic(t *testing.T) {
	cliErr := ClassifyError(errors.New("boom"))
	if cliErr.ExitCode != ExitGeneral {
		t.Errorf("expected ExitGeneral, got %d", cliErr.ExitCode)
	}
}

func TestExitCodes(t *testing.T) {
	// Verify exit code constants have expected values
	if ExitSuccess != 0 {
		t.Errorf("ExitSuccess = %d, want 0", ExitSuccess)
	}
	if ExitGeneral != 1 {
		t.Errorf("ExitGeneral = %d, want 1", ExitGeneral)
	}
	if ExitUsageError != 2 {
		t.Errorf("ExitUsageError = %d, want 2", ExitUsageError)
	}
}
