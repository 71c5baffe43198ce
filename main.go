// Package main is the entry point for the redeemctl CLI
package main

import (
	"os"

	"github.com/gift-redeem/redeemctl/cmd"
	"github.com/gift-redeem/redeemctl/internal/output"
)

// version is set at build time via ldflags
var version = "dev"

func main() {
	cmd.SetVersion(version)
	if err := cmd.Execute(); err != nil {
		cliErr := output.ClassifyError(err)
		output.NewPrinter(output.ResolveColors(output.ColorAuto, true)).FormatError(cliErr)
		os.Exit(cliErr.ExitCode)
	}
}
