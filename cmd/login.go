package cmd

import (
	"bufio"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gift-redeem/redeemctl/internal/callback"
	"github.com/gift-redeem/redeemctl/internal/guard"
	"github.com/gift-redeem/redeemctl/internal/model"
	"github.com/gift-redeem/redeemctl/internal/output"
)

var loginCmd = &cobra.Command{
	Use:   "login [provider]",
	Short: "Log in through an OAuth provider",
	Long: `Start an OAuth login against the GiftRedeem platform.

The command fetches the available providers, prints the authorization
URL, and waits for the provider to redirect back to a local listener.
With --manual the redirect step is skipped and the authorization code is
read from stdin instead.

Examples:
  redeemctl login                    # List providers if more than one
  redeemctl login github             # Log in via GitHub
  redeemctl login github --manual    # Paste the code by hand
  redeemctl login github --return 'benefit list'`,
	Annotations: map[string]string{
		guard.AnnotationTitle: "Login",
	},
	Args: cobra.MaximumNArgs(1),
	RunE: runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)

	loginCmd.Flags().Bool("manual", false, "read the authorization code from stdin instead of listening")
	loginCmd.Flags().String("return", "", "command to run after logging in")
	loginCmd.Flags().Duration("timeout", 3*time.Minute, "how long to wait for the provider redirect")
	loginCmd.Flags().String("listen", "", "callback listener address (default from config)")
}

func runLogin(cmd *cobra.Command, args []string) error {
	manual, _ := cmd.Flags().GetBool("manual")
	returnPath, _ := cmd.Flags().GetString("return")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	listen, _ := cmd.Flags().GetString("listen")
	if listen == "" {
		listen = cfg.Auth.CallbackListen
	}

	app, err := newApp()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	providers, err := app.session.FetchProviders(ctx)
	if err != nil {
		return err
	}
	if len(providers) == 0 {
		return &output.CLIError{
			Summary:  "no login providers available",
			Detail:   "the server returned an empty provider list",
			ExitCode: output.ExitGeneral,
		}
	}

	provider, err := pickProvider(app.printer, providers, args)
	if err != nil {
		return err
	}

	authURL, err := app.session.LoginURL(ctx, provider)
	if err != nil {
		return err
	}

	var loggedIn *model.User
	if manual {
		loggedIn, err = loginManual(ctx, cmd, app, provider, authURL)
	} else {
		loggedIn, err = loginWithListener(ctx, app, provider, authURL, listen)
	}
	if err != nil {
		return err
	}

	app.printer.Success("Logged in as %s via %s", app.printer.Bold(loggedIn.Username), provider)

	if returnPath != "" {
		app.printer.Info("Continue with: redeemctl %s", returnPath)
		return nil
	}
	app.printer.PrintHints("login")
	return nil
}

// pickProvider resolves the provider argument against the fetched list.
// A single configured provider is used without being named explicitly.
func pickProvider(printer *output.Printer, providers []model.Provider, args []string) (string, error) {
	if len(args) == 1 {
		name := args[0]
		for _, p := range providers {
			if p.Name == name {
				return name, nil
			}
		}
		return "", &output.CLIError{
			Summary:    fmt.Sprintf("unknown provider %q", name),
			Detail:     "the server does not list this provider",
			Suggestion: "run 'redeemctl providers' to see what is available",
			ExitCode:   output.ExitUsageError,
		}
	}

	if len(providers) == 1 {
		return providers[0].Name, nil
	}

	names := make([]string, len(providers))
	for i, p := range providers {
		names[i] = p.Name
	}
	printer.Header("Available Providers")
	for _, p := range providers {
		printer.Print("  %s (%s)", p.Name, p.DisplayName)
	}
	return "", &output.CLIError{
		Summary:    "provider required",
		Suggestion: fmt.Sprintf("run 'redeemctl login <provider>' with one of: %s", strings.Join(names, ", ")),
		ExitCode:   output.ExitUsageError,
	}
}

// loginWithListener runs the local redirect listener flow
func loginWithListener(ctx context.Context, a *app, provider, authURL, listen string) (*model.User, error) {
	listener := callback.NewListener(listen, logger)
	if err := listener.Start(); err != nil {
		return nil, err
	}
	defer listener.Close()

	// Point the provider redirect at the local listener
	loginURL := authURL
	if u, err := url.Parse(authURL); err == nil {
		q := u.Query()
		q.Set("redirect_uri", listener.RedirectURL(provider))
		u.RawQuery = q.Encode()
		loginURL = u.String()
	}

	a.printer.Info("Open this URL in your browser to log in:")
	a.printer.Print("  %s", loginURL)
	a.printer.Info("Waiting for the provider redirect...")

	res, err := listener.Wait(ctx)
	if err != nil {
		return nil, err
	}
	if res.Provider != provider {
		a.printer.Warning("redirect arrived for provider %q, expected %q", res.Provider, provider)
	}

	result, err := a.session.HandleCallback(ctx, provider, res.Code, res.State)
	if err != nil {
		return nil, err
	}
	return &result.User, nil
}

// loginManual reads a pasted authorization code and verifies it. The
// state round trip is not possible in this mode, so the client-side
// verify endpoint is used.
func loginManual(ctx context.Context, cmd *cobra.Command, a *app, provider, authURL string) (*model.User, error) {
	a.printer.Info("Open this URL in your browser to log in:")
	a.printer.Print("  %s", authURL)
	a.printer.Info("Paste the authorization code and press enter:")

	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("reading authorization code: %w", err)
	}
	code := strings.TrimSpace(line)
	if code == "" {
		return nil, &output.CLIError{
			Summary:  "empty authorization code",
			ExitCode: output.ExitUsageError,
		}
	}

	result, err := a.session.VerifyCode(ctx, provider, code)
	if err != nil {
		return nil, err
	}
	return &result.User, nil
}
