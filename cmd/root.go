// Package cmd contains all CLI commands for redeemctl
package cmd

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gift-redeem/redeemctl/internal/api"
	"github.com/gift-redeem/redeemctl/internal/benefit"
	"github.com/gift-redeem/redeemctl/internal/config"
	"github.com/gift-redeem/redeemctl/internal/gateway"
	"github.com/gift-redeem/redeemctl/internal/guard"
	"github.com/gift-redeem/redeemctl/internal/output"
	"github.com/gift-redeem/redeemctl/internal/session"
	"github.com/gift-redeem/redeemctl/internal/storage"
)

var (
	cfgFile      string
	verbose      bool
	quiet        bool
	apiURL       string
	cfg          *config.Config
	logger       *slog.Logger
	version      = "dev"
	currentRoute guard.Route
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "redeemctl",
	Short: "GiftRedeem benefit redemption CLI",
	Long: `redeemctl is a terminal client for the GiftRedeem benefit platform.

It manages your login session against the platform's OAuth providers and
lets you create, share, and claim benefits from the command line.

Example usage:
  redeemctl login github        # Log in via GitHub
  redeemctl benefit list        # List benefits you created
  redeemctl benefit create --title "Beta keys" --code KEY-1 --code KEY-2
  redeemctl claim <uuid>        # Claim a benefit someone shared with you
  redeemctl claims              # List benefits you claimed`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initConfig(); err != nil {
			return err
		}
		return checkRoute(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	version = v
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .redeemctl.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress informational output")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "GiftRedeem API base URL (default from config)")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("api.base_url", rootCmd.PersistentFlags().Lookup("api-url"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() error {
	var err error

	// Setup logger
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	// Load configuration
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Flag overrides
	if apiURL != "" {
		cfg.API.BaseURL = apiURL
	}

	// Update logger based on config
	if cfg.Logging.Level == "debug" || verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}

	logger.Debug("configuration loaded",
		"api_base_url", cfg.API.BaseURL,
		"state_file", cfg.Auth.StateFile,
	)

	return nil
}

// routeChain collects the route metadata from the command and its
// parents, root first, mirroring a matched navigation chain
func routeChain(cmd *cobra.Command) []guard.Meta {
	var chain []guard.Meta
	for c := cmd; c != nil; c = c.Parent() {
		m := guard.Meta{
			Title:        c.Annotations[guard.AnnotationTitle],
			RequiresAuth: c.Annotations[guard.AnnotationRequiresAuth] == "true",
		}
		if c.HasParent() {
			m.Name = c.Name()
		}
		chain = append([]guard.Meta{m}, chain...)
	}
	return chain
}

// checkRoute runs the navigation guard for the invoked command
func checkRoute(cmd *cobra.Command) error {
	currentRoute = guard.Resolve(routeChain(cmd))

	kv, err := storage.NewFileStore(cfg.Auth.StateFile)
	if err != nil {
		return err
	}
	token, ok := kv.Get(storage.KeyToken)
	authenticated := ok && token != ""

	decision := guard.Check(currentRoute, authenticated)
	if !decision.Allowed {
		return &output.CLIError{
			Summary:    "login required",
			Detail:     fmt.Sprintf("'redeemctl %s' needs an authenticated session", decision.Return),
			Suggestion: fmt.Sprintf("run 'redeemctl %s --return %q' to log in and retry", decision.Redirect, decision.Return),
			ExitCode:   output.ExitAuth,
		}
	}
	return nil
}

// app bundles the wired stores for one command invocation
type app struct {
	printer *output.Printer
	kv      *storage.FileStore
	gw      *gateway.Client
	session *session.Store
	store   *benefit.Store
}

// newApp wires the gateway and both stores from the loaded config
func newApp() (*app, error) {
	printer := output.NewPrinterWithOptions(output.PrinterOptions{
		ColorMode:    output.ColorAuto,
		ConfigColors: cfg.Output.Colors,
		Quiet:        quiet,
	})

	kv, err := storage.NewFileStore(cfg.Auth.StateFile)
	if err != nil {
		return nil, err
	}

	// The token source closes over the session store that is created
	// right below it.
	var sess *session.Store
	gw := gateway.NewClient(gateway.Options{
		BaseURL:    cfg.API.BaseURL,
		HTTPClient: &http.Client{Timeout: cfg.API.Timeout},
		Token: func() string {
			if sess == nil {
				return ""
			}
			return sess.Token()
		},
		Notifier:  printer,
		Logger:    logger,
		RateLimit: cfg.API.RateLimit,
	})

	sess = session.NewStore(api.NewAuthAPI(gw), kv, logger)
	gw.OnUnauthorized(sess.InvalidateSession)

	store := benefit.NewStore(api.NewBenefitAPI(gw), logger)

	return &app{
		printer: printer,
		kv:      kv,
		gw:      gw,
		session: sess,
		store:   store,
	}, nil
}
