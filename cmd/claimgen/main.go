package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/v0xg/claimgen/internal/config"
	"github.com/v0xg/claimgen/internal/domain"
	"github.com/v0xg/claimgen/internal/logging"
)

var (
	cfgFile  string
	email    string
	password string
	headful  bool
	verbose  bool

	cfg    *config.Config
	logger *zap.Logger
)

func main() {
	// Load .env file if present (silently ignore if not found)
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "claimgen",
		Short: "Find HSA/FSA eligible Amazon purchases and generate reimbursement claims",
		Long: `claimgen signs in to your Amazon account, checks the items of a year's orders
against the HealthEquity HSA and FSA eligibility lists, and builds filled
reimbursement claim PDFs with the order invoice attached.

Example:
  claimgen check --year 2023
  claimgen claim --order-id 111-2222222 --title "Digital Thermometer" --type fsa \
    --date "August 5, 2023" --total '$12.00' --profile profile.yaml`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(cfgFile)
			if err != nil {
				return err
			}
			if headful {
				cfg.Browser.Headless = false
			}

			level := cfg.Log.Level
			if verbose {
				level = "debug"
			}
			logger, err = logging.New(level, cfg.Log.Development)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (default: claimgen.yaml in ., ./config or ~/.config/claimgen)")
	flags.StringVar(&email, "email", "", "Amazon account email (default: CLAIMGEN_AMAZON_EMAIL)")
	flags.StringVar(&password, "password", "", "Amazon account password (default: CLAIMGEN_AMAZON_PASSWORD)")
	flags.BoolVar(&headful, "headful", false, "Show the browser window")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Show detailed progress")

	rootCmd.AddCommand(newLoginCmd(), newOrdersCmd(), newCheckCmd(), newClaimCmd())
	return rootCmd
}

// credentials merges flags over configuration
func credentials() domain.Credentials {
	creds := domain.Credentials{Email: cfg.Amazon.Email, Password: cfg.Amazon.Password}
	if email != "" {
		creds.Email = email
	}
	if password != "" {
		creds.Password = password
	}
	return creds
}

// step prints a progress line in the "→ doing... done" style and runs fn.
// Progress goes to stderr so stdout stays clean for piped results.
func step(msg string, fn func() (string, error)) error {
	fmt.Fprintf(os.Stderr, "→ %s... ", msg)
	detail, err := fn()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed")
		return err
	}
	if detail != "" {
		fmt.Fprintf(os.Stderr, "done (%s)\n", detail)
	} else {
		fmt.Fprintln(os.Stderr, "done")
	}
	return nil
}
