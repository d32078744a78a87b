package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "reporter",
	Short: "vn-reporter - Vietnamese watchlist report bot",
	Long: `vn-reporter Unified CLI

Fetches a watchlist of HOSE/HNX tickers and the market index through a
fallback chain of sources, computes indicators and sends a Vietnamese
report to Telegram.

Usage:
  go run ./cmd/reporter [command]

Examples:
  go run ./cmd/reporter report
  go run ./cmd/reporter report --dry-run
  go run ./cmd/reporter symbol MBB HPG
  go run ./cmd/reporter schedule
  go run ./cmd/reporter api`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
// The command context is cancelled on Ctrl+C or SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML overlay (watchlist, alerts, schedule)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}
