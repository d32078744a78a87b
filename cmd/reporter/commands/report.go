package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Alvic-maker/Telegram-bot-update1/internal/notifier"
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Build the watchlist report once and send it",
	Long: `Fetches the market index and every watchlist symbol, builds the
Vietnamese report and sends it to Telegram. Without BOT_TOKEN/CHAT_ID
(or with --dry-run) the report is printed instead.

Example:
  go run ./cmd/reporter report
  go run ./cmd/reporter report --dry-run`,
	RunE: runReport,
}

var reportDryRun bool

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().BoolVar(&reportDryRun, "dry-run", false, "print the report instead of sending it")
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	start := time.Now()
	snap := a.fetcher.Snapshot(ctx, a.cfg.Watchlist)
	text := a.builder.Build(snap)

	sink := a.sink
	if reportDryRun {
		sink = notifier.NewConsole(cmd.OutOrStdout())
	}

	if !sink.Send(ctx, text) {
		if !reportDryRun && a.cfg.Telegram.Enabled() {
			PrintError("Telegram delivery failed")
			return fmt.Errorf("send report: delivery failed")
		}
		return nil
	}

	PrintSuccess(fmt.Sprintf("Report sent (%d symbols) in %.2fs", len(snap.Symbols), time.Since(start).Seconds()))
	return nil
}
