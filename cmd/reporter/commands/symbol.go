package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/Alvic-maker/Telegram-bot-update1/internal/report"
)

// symbolCmd represents the symbol command
var symbolCmd = &cobra.Command{
	Use:   "symbol CODE [CODE...]",
	Short: "Show the normalized record of one or more tickers",
	Long: `Runs the symbol fallback chain for each ticker and prints one
row per symbol with the source that answered.

Example:
  go run ./cmd/reporter symbol MBB HPG SSI`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSymbol,
}

// marketCmd represents the market command
var marketCmd = &cobra.Command{
	Use:   "market",
	Short: "Show the market index record",
	RunE:  runMarket,
}

func init() {
	rootCmd.AddCommand(symbolCmd)
	rootCmd.AddCommand(marketCmd)
}

func runSymbol(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	codes := make([]string, len(args))
	for i, arg := range args {
		codes[i] = strings.ToUpper(strings.TrimSpace(arg))
	}

	recs := a.fetcher.Symbols(cmd.Context(), codes)

	widths := []int{8, 12, 9, 10, 8, 8, 10}
	PrintTableHeader([]string{"Symbol", "Price", "Change", "Vol", "RSI14", "Ratio", "Source"}, widths)
	for _, r := range recs {
		rsi := report.Dash
		if r.RSI14 != nil {
			rsi = report.Price(r.RSI14)
		}
		ratio := report.Dash
		if r.VolRatio != nil {
			ratio = report.Ratio(*r.VolRatio)
		}
		PrintTableRow([]string{
			r.Symbol,
			report.Price(r.Price),
			report.Pct(r.PctChange),
			report.Shares(r.Volume),
			rsi,
			ratio,
			r.Source,
		}, widths)
	}
	return nil
}

func runMarket(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	m := a.fetcher.Market(cmd.Context())

	PrintDoubleSeparator()
	PrintKeyValue("Index", m.Index, 10)
	PrintKeyValue("Price", report.Price(m.Price), 10)
	PrintKeyValue("Change", report.Pct(m.PctChange), 10)
	PrintKeyValue("GTGD", report.Money(m.GTGD), 10)
	PrintKeyValue("NN Mua", report.Money(m.ForeignBuy), 10)
	PrintKeyValue("NN Bán", report.Money(m.ForeignSell), 10)
	PrintKeyValue("Ròng", report.Money(m.NetFlow()), 10)
	PrintKeyValue("Source", m.Source, 10)
	PrintDoubleSeparator()
	return nil
}
