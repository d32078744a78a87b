package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Alvic-maker/Telegram-bot-update1/internal/api"
	"github.com/Alvic-maker/Telegram-bot-update1/internal/api/handlers"
	"github.com/Alvic-maker/Telegram-bot-update1/internal/api/live"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the HTTP API with the live feed",
	Long: `Starts the REST API. With --schedule the report job also runs in
this process and every snapshot is pushed to /ws/live.

Endpoints:
  GET  /health               - Health check
  GET  /api/market           - Market index record
  GET  /api/symbols          - Watchlist records
  GET  /api/symbols/{code}   - One symbol record
  GET  /api/report           - Rendered report text
  GET  /ws/live              - WebSocket snapshot feed

Example:
  go run ./cmd/reporter api
  go run ./cmd/reporter api --port 8089 --schedule`,
	RunE: runAPIServer,
}

var (
	apiPort     string
	apiSchedule bool
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (default PORT)")
	apiCmd.Flags().BoolVar(&apiSchedule, "schedule", false, "also run the report scheduler")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	// Override port if flag is set
	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	hub := live.NewHub(a.log)
	defer hub.Close()

	if apiSchedule {
		sched, _, err := newScheduler(a, hub)
		if err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
	}

	marketHandler := handlers.NewMarketHandler(a.fetcher, a.builder, a.cfg.Watchlist, a.log)
	router := api.NewRouter(marketHandler, hub, a.log)
	server := api.New(a.cfg, a.log, router)

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", a.cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	if err := server.Run(ctx); err != nil {
		return fmt.Errorf("api server: %w", err)
	}

	a.log.Info("Server stopped")
	return nil
}
