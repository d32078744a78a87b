package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Alvic-maker/Telegram-bot-update1/internal/api/live"
	"github.com/Alvic-maker/Telegram-bot-update1/internal/scheduler"
	"github.com/Alvic-maker/Telegram-bot-update1/internal/scheduler/jobs"
)

// scheduleCmd represents the schedule command
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the report on a cron schedule",
	Long: `Starts the scheduler and sends the report on REPORT_SCHEDULE
(cron with seconds, evaluated in TIMEZONE).

Registered jobs:
- market_report: REPORT_SCHEDULE (default every 30 minutes, 9-15h Mon-Fri)
- cache_stats: every 5 minutes

The scheduler stops with Ctrl+C.

Example:
  go run ./cmd/reporter schedule
  go run ./cmd/reporter schedule --now`,
	RunE: runSchedule,
}

var scheduleRunNow bool

func init() {
	rootCmd.AddCommand(scheduleCmd)

	scheduleCmd.Flags().BoolVar(&scheduleRunNow, "now", false, "send one report before waiting for the schedule")
}

func runSchedule(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	sched, reportJob, err := newScheduler(a, nil)
	if err != nil {
		return err
	}

	if scheduleRunNow {
		if err := sched.RunJob(reportJob.Name()); err != nil {
			PrintWarning(err.Error())
		}
	}

	sched.Start()
	defer sched.Stop()

	PrintSuccess("Scheduler started")
	if next, err := sched.NextRun(reportJob.Name()); err == nil {
		PrintKeyValue("Next report", next.Format(time.RFC3339), 12)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	<-ctx.Done()
	fmt.Println("\nShutting down scheduler...")
	return nil
}

// newScheduler registers the report and cache stats jobs. hub may be nil.
func newScheduler(a *app, hub *live.Hub) (*scheduler.Scheduler, *jobs.ReportJob, error) {
	loc, err := time.LoadLocation(a.cfg.Timezone)
	if err != nil {
		return nil, nil, fmt.Errorf("load timezone %q: %w", a.cfg.Timezone, err)
	}

	sched := scheduler.New(a.log, loc, scheduler.WithRetry(1, 30*time.Second))

	reportJob := jobs.NewReportJob(a.fetcher, a.builder, a.sink, a.cfg.Watchlist, a.cfg.Schedule, a.log).
		RequireDelivery(a.cfg.Telegram.Enabled() || a.cfg.Telegram.Required)
	if hub != nil {
		reportJob.WithBroadcaster(hub)
	}

	if err := sched.AddJob(reportJob); err != nil {
		return nil, nil, err
	}
	if err := sched.AddJob(jobs.NewCacheStatsJob(a.fetcher, a.log)); err != nil {
		return nil, nil, err
	}

	return sched, reportJob, nil
}
