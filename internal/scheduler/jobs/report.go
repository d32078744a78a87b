package jobs

import (
	"context"
	"errors"

	"github.com/Alvic-maker/Telegram-bot-update1/internal/fetch"
	"github.com/Alvic-maker/Telegram-bot-update1/internal/notifier"
	"github.com/Alvic-maker/Telegram-bot-update1/pkg/logger"
)

// ErrDeliveryFailed is returned when the report could not be delivered
var ErrDeliveryFailed = errors.New("report delivery failed")

// SnapshotFetcher fetches the market and the watchlist in one pass
type SnapshotFetcher interface {
	Snapshot(ctx context.Context, codes []string) fetch.Snapshot
}

// ReportBuilder renders a snapshot into message text
type ReportBuilder interface {
	Build(snap fetch.Snapshot) string
}

// Broadcaster pushes a snapshot to live subscribers
type Broadcaster interface {
	Broadcast(v interface{}) error
}

// ReportJob fetches the watchlist, builds the report and sends it
type ReportJob struct {
	fetcher     SnapshotFetcher
	builder     ReportBuilder
	sink        notifier.Sink
	broadcaster Broadcaster
	watchlist   []string
	schedule    string

	// requireDelivery turns a failed send into a job error (and a retry)
	requireDelivery bool

	logger *logger.Logger
}

// NewReportJob creates a new report job
func NewReportJob(
	fetcher SnapshotFetcher,
	builder ReportBuilder,
	sink notifier.Sink,
	watchlist []string,
	schedule string,
	log *logger.Logger,
) *ReportJob {
	return &ReportJob{
		fetcher:   fetcher,
		builder:   builder,
		sink:      sink,
		watchlist: watchlist,
		schedule:  schedule,
		logger:    log.WithField("job", "report"),
	}
}

// WithBroadcaster also publishes every snapshot to b
func (j *ReportJob) WithBroadcaster(b Broadcaster) *ReportJob {
	j.broadcaster = b
	return j
}

// RequireDelivery makes Run fail when the sink rejects the report
func (j *ReportJob) RequireDelivery(required bool) *ReportJob {
	j.requireDelivery = required
	return j
}

// Name returns the job name
func (j *ReportJob) Name() string {
	return "market_report"
}

// Schedule returns the cron schedule
func (j *ReportJob) Schedule() string {
	return j.schedule
}

// Run builds and delivers one report
func (j *ReportJob) Run(ctx context.Context) error {
	j.logger.WithField("symbols", len(j.watchlist)).Debug("Building scheduled report")

	snap := j.fetcher.Snapshot(ctx, j.watchlist)
	text := j.builder.Build(snap)

	if j.broadcaster != nil {
		if err := j.broadcaster.Broadcast(snap); err != nil {
			j.logger.WithError(err).Warn("Live broadcast failed")
		}
	}

	if !j.sink.Send(ctx, text) {
		if j.requireDelivery {
			return ErrDeliveryFailed
		}
		j.logger.Debug("Report printed without delivery")
		return nil
	}

	j.logger.WithField("chars", len([]rune(text))).Info("Report sent")
	return nil
}
