package maintenance

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/ndemidov/campusforum/internal/services"
	"github.com/ndemidov/campusforum/pkg/logger"
)

const defaultReportSpec = "@every 1h"

// Reporter periodically logs aggregate forum activity. It is the home for
// background jobs; keeping it running even with a single job preserves a
// place for future maintenance work such as pruning abandoned threads.
type Reporter struct {
	stats    *services.StatsService
	cron     *cron.Cron
	log      *zap.Logger
	schedule string
}

// Option customises the Reporter.
type Option func(*Reporter)

// WithCron injects a preconfigured cron instance, primarily for testing.
func WithCron(c *cron.Cron) Option {
	return func(r *Reporter) {
		if c != nil {
			r.cron = c
		}
	}
}

// WithSchedule overrides the cron specification for the activity report.
func WithSchedule(spec string) Option {
	return func(r *Reporter) {
		if spec != "" {
			r.schedule = spec
		}
	}
}

// NewReporter constructs a Reporter. A nil stats service disables it.
func NewReporter(stats *services.StatsService, opts ...Option) *Reporter {
	reporter := &Reporter{
		stats:    stats,
		schedule: defaultReportSpec,
		log:      logger.WithModule("maintenance"),
	}

	for _, opt := range opts {
		opt(reporter)
	}

	if reporter.cron == nil {
		reporter.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}

	return reporter
}

// Start registers the report job with the cron scheduler and launches it.
func (r *Reporter) Start() error {
	if r.stats == nil {
		return nil
	}

	if _, err := r.cron.AddFunc(r.schedule, func() {
		if err := r.RunOnce(context.Background()); err != nil {
			r.log.Warn("activity report failed", zap.Error(err))
		}
	}); err != nil {
		return err
	}

	r.cron.Start()
	return nil
}

// Stop halts the underlying scheduler, waiting for any running jobs to complete.
func (r *Reporter) Stop() context.Context {
	if r.cron == nil {
		return context.Background()
	}
	return r.cron.Stop()
}

// RunOnce emits a single activity report. Used by the scheduler and during
// graceful shutdown.
func (r *Reporter) RunOnce(ctx context.Context) error {
	if r.stats == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	snapshot, err := r.stats.Snapshot(ctx)
	if err != nil {
		return err
	}

	r.log.Info("forum activity",
		zap.Int64("users", snapshot.Users),
		zap.Int64("threads", snapshot.Threads),
		zap.Int64("messages", snapshot.Messages),
	)
	return nil
}
