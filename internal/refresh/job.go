package refresh

import (
	"context"
	"fmt"

	"github.com/pickarena/backend/pkg/logger"
)

// Job adapts the refresher to the scheduler.
type Job struct {
	refresher *Refresher
	schedule  string
	logger    *logger.Logger
}

// NewJob creates a scheduled refresh job. The schedule is a cron
// expression with a seconds field, e.g. "0 0 * * * *" for hourly.
func NewJob(r *Refresher, schedule string, log *logger.Logger) *Job {
	return &Job{
		refresher: r,
		schedule:  schedule,
		logger:    log,
	}
}

// Name returns the job name.
func (j *Job) Name() string {
	return "price_refresh"
}

// Schedule returns the cron schedule expression.
func (j *Job) Schedule() string {
	return j.schedule
}

// Run executes one refresh pass. The pass itself absorbs per-ticker
// failures; only an aborted batch surfaces as a job error.
func (j *Job) Run(ctx context.Context) error {
	summary, err := j.refresher.RefreshAll(ctx)
	if err != nil {
		return fmt.Errorf("refresh all tickers: %w", err)
	}

	if summary.Failed > 0 {
		j.logger.WithFields(map[string]interface{}{
			"failed": summary.Failed,
			"total":  summary.Total,
		}).Warn("Some tickers failed to refresh")
	}

	return nil
}
