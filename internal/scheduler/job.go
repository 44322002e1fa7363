package scheduler

import (
	"context"
	"time"
)

// Job is a unit of scheduled work.
type Job interface {
	// Name returns the job name, unique within a scheduler.
	Name() string

	// Run executes the job.
	Run(ctx context.Context) error

	// Schedule returns the cron expression, seconds field included.
	// Examples: "0 0 * * * *" (hourly), "@daily".
	Schedule() string
}

// Result records one job execution.
type Result struct {
	JobName   string        `json:"job_name"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
}

// history keeps the most recent executions of one job.
type history struct {
	results []Result
}

// maxHistory bounds the per-job result buffer.
const maxHistory = 100

func (h *history) add(result Result) {
	h.results = append(h.results, result)
	if len(h.results) > maxHistory {
		h.results = h.results[len(h.results)-maxHistory:]
	}
}

func (h *history) failures() int {
	n := 0
	for _, r := range h.results {
		if !r.Success {
			n++
		}
	}
	return n
}

func (h *history) successRate() float64 {
	if len(h.results) == 0 {
		return 0.0
	}
	return float64(len(h.results)-h.failures()) / float64(len(h.results))
}
