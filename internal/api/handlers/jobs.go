package handlers

import (
	"net/http"

	"github.com/pickarena/backend/internal/scheduler"
)

// JobStats exposes scheduler run statistics.
type JobStats interface {
	GetStats() map[string]scheduler.Stats
}

// JobsHandler reports scheduled job health.
type JobsHandler struct {
	stats JobStats
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(stats JobStats) *JobsHandler {
	return &JobsHandler{stats: stats}
}

// Get returns run statistics for every scheduled job.
// GET /api/jobs
func (h *JobsHandler) Get(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"jobs": h.stats.GetStats(),
	})
}
