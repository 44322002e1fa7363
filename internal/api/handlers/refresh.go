package handlers

import (
	"context"
	"net/http"

	"github.com/pickarena/backend/internal/refresh"
	"github.com/pickarena/backend/pkg/logger"
)

// Refresher runs one full price refresh pass.
type Refresher interface {
	RefreshAll(ctx context.Context) (*refresh.Summary, error)
}

// RefreshHandler triggers batch price refreshes on demand.
type RefreshHandler struct {
	refresher Refresher
	logger    *logger.Logger
}

// NewRefreshHandler creates a new refresh handler.
func NewRefreshHandler(r Refresher, log *logger.Logger) *RefreshHandler {
	return &RefreshHandler{refresher: r, logger: log}
}

// Trigger runs a refresh pass and returns the per-ticker summary.
// POST /api/refresh
func (h *RefreshHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	summary, err := h.refresher.RefreshAll(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Manual refresh failed")
		respondError(w, http.StatusInternalServerError, "Failed to refresh prices")
		return
	}

	respondJSON(w, http.StatusOK, summary)
}
