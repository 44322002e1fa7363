package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/pickarena/backend/internal/live"
	"github.com/pickarena/backend/internal/store"
	"github.com/pickarena/backend/pkg/logger"
)

// LiveHandler serves the websocket live leaderboard.
type LiveHandler struct {
	manager *live.Manager
	logger  *logger.Logger
}

// NewLiveHandler creates a new live handler.
func NewLiveHandler(manager *live.Manager, log *logger.Logger) *LiveHandler {
	return &LiveHandler{manager: manager, logger: log}
}

// Watch attaches a viewer to a contest's live leaderboard. The current
// standings are sent on connect; re-ranked boards follow as price
// events arrive.
// GET /ws/contests/{id}
func (h *LiveHandler) Watch(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid contest id")
		return
	}

	session, hub, err := h.manager.Open(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Contest not found")
			return
		}
		h.logger.WithError(err).WithField("contest_id", id).Error("Failed to open live session")
		respondError(w, http.StatusInternalServerError, "Failed to open live leaderboard")
		return
	}

	c := session.Contest()
	initial := LeaderboardResponse{
		Contest:          c,
		Status:           c.StatusAt(time.Now()),
		ParticipantCount: session.ParticipantCount(),
		Leaderboard:      session.Leaderboard(),
	}

	hub.HandleWS(w, r, initial)
}
