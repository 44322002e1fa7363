package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pickarena/backend/internal/contest"
)

// LeaderboardResponse is a contest's ranked standings snapshot.
type LeaderboardResponse struct {
	Contest          *contest.Contest `json:"contest"`
	Status           contest.Status   `json:"status"`
	ParticipantCount int              `json:"participant_count"`
	Leaderboard      []contest.Entry  `json:"leaderboard"`
}

// Leaderboard returns the current standings of a contest: every pick
// valued at the latest stored price and ranked by value.
// GET /api/contests/{id}/leaderboard
func (h *ContestHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	c, ok := h.loadContest(w, r)
	if !ok {
		return
	}

	picks, err := h.picks.ListByContest(ctx, c.ID)
	if err != nil {
		h.logger.WithError(err).WithField("contest_id", c.ID).Error("Failed to list picks")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve leaderboard")
		return
	}

	userIDs := make([]uuid.UUID, 0, len(picks))
	tickers := make([]string, 0, len(picks))
	seen := make(map[string]struct{}, len(picks))
	for _, p := range picks {
		userIDs = append(userIDs, p.UserID)
		if _, ok := seen[p.Ticker]; !ok {
			seen[p.Ticker] = struct{}{}
			tickers = append(tickers, p.Ticker)
		}
	}

	contestants, err := h.contestants.GetByIDs(ctx, userIDs)
	if err != nil {
		h.logger.WithError(err).WithField("contest_id", c.ID).Error("Failed to load contestants")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve leaderboard")
		return
	}

	// A failed price fetch degrades to buy prices, not to an error
	prices, err := h.prices.GetPrices(ctx, tickers)
	if err != nil {
		h.logger.WithError(err).WithField("contest_id", c.ID).
			Warn("Price fetch failed, valuing at buy prices")
		prices = map[string]float64{}
	}

	respondJSON(w, http.StatusOK, LeaderboardResponse{
		Contest:          c,
		Status:           c.StatusAt(time.Now()),
		ParticipantCount: len(picks),
		Leaderboard:      contest.BuildLeaderboard(picks, contestants, prices),
	})
}
