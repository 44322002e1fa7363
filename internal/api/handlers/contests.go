package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/pickarena/backend/internal/contest"
	"github.com/pickarena/backend/internal/quote"
	"github.com/pickarena/backend/internal/store"
	"github.com/pickarena/backend/pkg/logger"
)

// Store interfaces the contest handlers read and write through.
// Implemented by the repositories in internal/store; fakes in tests.
type (
	ContestStore interface {
		GetByID(ctx context.Context, id uuid.UUID) (*contest.Contest, error)
		List(ctx context.Context) ([]store.ContestWithCount, error)
	}
	PickStore interface {
		ListByContest(ctx context.Context, contestID uuid.UUID) ([]contest.Pick, error)
		Create(ctx context.Context, p *contest.Pick) error
	}
	ContestantStore interface {
		GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]contest.Contestant, error)
	}
	PriceStore interface {
		GetPrices(ctx context.Context, tickers []string) (map[string]float64, error)
		Upsert(ctx context.Context, ticker string, price float64) error
	}
)

// ContestHandler handles contest listing, detail and the join workflow.
type ContestHandler struct {
	contests    ContestStore
	picks       PickStore
	contestants ContestantStore
	prices      PriceStore
	resolver    quote.Resolver
	logger      *logger.Logger
}

// NewContestHandler creates a new contest handler.
func NewContestHandler(
	contests ContestStore,
	picks PickStore,
	contestants ContestantStore,
	prices PriceStore,
	resolver quote.Resolver,
	log *logger.Logger,
) *ContestHandler {
	return &ContestHandler{
		contests:    contests,
		picks:       picks,
		contestants: contestants,
		prices:      prices,
		resolver:    resolver,
		logger:      log,
	}
}

// ContestResponse is a contest with its derived status.
type ContestResponse struct {
	contest.Contest
	Status           contest.Status `json:"status"`
	ParticipantCount int            `json:"participant_count"`
}

// List returns every contest with status and participant count.
// GET /api/contests
func (h *ContestHandler) List(w http.ResponseWriter, r *http.Request) {
	contests, err := h.contests.List(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list contests")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve contests")
		return
	}

	now := time.Now()
	result := make([]ContestResponse, len(contests))
	for i, c := range contests {
		result[i] = ContestResponse{
			Contest:          c.Contest,
			Status:           c.StatusAt(now),
			ParticipantCount: c.ParticipantCount,
		}
	}

	respondJSON(w, http.StatusOK, result)
}

// Get returns a single contest.
// GET /api/contests/{id}
func (h *ContestHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, ok := h.loadContest(w, r)
	if !ok {
		return
	}

	picks, err := h.picks.ListByContest(r.Context(), c.ID)
	if err != nil {
		h.logger.WithError(err).WithField("contest_id", c.ID).Error("Failed to list picks")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve contest")
		return
	}

	respondJSON(w, http.StatusOK, ContestResponse{
		Contest:          *c,
		Status:           c.StatusAt(time.Now()),
		ParticipantCount: len(picks),
	})
}

// joinRequest is the body of a join call.
type joinRequest struct {
	UserID uuid.UUID `json:"user_id"`
	Ticker string    `json:"ticker"`
}

// Join enters a participant into a contest with a single stock pick.
// The fixed budget buys a fractional quantity at the current price.
// POST /api/contests/{id}/picks
func (h *ContestHandler) Join(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	c, ok := h.loadContest(w, r)
	if !ok {
		return
	}

	var req joinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserID == uuid.Nil {
		respondError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if req.Ticker == "" {
		respondError(w, http.StatusBadRequest, "ticker is required")
		return
	}

	if c.StatusAt(time.Now()) == contest.StatusEnded {
		respondError(w, http.StatusBadRequest, "Contest has already ended")
		return
	}

	q, err := h.resolver.Resolve(ctx, req.Ticker)
	if err != nil {
		switch {
		case errors.Is(err, quote.ErrNotFound):
			respondError(w, http.StatusNotFound, "Stock not found")
		case errors.Is(err, quote.ErrUnsupportedCurrency):
			respondError(w, http.StatusBadRequest, "Only USD-denominated stocks are supported")
		case errors.Is(err, quote.ErrInvalidPrice):
			respondError(w, http.StatusBadRequest, "Stock has no valid price")
		default:
			h.logger.WithError(err).WithField("ticker", req.Ticker).Error("Quote resolution failed")
			respondError(w, http.StatusInternalServerError, "Failed to look up stock")
		}
		return
	}

	pick := &contest.Pick{
		ContestID: c.ID,
		UserID:    req.UserID,
		Ticker:    q.Symbol,
		Quantity:  contest.QuantityFor(q.Price),
		BuyPrice:  q.Price,
	}

	if err := h.picks.Create(ctx, pick); err != nil {
		if errors.Is(err, store.ErrDuplicatePick) {
			respondError(w, http.StatusConflict, "Already joined this contest")
			return
		}
		h.logger.WithError(err).WithField("contest_id", c.ID).Error("Failed to create pick")
		respondError(w, http.StatusInternalServerError, "Failed to join contest")
		return
	}

	// Seed the price store so the new ticker shows up in valuations and
	// the next refresh pass. A failure here only delays the first price.
	if err := h.prices.Upsert(ctx, q.Symbol, q.Price); err != nil {
		h.logger.WithError(err).WithField("ticker", q.Symbol).Warn("Failed to seed ticker price")
	}

	respondJSON(w, http.StatusCreated, pick)
}

// loadContest resolves the {id} path variable to a contest, writing the
// error response itself when it cannot.
func (h *ContestHandler) loadContest(w http.ResponseWriter, r *http.Request) (*contest.Contest, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid contest id")
		return nil, false
	}

	c, err := h.contests.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Contest not found")
			return nil, false
		}
		h.logger.WithError(err).WithField("contest_id", id).Error("Failed to get contest")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve contest")
		return nil, false
	}
	return c, true
}
