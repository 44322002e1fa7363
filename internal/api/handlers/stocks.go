package handlers

import (
	"errors"
	"net/http"

	"github.com/pickarena/backend/internal/quote"
	"github.com/pickarena/backend/pkg/logger"
)

// StockHandler handles stock lookup endpoints.
type StockHandler struct {
	resolver quote.Resolver
	logger   *logger.Logger
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(resolver quote.Resolver, log *logger.Logger) *StockHandler {
	return &StockHandler{
		resolver: resolver,
		logger:   log,
	}
}

// Search resolves a ticker to its current quote.
// GET /api/stocks/search?ticker=AAPL
func (h *StockHandler) Search(w http.ResponseWriter, r *http.Request) {
	ticker := r.URL.Query().Get("ticker")
	if ticker == "" {
		respondError(w, http.StatusBadRequest, "ticker query parameter is required")
		return
	}

	q, err := h.resolver.Resolve(r.Context(), ticker)
	if err != nil {
		switch {
		case errors.Is(err, quote.ErrNotFound):
			respondError(w, http.StatusNotFound, "Stock not found")
		case errors.Is(err, quote.ErrUnsupportedCurrency):
			respondError(w, http.StatusBadRequest, "Only USD-denominated stocks are supported")
		case errors.Is(err, quote.ErrInvalidPrice):
			respondError(w, http.StatusBadRequest, "Stock has no valid price")
		default:
			h.logger.WithError(err).WithField("ticker", ticker).Error("Quote resolution failed")
			respondError(w, http.StatusInternalServerError, "Failed to look up stock")
		}
		return
	}

	respondJSON(w, http.StatusOK, q)
}
