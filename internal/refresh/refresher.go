// Package refresh re-resolves every tracked ticker against the quote
// source and writes the results back to the price store. Each upsert
// fires the ticker_updates notification, so a refresh pass also drives
// the live leaderboards.
package refresh

import (
	"context"

	"github.com/pickarena/backend/internal/quote"
	"github.com/pickarena/backend/pkg/logger"
	"github.com/pickarena/backend/pkg/metrics"
)

// TickerStore is the slice of the price store the refresher needs.
type TickerStore interface {
	ListTickers(ctx context.Context) ([]string, error)
	Upsert(ctx context.Context, ticker string, price float64) error
}

// Result is the outcome for a single ticker in a refresh pass.
type Result struct {
	Ticker  string  `json:"ticker"`
	Success bool    `json:"success"`
	Price   float64 `json:"price,omitempty"`
	Error   string  `json:"error,omitempty"`
}

// Summary aggregates one full refresh pass.
type Summary struct {
	Total      int      `json:"total"`
	Successful int      `json:"successful"`
	Failed     int      `json:"failed"`
	Results    []Result `json:"results"`
}

// Refresher runs batch price refreshes.
type Refresher struct {
	store    TickerStore
	resolver quote.Resolver
	logger   *logger.Logger
	metrics  *metrics.Manager
}

// New creates a refresher.
func New(store TickerStore, resolver quote.Resolver, log *logger.Logger, m *metrics.Manager) *Refresher {
	return &Refresher{
		store:    store,
		resolver: resolver,
		logger:   log,
		metrics:  m,
	}
}

// RefreshAll re-resolves every tracked ticker sequentially and upserts
// each fresh price. A failed ticker is recorded and the pass moves on;
// only a failure to list the tickers aborts the batch.
func (r *Refresher) RefreshAll(ctx context.Context) (*Summary, error) {
	tickers, err := r.store.ListTickers(ctx)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Total:   len(tickers),
		Results: make([]Result, 0, len(tickers)),
	}

	for _, ticker := range tickers {
		result := r.refreshOne(ctx, ticker)
		if result.Success {
			summary.Successful++
		} else {
			summary.Failed++
		}
		summary.Results = append(summary.Results, result)
	}

	r.metrics.RefreshResult(summary.Successful, summary.Failed)
	r.logger.WithFields(map[string]interface{}{
		"total":      summary.Total,
		"successful": summary.Successful,
		"failed":     summary.Failed,
	}).Info("Price refresh completed")

	return summary, nil
}

func (r *Refresher) refreshOne(ctx context.Context, ticker string) Result {
	q, err := r.resolver.Resolve(ctx, ticker)
	if err != nil {
		r.logger.WithError(err).WithField("ticker", ticker).Warn("Quote resolution failed")
		return Result{Ticker: ticker, Error: err.Error()}
	}

	if err := r.store.Upsert(ctx, q.Symbol, q.Price); err != nil {
		r.logger.WithError(err).WithField("ticker", ticker).Error("Price upsert failed")
		return Result{Ticker: ticker, Error: err.Error()}
	}

	return Result{Ticker: ticker, Success: true, Price: q.Price}
}
