package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TickerPrice is the latest known price of a ticker in the price store.
type TickerPrice struct {
	Ticker    string    `json:"ticker"`
	Price     float64   `json:"price"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TickerRepository is the external price store. It is read-mostly; the
// only writer is the scheduled refresh job (and the initial upsert when
// a pick introduces a new ticker). Upserts fire the ticker_updates
// notification the change feed listens on (trigger installed by the
// migrations).
type TickerRepository struct {
	pool *pgxpool.Pool
}

// NewTickerRepository creates a new ticker repository.
func NewTickerRepository(pool *pgxpool.Pool) *TickerRepository {
	return &TickerRepository{pool: pool}
}

// ListTickers retrieves every distinct ticker in the store.
func (r *TickerRepository) ListTickers(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT ticker FROM tickers ORDER BY ticker`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickers := make([]string, 0)
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		tickers = append(tickers, t)
	}
	return tickers, rows.Err()
}

// GetPrices retrieves the price map for a set of tickers. Tickers the
// store has no row for are simply absent from the result; the valuation
// engine falls back to buy prices for those.
func (r *TickerRepository) GetPrices(ctx context.Context, tickers []string) (map[string]float64, error) {
	prices := make(map[string]float64, len(tickers))
	if len(tickers) == 0 {
		return prices, nil
	}

	query := `SELECT ticker, price FROM tickers WHERE ticker = ANY($1)`
	rows, err := r.pool.Query(ctx, query, tickers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var ticker string
		var price float64
		if err := rows.Scan(&ticker, &price); err != nil {
			return nil, err
		}
		prices[ticker] = price
	}
	return prices, rows.Err()
}

// Upsert writes the latest price for a ticker, keyed by ticker.
func (r *TickerRepository) Upsert(ctx context.Context, ticker string, price float64) error {
	query := `
		INSERT INTO tickers (ticker, price, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (ticker) DO UPDATE SET
			price = EXCLUDED.price,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.pool.Exec(ctx, query, ticker, price)
	return err
}
