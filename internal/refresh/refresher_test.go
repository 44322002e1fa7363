package refresh

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pickarena/backend/internal/quote"
	"github.com/pickarena/backend/pkg/config"
	"github.com/pickarena/backend/pkg/logger"
	"github.com/pickarena/backend/pkg/metrics"
)

type fakeTickerStore struct {
	tickers  []string
	listErr  error
	upserted map[string]float64
	failOn   map[string]error
}

func (f *fakeTickerStore) ListTickers(ctx context.Context) ([]string, error) {
	return f.tickers, f.listErr
}

func (f *fakeTickerStore) Upsert(ctx context.Context, ticker string, price float64) error {
	if err, ok := f.failOn[ticker]; ok {
		return err
	}
	if f.upserted == nil {
		f.upserted = make(map[string]float64)
	}
	f.upserted[ticker] = price
	return nil
}

type fakeResolver struct {
	quotes map[string]*quote.Quote
	errs   map[string]error
}

func (f *fakeResolver) Resolve(ctx context.Context, symbol string) (*quote.Quote, error) {
	if err, ok := f.errs[symbol]; ok {
		return nil, err
	}
	q, ok := f.quotes[symbol]
	if !ok {
		return nil, quote.ErrNotFound
	}
	return q, nil
}

func newTestRefresher(store TickerStore, resolver quote.Resolver) *Refresher {
	log := logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"})
	return New(store, resolver, log, metrics.New(false))
}

func TestRefreshAll(t *testing.T) {
	store := &fakeTickerStore{tickers: []string{"AAPL", "MSFT", "GOOG"}}
	resolver := &fakeResolver{
		quotes: map[string]*quote.Quote{
			"AAPL": {Symbol: "AAPL", Price: 255.10, Currency: quote.CurrencyUSD},
			"GOOG": {Symbol: "GOOG", Price: 182.45, Currency: quote.CurrencyUSD},
		},
		errs: map[string]error{"MSFT": quote.ErrUnavailable},
	}

	summary, err := newTestRefresher(store, resolver).RefreshAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, summary.Successful)
	assert.Equal(t, 1, summary.Failed)
	require.Len(t, summary.Results, 3)

	// Store received only the successful prices
	assert.Equal(t, map[string]float64{"AAPL": 255.10, "GOOG": 182.45}, store.upserted)

	// Per-ticker results keep input order
	assert.Equal(t, "AAPL", summary.Results[0].Ticker)
	assert.True(t, summary.Results[0].Success)
	assert.Equal(t, 255.10, summary.Results[0].Price)

	assert.Equal(t, "MSFT", summary.Results[1].Ticker)
	assert.False(t, summary.Results[1].Success)
	assert.NotEmpty(t, summary.Results[1].Error)
}

func TestRefreshAllContinuesPastUpsertFailure(t *testing.T) {
	store := &fakeTickerStore{
		tickers: []string{"AAPL", "MSFT"},
		failOn:  map[string]error{"AAPL": errors.New("connection reset")},
	}
	resolver := &fakeResolver{
		quotes: map[string]*quote.Quote{
			"AAPL": {Symbol: "AAPL", Price: 255.10, Currency: quote.CurrencyUSD},
			"MSFT": {Symbol: "MSFT", Price: 500.00, Currency: quote.CurrencyUSD},
		},
	}

	summary, err := newTestRefresher(store, resolver).RefreshAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Successful)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, map[string]float64{"MSFT": 500.00}, store.upserted)
}

func TestRefreshAllEmptyStore(t *testing.T) {
	summary, err := newTestRefresher(&fakeTickerStore{}, &fakeResolver{}).RefreshAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Total)
	assert.Empty(t, summary.Results)
}

func TestRefreshAllListFailureAborts(t *testing.T) {
	store := &fakeTickerStore{listErr: errors.New("database down")}

	summary, err := newTestRefresher(store, &fakeResolver{}).RefreshAll(context.Background())
	require.Error(t, err)
	assert.Nil(t, summary)
}

func TestJobRunSurfacesBatchError(t *testing.T) {
	log := logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"})

	failing := New(&fakeTickerStore{listErr: errors.New("database down")}, &fakeResolver{}, log, metrics.New(false))
	job := NewJob(failing, "0 0 * * * *", log)

	assert.Equal(t, "price_refresh", job.Name())
	assert.Equal(t, "0 0 * * * *", job.Schedule())
	assert.Error(t, job.Run(context.Background()))

	ok := New(&fakeTickerStore{}, &fakeResolver{}, log, metrics.New(false))
	assert.NoError(t, NewJob(ok, "0 0 * * * *", log).Run(context.Background()))
}
