package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pickarena/backend/internal/quote"
	"github.com/pickarena/backend/pkg/config"
	"github.com/pickarena/backend/pkg/logger"
)

type stubResolver struct {
	quote *quote.Quote
	err   error
}

func (s *stubResolver) Resolve(ctx context.Context, ticker string) (*quote.Quote, error) {
	return s.quote, s.err
}

func testLogger() *logger.Logger {
	return logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"})
}

func TestSearch(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		resolver   *stubResolver
		wantStatus int
	}{
		{
			name:  "resolved quote",
			query: "?ticker=aapl",
			resolver: &stubResolver{
				quote: &quote.Quote{Symbol: "AAPL", Price: 255.10, DisplayName: "Apple Inc.", Currency: "USD"},
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing ticker parameter",
			query:      "",
			resolver:   &stubResolver{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown symbol",
			query:      "?ticker=NOPE",
			resolver:   &stubResolver{err: quote.ErrNotFound},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "unsupported currency",
			query:      "?ticker=SAP.DE",
			resolver:   &stubResolver{err: quote.ErrUnsupportedCurrency},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid price",
			query:      "?ticker=HALT",
			resolver:   &stubResolver{err: quote.ErrInvalidPrice},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "upstream failure",
			query:      "?ticker=AAPL",
			resolver:   &stubResolver{err: errors.New("timeout")},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewStockHandler(tt.resolver, testLogger())

			req := httptest.NewRequest(http.MethodGet, "/api/stocks/search"+tt.query, nil)
			rec := httptest.NewRecorder()
			h.Search(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestSearchResponseShape(t *testing.T) {
	h := NewStockHandler(&stubResolver{
		quote: &quote.Quote{Symbol: "TSLA", Price: 420.69, DisplayName: "Tesla, Inc.", Currency: "USD"},
	}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/stocks/search?ticker=TSLA", nil)
	rec := httptest.NewRecorder()
	h.Search(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "TSLA", body["symbol"])
	assert.Equal(t, 420.69, body["price"])
	assert.Equal(t, "Tesla, Inc.", body["companyName"])
}
