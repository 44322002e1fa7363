package quote

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pickarena/backend/pkg/config"
	"github.com/pickarena/backend/pkg/httputil"
	"github.com/pickarena/backend/pkg/logger"
)

const testBaseURL = "https://quotes.test"

func newTestClient() *Client {
	cfg := &config.Config{
		Env:       "development",
		LogLevel:  "error",
		LogFormat: "json",
		Quote: config.QuoteConfig{
			BaseURL:   testBaseURL,
			RateLimit: 1000,
		},
	}
	log := logger.New(cfg)
	httpClient := httputil.New(cfg, log).DisableRetry()
	return NewClient(cfg, httpClient, log)
}

func chartBody(currency string, price float64, shortName, longName string) string {
	return fmt.Sprintf(`{"chart":{"result":[{"meta":{
		"symbol":"TEST","currency":%q,"regularMarketPrice":%v,
		"shortName":%q,"longName":%q}}],"error":null}}`,
		currency, price, shortName, longName)
}

func TestResolve(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	tests := []struct {
		name     string
		ticker   string
		status   int
		body     string
		wantErr  error
		wantName string
	}{
		{
			name:     "USD quote succeeds",
			ticker:   "AAPL",
			status:   200,
			body:     chartBody("USD", 178.5, "Apple Inc.", "Apple Inc. Ltd"),
			wantName: "Apple Inc.",
		},
		{
			name:     "cent-denominated USX succeeds",
			ticker:   "PENNY",
			status:   200,
			body:     chartBody("USX", 42.0, "Penny Co", ""),
			wantName: "Penny Co",
		},
		{
			name:    "EUR is rejected",
			ticker:  "SAP",
			status:  200,
			body:    chartBody("EUR", 150.0, "SAP SE", ""),
			wantErr: ErrUnsupportedCurrency,
		},
		{
			name:    "empty result set",
			ticker:  "NOPE",
			status:  200,
			body:    `{"chart":{"result":[],"error":{"code":"Not Found","description":"No data found"}}}`,
			wantErr: ErrNotFound,
		},
		{
			name:    "provider 404",
			ticker:  "GONE",
			status:  404,
			body:    `{"chart":{"result":null}}`,
			wantErr: ErrNotFound,
		},
		{
			name:    "zero price",
			ticker:  "ZERO",
			status:  200,
			body:    chartBody("USD", 0, "Zero Corp", ""),
			wantErr: ErrInvalidPrice,
		},
		{
			name:    "negative price",
			ticker:  "NEG",
			status:  200,
			body:    chartBody("USD", -3.2, "Neg Corp", ""),
			wantErr: ErrInvalidPrice,
		},
		{
			name:    "provider 500",
			ticker:  "DOWN",
			status:  500,
			body:    "internal error",
			wantErr: ErrUnavailable,
		},
		{
			name:     "long name fallback",
			ticker:   "LONG",
			status:   200,
			body:     chartBody("USD", 10, "", "Long Name Industries"),
			wantName: "Long Name Industries",
		},
	}

	client := newTestClient()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpmock.Reset()
			httpmock.RegisterResponder("GET",
				fmt.Sprintf("%s/v8/finance/chart/%s", testBaseURL, tt.ticker),
				httpmock.NewStringResponder(tt.status, tt.body))

			q, err := client.Resolve(context.Background(), tt.ticker)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.ticker, q.Symbol)
			assert.Equal(t, tt.wantName, q.DisplayName)
			assert.Greater(t, q.Price, 0.0)
		})
	}
}

func TestResolveNormalizesSymbol(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET",
		testBaseURL+"/v8/finance/chart/AAPL",
		httpmock.NewStringResponder(200, chartBody("USD", 178.5, "Apple Inc.", "")))

	client := newTestClient()
	q, err := client.Resolve(context.Background(), "  aapl ")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", q.Symbol)
}

func TestResolveScrapesNameWhenMetaHasNone(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET",
		testBaseURL+"/v8/finance/chart/FOO",
		httpmock.NewStringResponder(200, chartBody("USD", 25, "", "")))
	httpmock.RegisterResponder("GET",
		testBaseURL+"/quote/FOO/",
		httpmock.NewStringResponder(200,
			`<html><body><h1>Foo Industries (FOO)</h1></body></html>`))

	client := newTestClient()
	q, err := client.Resolve(context.Background(), "FOO")
	require.NoError(t, err)
	assert.Equal(t, "Foo Industries", q.DisplayName)
}

func TestResolveFallsBackToSymbolWithoutAnyName(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET",
		testBaseURL+"/v8/finance/chart/BARE",
		httpmock.NewStringResponder(200, chartBody("USD", 25, "", "")))
	httpmock.RegisterResponder("GET",
		testBaseURL+"/quote/BARE/",
		httpmock.NewStringResponder(404, "not found"))

	client := newTestClient()
	q, err := client.Resolve(context.Background(), "BARE")
	require.NoError(t, err)
	assert.Equal(t, "BARE", q.DisplayName)
}

func TestTrimSymbolSuffix(t *testing.T) {
	tests := []struct {
		heading string
		symbol  string
		want    string
	}{
		{"Apple Inc. (AAPL)", "AAPL", "Apple Inc."},
		{"Apple Inc.", "AAPL", "Apple Inc."},
		{"(AAPL)", "AAPL", ""},
		{"", "AAPL", ""},
	}

	for _, tt := range tests {
		if got := trimSymbolSuffix(tt.heading, tt.symbol); got != tt.want {
			t.Errorf("trimSymbolSuffix(%q, %q) = %q, want %q", tt.heading, tt.symbol, got, tt.want)
		}
	}
}
