// Package quote resolves ticker symbols to current prices via the
// Yahoo Finance chart API.
package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"

	"github.com/pickarena/backend/pkg/config"
	"github.com/pickarena/backend/pkg/httputil"
	"github.com/pickarena/backend/pkg/logger"
)

// Currencies the contests settle in. USX is Yahoo's non-standard
// US-cent denomination; prices in it are kept verbatim, no conversion.
const (
	CurrencyUSD = "USD"
	CurrencyUSX = "USX"
)

// Quote is a resolved instrument: latest daily price plus display data.
type Quote struct {
	Symbol      string  `json:"symbol"`
	Price       float64 `json:"price"`
	DisplayName string  `json:"companyName"`
	Currency    string  `json:"currency"`
}

// Resolver resolves a ticker symbol to a quote.
type Resolver interface {
	Resolve(ctx context.Context, ticker string) (*Quote, error)
}

// Client talks to the quote provider. All provider calls go through
// this client; the rate limiter protects the single upstream shared by
// the interactive search path and the batch refresh job.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	limiter    *rate.Limiter
}

// NewClient creates a new quote provider client.
func NewClient(cfg *config.Config, httpClient *httputil.Client, log *logger.Logger) *Client {
	rps := cfg.Quote.RateLimit
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    strings.TrimRight(cfg.Quote.BaseURL, "/"),
		limiter:    rate.NewLimiter(rate.Limit(rps), rps),
	}
}

// chartResponse mirrors the provider's chart payload; only the meta
// fields the resolver needs are mapped.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				Currency           string  `json:"currency"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				ShortName          string  `json:"shortName"`
				LongName           string  `json:"longName"`
			} `json:"meta"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Resolve fetches the most recent daily quote for a ticker. The symbol
// is normalized to upper case. Read-only; persisting a pick is the
// caller's job.
func (c *Client) Resolve(ctx context.Context, ticker string) (*Quote, error) {
	symbol := strings.ToUpper(strings.TrimSpace(ticker))
	if symbol == "" {
		return nil, fmt.Errorf("empty ticker: %w", ErrNotFound)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	chartURL := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=1d",
		c.baseURL, url.PathEscape(symbol))

	resp, err := c.httpClient.Get(ctx, chartURL)
	if err != nil {
		return nil, fmt.Errorf("fetch chart for %s: %w: %v", symbol, ErrUnavailable, err)
	}
	defer resp.Body.Close()

	// The provider answers 404 for unknown symbols; everything else
	// non-2xx is an upstream failure.
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("symbol %s: %w", symbol, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chart status %d for %s: %w", resp.StatusCode, symbol, ErrUnavailable)
	}

	var payload chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode chart for %s: %w", symbol, ErrUnavailable)
	}

	if len(payload.Chart.Result) == 0 {
		return nil, fmt.Errorf("no chart data for %s: %w", symbol, ErrNotFound)
	}

	meta := payload.Chart.Result[0].Meta

	if meta.Currency != CurrencyUSD && meta.Currency != CurrencyUSX {
		return nil, fmt.Errorf("%s is quoted in %s: %w", symbol, meta.Currency, ErrUnsupportedCurrency)
	}

	if meta.RegularMarketPrice <= 0 {
		return nil, fmt.Errorf("price %v for %s: %w", meta.RegularMarketPrice, symbol, ErrInvalidPrice)
	}

	// shortName, then longName, then a quote-page scrape, then the
	// raw symbol.
	name := meta.ShortName
	if name == "" {
		name = meta.LongName
	}
	if name == "" {
		name = c.lookupName(ctx, symbol)
	}
	if name == "" {
		name = symbol
	}

	q := &Quote{
		Symbol:      symbol,
		Price:       meta.RegularMarketPrice,
		DisplayName: name,
		Currency:    meta.Currency,
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol":   q.Symbol,
		"price":    q.Price,
		"currency": q.Currency,
	}).Debug("Resolved quote")

	return q, nil
}
