package quote

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// lookupName scrapes the provider's quote page for a company name when
// the chart meta carries neither a short nor a long name. Best effort:
// any failure returns an empty string and the caller falls back to the
// raw symbol.
func (c *Client) lookupName(ctx context.Context, symbol string) string {
	pageURL := fmt.Sprintf("%s/quote/%s/", c.baseURL, symbol)

	resp, err := c.httpClient.Get(ctx, pageURL)
	if err != nil {
		c.logger.WithError(err).WithField("symbol", symbol).Debug("Name lookup failed")
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return ""
	}

	heading := strings.TrimSpace(doc.Find("h1").First().Text())
	return trimSymbolSuffix(heading, symbol)
}

// trimSymbolSuffix strips a trailing "(SYM)" from a page heading like
// "Apple Inc. (AAPL)".
func trimSymbolSuffix(heading, symbol string) string {
	suffix := "(" + symbol + ")"
	if strings.HasSuffix(heading, suffix) {
		heading = strings.TrimSuffix(heading, suffix)
	}
	return strings.TrimSpace(heading)
}
