package contest

import (
	"github.com/google/uuid"
)

// Entry is one row of a leaderboard: a pick valued at current prices.
// It is a derived view, recomputed from picks and prices on every pass,
// and is never persisted.
type Entry struct {
	UserID       uuid.UUID `json:"user_id"`
	UserName     string    `json:"user_name"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	Ticker       string    `json:"ticker"`
	Quantity     float64   `json:"quantity"`
	BuyPrice     float64   `json:"buy_price"`
	CurrentPrice float64   `json:"current_price"`
	CurrentValue float64   `json:"current_value"`
	Rank         int       `json:"rank"`
}

// Value computes the current market value of every pick. The effective
// price for a pick is the mapped price for its ticker; when the map has
// no entry the pick's buy price is used instead, so a contest with a
// stale or missing quote still shows a meaningful value. No rounding is
// applied; presentation rounds at render time.
//
// Pure function: inputs are not mutated, ranks are left at zero.
func Value(picks []Pick, contestants map[uuid.UUID]Contestant, prices map[string]float64) []Entry {
	entries := make([]Entry, 0, len(picks))
	for _, p := range picks {
		price, ok := prices[p.Ticker]
		if !ok {
			price = p.BuyPrice
		}

		c := contestants[p.UserID]
		entries = append(entries, Entry{
			UserID:       p.UserID,
			UserName:     c.DisplayName(),
			AvatarURL:    c.AvatarURL,
			Ticker:       p.Ticker,
			Quantity:     p.Quantity,
			BuyPrice:     p.BuyPrice,
			CurrentPrice: price,
			CurrentValue: p.Quantity * price,
		})
	}
	return entries
}

// BuildLeaderboard is the full valuation pass: value every pick, then
// sort and rank.
func BuildLeaderboard(picks []Pick, contestants map[uuid.UUID]Contestant, prices map[string]float64) []Entry {
	return Rank(Value(picks, contestants, prices))
}
