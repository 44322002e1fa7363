// Package contest holds the domain core of the stock-pick contest:
// contests, picks, valuation and leaderboard ranking. Everything in this
// package is pure; persistence and transport live elsewhere.
package contest

import (
	"time"

	"github.com/google/uuid"
)

// Budget is the fixed notional amount every participant invests,
// in the settlement currency. Shared by all contests.
const Budget = 1000.0

// Status is the derived lifecycle state of a contest. It is computed
// from the clock on demand and never stored.
type Status string

const (
	StatusUpcoming Status = "upcoming"
	StatusActive   Status = "active"
	StatusEnded    Status = "ended"
)

// Contest is a time-boxed stock-picking competition.
type Contest struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	CreatedAt   time.Time `json:"created_at"`
}

// StatusAt derives the contest status at the given instant. Both
// boundaries are inclusive: a contest is active at exactly its start
// and at exactly its end.
func (c *Contest) StatusAt(now time.Time) Status {
	if now.Before(c.StartTime) {
		return StatusUpcoming
	}
	if now.After(c.EndTime) {
		return StatusEnded
	}
	return StatusActive
}

// Pick is one participant's single security selection in a contest.
// A participant may hold at most one pick per contest; the store
// enforces the uniqueness.
type Pick struct {
	ContestID uuid.UUID `json:"contest_id"`
	UserID    uuid.UUID `json:"user_id"`
	Ticker    string    `json:"ticker"`
	Quantity  float64   `json:"quantity"`
	BuyPrice  float64   `json:"buy_price"`
	CreatedAt time.Time `json:"created_at"`
}

// Contestant is the participant profile used for display names.
type Contestant struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	AvatarURL string    `json:"avatar_url"`
}

// DisplayName resolves the name shown on the leaderboard:
// username, then full name, then a placeholder.
func (c Contestant) DisplayName() string {
	if c.Username != "" {
		return c.Username
	}
	if c.FullName != "" {
		return c.FullName
	}
	return "Unknown user"
}

// QuantityFor returns the fractional share count the fixed budget buys
// at the given entry price. No rounding is applied before storage.
func QuantityFor(price float64) float64 {
	return Budget / price
}
