package contest

import (
	"testing"

	"github.com/google/uuid"
)

var (
	userA = uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	userB = uuid.MustParse("00000000-0000-0000-0000-00000000000b")
	userC = uuid.MustParse("00000000-0000-0000-0000-00000000000c")
)

func TestValueWithCurrentPrices(t *testing.T) {
	picks := []Pick{
		{UserID: userA, Ticker: "AAPL", Quantity: 4, BuyPrice: 250},
		{UserID: userB, Ticker: "MSFT", Quantity: 2, BuyPrice: 500},
	}
	contestants := map[uuid.UUID]Contestant{
		userA: {ID: userA, Username: "alpha"},
		userB: {ID: userB, Username: "beta"},
	}
	prices := map[string]float64{"AAPL": 260, "MSFT": 490}

	entries := Value(picks, contestants, prices)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}

	if entries[0].CurrentPrice != 260 || entries[0].CurrentValue != 4*260.0 {
		t.Errorf("AAPL entry = (%v, %v), want (260, 1040)", entries[0].CurrentPrice, entries[0].CurrentValue)
	}
	if entries[1].CurrentPrice != 490 || entries[1].CurrentValue != 2*490.0 {
		t.Errorf("MSFT entry = (%v, %v), want (490, 980)", entries[1].CurrentPrice, entries[1].CurrentValue)
	}
	if entries[0].UserName != "alpha" {
		t.Errorf("user name = %q, want alpha", entries[0].UserName)
	}
}

// A pick whose ticker is missing from the price map values at its buy
// price, not at zero and not as an error.
func TestValueBuyPriceFallback(t *testing.T) {
	picks := []Pick{
		{UserID: userA, Ticker: "AAPL", Quantity: 3.5, BuyPrice: 120},
	}
	contestants := map[uuid.UUID]Contestant{userA: {ID: userA, Username: "alpha"}}

	entries := Value(picks, contestants, map[string]float64{})
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].CurrentPrice != 120 {
		t.Errorf("fallback price = %v, want buy price 120", entries[0].CurrentPrice)
	}
	if entries[0].CurrentValue != 3.5*120.0 {
		t.Errorf("fallback value = %v, want %v", entries[0].CurrentValue, 3.5*120.0)
	}
}

func TestValueDoesNotMutateInputs(t *testing.T) {
	picks := []Pick{{UserID: userA, Ticker: "AAPL", Quantity: 1, BuyPrice: 100}}
	prices := map[string]float64{"AAPL": 110}

	_ = Value(picks, nil, prices)

	if picks[0].BuyPrice != 100 || picks[0].Quantity != 1 {
		t.Error("Value mutated the input picks")
	}
	if prices["AAPL"] != 110 || len(prices) != 1 {
		t.Error("Value mutated the input price map")
	}
}

// Two picks of the same ticker with no quote in the map: both fall back
// to their buy price and rank by value.
func TestValueSharedTickerScenario(t *testing.T) {
	picks := []Pick{
		{UserID: userA, Ticker: "AAPL", Quantity: 2, BuyPrice: 100},
		{UserID: userB, Ticker: "AAPL", Quantity: 3, BuyPrice: 100},
	}
	contestants := map[uuid.UUID]Contestant{
		userA: {ID: userA, Username: "alpha"},
		userB: {ID: userB, Username: "beta"},
	}

	board := BuildLeaderboard(picks, contestants, map[string]float64{})
	if len(board) != 2 {
		t.Fatalf("got %d entries, want 2", len(board))
	}

	// Higher value ranks first
	if board[0].CurrentValue != 300 || board[0].Rank != 1 || board[0].UserName != "beta" {
		t.Errorf("rank 1 = %+v, want beta at $300", board[0])
	}
	if board[1].CurrentValue != 200 || board[1].Rank != 2 || board[1].UserName != "alpha" {
		t.Errorf("rank 2 = %+v, want alpha at $200", board[1])
	}
}
