package contest

// ApplyPriceUpdate folds one price change into an already ranked
// leaderboard: every entry holding the ticker gets the new price and a
// recomputed value, all other entries are untouched, and the whole set
// is re-ranked. Several participants may hold the same ticker; one
// event updates all of them.
//
// The result is identical to a full BuildLeaderboard pass with the
// updated price map. This is an incremental shortcut, not a different
// algorithm.
func ApplyPriceUpdate(entries []Entry, ticker string, price float64) []Entry {
	updated := make([]Entry, len(entries))
	copy(updated, entries)

	for i := range updated {
		if updated[i].Ticker == ticker {
			updated[i].CurrentPrice = price
			updated[i].CurrentValue = updated[i].Quantity * price
		}
	}
	return Rank(updated)
}
