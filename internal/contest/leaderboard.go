package contest

import (
	"sort"
	"strings"
)

// Rank sorts entries by current value, descending, and assigns dense
// 1-based ranks by sorted position. Entries with equal value are
// ordered by ascending user ID so the result is deterministic; they
// still receive distinct consecutive ranks, not a shared rank.
//
// Pure function: the input slice is not modified.
func Rank(entries []Entry) []Entry {
	ranked := make([]Entry, len(entries))
	copy(ranked, entries)

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].CurrentValue != ranked[j].CurrentValue {
			return ranked[i].CurrentValue > ranked[j].CurrentValue
		}
		return strings.Compare(ranked[i].UserID.String(), ranked[j].UserID.String()) < 0
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}
