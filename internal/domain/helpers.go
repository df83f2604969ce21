package domain

import "sort"

// RemoveCards returns a new hand without the given card identities.
func RemoveCards(hand []Card, played []Card) []Card {
	drop := make(map[int]bool, len(played))
	for _, c := range played {
		drop[c.ID] = true
	}
	out := make([]Card, 0, len(hand))
	for _, c := range hand {
		if !drop[c.ID] {
			out = append(out, c)
		}
	}
	return out
}

// HasCards reports whether every card is present in hand by identity and
// no identity is repeated.
func HasCards(hand []Card, cards []Card) bool {
	held := make(map[int]bool, len(hand))
	for _, c := range hand {
		held[c.ID] = true
	}
	seen := make(map[int]bool, len(cards))
	for _, c := range cards {
		if !held[c.ID] || seen[c.ID] {
			return false
		}
		seen[c.ID] = true
	}
	return true
}

// CountRanks returns the number of cards per rank.
func CountRanks(cards []Card) map[Rank]int {
	counts := make(map[Rank]int, len(cards))
	for _, c := range cards {
		counts[c.Rank]++
	}
	return counts
}

// RanksWithCount returns, in ascending order, the ranks held exactly n times.
func RanksWithCount(counts map[Rank]int, n int) []Rank {
	var ranks []Rank
	for r, c := range counts {
		if c == n {
			ranks = append(ranks, r)
		}
	}
	sort.Slice(ranks, func(i, j int) bool { return ranks[i] < ranks[j] })
	return ranks
}

// Consecutive reports whether ascending ranks form an unbroken run of
// sequential ranks.
func Consecutive(ranks []Rank) bool {
	for i, r := range ranks {
		if !r.Sequential() {
			return false
		}
		if i > 0 && r != ranks[i-1]+1 {
			return false
		}
	}
	return true
}
