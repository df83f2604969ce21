package internal

import (
	"doudizhu/internal/domain"
)

// HandComposition is a partition of a hand into playable structures.
// Every card of the hand appears in exactly one group.
type HandComposition struct {
	Rocket          []domain.Card
	Bombs           [][]domain.Card
	Airplanes       [][]domain.Card
	Straights       [][]domain.Card
	DoubleStraights [][]domain.Card
	Triples         [][]domain.Card
	Pairs           [][]domain.Card
	Singles         []domain.Card // ascending
}

// Cards flattens the composition back into a single slice.
func (c HandComposition) Cards() []domain.Card {
	var out []domain.Card
	out = append(out, c.Rocket...)
	for _, groups := range [][][]domain.Card{c.Bombs, c.Airplanes, c.Straights, c.DoubleStraights, c.Triples, c.Pairs} {
		for _, g := range groups {
			out = append(out, g...)
		}
	}
	return append(out, c.Singles...)
}

// TacticalOptions returns the alternative partitions of a hand.
func TacticalOptions(hand []domain.Card) []HandComposition {
	return []HandComposition{Decompose(hand), DecomposeStraightsFirst(hand)}
}

// Decompose partitions a hand greedily: rocket, bombs, airplanes, triples,
// pairs, then singles. Straights and double straights are never extracted.
func Decompose(hand []domain.Card) HandComposition {
	var comp HandComposition
	pool := workingCopy(hand)

	comp.Rocket, pool = ExtractRocket(pool)
	comp.Bombs, pool = ExtractSets(pool, 4)
	comp.Airplanes, pool = ExtractAirplanes(pool)
	comp.Triples, pool = ExtractSets(pool, 3)
	comp.Pairs, pool = ExtractSets(pool, 2)
	comp.Singles = pool

	return comp
}

// DecomposeStraightsFirst is Decompose with a straight pass between
// airplanes and triples.
func DecomposeStraightsFirst(hand []domain.Card) HandComposition {
	var comp HandComposition
	pool := workingCopy(hand)

	comp.Rocket, pool = ExtractRocket(pool)
	comp.Bombs, pool = ExtractSets(pool, 4)
	comp.Airplanes, pool = ExtractAirplanes(pool)
	comp.Straights, pool = ExtractStraights(pool)
	comp.Triples, pool = ExtractSets(pool, 3)
	comp.Pairs, pool = ExtractSets(pool, 2)
	comp.Singles = pool

	return comp
}

func workingCopy(hand []domain.Card) []domain.Card {
	pool := make([]domain.Card, len(hand))
	copy(pool, hand)
	domain.SortAscending(pool)
	return pool
}

// ExtractRocket removes both jokers when the pool holds them.
func ExtractRocket(pool []domain.Card) ([]domain.Card, []domain.Card) {
	counts := domain.CountRanks(pool)
	if counts[domain.RankSmallJoker] == 0 || counts[domain.RankBigJoker] == 0 {
		return nil, pool
	}
	return takeRanks(pool, []domain.Rank{domain.RankSmallJoker, domain.RankBigJoker}, 1)
}

// ExtractSets removes every rank held exactly n times, lowest rank first.
func ExtractSets(pool []domain.Card, n int) ([][]domain.Card, []domain.Card) {
	var sets [][]domain.Card
	for _, r := range domain.RanksWithCount(domain.CountRanks(pool), n) {
		var group []domain.Card
		group, pool = takeRanks(pool, []domain.Rank{r}, n)
		sets = append(sets, group)
	}
	return sets, pool
}

// ExtractAirplanes repeatedly removes the longest run of consecutive
// triples, rescanning the pool after each removal.
func ExtractAirplanes(pool []domain.Card) ([][]domain.Card, []domain.Card) {
	var planes [][]domain.Card
	for {
		run := longestRun(domain.RanksWithCount(domain.CountRanks(pool), 3), 2)
		if run == nil {
			return planes, pool
		}
		var plane []domain.Card
		plane, pool = takeRanks(pool, run, 3)
		planes = append(planes, plane)
	}
}

// ExtractStraights repeatedly removes the longest straight of five or more
// distinct ranks, one card per rank.
func ExtractStraights(pool []domain.Card) ([][]domain.Card, []domain.Card) {
	var straights [][]domain.Card
	for {
		counts := domain.CountRanks(pool)
		var ranks []domain.Rank
		for r := domain.RankThree; r < domain.RankTwo; r++ {
			if counts[r] > 0 {
				ranks = append(ranks, r)
			}
		}
		run := longestRun(ranks, 5)
		if run == nil {
			return straights, pool
		}
		var straight []domain.Card
		straight, pool = takeRanks(pool, run, 1)
		straights = append(straights, straight)
	}
}

// longestRun returns the first longest window of consecutive ranks of at
// least minLen entries, or nil.
func longestRun(ranks []domain.Rank, minLen int) []domain.Rank {
	for size := len(ranks); size >= minLen; size-- {
		for start := 0; start+size <= len(ranks); start++ {
			if window := ranks[start : start+size]; domain.Consecutive(window) {
				return window
			}
		}
	}
	return nil
}

// takeRanks removes up to per cards of each rank from pool, lowest suit first.
func takeRanks(pool []domain.Card, ranks []domain.Rank, per int) ([]domain.Card, []domain.Card) {
	want := make(map[domain.Rank]int, len(ranks))
	for _, r := range ranks {
		want[r] = per
	}
	taken := make([]domain.Card, 0, len(ranks)*per)
	remaining := make([]domain.Card, 0, len(pool))
	for _, c := range pool {
		if want[c.Rank] > 0 {
			want[c.Rank]--
			taken = append(taken, c)
			continue
		}
		remaining = append(remaining, c)
	}
	return taken, remaining
}
