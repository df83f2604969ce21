package bot

import (
	"doudizhu/internal/bot/internal"
	"doudizhu/internal/domain"
)

// playPolicy is the shared lead/follow procedure. Strategies differ in how
// they partition the hand and when they may spend a bomb or the rocket.
type playPolicy struct {
	tuning   Tuning
	compose  func(hand []domain.Card) internal.HandComposition
	escalate func(game domain.GameState, seat int) bool
}

var referencePolicy = playPolicy{
	tuning:   DefaultTuning,
	compose:  internal.Decompose,
	escalate: func(domain.GameState, int) bool { return true },
}

// SelectPlay returns the cards the seat to act should play, or nil to pass.
func SelectPlay(seat int, game domain.GameState) []domain.Card {
	return referencePolicy.selectPlay(seat, game)
}

func (p playPolicy) selectPlay(seat int, game domain.GameState) []domain.Card {
	if seat < 0 || seat >= domain.Seats {
		return nil
	}
	hand := game.Players[seat].Hand
	if len(hand) == 0 {
		return nil
	}
	comp := p.compose(hand)

	if game.Leading() {
		return lead(hand, comp)
	}

	last := game.LastPlay
	teammate := game.Teammates(last.Seat, seat)
	if teammate && (last.Result.Rank > p.tuning.TeammateYieldRank || isTrump(last.Result.Type)) {
		return nil
	}

	if beat := FindSmallestBeat(hand, last.Result, comp); len(beat) > 0 {
		return beat
	}

	if !teammate && p.escalate(game, seat) {
		return escalation(last.Result, comp)
	}
	return nil
}

// lead dumps structured groups first: airplane, straight, triple with a
// kicker, pair, single, then bomb and rocket.
func lead(hand []domain.Card, comp internal.HandComposition) []domain.Card {
	switch {
	case len(comp.Airplanes) > 0:
		return comp.Airplanes[0]
	case len(comp.Straights) > 0:
		return comp.Straights[0]
	case len(comp.Triples) > 0:
		play := append([]domain.Card(nil), comp.Triples[0]...)
		if len(comp.Singles) > 0 {
			return append(play, comp.Singles[0])
		}
		if len(comp.Pairs) > 0 {
			return append(play, comp.Pairs[0]...)
		}
		return play
	case len(comp.Pairs) > 0:
		return comp.Pairs[0]
	case len(comp.Singles) > 0:
		return []domain.Card{comp.Singles[0]}
	case len(comp.Bombs) > 0:
		return comp.Bombs[0]
	case len(comp.Rocket) > 0:
		return comp.Rocket
	}
	return []domain.Card{hand[0]}
}

// FindSmallestBeat returns the cheapest same-type play from the composition
// that beats target, or nil. Bombs are never used or broken; a lone joker
// may answer a single.
func FindSmallestBeat(hand []domain.Card, target domain.HandResult, comp internal.HandComposition) []domain.Card {
	beats := func(cards []domain.Card) bool {
		return domain.CanBeat(target, domain.Classify(cards))
	}

	switch target.Type {
	case domain.Single:
		for _, c := range comp.Singles {
			if beats([]domain.Card{c}) {
				return []domain.Card{c}
			}
		}
		for _, pair := range comp.Pairs {
			if beats(pair[:1]) {
				return []domain.Card{pair[0]}
			}
		}
		for _, c := range looseCards(hand, comp) {
			if beats([]domain.Card{c}) {
				return []domain.Card{c}
			}
		}

	case domain.Pair:
		for _, pair := range comp.Pairs {
			if beats(pair) {
				return pair
			}
		}
		for _, triple := range comp.Triples {
			if beats(triple[:2]) {
				return triple[:2]
			}
		}
		loose := looseCards(hand, comp)
		counts := domain.CountRanks(loose)
		for i, c := range loose {
			if counts[c.Rank] < 2 || (i > 0 && loose[i-1].Rank == c.Rank) {
				continue
			}
			if pair := loose[i : i+2]; beats(pair) {
				return pair
			}
		}

	case domain.Triple:
		for _, triple := range comp.Triples {
			if beats(triple) {
				return triple
			}
		}

	case domain.TriplePlusOne:
		var kicker []domain.Card
		switch {
		case len(comp.Singles) > 0:
			kicker = comp.Singles[:1]
		case len(comp.Pairs) > 0:
			kicker = comp.Pairs[0][:1]
		default:
			return nil
		}
		for _, triple := range comp.Triples {
			if play := withKicker(triple, kicker); beats(play) {
				return play
			}
		}

	case domain.TriplePlusTwo:
		if len(comp.Pairs) == 0 {
			return nil
		}
		for _, triple := range comp.Triples {
			if play := withKicker(triple, comp.Pairs[0]); beats(play) {
				return play
			}
		}

	case domain.Straight:
		for _, straight := range comp.Straights {
			for start := 0; start+target.Length <= len(straight); start++ {
				if window := straight[start : start+target.Length]; beats(window) {
					return window
				}
			}
		}
	}
	return nil
}

// escalation spends a bomb or the rocket over target when that is legal.
func escalation(target domain.HandResult, comp internal.HandComposition) []domain.Card {
	switch target.Type {
	case domain.Rocket:
		return nil
	case domain.Bomb:
		for _, bomb := range comp.Bombs {
			if bomb[0].Rank > target.Rank {
				return bomb
			}
		}
	default:
		if len(comp.Bombs) > 0 {
			return comp.Bombs[0]
		}
	}
	if len(comp.Rocket) > 0 {
		return comp.Rocket
	}
	return nil
}

// looseCards is the hand in ascending order without bomb cards.
func looseCards(hand []domain.Card, comp internal.HandComposition) []domain.Card {
	reserved := make([]domain.Card, 0, 4*len(comp.Bombs))
	for _, bomb := range comp.Bombs {
		reserved = append(reserved, bomb...)
	}
	loose := domain.RemoveCards(hand, reserved)
	domain.SortAscending(loose)
	return loose
}

func withKicker(body, kicker []domain.Card) []domain.Card {
	play := make([]domain.Card, 0, len(body)+len(kicker))
	play = append(play, body...)
	return append(play, kicker...)
}

func isTrump(t domain.HandType) bool {
	return t == domain.Bomb || t == domain.Rocket
}
