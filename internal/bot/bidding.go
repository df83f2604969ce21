package bot

import (
	"doudizhu/internal/bot/internal"
	"doudizhu/internal/domain"
)

// Bid scores the hand statically and returns the bid it supports, or 0 when
// that bid does not beat currentHigh.
func Bid(hand []domain.Card, currentHigh int) int {
	return DefaultTuning.bid(hand, currentHigh)
}

func (t Tuning) bid(hand []domain.Card, currentHigh int) int {
	score := internal.ProfileHand(hand).Strength()
	for b := domain.MaxBid; b >= 1; b-- {
		if score >= t.BidThresholds[b-1] {
			if b > currentHigh {
				return b
			}
			return 0
		}
	}
	return 0
}
