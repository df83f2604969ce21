package internal

import "doudizhu/internal/domain"

// HandProfile summarizes the high cards of a hand for bidding.
type HandProfile struct {
	TotalCards int
	BigJoker   bool
	SmallJoker bool
	Twos       int
	Aces       int
	Bombs      int
}

// Bid strength weights.
const (
	BigJokerWeight   = 6
	SmallJokerWeight = 5
	TwoWeight        = 3
	AceWeight        = 1
	BombWeight       = 6
)

// ProfileHand counts the cards that drive bid strength.
func ProfileHand(hand []domain.Card) HandProfile {
	profile := HandProfile{TotalCards: len(hand)}
	counts := domain.CountRanks(hand)

	profile.BigJoker = counts[domain.RankBigJoker] > 0
	profile.SmallJoker = counts[domain.RankSmallJoker] > 0
	profile.Twos = counts[domain.RankTwo]
	profile.Aces = counts[domain.RankAce]
	profile.Bombs = len(domain.RanksWithCount(counts, 4))

	return profile
}

// Strength is the static bid score of the profile.
func (p HandProfile) Strength() int {
	score := p.Twos*TwoWeight + p.Aces*AceWeight + p.Bombs*BombWeight
	if p.BigJoker {
		score += BigJokerWeight
	}
	if p.SmallJoker {
		score += SmallJokerWeight
	}
	return score
}
