package bot

import (
	"doudizhu/internal/domain"
)

// StandardBot plays the reference rule set: greedy decomposition without
// straights and unconditional bomb escalation against opponents.
type StandardBot struct{}

func (b *StandardBot) Bid(hand []domain.Card, currentHigh int) int {
	return Bid(hand, currentHigh)
}

func (b *StandardBot) CalculateMove(game domain.GameState, seat int) (Move, error) {
	return toMove(SelectPlay(seat, game)), nil
}

func toMove(cards []domain.Card) Move {
	if len(cards) == 0 {
		return Move{Pass: true}
	}
	return Move{Cards: cards}
}
