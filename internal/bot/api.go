package bot

import (
	"doudizhu/internal/domain"
)

// Move represents the decision made by the AI.
type Move struct {
	Pass  bool
	Cards []domain.Card
}

// Brain is the interface that all bot strategies must implement.
type Brain interface {
	// Bid returns 0 to pass or a bid strictly above currentHigh.
	Bid(hand []domain.Card, currentHigh int) int
	// CalculateMove picks the play for the seat to act.
	CalculateMove(game domain.GameState, seat int) (Move, error)
}
