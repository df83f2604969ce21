package bot

import (
	"doudizhu/internal/bot/internal"
	"doudizhu/internal/domain"
)

// SmartBot chooses between alternative hand organizations, plays straights,
// and keeps its bombs until an opponent is close to going out or has
// played above an Ace.
type SmartBot struct {
	Tuning Tuning
	Rules  []SelectionRule
}

// NewSmartBot returns a SmartBot with the default tuning and rules.
func NewSmartBot() *SmartBot {
	return &SmartBot{Tuning: DefaultTuning, Rules: DefaultSelectionRules}
}

func (b *SmartBot) Bid(hand []domain.Card, currentHigh int) int {
	return b.Tuning.bid(hand, currentHigh)
}

func (b *SmartBot) CalculateMove(game domain.GameState, seat int) (Move, error) {
	policy := playPolicy{
		tuning: b.Tuning,
		compose: func(hand []domain.Card) internal.HandComposition {
			return SelectComposition(internal.TacticalOptions(hand), b.Rules)
		},
		escalate: b.emergency,
	}
	return toMove(policy.selectPlay(seat, game)), nil
}

// emergency reports whether the last player is worth a bomb.
func (b *SmartBot) emergency(game domain.GameState, seat int) bool {
	last := game.LastPlay
	if last == nil {
		return false
	}
	if last.Result.Rank > b.Tuning.TeammateYieldRank {
		return true
	}
	return len(game.Players[last.Seat].Hand) <= b.Tuning.EmergencyHandSize
}
