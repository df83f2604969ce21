package bot

import (
	"fmt"

	"doudizhu/internal/domain"
)

// Agent represents an autonomous bot player.
type Agent struct {
	ID       string
	Name     string
	Strategy Brain
}

// NewAgent builds an agent for a bot identity, picking the brain from its difficulty.
func NewAgent(identity BotIdentity) (*Agent, error) {
	level, err := ParseBotLevel(identity.Difficulty)
	if err != nil {
		return nil, fmt.Errorf("bot %s: %w", identity.UserID, err)
	}
	brain, err := NewBrain(level)
	if err != nil {
		return nil, err
	}
	return &Agent{ID: identity.UserID, Name: identity.DisplayName, Strategy: brain}, nil
}

// Play asks the agent for its move at the given seat.
func (a *Agent) Play(game domain.GameState, seat int) (Move, error) {
	if seat < 0 || seat >= domain.Seats || game.Players[seat].ID != a.ID {
		// Agent is not seated here
		return Move{Pass: true}, nil
	}
	return a.Strategy.CalculateMove(game, seat)
}

// Bid asks the agent for its bid at the given seat.
func (a *Agent) Bid(game domain.GameState, seat int) int {
	if seat < 0 || seat >= domain.Seats {
		return 0
	}
	return a.Strategy.Bid(game.Players[seat].Hand, game.HighestBid)
}
