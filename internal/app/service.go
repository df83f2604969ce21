package app

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"doudizhu/internal/domain"
)

// Service contains Dou Di Zhu use-cases operating on domain state.
type Service struct {
	rng    *rand.Rand
	logger *zap.Logger
}

// NewService constructs a Service with provided rng or a time-seeded default.
func NewService(rng *rand.Rand, logger *zap.Logger) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{rng: rng, logger: logger}
}

var (
	ErrMatchNotEnded  = errors.New("match not ended")
	ErrTooFewPlayers  = errors.New("not enough players to start")
	ErrUnknownPlayer  = errors.New("player not found")
	ErrUnknownCard    = errors.New("card not in hand")
	ErrDuplicateCard  = errors.New("card listed twice")
	ErrInvalidBaseBet = errors.New("base bet must be positive")
)

// Game is a running table: a stable id plus the current engine state.
type Game struct {
	ID    uuid.UUID
	State domain.GameState
}

// PlayerInfo identifies the occupant of a seat.
type PlayerInfo struct {
	UserID string
	Name   string
}

// Payout is the settled amount for one seat; negative amounts are losses.
type Payout struct {
	UserID string
	Role   domain.Role
	Amount int64
}

// StartGame deals a new game to the players in seat order and opens bidding
// with a random first bidder.
func (s *Service) StartGame(players []PlayerInfo) (Game, []Event, error) {
	if len(players) != domain.Seats {
		return Game{}, nil, ErrTooFewPlayers
	}
	var seats [domain.Seats]domain.Player
	for i, p := range players {
		if p.UserID == "" {
			return Game{}, nil, ErrTooFewPlayers
		}
		seats[i] = domain.Player{ID: p.UserID, Name: p.Name, Ready: true}
	}

	state, err := domain.NewGame(seats).Start(domain.DealCards(s.rng), s.rng.Intn(domain.Seats))
	if err != nil {
		return Game{}, nil, fmt.Errorf("start game: %w", err)
	}
	game := Game{ID: uuid.New(), State: state}

	events := make([]Event, 0, domain.Seats+1)
	for _, pl := range state.Players {
		events = append(events, Event{
			Kind:       EventHandDealt,
			Payload:    HandDealtPayload{UserID: pl.ID, Hand: pl.Hand},
			Recipients: []string{pl.ID},
		})
	}
	events = append(events, Event{
		Kind: EventGameStarted,
		Payload: GameStartedPayload{
			GameID:            game.ID,
			Phase:             state.Phase,
			FirstBidderUserID: state.Players[state.CurrentTurn].ID,
		},
	})

	s.logger.Info("game started",
		zap.String("game_id", game.ID.String()),
		zap.String("first_bidder", state.Players[state.CurrentTurn].ID))
	return game, events, nil
}

// PlaceBid records a bid of 0 to 3. When bidding resolves the landlord takes
// the bonus cards and is told their new hand privately.
func (s *Service) PlaceBid(game Game, actorUserID string, value int) (Game, []Event, error) {
	seat, err := seatOf(game.State, actorUserID)
	if err != nil {
		return game, nil, err
	}
	next, err := game.State.Bid(seat, value, s.rng)
	if err != nil {
		s.logger.Debug("bid rejected", zap.String("game_id", game.ID.String()), zap.Int("seat", seat), zap.Error(err))
		return game, nil, err
	}
	game.State = next

	events := []Event{{
		Kind: EventBidPlaced,
		Payload: BidPlacedPayload{
			UserID:         actorUserID,
			Bid:            value,
			HighestBid:     next.HighestBid,
			NextTurnUserID: next.Players[next.CurrentTurn].ID,
		},
	}}

	if next.Phase == domain.PhasePlaying {
		landlord := next.Players[next.LandlordIndex]
		var counts [domain.Seats]int
		for i, pl := range next.Players {
			counts[i] = len(pl.Hand)
		}
		events = append(events,
			Event{
				Kind: EventLandlordChosen,
				Payload: LandlordChosenPayload{
					UserID:     landlord.ID,
					Bid:        next.HighestBid,
					Bonus:      next.Bonus,
					HandCounts: counts,
				},
			},
			Event{
				Kind:       EventHandDealt,
				Payload:    HandDealtPayload{UserID: landlord.ID, Hand: landlord.Hand},
				Recipients: []string{landlord.ID},
			},
		)
		s.logger.Info("landlord chosen",
			zap.String("game_id", game.ID.String()),
			zap.String("landlord", landlord.ID),
			zap.Int("bid", next.HighestBid))
	}
	return game, events, nil
}

// PlayCards resolves card ids against the actor's hand and plays them.
func (s *Service) PlayCards(game Game, actorUserID string, cardIDs []int) (Game, []Event, error) {
	seat, err := seatOf(game.State, actorUserID)
	if err != nil {
		return game, nil, err
	}
	if len(cardIDs) == 0 {
		return s.PassTurn(game, actorUserID)
	}
	cards, err := ResolveCards(game.State.Players[seat].Hand, cardIDs)
	if err != nil {
		return game, nil, err
	}

	next, err := game.State.Play(seat, cards)
	if err != nil {
		s.logger.Debug("play rejected", zap.String("game_id", game.ID.String()), zap.Int("seat", seat), zap.Error(err))
		return game, nil, err
	}
	game.State = next

	played := next.LastPlay
	events := []Event{{
		Kind: EventCardPlayed,
		Payload: CardPlayedPayload{
			UserID:         actorUserID,
			Cards:          played.Cards,
			Result:         played.Result,
			CardsRemaining: len(next.Players[seat].Hand),
			Multiplier:     next.Multiplier,
			NextTurnUserID: next.Players[next.CurrentTurn].ID,
		},
	}}

	if next.Phase == domain.PhaseFinished {
		var hands [domain.Seats][]domain.Card
		for i, pl := range next.Players {
			hands[i] = pl.Hand
		}
		events = append(events, Event{
			Kind: EventGameEnded,
			Payload: GameEndedPayload{
				GameID:       game.ID,
				WinnerUserID: actorUserID,
				WinningSide:  next.WinningSide(),
				Multiplier:   next.Multiplier,
				Hands:        hands,
			},
		})
		s.logger.Info("game ended",
			zap.String("game_id", game.ID.String()),
			zap.String("winner", actorUserID),
			zap.String("side", string(next.WinningSide())),
			zap.Int("multiplier", next.Multiplier))
	}
	return game, events, nil
}

// PassTurn declines to beat the table.
func (s *Service) PassTurn(game Game, actorUserID string) (Game, []Event, error) {
	seat, err := seatOf(game.State, actorUserID)
	if err != nil {
		return game, nil, err
	}
	next, err := game.State.Pass(seat)
	if err != nil {
		return game, nil, err
	}
	game.State = next

	return game, []Event{
		{
			Kind: EventTurnPassed,
			Payload: TurnPassedPayload{
				UserID:         actorUserID,
				TableCleared:   next.LastPlay == nil,
				NextTurnUserID: next.Players[next.CurrentTurn].ID,
			},
		},
	}, nil
}

// Settle computes the wallet change for every seat of a finished game. One
// stake is baseBet times the winning bid times the bomb multiplier; each
// farmer pays or receives one stake and the landlord the sum.
func (s *Service) Settle(game Game, baseBet int64) ([]Payout, error) {
	state := game.State
	if state.Phase != domain.PhaseFinished {
		return nil, ErrMatchNotEnded
	}
	if baseBet <= 0 {
		return nil, ErrInvalidBaseBet
	}

	bid := int64(state.HighestBid)
	if bid < 1 {
		bid = 1
	}
	stake := baseBet * bid * int64(state.Multiplier)
	if state.WinningSide() == domain.RoleFarmer {
		stake = -stake
	}

	payouts := make([]Payout, 0, domain.Seats)
	for _, pl := range state.Players {
		amount := -stake
		if pl.Role == domain.RoleLandlord {
			amount = stake * LandlordShare
		}
		payouts = append(payouts, Payout{UserID: pl.ID, Role: pl.Role, Amount: amount})
	}
	return payouts, nil
}

// ResolveCards maps card ids to the cards in hand, keeping the given order.
func ResolveCards(hand []domain.Card, cardIDs []int) ([]domain.Card, error) {
	byID := make(map[int]domain.Card, len(hand))
	for _, c := range hand {
		byID[c.ID] = c
	}
	seen := make(map[int]bool, len(cardIDs))
	out := make([]domain.Card, 0, len(cardIDs))
	for _, id := range cardIDs {
		c, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %d", ErrUnknownCard, id)
		}
		if seen[id] {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateCard, id)
		}
		seen[id] = true
		out = append(out, c)
	}
	return out, nil
}

// CardIDs returns the ids of the given cards.
func CardIDs(cards []domain.Card) []int {
	ids := make([]int, len(cards))
	for i, c := range cards {
		ids[i] = c.ID
	}
	return ids
}

func seatOf(state domain.GameState, userID string) (int, error) {
	for i, pl := range state.Players {
		if pl.ID == userID {
			return i, nil
		}
	}
	return domain.NoSeat, ErrUnknownPlayer
}
