package app

import (
	"github.com/google/uuid"

	"doudizhu/internal/domain"
)

// EventKind identifies emitted domain events for Nakama dispatch.
type EventKind string

const (
	EventGameStarted    EventKind = "game_started"
	EventHandDealt      EventKind = "hand_dealt"
	EventBidPlaced      EventKind = "bid_placed"
	EventLandlordChosen EventKind = "landlord_chosen"
	EventCardPlayed     EventKind = "card_played"
	EventTurnPassed     EventKind = "turn_passed"
	EventGameEnded      EventKind = "game_ended"
)

// Event is a domain/app event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user IDs; empty means broadcast
}

type GameStartedPayload struct {
	GameID            uuid.UUID
	Phase             domain.Phase
	FirstBidderUserID string
}

type HandDealtPayload struct {
	UserID string
	Hand   []domain.Card
}

type BidPlacedPayload struct {
	UserID         string
	Bid            int
	HighestBid     int
	NextTurnUserID string
}

type LandlordChosenPayload struct {
	UserID     string
	Bid        int
	Bonus      []domain.Card
	HandCounts [domain.Seats]int
}

type CardPlayedPayload struct {
	UserID         string
	Cards          []domain.Card
	Result         domain.HandResult
	CardsRemaining int
	Multiplier     int
	NextTurnUserID string
}

type TurnPassedPayload struct {
	UserID         string
	TableCleared   bool
	NextTurnUserID string
}

type GameEndedPayload struct {
	GameID       uuid.UUID
	WinnerUserID string
	WinningSide  domain.Role
	Multiplier   int
	Hands        [domain.Seats][]domain.Card
}
