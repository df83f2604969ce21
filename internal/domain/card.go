package domain

import "fmt"

// Suit of a card. Jokers carry SuitJoker.
type Suit int

const (
	SuitSpades Suit = iota
	SuitHearts
	SuitDiamonds
	SuitClubs
	SuitJoker
)

func (s Suit) String() string {
	switch s {
	case SuitSpades:
		return "S"
	case SuitHearts:
		return "H"
	case SuitDiamonds:
		return "D"
	case SuitClubs:
		return "C"
	case SuitJoker:
		return "J"
	default:
		return "?"
	}
}

// Rank orders cards from 3 (lowest) up to the Big Joker.
type Rank int

const (
	RankThree Rank = 3 + iota
	RankFour
	RankFive
	RankSix
	RankSeven
	RankEight
	RankNine
	RankTen
	RankJack
	RankQueen
	RankKing
	RankAce
	RankTwo
	RankSmallJoker
	RankBigJoker
)

// Sequential reports whether the rank may appear in a straight, double straight or airplane.
func (r Rank) Sequential() bool {
	return r >= RankThree && r < RankTwo
}

func (r Rank) String() string {
	switch r {
	case RankJack:
		return "J"
	case RankQueen:
		return "Q"
	case RankKing:
		return "K"
	case RankAce:
		return "A"
	case RankTwo:
		return "2"
	case RankSmallJoker:
		return "SJ"
	case RankBigJoker:
		return "BJ"
	}
	if r >= RankThree && r <= RankTen {
		return fmt.Sprintf("%d", int(r))
	}
	return "?"
}

// Card is a single playing card. ID is unique within a deck (0..53) and is
// only used to tell equal-ranked cards apart.
type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
	ID   int  `json:"id"`
}

func (c Card) String() string {
	if c.Suit == SuitJoker {
		return c.Rank.String()
	}
	return c.Rank.String() + c.Suit.String()
}
