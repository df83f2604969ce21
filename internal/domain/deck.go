package domain

import "sort"

const (
	// DeckSize is the number of cards including both jokers.
	DeckSize = 54
	// HandSize is the number of cards dealt to each seat.
	HandSize = 17
	// BonusSize is the number of landlord cards kept aside at deal time.
	BonusSize = 3
	// Seats is the fixed number of players at a table.
	Seats = 3
)

// RandomSource is the subset of *rand.Rand the engine needs.
type RandomSource interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// NewDeck returns the 54-card deck in id order.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	id := 0
	for _, s := range []Suit{SuitSpades, SuitHearts, SuitDiamonds, SuitClubs} {
		for r := RankThree; r <= RankTwo; r++ {
			deck = append(deck, Card{Suit: s, Rank: r, ID: id})
			id++
		}
	}
	deck = append(deck,
		Card{Suit: SuitJoker, Rank: RankSmallJoker, ID: id},
		Card{Suit: SuitJoker, Rank: RankBigJoker, ID: id + 1},
	)
	return deck
}

// Shuffle returns a shuffled copy of the given deck.
func Shuffle(deck []Card, rnd RandomSource) []Card {
	out := make([]Card, len(deck))
	copy(out, deck)
	rnd.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// SortCards orders cards by descending rank, then by suit.
func SortCards(cards []Card) {
	sort.SliceStable(cards, func(i, j int) bool {
		if cards[i].Rank != cards[j].Rank {
			return cards[i].Rank > cards[j].Rank
		}
		return cards[i].Suit < cards[j].Suit
	})
}

// SortAscending orders cards by ascending rank, then by suit.
func SortAscending(cards []Card) {
	sort.SliceStable(cards, func(i, j int) bool {
		if cards[i].Rank != cards[j].Rank {
			return cards[i].Rank < cards[j].Rank
		}
		return cards[i].Suit < cards[j].Suit
	})
}

// Deal is the result of dealing a shuffled deck.
type Deal struct {
	Hands [Seats][]Card
	Bonus []Card
}

// DealCards shuffles a fresh deck and splits it 17/17/17 plus 3 bonus cards.
func DealCards(rnd RandomSource) Deal {
	deck := Shuffle(NewDeck(), rnd)
	var d Deal
	for seat := 0; seat < Seats; seat++ {
		hand := append([]Card(nil), deck[seat*HandSize:(seat+1)*HandSize]...)
		SortCards(hand)
		d.Hands[seat] = hand
	}
	d.Bonus = append([]Card(nil), deck[Seats*HandSize:]...)
	SortCards(d.Bonus)
	return d
}
