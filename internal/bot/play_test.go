package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doudizhu/internal/bot/internal"
	"doudizhu/internal/domain"
)

// cards builds cards of the given ranks with the ids NewDeck assigns them.
func cards(ranks ...domain.Rank) []domain.Card {
	return cardsFrom(0, ranks...)
}

// cardsFrom is cards starting at a later suit so two hands never share ids.
func cardsFrom(firstSuit int, ranks ...domain.Rank) []domain.Card {
	seen := make(map[domain.Rank]int)
	out := make([]domain.Card, 0, len(ranks))
	for _, r := range ranks {
		switch r {
		case domain.RankSmallJoker:
			out = append(out, domain.Card{Suit: domain.SuitJoker, Rank: r, ID: 52})
		case domain.RankBigJoker:
			out = append(out, domain.Card{Suit: domain.SuitJoker, Rank: r, ID: 53})
		default:
			s := firstSuit + seen[r]
			out = append(out, domain.Card{Suit: domain.Suit(s), Rank: r, ID: s*13 + int(r-domain.RankThree)})
		}
		seen[r]++
	}
	return out
}

func ranksOf(cs []domain.Card) []domain.Rank {
	out := make([]domain.Rank, len(cs))
	for i, c := range cs {
		out[i] = c.Rank
	}
	return out
}

// table builds a playing state with seat 0 as landlord. last is played by
// lastSeat when non-nil.
func table(hands [domain.Seats][]domain.Card, turn int, lastSeat int, last []domain.Card) domain.GameState {
	g := domain.NewGame([domain.Seats]domain.Player{{ID: "p0"}, {ID: "p1"}, {ID: "p2"}})
	g.Phase = domain.PhasePlaying
	g.LandlordIndex = 0
	g.CurrentTurn = turn
	for i := range g.Players {
		g.Players[i].Hand = hands[i]
		g.Players[i].Role = domain.RoleFarmer
	}
	g.Players[0].Role = domain.RoleLandlord
	if last != nil {
		g.LastPlay = &domain.Play{Seat: lastSeat, Cards: last, Result: domain.Classify(last)}
	}
	return g
}

func TestSelectPlay_Lead(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		hand []domain.Card
		want []domain.Rank
	}{
		{
			name: "airplane first",
			hand: cards(domain.RankThree, domain.RankSeven, domain.RankSeven, domain.RankSeven,
				domain.RankEight, domain.RankEight, domain.RankEight),
			want: []domain.Rank{domain.RankSeven, domain.RankSeven, domain.RankSeven, domain.RankEight, domain.RankEight, domain.RankEight},
		},
		{
			name: "triple takes smallest single",
			hand: cards(domain.RankKing, domain.RankNine, domain.RankNine, domain.RankNine, domain.RankFour, domain.RankSix, domain.RankSix),
			want: []domain.Rank{domain.RankNine, domain.RankNine, domain.RankNine, domain.RankFour},
		},
		{
			name: "triple takes pair without singles",
			hand: cards(domain.RankNine, domain.RankNine, domain.RankNine, domain.RankSix, domain.RankSix),
			want: []domain.Rank{domain.RankNine, domain.RankNine, domain.RankNine, domain.RankSix, domain.RankSix},
		},
		{
			name: "pair before single",
			hand: cards(domain.RankThree, domain.RankQueen, domain.RankQueen),
			want: []domain.Rank{domain.RankQueen, domain.RankQueen},
		},
		{
			name: "smallest single",
			hand: cards(domain.RankTwo, domain.RankFive, domain.RankAce),
			want: []domain.Rank{domain.RankFive},
		},
		{
			name: "bomb before rocket",
			hand: cards(domain.RankSmallJoker, domain.RankBigJoker, domain.RankSix, domain.RankSix, domain.RankSix, domain.RankSix),
			want: []domain.Rank{domain.RankSix, domain.RankSix, domain.RankSix, domain.RankSix},
		},
		{
			name: "rocket last",
			hand: cards(domain.RankSmallJoker, domain.RankBigJoker),
			want: []domain.Rank{domain.RankSmallJoker, domain.RankBigJoker},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := table([domain.Seats][]domain.Card{tt.hand, nil, nil}, 0, 0, nil)
			got := SelectPlay(0, g)
			assert.Equal(t, tt.want, ranksOf(got))
			assert.NotEqual(t, domain.Invalid, domain.Classify(got).Type)
		})
	}
}

func TestSelectPlay_Follow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		hand     []domain.Card
		seat     int
		lastSeat int
		last     []domain.Card
		want     []domain.Rank
	}{
		{
			name:     "smallest single that beats",
			hand:     cards(domain.RankFour, domain.RankNine, domain.RankKing),
			seat:     1,
			lastSeat: 0,
			last:     cardsFrom(3, domain.RankEight),
			want:     []domain.Rank{domain.RankNine},
		},
		{
			name:     "breaks a pair for a single",
			hand:     cards(domain.RankFour, domain.RankKing, domain.RankKing),
			seat:     1,
			lastSeat: 0,
			last:     cardsFrom(3, domain.RankEight),
			want:     []domain.Rank{domain.RankKing},
		},
		{
			name:     "pair over pair",
			hand:     cards(domain.RankFour, domain.RankFour, domain.RankJack, domain.RankJack),
			seat:     1,
			lastSeat: 0,
			last:     cardsFrom(2, domain.RankTen, domain.RankTen),
			want:     []domain.Rank{domain.RankJack, domain.RankJack},
		},
		{
			name:     "yields to teammate above ace",
			hand:     cards(domain.RankBigJoker),
			seat:     2,
			lastSeat: 1,
			last:     cardsFrom(3, domain.RankTwo),
			want:     nil,
		},
		{
			name:     "contests teammate low card",
			hand:     cards(domain.RankNine),
			seat:     2,
			lastSeat: 1,
			last:     cardsFrom(3, domain.RankFive),
			want:     []domain.Rank{domain.RankNine},
		},
		{
			name:     "bombs an opponent",
			hand:     cards(domain.RankFour, domain.RankSix, domain.RankSix, domain.RankSix, domain.RankSix),
			seat:     1,
			lastSeat: 0,
			last:     cardsFrom(3, domain.RankAce),
			want:     []domain.Rank{domain.RankSix, domain.RankSix, domain.RankSix, domain.RankSix},
		},
		{
			name:     "never bombs a teammate",
			hand:     cards(domain.RankFour, domain.RankSix, domain.RankSix, domain.RankSix, domain.RankSix),
			seat:     2,
			lastSeat: 1,
			last:     cardsFrom(3, domain.RankAce),
			want:     nil,
		},
		{
			name:     "higher bomb over bomb",
			hand:     cards(domain.RankFive, domain.RankFive, domain.RankFive, domain.RankFive, domain.RankNine, domain.RankNine, domain.RankNine, domain.RankNine),
			seat:     1,
			lastSeat: 0,
			last:     cards(domain.RankSeven, domain.RankSeven, domain.RankSeven, domain.RankSeven),
			want:     []domain.Rank{domain.RankNine, domain.RankNine, domain.RankNine, domain.RankNine},
		},
		{
			name:     "splits the rocket for a single",
			hand:     cards(domain.RankThree, domain.RankFour, domain.RankSmallJoker, domain.RankBigJoker),
			seat:     1,
			lastSeat: 0,
			last:     cardsFrom(3, domain.RankTwo),
			want:     []domain.Rank{domain.RankSmallJoker},
		},
		{
			name:     "rocket over bomb",
			hand:     cards(domain.RankSmallJoker, domain.RankBigJoker, domain.RankThree),
			seat:     1,
			lastSeat: 0,
			last:     cards(domain.RankSeven, domain.RankSeven, domain.RankSeven, domain.RankSeven),
			want:     []domain.Rank{domain.RankSmallJoker, domain.RankBigJoker},
		},
		{
			name:     "nothing beats rocket",
			hand:     cards(domain.RankTwo, domain.RankTwo, domain.RankTwo, domain.RankTwo),
			seat:     1,
			lastSeat: 0,
			last:     cards(domain.RankSmallJoker, domain.RankBigJoker),
			want:     nil,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var hands [domain.Seats][]domain.Card
			hands[tt.seat] = tt.hand
			hands[tt.lastSeat] = cardsFrom(3, domain.RankThree)
			g := table(hands, tt.seat, tt.lastSeat, tt.last)

			got := SelectPlay(tt.seat, g)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, ranksOf(got))
			assert.True(t, domain.CanBeat(g.LastPlay.Result, domain.Classify(got)))
		})
	}
}

func TestFindSmallestBeat(t *testing.T) {
	t.Parallel()

	t.Run("pair from a triple", func(t *testing.T) {
		hand := cards(domain.RankFour, domain.RankFour, domain.RankJack, domain.RankJack, domain.RankJack)
		target := domain.HandResult{Type: domain.Pair, Rank: domain.RankTen}
		got := FindSmallestBeat(hand, target, internal.Decompose(hand))
		assert.Equal(t, []domain.Rank{domain.RankJack, domain.RankJack}, ranksOf(got))
	})

	t.Run("triple plus one borrows smallest single", func(t *testing.T) {
		hand := cards(domain.RankThree, domain.RankQueen, domain.RankQueen, domain.RankQueen, domain.RankAce)
		target := domain.HandResult{Type: domain.TriplePlusOne, Rank: domain.RankTen}
		got := FindSmallestBeat(hand, target, internal.Decompose(hand))
		assert.Equal(t, []domain.Rank{domain.RankQueen, domain.RankQueen, domain.RankQueen, domain.RankThree}, ranksOf(got))
	})

	t.Run("triple plus two needs a pair", func(t *testing.T) {
		hand := cards(domain.RankThree, domain.RankQueen, domain.RankQueen, domain.RankQueen)
		target := domain.HandResult{Type: domain.TriplePlusTwo, Rank: domain.RankTen}
		assert.Empty(t, FindSmallestBeat(hand, target, internal.Decompose(hand)))
	})

	t.Run("single from airplane by brute force", func(t *testing.T) {
		hand := cards(domain.RankSeven, domain.RankSeven, domain.RankSeven, domain.RankEight, domain.RankEight, domain.RankEight)
		target := domain.HandResult{Type: domain.Single, Rank: domain.RankFive}
		got := FindSmallestBeat(hand, target, internal.Decompose(hand))
		assert.Equal(t, []domain.Rank{domain.RankSeven}, ranksOf(got))
	})

	t.Run("never breaks a bomb", func(t *testing.T) {
		hand := cards(domain.RankSix, domain.RankSix, domain.RankSix, domain.RankSix)
		target := domain.HandResult{Type: domain.Single, Rank: domain.RankFive}
		assert.Empty(t, FindSmallestBeat(hand, target, internal.Decompose(hand)))
	})

	t.Run("single joker from the rocket", func(t *testing.T) {
		hand := cards(domain.RankThree, domain.RankSmallJoker, domain.RankBigJoker)
		target := domain.HandResult{Type: domain.Single, Rank: domain.RankTwo}
		got := FindSmallestBeat(hand, target, internal.Decompose(hand))
		assert.Equal(t, []domain.Rank{domain.RankSmallJoker}, ranksOf(got))
	})

	t.Run("straight window", func(t *testing.T) {
		hand := cards(domain.RankFour, domain.RankFive, domain.RankSix, domain.RankSeven, domain.RankEight, domain.RankNine)
		target := domain.HandResult{Type: domain.Straight, Rank: domain.RankSeven, Length: 5}
		got := FindSmallestBeat(hand, target, internal.DecomposeStraightsFirst(hand))
		require.Len(t, got, 5)
		assert.Equal(t, domain.RankEight, domain.Classify(got).Rank)
	})
}
