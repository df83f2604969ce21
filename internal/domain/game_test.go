package domain

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"
)

func newBiddingGame(t *testing.T, seed int64, first int) GameState {
	t.Helper()
	g := NewGame([Seats]Player{{ID: "a"}, {ID: "b"}, {ID: "c"}})
	g, err := g.Start(DealCards(rand.New(rand.NewSource(seed))), first)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	return g
}

// playingGame builds a game in the playing phase with fixed hands.
func playingGame(hands [Seats][]Card, landlord int) GameState {
	g := NewGame([Seats]Player{{ID: "a"}, {ID: "b"}, {ID: "c"}})
	g.Phase = PhasePlaying
	g.LandlordIndex = landlord
	g.CurrentTurn = landlord
	for i := range g.Players {
		g.Players[i].Hand = hands[i]
		g.Players[i].Role = RoleFarmer
	}
	g.Players[landlord].Role = RoleLandlord
	return g
}

// snapshot deep-copies a state so later mutation of shared slices shows up.
func snapshot(g GameState) GameState {
	s := g
	for i := range s.Players {
		s.Players[i].Hand = append([]Card(nil), g.Players[i].Hand...)
	}
	s.Bonus = append([]Card(nil), g.Bonus...)
	if g.LastPlay != nil {
		last := *g.LastPlay
		last.Cards = append([]Card(nil), g.LastPlay.Cards...)
		s.LastPlay = &last
	}
	return s
}

func TestStart(t *testing.T) {
	g := newBiddingGame(t, 1, 2)
	if g.Phase != PhaseBidding {
		t.Fatalf("Start() phase = %v, want %v", g.Phase, PhaseBidding)
	}
	if g.CurrentTurn != 2 {
		t.Fatalf("Start() turn = %d, want 2", g.CurrentTurn)
	}
	if _, err := g.Start(Deal{}, 0); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("Start() twice error = %v, want %v", err, ErrWrongPhase)
	}
}

func TestBidding(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	t.Run("highest bidder becomes landlord", func(t *testing.T) {
		g := newBiddingGame(t, 5, 0)
		bonus := g.Bonus
		steps := []struct{ seat, bid int }{{0, 1}, {1, 0}, {2, 2}}
		for _, s := range steps {
			var err error
			g, err = g.Bid(s.seat, s.bid, rng)
			if err != nil {
				t.Fatalf("Bid(%d, %d) error = %v", s.seat, s.bid, err)
			}
		}
		if g.Phase != PhasePlaying {
			t.Fatalf("phase = %v, want %v", g.Phase, PhasePlaying)
		}
		if g.LandlordIndex != 2 || g.CurrentTurn != 2 {
			t.Fatalf("landlord = %d turn = %d, want 2", g.LandlordIndex, g.CurrentTurn)
		}
		if got := len(g.Players[2].Hand); got != HandSize+BonusSize {
			t.Fatalf("landlord hand = %d cards, want %d", got, HandSize+BonusSize)
		}
		if !HasCards(g.Players[2].Hand, bonus) {
			t.Fatalf("landlord hand missing bonus cards %v", bonus)
		}
		if g.Players[0].Role != RoleFarmer || g.Players[2].Role != RoleLandlord {
			t.Fatalf("roles = %v/%v/%v", g.Players[0].Role, g.Players[1].Role, g.Players[2].Role)
		}
	})

	t.Run("bid of three ends bidding", func(t *testing.T) {
		g := newBiddingGame(t, 5, 1)
		g, err := g.Bid(1, 3, rng)
		if err != nil {
			t.Fatalf("Bid() error = %v", err)
		}
		if g.Phase != PhasePlaying || g.LandlordIndex != 1 {
			t.Fatalf("phase = %v landlord = %d, want playing/1", g.Phase, g.LandlordIndex)
		}
	})

	t.Run("nobody bids", func(t *testing.T) {
		g := newBiddingGame(t, 5, 0)
		for seat := 0; seat < Seats; seat++ {
			var err error
			g, err = g.Bid(seat, 0, rand.New(rand.NewSource(9)))
			if err != nil {
				t.Fatalf("Bid() error = %v", err)
			}
		}
		want := rand.New(rand.NewSource(9)).Intn(Seats)
		if g.LandlordIndex != want {
			t.Fatalf("landlord = %d, want %d", g.LandlordIndex, want)
		}
	})

	t.Run("rejections", func(t *testing.T) {
		g := newBiddingGame(t, 5, 0)
		if _, err := g.Bid(1, 1, rng); !errors.Is(err, ErrNotYourTurn) {
			t.Fatalf("Bid() out of turn error = %v, want %v", err, ErrNotYourTurn)
		}
		if _, err := g.Bid(0, 4, rng); !errors.Is(err, ErrInvalidBid) {
			t.Fatalf("Bid(4) error = %v, want %v", err, ErrInvalidBid)
		}
		g, _ = g.Bid(0, 2, rng)
		if _, err := g.Bid(1, 2, rng); !errors.Is(err, ErrInvalidBid) {
			t.Fatalf("Bid() not above high error = %v, want %v", err, ErrInvalidBid)
		}
	})
}

func TestPlayAndPass(t *testing.T) {
	hands := [Seats][]Card{
		set(RankThree, RankFive, RankFive),
		set(RankFour, RankAce),
		set(RankSix, RankKing),
	}
	g := playingGame(hands, 0)

	if _, err := g.Pass(0); !errors.Is(err, ErrMustPlay) {
		t.Fatalf("Pass() while leading error = %v, want %v", err, ErrMustPlay)
	}
	if _, err := g.Play(0, set(RankThree, RankFive)); !errors.Is(err, ErrInvalidHand) {
		t.Fatalf("Play() invalid error = %v, want %v", err, ErrInvalidHand)
	}
	if _, err := g.Play(0, []Card{card(RankAce, SuitClubs)}); !errors.Is(err, ErrCardsNotInHand) {
		t.Fatalf("Play() foreign card error = %v, want %v", err, ErrCardsNotInHand)
	}
	if _, err := g.Play(1, hands[1][:1]); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("Play() out of turn error = %v, want %v", err, ErrNotYourTurn)
	}

	next, err := g.Play(0, hands[0][:1])
	if err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	if len(g.Players[0].Hand) != 3 {
		t.Fatalf("Play() mutated previous state hand = %v", g.Players[0].Hand)
	}
	if next.CurrentTurn != 1 || next.LastPlay == nil || next.LastPlay.Result.Type != Single {
		t.Fatalf("Play() turn = %d last = %+v", next.CurrentTurn, next.LastPlay)
	}

	if _, err := next.Play(1, []Card{hands[1][0], hands[1][1]}); !errors.Is(err, ErrInvalidHand) {
		t.Fatalf("Play() mismatched pair error = %v, want %v", err, ErrInvalidHand)
	}

	next, err = next.Pass(1)
	if err != nil {
		t.Fatalf("Pass() error = %v", err)
	}
	next, err = next.Pass(2)
	if err != nil {
		t.Fatalf("Pass() error = %v", err)
	}
	if next.LastPlay != nil || next.CurrentTurn != 0 {
		t.Fatalf("after two passes last = %+v turn = %d, want cleared/0", next.LastPlay, next.CurrentTurn)
	}
	if _, err := next.Pass(0); !errors.Is(err, ErrMustPlay) {
		t.Fatalf("Pass() after reset error = %v, want %v", err, ErrMustPlay)
	}

	next, err = next.Play(0, hands[0][1:])
	if err != nil {
		t.Fatalf("Play() pair error = %v", err)
	}
	if next.Phase != PhaseFinished || next.Winner != 0 {
		t.Fatalf("phase = %v winner = %d, want finished/0", next.Phase, next.Winner)
	}
	if next.WinningSide() != RoleLandlord {
		t.Fatalf("WinningSide() = %v, want %v", next.WinningSide(), RoleLandlord)
	}
	if _, err := next.Play(1, hands[1][:1]); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("Play() after finish error = %v, want %v", err, ErrWrongPhase)
	}
}

func TestTransitionsLeaveInputUnchanged(t *testing.T) {
	t.Run("bid", func(t *testing.T) {
		g := newBiddingGame(t, 8, 0)
		before := snapshot(g)
		if _, err := g.Bid(0, 1, rand.New(rand.NewSource(1))); err != nil {
			t.Fatalf("Bid() error = %v", err)
		}
		if !reflect.DeepEqual(g, before) {
			t.Fatalf("Bid() changed its input state")
		}
	})

	t.Run("resolving bid", func(t *testing.T) {
		g := newBiddingGame(t, 8, 2)
		before := snapshot(g)
		next, err := g.Bid(2, MaxBid, rand.New(rand.NewSource(1)))
		if err != nil {
			t.Fatalf("Bid() error = %v", err)
		}
		if !reflect.DeepEqual(g, before) {
			t.Fatalf("Bid() changed its input state: hand = %v bonus = %v round = %d",
				g.Players[2].Hand, g.Bonus, g.BidRound)
		}
		next.Players[2].Hand[0] = Card{}
		if !reflect.DeepEqual(g, before) {
			t.Fatalf("landlord hand shares storage with the input state")
		}
	})

	t.Run("pass", func(t *testing.T) {
		hands := [Seats][]Card{
			set(RankThree, RankFive),
			set(RankFour, RankAce),
			set(RankSix, RankKing),
		}
		g, err := playingGame(hands, 0).Play(0, hands[0][:1])
		if err != nil {
			t.Fatalf("Play() error = %v", err)
		}
		for seat := 1; seat <= 2; seat++ {
			before := snapshot(g)
			next, err := g.Pass(seat)
			if err != nil {
				t.Fatalf("Pass(%d) error = %v", seat, err)
			}
			if !reflect.DeepEqual(g, before) {
				t.Fatalf("Pass(%d) changed its input state: last = %+v passes = %d", seat, g.LastPlay, g.PassCount)
			}
			g = next
		}
		if g.LastPlay != nil {
			t.Fatalf("after two passes last = %+v, want cleared", g.LastPlay)
		}
	})
}

func TestPlayCannotBeat(t *testing.T) {
	hands := [Seats][]Card{
		set(RankKing, RankThree),
		set(RankQueen, RankFour, RankFour, RankFour, RankFour),
		set(RankSix),
	}
	g := playingGame(hands, 0)
	g, err := g.Play(0, hands[0][:1])
	if err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	if _, err := g.Play(1, hands[1][:1]); !errors.Is(err, ErrCannotBeat) {
		t.Fatalf("Play() lower single error = %v, want %v", err, ErrCannotBeat)
	}
	g, err = g.Play(1, hands[1][1:])
	if err != nil {
		t.Fatalf("Play() bomb error = %v", err)
	}
	if g.Multiplier != 2 {
		t.Fatalf("Multiplier = %d, want 2", g.Multiplier)
	}
}
