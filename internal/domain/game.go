package domain

import "errors"

var (
	// ErrWrongPhase is returned for actions not allowed in the current phase.
	ErrWrongPhase = errors.New("action not allowed in current phase")
	// ErrInvalidSeat is returned for a seat index outside the table.
	ErrInvalidSeat = errors.New("invalid seat")
	// ErrNotYourTurn is returned when a seat acts out of turn.
	ErrNotYourTurn = errors.New("not your turn")
	// ErrCardsNotInHand is returned when a play names cards the seat does not hold.
	ErrCardsNotInHand = errors.New("cards not in hand")
	// ErrInvalidHand is returned when the played cards form no legal shape.
	ErrInvalidHand = errors.New("invalid hand")
	// ErrCannotBeat is returned when a legal shape does not beat the table.
	ErrCannotBeat = errors.New("cannot beat previous play")
	// ErrMustPlay is returned for a pass while leading.
	ErrMustPlay = errors.New("must play")
	// ErrInvalidBid is returned for a bid outside 0..3 or not above the current high.
	ErrInvalidBid = errors.New("invalid bid")
)

// NewGame returns a waiting game for the given seats.
func NewGame(players [Seats]Player) GameState {
	g := GameState{
		Phase:         PhaseWaiting,
		LandlordIndex: NoSeat,
		Winner:        NoSeat,
		HighestBidder: NoSeat,
		Multiplier:    1,
	}
	for i, p := range players {
		g.Players[i] = Player{ID: p.ID, Name: p.Name, Ready: p.Ready, Bid: -1}
	}
	return g
}

// Start deals the hands and moves the game to bidding with firstBidder to act.
func (g GameState) Start(deal Deal, firstBidder int) (GameState, error) {
	if g.Phase != PhaseWaiting {
		return g, ErrWrongPhase
	}
	if firstBidder < 0 || firstBidder >= Seats {
		return g, ErrInvalidSeat
	}
	next := g.clone()
	for i := range next.Players {
		next.Players[i].Hand = append([]Card(nil), deal.Hands[i]...)
		next.Players[i].Role = RoleNone
		next.Players[i].Bid = -1
	}
	next.Bonus = append([]Card(nil), deal.Bonus...)
	next.Phase = PhaseBidding
	next.CurrentTurn = firstBidder
	return next, nil
}

// Bid records a bid of 0 (pass) to 3 for the seat to act. Bidding resolves
// after every seat has bid once or as soon as someone bids 3.
func (g GameState) Bid(seat, value int, rnd RandomSource) (GameState, error) {
	if err := g.checkTurn(PhaseBidding, seat); err != nil {
		return g, err
	}
	if value < 0 || value > MaxBid || (value > 0 && value <= g.HighestBid) {
		return g, ErrInvalidBid
	}

	next := g.clone()
	next.Players[seat].Bid = value
	next.BidRound++
	if value > next.HighestBid {
		next.HighestBid = value
		next.HighestBidder = seat
	}

	if next.BidRound >= Seats || value == MaxBid {
		return next.resolveBidding(rnd), nil
	}
	next.CurrentTurn = NextSeat(seat)
	return next, nil
}

func (g GameState) resolveBidding(rnd RandomSource) GameState {
	landlord := g.HighestBidder
	if landlord == NoSeat {
		landlord = rnd.Intn(Seats)
	}

	hand := make([]Card, 0, len(g.Players[landlord].Hand)+len(g.Bonus))
	hand = append(hand, g.Players[landlord].Hand...)
	hand = append(hand, g.Bonus...)
	SortCards(hand)
	g.Players[landlord].Hand = hand

	for i := range g.Players {
		g.Players[i].Role = RoleFarmer
	}
	g.Players[landlord].Role = RoleLandlord

	g.LandlordIndex = landlord
	g.Phase = PhasePlaying
	g.CurrentTurn = landlord
	g.LastPlay = nil
	g.PassCount = 0
	return g
}

// Play applies a play by the seat to act. An empty play is a pass. Invalid
// shapes and plays that do not beat the table are rejected without change.
func (g GameState) Play(seat int, cards []Card) (GameState, error) {
	if len(cards) == 0 {
		return g.Pass(seat)
	}
	if err := g.checkTurn(PhasePlaying, seat); err != nil {
		return g, err
	}
	if !HasCards(g.Players[seat].Hand, cards) {
		return g, ErrCardsNotInHand
	}

	result := Classify(cards)
	if result.Type == Invalid {
		return g, ErrInvalidHand
	}
	if !g.Leading() && !CanBeat(g.LastPlay.Result, result) {
		return g, ErrCannotBeat
	}

	next := g.clone()
	next.Players[seat].Hand = RemoveCards(next.Players[seat].Hand, cards)

	played := append([]Card(nil), cards...)
	SortCards(played)
	next.LastPlay = &Play{Seat: seat, Cards: played, Result: result}
	next.PassCount = 0
	if result.Type == Bomb || result.Type == Rocket {
		next.Multiplier *= 2
	}

	if len(next.Players[seat].Hand) == 0 {
		next.Phase = PhaseFinished
		next.Winner = seat
		return next, nil
	}
	next.CurrentTurn = NextSeat(seat)
	return next, nil
}

// Pass declines to beat the table. The table clears after two consecutive passes.
func (g GameState) Pass(seat int) (GameState, error) {
	if err := g.checkTurn(PhasePlaying, seat); err != nil {
		return g, err
	}
	if g.Leading() {
		return g, ErrMustPlay
	}

	next := g.clone()
	next.PassCount++
	if next.PassCount >= 2 {
		next.LastPlay = nil
	}
	next.CurrentTurn = NextSeat(seat)
	return next, nil
}

func (g GameState) checkTurn(phase Phase, seat int) error {
	if g.Phase != phase {
		return ErrWrongPhase
	}
	if seat < 0 || seat >= Seats {
		return ErrInvalidSeat
	}
	if g.CurrentTurn != seat {
		return ErrNotYourTurn
	}
	return nil
}
