package domain

// Phase represents the lifecycle stage of a Dou Di Zhu game.
type Phase string

const (
	// PhaseWaiting is the state before cards are dealt.
	PhaseWaiting Phase = "waiting"
	// PhaseBidding is the state where seats bid for the landlord role.
	PhaseBidding Phase = "bidding"
	// PhasePlaying is the state where cards are played.
	PhasePlaying Phase = "playing"
	// PhaseFinished is terminal; Winner holds the seat that emptied its hand.
	PhaseFinished Phase = "finished"
)

// Role is the side a player is on once bidding resolves.
type Role string

const (
	RoleNone     Role = ""
	RoleLandlord Role = "landlord"
	RoleFarmer   Role = "farmer"
)

// MaxBid is the highest bid; it ends bidding immediately.
const MaxBid = 3

// NoSeat marks an unset seat reference.
const NoSeat = -1

// Player holds the per-seat state of a game.
type Player struct {
	ID    string
	Name  string
	Hand  []Card
	Role  Role
	Bid   int // -1 until the seat has bid
	Ready bool
}

// Play is the hand currently on the table.
type Play struct {
	Seat   int
	Cards  []Card
	Result HandResult
}

// GameState is an immutable snapshot of a game. Transitions return a new
// value and never modify the receiver.
type GameState struct {
	Phase         Phase
	Players       [Seats]Player
	LandlordIndex int
	CurrentTurn   int
	LastPlay      *Play
	PassCount     int
	Bonus         []Card
	Winner        int
	BidRound      int
	HighestBid    int
	HighestBidder int
	// Multiplier doubles for every bomb or rocket played.
	Multiplier int
}

// Leading reports whether the seat to act may play any shape.
func (g GameState) Leading() bool {
	return g.LastPlay == nil || g.PassCount >= 2
}

// Teammates reports whether two seats are on the same side.
func (g GameState) Teammates(a, b int) bool {
	if a == b {
		return true
	}
	ra, rb := g.Players[a].Role, g.Players[b].Role
	return ra != RoleNone && ra == rb
}

// WinningSide returns the role of the winner, or RoleNone while unfinished.
func (g GameState) WinningSide() Role {
	if g.Phase != PhaseFinished || g.Winner == NoSeat {
		return RoleNone
	}
	return g.Players[g.Winner].Role
}

// NextSeat returns the seat after the given one in turn order.
func NextSeat(seat int) int {
	return (seat + 1) % Seats
}

func (g GameState) clone() GameState {
	next := g
	for i := range next.Players {
		next.Players[i].Hand = append([]Card(nil), g.Players[i].Hand...)
	}
	next.Bonus = append([]Card(nil), g.Bonus...)
	return next
}
