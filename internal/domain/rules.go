package domain

// HandType is the shape of a played set of cards.
type HandType int

const (
	Invalid HandType = iota
	Pass
	Single
	Pair
	Triple
	TriplePlusOne
	TriplePlusTwo
	Straight
	DoubleStraight
	Airplane
	AirplanePlusWings
	FourPlusTwo
	Bomb
	Rocket
)

func (t HandType) String() string {
	switch t {
	case Invalid:
		return "invalid"
	case Pass:
		return "pass"
	case Single:
		return "single"
	case Pair:
		return "pair"
	case Triple:
		return "triple"
	case TriplePlusOne:
		return "triple_plus_one"
	case TriplePlusTwo:
		return "triple_plus_two"
	case Straight:
		return "straight"
	case DoubleStraight:
		return "double_straight"
	case Airplane:
		return "airplane"
	case AirplanePlusWings:
		return "airplane_plus_wings"
	case FourPlusTwo:
		return "four_plus_two"
	case Bomb:
		return "bomb"
	case Rocket:
		return "rocket"
	default:
		return "unknown"
	}
}

// HandResult is the classification of a played set.
// Length is the run length for straights, double straights and airplanes
// and zero for every other shape.
type HandResult struct {
	Type   HandType `json:"type"`
	Rank   Rank     `json:"rank"`
	Length int      `json:"length,omitempty"`
}

// Classify identifies the shape of a set of cards. Card order does not matter.
func Classify(cards []Card) HandResult {
	n := len(cards)
	if n == 0 {
		return HandResult{Type: Pass}
	}

	counts := CountRanks(cards)
	if n == 2 && counts[RankSmallJoker] == 1 && counts[RankBigJoker] == 1 {
		return HandResult{Type: Rocket, Rank: RankBigJoker}
	}
	if n == 1 {
		return HandResult{Type: Single, Rank: cards[0].Rank}
	}

	if len(counts) == 1 {
		rank := cards[0].Rank
		switch n {
		case 2:
			return HandResult{Type: Pair, Rank: rank}
		case 3:
			return HandResult{Type: Triple, Rank: rank}
		case 4:
			return HandResult{Type: Bomb, Rank: rank}
		}
	}

	fours := RanksWithCount(counts, 4)
	threes := RanksWithCount(counts, 3)
	twos := RanksWithCount(counts, 2)

	switch {
	case n == 4 && len(counts) == 2 && len(threes) == 1:
		return HandResult{Type: TriplePlusOne, Rank: threes[0]}
	case n == 5 && len(counts) == 2 && len(threes) == 1 && len(twos) == 1:
		return HandResult{Type: TriplePlusTwo, Rank: threes[0]}
	case n == 6 && len(fours) == 1:
		return HandResult{Type: FourPlusTwo, Rank: fours[0]}
	case n == 8 && len(fours) == 1 && len(twos) == 2:
		return HandResult{Type: FourPlusTwo, Rank: fours[0]}
	}

	if n >= 5 && n <= 12 && len(counts) == n {
		ranks := RanksWithCount(counts, 1)
		if Consecutive(ranks) {
			return HandResult{Type: Straight, Rank: ranks[n-1], Length: n}
		}
	}

	if n >= 6 && n%2 == 0 && len(twos) == n/2 && Consecutive(twos) {
		return HandResult{Type: DoubleStraight, Rank: twos[len(twos)-1], Length: len(twos)}
	}

	if len(threes) >= 2 && Consecutive(threes) {
		if res, ok := classifyAirplane(n, counts, threes); ok {
			return res
		}
	}

	return HandResult{Type: Invalid}
}

func classifyAirplane(n int, counts map[Rank]int, threes []Rank) (HandResult, bool) {
	body := len(threes)
	res := HandResult{Type: Airplane, Rank: threes[body-1], Length: body}
	kickers := n - body*3

	switch kickers {
	case 0:
		return res, true
	case body:
		res.Type = AirplanePlusWings
		return res, true
	case body * 2:
		wings := 0
		for _, c := range counts {
			if c == 3 {
				continue
			}
			if c != 2 {
				return HandResult{}, false
			}
			wings++
		}
		if wings != body {
			return HandResult{}, false
		}
		res.Type = AirplanePlusWings
		return res, true
	}
	return HandResult{}, false
}

// CanBeat reports whether candidate may be played over current.
func CanBeat(current, candidate HandResult) bool {
	switch candidate.Type {
	case Rocket:
		return true
	case Bomb:
		if current.Type != Bomb && current.Type != Rocket {
			return true
		}
	case Invalid, Pass:
		return false
	}
	if candidate.Type != current.Type {
		return false
	}
	if candidate.Length != current.Length {
		return false
	}
	return candidate.Rank > current.Rank
}
