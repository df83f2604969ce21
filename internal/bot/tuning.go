package bot

import "doudizhu/internal/domain"

// Tuning holds the thresholds the rule-based strategies share.
type Tuning struct {
	// BidThresholds[i] is the hand strength needed to bid i+1.
	BidThresholds [domain.MaxBid]int
	// TeammateYieldRank: a teammate's play ranked above this is never contested.
	TeammateYieldRank domain.Rank
	// EmergencyHandSize is the opponent hand size at which SmartBot spends bombs.
	EmergencyHandSize int
}

// DefaultTuning matches the reference bidding and yielding rules.
var DefaultTuning = Tuning{
	BidThresholds:     [domain.MaxBid]int{5, 8, 12},
	TeammateYieldRank: domain.RankAce,
	EmergencyHandSize: 5,
}
