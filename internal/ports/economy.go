package ports

import "context"

// SettlementReason tags wallet ledger entries written when a game settles.
const SettlementReason = "game_settlement"

// WalletUpdate is one signed currency change for a user.
type WalletUpdate struct {
	UserID   string
	Amount   int64
	Metadata map[string]interface{}
}

// SettlementMetadata builds the ledger metadata for a settled game.
func SettlementMetadata(matchID, gameID string) map[string]interface{} {
	return map[string]interface{}{
		"match_id": matchID,
		"game_id":  gameID,
		"reason":   SettlementReason,
	}
}

// EconomyPort reads balances and applies game settlements.
type EconomyPort interface {
	GetBalance(ctx context.Context, userID string) (int64, error)

	// UpdateBalances applies every non-zero change of a settlement together.
	UpdateBalances(ctx context.Context, updates []WalletUpdate) error
}
