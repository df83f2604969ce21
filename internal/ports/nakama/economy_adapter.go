package nakama

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/heroiclabs/nakama-common/runtime"

	"doudizhu/internal/ports"
)

// WalletCurrency is the wallet key stakes are settled in.
const WalletCurrency = "gold"

// NakamaEconomyAdapter implements ports.EconomyPort using Nakama's wallet system.
type NakamaEconomyAdapter struct {
	nk runtime.NakamaModule
}

var _ ports.EconomyPort = (*NakamaEconomyAdapter)(nil)

// NewNakamaEconomyAdapter creates a new economy adapter.
func NewNakamaEconomyAdapter(nk runtime.NakamaModule) *NakamaEconomyAdapter {
	return &NakamaEconomyAdapter{nk: nk}
}

// GetBalance retrieves the current gold balance for a user.
func (a *NakamaEconomyAdapter) GetBalance(ctx context.Context, userID string) (int64, error) {
	account, err := a.nk.AccountGetId(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to get account: %w", err)
	}
	if account.GetWallet() == "" {
		return 0, nil
	}

	var wallet map[string]int64
	if err := json.Unmarshal([]byte(account.GetWallet()), &wallet); err != nil {
		return 0, fmt.Errorf("failed to unmarshal wallet: %w", err)
	}
	return wallet[WalletCurrency], nil
}

// UpdateBalances applies all non-zero wallet changes in one Nakama call so a
// settlement is recorded for every seat or for none.
func (a *NakamaEconomyAdapter) UpdateBalances(ctx context.Context, updates []ports.WalletUpdate) error {
	batch := make([]*runtime.WalletUpdate, 0, len(updates))
	for _, update := range updates {
		if update.Amount == 0 {
			continue
		}
		batch = append(batch, &runtime.WalletUpdate{
			UserID:    update.UserID,
			Changeset: map[string]int64{WalletCurrency: update.Amount},
			Metadata:  update.Metadata,
		})
	}
	if len(batch) == 0 {
		return nil
	}

	if _, _, err := a.nk.MultiUpdate(ctx, nil, nil, nil, batch, true); err != nil {
		return fmt.Errorf("failed to update wallets: %w", err)
	}
	return nil
}
