package nakama

import (
	"context"
	"errors"
	"testing"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"

	"doudizhu/internal/ports"
)

// fakeNakama overrides only the module calls the adapters and RPCs make.
type fakeNakama struct {
	runtime.NakamaModule
	wallets map[string]string
	batches [][]*runtime.WalletUpdate
	signal  func(id, data string) (string, error)
}

func (f *fakeNakama) MatchSignal(ctx context.Context, id string, data string) (string, error) {
	if f.signal == nil {
		return "", errors.New("match not found")
	}
	return f.signal(id, data)
}

func (f *fakeNakama) AccountGetId(ctx context.Context, userID string) (*api.Account, error) {
	return &api.Account{Wallet: f.wallets[userID]}, nil
}

func (f *fakeNakama) MultiUpdate(ctx context.Context, accountUpdates []*runtime.AccountUpdate, storageWrites []*runtime.StorageWrite, storageDeletes []*runtime.StorageDelete, walletUpdates []*runtime.WalletUpdate, updateLedger bool) ([]*api.StorageObjectAck, []*runtime.WalletUpdateResult, error) {
	f.batches = append(f.batches, walletUpdates)
	return nil, nil, nil
}

func TestEconomyAdapter_GetBalance(t *testing.T) {
	nk := &fakeNakama{wallets: map[string]string{"u1": `{"gold": 750}`, "u2": ""}}
	adapter := NewNakamaEconomyAdapter(nk)

	if got, err := adapter.GetBalance(context.Background(), "u1"); err != nil || got != 750 {
		t.Fatalf("GetBalance(u1) = %d, %v, want 750", got, err)
	}
	if got, err := adapter.GetBalance(context.Background(), "u2"); err != nil || got != 0 {
		t.Fatalf("GetBalance(u2) = %d, %v, want 0", got, err)
	}
}

func TestEconomyAdapter_UpdateBalancesBatches(t *testing.T) {
	nk := &fakeNakama{}
	adapter := NewNakamaEconomyAdapter(nk)

	err := adapter.UpdateBalances(context.Background(), []ports.WalletUpdate{
		{UserID: "u1", Amount: 400},
		{UserID: "u2", Amount: 0},
		{UserID: "u3", Amount: -200},
	})
	if err != nil {
		t.Fatalf("UpdateBalances() error = %v", err)
	}
	if len(nk.batches) != 1 || len(nk.batches[0]) != 2 {
		t.Fatalf("batches = %v, want one batch of 2", nk.batches)
	}
	if got := nk.batches[0][1].Changeset[WalletCurrency]; got != -200 {
		t.Fatalf("u3 change = %d, want -200", got)
	}

	if err := adapter.UpdateBalances(context.Background(), nil); err != nil || len(nk.batches) != 1 {
		t.Fatal("empty update should not call Nakama")
	}
}
