package wallet

import (
	"context"

	"lendpool/core"

	"github.com/holiman/uint256"
)

// assetLedger in-process asset ledger over the wallet store. Transfer moves
// funds out of pool custody; TransferFrom pulls from an arbitrary holder.
type assetLedger struct {
	store     core.IWalletStore
	asset     string
	custodian string
}

// NewAssetLedger new asset ledger for one asset
func NewAssetLedger(store core.IWalletStore, asset, custodian string) core.IAssetLedger {
	return &assetLedger{
		store:     store,
		asset:     asset,
		custodian: custodian,
	}
}

func (l *assetLedger) Transfer(ctx context.Context, to string, amount *uint256.Int) error {
	return l.store.Move(ctx, l.asset, l.custodian, to, amount)
}

func (l *assetLedger) TransferFrom(ctx context.Context, from, to string, amount *uint256.Int) error {
	return l.store.Move(ctx, l.asset, from, to, amount)
}

func (l *assetLedger) BalanceOf(ctx context.Context, address string) (*uint256.Int, error) {
	return l.store.Balance(ctx, l.asset, address)
}

type shareToken struct {
	store core.IWalletStore
	asset string
}

// NewShareToken new lp share token ledger
func NewShareToken(store core.IWalletStore, asset string) core.IShareToken {
	return &shareToken{
		store: store,
		asset: asset,
	}
}

func (t *shareToken) Mint(ctx context.Context, to string, amount *uint256.Int) error {
	return t.store.Add(ctx, t.asset, to, amount)
}

func (t *shareToken) Burn(ctx context.Context, from string, amount *uint256.Int) error {
	return t.store.Sub(ctx, t.asset, from, amount)
}

func (t *shareToken) BalanceOf(ctx context.Context, address string) (*uint256.Int, error) {
	return t.store.Balance(ctx, t.asset, address)
}
