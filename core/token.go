package core

import (
	"context"

	"github.com/holiman/uint256"
)

// IAssetLedger asset transfer collaborator
//
// Transfer moves funds out of pool custody, TransferFrom pulls funds in.
// Both must fail hard on insufficient balance; the engine treats any
// failure as a full-operation abort.
type IAssetLedger interface {
	Transfer(ctx context.Context, to string, amount *uint256.Int) error
	TransferFrom(ctx context.Context, from, to string, amount *uint256.Int) error
	BalanceOf(ctx context.Context, address string) (*uint256.Int, error)
}

// IShareToken LP share ledger collaborator
type IShareToken interface {
	Mint(ctx context.Context, to string, amount *uint256.Int) error
	Burn(ctx context.Context, from string, amount *uint256.Int) error
	BalanceOf(ctx context.Context, address string) (*uint256.Int, error)
}

// IWalletStore balance bookkeeping behind the in-process ledgers
type IWalletStore interface {
	Add(ctx context.Context, asset, address string, amount *uint256.Int) error
	Sub(ctx context.Context, asset, address string, amount *uint256.Int) error
	Move(ctx context.Context, asset, from, to string, amount *uint256.Int) error
	Balance(ctx context.Context, asset, address string) (*uint256.Int, error)
}
