package core

import (
	"context"
	"time"

	"github.com/holiman/uint256"
)

// ILendingEngine serialized lending pool engine
//
// Every mutating operation accrues interest first, validates against fresh
// share prices, commits the in-memory ledger, persists, and performs the
// external transfer last. A failure at any point leaves no partial state.
type ILendingEngine interface {
	// Accrue advances both share prices to now. Idempotent within one second.
	Accrue(ctx context.Context, now time.Time) error

	LPDeposit(ctx context.Context, lender string, amount, minSharesOut *uint256.Int) (shares *uint256.Int, err error)
	LPRedeem(ctx context.Context, lender string, shares, minAmountOut *uint256.Int) (amount *uint256.Int, err error)
	DepositCollateral(ctx context.Context, borrower string, amount *uint256.Int) error
	WithdrawCollateral(ctx context.Context, borrower string, amount *uint256.Int) error
	Borrow(ctx context.Context, borrower string, amount *uint256.Int) error
	Repay(ctx context.Context, borrower string, amount, minSharesBurned *uint256.Int) (sharesBurned *uint256.Int, err error)
	Liquidate(ctx context.Context, liquidator, borrower string) (seized *uint256.Int, err error)

	// Pool returns a consistent snapshot of the ledger.
	Pool(ctx context.Context) (*Pool, error)
	// Account returns a snapshot of one borrower account, a zeroed account
	// if the address was never used.
	Account(ctx context.Context, address string) (*BorrowerAccount, error)
}
