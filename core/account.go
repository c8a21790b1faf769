package core

import (
	"context"
	"time"

	"github.com/holiman/uint256"
)

// BorrowerAccount per-address borrow position
//
// Created lazily on the first collateral deposit or borrow. An account with
// zero shares and zero collateral behaves like a never-used one.
type BorrowerAccount struct {
	Address string `sql:"size:36;PRIMARY_KEY" json:"address"`
	// 债务份额, 通过 borrower_share_price 换算成欠款
	BorrowerShares *uint256.Int `sql:"type:varchar(80)" json:"borrower_shares"`
	// 抵押资产数量
	CollateralAmount *uint256.Int `sql:"type:varchar(80)" json:"collateral_amount"`
	Version          int64        `sql:"default:0" json:"version"`
	CreatedAt        time.Time    `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time    `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Clone deep copy of the account
func (a *BorrowerAccount) Clone() *BorrowerAccount {
	c := *a
	c.BorrowerShares = new(uint256.Int).Set(a.BorrowerShares)
	c.CollateralAmount = new(uint256.Int).Set(a.CollateralAmount)
	return &c
}

// IAccountStore borrower account store interface
type IAccountStore interface {
	Save(ctx context.Context, account *BorrowerAccount) error
	Find(ctx context.Context, address string) (*BorrowerAccount, error)
	All(ctx context.Context) ([]*BorrowerAccount, error)
}

// IAccountService borrower account valuation interface
type IAccountService interface {
	// CollateralValue normalized to the underlying unit, 18 decimals.
	// Returns zero without touching the oracle when no collateral is posted.
	CollateralValue(ctx context.Context, account *BorrowerAccount) (*uint256.Int, error)
	DebtValue(ctx context.Context, account *BorrowerAccount, pool *Pool) (*uint256.Int, error)
	CollateralizationRatio(ctx context.Context, account *BorrowerAccount, pool *Pool) (*uint256.Int, error)
	CanLiquidate(ctx context.Context, account *BorrowerAccount, pool *Pool) (bool, error)
}
