package core

import (
	"context"
	"time"

	"github.com/holiman/uint256"
)

// ActionType operation journal action
type ActionType int

const (
	_ ActionType = iota
	// ActionTypeLPDeposit lp deposit
	ActionTypeLPDeposit
	// ActionTypeLPRedeem lp redeem
	ActionTypeLPRedeem
	// ActionTypeDepositCollateral deposit collateral
	ActionTypeDepositCollateral
	// ActionTypeWithdrawCollateral withdraw collateral
	ActionTypeWithdrawCollateral
	// ActionTypeBorrow borrow
	ActionTypeBorrow
	// ActionTypeRepay repay
	ActionTypeRepay
	// ActionTypeLiquidate liquidate
	ActionTypeLiquidate
)

func (a ActionType) String() string {
	switch a {
	case ActionTypeLPDeposit:
		return "lp_deposit"
	case ActionTypeLPRedeem:
		return "lp_redeem"
	case ActionTypeDepositCollateral:
		return "deposit_collateral"
	case ActionTypeWithdrawCollateral:
		return "withdraw_collateral"
	case ActionTypeBorrow:
		return "borrow"
	case ActionTypeRepay:
		return "repay"
	case ActionTypeLiquidate:
		return "liquidate"
	default:
		return "unknown"
	}
}

// Transaction operation journal entry, one row per committed operation
type Transaction struct {
	ID        uint64       `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	TraceID   string       `sql:"size:36;unique_index:trace_idx" json:"trace_id"`
	Action    ActionType   `json:"action"`
	Address   string       `sql:"size:36;index:address_idx" json:"address"`
	Amount    *uint256.Int `sql:"type:varchar(80)" json:"amount"`
	Shares    *uint256.Int `sql:"type:varchar(80)" json:"shares"`
	CreatedAt time.Time    `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// ITransactionStore transaction journal store interface
type ITransactionStore interface {
	Create(ctx context.Context, transaction *Transaction) error
	List(ctx context.Context, fromID uint64, limit int) ([]*Transaction, error)
}
