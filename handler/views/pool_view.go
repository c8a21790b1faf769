package views

import (
	"time"

	"github.com/shopspring/decimal"
)

// Pool pool view
type Pool struct {
	TotalDeposited     decimal.Decimal `json:"total_deposited"`
	TotalBorrowed      decimal.Decimal `json:"total_borrowed"`
	LPSharePrice       decimal.Decimal `json:"lp_share_price"`
	BorrowerSharePrice decimal.Decimal `json:"borrower_share_price"`
	Utilization        decimal.Decimal `json:"utilization"`
	BorrowAPY          decimal.Decimal `json:"borrow_apy"`
	LenderAPY          decimal.Decimal `json:"lender_apy"`
	LastUpdateTime     time.Time       `json:"last_update_time"`
}

// Account borrower account view
type Account struct {
	Address                string           `json:"address"`
	BorrowerShares         decimal.Decimal  `json:"borrower_shares"`
	CollateralAmount       decimal.Decimal  `json:"collateral_amount"`
	CollateralValue        decimal.Decimal  `json:"collateral_value"`
	DebtValue              decimal.Decimal  `json:"debt_value"`
	CollateralizationRatio *decimal.Decimal `json:"collateralization_ratio,omitempty"`
	Liquidatable           bool             `json:"liquidatable"`
}

// Transaction journal entry view
type Transaction struct {
	ID        uint64          `json:"id"`
	TraceID   string          `json:"trace_id"`
	Action    string          `json:"action"`
	Address   string          `json:"address"`
	Amount    decimal.Decimal `json:"amount"`
	Shares    decimal.Decimal `json:"shares"`
	CreatedAt time.Time       `json:"created_at"`
}
