package core

import "strconv"

// ErrorCode int
type ErrorCode int

const (
	// ErrUnknown unknown
	ErrUnknown ErrorCode = 100000
	// ErrInvalidAmount invalid amount
	ErrInvalidAmount ErrorCode = 100001
	// ErrAccountNotFound no borrower account
	ErrAccountNotFound ErrorCode = 100002

	// ErrSlippage computed output worse than the caller's minimum
	ErrSlippage ErrorCode = 100101
	// ErrInsufficientLiquidity amount exceeds undeployed pool liquidity
	ErrInsufficientLiquidity ErrorCode = 100102
	// ErrMinCollateralization action would leave the account below the minimum ratio
	ErrMinCollateralization ErrorCode = 100103
	// ErrInsufficientCollateral withdrawal exceeds recorded collateral
	ErrInsufficientCollateral ErrorCode = 100104
	// ErrHealthyAccount liquidation attempted above the liquidation threshold
	ErrHealthyAccount ErrorCode = 100105
	// ErrOverflow fixed point inputs exceed the representable range
	ErrOverflow ErrorCode = 100106
)

func (e ErrorCode) String() string {
	return strconv.Itoa(int(e))
}

func (e ErrorCode) Error() string {
	return e.String()
}
