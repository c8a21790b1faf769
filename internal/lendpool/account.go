package lendpool

import (
	"lendpool/pkg/fixedpoint"

	"github.com/holiman/uint256"
)

// CollateralValue collateral amount priced in the underlying unit,
// collateral * price / 10^decimals, 18-decimal result.
func CollateralValue(collateralAmount, price *uint256.Int, decimals int32) (*uint256.Int, error) {
	if collateralAmount == nil || collateralAmount.IsZero() {
		return fixedpoint.Zero(), nil
	}

	return fixedpoint.MulDiv(collateralAmount, price, fixedpoint.Pow10(decimals))
}

// DebtValue borrower shares expanded by the borrower share price
func DebtValue(borrowerShares, borrowerSharePrice *uint256.Int) (*uint256.Int, error) {
	if borrowerShares == nil || borrowerShares.IsZero() {
		return fixedpoint.Zero(), nil
	}

	return fixedpoint.Mul(borrowerShares, borrowerSharePrice)
}

// CollateralizationRatio collateral_value * 1e18 / debt_value. The max
// representable value stands in for the no-debt case.
func CollateralizationRatio(collateralValue, debtValue *uint256.Int) (*uint256.Int, error) {
	if debtValue == nil || debtValue.IsZero() {
		return new(uint256.Int).Set(fixedpoint.Max), nil
	}

	return fixedpoint.Div(collateralValue, debtValue)
}

// CanLiquidate ratio below the liquidation threshold
func CanLiquidate(ratio *uint256.Int) bool {
	return ratio.Lt(LiquidationThreshold)
}
