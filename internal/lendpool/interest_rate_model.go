package lendpool

import (
	"lendpool/pkg/fixedpoint"

	"github.com/holiman/uint256"
)

var (
	// SecondsPerYear rate conversion base
	SecondsPerYear = uint256.NewInt(31_536_000)
	// OptimalUtilization kink of the rate curve, 95%
	OptimalUtilization = uint256.NewInt(950_000_000_000_000_000)
	// KinkRate borrower rate at the kink, 4% per year
	KinkRate = uint256.NewInt(40_000_000_000_000_000)
	// MaxRate borrower rate at 100% utilization, 50% per year
	MaxRate = uint256.NewInt(500_000_000_000_000_000)
	// LiquidationThreshold accounts below 110% may be seized
	LiquidationThreshold = uint256.NewInt(1_100_000_000_000_000_000)
	// MinCollateralizationRatio borrows and withdrawals must keep 150%
	MinCollateralizationRatio = uint256.NewInt(1_500_000_000_000_000_000)
)

// KinkRatePerSecond kink rate per second
func KinkRatePerSecond() *uint256.Int {
	return new(uint256.Int).Div(KinkRate, SecondsPerYear)
}

// MaxRatePerSecond max rate per second
func MaxRatePerSecond() *uint256.Int {
	return new(uint256.Int).Div(MaxRate, SecondsPerYear)
}

// InterestRate per-second borrower and lender rates for a utilization in
// [0, 1e18].
//
// Below the kink the borrower rate ramps linearly from zero to the kink
// rate; above it, linearly from the kink rate to the max rate at full
// utilization. Lenders earn the borrower rate scaled by utilization, so
// interest paid always covers interest accrued.
func InterestRate(utilization *uint256.Int) (borrowRate, lenderRate *uint256.Int, err error) {
	if utilization == nil || utilization.IsZero() {
		return fixedpoint.Zero(), fixedpoint.Zero(), nil
	}

	kink := KinkRatePerSecond()
	if utilization.Lt(OptimalUtilization) {
		borrowRate, err = fixedpoint.MulDiv(kink, utilization, OptimalUtilization)
		if err != nil {
			return nil, nil, err
		}
	} else {
		// slope = (max - kink) * 1e18 / (1e18 - optimal)
		slope, err := fixedpoint.Div(new(uint256.Int).Sub(MaxRatePerSecond(), kink), new(uint256.Int).Sub(fixedpoint.One, OptimalUtilization))
		if err != nil {
			return nil, nil, err
		}

		excess, err := fixedpoint.Mul(slope, new(uint256.Int).Sub(utilization, OptimalUtilization))
		if err != nil {
			return nil, nil, err
		}

		borrowRate = new(uint256.Int).Add(kink, excess)
	}

	lenderRate, err = fixedpoint.Mul(borrowRate, utilization)
	if err != nil {
		return nil, nil, err
	}

	return borrowRate, lenderRate, nil
}
