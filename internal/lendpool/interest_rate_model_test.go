package lendpool

import (
	"testing"

	"lendpool/pkg/fixedpoint"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterestRateZeroUtilization(t *testing.T) {
	borrowRate, lenderRate, err := InterestRate(fixedpoint.Zero())
	require.NoError(t, err)
	assert.True(t, borrowRate.IsZero())
	assert.True(t, lenderRate.IsZero())
}

func TestInterestRateMonotonic(t *testing.T) {
	step := new(uint256.Int).Div(fixedpoint.One, uint256.NewInt(100))
	prevBorrow := fixedpoint.Zero()
	prevLender := fixedpoint.Zero()

	for i := uint64(0); i <= 100; i++ {
		u := new(uint256.Int).Mul(step, uint256.NewInt(i))
		borrowRate, lenderRate, err := InterestRate(u)
		require.NoError(t, err)

		assert.False(t, borrowRate.Lt(prevBorrow), "borrow rate decreased at u=%d%%", i)
		assert.False(t, lenderRate.Lt(prevLender), "lender rate decreased at u=%d%%", i)
		assert.False(t, lenderRate.Gt(borrowRate), "lender rate above borrow rate at u=%d%%", i)

		prevBorrow, prevLender = borrowRate, lenderRate
	}
}

func TestInterestRateKinkContinuity(t *testing.T) {
	borrowRate, _, err := InterestRate(OptimalUtilization)
	require.NoError(t, err)
	assert.True(t, borrowRate.Eq(KinkRatePerSecond()))

	// just below the kink stays at or below the kink rate
	below := new(uint256.Int).Sub(OptimalUtilization, uint256.NewInt(1))
	borrowBelow, _, err := InterestRate(below)
	require.NoError(t, err)
	assert.False(t, borrowBelow.Gt(borrowRate))
}

func TestInterestRateFullUtilization(t *testing.T) {
	borrowRate, lenderRate, err := InterestRate(fixedpoint.One)
	require.NoError(t, err)

	// slope derivation truncates, so the curve tops out within a hair of
	// the max rate and never above it
	assert.False(t, borrowRate.Gt(MaxRatePerSecond()))
	diff := new(uint256.Int).Sub(MaxRatePerSecond(), borrowRate)
	assert.True(t, diff.Lt(uint256.NewInt(100)))

	// at u == 1 the lender rate equals the borrower rate
	assert.True(t, lenderRate.Eq(borrowRate))
}
