package lendpool

import (
	"time"

	"lendpool/core"
	"lendpool/pkg/fixedpoint"

	"github.com/holiman/uint256"
)

// Utilization total_borrowed * 1e18 / total_deposited, zero for an empty pool
func Utilization(pool *core.Pool) (*uint256.Int, error) {
	if pool.TotalDeposited == nil || pool.TotalDeposited.IsZero() {
		return fixedpoint.Zero(), nil
	}

	return fixedpoint.Div(pool.TotalBorrowed, pool.TotalDeposited)
}

// Accrue advances both share prices by elapsed time at the current rates.
//
// new_price = price * (1e18 + rate * elapsed) / 1e18, a simple-interest
// per-tick approximation of compounding: deterministic and monotonic, it
// understates true exponential compounding over long idle intervals.
//
// Must run as the first step of every operation that converts between
// shares and amounts. A second call at the same timestamp changes nothing;
// the clock never moves backwards.
func Accrue(pool *core.Pool, now time.Time) error {
	if !now.After(pool.LastUpdateTime) {
		return nil
	}

	elapsed := uint64(now.Unix() - pool.LastUpdateTime.Unix())
	if elapsed > 0 {
		utilization, err := Utilization(pool)
		if err != nil {
			return err
		}

		borrowRate, lenderRate, err := InterestRate(utilization)
		if err != nil {
			return err
		}

		lpPrice, err := grow(pool.LPSharePrice, lenderRate, elapsed)
		if err != nil {
			return err
		}

		borrowerPrice, err := grow(pool.BorrowerSharePrice, borrowRate, elapsed)
		if err != nil {
			return err
		}

		pool.LPSharePrice = lpPrice
		pool.BorrowerSharePrice = borrowerPrice
	}

	pool.LastUpdateTime = now
	return nil
}

func grow(price, rate *uint256.Int, elapsed uint64) (*uint256.Int, error) {
	interest := new(uint256.Int)
	if _, overflow := interest.MulOverflow(rate, uint256.NewInt(elapsed)); overflow {
		return nil, fixedpoint.ErrOverflow
	}

	factor, err := fixedpoint.Add(fixedpoint.One, interest)
	if err != nil {
		return nil, err
	}

	return fixedpoint.Mul(price, factor)
}
