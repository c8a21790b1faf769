// Package fixedpoint implements unsigned 18-decimal fixed point arithmetic
// on 256-bit integers.
//
// The single rounding rule is truncation toward zero. Operations whose
// intermediate product would overflow 256 bits report ErrOverflow instead
// of wrapping.
package fixedpoint

import (
	"errors"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// Decimals fixed point precision
const Decimals = 18

var (
	// One is the 1e18 scale, the fixed point representation of 1.0
	One = uint256.NewInt(1_000_000_000_000_000_000)
	// Max largest representable value, used as the "no debt" ratio sentinel
	Max = new(uint256.Int).Not(uint256.NewInt(0))

	// ErrOverflow product exceeds 256 bits
	ErrOverflow = errors.New("fixedpoint: overflow")
	// ErrDivisionByZero zero divisor
	ErrDivisionByZero = errors.New("fixedpoint: division by zero")
	// ErrNegative negative value has no fixed point representation
	ErrNegative = errors.New("fixedpoint: negative value")
)

// Zero fresh zero value
func Zero() *uint256.Int {
	return new(uint256.Int)
}

// MulDiv returns a*b/scale truncated toward zero.
func MulDiv(a, b, scale *uint256.Int) (*uint256.Int, error) {
	if scale == nil || scale.IsZero() {
		return nil, ErrDivisionByZero
	}

	p := new(uint256.Int)
	if _, overflow := p.MulOverflow(a, b); overflow {
		return nil, ErrOverflow
	}

	return p.Div(p, scale), nil
}

// Mul returns a*b/1e18 truncated toward zero.
func Mul(a, b *uint256.Int) (*uint256.Int, error) {
	return MulDiv(a, b, One)
}

// Div returns a*1e18/b truncated toward zero.
func Div(a, b *uint256.Int) (*uint256.Int, error) {
	return MulDiv(a, One, b)
}

// Add returns a+b, ErrOverflow when the sum wraps.
func Add(a, b *uint256.Int) (*uint256.Int, error) {
	s := new(uint256.Int)
	if _, overflow := s.AddOverflow(a, b); overflow {
		return nil, ErrOverflow
	}

	return s, nil
}

// SubFloorZero returns 0 if x < y, else x-y. Absorbs truncation drift on
// partial repayments and liquidations instead of failing on tiny residuals.
func SubFloorZero(x, y *uint256.Int) *uint256.Int {
	if x.Lt(y) {
		return new(uint256.Int)
	}

	return new(uint256.Int).Sub(x, y)
}

// Pow10 returns 10^n
func Pow10(n int32) *uint256.Int {
	if n < 0 {
		n = 0
	}

	return new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(uint64(n)))
}

// FromDecimal converts a non-negative decimal to fixed point, truncating
// anything below 1e-18.
func FromDecimal(d decimal.Decimal) (*uint256.Int, error) {
	if d.IsNegative() {
		return nil, ErrNegative
	}

	v, overflow := uint256.FromBig(d.Shift(Decimals).Truncate(0).BigInt())
	if overflow {
		return nil, ErrOverflow
	}

	return v, nil
}

// ToDecimal renders a fixed point value as a decimal.
func ToDecimal(x *uint256.Int) decimal.Decimal {
	if x == nil {
		return decimal.Zero
	}

	return decimal.NewFromBigInt(x.ToBig(), -Decimals)
}

// FromBig converts a non-negative big integer taken as a raw fixed point value.
func FromBig(b *big.Int) (*uint256.Int, error) {
	if b.Sign() < 0 {
		return nil, ErrNegative
	}

	v, overflow := uint256.FromBig(b)
	if overflow {
		return nil, ErrOverflow
	}

	return v, nil
}
