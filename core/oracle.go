package core

import (
	"context"

	"github.com/holiman/uint256"
)

// IPriceOracle price gateway for the collateral asset
//
// LatestPrice returns the raw integer price and its decimal precision.
// No staleness guarantee is made here; a zero price values all collateral
// at zero.
type IPriceOracle interface {
	LatestPrice(ctx context.Context) (price *uint256.Int, decimals int32, err error)
}
