package account

import (
	"context"
	"errors"
	"testing"

	"lendpool/core"
	"lendpool/pkg/fixedpoint"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubOracle struct {
	price    *uint256.Int
	decimals int32
	err      error
	calls    int
}

func (o *stubOracle) LatestPrice(ctx context.Context) (*uint256.Int, int32, error) {
	o.calls++
	if o.err != nil {
		return nil, 0, o.err
	}
	return new(uint256.Int).Set(o.price), o.decimals, nil
}

func TestCollateralValueSkipsOracleWhenEmpty(t *testing.T) {
	oracle := &stubOracle{err: errors.New("oracle down")}
	svc := New(oracle)

	account := &core.BorrowerAccount{
		Address:          "test",
		BorrowerShares:   fixedpoint.Zero(),
		CollateralAmount: fixedpoint.Zero(),
	}

	value, err := svc.CollateralValue(context.Background(), account)
	require.NoError(t, err)
	assert.True(t, value.IsZero())
	assert.Zero(t, oracle.calls)
}

func TestRatioSkipsOracleWithoutDebt(t *testing.T) {
	oracle := &stubOracle{err: errors.New("oracle down")}
	svc := New(oracle)

	account := &core.BorrowerAccount{
		Address:          "test",
		BorrowerShares:   fixedpoint.Zero(),
		CollateralAmount: new(uint256.Int).Mul(fixedpoint.One, uint256.NewInt(10)),
	}

	pool := &core.Pool{BorrowerSharePrice: new(uint256.Int).Set(fixedpoint.One)}

	ratio, err := svc.CollateralizationRatio(context.Background(), account, pool)
	require.NoError(t, err)
	assert.True(t, ratio.Eq(fixedpoint.Max))
	assert.Zero(t, oracle.calls)

	liquidatable, err := svc.CanLiquidate(context.Background(), account, pool)
	require.NoError(t, err)
	assert.False(t, liquidatable)
}

func TestZeroPriceMakesPositionLiquidatable(t *testing.T) {
	oracle := &stubOracle{price: fixedpoint.Zero(), decimals: 8}
	svc := New(oracle)

	account := &core.BorrowerAccount{
		Address:          "test",
		BorrowerShares:   new(uint256.Int).Mul(fixedpoint.One, uint256.NewInt(100)),
		CollateralAmount: new(uint256.Int).Mul(fixedpoint.One, uint256.NewInt(1_000)),
	}

	pool := &core.Pool{BorrowerSharePrice: new(uint256.Int).Set(fixedpoint.One)}

	liquidatable, err := svc.CanLiquidate(context.Background(), account, pool)
	require.NoError(t, err)
	assert.True(t, liquidatable)
}
