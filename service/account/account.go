package account

import (
	"context"

	"lendpool/core"
	"lendpool/internal/lendpool"
	"lendpool/pkg/fixedpoint"

	"github.com/holiman/uint256"
)

type service struct {
	oracle core.IPriceOracle
}

// New new account service
func New(oracle core.IPriceOracle) core.IAccountService {
	return &service{oracle: oracle}
}

func (s *service) CollateralValue(ctx context.Context, account *core.BorrowerAccount) (*uint256.Int, error) {
	if account.CollateralAmount == nil || account.CollateralAmount.IsZero() {
		return fixedpoint.Zero(), nil
	}

	price, decimals, err := s.oracle.LatestPrice(ctx)
	if err != nil {
		return nil, err
	}

	return lendpool.CollateralValue(account.CollateralAmount, price, decimals)
}

func (s *service) DebtValue(ctx context.Context, account *core.BorrowerAccount, pool *core.Pool) (*uint256.Int, error) {
	return lendpool.DebtValue(account.BorrowerShares, pool.BorrowerSharePrice)
}

func (s *service) CollateralizationRatio(ctx context.Context, account *core.BorrowerAccount, pool *core.Pool) (*uint256.Int, error) {
	debtValue, err := s.DebtValue(ctx, account, pool)
	if err != nil {
		return nil, err
	}

	if debtValue.IsZero() {
		return new(uint256.Int).Set(fixedpoint.Max), nil
	}

	collateralValue, err := s.CollateralValue(ctx, account)
	if err != nil {
		return nil, err
	}

	return lendpool.CollateralizationRatio(collateralValue, debtValue)
}

func (s *service) CanLiquidate(ctx context.Context, account *core.BorrowerAccount, pool *core.Pool) (bool, error) {
	ratio, err := s.CollateralizationRatio(ctx, account, pool)
	if err != nil {
		return false, err
	}

	return lendpool.CanLiquidate(ratio), nil
}
