package pool

import (
	"context"

	"lendpool/core"
	"lendpool/internal/lendpool"

	"github.com/holiman/uint256"
)

type service struct{}

// New new pool service
func New() core.IPoolService {
	return &service{}
}

func (s *service) CurUtilization(ctx context.Context, pool *core.Pool) (*uint256.Int, error) {
	return lendpool.Utilization(pool)
}

func (s *service) CurRates(ctx context.Context, pool *core.Pool) (*uint256.Int, *uint256.Int, error) {
	utilization, err := lendpool.Utilization(pool)
	if err != nil {
		return nil, nil, err
	}

	return lendpool.InterestRate(utilization)
}
