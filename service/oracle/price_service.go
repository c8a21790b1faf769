package oracle

import (
	"context"
	"fmt"
	"time"

	"lendpool/core"
	"lendpool/pkg/fixedpoint"

	"github.com/bluele/gcache"
	"github.com/fox-one/pkg/logger"
	"github.com/go-resty/resty/v2"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

const cacheKey = "latest-price"

// PriceService price oracle gateway
//
// Reads the collateral price from an HTTP ticker endpoint. Responses are
// cached for a short TTL to keep the sentinel poll loop cheap; staleness
// beyond that is deliberately not checked.
type PriceService struct {
	client *resty.Client
	cache  gcache.Cache
	ttl    time.Duration
}

type ticker struct {
	Price    decimal.Decimal `json:"price"`
	Decimals int32           `json:"decimals"`
}

// New new oracle price service
func New(cfg *core.Config) core.IPriceOracle {
	ttl := time.Duration(cfg.Oracle.CacheSeconds) * time.Second
	if ttl <= 0 {
		ttl = time.Second
	}

	return &PriceService{
		client: resty.New().
			SetHostURL(cfg.Oracle.EndPoint).
			SetHeader("Content-Type", "application/json").
			SetTimeout(10 * time.Second),
		cache: gcache.New(1).LRU().Build(),
		ttl:   ttl,
	}
}

// LatestPrice current collateral price and its decimal precision
func (s *PriceService) LatestPrice(ctx context.Context) (*uint256.Int, int32, error) {
	if v, err := s.cache.Get(cacheKey); err == nil {
		t := v.(*ticker)
		return priceOf(t)
	}

	var t ticker
	resp, err := s.client.R().SetContext(ctx).SetResult(&t).Get("/ticker")
	if err != nil {
		return nil, 0, err
	}

	if !resp.IsSuccess() {
		return nil, 0, fmt.Errorf("oracle: ticker status %s", resp.Status())
	}

	if err := s.cache.SetWithExpire(cacheKey, &t, s.ttl); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("oracle: cache set")
	}

	return priceOf(&t)
}

func priceOf(t *ticker) (*uint256.Int, int32, error) {
	price, err := fixedpoint.FromBig(t.Price.Shift(t.Decimals).Truncate(0).BigInt())
	if err != nil {
		return nil, 0, err
	}

	return price, t.Decimals, nil
}
