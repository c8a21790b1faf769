package core

import (
	"context"
	"time"

	"github.com/holiman/uint256"
)

// Pool aggregate pool ledger state
//
// Amounts and share prices are unsigned 18-decimal fixed point numbers
// persisted as decimal strings. Both share prices start at 1e18 and never
// decrease; interest lives entirely in the share prices, individual
// positions only track shares.
type Pool struct {
	ID uint64 `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	// 累计存入减去已赎回的底层资产
	TotalDeposited *uint256.Int `sql:"type:varchar(80)" json:"total_deposited"`
	// 借款人欠的底层资产本金, total_borrowed <= total_deposited
	TotalBorrowed *uint256.Int `sql:"type:varchar(80)" json:"total_borrowed"`
	// 存款凭证兑换率
	LPSharePrice *uint256.Int `sql:"type:varchar(80)" json:"lp_share_price"`
	// 债务凭证兑换率
	BorrowerSharePrice *uint256.Int `sql:"type:varchar(80)" json:"borrower_share_price"`
	LastUpdateTime     time.Time    `sql:"default:CURRENT_TIMESTAMP" json:"last_update_time"`
	Version            int64        `sql:"default:0" json:"version"`
	CreatedAt          time.Time    `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt          time.Time    `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Clone deep copy of the pool
func (p *Pool) Clone() *Pool {
	c := *p
	c.TotalDeposited = new(uint256.Int).Set(p.TotalDeposited)
	c.TotalBorrowed = new(uint256.Int).Set(p.TotalBorrowed)
	c.LPSharePrice = new(uint256.Int).Set(p.LPSharePrice)
	c.BorrowerSharePrice = new(uint256.Int).Set(p.BorrowerSharePrice)
	return &c
}

// IPoolStore pool store interface
type IPoolStore interface {
	Save(ctx context.Context, pool *Pool) error
	Find(ctx context.Context) (*Pool, error)
}

// IPoolService pool service interface
type IPoolService interface {
	CurUtilization(ctx context.Context, pool *Pool) (*uint256.Int, error)
	CurRates(ctx context.Context, pool *Pool) (borrowRate, lenderRate *uint256.Int, err error)
}
