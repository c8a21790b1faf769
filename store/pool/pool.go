package pool

import (
	"context"

	"lendpool/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type poolStore struct {
	db *db.DB
}

// New new pool store
func New(db *db.DB) core.IPoolStore {
	return &poolStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Pool{})
		if err := tx.AutoMigrate(core.Pool{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *poolStore) Save(ctx context.Context, pool *core.Pool) error {
	if pool.ID == 0 {
		return s.db.Update().Create(pool).Error
	}

	err := s.db.Update().Model(core.Pool{}).Where("id = ?", pool.ID).Update(map[string]interface{}{
		"total_deposited":      pool.TotalDeposited,
		"total_borrowed":       pool.TotalBorrowed,
		"lp_share_price":       pool.LPSharePrice,
		"borrower_share_price": pool.BorrowerSharePrice,
		"last_update_time":     pool.LastUpdateTime,
		"version":              pool.Version + 1,
	}).Error
	if err != nil {
		return err
	}

	pool.Version++
	return nil
}

func (s *poolStore) Find(ctx context.Context) (*core.Pool, error) {
	var pool core.Pool
	if err := s.db.View().First(&pool).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, nil
		}

		return nil, err
	}

	return &pool, nil
}
