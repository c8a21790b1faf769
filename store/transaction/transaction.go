package transaction

import (
	"context"

	"lendpool/core"

	"github.com/fox-one/pkg/store/db"
)

type transactionStore struct {
	db *db.DB
}

// New new transaction store
func New(db *db.DB) core.ITransactionStore {
	return &transactionStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Transaction{})
		if err := tx.AutoMigrate(core.Transaction{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *transactionStore) Create(ctx context.Context, transaction *core.Transaction) error {
	return s.db.Update().Create(transaction).Error
}

func (s *transactionStore) List(ctx context.Context, fromID uint64, limit int) ([]*core.Transaction, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var transactions []*core.Transaction
	if err := s.db.View().
		Where("id > ?", fromID).
		Order("id").
		Limit(limit).
		Find(&transactions).Error; err != nil {
		return nil, err
	}

	return transactions, nil
}
