package account

import (
	"context"

	"lendpool/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type accountStore struct {
	db *db.DB
}

// New new borrower account store
func New(db *db.DB) core.IAccountStore {
	return &accountStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.BorrowerAccount{})
		if err := tx.AutoMigrate(core.BorrowerAccount{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *accountStore) Save(ctx context.Context, account *core.BorrowerAccount) error {
	tx := s.db.Update().Model(core.BorrowerAccount{}).Where("address = ?", account.Address).Update(map[string]interface{}{
		"borrower_shares":   account.BorrowerShares,
		"collateral_amount": account.CollateralAmount,
		"version":           account.Version + 1,
	})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return s.db.Update().Create(account).Error
	}

	account.Version++
	return nil
}

func (s *accountStore) Find(ctx context.Context, address string) (*core.BorrowerAccount, error) {
	var account core.BorrowerAccount
	if err := s.db.View().Where("address = ?", address).First(&account).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, nil
		}

		return nil, err
	}

	return &account, nil
}

func (s *accountStore) All(ctx context.Context) ([]*core.BorrowerAccount, error) {
	var accounts []*core.BorrowerAccount
	if err := s.db.View().Find(&accounts).Error; err != nil {
		return nil, err
	}

	return accounts, nil
}
