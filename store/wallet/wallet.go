package wallet

import (
	"context"

	"lendpool/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/holiman/uint256"
	"github.com/jinzhu/gorm"
)

// Balance one holder's balance of one asset
type Balance struct {
	Asset     string       `sql:"size:20;PRIMARY_KEY" json:"asset"`
	Address   string       `sql:"size:36;PRIMARY_KEY" json:"address"`
	Amount    *uint256.Int `sql:"type:varchar(80)" json:"amount"`
	UpdatedAt int64        `sql:"default:0" json:"updated_at"`
}

type walletStore struct {
	db *db.DB
}

// New new wallet store
func New(db *db.DB) core.IWalletStore {
	return &walletStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(Balance{})
		if err := tx.AutoMigrate(Balance{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *walletStore) Add(ctx context.Context, asset, address string, amount *uint256.Int) error {
	return s.db.Tx(func(tx *db.DB) error {
		return add(tx, asset, address, amount)
	})
}

func (s *walletStore) Sub(ctx context.Context, asset, address string, amount *uint256.Int) error {
	return s.db.Tx(func(tx *db.DB) error {
		return sub(tx, asset, address, amount)
	})
}

func (s *walletStore) Move(ctx context.Context, asset, from, to string, amount *uint256.Int) error {
	return s.db.Tx(func(tx *db.DB) error {
		if err := sub(tx, asset, from, amount); err != nil {
			return err
		}

		return add(tx, asset, to, amount)
	})
}

func (s *walletStore) Balance(ctx context.Context, asset, address string) (*uint256.Int, error) {
	balance, err := find(s.db, asset, address)
	if err != nil {
		return nil, err
	}

	if balance == nil {
		return new(uint256.Int), nil
	}

	return balance.Amount, nil
}

func find(tx *db.DB, asset, address string) (*Balance, error) {
	var balance Balance
	if err := tx.View().Where("asset = ? AND address = ?", asset, address).First(&balance).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, nil
		}

		return nil, err
	}

	return &balance, nil
}

func add(tx *db.DB, asset, address string, amount *uint256.Int) error {
	balance, err := find(tx, asset, address)
	if err != nil {
		return err
	}

	if balance == nil {
		return tx.Update().Create(&Balance{
			Asset:   asset,
			Address: address,
			Amount:  new(uint256.Int).Set(amount),
		}).Error
	}

	sum := new(uint256.Int)
	if _, overflow := sum.AddOverflow(balance.Amount, amount); overflow {
		return core.ErrOverflow
	}

	return save(tx, asset, address, sum)
}

func sub(tx *db.DB, asset, address string, amount *uint256.Int) error {
	balance, err := find(tx, asset, address)
	if err != nil {
		return err
	}

	if balance == nil || balance.Amount.Lt(amount) {
		return core.ErrInvalidAmount
	}

	return save(tx, asset, address, new(uint256.Int).Sub(balance.Amount, amount))
}

func save(tx *db.DB, asset, address string, amount *uint256.Int) error {
	return tx.Update().Model(Balance{}).
		Where("asset = ? AND address = ?", asset, address).
		Update("amount", amount).Error
}
