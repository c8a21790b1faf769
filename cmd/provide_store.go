package cmd

import (
	"lendpool/core"
	"lendpool/store/account"
	"lendpool/store/pool"
	"lendpool/store/transaction"
	"lendpool/store/wallet"

	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
	propertystore "github.com/fox-one/pkg/store/property"
)

func provideDatabase() *db.DB {
	return db.MustOpen(cfg.DB)
}

func providePropertyStore(db *db.DB) property.Store {
	return propertystore.New(db)
}

func providePoolStore(db *db.DB) core.IPoolStore {
	return pool.New(db)
}

func provideAccountStore(db *db.DB) core.IAccountStore {
	return account.New(db)
}

func provideTransactionStore(db *db.DB) core.ITransactionStore {
	return transaction.New(db)
}

func provideWalletStore(db *db.DB) core.IWalletStore {
	return wallet.New(db)
}
