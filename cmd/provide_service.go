package cmd

import (
	"lendpool/core"
	accountservice "lendpool/service/account"
	"lendpool/service/engine"
	"lendpool/service/oracle"
	poolservice "lendpool/service/pool"
	walletservice "lendpool/service/wallet"
)

func provideConfig() *core.Config {
	return &cfg
}

func providePriceOracle() core.IPriceOracle {
	return oracle.New(provideConfig())
}

func providePoolService() core.IPoolService {
	return poolservice.New()
}

func provideAccountService(priceOracle core.IPriceOracle) core.IAccountService {
	return accountservice.New(priceOracle)
}

func provideEngine(
	poolStore core.IPoolStore,
	accountStore core.IAccountStore,
	transactionStore core.ITransactionStore,
	accountz core.IAccountService,
	walletStore core.IWalletStore,
) *engine.Engine {
	return engine.New(
		provideConfig(),
		poolStore,
		accountStore,
		transactionStore,
		accountz,
		walletservice.NewAssetLedger(walletStore, cfg.App.UnderlyingAsset, cfg.App.Custodian),
		walletservice.NewAssetLedger(walletStore, cfg.App.CollateralAsset, cfg.App.Custodian),
		walletservice.NewShareToken(walletStore, cfg.App.ShareAsset),
	)
}
