package core

import (
	"github.com/fox-one/pkg/store/db"
)

// Config lendpool config
type Config struct {
	App    App       `json:"app"`
	DB     db.Config `json:"db"`
	Oracle Oracle    `json:"oracle"`
	Worker Worker    `json:"worker"`
}

// App app config
type App struct {
	// Genesis pool creation time, unix seconds
	Genesis  int64  `json:"genesis"`
	Location string `json:"location"`
	// Custodian wallet address holding pool funds
	Custodian string `json:"custodian"`
	// UnderlyingAsset symbol of the supplied asset
	UnderlyingAsset string `json:"underlying_asset"`
	// CollateralAsset symbol of the collateral asset
	CollateralAsset string `json:"collateral_asset"`
	// ShareAsset symbol of the lp share token
	ShareAsset string `json:"share_asset"`
}

// Oracle price oracle config
type Oracle struct {
	EndPoint     string `json:"end_point"`
	CacheSeconds int64  `json:"cache_seconds"`
}

// Worker worker config
type Worker struct {
	AccrualSpec  string `json:"accrual_spec"`
	SentinelSpec string `json:"sentinel_spec"`
}
