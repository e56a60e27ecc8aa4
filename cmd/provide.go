package cmd

import (
	"time"

	"lendpool/core"
	"lendpool/service/health"
	"lendpool/service/liquidation"
	"lendpool/service/oracle"
	"lendpool/service/pool"
	"lendpool/service/position"
	"lendpool/service/reserve"
	"lendpool/service/wallet"
	accountstore "lendpool/store/account"
	collateralstore "lendpool/store/collateral"
	liquidationstore "lendpool/store/liquidation"
	positionstore "lendpool/store/position"
	pricestore "lendpool/store/price"
	reservestore "lendpool/store/reserve"
	transferstore "lendpool/store/transfer"

	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
	propertystore "github.com/fox-one/pkg/store/property"
	"github.com/shopspring/decimal"
)

func provideDatabase() *db.DB {
	return db.MustOpen(cfg.DB)
}

func provideConfig() *core.Config {
	return &cfg
}

func providePropertyStore(db *db.DB) property.Store {
	return propertystore.New(db)
}

func provideReserveStore(db *db.DB) core.IReserveStore {
	return reservestore.New(db)
}

func providePositionStore(db *db.DB) core.IPositionStore {
	return positionstore.New(db)
}

func provideCollateralStore(db *db.DB) core.ICollateralStore {
	return collateralstore.New(db)
}

func providePriceStore(db *db.DB) core.IPriceStore {
	return pricestore.Cache(pricestore.New(db), 10*time.Second)
}

func provideAccountStore(db *db.DB) core.IAccountStore {
	return accountstore.New(db)
}

func provideLiquidationStore(db *db.DB) core.ILiquidationStore {
	return liquidationstore.New(db)
}

func provideTransferStore(db *db.DB) core.ITransferStore {
	return transferstore.New(db)
}

func provideReserveService(reserveStr core.IReserveStore) core.IReserveService {
	return reserve.New(reserveStr)
}

func providePositionService(positionStr core.IPositionStore, collateralStr core.ICollateralStore) core.IPositionService {
	return position.New(positionStr, collateralStr)
}

func providePriceService(priceStr core.IPriceStore) core.IPriceFeedService {
	return oracle.New(&cfg, priceStr)
}

func provideWalletService() core.ITokenTransferService {
	return wallet.New(&cfg)
}

func provideHealthService(
	positionStr core.IPositionStore,
	collateralStr core.ICollateralStore,
	reserveStr core.IReserveStore,
	priceSrv core.IPriceFeedService,
) core.IHealthService {
	return health.New(positionStr, collateralStr, reserveStr, priceSrv)
}

func provideSeizureStrategy(transferStr core.ITransferStore) core.ISeizureStrategy {
	if cfg.App.TreasuryUserID != "" {
		return liquidation.NewAbsorbStrategy(transferStr, cfg.App.TreasuryUserID)
	}

	return liquidation.NewDirectStrategy(transferStr)
}

func provideLiquidationService(
	healthSrv core.IHealthService,
	positionStr core.IPositionStore,
	collateralStr core.ICollateralStore,
	liquidationStr core.ILiquidationStore,
	strategy core.ISeizureStrategy,
) core.ILiquidationService {
	return liquidation.New(healthSrv, positionStr, collateralStr, liquidationStr, strategy, liquidation.Config{
		SevereHealthFactor: decimal.NewFromFloat(cfg.App.SevereHealthFactor),
		MinPositionValue:   decimal.NewFromFloat(cfg.App.MinPositionValue),
	})
}

func providePoolService(
	database *db.DB,
	reserveStr core.IReserveStore,
	positionStr core.IPositionStore,
	collateralStr core.ICollateralStore,
	transferStr core.ITransferStore,
	reserveSrv core.IReserveService,
	positionSrv core.IPositionService,
	healthSrv core.IHealthService,
	liquidationSrv core.ILiquidationService,
	walletSrv core.ITokenTransferService,
) core.IPoolService {
	return pool.New(
		database,
		reserveStr,
		positionStr,
		collateralStr,
		transferStr,
		reserveSrv,
		positionSrv,
		healthSrv,
		liquidationSrv,
		walletSrv,
	)
}
