package pool

import (
	"context"
	"sync"
	"time"

	"lendpool/core"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	uuidutil "github.com/fox-one/pkg/uuid"
	"github.com/shopspring/decimal"
)

var one = decimal.New(1, 0)

type poolService struct {
	// serializes all state-changing operations; the ledger assumes a
	// single writer
	mux sync.Mutex

	runTx func(fn func(tx *db.DB) error) error
	now   func() time.Time

	reserveStore    core.IReserveStore
	positionStore   core.IPositionStore
	collateralStore core.ICollateralStore
	transferStore   core.ITransferStore

	reserveSrv     core.IReserveService
	positionSrv    core.IPositionService
	healthSrv      core.IHealthService
	liquidationSrv core.ILiquidationService
	walletSrv      core.ITokenTransferService
}

// New new pool service
func New(
	database *db.DB,
	reserveStore core.IReserveStore,
	positionStore core.IPositionStore,
	collateralStore core.ICollateralStore,
	transferStore core.ITransferStore,
	reserveSrv core.IReserveService,
	positionSrv core.IPositionService,
	healthSrv core.IHealthService,
	liquidationSrv core.ILiquidationService,
	walletSrv core.ITokenTransferService,
) core.IPoolService {
	return &poolService{
		runTx:           database.Tx,
		now:             time.Now,
		reserveStore:    reserveStore,
		positionStore:   positionStore,
		collateralStore: collateralStore,
		transferStore:   transferStore,
		reserveSrv:      reserveSrv,
		positionSrv:     positionSrv,
		healthSrv:       healthSrv,
		liquidationSrv:  liquidationSrv,
		walletSrv:       walletSrv,
	}
}

func (s *poolService) Supply(ctx context.Context, userID, assetID string, amount decimal.Decimal) (*core.Position, error) {
	s.mux.Lock()
	defer s.mux.Unlock()

	var position *core.Position
	err := s.runTx(func(tx *db.DB) error {
		now := s.now()

		reserve, err := s.findActiveReserve(ctx, assetID)
		if err != nil {
			return err
		}

		if amount.LessThanOrEqual(decimal.Zero) {
			return core.ErrInvalidAmount
		}

		if err := s.reserveSrv.AccrueInterest(ctx, tx, reserve, now); err != nil {
			return err
		}

		if reserve.SupplyCap.IsPositive() && reserve.TotalSupplied.Add(amount).GreaterThan(reserve.SupplyCap) {
			return core.ErrCapExceeded
		}

		if err := s.walletSrv.TransferIn(ctx, assetID, userID, amount); err != nil {
			return err
		}

		position, err = s.findPosition(ctx, userID, assetID)
		if err != nil {
			return err
		}

		if err := s.positionSrv.Supply(ctx, tx, position, reserve, amount); err != nil {
			return err
		}

		return s.reserveStore.Update(ctx, tx, reserve)
	})
	if err != nil {
		logger.FromContext(ctx).WithError(err).Infoln("pool: supply rejected", userID, assetID)
		return nil, err
	}

	return position, nil
}

func (s *poolService) Withdraw(ctx context.Context, userID, assetID string, amount decimal.Decimal, max bool) (*core.Position, error) {
	s.mux.Lock()
	defer s.mux.Unlock()

	var position *core.Position
	err := s.runTx(func(tx *db.DB) error {
		now := s.now()

		reserve, err := s.findActiveReserve(ctx, assetID)
		if err != nil {
			return err
		}

		if err := s.reserveSrv.AccrueInterest(ctx, tx, reserve, now); err != nil {
			return err
		}

		position, err = s.findPosition(ctx, userID, assetID)
		if err != nil {
			return err
		}

		// supplied principal is not collateral, so withdrawing it can
		// never hurt the account's health
		paid, err := s.positionSrv.Withdraw(ctx, tx, position, reserve, amount, max)
		if err != nil {
			return err
		}

		if err := s.queueTransfer(ctx, tx, assetID, userID, paid, core.TransferSourceWithdraw); err != nil {
			return err
		}

		return s.reserveStore.Update(ctx, tx, reserve)
	})
	if err != nil {
		logger.FromContext(ctx).WithError(err).Infoln("pool: withdraw rejected", userID, assetID)
		return nil, err
	}

	return position, nil
}

func (s *poolService) DepositCollateral(ctx context.Context, userID, assetID string, amount decimal.Decimal) (*core.Collateral, error) {
	s.mux.Lock()
	defer s.mux.Unlock()

	var collateral *core.Collateral
	err := s.runTx(func(tx *db.DB) error {
		now := s.now()

		reserve, err := s.findActiveReserve(ctx, assetID)
		if err != nil {
			return err
		}

		if amount.LessThanOrEqual(decimal.Zero) {
			return core.ErrInvalidAmount
		}

		if err := s.reserveSrv.AccrueInterest(ctx, tx, reserve, now); err != nil {
			return err
		}

		if err := s.walletSrv.TransferIn(ctx, assetID, userID, amount); err != nil {
			return err
		}

		collateral, err = s.findCollateral(ctx, userID, assetID)
		if err != nil {
			return err
		}

		return s.positionSrv.DepositCollateral(ctx, tx, collateral, amount)
	})
	if err != nil {
		logger.FromContext(ctx).WithError(err).Infoln("pool: deposit collateral rejected", userID, assetID)
		return nil, err
	}

	return collateral, nil
}

func (s *poolService) WithdrawCollateral(ctx context.Context, userID, assetID string, amount decimal.Decimal) (*core.Collateral, error) {
	s.mux.Lock()
	defer s.mux.Unlock()

	var collateral *core.Collateral
	err := s.runTx(func(tx *db.DB) error {
		now := s.now()

		reserve, err := s.findActiveReserve(ctx, assetID)
		if err != nil {
			return err
		}

		if amount.LessThanOrEqual(decimal.Zero) {
			return core.ErrInvalidAmount
		}

		reserves := map[string]*core.Reserve{assetID: reserve}
		if err := s.accrueUserReserves(ctx, tx, userID, now, reserves); err != nil {
			return err
		}

		snapshot, err := s.healthSrv.Snapshot(ctx, userID, now, reserves)
		if err != nil {
			return err
		}

		hf := s.healthSrv.HealthFactorAfter(snapshot, core.HealthDelta{
			WithdrawCollateralAsset:  assetID,
			WithdrawCollateralAmount: amount,
		})
		if hf.LessThan(one) {
			return core.ErrHealthFactorViolation
		}

		collateral = snapshot.Collateral(assetID)
		if collateral == nil {
			collateral, err = s.findCollateral(ctx, userID, assetID)
			if err != nil {
				return err
			}
		}

		if err := s.positionSrv.WithdrawCollateral(ctx, tx, collateral, amount); err != nil {
			return err
		}

		return s.queueTransfer(ctx, tx, assetID, userID, amount, core.TransferSourceCollateralReturn)
	})
	if err != nil {
		logger.FromContext(ctx).WithError(err).Infoln("pool: withdraw collateral rejected", userID, assetID)
		return nil, err
	}

	return collateral, nil
}

func (s *poolService) Borrow(ctx context.Context, userID, assetID string, amount decimal.Decimal) (*core.Position, error) {
	s.mux.Lock()
	defer s.mux.Unlock()

	var position *core.Position
	err := s.runTx(func(tx *db.DB) error {
		now := s.now()

		reserve, err := s.findActiveReserve(ctx, assetID)
		if err != nil {
			return err
		}

		if amount.LessThanOrEqual(decimal.Zero) {
			return core.ErrInvalidAmount
		}

		reserves := map[string]*core.Reserve{assetID: reserve}
		if err := s.accrueUserReserves(ctx, tx, userID, now, reserves); err != nil {
			return err
		}

		if reserve.BorrowCap.IsPositive() && reserve.TotalBorrowed.Add(amount).GreaterThan(reserve.BorrowCap) {
			return core.ErrCapExceeded
		}

		if amount.GreaterThan(reserve.AvailableCash()) {
			return core.ErrInsufficientLiquidity
		}

		snapshot, err := s.healthSrv.Snapshot(ctx, userID, now, reserves)
		if err != nil {
			return err
		}

		hf := s.healthSrv.HealthFactorAfter(snapshot, core.HealthDelta{
			BorrowAssetID: assetID,
			BorrowAmount:  amount,
		})
		if hf.LessThan(one) {
			return core.ErrHealthFactorViolation
		}

		position = snapshot.Position(assetID)
		if position == nil {
			position, err = s.findPosition(ctx, userID, assetID)
			if err != nil {
				return err
			}
		}

		if err := s.positionSrv.Borrow(ctx, tx, position, reserve, amount); err != nil {
			return err
		}

		if err := s.queueTransfer(ctx, tx, assetID, userID, amount, core.TransferSourceBorrow); err != nil {
			return err
		}

		return s.reserveStore.Update(ctx, tx, reserve)
	})
	if err != nil {
		logger.FromContext(ctx).WithError(err).Infoln("pool: borrow rejected", userID, assetID)
		return nil, err
	}

	return position, nil
}

func (s *poolService) Repay(ctx context.Context, userID, assetID string, amount decimal.Decimal, max bool) (*core.Position, error) {
	s.mux.Lock()
	defer s.mux.Unlock()

	var position *core.Position
	err := s.runTx(func(tx *db.DB) error {
		now := s.now()

		reserve, err := s.findActiveReserve(ctx, assetID)
		if err != nil {
			return err
		}

		if err := s.reserveSrv.AccrueInterest(ctx, tx, reserve, now); err != nil {
			return err
		}

		position, err = s.findPosition(ctx, userID, assetID)
		if err != nil {
			return err
		}

		paid, err := s.positionSrv.Repay(ctx, tx, position, reserve, amount, max)
		if err != nil {
			return err
		}

		if err := s.walletSrv.TransferIn(ctx, assetID, userID, paid); err != nil {
			return err
		}

		return s.reserveStore.Update(ctx, tx, reserve)
	})
	if err != nil {
		logger.FromContext(ctx).WithError(err).Infoln("pool: repay rejected", userID, assetID)
		return nil, err
	}

	return position, nil
}

func (s *poolService) Liquidate(ctx context.Context, liquidator, userID, collateralAssetID, debtAssetID string, debtToCover decimal.Decimal) (*core.LiquidationEvent, error) {
	s.mux.Lock()
	defer s.mux.Unlock()

	var event *core.LiquidationEvent
	err := s.runTx(func(tx *db.DB) error {
		now := s.now()

		// liquidations run even on paused reserves; freezing an asset
		// must never freeze risk management
		debtReserve, err := s.findReserve(ctx, debtAssetID)
		if err != nil {
			return err
		}
		collateralReserve, err := s.findReserve(ctx, collateralAssetID)
		if err != nil {
			return err
		}

		reserves := map[string]*core.Reserve{
			debtAssetID:       debtReserve,
			collateralAssetID: collateralReserve,
		}
		if err := s.accrueUserReserves(ctx, tx, userID, now, reserves); err != nil {
			return err
		}

		snapshot, err := s.healthSrv.Snapshot(ctx, userID, now, reserves)
		if err != nil {
			return err
		}

		event, err = s.liquidationSrv.Liquidate(ctx, tx, liquidator, snapshot, collateralAssetID, debtAssetID, debtToCover)
		if err != nil {
			return err
		}

		if err := s.walletSrv.TransferIn(ctx, debtAssetID, liquidator, event.DebtCovered); err != nil {
			return err
		}

		return s.reserveStore.Update(ctx, tx, debtReserve)
	})
	if err != nil {
		logger.FromContext(ctx).WithError(err).Infoln("pool: liquidation rejected", userID, debtAssetID)
		return nil, err
	}

	return event, nil
}

func (s *poolService) findReserve(ctx context.Context, assetID string) (*core.Reserve, error) {
	reserve, err := s.reserveStore.Find(ctx, assetID)
	if err != nil {
		return nil, err
	}

	if reserve.ID == 0 {
		return nil, core.ErrReserveNotFound
	}

	return reserve, nil
}

func (s *poolService) findActiveReserve(ctx context.Context, assetID string) (*core.Reserve, error) {
	reserve, err := s.findReserve(ctx, assetID)
	if err != nil {
		return nil, err
	}

	if !reserve.IsActive() {
		return nil, core.ErrAssetNotActive
	}

	return reserve, nil
}

func (s *poolService) findPosition(ctx context.Context, userID, assetID string) (*core.Position, error) {
	position, err := s.positionStore.Find(ctx, userID, assetID)
	if err != nil {
		return nil, err
	}

	if position.ID == 0 {
		position.UserID = userID
		position.AssetID = assetID
	}

	return position, nil
}

func (s *poolService) findCollateral(ctx context.Context, userID, assetID string) (*core.Collateral, error) {
	collateral, err := s.collateralStore.Find(ctx, userID, assetID)
	if err != nil {
		return nil, err
	}

	if collateral.ID == 0 {
		collateral.UserID = userID
		collateral.AssetID = assetID
	}

	return collateral, nil
}

// accrueUserReserves accrues every reserve the user owes debt in, so the
// health evaluation that follows sees up-to-date borrow indexes. Reserves
// already present in the map are assumed accrued by the caller.
func (s *poolService) accrueUserReserves(ctx context.Context, tx *db.DB, userID string, now time.Time, reserves map[string]*core.Reserve) error {
	for _, reserve := range reserves {
		if err := s.reserveSrv.AccrueInterest(ctx, tx, reserve, now); err != nil {
			return err
		}
	}

	positions, err := s.positionStore.FindByUser(ctx, userID)
	if err != nil {
		return err
	}

	for _, p := range positions {
		if !p.ScaledDebt.IsPositive() {
			continue
		}

		if _, ok := reserves[p.AssetID]; ok {
			continue
		}

		reserve, err := s.findReserve(ctx, p.AssetID)
		if err != nil {
			return err
		}

		if err := s.reserveSrv.AccrueInterest(ctx, tx, reserve, now); err != nil {
			return err
		}

		reserves[p.AssetID] = reserve
	}

	return nil
}

func (s *poolService) queueTransfer(ctx context.Context, tx *db.DB, assetID, opponentID string, amount decimal.Decimal, source string) error {
	return s.transferStore.Create(ctx, tx, &core.Transfer{
		TraceID:    uuidutil.New(),
		AssetID:    assetID,
		OpponentID: opponentID,
		Amount:     amount,
		Source:     source,
	})
}
