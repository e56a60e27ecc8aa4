package position

import (
	"context"

	"lendpool/core"
	"lendpool/internal/lending"
	"lendpool/pkg/number"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

type positionService struct {
	positionStore   core.IPositionStore
	collateralStore core.ICollateralStore
}

// New new position service
func New(
	positionStore core.IPositionStore,
	collateralStore core.ICollateralStore,
) core.IPositionService {
	return &positionService{
		positionStore:   positionStore,
		collateralStore: collateralStore,
	}
}

func (s *positionService) Supply(ctx context.Context, tx *db.DB, position *core.Position, reserve *core.Reserve, amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return core.ErrInvalidAmount
	}

	scaled := lending.ScaledSupply(amount, reserve.SupplyIndex)
	position.ScaledSupply = position.ScaledSupply.Add(scaled).Truncate(lending.MaxPrecision)
	reserve.TotalSupplied = reserve.TotalSupplied.Add(amount).Truncate(lending.MaxPrecision)

	return s.persistPosition(ctx, tx, position)
}

func (s *positionService) Withdraw(ctx context.Context, tx *db.DB, position *core.Position, reserve *core.Reserve, amount decimal.Decimal, max bool) (decimal.Decimal, error) {
	balance := lending.SupplyBalance(position.ScaledSupply, reserve.SupplyIndex)
	if max {
		amount = balance
	}

	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, core.ErrInvalidAmount
	}

	if amount.GreaterThan(balance) {
		return decimal.Zero, core.ErrInsufficientBalance
	}

	if amount.GreaterThan(reserve.AvailableCash()) {
		return decimal.Zero, core.ErrInsufficientLiquidity
	}

	if amount.Equal(balance) {
		// clear to exactly zero so rounding can never strand dust
		position.ScaledSupply = decimal.Zero
	} else {
		scaled := number.Ceil(amount.Div(reserve.SupplyIndex), lending.MaxPrecision)
		position.ScaledSupply = decimal.Max(position.ScaledSupply.Sub(scaled), decimal.Zero)
	}

	reserve.TotalSupplied = reserve.TotalSupplied.Sub(amount).Truncate(lending.MaxPrecision)

	if err := s.persistPosition(ctx, tx, position); err != nil {
		return decimal.Zero, err
	}

	return amount, nil
}

func (s *positionService) Borrow(ctx context.Context, tx *db.DB, position *core.Position, reserve *core.Reserve, amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return core.ErrInvalidAmount
	}

	if amount.GreaterThan(reserve.AvailableCash()) {
		return core.ErrInsufficientLiquidity
	}

	scaled := lending.ScaledDebt(amount, reserve.BorrowIndex)
	position.ScaledDebt = position.ScaledDebt.Add(scaled).Truncate(lending.MaxPrecision)
	reserve.TotalBorrowed = reserve.TotalBorrowed.Add(amount).Truncate(lending.MaxPrecision)

	return s.persistPosition(ctx, tx, position)
}

func (s *positionService) Repay(ctx context.Context, tx *db.DB, position *core.Position, reserve *core.Reserve, amount decimal.Decimal, max bool) (decimal.Decimal, error) {
	debt := lending.DebtBalance(position.ScaledDebt, reserve.BorrowIndex)
	if max {
		amount = debt
	}

	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, core.ErrInvalidAmount
	}

	if amount.GreaterThan(debt) {
		return decimal.Zero, core.ErrInsufficientBalance
	}

	if amount.Equal(debt) {
		position.ScaledDebt = decimal.Zero
	} else {
		scaled := amount.Div(reserve.BorrowIndex).Truncate(lending.MaxPrecision)
		position.ScaledDebt = decimal.Max(position.ScaledDebt.Sub(scaled), decimal.Zero)
	}

	reserve.TotalBorrowed = decimal.Max(reserve.TotalBorrowed.Sub(amount), decimal.Zero).Truncate(lending.MaxPrecision)

	if err := s.persistPosition(ctx, tx, position); err != nil {
		return decimal.Zero, err
	}

	return amount, nil
}

func (s *positionService) DepositCollateral(ctx context.Context, tx *db.DB, collateral *core.Collateral, amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return core.ErrInvalidAmount
	}

	collateral.Amount = collateral.Amount.Add(amount).Truncate(lending.MaxPrecision)

	return s.persistCollateral(ctx, tx, collateral)
}

func (s *positionService) WithdrawCollateral(ctx context.Context, tx *db.DB, collateral *core.Collateral, amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return core.ErrInvalidAmount
	}

	if amount.GreaterThan(collateral.Amount) {
		return core.ErrInsufficientBalance
	}

	collateral.Amount = collateral.Amount.Sub(amount).Truncate(lending.MaxPrecision)

	return s.persistCollateral(ctx, tx, collateral)
}

func (s *positionService) persistPosition(ctx context.Context, tx *db.DB, position *core.Position) error {
	if position.ID == 0 {
		return s.positionStore.Save(ctx, tx, position)
	}

	return s.positionStore.Update(ctx, tx, position)
}

func (s *positionService) persistCollateral(ctx context.Context, tx *db.DB, collateral *core.Collateral) error {
	if collateral.ID == 0 {
		return s.collateralStore.Save(ctx, tx, collateral)
	}

	return s.collateralStore.Update(ctx, tx, collateral)
}
