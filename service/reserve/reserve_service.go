package reserve

import (
	"context"
	"time"

	"lendpool/core"
	"lendpool/internal/lending"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

type reserveService struct {
	reserveStore core.IReserveStore
}

// New new reserve service
func New(reserveStore core.IReserveStore) core.IReserveService {
	return &reserveService{
		reserveStore: reserveStore,
	}
}

func (s *reserveService) CurUtilizationRate(ctx context.Context, reserve *core.Reserve) decimal.Decimal {
	return lending.UtilizationRate(reserve.TotalSupplied, reserve.TotalBorrowed)
}

// CurBorrowRate current borrow APY
func (s *reserveService) CurBorrowRate(ctx context.Context, reserve *core.Reserve) decimal.Decimal {
	u := s.CurUtilizationRate(ctx, reserve)
	return lending.GetBorrowRate(u, reserve.BaseRate, reserve.Slope1, reserve.Slope2, reserve.OptimalUtilization)
}

// CurSupplyRate current supply APY
func (s *reserveService) CurSupplyRate(ctx context.Context, reserve *core.Reserve) decimal.Decimal {
	u := s.CurUtilizationRate(ctx, reserve)
	return lending.GetSupplyRate(u, reserve.BaseRate, reserve.Slope1, reserve.Slope2, reserve.OptimalUtilization, reserve.ReserveFactor)
}

// AccrueInterest advance both indexes to now
//
// Accrual is lazy: it runs at the head of every state-changing operation,
// so the linear per-second approximation compounds call by call. Calling
// twice at the same timestamp leaves the indexes unchanged.
func (s *reserveService) AccrueInterest(ctx context.Context, tx *db.DB, reserve *core.Reserve, now time.Time) error {
	elapsed := int64(now.Sub(reserve.LastAccruedAt).Seconds())

	if elapsed > 0 {
		u := lending.UtilizationRate(reserve.TotalSupplied, reserve.TotalBorrowed)
		borrowRate := lending.GetBorrowRatePerSecond(u, reserve.BaseRate, reserve.Slope1, reserve.Slope2, reserve.OptimalUtilization)
		supplyRate := lending.GetSupplyRatePerSecond(u, reserve.BaseRate, reserve.Slope1, reserve.Slope2, reserve.OptimalUtilization, reserve.ReserveFactor)

		if reserve.BorrowIndex.LessThanOrEqual(decimal.Zero) {
			reserve.BorrowIndex = decimal.New(1, 0)
		}
		if reserve.SupplyIndex.LessThanOrEqual(decimal.Zero) {
			reserve.SupplyIndex = decimal.New(1, 0)
		}

		borrowIndex, err := lending.AdvanceIndex(reserve.BorrowIndex, borrowRate, elapsed)
		if err != nil {
			return core.ErrOverflow
		}

		supplyIndex, err := lending.AdvanceIndex(reserve.SupplyIndex, supplyRate, elapsed)
		if err != nil {
			return core.ErrOverflow
		}

		// interest joins both sides of the book: borrowers owe it and the
		// pool's claims grow by it, so total_borrowed <= total_supplied is
		// preserved by construction. The protocol's cut stays inside
		// total_supplied and is memoed in protocol_reserves.
		interest := lending.InterestAccumulated(reserve.TotalBorrowed, borrowRate, elapsed)
		reserve.TotalBorrowed = reserve.TotalBorrowed.Add(interest).Truncate(lending.MaxPrecision)
		reserve.TotalSupplied = reserve.TotalSupplied.Add(interest).Truncate(lending.MaxPrecision)
		reserve.ProtocolReserves = reserve.ProtocolReserves.Add(interest.Mul(reserve.ReserveFactor)).Truncate(lending.MaxPrecision)

		reserve.BorrowIndex = borrowIndex
		reserve.SupplyIndex = supplyIndex
		reserve.LastAccruedAt = now
	}

	u := lending.UtilizationRate(reserve.TotalSupplied, reserve.TotalBorrowed)
	reserve.UtilizationRate = u
	reserve.BorrowRatePerSecond = lending.GetBorrowRatePerSecond(u, reserve.BaseRate, reserve.Slope1, reserve.Slope2, reserve.OptimalUtilization)
	reserve.SupplyRatePerSecond = lending.GetSupplyRatePerSecond(u, reserve.BaseRate, reserve.Slope1, reserve.Slope2, reserve.OptimalUtilization, reserve.ReserveFactor)

	return s.reserveStore.Update(ctx, tx, reserve)
}
