package lending

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// MaxIndex upper bound of both indexes; an accrual that would pass it
	// aborts instead of wrapping
	MaxIndex = decimal.New(1, 12)

	// ErrIndexOverflow index would exceed MaxIndex
	ErrIndexOverflow = errors.New("index overflow")
)

// AdvanceIndex advances a compounding index by the linear per-second
// approximation index * (1 + rate * elapsed). Non-positive elapsed time
// leaves the index unchanged, which makes accrual idempotent within a
// single timestamp. The returned index never decreases.
func AdvanceIndex(index, ratePerSecond decimal.Decimal, elapsed int64) (decimal.Decimal, error) {
	if elapsed <= 0 {
		return index, nil
	}

	growth := ratePerSecond.Mul(decimal.NewFromInt(elapsed))
	if growth.IsNegative() {
		return index, nil
	}

	next := index.Mul(one.Add(growth)).Truncate(MaxPrecision)
	if next.GreaterThan(MaxIndex) {
		return index, ErrIndexOverflow
	}

	return next, nil
}

// InterestAccumulated simple interest on the outstanding borrows over the
// elapsed period
func InterestAccumulated(totalBorrowed, ratePerSecond decimal.Decimal, elapsed int64) decimal.Decimal {
	if elapsed <= 0 {
		return decimal.Zero
	}

	return totalBorrowed.Mul(ratePerSecond).Mul(decimal.NewFromInt(elapsed)).Truncate(MaxPrecision)
}

// SupplyBalance effective supply balance, rounded down in the pool's favor
// balance = scaled_supply * supply_index
func SupplyBalance(scaledSupply, supplyIndex decimal.Decimal) decimal.Decimal {
	return scaledSupply.Mul(supplyIndex).Truncate(MaxPrecision)
}

// DebtBalance effective debt balance, rounded up so interest owed is never
// understated
// balance = scaled_debt * borrow_index
func DebtBalance(scaledDebt, borrowIndex decimal.Decimal) decimal.Decimal {
	return scaledDebt.Mul(borrowIndex).
		Shift(MaxPrecision).Ceil().Shift(-MaxPrecision)
}

// ScaledSupply scaled principal minted for a deposit, rounded down
func ScaledSupply(amount, supplyIndex decimal.Decimal) decimal.Decimal {
	return amount.Div(supplyIndex).Truncate(MaxPrecision)
}

// ScaledDebt scaled principal minted for a borrow, rounded up
func ScaledDebt(amount, borrowIndex decimal.Decimal) decimal.Decimal {
	return amount.Div(borrowIndex).
		Shift(MaxPrecision).Ceil().Shift(-MaxPrecision)
}
