package lending

import (
	"github.com/shopspring/decimal"
)

var (
	// SecondsPerYear seconds per year, rates are configured annualized
	SecondsPerYear = decimal.NewFromInt(31536000)
	// CloseFactorMin min of close factor
	CloseFactorMin = decimal.NewFromFloat(0.05)
	// CloseFactorMax max of close factor
	CloseFactorMax = decimal.NewFromInt(1)
	// MaxPrecision max precision
	MaxPrecision int32 = 16

	one = decimal.New(1, 0)
)

// UtilizationRate fraction of supplied liquidity currently borrowed
// utilization_rate = reserve.total_borrowed / reserve.total_supplied
func UtilizationRate(totalSupplied, totalBorrowed decimal.Decimal) decimal.Decimal {
	if totalSupplied.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	return totalBorrowed.Div(totalSupplied).Truncate(MaxPrecision)
}

// GetBorrowRate annualized two-slope borrow rate
//
// below the kink: base + (U/kink)*slope1
// at or above:    base + slope1 + ((U-kink)/(1-kink))*slope2
func GetBorrowRate(utilizationRate, baseRate, slope1, slope2, kink decimal.Decimal) decimal.Decimal {
	if kink.LessThanOrEqual(decimal.Zero) {
		return baseRate.Add(utilizationRate.Mul(slope1)).Truncate(MaxPrecision)
	}

	if utilizationRate.LessThanOrEqual(kink) {
		return baseRate.Add(utilizationRate.Div(kink).Mul(slope1)).Truncate(MaxPrecision)
	}

	excessRate := utilizationRate.Sub(kink).Div(one.Sub(kink))
	return baseRate.Add(slope1).Add(excessRate.Mul(slope2)).Truncate(MaxPrecision)
}

// GetSupplyRate annualized supply rate
//
// supply_rate = borrow_rate * U * (1 - reserve_factor); idle capital earns nothing
func GetSupplyRate(utilizationRate, baseRate, slope1, slope2, kink, reserveFactor decimal.Decimal) decimal.Decimal {
	borrowRate := GetBorrowRate(utilizationRate, baseRate, slope1, slope2, kink)
	rateToPool := borrowRate.Mul(one.Sub(reserveFactor))
	return utilizationRate.Mul(rateToPool).Truncate(MaxPrecision)
}

// GetBorrowRatePerSecond borrow rate per second
func GetBorrowRatePerSecond(utilizationRate, baseRate, slope1, slope2, kink decimal.Decimal) decimal.Decimal {
	return GetBorrowRate(utilizationRate, baseRate, slope1, slope2, kink).Div(SecondsPerYear).Truncate(MaxPrecision)
}

// GetSupplyRatePerSecond supply rate per second
func GetSupplyRatePerSecond(utilizationRate, baseRate, slope1, slope2, kink, reserveFactor decimal.Decimal) decimal.Decimal {
	return GetSupplyRate(utilizationRate, baseRate, slope1, slope2, kink, reserveFactor).Div(SecondsPerYear).Truncate(MaxPrecision)
}
