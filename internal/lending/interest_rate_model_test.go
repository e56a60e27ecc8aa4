package lending

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUtilizationRate(t *testing.T) {
	u := UtilizationRate(decimal.NewFromInt(10000), decimal.NewFromInt(9000))
	assert.Equal(t, "0.9", u.String())

	// empty pool defines utilization as zero
	u = UtilizationRate(decimal.Zero, decimal.Zero)
	assert.True(t, u.IsZero())
}

func TestGetBorrowRateKink(t *testing.T) {
	base := decimal.NewFromFloat(0.02)
	slope1 := decimal.NewFromFloat(0.04)
	slope2 := decimal.NewFromFloat(0.75)
	kink := decimal.NewFromFloat(0.8)

	// at 90% utilization: 2% + 4% + (0.10/0.20)*75% = 43.5% annualized
	rate := GetBorrowRate(decimal.NewFromFloat(0.9), base, slope1, slope2, kink)
	assert.Equal(t, "0.435", rate.String())

	// below the kink the jump slope never applies
	rate = GetBorrowRate(decimal.NewFromFloat(0.4), base, slope1, slope2, kink)
	assert.Equal(t, "0.04", rate.String())

	// exactly at the kink both branches agree
	rate = GetBorrowRate(kink, base, slope1, slope2, kink)
	assert.Equal(t, "0.06", rate.String())
}

func TestGetSupplyRate(t *testing.T) {
	base := decimal.NewFromFloat(0.02)
	slope1 := decimal.NewFromFloat(0.04)
	slope2 := decimal.NewFromFloat(0.75)
	kink := decimal.NewFromFloat(0.8)
	reserveFactor := decimal.NewFromFloat(0.1)

	u := decimal.NewFromFloat(0.5)
	borrowRate := GetBorrowRate(u, base, slope1, slope2, kink)
	supplyRate := GetSupplyRate(u, base, slope1, slope2, kink, reserveFactor)

	expect := borrowRate.Mul(u).Mul(decimal.NewFromFloat(0.9)).Truncate(MaxPrecision)
	require.True(t, supplyRate.Equal(expect))
	assert.True(t, supplyRate.LessThan(borrowRate))
}

func TestRatePerSecond(t *testing.T) {
	base := decimal.NewFromFloat(0.02)
	slope1 := decimal.NewFromFloat(0.04)
	slope2 := decimal.NewFromFloat(0.75)
	kink := decimal.NewFromFloat(0.8)

	annual := GetBorrowRate(decimal.NewFromFloat(0.9), base, slope1, slope2, kink)
	perSecond := GetBorrowRatePerSecond(decimal.NewFromFloat(0.9), base, slope1, slope2, kink)

	require.True(t, perSecond.IsPositive())
	assert.True(t, perSecond.Mul(SecondsPerYear).Sub(annual).Abs().LessThan(decimal.New(1, -8)))
}
