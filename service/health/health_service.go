package health

import (
	"context"
	"time"

	"lendpool/core"
	"lendpool/internal/lending"

	"github.com/shopspring/decimal"
)

type healthService struct {
	positionStore   core.IPositionStore
	collateralStore core.ICollateralStore
	reserveStore    core.IReserveStore
	priceFeed       core.IPriceFeedService
}

// New new health service
func New(
	positionStore core.IPositionStore,
	collateralStore core.ICollateralStore,
	reserveStore core.IReserveStore,
	priceFeed core.IPriceFeedService,
) core.IHealthService {
	return &healthService{
		positionStore:   positionStore,
		collateralStore: collateralStore,
		reserveStore:    reserveStore,
		priceFeed:       priceFeed,
	}
}

// Snapshot loads everything needed to value the account at one instant.
// Reserves passed in by the caller (already accrued inside the current
// transaction) take precedence over stored rows. A price quote is required
// for every asset with posted collateral or outstanding debt and for every
// caller-provided reserve; any missing or stale quote fails the whole
// evaluation with ErrStalePrice.
func (s *healthService) Snapshot(ctx context.Context, userID string, now time.Time, reserves map[string]*core.Reserve) (*core.AccountSnapshot, error) {
	positions, err := s.positionStore.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	collaterals, err := s.collateralStore.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	snapshot := &core.AccountSnapshot{
		UserID:      userID,
		Time:        now,
		Positions:   positions,
		Collaterals: collaterals,
		Reserves:    map[string]*core.Reserve{},
		Quotes:      map[string]*core.PriceQuote{},
	}

	for assetID, reserve := range reserves {
		snapshot.Reserves[assetID] = reserve
	}

	assets := map[string]bool{}
	for assetID := range reserves {
		assets[assetID] = true
	}
	for _, p := range positions {
		if p.ScaledDebt.IsPositive() || p.ScaledSupply.IsPositive() {
			assets[p.AssetID] = true
		}
	}
	for _, c := range collaterals {
		if c.Amount.IsPositive() {
			assets[c.AssetID] = true
		}
	}

	for assetID := range assets {
		if _, ok := snapshot.Reserves[assetID]; !ok {
			reserve, err := s.reserveStore.Find(ctx, assetID)
			if err != nil {
				return nil, err
			}
			snapshot.Reserves[assetID] = reserve
		}

		quote, err := s.priceFeed.GetQuote(ctx, assetID, now)
		if err != nil {
			return nil, err
		}
		snapshot.Quotes[assetID] = quote
	}

	return snapshot, nil
}

// CollateralValue risk-weighted collateral value
// = sum(collateral_amount * price * liquidation_threshold)
func (s *healthService) CollateralValue(snapshot *core.AccountSnapshot) decimal.Decimal {
	value := decimal.Zero
	for _, c := range snapshot.Collaterals {
		if !c.Amount.IsPositive() {
			continue
		}

		reserve, ok := snapshot.Reserves[c.AssetID]
		if !ok {
			continue
		}

		quote, ok := snapshot.Quotes[c.AssetID]
		if !ok {
			continue
		}

		value = value.Add(c.Amount.Mul(quote.Price).Mul(reserve.LiquidationThreshold))
	}

	return value.Truncate(lending.MaxPrecision)
}

// DebtValue = sum(effective_debt * price)
func (s *healthService) DebtValue(snapshot *core.AccountSnapshot) decimal.Decimal {
	value := decimal.Zero
	for _, p := range snapshot.Positions {
		if !p.ScaledDebt.IsPositive() {
			continue
		}

		reserve, ok := snapshot.Reserves[p.AssetID]
		if !ok {
			continue
		}

		quote, ok := snapshot.Quotes[p.AssetID]
		if !ok {
			continue
		}

		debt := lending.DebtBalance(p.ScaledDebt, reserve.BorrowIndex)
		value = value.Add(debt.Mul(quote.Price))
	}

	return value.Truncate(lending.MaxPrecision)
}

func (s *healthService) HealthFactor(snapshot *core.AccountSnapshot) decimal.Decimal {
	return healthFactor(s.CollateralValue(snapshot), s.DebtValue(snapshot))
}

// HealthFactorAfter health factor with a hypothetical delta applied,
// used to gate borrow and collateral withdrawal before mutating anything
func (s *healthService) HealthFactorAfter(snapshot *core.AccountSnapshot, delta core.HealthDelta) decimal.Decimal {
	collateralValue := s.CollateralValue(snapshot)
	debtValue := s.DebtValue(snapshot)

	if delta.BorrowAmount.IsPositive() {
		quote, ok := snapshot.Quotes[delta.BorrowAssetID]
		if !ok {
			// no verifiable price for the new debt, never safe
			return decimal.Zero
		}
		debtValue = debtValue.Add(delta.BorrowAmount.Mul(quote.Price))
	}

	if delta.WithdrawCollateralAmount.IsPositive() {
		reserve, rok := snapshot.Reserves[delta.WithdrawCollateralAsset]
		quote, qok := snapshot.Quotes[delta.WithdrawCollateralAsset]
		if !rok || !qok {
			return decimal.Zero
		}
		removed := delta.WithdrawCollateralAmount.Mul(quote.Price).Mul(reserve.LiquidationThreshold)
		collateralValue = decimal.Max(collateralValue.Sub(removed), decimal.Zero)
	}

	return healthFactor(collateralValue, debtValue)
}

func healthFactor(collateralValue, debtValue decimal.Decimal) decimal.Decimal {
	if !debtValue.IsPositive() {
		return core.MaxHealthFactor
	}

	return collateralValue.Div(debtValue).Truncate(lending.MaxPrecision)
}
