package liquidation

import (
	"context"
	"testing"
	"time"

	"lendpool/core"
	"lendpool/service/health"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePositionStore struct{}

func (s *fakePositionStore) Find(ctx context.Context, userID, assetID string) (*core.Position, error) {
	return &core.Position{UserID: userID, AssetID: assetID}, nil
}

func (s *fakePositionStore) FindByUser(ctx context.Context, userID string) ([]*core.Position, error) {
	return nil, nil
}

func (s *fakePositionStore) Save(ctx context.Context, tx *db.DB, position *core.Position) error {
	return nil
}

func (s *fakePositionStore) Update(ctx context.Context, tx *db.DB, position *core.Position) error {
	return nil
}

func (s *fakePositionStore) Borrowers(ctx context.Context) ([]string, error) {
	return nil, nil
}

func (s *fakePositionStore) CountOfSuppliers(ctx context.Context, assetID string) (int64, error) {
	return 0, nil
}

func (s *fakePositionStore) CountOfBorrowers(ctx context.Context, assetID string) (int64, error) {
	return 0, nil
}

type fakeCollateralStore struct{}

func (s *fakeCollateralStore) Find(ctx context.Context, userID, assetID string) (*core.Collateral, error) {
	return &core.Collateral{UserID: userID, AssetID: assetID}, nil
}

func (s *fakeCollateralStore) FindByUser(ctx context.Context, userID string) ([]*core.Collateral, error) {
	return nil, nil
}

func (s *fakeCollateralStore) Save(ctx context.Context, tx *db.DB, collateral *core.Collateral) error {
	return nil
}

func (s *fakeCollateralStore) Update(ctx context.Context, tx *db.DB, collateral *core.Collateral) error {
	return nil
}

type fakeLiquidationStore struct {
	events []*core.LiquidationEvent
}

func (s *fakeLiquidationStore) Create(ctx context.Context, tx *db.DB, event *core.LiquidationEvent) error {
	s.events = append(s.events, event)
	return nil
}

func (s *fakeLiquidationStore) FindByTraceID(ctx context.Context, traceID string) (*core.LiquidationEvent, error) {
	return nil, nil
}

func (s *fakeLiquidationStore) ListByUser(ctx context.Context, userID string, limit int) ([]*core.LiquidationEvent, error) {
	return s.events, nil
}

func (s *fakeLiquidationStore) List(ctx context.Context, limit int) ([]*core.LiquidationEvent, error) {
	return s.events, nil
}

type fakeTransferStore struct {
	transfers []*core.Transfer
}

func (s *fakeTransferStore) Create(ctx context.Context, tx *db.DB, transfer *core.Transfer) error {
	s.transfers = append(s.transfers, transfer)
	return nil
}

func (s *fakeTransferStore) ListPending(ctx context.Context, limit int) ([]*core.Transfer, error) {
	return s.transfers, nil
}

func (s *fakeTransferStore) Update(ctx context.Context, transfer *core.Transfer) error {
	return nil
}

const (
	btcAsset   = "c6d0c728-2624-429b-8e0d-d9d19b6592fa"
	usdcAsset  = "9b180ab6-6abe-3dc0-a13f-04169eb34bfa"
	bob        = "170e40f0-627f-4e0e-a463-9ea24d1fd68c"
	liquidator = "fca369de-3b11-4e53-bd4f-e4b2fc16f917"
)

func newEngine() (core.ILiquidationService, *fakeLiquidationStore, *fakeTransferStore) {
	events := &fakeLiquidationStore{}
	transfers := &fakeTransferStore{}
	healthSrv := health.New(nil, nil, nil, nil)

	srv := New(healthSrv, &fakePositionStore{}, &fakeCollateralStore{}, events, NewDirectStrategy(transfers), Config{
		SevereHealthFactor: decimal.RequireFromString("0.95"),
		MinPositionValue:   decimal.New(10, 0),
	})

	return srv, events, transfers
}

// collateralAmount of BTC at btcPrice with 0.8 threshold and 5% bonus,
// debtAmount of USDC at price 1 with 0.5 close factor
func newSnapshot(collateralAmount, debtAmount, btcPrice string) *core.AccountSnapshot {
	return &core.AccountSnapshot{
		UserID: bob,
		Time:   time.Now(),
		Positions: []*core.Position{
			{ID: 1, UserID: bob, AssetID: usdcAsset, ScaledDebt: decimal.RequireFromString(debtAmount)},
		},
		Collaterals: []*core.Collateral{
			{ID: 1, UserID: bob, AssetID: btcAsset, Amount: decimal.RequireFromString(collateralAmount)},
		},
		Reserves: map[string]*core.Reserve{
			btcAsset: {
				ID:                   1,
				AssetID:              btcAsset,
				SupplyIndex:          decimal.New(1, 0),
				BorrowIndex:          decimal.New(1, 0),
				LiquidationThreshold: decimal.RequireFromString("0.8"),
				LiquidationBonus:     decimal.RequireFromString("0.05"),
				CloseFactor:          decimal.RequireFromString("0.5"),
			},
			usdcAsset: {
				ID:            2,
				AssetID:       usdcAsset,
				SupplyIndex:   decimal.New(1, 0),
				BorrowIndex:   decimal.New(1, 0),
				TotalSupplied: decimal.RequireFromString("100000"),
				TotalBorrowed: decimal.RequireFromString(debtAmount),
				CloseFactor:   decimal.RequireFromString("0.5"),
			},
		},
		Quotes: map[string]*core.PriceQuote{
			btcAsset:  {ID: 1, AssetID: btcAsset, Price: decimal.RequireFromString(btcPrice)},
			usdcAsset: {ID: 2, AssetID: usdcAsset, Price: decimal.New(1, 0)},
		},
	}
}

func TestLiquidateHealthyPositionRejected(t *testing.T) {
	ctx := context.Background()
	srv, _, _ := newEngine()

	// 1 BTC * 3000 * 0.8 = 2400 against 2000 of debt, healthy
	snapshot := newSnapshot("1", "2000", "3000")

	_, err := srv.Liquidate(ctx, nil, liquidator, snapshot, btcAsset, usdcAsset, decimal.New(100, 0))
	assert.Equal(t, core.ErrPositionHealthy, err)
}

func TestLiquidateCloseFactorBound(t *testing.T) {
	ctx := context.Background()
	srv, _, _ := newEngine()

	// 2400 weighted collateral against 2500 debt, HF 0.96
	snapshot := newSnapshot("1", "2500", "3000")

	_, err := srv.Liquidate(ctx, nil, liquidator, snapshot, btcAsset, usdcAsset, decimal.RequireFromString("2000"))
	require.Equal(t, core.ErrCloseFactorExceeded, err)

	snapshot = newSnapshot("1", "2500", "3000")
	event, err := srv.Liquidate(ctx, nil, liquidator, snapshot, btcAsset, usdcAsset, decimal.RequireFromString("1250"))
	require.Nil(t, err)

	assert.Equal(t, "1250", event.DebtCovered.String())
	// 1250 * 1 * 1.05 / 3000
	assert.Equal(t, "0.4375", event.CollateralSeized.String())
	assert.False(t, event.BadDebt)
	assert.True(t, event.HealthAfter.GreaterThanOrEqual(decimal.New(1, 0)))
}

func TestLiquidateSevereAllowsFullClose(t *testing.T) {
	ctx := context.Background()
	srv, _, _ := newEngine()

	// 4800 weighted collateral against 10000 debt, HF 0.48
	snapshot := newSnapshot("2", "10000", "3000")

	event, err := srv.Liquidate(ctx, nil, liquidator, snapshot, btcAsset, usdcAsset, decimal.RequireFromString("5000"))
	require.Nil(t, err)

	// 5000 * 1 * 1.05 / 3000
	assert.Equal(t, "1.75", event.CollateralSeized.String())
	assert.Equal(t, "5000", event.DebtCovered.String())
	assert.False(t, event.BadDebt)
}

func TestLiquidateSeizeCappedByCollateral(t *testing.T) {
	ctx := context.Background()
	srv, _, _ := newEngine()

	// 2400 weighted collateral against 10000 debt, deep under water
	snapshot := newSnapshot("1", "10000", "3000")

	event, err := srv.Liquidate(ctx, nil, liquidator, snapshot, btcAsset, usdcAsset, decimal.RequireFromString("10000"))
	require.Nil(t, err)

	assert.True(t, event.BadDebt)
	assert.Equal(t, "1", event.CollateralSeized.String())
	// 1 * 3000 / (1 * 1.05)
	assert.Equal(t, "2857.1428571428571428", event.DebtCovered.String())
	assert.True(t, snapshot.Position(usdcAsset).ScaledDebt.IsPositive())
	assert.False(t, snapshot.Collateral(btcAsset).Amount.IsPositive())
}

func TestLiquidateDustEscalatesToFullClose(t *testing.T) {
	ctx := context.Background()
	srv, _, _ := newEngine()

	// tiny position: 0.005 BTC collateral (12 weighted) against 13 of debt
	snapshot := newSnapshot("0.005", "13", "3000")

	// half would leave a residual below the 10 minimum, so the whole debt
	// is closed even though it exceeds the close factor bound
	event, err := srv.Liquidate(ctx, nil, liquidator, snapshot, btcAsset, usdcAsset, decimal.RequireFromString("6.5"))
	require.Nil(t, err)

	assert.True(t, event.DebtCovered.GreaterThan(decimal.RequireFromString("6.5")))
	assert.False(t, snapshot.Position(usdcAsset).ScaledDebt.IsPositive())
}

func TestLiquidatePayoutQueued(t *testing.T) {
	ctx := context.Background()
	srv, events, transfers := newEngine()

	snapshot := newSnapshot("1", "2500", "3000")

	event, err := srv.Liquidate(ctx, nil, liquidator, snapshot, btcAsset, usdcAsset, decimal.RequireFromString("1250"))
	require.Nil(t, err)
	require.Len(t, events.events, 1)
	require.Len(t, transfers.transfers, 1)

	payout := transfers.transfers[0]
	assert.Equal(t, btcAsset, payout.AssetID)
	assert.Equal(t, liquidator, payout.OpponentID)
	assert.Equal(t, core.TransferSourceSeizePayout, payout.Source)
	assert.True(t, payout.Amount.Equal(event.CollateralSeized))
}
