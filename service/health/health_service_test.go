package health

import (
	"context"
	"testing"
	"time"

	"lendpool/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePositionStore struct {
	positions []*core.Position
}

func (s *fakePositionStore) Find(ctx context.Context, userID, assetID string) (*core.Position, error) {
	for _, p := range s.positions {
		if p.UserID == userID && p.AssetID == assetID {
			return p, nil
		}
	}
	return &core.Position{UserID: userID, AssetID: assetID}, nil
}

func (s *fakePositionStore) FindByUser(ctx context.Context, userID string) ([]*core.Position, error) {
	var out []*core.Position
	for _, p := range s.positions {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakePositionStore) Save(ctx context.Context, tx *db.DB, position *core.Position) error {
	position.ID = uint64(len(s.positions) + 1)
	s.positions = append(s.positions, position)
	return nil
}

func (s *fakePositionStore) Update(ctx context.Context, tx *db.DB, position *core.Position) error {
	return nil
}

func (s *fakePositionStore) Borrowers(ctx context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, p := range s.positions {
		if p.ScaledDebt.IsPositive() && !seen[p.UserID] {
			seen[p.UserID] = true
			out = append(out, p.UserID)
		}
	}
	return out, nil
}

func (s *fakePositionStore) CountOfSuppliers(ctx context.Context, assetID string) (int64, error) {
	return 0, nil
}

func (s *fakePositionStore) CountOfBorrowers(ctx context.Context, assetID string) (int64, error) {
	return 0, nil
}

type fakeCollateralStore struct {
	collaterals []*core.Collateral
}

func (s *fakeCollateralStore) Find(ctx context.Context, userID, assetID string) (*core.Collateral, error) {
	for _, c := range s.collaterals {
		if c.UserID == userID && c.AssetID == assetID {
			return c, nil
		}
	}
	return &core.Collateral{UserID: userID, AssetID: assetID}, nil
}

func (s *fakeCollateralStore) FindByUser(ctx context.Context, userID string) ([]*core.Collateral, error) {
	var out []*core.Collateral
	for _, c := range s.collaterals {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *fakeCollateralStore) Save(ctx context.Context, tx *db.DB, collateral *core.Collateral) error {
	collateral.ID = uint64(len(s.collaterals) + 1)
	s.collaterals = append(s.collaterals, collateral)
	return nil
}

func (s *fakeCollateralStore) Update(ctx context.Context, tx *db.DB, collateral *core.Collateral) error {
	return nil
}

type fakeReserveStore struct {
	reserves map[string]*core.Reserve
}

func (s *fakeReserveStore) Save(ctx context.Context, tx *db.DB, reserve *core.Reserve) error {
	s.reserves[reserve.AssetID] = reserve
	return nil
}

func (s *fakeReserveStore) Find(ctx context.Context, assetID string) (*core.Reserve, error) {
	if r, ok := s.reserves[assetID]; ok {
		return r, nil
	}
	return &core.Reserve{AssetID: assetID}, nil
}

func (s *fakeReserveStore) FindBySymbol(ctx context.Context, symbol string) (*core.Reserve, error) {
	for _, r := range s.reserves {
		if r.Symbol == symbol {
			return r, nil
		}
	}
	return &core.Reserve{}, nil
}

func (s *fakeReserveStore) All(ctx context.Context) ([]*core.Reserve, error) {
	var out []*core.Reserve
	for _, r := range s.reserves {
		out = append(out, r)
	}
	return out, nil
}

func (s *fakeReserveStore) AllAsMap(ctx context.Context) (map[string]*core.Reserve, error) {
	return s.reserves, nil
}

func (s *fakeReserveStore) Update(ctx context.Context, tx *db.DB, reserve *core.Reserve) error {
	s.reserves[reserve.AssetID] = reserve
	return nil
}

type fakePriceFeed struct {
	quotes map[string]*core.PriceQuote
}

func (s *fakePriceFeed) GetQuote(ctx context.Context, assetID string, now time.Time) (*core.PriceQuote, error) {
	if q, ok := s.quotes[assetID]; ok {
		return q, nil
	}
	return nil, core.ErrStalePrice
}

func (s *fakePriceFeed) PullPriceTicker(ctx context.Context, assetID string, t time.Time) (*core.PriceTicker, error) {
	return nil, nil
}

func (s *fakePriceFeed) PullAllPriceTickers(ctx context.Context, t time.Time) ([]*core.PriceTicker, error) {
	return nil, nil
}

const (
	btcAsset  = "c6d0c728-2624-429b-8e0d-d9d19b6592fa"
	usdcAsset = "9b180ab6-6abe-3dc0-a13f-04169eb34bfa"
	alice     = "8c37e4a8-0f0f-4e51-9a0e-2f02b7a8a915"
)

func newTestService() (core.IHealthService, *fakeReserveStore, *fakePositionStore, *fakeCollateralStore, *fakePriceFeed) {
	reserves := &fakeReserveStore{reserves: map[string]*core.Reserve{
		btcAsset: {
			ID:                   1,
			AssetID:              btcAsset,
			Symbol:               "BTC",
			Status:               core.ReserveStatusActive,
			SupplyIndex:          decimal.New(1, 0),
			BorrowIndex:          decimal.New(1, 0),
			LiquidationThreshold: decimal.RequireFromString("0.8"),
		},
		usdcAsset: {
			ID:          2,
			AssetID:     usdcAsset,
			Symbol:      "USDC",
			Status:      core.ReserveStatusActive,
			SupplyIndex: decimal.New(1, 0),
			BorrowIndex: decimal.New(1, 0),
		},
	}}

	positions := &fakePositionStore{}
	collaterals := &fakeCollateralStore{}
	feed := &fakePriceFeed{quotes: map[string]*core.PriceQuote{}}

	return New(positions, collaterals, reserves, feed), reserves, positions, collaterals, feed
}

func TestHealthFactor(t *testing.T) {
	ctx := context.Background()
	srv, _, positions, collaterals, feed := newTestService()

	collaterals.collaterals = append(collaterals.collaterals, &core.Collateral{
		ID:      1,
		UserID:  alice,
		AssetID: btcAsset,
		Amount:  decimal.New(1, 0),
	})
	positions.positions = append(positions.positions, &core.Position{
		ID:         1,
		UserID:     alice,
		AssetID:    usdcAsset,
		ScaledDebt: decimal.RequireFromString("22500"),
	})

	feed.quotes[btcAsset] = &core.PriceQuote{ID: 1, AssetID: btcAsset, Price: decimal.RequireFromString("30000")}
	feed.quotes[usdcAsset] = &core.PriceQuote{ID: 2, AssetID: usdcAsset, Price: decimal.New(1, 0)}

	snapshot, err := srv.Snapshot(ctx, alice, time.Now(), nil)
	require.Nil(t, err)

	assert.Equal(t, "24000", srv.CollateralValue(snapshot).String())
	assert.Equal(t, "22500", srv.DebtValue(snapshot).String())
	assert.Equal(t, "1.0666666666666666", srv.HealthFactor(snapshot).String())
}

func TestHealthFactorWithoutDebt(t *testing.T) {
	ctx := context.Background()
	srv, _, _, collaterals, feed := newTestService()

	collaterals.collaterals = append(collaterals.collaterals, &core.Collateral{
		ID:      1,
		UserID:  alice,
		AssetID: btcAsset,
		Amount:  decimal.New(2, 0),
	})
	feed.quotes[btcAsset] = &core.PriceQuote{ID: 1, AssetID: btcAsset, Price: decimal.RequireFromString("30000")}

	snapshot, err := srv.Snapshot(ctx, alice, time.Now(), nil)
	require.Nil(t, err)

	assert.True(t, srv.HealthFactor(snapshot).Equal(core.MaxHealthFactor))
}

func TestSnapshotFailsClosedOnStalePrice(t *testing.T) {
	ctx := context.Background()
	srv, _, positions, collaterals, feed := newTestService()

	collaterals.collaterals = append(collaterals.collaterals, &core.Collateral{
		ID:      1,
		UserID:  alice,
		AssetID: btcAsset,
		Amount:  decimal.New(1, 0),
	})
	positions.positions = append(positions.positions, &core.Position{
		ID:         1,
		UserID:     alice,
		AssetID:    usdcAsset,
		ScaledDebt: decimal.New(100, 0),
	})

	// only the collateral asset has a quote; the debt quote is missing
	feed.quotes[btcAsset] = &core.PriceQuote{ID: 1, AssetID: btcAsset, Price: decimal.RequireFromString("30000")}

	_, err := srv.Snapshot(ctx, alice, time.Now(), nil)
	assert.Equal(t, core.ErrStalePrice, err)
}

func TestHealthFactorAfterBorrow(t *testing.T) {
	ctx := context.Background()
	srv, _, _, collaterals, feed := newTestService()

	collaterals.collaterals = append(collaterals.collaterals, &core.Collateral{
		ID:      1,
		UserID:  alice,
		AssetID: btcAsset,
		Amount:  decimal.New(1, 0),
	})
	feed.quotes[btcAsset] = &core.PriceQuote{ID: 1, AssetID: btcAsset, Price: decimal.RequireFromString("30000")}
	feed.quotes[usdcAsset] = &core.PriceQuote{ID: 2, AssetID: usdcAsset, Price: decimal.New(1, 0)}

	snapshot, err := srv.Snapshot(ctx, alice, time.Now(), map[string]*core.Reserve{
		usdcAsset: {ID: 2, AssetID: usdcAsset, BorrowIndex: decimal.New(1, 0), SupplyIndex: decimal.New(1, 0)},
	})
	require.Nil(t, err)

	// 24000 risk-weighted collateral against 24000 of new debt is exactly 1
	hf := srv.HealthFactorAfter(snapshot, core.HealthDelta{
		BorrowAssetID: usdcAsset,
		BorrowAmount:  decimal.RequireFromString("24000"),
	})
	assert.Equal(t, "1", hf.String())

	hf = srv.HealthFactorAfter(snapshot, core.HealthDelta{
		BorrowAssetID: usdcAsset,
		BorrowAmount:  decimal.RequireFromString("25000"),
	})
	assert.True(t, hf.LessThan(decimal.New(1, 0)))
}

func TestHealthFactorAfterWithdrawCollateral(t *testing.T) {
	ctx := context.Background()
	srv, _, positions, collaterals, feed := newTestService()

	collaterals.collaterals = append(collaterals.collaterals, &core.Collateral{
		ID:      1,
		UserID:  alice,
		AssetID: btcAsset,
		Amount:  decimal.New(2, 0),
	})
	positions.positions = append(positions.positions, &core.Position{
		ID:         1,
		UserID:     alice,
		AssetID:    usdcAsset,
		ScaledDebt: decimal.RequireFromString("24000"),
	})
	feed.quotes[btcAsset] = &core.PriceQuote{ID: 1, AssetID: btcAsset, Price: decimal.RequireFromString("30000")}
	feed.quotes[usdcAsset] = &core.PriceQuote{ID: 2, AssetID: usdcAsset, Price: decimal.New(1, 0)}

	snapshot, err := srv.Snapshot(ctx, alice, time.Now(), nil)
	require.Nil(t, err)

	// withdrawing one of two coins halves the weighted collateral to 24000
	hf := srv.HealthFactorAfter(snapshot, core.HealthDelta{
		WithdrawCollateralAsset:  btcAsset,
		WithdrawCollateralAmount: decimal.New(1, 0),
	})
	assert.Equal(t, "1", hf.String())
}
