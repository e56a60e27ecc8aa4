package position

import (
	"context"
	"testing"

	"lendpool/core"
	"lendpool/internal/lending"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePositionStore struct {
	saved   int
	updated int
}

func (s *fakePositionStore) Find(ctx context.Context, userID, assetID string) (*core.Position, error) {
	return &core.Position{UserID: userID, AssetID: assetID}, nil
}

func (s *fakePositionStore) FindByUser(ctx context.Context, userID string) ([]*core.Position, error) {
	return nil, nil
}

func (s *fakePositionStore) Save(ctx context.Context, tx *db.DB, position *core.Position) error {
	s.saved++
	position.ID = uint64(s.saved)
	return nil
}

func (s *fakePositionStore) Update(ctx context.Context, tx *db.DB, position *core.Position) error {
	s.updated++
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

type fakeCollateralStore struct {
	saved   int
	updated int
}

func (s *fakeCollateralStore) Find(ctx context.Context, userID, assetID string) (*core.Collateral, error) {
	return &core.Collateral{UserID: userID, AssetID: assetID}, nil
}

func (s *fakeCollateralStore) FindByUser(ctx context.Context, userID string) ([]*core.Collateral, error) {
	return nil, nil
}

func (s *fakeCollateralStore) Save(ctx context.Context, tx *db.DB, collateral *core.Collateral) error {
	s.saved++
	collateral.ID = uint64(s.saved)
	return nil
}

func (s *fakeCollateralStore) Update(ctx context.Context, tx *db.DB, collateral *core.Collateral) error {
	s.updated++
	return nil
}

func newReserve(supplied, borrowed string) *core.Reserve {
	return &core.Reserve{
		ID:            1,
		AssetID:       "asset",
		SupplyIndex:   decimal.RequireFromString("1.08"),
		BorrowIndex:   decimal.RequireFromString("1.08"),
		TotalSupplied: decimal.RequireFromString(supplied),
		TotalBorrowed: decimal.RequireFromString(borrowed),
	}
}

func TestSupplyThenWithdrawAll(t *testing.T) {
	ctx := context.Background()
	srv := New(&fakePositionStore{}, &fakeCollateralStore{})

	reserve := newReserve("1000", "0")
	position := &core.Position{UserID: "u", AssetID: "asset"}

	amount := decimal.New(100, 0)
	require.Nil(t, srv.Supply(ctx, nil, position, reserve, amount))

	// scaling rounds down, so the effective balance never exceeds the
	// amount put in
	balance := lending.SupplyBalance(position.ScaledSupply, reserve.SupplyIndex)
	assert.True(t, balance.LessThanOrEqual(amount))
	assert.Equal(t, "1100", reserve.TotalSupplied.String())

	paid, err := srv.Withdraw(ctx, nil, position, reserve, decimal.Zero, true)
	require.Nil(t, err)

	assert.True(t, paid.Equal(balance))
	assert.True(t, position.ScaledSupply.IsZero())
	assert.True(t, reserve.TotalSupplied.GreaterThanOrEqual(decimal.RequireFromString("1000")))
}

func TestWithdrawChecks(t *testing.T) {
	ctx := context.Background()
	srv := New(&fakePositionStore{}, &fakeCollateralStore{})

	reserve := newReserve("100", "80")
	position := &core.Position{
		ID:           1,
		UserID:       "u",
		AssetID:      "asset",
		ScaledSupply: decimal.RequireFromString("60").Div(decimal.RequireFromString("1.08")).Truncate(16),
	}

	_, err := srv.Withdraw(ctx, nil, position, reserve, decimal.New(70, 0), false)
	assert.Equal(t, core.ErrInsufficientBalance, err)

	// balance is about 60 but only 20 of cash is left unlent
	_, err = srv.Withdraw(ctx, nil, position, reserve, decimal.New(50, 0), false)
	assert.Equal(t, core.ErrInsufficientLiquidity, err)

	_, err = srv.Withdraw(ctx, nil, position, reserve, decimal.New(10, 0), false)
	assert.Nil(t, err)
}

func TestBorrowRoundsDebtUp(t *testing.T) {
	ctx := context.Background()
	srv := New(&fakePositionStore{}, &fakeCollateralStore{})

	reserve := newReserve("1000", "0")
	position := &core.Position{ID: 1, UserID: "u", AssetID: "asset"}

	amount := decimal.New(100, 0)
	require.Nil(t, srv.Borrow(ctx, nil, position, reserve, amount))

	// debt scaling rounds up, so the borrower owes at least what was drawn
	debt := lending.DebtBalance(position.ScaledDebt, reserve.BorrowIndex)
	assert.True(t, debt.GreaterThanOrEqual(amount))
	assert.Equal(t, "100", reserve.TotalBorrowed.String())
}

func TestBorrowInsufficientLiquidity(t *testing.T) {
	ctx := context.Background()
	srv := New(&fakePositionStore{}, &fakeCollateralStore{})

	reserve := newReserve("100", "90")
	position := &core.Position{ID: 1, UserID: "u", AssetID: "asset"}

	err := srv.Borrow(ctx, nil, position, reserve, decimal.New(20, 0))
	assert.Equal(t, core.ErrInsufficientLiquidity, err)
}

func TestRepayMaxClearsDebt(t *testing.T) {
	ctx := context.Background()
	srv := New(&fakePositionStore{}, &fakeCollateralStore{})

	reserve := newReserve("1000", "100")
	position := &core.Position{ID: 1, UserID: "u", AssetID: "asset"}
	require.Nil(t, srv.Borrow(ctx, nil, position, reserve, decimal.New(100, 0)))

	debt := lending.DebtBalance(position.ScaledDebt, reserve.BorrowIndex)

	paid, err := srv.Repay(ctx, nil, position, reserve, decimal.Zero, true)
	require.Nil(t, err)

	assert.True(t, paid.Equal(debt))
	assert.True(t, position.ScaledDebt.IsZero())
}

func TestRepayOverpayRejected(t *testing.T) {
	ctx := context.Background()
	srv := New(&fakePositionStore{}, &fakeCollateralStore{})

	reserve := newReserve("1000", "100")
	position := &core.Position{ID: 1, UserID: "u", AssetID: "asset"}
	require.Nil(t, srv.Borrow(ctx, nil, position, reserve, decimal.New(100, 0)))

	_, err := srv.Repay(ctx, nil, position, reserve, decimal.New(500, 0), false)
	assert.Equal(t, core.ErrInsufficientBalance, err)
}

func TestCollateralLedger(t *testing.T) {
	ctx := context.Background()
	srv := New(&fakePositionStore{}, &fakeCollateralStore{})

	collateral := &core.Collateral{UserID: "u", AssetID: "asset"}

	require.Nil(t, srv.DepositCollateral(ctx, nil, collateral, decimal.New(3, 0)))
	assert.Equal(t, "3", collateral.Amount.String())

	err := srv.WithdrawCollateral(ctx, nil, collateral, decimal.New(5, 0))
	assert.Equal(t, core.ErrInsufficientBalance, err)

	require.Nil(t, srv.WithdrawCollateral(ctx, nil, collateral, decimal.New(1, 0)))
	assert.Equal(t, "2", collateral.Amount.String())
}
