package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// IPoolService top-level operation dispatcher
//
// Every operation runs to completion inside one db transaction: accrue
// touched reserves, check preconditions, mutate the ledger, verify health,
// queue payouts. Any failure discards the whole operation.
type IPoolService interface {
	Supply(ctx context.Context, userID, assetID string, amount decimal.Decimal) (*Position, error)
	// Withdraw with max resolves the amount to the exact effective balance
	Withdraw(ctx context.Context, userID, assetID string, amount decimal.Decimal, max bool) (*Position, error)
	DepositCollateral(ctx context.Context, userID, assetID string, amount decimal.Decimal) (*Collateral, error)
	WithdrawCollateral(ctx context.Context, userID, assetID string, amount decimal.Decimal) (*Collateral, error)
	Borrow(ctx context.Context, userID, assetID string, amount decimal.Decimal) (*Position, error)
	// Repay with max resolves the amount to the exact effective debt
	Repay(ctx context.Context, userID, assetID string, amount decimal.Decimal, max bool) (*Position, error)
	Liquidate(ctx context.Context, liquidator, userID, collateralAssetID, debtAssetID string, debtToCover decimal.Decimal) (*LiquidationEvent, error)
}
