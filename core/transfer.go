package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

const (
	// TransferSourceWithdraw withdraw payout
	TransferSourceWithdraw = "withdraw"
	// TransferSourceBorrow borrow payout
	TransferSourceBorrow = "borrow"
	// TransferSourceCollateralReturn collateral withdrawal payout
	TransferSourceCollateralReturn = "collateral_return"
	// TransferSourceSeizePayout seized collateral paid to a liquidator
	TransferSourceSeizePayout = "seize_payout"
	// TransferSourceAbsorb seized collateral moved into protocol custody
	TransferSourceAbsorb = "absorb"
)

// Transfer queued outbound token movement, settled by the cashier worker.
// Created in the same db transaction as the ledger mutation it pays out,
// with a deterministic trace id so retries stay idempotent.
type Transfer struct {
	ID         uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	TraceID    string          `sql:"size:36;unique_index:transfer_trace_idx" json:"trace_id"`
	AssetID    string          `sql:"size:36" json:"asset_id"`
	OpponentID string          `sql:"size:36" json:"opponent_id"`
	Amount     decimal.Decimal `sql:"type:decimal(32,16)" json:"amount"`
	Source     string          `sql:"size:32" json:"source"`
	Handled    bool            `sql:"default:0" json:"handled"`
	Version    int64           `sql:"default:0" json:"version"`
	CreatedAt  time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// ITransferStore transfer store interface
type ITransferStore interface {
	Create(ctx context.Context, tx *db.DB, transfer *Transfer) error
	ListPending(ctx context.Context, limit int) ([]*Transfer, error)
	Update(ctx context.Context, transfer *Transfer) error
}

// ITokenTransferService token movement collaborator, atomic with respect
// to the caller's transaction: a failure aborts the whole operation
type ITokenTransferService interface {
	TransferIn(ctx context.Context, assetID, from string, amount decimal.Decimal) error
	TransferOut(ctx context.Context, assetID, to string, amount decimal.Decimal) error
}
