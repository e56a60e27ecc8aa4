package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"
)

const (
	// LiquidationStrategyDirect seized collateral is paid out to the liquidator
	LiquidationStrategyDirect = "direct"
	// LiquidationStrategyAbsorb seized collateral moves into protocol custody
	// for later disposal
	LiquidationStrategyAbsorb = "absorb"
)

// LiquidationEvent record of one completed liquidation
type LiquidationEvent struct {
	ID                uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	TraceID           string          `sql:"size:36;unique_index:liquidation_trace_idx" json:"trace_id"`
	Liquidator        string          `sql:"size:36" json:"liquidator"`
	UserID            string          `sql:"size:36;index:liquidation_user_idx" json:"user_id"`
	CollateralAssetID string          `sql:"size:36" json:"collateral_asset_id"`
	DebtAssetID       string          `sql:"size:36" json:"debt_asset_id"`
	DebtCovered       decimal.Decimal `sql:"type:decimal(32,16)" json:"debt_covered"`
	CollateralSeized  decimal.Decimal `sql:"type:decimal(32,16)" json:"collateral_seized"`
	Strategy          string          `sql:"size:16" json:"strategy"`
	// 清算后仍有未覆盖的债务
	BadDebt      bool            `sql:"default:0" json:"bad_debt"`
	HealthBefore decimal.Decimal `sql:"type:decimal(32,16)" json:"health_before"`
	HealthAfter  decimal.Decimal `sql:"type:decimal(32,16)" json:"health_after"`
	Context      types.JSONText  `sql:"type:varchar(1024)" json:"context,omitempty"`
	CreatedAt    time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// ILiquidationStore liquidation event store interface
type ILiquidationStore interface {
	Create(ctx context.Context, tx *db.DB, event *LiquidationEvent) error
	FindByTraceID(ctx context.Context, traceID string) (*LiquidationEvent, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*LiquidationEvent, error)
	List(ctx context.Context, limit int) ([]*LiquidationEvent, error)
}

// ISeizureStrategy routes seized collateral once the ledger mutation is done;
// direct payout and protocol absorption share the same preconditions and
// postconditions
type ISeizureStrategy interface {
	Name() string
	Settle(ctx context.Context, tx *db.DB, event *LiquidationEvent) error
}

// ILiquidationService liquidation engine
type ILiquidationService interface {
	// Liquidate validates and applies a liquidation against the snapshot.
	// The snapshot must have been taken at the operation timestamp; all
	// validation failures return before any mutation.
	Liquidate(ctx context.Context, tx *db.DB, liquidator string, snapshot *AccountSnapshot, collateralAssetID, debtAssetID string, debtToCover decimal.Decimal) (*LiquidationEvent, error)
}
