package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Position per-user per-asset scaled balances
//
// effective supply = scaled_supply * reserve.supply_index
// effective debt   = scaled_debt * reserve.borrow_index
type Position struct {
	ID           uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	UserID       string          `sql:"size:36;unique_index:position_idx" json:"user_id"`
	AssetID      string          `sql:"size:36;unique_index:position_idx" json:"asset_id"`
	ScaledSupply decimal.Decimal `sql:"type:decimal(32,16)" json:"scaled_supply"`
	ScaledDebt   decimal.Decimal `sql:"type:decimal(32,16)" json:"scaled_debt"`
	Version      int64           `sql:"default:0" json:"version"`
	CreatedAt    time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Collateral posted collateral, valuation only, never accrues yield
type Collateral struct {
	ID        uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	UserID    string          `sql:"size:36;unique_index:collateral_idx" json:"user_id"`
	AssetID   string          `sql:"size:36;unique_index:collateral_idx" json:"asset_id"`
	Amount    decimal.Decimal `sql:"type:decimal(32,16)" json:"amount"`
	Version   int64           `sql:"default:0" json:"version"`
	CreatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// IPositionStore position store interface
//
// Find returns a zero position (ID == 0) when the row does not exist yet;
// positions are created lazily and never deleted.
type IPositionStore interface {
	Find(ctx context.Context, userID, assetID string) (*Position, error)
	FindByUser(ctx context.Context, userID string) ([]*Position, error)
	Save(ctx context.Context, tx *db.DB, position *Position) error
	Update(ctx context.Context, tx *db.DB, position *Position) error
	Borrowers(ctx context.Context) ([]string, error)
	CountOfSuppliers(ctx context.Context, assetID string) (int64, error)
	CountOfBorrowers(ctx context.Context, assetID string) (int64, error)
}

// ICollateralStore collateral store interface
type ICollateralStore interface {
	Find(ctx context.Context, userID, assetID string) (*Collateral, error)
	FindByUser(ctx context.Context, userID string) ([]*Collateral, error)
	Save(ctx context.Context, tx *db.DB, collateral *Collateral) error
	Update(ctx context.Context, tx *db.DB, collateral *Collateral) error
}

// IPositionService position ledger operations
//
// Every method mutates the passed entities and persists them within tx.
// Callers are responsible for accruing interest on the reserve first and
// for any health gating; the ledger only enforces balance arithmetic.
type IPositionService interface {
	Supply(ctx context.Context, tx *db.DB, position *Position, reserve *Reserve, amount decimal.Decimal) error
	Withdraw(ctx context.Context, tx *db.DB, position *Position, reserve *Reserve, amount decimal.Decimal, max bool) (decimal.Decimal, error)
	Borrow(ctx context.Context, tx *db.DB, position *Position, reserve *Reserve, amount decimal.Decimal) error
	Repay(ctx context.Context, tx *db.DB, position *Position, reserve *Reserve, amount decimal.Decimal, max bool) (decimal.Decimal, error)
	DepositCollateral(ctx context.Context, tx *db.DB, collateral *Collateral, amount decimal.Decimal) error
	WithdrawCollateral(ctx context.Context, tx *db.DB, collateral *Collateral, amount decimal.Decimal) error
}
