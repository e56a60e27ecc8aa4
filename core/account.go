package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// MaxHealthFactor sentinel health factor for accounts without debt,
// always safe
var MaxHealthFactor = decimal.New(1, 9)

// AccountSnapshot consistent view of one user's positions, collaterals,
// the reserves they touch and the price quotes required to value them.
// Taken once per operation and passed through, so the health check and
// the mutation it guards observe the same state.
type AccountSnapshot struct {
	UserID      string
	Time        time.Time
	Positions   []*Position
	Collaterals []*Collateral
	Reserves    map[string]*Reserve
	Quotes      map[string]*PriceQuote
}

// Position find position by asset, nil if absent
func (s *AccountSnapshot) Position(assetID string) *Position {
	for _, p := range s.Positions {
		if p.AssetID == assetID {
			return p
		}
	}
	return nil
}

// Collateral find collateral by asset, nil if absent
func (s *AccountSnapshot) Collateral(assetID string) *Collateral {
	for _, c := range s.Collaterals {
		if c.AssetID == assetID {
			return c
		}
	}
	return nil
}

// Account persisted result of the scanner's health sweep
type Account struct {
	ID              uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	UserID          string          `sql:"size:36;unique_index:account_user_idx" json:"user_id"`
	HealthFactor    decimal.Decimal `sql:"type:decimal(32,16)" json:"health_factor"`
	CollateralValue decimal.Decimal `sql:"type:decimal(32,16)" json:"collateral_value"`
	DebtValue       decimal.Decimal `sql:"type:decimal(32,16)" json:"debt_value"`
	Version         int64           `sql:"default:0" json:"version"`
	CreatedAt       time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// IAccountStore account store interface
type IAccountStore interface {
	Save(ctx context.Context, account *Account) error
	Find(ctx context.Context, userID string) (*Account, error)
	ListUnsafe(ctx context.Context) ([]*Account, error)
}

// HealthDelta hypothetical change applied on top of a snapshot before
// evaluation, used to gate borrow and collateral withdrawal before any
// mutation happens
type HealthDelta struct {
	BorrowAssetID            string
	BorrowAmount             decimal.Decimal
	WithdrawCollateralAsset  string
	WithdrawCollateralAmount decimal.Decimal
}

// IHealthService health evaluator
type IHealthService interface {
	// Snapshot loads the user's account state; reserves already accrued by
	// the caller take precedence over stored rows. Fails closed with
	// ErrStalePrice when any required quote is unavailable.
	Snapshot(ctx context.Context, userID string, now time.Time, reserves map[string]*Reserve) (*AccountSnapshot, error)
	HealthFactor(snapshot *AccountSnapshot) decimal.Decimal
	HealthFactorAfter(snapshot *AccountSnapshot, delta HealthDelta) decimal.Decimal
	CollateralValue(snapshot *AccountSnapshot) decimal.Decimal
	DebtValue(snapshot *AccountSnapshot) decimal.Decimal
}
