package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// ReserveStatus reserve status
type ReserveStatus int

const (
	// ReserveStatusActive reserve accepts all operations
	ReserveStatusActive ReserveStatus = iota + 1
	// ReserveStatusPaused reserve is listed but frozen
	ReserveStatusPaused
)

// Reserve one listed asset pool
type Reserve struct {
	ID      uint64        `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	AssetID string        `sql:"size:36;unique_index:asset_idx" json:"asset_id"`
	Symbol  string        `sql:"size:20;unique_index:symbol_idx" json:"symbol"`
	Status  ReserveStatus `sql:"default:1" json:"status"`

	TotalSupplied decimal.Decimal `sql:"type:decimal(32,16)" json:"total_supplied"`
	TotalBorrowed decimal.Decimal `sql:"type:decimal(32,16)" json:"total_borrowed"`
	// 协议留存，由 reserve factor 累计
	ProtocolReserves decimal.Decimal `sql:"type:decimal(32,16)" json:"protocol_reserves"`

	SupplyIndex   decimal.Decimal `sql:"type:decimal(32,16);default:1" json:"supply_index"`
	BorrowIndex   decimal.Decimal `sql:"type:decimal(32,16);default:1" json:"borrow_index"`
	LastAccruedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"last_accrued_at"`

	// 平台保留金率 [0, 1)
	ReserveFactor decimal.Decimal `sql:"type:decimal(20,8)" json:"reserve_factor"`
	// 基础利率 per year
	BaseRate decimal.Decimal `sql:"type:decimal(20,8)" json:"base_rate"`
	// slope below the optimal utilization, per year
	Slope1 decimal.Decimal `sql:"type:decimal(20,8)" json:"slope1"`
	// slope past the optimal utilization, per year
	Slope2 decimal.Decimal `sql:"type:decimal(20,8)" json:"slope2"`
	// kink of the two-slope rate curve
	OptimalUtilization decimal.Decimal `sql:"type:decimal(20,8)" json:"optimal_utilization"`

	// 抵押率, 可借贷价值 / 抵押资产价值
	LoanToValue decimal.Decimal `sql:"type:decimal(20,8)" json:"loan_to_value"`
	// 清算阈值, 必须大于 loan_to_value
	LiquidationThreshold decimal.Decimal `sql:"type:decimal(20,8)" json:"liquidation_threshold"`
	// 清算激励因子
	LiquidationBonus decimal.Decimal `sql:"type:decimal(20,8)" json:"liquidation_bonus"`
	// 单次清算最大比例
	CloseFactor decimal.Decimal `sql:"type:decimal(20,8)" json:"close_factor"`

	// zero means uncapped
	SupplyCap decimal.Decimal `sql:"type:decimal(32,16);default:0" json:"supply_cap"`
	BorrowCap decimal.Decimal `sql:"type:decimal(32,16);default:0" json:"borrow_cap"`

	UtilizationRate     decimal.Decimal `sql:"type:decimal(32,16)" json:"utilization_rate"`
	BorrowRatePerSecond decimal.Decimal `sql:"type:decimal(32,16)" json:"borrow_rate_per_second"`
	SupplyRatePerSecond decimal.Decimal `sql:"type:decimal(32,16)" json:"supply_rate_per_second"`

	Version   int64     `sql:"default:0" json:"version"`
	CreatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// IsActive check reserve status
func (r *Reserve) IsActive() bool {
	return r.Status == ReserveStatusActive
}

// AvailableCash liquidity not lent out
func (r *Reserve) AvailableCash() decimal.Decimal {
	return r.TotalSupplied.Sub(r.TotalBorrowed)
}

// IReserveStore reserve store interface
type IReserveStore interface {
	Save(ctx context.Context, tx *db.DB, reserve *Reserve) error
	Find(ctx context.Context, assetID string) (*Reserve, error)
	FindBySymbol(ctx context.Context, symbol string) (*Reserve, error)
	All(ctx context.Context) ([]*Reserve, error)
	AllAsMap(ctx context.Context) (map[string]*Reserve, error)
	Update(ctx context.Context, tx *db.DB, reserve *Reserve) error
}

// IReserveService reserve service interface
type IReserveService interface {
	CurUtilizationRate(ctx context.Context, reserve *Reserve) decimal.Decimal
	CurBorrowRate(ctx context.Context, reserve *Reserve) decimal.Decimal
	CurSupplyRate(ctx context.Context, reserve *Reserve) decimal.Decimal
	AccrueInterest(ctx context.Context, tx *db.DB, reserve *Reserve, now time.Time) error
}
