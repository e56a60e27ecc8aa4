package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// PriceQuote latest quote for an asset, written by the price sync worker
//
// the engine never fetches prices itself; it only consumes quotes and
// rejects stale ones
type PriceQuote struct {
	ID        int64           `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	AssetID   string          `sql:"size:36;unique_index:price_asset_idx" json:"asset_id"`
	Price     decimal.Decimal `sql:"type:decimal(32,16)" json:"price"`
	QuotedAt  time.Time       `json:"quoted_at"`
	Stale     bool            `sql:"default:0" json:"stale"`
	Version   int64           `sql:"default:0" json:"version"`
	CreatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// PriceTicker price ticker pulled from the oracle endpoint
type PriceTicker struct {
	Provider string          `json:"provider,omitempty"`
	AssetID  string          `json:"asset_id,omitempty"`
	Symbol   string          `json:"symbol,omitempty"`
	Price    decimal.Decimal `json:"price,omitempty"`
	UpdatedAt time.Time      `json:"updated_at,omitempty"`
}

// IPriceStore price store interface
//
// Find returns a zero quote (ID == 0) when no quote has been written yet
type IPriceStore interface {
	Create(ctx context.Context, tx *db.DB, quote *PriceQuote) error
	Update(ctx context.Context, tx *db.DB, quote *PriceQuote) error
	Find(ctx context.Context, assetID string) (*PriceQuote, error)
	All(ctx context.Context) ([]*PriceQuote, error)
}

// IPriceFeedService price feed collaborator
//
// GetQuote fails with ErrStalePrice when the quote is missing, flagged
// stale or older than the configured max age; a missing quote and a stale
// one are treated identically.
type IPriceFeedService interface {
	GetQuote(ctx context.Context, assetID string, now time.Time) (*PriceQuote, error)
	PullPriceTicker(ctx context.Context, assetID string, t time.Time) (*PriceTicker, error)
	PullAllPriceTickers(ctx context.Context, t time.Time) ([]*PriceTicker, error)
}
