package core

import (
	"time"

	"github.com/fox-one/pkg/store/db"
)

// Config lendpool config
type Config struct {
	App         App         `json:"app"`
	DB          db.Config   `json:"db"`
	PriceOracle PriceOracle `json:"price_oracle"`
	Wallet      Wallet      `json:"wallet"`
	Cashier     Cashier     `json:"cashier"`
	Admins      []string    `json:"admins"`
}

// IsAdmin check if the user is admin
func (c *Config) IsAdmin(userID string) bool {
	for _, a := range c.Admins {
		if a == userID {
			return true
		}
	}

	return false
}

// App app config
type App struct {
	Location string `json:"location"`
	// custody account receiving absorbed collateral
	TreasuryUserID string `json:"treasury_user_id"`
	// quotes older than this are stale
	MaxQuoteAgeSeconds int64 `json:"max_quote_age_seconds"`
	// below this health factor the full close factor applies
	SevereHealthFactor float64 `json:"severe_health_factor"`
	// residual positions below this value escalate to a full close
	MinPositionValue float64 `json:"min_position_value"`
}

// MaxQuoteAge max quote age as a duration, default 5 minutes
func (a App) MaxQuoteAge() time.Duration {
	if a.MaxQuoteAgeSeconds <= 0 {
		return 5 * time.Minute
	}

	return time.Duration(a.MaxQuoteAgeSeconds) * time.Second
}

// PriceOracle price oracle config
type PriceOracle struct {
	EndPoint string `json:"end_point"`
}

// Wallet token movement gateway config
type Wallet struct {
	EndPoint string `json:"end_point"`
}

// Cashier cashier worker config
type Cashier struct {
	Batch    int   `json:"batch" valid:"required"`
	Capacity int64 `json:"capacity" valid:"required"`
}
