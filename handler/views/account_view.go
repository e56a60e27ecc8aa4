package views

import (
	"lendpool/core"

	"github.com/shopspring/decimal"
)

// Account account view
type Account struct {
	UserID          string           `json:"user_id"`
	HealthFactor    decimal.Decimal  `json:"health_factor"`
	CollateralValue decimal.Decimal  `json:"collateral_value"`
	DebtValue       decimal.Decimal  `json:"debt_value"`
	Positions       []*Position      `json:"positions"`
	Collaterals     []*core.Collateral `json:"collaterals"`
}

// Position position view with effective balances resolved
type Position struct {
	core.Position
	SupplyBalance decimal.Decimal `json:"supply_balance"`
	DebtBalance   decimal.Decimal `json:"debt_balance"`
}
