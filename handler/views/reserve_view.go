package views

import (
	"lendpool/core"

	"github.com/shopspring/decimal"
)

// Reserve reserve view
type Reserve struct {
	core.Reserve
	SupplyAPY decimal.Decimal `json:"supply_apy"`
	BorrowAPY decimal.Decimal `json:"borrow_apy"`
	Suppliers int64           `json:"suppliers"`
	Borrowers int64           `json:"borrowers"`
}
