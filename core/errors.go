package core

import "strconv"

// ErrorCode int
type ErrorCode int

const (
	// ErrUnknown unknown
	ErrUnknown ErrorCode = 100000
	// ErrOperationForbidden operation forbidden
	ErrOperationForbidden ErrorCode = 100001

	// ErrReserveNotFound no reserve listed for the asset
	ErrReserveNotFound ErrorCode = 100100
	// ErrInvalidAmount zero or negative amount
	ErrInvalidAmount ErrorCode = 100101
	// ErrAssetNotActive reserve exists but is not accepting operations
	ErrAssetNotActive ErrorCode = 100102
	// ErrCapExceeded supply or borrow ceiling would be exceeded
	ErrCapExceeded ErrorCode = 100103
	// ErrInsufficientBalance withdraw/repay exceeds the effective balance
	ErrInsufficientBalance ErrorCode = 100104
	// ErrInsufficientLiquidity pool cash cannot cover the requested amount
	ErrInsufficientLiquidity ErrorCode = 100105
	// ErrHealthFactorViolation operation would leave the health factor below 1
	ErrHealthFactorViolation ErrorCode = 100106
	// ErrPositionHealthy liquidation attempted on a position with health factor >= 1
	ErrPositionHealthy ErrorCode = 100107
	// ErrCloseFactorExceeded debt to cover above the close-factor limit
	ErrCloseFactorExceeded ErrorCode = 100108
	// ErrDustResidualRejected residual position would fall below the dust minimum
	ErrDustResidualRejected ErrorCode = 100109
	// ErrStalePrice price quote missing or stale
	ErrStalePrice ErrorCode = 100110
	// ErrOverflow fixed-point bound exceeded
	ErrOverflow ErrorCode = 100111
	// ErrInvariantViolation a postcondition that must hold by construction failed
	ErrInvariantViolation ErrorCode = 100112
	// ErrTransferFailed token movement collaborator reported failure
	ErrTransferFailed ErrorCode = 100113
)

func (e ErrorCode) String() string {
	return strconv.Itoa(int(e))
}

func (e ErrorCode) Error() string {
	return e.String()
}
