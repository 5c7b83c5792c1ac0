package vault

import "errors"

var (
	// ErrCapacityExceeded means a deposit would push claimed shares past
	// buffer + capacity limit. Recoverable: retry smaller or wait.
	ErrCapacityExceeded = errors.New("deposit exceeds pool capacity")

	// ErrInsufficientBalance means the pool cannot cover a withdrawal,
	// provisioning batch, or fee withdrawal without touching obligations.
	ErrInsufficientBalance = errors.New("insufficient pool balance")

	// ErrInvariant means claimed shares or accrued fees would go negative.
	// That can only happen if shares were issued outside this engine; fatal.
	ErrInvariant = errors.New("pool accounting invariant violated")

	// ErrInvalidParameter rejects operator parameter values that would break
	// an invariant, e.g. a zero lot count.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInvalidAmount rejects non-positive user amounts.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrReentrancy rejects a nested call into a mutating entry point while
	// another mutating operation is still executing.
	ErrReentrancy = errors.New("reentrant call rejected")

	// ErrUnauthorized and ErrPaused are surfaced unchanged from the access
	// control collaborator.
	ErrUnauthorized = errors.New("caller is not authorized")
	ErrPaused       = errors.New("operations are paused")
)
