package vault

import "github.com/ethereum/go-ethereum/common"

// Guard is the access-control collaborator: it decides whether a caller may
// execute an operator-gated operation. Implementations may also report a
// paused state.
type Guard interface {
	Authorize(caller common.Address) error
}

// StaticGuard authorizes a single fixed operator and supports pausing.
type StaticGuard struct {
	Operator common.Address
	Paused   bool
}

func (g *StaticGuard) Authorize(caller common.Address) error {
	if g.Paused {
		return ErrPaused
	}
	if caller != g.Operator {
		return ErrUnauthorized
	}
	return nil
}
