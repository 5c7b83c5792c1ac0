// Package feepolicy defines the pluggable fee calculation capability the
// accounting engine consults on every deposit and withdrawal.
package feepolicy

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Policy splits a gross amount into a net amount and a fee. The engine
// trusts the returned net amount directly; net + fee == gross is not assumed.
type Policy interface {
	ProcessDeposit(amount *big.Int, caller common.Address) (net, fee *big.Int, err error)
	ProcessWithdraw(amount *big.Int, caller common.Address) (net, fee *big.Int, err error)
}

type disabled struct{}

func (disabled) ProcessDeposit(amount *big.Int, _ common.Address) (*big.Int, *big.Int, error) {
	return new(big.Int).Set(amount), big.NewInt(0), nil
}

func (disabled) ProcessWithdraw(amount *big.Int, _ common.Address) (*big.Int, *big.Int, error) {
	return new(big.Int).Set(amount), big.NewInt(0), nil
}

// Disabled returns the identity pass-through policy: full amount, zero fee.
// This is the explicit "no fee policy configured" variant.
func Disabled() Policy {
	return disabled{}
}
