// Package token holds the share token and wrapped vault collaborators of
// the accounting engine. The engine is the sole minter and burner of the
// share token; everything here is interface-first so an on-chain token can
// replace the in-memory mirrors.
package token

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ShareToken is the mintable/burnable accounting unit nominally pegged 1:1
// to net pooled capital.
type ShareToken interface {
	Mint(to common.Address, amount *big.Int) error
	Burn(from common.Address, amount *big.Int) error
	Transfer(from, to common.Address, amount *big.Int) error
	BalanceOf(owner common.Address) *big.Int
	TotalSupply() *big.Int
}

// WrappedVault is the auto-compounding wrapper: deposit raw shares, receive
// wrapped shares that appreciate as rewards accrue.
type WrappedVault interface {
	Deposit(amount *big.Int, onBehalfOf common.Address) (*big.Int, error)
	Redeem(amount *big.Int, receiver, owner common.Address) (*big.Int, error)
}
