package vault

import "math/big"

// PoolState is the singleton accounting state of the vault.
//
// ClaimedShares and AccruedFee are accounting totals; Balance is custody,
// the native capital the pool actually holds. The two diverge once capital
// leaves for external provisioning: provisioned capital stays claimed by
// shares but is no longer in the balance.
type PoolState struct {
	ClaimedShares   *big.Int
	AccruedFee      *big.Int
	Balance         *big.Int
	LotsProvisioned uint64
}

// NewPoolState returns a zeroed pool.
func NewPoolState() PoolState {
	return PoolState{
		ClaimedShares: big.NewInt(0),
		AccruedFee:    big.NewInt(0),
		Balance:       big.NewInt(0),
	}
}

// Copy returns a deep copy.
func (p PoolState) Copy() PoolState {
	return PoolState{
		ClaimedShares:   new(big.Int).Set(p.ClaimedShares),
		AccruedFee:      new(big.Int).Set(p.AccruedFee),
		Balance:         new(big.Int).Set(p.Balance),
		LotsProvisioned: p.LotsProvisioned,
	}
}

func (p PoolState) valid() bool {
	return p.ClaimedShares != nil && p.ClaimedShares.Sign() >= 0 &&
		p.AccruedFee != nil && p.AccruedFee.Sign() >= 0 &&
		p.Balance != nil && p.Balance.Sign() >= 0
}
