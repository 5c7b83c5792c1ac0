package feepolicy

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Flat charges a fixed fee per unit. On deposit the gross amount covers n
// units at UnitCost each (fee included) and pays n*Fee; on withdrawal the
// amount is already net of deposit fees, so units are counted against the
// net unit size UnitCost-Fee.
type Flat struct {
	// UnitCost is the gross per-unit cost, fee included.
	UnitCost *big.Int
	// Fee is the flat fee per unit.
	Fee *big.Int
}

// NewFlat validates and builds a flat per-unit policy.
func NewFlat(unitCost, fee *big.Int) (*Flat, error) {
	if unitCost == nil || unitCost.Sign() <= 0 {
		return nil, errors.New("unit cost must be positive")
	}
	if fee == nil || fee.Sign() < 0 {
		return nil, errors.New("fee must be non-negative")
	}
	if fee.Cmp(unitCost) >= 0 {
		return nil, errors.New("fee must be less than unit cost")
	}
	return &Flat{
		UnitCost: new(big.Int).Set(unitCost),
		Fee:      new(big.Int).Set(fee),
	}, nil
}

func (f *Flat) split(amount, perUnit *big.Int) (*big.Int, *big.Int) {
	units := new(big.Int).Div(amount, perUnit)
	fee := new(big.Int).Mul(units, f.Fee)
	net := new(big.Int).Sub(amount, fee)
	return net, fee
}

func (f *Flat) ProcessDeposit(amount *big.Int, _ common.Address) (*big.Int, *big.Int, error) {
	net, fee := f.split(amount, f.UnitCost)
	return net, fee, nil
}

func (f *Flat) ProcessWithdraw(amount *big.Int, _ common.Address) (*big.Int, *big.Int, error) {
	netUnit := new(big.Int).Sub(f.UnitCost, f.Fee)
	net, fee := f.split(amount, netUnit)
	return net, fee, nil
}
