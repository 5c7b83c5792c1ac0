package vault

import (
	"math/big"

	"stakeVault/internal/fixedpoint"
)

// UnitSize is the fixed capital cost of one provisioning unit: 32 native
// tokens at 1e18 scale.
var UnitSize = new(big.Int).Mul(big.NewInt(32), fixedpoint.Scale)

// CapacityLimit is the maximum poolable amount under the current parameters.
func CapacityLimit(p Params) *big.Int {
	return new(big.Int).Mul(UnitSize, new(big.Int).SetUint64(p.UnitsPerLot))
}

// Remaining returns the free capacity before the limit, saturating at zero.
// Claimed shares above the limit cannot happen under correct operation but
// read-only callers get zero rather than a negative value.
func Remaining(claimed *big.Int, p Params) *big.Int {
	remaining := new(big.Int).Sub(CapacityLimit(p), claimed)
	if remaining.Sign() < 0 {
		return big.NewInt(0)
	}
	return remaining
}

// MaxDepositBeforeFee estimates the gross, fee-inclusive deposit that would
// exactly fill the remaining capacity, assuming the flat-percentage fee
// implied by AdminFee / LotUnitCost. Advisory only: the authoritative check
// happens at deposit time against the fee policy's actual net amount.
func MaxDepositBeforeFee(claimed *big.Int, p Params) (*big.Int, error) {
	remaining := Remaining(claimed, p)
	if remaining.Sign() == 0 {
		return big.NewInt(0), nil
	}

	feePercent, err := fixedpoint.DivScaled(p.AdminFee, p.LotUnitCost())
	if err != nil {
		return nil, err
	}
	denom := new(big.Int).Sub(fixedpoint.Scale, feePercent)
	return fixedpoint.DivScaled(remaining, denom)
}
