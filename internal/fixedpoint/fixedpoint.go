package fixedpoint

import (
	"errors"
	"math/big"

	gethmath "github.com/ethereum/go-ethereum/common/math"
)

// Scale is the fixed-point denominator: amounts are integers scaled by 1e18.
var Scale = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

var (
	// ErrOverflow is returned when an intermediate product exceeds 256 bits.
	ErrOverflow = errors.New("arithmetic overflow")
	// ErrDivideByZero is returned on a zero divisor.
	ErrDivideByZero = errors.New("division by zero")
	// ErrNegative is returned for negative operands; all amounts are unsigned.
	ErrNegative = errors.New("negative operand")
)

// MulScaled returns a*b/Scale with floor division. Rounding dust stays with
// the pool, never the user.
func MulScaled(a, b *big.Int) (*big.Int, error) {
	if err := checkOperands(a, b); err != nil {
		return nil, err
	}
	product := new(big.Int).Mul(a, b)
	if product.Cmp(gethmath.MaxBig256) > 0 {
		return nil, ErrOverflow
	}
	return product.Div(product, Scale), nil
}

// DivScaled returns a*Scale/b with floor division.
func DivScaled(a, b *big.Int) (*big.Int, error) {
	if err := checkOperands(a, b); err != nil {
		return nil, err
	}
	if b.Sign() == 0 {
		return nil, ErrDivideByZero
	}
	scaled := new(big.Int).Mul(a, Scale)
	if scaled.Cmp(gethmath.MaxBig256) > 0 {
		return nil, ErrOverflow
	}
	return scaled.Div(scaled, b), nil
}

func checkOperands(a, b *big.Int) error {
	if a == nil || b == nil {
		return errors.New("nil operand")
	}
	if a.Sign() < 0 || b.Sign() < 0 {
		return ErrNegative
	}
	return nil
}
