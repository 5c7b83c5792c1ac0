package vault

import (
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// Params is the operator-controlled parameter set. Mutating operations work
// on a value snapshot taken at entry, so a parameter change can never land
// in the middle of an in-flight operation.
type Params struct {
	// UnitsPerLot is how many provisioning units one batch may create.
	// Together with UnitSize it defines the pool capacity limit.
	UnitsPerLot uint64
	// AdminFee is the flat per-unit fee embedded in the lot unit cost.
	AdminFee *big.Int
	// Buffer is the tolerance above the capacity limit that claimed shares
	// may occupy, absorbing rounding from variable deposit sizes. Capital
	// inside the buffer is only releasable by burning shares.
	Buffer *big.Int
	// RefundFeesOnWithdraw controls whether a withdrawal's fee is refunded
	// from the accrued total or charged again on exit.
	RefundFeesOnWithdraw bool
	// WithdrawalCredential is the destination identifier handed to the
	// provisioning sink.
	WithdrawalCredential common.Hash
}

// LotUnitCost is the gross capital cost of one provisioning unit: the fixed
// unit stake plus the current admin fee.
func (p Params) LotUnitCost() *big.Int {
	return new(big.Int).Add(UnitSize, p.AdminFee)
}

func (p Params) copy() Params {
	out := p
	out.AdminFee = new(big.Int).Set(p.AdminFee)
	out.Buffer = new(big.Int).Set(p.Buffer)
	return out
}

// ParamStore holds the mutable parameters behind an operator-only write gate.
// Changes take effect on the next operation's snapshot.
type ParamStore struct {
	guard Guard

	mu sync.RWMutex
	p  Params
}

// NewParamStore validates the initial parameter set and wraps it in a store.
func NewParamStore(guard Guard, initial Params) (*ParamStore, error) {
	if initial.UnitsPerLot == 0 {
		return nil, ErrInvalidParameter
	}
	if initial.AdminFee == nil || initial.AdminFee.Sign() < 0 {
		return nil, ErrInvalidParameter
	}
	if initial.Buffer == nil || initial.Buffer.Sign() < 0 {
		return nil, ErrInvalidParameter
	}
	return &ParamStore{guard: guard, p: initial.copy()}, nil
}

// Snapshot returns a value copy of the current parameters.
func (s *ParamStore) Snapshot() Params {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.p.copy()
}

// SetUnitsPerLot changes the lot size. Zero is rejected: it would make the
// capacity limit zero and permanently block deposits.
func (s *ParamStore) SetUnitsPerLot(caller common.Address, units uint64) error {
	if err := s.guard.Authorize(caller); err != nil {
		return err
	}
	if units == 0 {
		return ErrInvalidParameter
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.p.UnitsPerLot = units
	return nil
}

// SetAdminFee changes the flat per-unit fee.
func (s *ParamStore) SetAdminFee(caller common.Address, fee *big.Int) error {
	if err := s.guard.Authorize(caller); err != nil {
		return err
	}
	if fee == nil || fee.Sign() < 0 {
		return ErrInvalidParameter
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.p.AdminFee = new(big.Int).Set(fee)
	return nil
}

// SetBuffer changes the capacity tolerance.
func (s *ParamStore) SetBuffer(caller common.Address, buffer *big.Int) error {
	if err := s.guard.Authorize(caller); err != nil {
		return err
	}
	if buffer == nil || buffer.Sign() < 0 {
		return ErrInvalidParameter
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.p.Buffer = new(big.Int).Set(buffer)
	return nil
}

// SetRefundFeesOnWithdraw flips the withdrawal fee refund switch.
func (s *ParamStore) SetRefundFeesOnWithdraw(caller common.Address, refund bool) error {
	if err := s.guard.Authorize(caller); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.p.RefundFeesOnWithdraw = refund
	return nil
}

// SetWithdrawalCredential changes the provisioning destination identifier.
func (s *ParamStore) SetWithdrawalCredential(caller common.Address, cred common.Hash) error {
	if err := s.guard.Authorize(caller); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.p.WithdrawalCredential = cred
	return nil
}

// Restore replaces the parameter set from a persisted snapshot. Used when
// loading state at startup, not an operator path.
func (s *ParamStore) Restore(p Params) error {
	if p.UnitsPerLot == 0 || p.AdminFee == nil || p.AdminFee.Sign() < 0 ||
		p.Buffer == nil || p.Buffer.Sign() < 0 {
		return ErrInvalidParameter
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.p = p.copy()
	return nil
}
