package token

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"stakeVault/internal/model"
)

// CompoundingVault is an in-memory auto-compounding wrapper over the share
// token. Wrapped shares are issued pro-rata against held assets, so the
// exchange rate rises as rewards are credited.
type CompoundingVault struct {
	token    ShareToken
	addr     common.Address
	operator common.Address

	mu          sync.Mutex
	totalShares *big.Int
	totalAssets *big.Int
	shares      map[common.Address]*big.Int
}

// NewCompoundingVault builds a vault holding assets at addr, pulling
// deposited assets from operator (the accounting engine's own address).
func NewCompoundingVault(tok ShareToken, addr, operator common.Address) *CompoundingVault {
	return &CompoundingVault{
		token:       tok,
		addr:        addr,
		operator:    operator,
		totalShares: big.NewInt(0),
		totalAssets: big.NewInt(0),
		shares:      make(map[common.Address]*big.Int),
	}
}

// Deposit pulls amount of raw shares from the operator and issues wrapped
// shares to onBehalfOf.
func (v *CompoundingVault) Deposit(amount *big.Int, onBehalfOf common.Address) (*big.Int, error) {
	if amount == nil || amount.Sign() <= 0 {
		return nil, fmt.Errorf("deposit: invalid amount")
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	issued := new(big.Int).Set(amount)
	if v.totalShares.Sign() > 0 {
		// shares = amount * totalShares / totalAssets, floor
		issued.Mul(amount, v.totalShares)
		issued.Div(issued, v.totalAssets)
	}
	if issued.Sign() == 0 {
		return nil, fmt.Errorf("deposit: amount too small for current exchange rate")
	}

	if err := v.token.Transfer(v.operator, v.addr, amount); err != nil {
		return nil, fmt.Errorf("pull assets: %w", err)
	}

	v.holder(onBehalfOf).Add(v.holder(onBehalfOf), issued)
	v.totalShares.Add(v.totalShares, issued)
	v.totalAssets.Add(v.totalAssets, amount)
	return issued, nil
}

// Redeem burns amount of owner's wrapped shares and sends the matching
// assets to receiver.
func (v *CompoundingVault) Redeem(amount *big.Int, receiver, owner common.Address) (*big.Int, error) {
	if amount == nil || amount.Sign() <= 0 {
		return nil, fmt.Errorf("redeem: invalid amount")
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	held := v.holder(owner)
	if held.Cmp(amount) < 0 {
		return nil, fmt.Errorf("redeem %s: insufficient wrapped balance", owner.Hex())
	}

	assets := new(big.Int).Mul(amount, v.totalAssets)
	assets.Div(assets, v.totalShares)
	if assets.Sign() == 0 {
		return nil, fmt.Errorf("redeem: amount too small for current exchange rate")
	}

	if err := v.token.Transfer(v.addr, receiver, assets); err != nil {
		return nil, fmt.Errorf("release assets: %w", err)
	}

	held.Sub(held, amount)
	v.totalShares.Sub(v.totalShares, amount)
	v.totalAssets.Sub(v.totalAssets, assets)
	return assets, nil
}

// Accrue transfers reward assets from a funding address into the vault
// without issuing shares, raising the exchange rate for all holders.
func (v *CompoundingVault) Accrue(from common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return fmt.Errorf("accrue: invalid amount")
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.totalShares.Sign() == 0 {
		return fmt.Errorf("accrue: vault has no shares outstanding")
	}
	if err := v.token.Transfer(from, v.addr, amount); err != nil {
		return fmt.Errorf("pull rewards: %w", err)
	}
	v.totalAssets.Add(v.totalAssets, amount)
	return nil
}

// BalanceOf returns the wrapped share balance of owner.
func (v *CompoundingVault) BalanceOf(owner common.Address) *big.Int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return new(big.Int).Set(v.holder(owner))
}

// Snapshot exports the vault state for persistence.
func (v *CompoundingVault) Snapshot() model.WrappedSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	snap := model.WrappedSnapshot{
		TotalShares: v.totalShares.String(),
		TotalAssets: v.totalAssets.String(),
		Shares:      make(map[string]string, len(v.shares)),
	}
	for addr, held := range v.shares {
		if held.Sign() != 0 {
			snap.Shares[addr.Hex()] = held.String()
		}
	}
	return snap
}

// Restore replaces the vault state from a persisted snapshot.
func (v *CompoundingVault) Restore(snap model.WrappedSnapshot) error {
	totalShares, err := parseAmount(snap.TotalShares)
	if err != nil {
		return fmt.Errorf("restore total shares: %w", err)
	}
	totalAssets, err := parseAmount(snap.TotalAssets)
	if err != nil {
		return fmt.Errorf("restore total assets: %w", err)
	}
	shares := make(map[common.Address]*big.Int, len(snap.Shares))
	for addr, value := range snap.Shares {
		held, err := parseAmount(value)
		if err != nil {
			return fmt.Errorf("restore shares %s: %w", addr, err)
		}
		shares[common.HexToAddress(addr)] = held
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.totalShares = totalShares
	v.totalAssets = totalAssets
	v.shares = shares
	return nil
}

func (v *CompoundingVault) holder(owner common.Address) *big.Int {
	held, ok := v.shares[owner]
	if !ok {
		held = big.NewInt(0)
		v.shares[owner] = held
	}
	return held
}
