package token

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"stakeVault/internal/model"
)

// MemoryToken is an in-memory share token ledger.
type MemoryToken struct {
	mu       sync.Mutex
	balances map[common.Address]*big.Int
	supply   *big.Int
}

func NewMemoryToken() *MemoryToken {
	return &MemoryToken{
		balances: make(map[common.Address]*big.Int),
		supply:   big.NewInt(0),
	}
}

func (t *MemoryToken) Mint(to common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return fmt.Errorf("mint: invalid amount")
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.credit(to, amount)
	t.supply.Add(t.supply, amount)
	return nil
}

func (t *MemoryToken) Burn(from common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return fmt.Errorf("burn: invalid amount")
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	balance := t.balance(from)
	if balance.Cmp(amount) < 0 {
		return fmt.Errorf("burn %s: insufficient share balance", from.Hex())
	}
	balance.Sub(balance, amount)
	t.supply.Sub(t.supply, amount)
	return nil
}

func (t *MemoryToken) Transfer(from, to common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return fmt.Errorf("transfer: invalid amount")
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	balance := t.balance(from)
	if balance.Cmp(amount) < 0 {
		return fmt.Errorf("transfer %s: insufficient share balance", from.Hex())
	}
	balance.Sub(balance, amount)
	t.credit(to, amount)
	return nil
}

func (t *MemoryToken) BalanceOf(owner common.Address) *big.Int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return new(big.Int).Set(t.balance(owner))
}

func (t *MemoryToken) TotalSupply() *big.Int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return new(big.Int).Set(t.supply)
}

// Snapshot exports the ledger for persistence.
func (t *MemoryToken) Snapshot() model.TokenSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	snap := model.TokenSnapshot{
		Supply:   t.supply.String(),
		Balances: make(map[string]string, len(t.balances)),
	}
	for addr, balance := range t.balances {
		if balance.Sign() != 0 {
			snap.Balances[addr.Hex()] = balance.String()
		}
	}
	return snap
}

// Restore replaces the ledger from a persisted snapshot.
func (t *MemoryToken) Restore(snap model.TokenSnapshot) error {
	supply, err := parseAmount(snap.Supply)
	if err != nil {
		return fmt.Errorf("restore supply: %w", err)
	}
	balances := make(map[common.Address]*big.Int, len(snap.Balances))
	for addr, value := range snap.Balances {
		balance, err := parseAmount(value)
		if err != nil {
			return fmt.Errorf("restore balance %s: %w", addr, err)
		}
		balances[common.HexToAddress(addr)] = balance
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.supply = supply
	t.balances = balances
	return nil
}

func (t *MemoryToken) balance(owner common.Address) *big.Int {
	balance, ok := t.balances[owner]
	if !ok {
		balance = big.NewInt(0)
		t.balances[owner] = balance
	}
	return balance
}

func (t *MemoryToken) credit(to common.Address, amount *big.Int) {
	t.balance(to).Add(t.balance(to), amount)
}

func parseAmount(value string) (*big.Int, error) {
	if value == "" {
		return big.NewInt(0), nil
	}
	parsed, ok := new(big.Int).SetString(value, 10)
	if !ok || parsed.Sign() < 0 {
		return nil, fmt.Errorf("invalid amount: %s", value)
	}
	return parsed, nil
}
