package token

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

var (
	alice = common.HexToAddress("0xa11ce00000000000000000000000000000000001")
	bob   = common.HexToAddress("0xb0b0000000000000000000000000000000000002")
	pool  = common.HexToAddress("0x9001000000000000000000000000000000000003")
	wrap  = common.HexToAddress("0x9002000000000000000000000000000000000004")
)

func TestMemoryTokenMintBurn(t *testing.T) {
	tok := NewMemoryToken()

	if err := tok.Mint(alice, big.NewInt(100)); err != nil {
		t.Fatalf("mint: %v", err)
	}
	if tok.BalanceOf(alice).Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("balance mismatch: %s", tok.BalanceOf(alice))
	}
	if tok.TotalSupply().Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("supply mismatch: %s", tok.TotalSupply())
	}

	if err := tok.Burn(alice, big.NewInt(40)); err != nil {
		t.Fatalf("burn: %v", err)
	}
	if tok.BalanceOf(alice).Cmp(big.NewInt(60)) != 0 {
		t.Fatalf("balance mismatch after burn: %s", tok.BalanceOf(alice))
	}

	if err := tok.Burn(alice, big.NewInt(61)); err == nil {
		t.Fatalf("expected burn beyond balance to fail")
	}
	if tok.TotalSupply().Cmp(big.NewInt(60)) != 0 {
		t.Fatalf("failed burn must not change supply: %s", tok.TotalSupply())
	}
}

func TestMemoryTokenSnapshotRoundTrip(t *testing.T) {
	tok := NewMemoryToken()
	if err := tok.Mint(alice, big.NewInt(7)); err != nil {
		t.Fatalf("mint: %v", err)
	}
	if err := tok.Mint(bob, big.NewInt(3)); err != nil {
		t.Fatalf("mint: %v", err)
	}

	restored := NewMemoryToken()
	if err := restored.Restore(tok.Snapshot()); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.TotalSupply().Cmp(big.NewInt(10)) != 0 {
		t.Fatalf("supply mismatch: %s", restored.TotalSupply())
	}
	if restored.BalanceOf(alice).Cmp(big.NewInt(7)) != 0 {
		t.Fatalf("balance mismatch: %s", restored.BalanceOf(alice))
	}
}

func TestCompoundingVaultExchangeRate(t *testing.T) {
	tok := NewMemoryToken()
	vault := NewCompoundingVault(tok, wrap, pool)

	// pool holds raw shares to wrap
	if err := tok.Mint(pool, big.NewInt(300)); err != nil {
		t.Fatalf("mint: %v", err)
	}

	issued, err := vault.Deposit(big.NewInt(100), alice)
	if err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if issued.Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("first deposit must be 1:1, got %s", issued)
	}

	// 100 reward assets double the rate: 100 shares now back 200 assets
	if err := vault.Accrue(pool, big.NewInt(100)); err != nil {
		t.Fatalf("accrue: %v", err)
	}

	issued, err = vault.Deposit(big.NewInt(100), bob)
	if err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if issued.Cmp(big.NewInt(50)) != 0 {
		t.Fatalf("expected 50 wrapped shares at 2x rate, got %s", issued)
	}

	assets, err := vault.Redeem(big.NewInt(100), alice, alice)
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if assets.Cmp(big.NewInt(200)) != 0 {
		t.Fatalf("expected 200 assets back, got %s", assets)
	}
	if tok.BalanceOf(alice).Cmp(big.NewInt(200)) != 0 {
		t.Fatalf("alice balance mismatch: %s", tok.BalanceOf(alice))
	}
}

func TestCompoundingVaultRedeemChecks(t *testing.T) {
	tok := NewMemoryToken()
	vault := NewCompoundingVault(tok, wrap, pool)

	if _, err := vault.Redeem(big.NewInt(1), alice, alice); err == nil {
		t.Fatalf("expected redeem with no balance to fail")
	}
	if _, err := vault.Deposit(big.NewInt(0), alice); err == nil {
		t.Fatalf("expected zero deposit to fail")
	}
}
