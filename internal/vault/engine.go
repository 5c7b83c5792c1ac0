package vault

import (
	"errors"
	"fmt"
	"math/big"
	"sync"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"stakeVault/internal/feepolicy"
	"stakeVault/internal/token"
)

// Engine is the deposit/withdrawal accounting state machine of the pooled
// staking vault. It owns the pool totals, consults the fee policy and the
// parameter store on every operation, and is the sole mint/burn authority
// over the share token.
//
// Every mutating entry point snapshots the parameters once at entry, holds
// an exclusive non-blocking guard for its whole duration (nested calls fail
// with ErrReentrancy), and commits all-or-nothing: a failed precondition
// leaves the pool untouched.
type Engine struct {
	self    common.Address
	guard   Guard
	params  *ParamStore
	token   token.ShareToken
	wrapped token.WrappedVault
	logger  *zap.Logger

	policyMu sync.RWMutex
	policy   feepolicy.Policy

	busy atomic.Bool

	mu   sync.RWMutex
	pool PoolState
}

// EngineConfig carries the engine's identity and its access-control
// collaborator.
type EngineConfig struct {
	// Self is the pool's own address: the mint target for auto-staked
	// deposits and the share owner during unstake-and-withdraw.
	Self common.Address
	// Guard authorizes operator-gated operations.
	Guard Guard
}

// NewEngine wires the engine with its collaborators. A nil policy means fee
// processing is disabled. The wrapped vault may be nil if the composed
// stake/unstake entry points are not used.
func NewEngine(
	cfg EngineConfig,
	params *ParamStore,
	policy feepolicy.Policy,
	tok token.ShareToken,
	wrapped token.WrappedVault,
	logger *zap.Logger,
) *Engine {
	if policy == nil {
		policy = feepolicy.Disabled()
	}
	return &Engine{
		self:    cfg.Self,
		guard:   cfg.Guard,
		params:  params,
		policy:  policy,
		token:   tok,
		wrapped: wrapped,
		logger:  logger,
		pool:    NewPoolState(),
	}
}

// Receipt reports one committed operation: the amounts moved and the pool
// totals after commit.
type Receipt struct {
	Kind   string
	Caller common.Address
	Gross  *big.Int
	Net    *big.Int
	Fee    *big.Int
	Pool   PoolState
}

// Deposit accounts a gross native-capital deposit and mints the net amount
// of shares to the caller. Returns the committed receipt.
func (e *Engine) Deposit(caller common.Address, gross *big.Int) (*Receipt, error) {
	if err := e.enter(); err != nil {
		return nil, err
	}
	defer e.exit()
	return e.depositLocked(caller, caller, gross, "deposit")
}

// StakeDeposit deposits like Deposit but mints the shares to the pool
// itself and immediately wraps them into the compounding vault on the
// caller's behalf. Returns the receipt and the wrapped shares issued.
func (e *Engine) StakeDeposit(caller common.Address, gross *big.Int) (*Receipt, *big.Int, error) {
	if e.wrapped == nil {
		return nil, nil, errors.New("wrapped vault is not configured")
	}
	if err := e.enter(); err != nil {
		return nil, nil, err
	}
	defer e.exit()

	receipt, err := e.depositLocked(caller, e.self, gross, "stake_deposit")
	if err != nil {
		return nil, nil, err
	}

	issued, err := e.wrapped.Deposit(receipt.Net, caller)
	if err != nil {
		// unwind: the deposit committed but the wrap failed, so burn the
		// self-held shares and restore the pool totals
		if burnErr := e.token.Burn(e.self, receipt.Net); burnErr != nil {
			e.logger.Error("stake deposit unwind failed", zap.Error(burnErr))
			return nil, nil, ErrInvariant
		}
		e.revert(receipt)
		return nil, nil, fmt.Errorf("wrapped vault deposit: %w", err)
	}
	return receipt, issued, nil
}

// Withdraw accounts a share burn by the caller and returns the net native
// capital to release.
func (e *Engine) Withdraw(caller common.Address, shares *big.Int) (*Receipt, error) {
	if err := e.enter(); err != nil {
		return nil, err
	}
	defer e.exit()
	return e.withdrawLocked(caller, caller, shares, "withdraw")
}

// UnstakeWithdraw redeems wrapped shares from the compounding vault first,
// then runs ordinary withdrawal accounting on the redeemed raw shares. The
// redemption lands on the pool's own address so the engine only burns
// amounts it has already received.
func (e *Engine) UnstakeWithdraw(caller common.Address, wrappedShares *big.Int) (*Receipt, error) {
	if e.wrapped == nil {
		return nil, errors.New("wrapped vault is not configured")
	}
	if err := e.enter(); err != nil {
		return nil, err
	}
	defer e.exit()

	redeemed, err := e.wrapped.Redeem(wrappedShares, e.self, caller)
	if err != nil {
		return nil, fmt.Errorf("wrapped vault redeem: %w", err)
	}

	receipt, err := e.withdrawLocked(caller, e.self, redeemed, "unstake_withdraw")
	if err != nil {
		// unwind the external redemption so no raw shares are stranded on
		// the pool address
		if _, wrapErr := e.wrapped.Deposit(redeemed, caller); wrapErr != nil {
			e.logger.Error("unstake withdraw unwind failed", zap.Error(wrapErr))
			return nil, ErrInvariant
		}
		return nil, err
	}
	return receipt, nil
}

// ProvisionBatch reserves units*UnitSize of pooled balance for an external
// provisioning batch. The commit callback runs the irreversible sink call;
// the lots counter and balance move only after it succeeds. Claimed shares
// are untouched: provisioned capital stays claimed until shares burn.
func (e *Engine) ProvisionBatch(caller common.Address, units uint64, commit func() error) (*Receipt, error) {
	if units == 0 {
		return nil, ErrInvalidAmount
	}
	if err := e.guard.Authorize(caller); err != nil {
		return nil, err
	}
	if err := e.enter(); err != nil {
		return nil, err
	}
	defer e.exit()

	pool := e.snapshotPool()
	cost := new(big.Int).Mul(UnitSize, new(big.Int).SetUint64(units))
	if pool.Balance.Cmp(cost) < 0 {
		return nil, ErrInsufficientBalance
	}

	if commit != nil {
		if err := commit(); err != nil {
			return nil, fmt.Errorf("provisioning sink: %w", err)
		}
	}

	e.mu.Lock()
	e.pool.Balance = new(big.Int).Sub(pool.Balance, cost)
	e.pool.LotsProvisioned = pool.LotsProvisioned + units
	after := e.pool.Copy()
	e.mu.Unlock()

	e.logger.Info("provisioning batch committed",
		zap.Uint64("units", units),
		zap.String("cost", cost.String()),
		zap.Uint64("lots_provisioned", after.LotsProvisioned),
		zap.String("balance", after.Balance.String()),
	)
	return &Receipt{
		Kind:   "provision",
		Caller: caller,
		Gross:  cost,
		Net:    new(big.Int).Set(cost),
		Fee:    big.NewInt(0),
		Pool:   after,
	}, nil
}

// WithdrawFees releases accrued fees to the operator. Amount zero means
// withdraw all. Buffer capital is not reachable here: the payout is bounded
// by the accrued fee total.
func (e *Engine) WithdrawFees(caller common.Address, amount *big.Int) (*big.Int, error) {
	if err := e.guard.Authorize(caller); err != nil {
		return nil, err
	}
	if err := e.enter(); err != nil {
		return nil, err
	}
	defer e.exit()

	pool := e.snapshotPool()
	payout := amount
	if payout == nil || payout.Sign() == 0 {
		payout = pool.AccruedFee
	}
	if payout.Sign() < 0 {
		return nil, ErrInvalidAmount
	}
	if payout.Cmp(pool.AccruedFee) > 0 {
		return nil, ErrInsufficientBalance
	}
	if pool.Balance.Cmp(payout) < 0 {
		return nil, ErrInsufficientBalance
	}

	e.mu.Lock()
	e.pool.AccruedFee = new(big.Int).Sub(pool.AccruedFee, payout)
	e.pool.Balance = new(big.Int).Sub(pool.Balance, payout)
	e.mu.Unlock()

	e.logger.Info("fees withdrawn",
		zap.String("caller", caller.Hex()),
		zap.String("amount", payout.String()),
	)
	return new(big.Int).Set(payout), nil
}

// Migrate overwrites the claimed shares total directly. Break-glass
// operation for porting state from a prior engine: it bypasses capacity
// enforcement by design and is never reachable from accounting paths.
func (e *Engine) Migrate(caller common.Address, claimedShares *big.Int) error {
	if claimedShares == nil || claimedShares.Sign() < 0 {
		return ErrInvalidAmount
	}
	if err := e.guard.Authorize(caller); err != nil {
		return err
	}
	if err := e.enter(); err != nil {
		return err
	}
	defer e.exit()

	e.mu.Lock()
	before := e.pool.ClaimedShares
	e.pool.ClaimedShares = new(big.Int).Set(claimedShares)
	e.mu.Unlock()

	e.logger.Warn("claimed shares overwritten by migration",
		zap.String("caller", caller.Hex()),
		zap.String("before", before.String()),
		zap.String("after", claimedShares.String()),
	)
	return nil
}

// SetFeePolicy replaces the fee policy reference. Nil disables fee
// processing entirely.
func (e *Engine) SetFeePolicy(caller common.Address, policy feepolicy.Policy) error {
	if err := e.guard.Authorize(caller); err != nil {
		return err
	}
	if policy == nil {
		policy = feepolicy.Disabled()
	}
	e.policyMu.Lock()
	e.policy = policy
	e.policyMu.Unlock()
	return nil
}

// Snapshot returns a copy of the current pool state.
func (e *Engine) Snapshot() PoolState {
	return e.snapshotPool()
}

// RemainingCapacity returns the free capacity before the current limit.
func (e *Engine) RemainingCapacity() *big.Int {
	return Remaining(e.snapshotPool().ClaimedShares, e.params.Snapshot())
}

// MaxDeposit returns the advisory fee-inclusive maximum deposit.
func (e *Engine) MaxDeposit() (*big.Int, error) {
	return MaxDepositBeforeFee(e.snapshotPool().ClaimedShares, e.params.Snapshot())
}

// Restore replaces the in-memory pool from a persisted snapshot. Startup
// path only.
func (e *Engine) Restore(pool PoolState) error {
	if !pool.valid() {
		return ErrInvalidParameter
	}
	e.mu.Lock()
	e.pool = pool.Copy()
	e.mu.Unlock()
	return nil
}

func (e *Engine) depositLocked(caller, recipient common.Address, gross *big.Int, kind string) (*Receipt, error) {
	if gross == nil || gross.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}

	p := e.params.Snapshot()
	e.logger.Debug("deposit",
		zap.String("kind", kind),
		zap.String("caller", caller.Hex()),
		zap.String("gross", gross.String()),
	)

	net, fee, err := e.currentPolicy().ProcessDeposit(gross, caller)
	if err != nil {
		return nil, fmt.Errorf("fee policy: %w", err)
	}
	if net == nil || fee == nil || net.Sign() < 0 || fee.Sign() < 0 {
		return nil, ErrInvariant
	}

	pool := e.snapshotPool()
	newClaimed := new(big.Int).Add(pool.ClaimedShares, net)
	limit := new(big.Int).Add(CapacityLimit(p), p.Buffer)
	if newClaimed.Cmp(limit) > 0 {
		return nil, ErrCapacityExceeded
	}

	if err := e.token.Mint(recipient, net); err != nil {
		return nil, fmt.Errorf("mint shares: %w", err)
	}

	e.mu.Lock()
	e.pool.ClaimedShares = newClaimed
	e.pool.AccruedFee = new(big.Int).Add(pool.AccruedFee, fee)
	e.pool.Balance = new(big.Int).Add(pool.Balance, gross)
	after := e.pool.Copy()
	e.mu.Unlock()

	e.logger.Info("deposit committed",
		zap.String("kind", kind),
		zap.String("caller", caller.Hex()),
		zap.String("net", net.String()),
		zap.String("fee", fee.String()),
		zap.String("claimed_shares", after.ClaimedShares.String()),
	)
	return &Receipt{
		Kind:   kind,
		Caller: caller,
		Gross:  new(big.Int).Set(gross),
		Net:    net,
		Fee:    fee,
		Pool:   after,
	}, nil
}

func (e *Engine) withdrawLocked(caller, owner common.Address, shares *big.Int, kind string) (*Receipt, error) {
	if shares == nil || shares.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}

	p := e.params.Snapshot()
	e.logger.Debug("withdraw",
		zap.String("kind", kind),
		zap.String("caller", caller.Hex()),
		zap.String("shares", shares.String()),
	)

	net, fee, err := e.currentPolicy().ProcessWithdraw(shares, caller)
	if err != nil {
		return nil, fmt.Errorf("fee policy: %w", err)
	}
	if net == nil || fee == nil || net.Sign() < 0 || fee.Sign() < 0 {
		return nil, ErrInvariant
	}

	pool := e.snapshotPool()
	newAccrued := new(big.Int)
	if p.RefundFeesOnWithdraw {
		newAccrued.Sub(pool.AccruedFee, fee)
		if newAccrued.Sign() < 0 {
			return nil, ErrInvariant
		}
	} else {
		newAccrued.Add(pool.AccruedFee, fee)
	}

	// the payout must never dip into the fee pool
	obligations := new(big.Int).Add(net, newAccrued)
	if pool.Balance.Cmp(obligations) < 0 {
		return nil, ErrInsufficientBalance
	}

	newClaimed := new(big.Int).Sub(pool.ClaimedShares, net)
	if newClaimed.Sign() < 0 {
		return nil, ErrInvariant
	}

	// burn before any native-capital movement
	if err := e.token.Burn(owner, shares); err != nil {
		return nil, fmt.Errorf("burn shares: %w", err)
	}

	e.mu.Lock()
	e.pool.ClaimedShares = newClaimed
	e.pool.AccruedFee = newAccrued
	e.pool.Balance = new(big.Int).Sub(pool.Balance, net)
	after := e.pool.Copy()
	e.mu.Unlock()

	e.logger.Info("withdrawal committed",
		zap.String("kind", kind),
		zap.String("caller", caller.Hex()),
		zap.String("net", net.String()),
		zap.String("fee", fee.String()),
		zap.String("claimed_shares", after.ClaimedShares.String()),
	)
	return &Receipt{
		Kind:   kind,
		Caller: caller,
		Gross:  new(big.Int).Set(shares),
		Net:    net,
		Fee:    fee,
		Pool:   after,
	}, nil
}

// revert undoes a committed deposit receipt during a composed-operation
// unwind. Only reachable while the guard is still held.
func (e *Engine) revert(receipt *Receipt) {
	e.mu.Lock()
	e.pool.ClaimedShares.Sub(e.pool.ClaimedShares, receipt.Net)
	e.pool.AccruedFee.Sub(e.pool.AccruedFee, receipt.Fee)
	e.pool.Balance.Sub(e.pool.Balance, receipt.Gross)
	e.mu.Unlock()
}

func (e *Engine) currentPolicy() feepolicy.Policy {
	e.policyMu.RLock()
	defer e.policyMu.RUnlock()
	return e.policy
}

func (e *Engine) snapshotPool() PoolState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.pool.Copy()
}

func (e *Engine) enter() error {
	if !e.busy.CompareAndSwap(false, true) {
		return ErrReentrancy
	}
	return nil
}

func (e *Engine) exit() {
	e.busy.Store(false)
}
