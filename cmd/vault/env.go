package main

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"stakeVault/internal/config"
	"stakeVault/internal/feepolicy"
	"stakeVault/internal/model"
	"stakeVault/internal/storage"
	"stakeVault/internal/storage/postgres"
	"stakeVault/internal/token"
	"stakeVault/internal/vault"
)

// Fixed addresses for the pool's own ledger entries. The pool address holds
// auto-staked shares in flight; the wrap address custodies wrapped assets.
var (
	poolAddress = common.HexToAddress("0x0000000000000000000000000000000000000101")
	wrapAddress = common.HexToAddress("0x0000000000000000000000000000000000000102")
)

// env wires the accounting engine and its persistence for one CLI invocation:
// load the snapshot, run the operation, save the snapshot and append the
// journal.
type env struct {
	cfg     config.Config
	logger  *zap.Logger
	guard   *vault.StaticGuard
	params  *vault.ParamStore
	token   *token.MemoryToken
	wrapped *token.CompoundingVault
	engine  *vault.Engine
	store   *storage.FileStateStore
	journal storage.Journal
	pg      *postgres.Store
}

func newEnv(ctx context.Context, cmd *cobra.Command) (*env, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	guard := &vault.StaticGuard{}
	if cfg.Operator != "" {
		operator, err := parseAddress(cfg.Operator)
		if err != nil {
			return nil, fmt.Errorf("operator: %w", err)
		}
		guard.Operator = operator
	}

	initial, err := paramsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	params, err := vault.NewParamStore(guard, initial)
	if err != nil {
		return nil, fmt.Errorf("initial parameters: %w", err)
	}

	shareToken := token.NewMemoryToken()
	wrapped := token.NewCompoundingVault(shareToken, wrapAddress, poolAddress)
	engine := vault.NewEngine(vault.EngineConfig{Self: poolAddress, Guard: guard},
		params, nil, shareToken, wrapped, logger)

	e := &env{
		cfg:     cfg,
		logger:  logger,
		guard:   guard,
		params:  params,
		token:   shareToken,
		wrapped: wrapped,
		engine:  engine,
		store:   &storage.FileStateStore{Path: cfg.StateFile},
		journal: storage.NewJsonlJournal(cfg.Journal),
	}

	if err := e.restore(ctx); err != nil {
		return nil, err
	}

	if err := e.applyPolicy(); err != nil {
		return nil, err
	}

	if cfg.PGDSN != "" {
		pg, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		e.pg = pg
	}

	return e, nil
}

// restore loads the persisted snapshot, if any. A persisted snapshot wins
// over parameter flags: flag values only seed a fresh state file, and later
// parameter changes go through the admin commands.
func (e *env) restore(ctx context.Context) error {
	snap, found, err := e.store.Load(ctx)
	if err != nil {
		return err
	}
	if !found {
		e.logger.Debug("no persisted state, starting fresh",
			zap.String("state_file", e.cfg.StateFile))
		return nil
	}

	p, err := paramsFromModel(snap.Params)
	if err != nil {
		return fmt.Errorf("restore params: %w", err)
	}
	if err := e.params.Restore(p); err != nil {
		return fmt.Errorf("restore params: %w", err)
	}

	pool, err := poolFromModel(snap.Pool)
	if err != nil {
		return fmt.Errorf("restore pool: %w", err)
	}
	if err := e.engine.Restore(pool); err != nil {
		return fmt.Errorf("restore pool: %w", err)
	}

	if err := e.token.Restore(snap.Token); err != nil {
		return err
	}
	if err := e.wrapped.Restore(snap.Wrapped); err != nil {
		return err
	}

	e.logger.Debug("state restored",
		zap.String("claimed_shares", snap.Pool.ClaimedShares),
		zap.Uint64("lots_provisioned", snap.Pool.LotsProvisioned))
	return nil
}

// applyPolicy installs the flat per-unit fee policy when one is configured.
func (e *env) applyPolicy() error {
	if e.cfg.FlatFee == "" {
		return nil
	}
	fee, err := config.ParseAmount(e.cfg.FlatFee)
	if err != nil {
		return fmt.Errorf("flat-fee: %w", err)
	}
	if fee.Sign() == 0 {
		return nil
	}
	unitCost := new(big.Int).Add(vault.UnitSize, fee)
	policy, err := feepolicy.NewFlat(unitCost, fee)
	if err != nil {
		return fmt.Errorf("flat-fee: %w", err)
	}
	return e.engine.SetFeePolicy(e.guard.Operator, policy)
}

// persist saves the snapshot and appends the given operation records to the
// journal and, when configured, to Postgres.
func (e *env) persist(ctx context.Context, ops ...model.OperationRecord) error {
	snap := model.VaultSnapshot{
		Pool:    poolToModel(e.engine.Snapshot()),
		Token:   e.token.Snapshot(),
		Wrapped: e.wrapped.Snapshot(),
		Params:  paramsToModel(e.params.Snapshot()),
	}

	err := withRetry(ctx, e.cfg.MaxRetries, e.cfg.RetryBackoff, func(ctx context.Context) error {
		return e.store.Save(ctx, snap)
	})
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}

	if err := e.journal.Append(ops); err != nil {
		return fmt.Errorf("append journal: %w", err)
	}

	if e.pg != nil {
		err := withRetry(ctx, e.cfg.MaxRetries, e.cfg.RetryBackoff, func(ctx context.Context) error {
			if err := e.pg.SavePool(ctx, snap.Pool); err != nil {
				return err
			}
			return e.pg.AppendOperations(ctx, ops)
		})
		if err != nil {
			return fmt.Errorf("save postgres: %w", err)
		}
	}

	return nil
}

func (e *env) close() {
	if e.pg != nil {
		e.pg.Close()
	}
	e.logger.Sync()
}

// opContext is the per-invocation context, cancelled on interrupt.
func opContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func parseAddress(input string) (common.Address, error) {
	if !common.IsHexAddress(input) {
		return common.Address{}, fmt.Errorf("invalid address %q", input)
	}
	return common.HexToAddress(input), nil
}

func callerAddress(cmd *cobra.Command) (common.Address, error) {
	caller, _ := cmd.Flags().GetString("caller")
	if caller == "" {
		return common.Address{}, fmt.Errorf("caller is required")
	}
	return parseAddress(caller)
}

func paramsFromConfig(cfg config.Config) (vault.Params, error) {
	adminFee, err := config.ParseAmount(cfg.AdminFee)
	if err != nil {
		return vault.Params{}, fmt.Errorf("admin-fee: %w", err)
	}
	buffer, err := config.ParseAmount(cfg.Buffer)
	if err != nil {
		return vault.Params{}, fmt.Errorf("buffer: %w", err)
	}
	return vault.Params{
		UnitsPerLot:          cfg.UnitsPerLot,
		AdminFee:             adminFee,
		Buffer:               buffer,
		RefundFeesOnWithdraw: cfg.RefundFees,
		WithdrawalCredential: common.HexToHash(cfg.WithdrawalCredential),
	}, nil
}

func paramsFromModel(snap model.ParamsSnapshot) (vault.Params, error) {
	adminFee, err := config.ParseAmount(snap.AdminFee)
	if err != nil {
		return vault.Params{}, fmt.Errorf("admin fee: %w", err)
	}
	buffer, err := config.ParseAmount(snap.Buffer)
	if err != nil {
		return vault.Params{}, fmt.Errorf("buffer: %w", err)
	}
	return vault.Params{
		UnitsPerLot:          snap.UnitsPerLot,
		AdminFee:             adminFee,
		Buffer:               buffer,
		RefundFeesOnWithdraw: snap.RefundFeesOnWithdraw,
		WithdrawalCredential: common.HexToHash(snap.WithdrawalCredential),
	}, nil
}

func paramsToModel(p vault.Params) model.ParamsSnapshot {
	return model.ParamsSnapshot{
		UnitsPerLot:          p.UnitsPerLot,
		AdminFee:             p.AdminFee.String(),
		Buffer:               p.Buffer.String(),
		RefundFeesOnWithdraw: p.RefundFeesOnWithdraw,
		WithdrawalCredential: p.WithdrawalCredential.Hex(),
	}
}

func poolFromModel(snap model.PoolSnapshot) (vault.PoolState, error) {
	claimed, err := config.ParseAmount(snap.ClaimedShares)
	if err != nil {
		return vault.PoolState{}, fmt.Errorf("claimed shares: %w", err)
	}
	accrued, err := config.ParseAmount(snap.AccruedFee)
	if err != nil {
		return vault.PoolState{}, fmt.Errorf("accrued fee: %w", err)
	}
	balance, err := config.ParseAmount(snap.Balance)
	if err != nil {
		return vault.PoolState{}, fmt.Errorf("balance: %w", err)
	}
	return vault.PoolState{
		ClaimedShares:   claimed,
		AccruedFee:      accrued,
		Balance:         balance,
		LotsProvisioned: snap.LotsProvisioned,
	}, nil
}

func poolToModel(pool vault.PoolState) model.PoolSnapshot {
	return model.PoolSnapshot{
		ClaimedShares:   pool.ClaimedShares.String(),
		AccruedFee:      pool.AccruedFee.String(),
		Balance:         pool.Balance.String(),
		LotsProvisioned: pool.LotsProvisioned,
	}
}

func receiptToRecord(receipt *vault.Receipt) model.OperationRecord {
	return model.OperationRecord{
		Kind:            receipt.Kind,
		Caller:          receipt.Caller.Hex(),
		Gross:           receipt.Gross.String(),
		Net:             receipt.Net.String(),
		Fee:             receipt.Fee.String(),
		ClaimedShares:   receipt.Pool.ClaimedShares.String(),
		AccruedFee:      receipt.Pool.AccruedFee.String(),
		Balance:         receipt.Pool.Balance.String(),
		LotsProvisioned: receipt.Pool.LotsProvisioned,
		Timestamp:       uint64(time.Now().Unix()),
	}
}
