package main

import (
	"context"
	"fmt"
	"math/big"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"stakeVault/internal/chain"
)

func runStatus(cmd *cobra.Command, _ []string) error {
	ctx, stop := opContext()
	defer stop()
	e, err := newEnv(ctx, cmd)
	if err != nil {
		return err
	}
	defer e.close()

	pool := e.engine.Snapshot()
	params := e.params.Snapshot()
	maxDeposit, err := e.engine.MaxDeposit()
	if err != nil {
		return err
	}

	fmt.Printf("claimed shares:    %s\n", pool.ClaimedShares)
	fmt.Printf("accrued fee:       %s\n", pool.AccruedFee)
	fmt.Printf("balance:           %s\n", pool.Balance)
	fmt.Printf("lots provisioned:  %d\n", pool.LotsProvisioned)
	fmt.Printf("units per lot:     %d\n", params.UnitsPerLot)
	fmt.Printf("buffer:            %s\n", params.Buffer)
	fmt.Printf("remaining:         %s\n", e.engine.RemainingCapacity())
	fmt.Printf("max deposit:       %s\n", maxDeposit)
	fmt.Printf("share supply:      %s\n", e.token.TotalSupply())

	if e.cfg.RPCURL != "" && e.cfg.Contract != "" {
		if err := printLiveBalance(ctx, e, pool.Balance); err != nil {
			return err
		}
	}
	return nil
}

// printLiveBalance compares the accounted balance against the custody
// contract's live balance and reports the drift.
func printLiveBalance(ctx context.Context, e *env, accounted *big.Int) error {
	contract, err := parseAddress(e.cfg.Contract)
	if err != nil {
		return fmt.Errorf("contract: %w", err)
	}

	client, err := chain.NewClient(ctx, e.cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer client.Close()

	live, err := client.BalanceAt(ctx, contract)
	if err != nil {
		return fmt.Errorf("live balance: %w", err)
	}

	drift := new(big.Int).Sub(live, accounted)
	fmt.Printf("live balance:      %s\n", live)
	fmt.Printf("drift:             %s\n", drift)

	if drift.Sign() != 0 {
		e.logger.Warn("custody balance drift",
			zap.String("accounted", accounted.String()),
			zap.String("live", live.String()),
			zap.String("drift", drift.String()),
		)
	}
	return nil
}
