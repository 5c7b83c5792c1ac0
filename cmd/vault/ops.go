package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stakeVault/internal/config"
)

func runDeposit(cmd *cobra.Command, _ []string) error {
	ctx, stop := opContext()
	defer stop()
	e, err := newEnv(ctx, cmd)
	if err != nil {
		return err
	}
	defer e.close()

	caller, err := callerAddress(cmd)
	if err != nil {
		return err
	}
	amountFlag, _ := cmd.Flags().GetString("amount")
	amount, err := config.ParseAmount(amountFlag)
	if err != nil {
		return fmt.Errorf("amount: %w", err)
	}

	receipt, err := e.engine.Deposit(caller, amount)
	if err != nil {
		return err
	}
	if err := e.persist(ctx, receiptToRecord(receipt)); err != nil {
		return err
	}

	fmt.Printf("deposited %s (net %s, fee %s), claimed shares %s\n",
		receipt.Gross, receipt.Net, receipt.Fee, receipt.Pool.ClaimedShares)
	return nil
}

func runWithdraw(cmd *cobra.Command, _ []string) error {
	ctx, stop := opContext()
	defer stop()
	e, err := newEnv(ctx, cmd)
	if err != nil {
		return err
	}
	defer e.close()

	caller, err := callerAddress(cmd)
	if err != nil {
		return err
	}
	amountFlag, _ := cmd.Flags().GetString("amount")
	amount, err := config.ParseAmount(amountFlag)
	if err != nil {
		return fmt.Errorf("amount: %w", err)
	}

	receipt, err := e.engine.Withdraw(caller, amount)
	if err != nil {
		return err
	}
	if err := e.persist(ctx, receiptToRecord(receipt)); err != nil {
		return err
	}

	fmt.Printf("withdrew %s shares (net %s, fee %s), claimed shares %s\n",
		receipt.Gross, receipt.Net, receipt.Fee, receipt.Pool.ClaimedShares)
	return nil
}

func runStake(cmd *cobra.Command, _ []string) error {
	ctx, stop := opContext()
	defer stop()
	e, err := newEnv(ctx, cmd)
	if err != nil {
		return err
	}
	defer e.close()

	caller, err := callerAddress(cmd)
	if err != nil {
		return err
	}
	amountFlag, _ := cmd.Flags().GetString("amount")
	amount, err := config.ParseAmount(amountFlag)
	if err != nil {
		return fmt.Errorf("amount: %w", err)
	}

	receipt, issued, err := e.engine.StakeDeposit(caller, amount)
	if err != nil {
		return err
	}
	if err := e.persist(ctx, receiptToRecord(receipt)); err != nil {
		return err
	}

	fmt.Printf("staked %s (net %s, fee %s), wrapped shares issued %s\n",
		receipt.Gross, receipt.Net, receipt.Fee, issued)
	return nil
}

func runUnstake(cmd *cobra.Command, _ []string) error {
	ctx, stop := opContext()
	defer stop()
	e, err := newEnv(ctx, cmd)
	if err != nil {
		return err
	}
	defer e.close()

	caller, err := callerAddress(cmd)
	if err != nil {
		return err
	}
	amountFlag, _ := cmd.Flags().GetString("amount")
	amount, err := config.ParseAmount(amountFlag)
	if err != nil {
		return fmt.Errorf("amount: %w", err)
	}

	receipt, err := e.engine.UnstakeWithdraw(caller, amount)
	if err != nil {
		return err
	}
	if err := e.persist(ctx, receiptToRecord(receipt)); err != nil {
		return err
	}

	fmt.Printf("unstaked %s wrapped shares (net %s, fee %s), claimed shares %s\n",
		receipt.Gross, receipt.Net, receipt.Fee, receipt.Pool.ClaimedShares)
	return nil
}
