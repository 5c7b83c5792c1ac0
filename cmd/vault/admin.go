package main

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"stakeVault/internal/config"
	"stakeVault/internal/model"
)

func newAdminCmd() *cobra.Command {
	adminCmd := &cobra.Command{
		Use:   "admin",
		Short: "Operator-gated parameter and fee management",
	}

	setFeeCmd := &cobra.Command{
		Use:   "set-fee",
		Short: "Set the flat per-unit admin fee",
		RunE:  runSetFee,
	}
	setFeeCmd.Flags().String("fee", "", "admin fee in wei")
	addStateFlags(setFeeCmd)
	adminCmd.AddCommand(setFeeCmd)

	setLotCmd := &cobra.Command{
		Use:   "set-lot",
		Short: "Set the number of provisioning units per lot",
		RunE:  runSetLot,
	}
	setLotCmd.Flags().Uint64("units", 0, "units per lot")
	addStateFlags(setLotCmd)
	adminCmd.AddCommand(setLotCmd)

	setBufferCmd := &cobra.Command{
		Use:   "set-buffer",
		Short: "Set the capacity buffer",
		RunE:  runSetBuffer,
	}
	setBufferCmd.Flags().String("amount", "", "buffer in wei")
	addStateFlags(setBufferCmd)
	adminCmd.AddCommand(setBufferCmd)

	setRefundCmd := &cobra.Command{
		Use:   "set-refund",
		Short: "Set whether withdrawal fees refund from the accrued total",
		RunE:  runSetRefund,
	}
	setRefundCmd.Flags().Bool("refund", false, "refund fees on withdrawal")
	addStateFlags(setRefundCmd)
	adminCmd.AddCommand(setRefundCmd)

	setCredentialCmd := &cobra.Command{
		Use:   "set-credential",
		Short: "Set the withdrawal credential handed to the provisioning sink",
		RunE:  runSetCredential,
	}
	setCredentialCmd.Flags().String("credential", "", "withdrawal credential hash")
	addStateFlags(setCredentialCmd)
	adminCmd.AddCommand(setCredentialCmd)

	withdrawFeesCmd := &cobra.Command{
		Use:   "withdraw-fees",
		Short: "Release accrued fees to the operator",
		RunE:  runWithdrawFees,
	}
	withdrawFeesCmd.Flags().String("amount", "0", "amount in wei, 0 withdraws all")
	addStateFlags(withdrawFeesCmd)
	adminCmd.AddCommand(withdrawFeesCmd)

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Overwrite the claimed shares total from a prior deployment",
		RunE:  runMigrate,
	}
	migrateCmd.Flags().String("claimed-shares", "", "claimed shares total in wei")
	addStateFlags(migrateCmd)
	adminCmd.AddCommand(migrateCmd)

	return adminCmd
}

// adminEnv builds the environment and resolves the operator as the caller.
func adminEnv(ctx context.Context, cmd *cobra.Command) (*env, common.Address, error) {
	e, err := newEnv(ctx, cmd)
	if err != nil {
		return nil, common.Address{}, err
	}
	if e.cfg.Operator == "" {
		e.close()
		return nil, common.Address{}, fmt.Errorf("operator is required")
	}
	return e, e.guard.Operator, nil
}

func runSetFee(cmd *cobra.Command, _ []string) error {
	ctx, stop := opContext()
	defer stop()
	e, operator, err := adminEnv(ctx, cmd)
	if err != nil {
		return err
	}
	defer e.close()

	feeFlag, _ := cmd.Flags().GetString("fee")
	fee, err := config.ParseAmount(feeFlag)
	if err != nil {
		return fmt.Errorf("fee: %w", err)
	}
	if err := e.params.SetAdminFee(operator, fee); err != nil {
		return err
	}
	return e.persist(ctx)
}

func runSetLot(cmd *cobra.Command, _ []string) error {
	ctx, stop := opContext()
	defer stop()
	e, operator, err := adminEnv(ctx, cmd)
	if err != nil {
		return err
	}
	defer e.close()

	units, _ := cmd.Flags().GetUint64("units")
	if err := e.params.SetUnitsPerLot(operator, units); err != nil {
		return err
	}
	return e.persist(ctx)
}

func runSetBuffer(cmd *cobra.Command, _ []string) error {
	ctx, stop := opContext()
	defer stop()
	e, operator, err := adminEnv(ctx, cmd)
	if err != nil {
		return err
	}
	defer e.close()

	amountFlag, _ := cmd.Flags().GetString("amount")
	amount, err := config.ParseAmount(amountFlag)
	if err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	if err := e.params.SetBuffer(operator, amount); err != nil {
		return err
	}
	return e.persist(ctx)
}

func runSetRefund(cmd *cobra.Command, _ []string) error {
	ctx, stop := opContext()
	defer stop()
	e, operator, err := adminEnv(ctx, cmd)
	if err != nil {
		return err
	}
	defer e.close()

	refund, _ := cmd.Flags().GetBool("refund")
	if err := e.params.SetRefundFeesOnWithdraw(operator, refund); err != nil {
		return err
	}
	return e.persist(ctx)
}

func runSetCredential(cmd *cobra.Command, _ []string) error {
	ctx, stop := opContext()
	defer stop()
	e, operator, err := adminEnv(ctx, cmd)
	if err != nil {
		return err
	}
	defer e.close()

	credential, _ := cmd.Flags().GetString("credential")
	if credential == "" {
		return fmt.Errorf("credential is required")
	}
	if err := e.params.SetWithdrawalCredential(operator, common.HexToHash(credential)); err != nil {
		return err
	}
	return e.persist(ctx)
}

func runWithdrawFees(cmd *cobra.Command, _ []string) error {
	ctx, stop := opContext()
	defer stop()
	e, operator, err := adminEnv(ctx, cmd)
	if err != nil {
		return err
	}
	defer e.close()

	amountFlag, _ := cmd.Flags().GetString("amount")
	amount, err := config.ParseAmount(amountFlag)
	if err != nil {
		return fmt.Errorf("amount: %w", err)
	}

	payout, err := e.engine.WithdrawFees(operator, amount)
	if err != nil {
		return err
	}

	after := e.engine.Snapshot()
	record := model.OperationRecord{
		Kind:            "withdraw_fees",
		Caller:          operator.Hex(),
		Gross:           payout.String(),
		Net:             payout.String(),
		Fee:             "0",
		ClaimedShares:   after.ClaimedShares.String(),
		AccruedFee:      after.AccruedFee.String(),
		Balance:         after.Balance.String(),
		LotsProvisioned: after.LotsProvisioned,
		Timestamp:       uint64(time.Now().Unix()),
	}
	if err := e.persist(ctx, record); err != nil {
		return err
	}

	fmt.Printf("withdrew %s in fees, accrued fee %s\n", payout, after.AccruedFee)
	return nil
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	ctx, stop := opContext()
	defer stop()
	e, operator, err := adminEnv(ctx, cmd)
	if err != nil {
		return err
	}
	defer e.close()

	sharesFlag, _ := cmd.Flags().GetString("claimed-shares")
	shares, err := config.ParseAmount(sharesFlag)
	if err != nil {
		return fmt.Errorf("claimed-shares: %w", err)
	}

	if err := e.engine.Migrate(operator, shares); err != nil {
		return err
	}

	after := e.engine.Snapshot()
	record := model.OperationRecord{
		Kind:            "migrate",
		Caller:          operator.Hex(),
		Gross:           shares.String(),
		Net:             shares.String(),
		Fee:             "0",
		ClaimedShares:   after.ClaimedShares.String(),
		AccruedFee:      after.AccruedFee.String(),
		Balance:         after.Balance.String(),
		LotsProvisioned: after.LotsProvisioned,
		Timestamp:       uint64(time.Now().Unix()),
	}
	if err := e.persist(ctx, record); err != nil {
		return err
	}

	fmt.Printf("claimed shares set to %s\n", shares)
	return nil
}
