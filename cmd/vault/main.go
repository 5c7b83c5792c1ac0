package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	root := &cobra.Command{
		Use:          "vault",
		Short:        "Pooled staking vault accounting engine",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	depositCmd := &cobra.Command{
		Use:   "deposit",
		Short: "Deposit native capital and mint shares to the caller",
		RunE:  runDeposit,
	}
	depositCmd.Flags().String("caller", "", "caller address")
	depositCmd.Flags().String("amount", "", "gross deposit amount in wei")
	addStateFlags(depositCmd)
	root.AddCommand(depositCmd)

	withdrawCmd := &cobra.Command{
		Use:   "withdraw",
		Short: "Burn the caller's shares and release net capital",
		RunE:  runWithdraw,
	}
	withdrawCmd.Flags().String("caller", "", "caller address")
	withdrawCmd.Flags().String("amount", "", "share amount to burn in wei")
	addStateFlags(withdrawCmd)
	root.AddCommand(withdrawCmd)

	stakeCmd := &cobra.Command{
		Use:   "stake",
		Short: "Deposit and wrap the minted shares into the compounding vault",
		RunE:  runStake,
	}
	stakeCmd.Flags().String("caller", "", "caller address")
	stakeCmd.Flags().String("amount", "", "gross deposit amount in wei")
	addStateFlags(stakeCmd)
	root.AddCommand(stakeCmd)

	unstakeCmd := &cobra.Command{
		Use:   "unstake",
		Short: "Redeem wrapped shares and withdraw the redeemed amount",
		RunE:  runUnstake,
	}
	unstakeCmd.Flags().String("caller", "", "caller address")
	unstakeCmd.Flags().String("amount", "", "wrapped share amount in wei")
	addStateFlags(unstakeCmd)
	root.AddCommand(unstakeCmd)

	provisionCmd := &cobra.Command{
		Use:   "provision",
		Short: "Authorize a provisioning batch against pooled balance",
		RunE:  runProvision,
	}
	provisionCmd.Flags().String("caller", "", "caller address (must be the operator)")
	provisionCmd.Flags().String("credentials", "", "credential batch JSON file")
	addStateFlags(provisionCmd)
	root.AddCommand(provisionCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Print pool totals, capacity, and optional live custody balance",
		RunE:  runStatus,
	}
	statusCmd.Flags().String("rpc", "", "RPC URL for the live custody check")
	statusCmd.Flags().String("contract", "", "custody contract address for the live check")
	addStateFlags(statusCmd)
	root.AddCommand(statusCmd)

	root.AddCommand(newAdminCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// addStateFlags registers the flags shared by every state-touching command.
func addStateFlags(cmd *cobra.Command) {
	cmd.Flags().String("state-file", "./data/vault.json", "vault state JSON path")
	cmd.Flags().String("journal", "./data/operations.jsonl", "operation journal JSONL path")
	cmd.Flags().String("pg-dsn", "", "optional Postgres DSN for reporting")
	cmd.Flags().String("operator", "", "operator address")
	cmd.Flags().Uint64("units-per-lot", 1, "provisioning units per lot")
	cmd.Flags().String("admin-fee", "0", "flat per-unit admin fee in wei")
	cmd.Flags().String("buffer", "0", "capacity buffer in wei")
	cmd.Flags().String("flat-fee", "", "flat per-unit fee policy amount in wei (empty disables fees)")
	cmd.Flags().Bool("refund-fees", false, "refund fees from the accrued total on withdrawal")
	cmd.Flags().String("withdrawal-credential", "", "withdrawal credential hash")
	cmd.Flags().Int("max-retries", 5, "maximum persistence retry attempts")
	cmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial persistence retry backoff")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
