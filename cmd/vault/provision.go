package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"stakeVault/internal/model"
	"stakeVault/internal/provision"
)

func runProvision(cmd *cobra.Command, _ []string) error {
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
	path, _ := cmd.Flags().GetString("credentials")
	if path == "" {
		return fmt.Errorf("credentials file is required")
	}

	pubkeys, signatures, roots, err := readCredentials(path)
	if err != nil {
		return err
	}

	gate := provision.NewGate(e.engine, e.params, provision.NewLogSink(e.logger), e.logger)
	receipt, err := gate.AuthorizeBatch(caller, pubkeys, signatures, roots)
	if err != nil {
		return err
	}
	if err := e.persist(ctx, receiptToRecord(receipt)); err != nil {
		return err
	}

	fmt.Printf("provisioned %d units for %s, lots %d, balance %s\n",
		len(pubkeys), receipt.Gross, receipt.Pool.LotsProvisioned, receipt.Pool.Balance)
	return nil
}

// readCredentials parses a JSON array of per-unit credentials into the
// parallel sequences the gate expects.
func readCredentials(path string) ([][]byte, [][]byte, []common.Hash, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("read credentials: %w", err)
	}

	var credentials []model.Credential
	if err := json.Unmarshal(data, &credentials); err != nil {
		return nil, nil, nil, fmt.Errorf("parse credentials: %w", err)
	}

	pubkeys := make([][]byte, 0, len(credentials))
	signatures := make([][]byte, 0, len(credentials))
	roots := make([]common.Hash, 0, len(credentials))
	for i, credential := range credentials {
		pubkey, signature, root, err := credential.Decode()
		if err != nil {
			return nil, nil, nil, fmt.Errorf("credential %d: %w", i, err)
		}
		pubkeys = append(pubkeys, pubkey)
		signatures = append(signatures, signature)
		roots = append(roots, root)
	}
	return pubkeys, signatures, roots, nil
}
