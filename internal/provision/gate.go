// Package provision validates and authorizes batch provisioning: the
// irreversible sweep of pooled capital into the external validator-creation
// sink, one fixed-size unit per credential.
package provision

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"stakeVault/internal/vault"
)

// Sink is the external provisioning endpoint. It receives parallel per-unit
// credential sequences of equal length and moves one unit of native capital
// per entry. Irreversible and externally verified.
type Sink interface {
	Deposit(pubkeys, signatures [][]byte, roots []common.Hash, withdrawalCredential common.Hash) error
}

// Accountant is the slice of the accounting engine the gate needs: a
// balance-checked, all-or-nothing batch reservation.
type Accountant interface {
	ProvisionBatch(caller common.Address, units uint64, commit func() error) (*vault.Receipt, error)
}

// Gate validates credential batches before letting them through to the sink.
type Gate struct {
	engine Accountant
	params *vault.ParamStore
	sink   Sink
	logger *zap.Logger
}

func NewGate(engine Accountant, params *vault.ParamStore, sink Sink, logger *zap.Logger) *Gate {
	return &Gate{engine: engine, params: params, sink: sink, logger: logger}
}

// AuthorizeBatch checks the credential arrays, reserves the batch against
// pooled balance, and invokes the sink. The lots counter only advances when
// the sink call succeeds.
func (g *Gate) AuthorizeBatch(
	caller common.Address,
	pubkeys [][]byte,
	signatures [][]byte,
	roots []common.Hash,
) (*vault.Receipt, error) {
	units := len(pubkeys)
	if units == 0 {
		return nil, fmt.Errorf("%w: empty credential batch", vault.ErrInvalidParameter)
	}
	if len(signatures) != units || len(roots) != units {
		return nil, fmt.Errorf("%w: credential arrays must have equal length (%d pubkeys, %d signatures, %d roots)",
			vault.ErrInvalidParameter, units, len(signatures), len(roots))
	}
	for i, pubkey := range pubkeys {
		if len(pubkey) != 48 {
			return nil, fmt.Errorf("%w: pubkey %d must be 48 bytes", vault.ErrInvalidParameter, i)
		}
		if len(signatures[i]) != 96 {
			return nil, fmt.Errorf("%w: signature %d must be 96 bytes", vault.ErrInvalidParameter, i)
		}
	}

	credential := g.params.Snapshot().WithdrawalCredential

	receipt, err := g.engine.ProvisionBatch(caller, uint64(units), func() error {
		return g.sink.Deposit(pubkeys, signatures, roots, credential)
	})
	if err != nil {
		g.logger.Info("provisioning batch rejected", zap.Int("units", units), zap.Error(err))
		return nil, err
	}

	g.logger.Info("provisioning batch authorized",
		zap.Int("units", units),
		zap.Uint64("lots_provisioned", receipt.Pool.LotsProvisioned),
	)
	return receipt, nil
}
