package provision

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"
)

// LogSink is a sink that records each authorized unit to the log instead of
// submitting it anywhere. Used when the CLI runs without a live deposit
// endpoint.
type LogSink struct {
	logger *zap.Logger
}

func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Deposit(pubkeys, signatures [][]byte, roots []common.Hash, withdrawalCredential common.Hash) error {
	for i := range pubkeys {
		s.logger.Info("provisioning unit",
			zap.String("pubkey", hexutil.Encode(pubkeys[i])),
			zap.String("deposit_data_root", roots[i].Hex()),
			zap.String("withdrawal_credential", withdrawalCredential.Hex()),
		)
	}
	return nil
}
