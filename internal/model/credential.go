package model

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

const (
	PubkeyLength    = 48
	SignatureLength = 96
)

// Credential is one per-unit provisioning credential as read from disk.
// Fields are 0x-prefixed hex strings.
type Credential struct {
	Pubkey          string `json:"pubkey"`
	Signature       string `json:"signature"`
	DepositDataRoot string `json:"deposit_data_root"`
}

// Decode parses and length-checks the credential fields.
func (c Credential) Decode() ([]byte, []byte, common.Hash, error) {
	pubkey, err := hexutil.Decode(c.Pubkey)
	if err != nil {
		return nil, nil, common.Hash{}, fmt.Errorf("decode pubkey: %w", err)
	}
	if len(pubkey) != PubkeyLength {
		return nil, nil, common.Hash{}, fmt.Errorf("pubkey must be %d bytes, got %d", PubkeyLength, len(pubkey))
	}

	sig, err := hexutil.Decode(c.Signature)
	if err != nil {
		return nil, nil, common.Hash{}, fmt.Errorf("decode signature: %w", err)
	}
	if len(sig) != SignatureLength {
		return nil, nil, common.Hash{}, fmt.Errorf("signature must be %d bytes, got %d", SignatureLength, len(sig))
	}

	root, err := hexutil.Decode(c.DepositDataRoot)
	if err != nil {
		return nil, nil, common.Hash{}, fmt.Errorf("decode deposit data root: %w", err)
	}
	if len(root) != common.HashLength {
		return nil, nil, common.Hash{}, fmt.Errorf("deposit data root must be %d bytes, got %d", common.HashLength, len(root))
	}

	return pubkey, sig, common.BytesToHash(root), nil
}
