package model

import (
	"strings"
	"testing"
)

func validCredential() Credential {
	return Credential{
		Pubkey:          "0x" + strings.Repeat("ab", PubkeyLength),
		Signature:       "0x" + strings.Repeat("cd", SignatureLength),
		DepositDataRoot: "0x" + strings.Repeat("ef", 32),
	}
}

func TestCredentialDecode(t *testing.T) {
	pubkey, sig, root, err := validCredential().Decode()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pubkey) != PubkeyLength {
		t.Fatalf("pubkey length mismatch: %d", len(pubkey))
	}
	if len(sig) != SignatureLength {
		t.Fatalf("signature length mismatch: %d", len(sig))
	}
	if root.Hex() != "0x"+strings.Repeat("ef", 32) {
		t.Fatalf("root mismatch: %s", root.Hex())
	}
}

func TestCredentialDecodeBadLengths(t *testing.T) {
	cred := validCredential()
	cred.Pubkey = "0xabcd"
	if _, _, _, err := cred.Decode(); err == nil {
		t.Fatalf("expected error for short pubkey")
	}

	cred = validCredential()
	cred.Signature = "0x" + strings.Repeat("cd", 10)
	if _, _, _, err := cred.Decode(); err == nil {
		t.Fatalf("expected error for short signature")
	}

	cred = validCredential()
	cred.DepositDataRoot = "not-hex"
	if _, _, _, err := cred.Decode(); err == nil {
		t.Fatalf("expected error for invalid root")
	}
}
