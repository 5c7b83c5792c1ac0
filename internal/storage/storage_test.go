package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"stakeVault/internal/model"
)

func TestFileStateStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "vault.json")
	store := &FileStateStore{Path: path}

	_, found, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Fatalf("expected no state before first save")
	}

	snap := model.VaultSnapshot{
		Pool: model.PoolSnapshot{
			ClaimedShares:   "64000000000000000000",
			AccruedFee:      "1000000000000000000",
			Balance:         "65000000000000000000",
			LotsProvisioned: 3,
		},
		Token: model.TokenSnapshot{
			Supply:   "64000000000000000000",
			Balances: map[string]string{"0x0000000000000000000000000000000000000001": "64000000000000000000"},
		},
		Params: model.ParamsSnapshot{
			UnitsPerLot: 2,
			AdminFee:    "1000000000000000000",
			Buffer:      "0",
		},
	}
	if err := store.Save(context.Background(), snap); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, found, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !found {
		t.Fatalf("expected state after save")
	}
	if loaded.Pool.ClaimedShares != snap.Pool.ClaimedShares {
		t.Fatalf("claimed shares mismatch: %s", loaded.Pool.ClaimedShares)
	}
	if loaded.Pool.LotsProvisioned != 3 {
		t.Fatalf("lots mismatch: %d", loaded.Pool.LotsProvisioned)
	}
	if loaded.Token.Balances["0x0000000000000000000000000000000000000001"] != "64000000000000000000" {
		t.Fatalf("token balance mismatch")
	}
	if loaded.UpdatedAt == "" {
		t.Fatalf("expected updated_at to be set")
	}
}

func TestJsonlJournalAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ops.jsonl")
	journal := NewJsonlJournal(path)

	ops := []model.OperationRecord{
		{Kind: "deposit", Caller: "0x01", Gross: "33", Net: "32", Fee: "1", Timestamp: 100},
		{Kind: "withdraw", Caller: "0x01", Gross: "32", Net: "31", Fee: "1", Timestamp: 200},
	}
	if err := journal.Append(ops); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := journal.Append(ops[:1]); err != nil {
		t.Fatalf("second append: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer file.Close()

	var lines []model.OperationRecord
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var op model.OperationRecord
		if err := json.Unmarshal(scanner.Bytes(), &op); err != nil {
			t.Fatalf("parse line: %v", err)
		}
		lines = append(lines, op)
	}
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[1].Kind != "withdraw" || lines[1].Net != "31" {
		t.Fatalf("record mismatch: %+v", lines[1])
	}
}

func TestJsonlJournalEmptyBatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ops.jsonl")
	journal := NewJsonlJournal(path)

	if err := journal.Append(nil); err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("empty append must not create the file")
	}
}
