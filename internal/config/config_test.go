package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.StateFile != "./data/vault.json" {
		t.Fatalf("state-file default mismatch: %s", cfg.StateFile)
	}
	if cfg.Journal != "./data/operations.jsonl" {
		t.Fatalf("journal default mismatch: %s", cfg.Journal)
	}
	if cfg.UnitsPerLot != 1 {
		t.Fatalf("units-per-lot default mismatch: %d", cfg.UnitsPerLot)
	}
	if cfg.MaxRetries != 5 {
		t.Fatalf("max-retries default mismatch: %d", cfg.MaxRetries)
	}
	if cfg.RetryBackoff != 500*time.Millisecond {
		t.Fatalf("retry-backoff default mismatch: %v", cfg.RetryBackoff)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("log-level default mismatch: %s", cfg.LogLevel)
	}
}

func TestLoadFlagsOverrideDefaults(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("state-file", "", "")
	flags.Uint64("units-per-lot", 0, "")
	flags.String("admin-fee", "", "")
	flags.Bool("refund-fees", false, "")
	if err := flags.Parse([]string{
		"--state-file", "/tmp/custom.json",
		"--units-per-lot", "4",
		"--admin-fee", "1000000000000000000",
		"--refund-fees",
	}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := Load("", flags)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.StateFile != "/tmp/custom.json" {
		t.Fatalf("flag did not override state-file: %s", cfg.StateFile)
	}
	if cfg.UnitsPerLot != 4 {
		t.Fatalf("flag did not override units-per-lot: %d", cfg.UnitsPerLot)
	}
	if cfg.AdminFee != "1000000000000000000" {
		t.Fatalf("flag did not override admin-fee: %s", cfg.AdminFee)
	}
	if !cfg.RefundFees {
		t.Fatalf("flag did not override refund-fees")
	}
}

func TestLoadRejectsZeroUnitsPerLot(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Uint64("units-per-lot", 1, "")
	if err := flags.Parse([]string{"--units-per-lot", "0"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if _, err := Load("", flags); err == nil {
		t.Fatalf("expected error for units-per-lot=0")
	}
}

func TestParseAmount(t *testing.T) {
	value, err := ParseAmount("33000000000000000000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value.String() != "33000000000000000000" {
		t.Fatalf("value mismatch: %s", value)
	}

	if _, err := ParseAmount(""); err == nil {
		t.Fatalf("expected error for empty amount")
	}
	if _, err := ParseAmount("abc"); err == nil {
		t.Fatalf("expected error for non-numeric amount")
	}
	if _, err := ParseAmount("-1"); err == nil {
		t.Fatalf("expected error for negative amount")
	}
}
