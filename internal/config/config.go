package config

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	StateFile            string
	Journal              string
	PGDSN                string
	RPCURL               string
	Contract             string
	Operator             string
	UnitsPerLot          uint64
	AdminFee             string
	Buffer               string
	FlatFee              string
	RefundFees           bool
	WithdrawalCredential string
	MaxRetries           int
	RetryBackoff         time.Duration
	LogLevel             string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("VAULT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("state-file", "./data/vault.json")
	v.SetDefault("journal", "./data/operations.jsonl")
	v.SetDefault("units-per-lot", uint64(1))
	v.SetDefault("admin-fee", "0")
	v.SetDefault("buffer", "0")
	v.SetDefault("refund-fees", false)
	v.SetDefault("max-retries", 5)
	v.SetDefault("retry-backoff", 500*time.Millisecond)
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		StateFile:            v.GetString("state-file"),
		Journal:              v.GetString("journal"),
		PGDSN:                v.GetString("pg-dsn"),
		RPCURL:               v.GetString("rpc"),
		Contract:             v.GetString("contract"),
		Operator:             v.GetString("operator"),
		UnitsPerLot:          v.GetUint64("units-per-lot"),
		AdminFee:             v.GetString("admin-fee"),
		Buffer:               v.GetString("buffer"),
		FlatFee:              v.GetString("flat-fee"),
		RefundFees:           v.GetBool("refund-fees"),
		WithdrawalCredential: v.GetString("withdrawal-credential"),
		MaxRetries:           v.GetInt("max-retries"),
		RetryBackoff:         v.GetDuration("retry-backoff"),
		LogLevel:             v.GetString("log-level"),
	}

	if cfg.UnitsPerLot == 0 {
		return Config{}, fmt.Errorf("units-per-lot must be at least 1")
	}

	return cfg, nil
}

// ParseAmount parses a non-negative decimal wei amount.
func ParseAmount(input string) (*big.Int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("amount is empty")
	}
	value, ok := new(big.Int).SetString(input, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", input)
	}
	if value.Sign() < 0 {
		return nil, fmt.Errorf("amount %q is negative", input)
	}
	return value, nil
}
