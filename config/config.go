package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the complete banking and trading configuration
type Config struct {
	DataDir string        `json:"data_dir" yaml:"data_dir"`
	Logging LoggingConfig `json:"logging" yaml:"logging"`
	Journal JournalConfig `json:"journal" yaml:"journal"`
	Market  MarketConfig  `json:"market" yaml:"market"`
	FX      FXConfig      `json:"fx" yaml:"fx"`
	Ledger  LedgerConfig  `json:"ledger" yaml:"ledger"`
}

// LoggingConfig controls structured log output
type LoggingConfig struct {
	Level string `json:"level" yaml:"level"` // "debug", "info", "warn", "error"
}

// JournalConfig selects the journaling backend
type JournalConfig struct {
	Type   string `json:"type" yaml:"type"` // "file" or "sqlite"
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// MarketConfig contains price simulation parameters
type MarketConfig struct {
	Seed int64 `json:"seed,omitempty" yaml:"seed,omitempty"` // 0 means time-seeded
}

// FXConfig contains the rates used when no rates file exists yet
type FXConfig struct {
	INRPerUSD float64 `json:"inr_per_usd" yaml:"inr_per_usd"`
	INRPerEUR float64 `json:"inr_per_eur" yaml:"inr_per_eur"`
}

// LedgerConfig contains account bootstrap parameters
type LedgerConfig struct {
	SeedAccounts bool `json:"seed_accounts" yaml:"seed_accounts"`
}

// LoadFromFile loads configuration from a file (JSON or YAML based on extension)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	// Determine format by extension
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error")
	}
	if c.Journal.Type != "file" && c.Journal.Type != "sqlite" {
		return fmt.Errorf("journal.type must be 'file' or 'sqlite'")
	}
	if c.Journal.Type == "sqlite" && c.Journal.DBPath == "" {
		return fmt.Errorf("journal db_path required for SQLite type")
	}
	if c.FX.INRPerUSD <= 0 || c.FX.INRPerEUR <= 0 {
		return fmt.Errorf("fx rates must be positive")
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		DataDir: "./data",
		Logging: LoggingConfig{
			Level: "info",
		},
		Journal: JournalConfig{
			Type: "file",
		},
		FX: FXConfig{
			INRPerUSD: 83.5,
			INRPerEUR: 88.2,
		},
		Ledger: LedgerConfig{
			SeedAccounts: true,
		},
	}
}
