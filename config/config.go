// Package config loads the journal configuration from a yaml file, filling
// defaults for anything left empty.
package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vadiminshakov/tradebook/internal/store"
)

// ExchangeAccount is one configured quote-source credential set. Secret is
// the API secret for binance/bybit and the hex ECDSA private key for
// hyperliquid.
type ExchangeAccount struct {
	Name    string `yaml:"name"`
	APIKey  string `yaml:"api_key,omitempty"`
	Secret  string `yaml:"secret,omitempty"`
	BaseURL string `yaml:"base_url,omitempty"`
}

type Config struct {
	// BaseCurrency is the default asset for deposits, withdrawals and
	// equity reporting.
	BaseCurrency string `yaml:"base_currency"`
	// TZOffsetHours is the fixed UTC offset for human-facing timestamps.
	TZOffsetHours int `yaml:"tz_offset_hours"`
	// DataDir holds the CSV tables; WalDir the event journal segments.
	DataDir string `yaml:"data_dir"`
	WalDir  string `yaml:"wal_dir"`

	UpdateIntervalSeconds int `yaml:"price_update_interval_seconds"`

	TradesTable    string `yaml:"trades_sheet_name,omitempty"`
	PositionsTable string `yaml:"positions_sheet_name,omitempty"`
	MovementsTable string `yaml:"movements_sheet_name,omitempty"`
	FifoLogTable   string `yaml:"fifo_log_sheet_name,omitempty"`
	AnalyticsTable string `yaml:"analytics_sheet_name,omitempty"`
	BalancesTable  string `yaml:"balances_sheet_name,omitempty"`
	StatusTable    string `yaml:"status_sheet_name,omitempty"`

	// InvestmentAssets are treated as stablecoin equity when rendering
	// balances.
	InvestmentAssets []string `yaml:"investment_assets,omitempty"`
	// KnownExchanges and KnownWallets classify named accounts; anything
	// else is treated as external.
	KnownExchanges []string `yaml:"known_exchanges,omitempty"`
	KnownWallets   []string `yaml:"known_wallets,omitempty"`

	AmountPrecision int32 `yaml:"amount_precision,omitempty"`
	PricePrecision  int32 `yaml:"price_precision,omitempty"`

	Exchanges []ExchangeAccount `yaml:"exchanges,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		BaseCurrency:          "USDT",
		TZOffsetHours:         0,
		DataDir:               "data",
		WalDir:                "waldata",
		UpdateIntervalSeconds: 300,
		InvestmentAssets:      []string{"USDT", "USDC"},
		KnownExchanges:        []string{"binance", "bybit", "hyperliquid"},
		AmountPrecision:       8,
		PricePrecision:        2,
	}
}

// Load reads a yaml config file and fills defaults for empty keys.
func Load(path string) (Config, error) {
	cfg := Default()

	f, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "read config %s", path)
	}
	if err := yaml.Unmarshal(f, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "parse config %s", path)
	}

	if cfg.BaseCurrency == "" {
		cfg.BaseCurrency = "USDT"
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if cfg.WalDir == "" {
		cfg.WalDir = "waldata"
	}
	if cfg.UpdateIntervalSeconds <= 0 {
		cfg.UpdateIntervalSeconds = 300
	}
	if cfg.AmountPrecision <= 0 {
		cfg.AmountPrecision = 8
	}
	if cfg.PricePrecision <= 0 {
		cfg.PricePrecision = 2
	}
	return cfg, nil
}

// Save writes the configuration as yaml.
func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "marshal config")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "write config %s", path)
	}
	return nil
}

// Tables maps the configured sheet-name overrides onto the store's table set.
func (c Config) Tables() store.Tables {
	t := store.DefaultTables()
	if c.TradesTable != "" {
		t.Trades = c.TradesTable
	}
	if c.PositionsTable != "" {
		t.Positions = c.PositionsTable
	}
	if c.MovementsTable != "" {
		t.Movements = c.MovementsTable
	}
	if c.FifoLogTable != "" {
		t.FifoLog = c.FifoLogTable
	}
	if c.AnalyticsTable != "" {
		t.Analytics = c.AnalyticsTable
	}
	if c.BalancesTable != "" {
		t.Balances = c.BalancesTable
	}
	if c.StatusTable != "" {
		t.Status = c.StatusTable
	}
	return t
}

// UpdateInterval is the period of the background loops.
func (c Config) UpdateInterval() time.Duration {
	return time.Duration(c.UpdateIntervalSeconds) * time.Second
}
