package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"bankvest/crypto"
)

type Config struct {
	ListenAddress string `toml:"ListenAddress"`
	DataDir       string `toml:"DataDir"`
	Env           string `toml:"Env"`
	// AssetAddress is the bech32 address of the ledger's settlement asset.
	// Empty selects the zero asset, which is fine for single-asset deployments.
	AssetAddress string `toml:"AssetAddress"`

	Logging Logging `toml:"logging"`
	Limits  Limits  `toml:"limits"`
}

type Logging struct {
	File       string `toml:"File"`
	MaxSizeMB  int    `toml:"MaxSizeMB"`
	MaxBackups int    `toml:"MaxBackups"`
	MaxAgeDays int    `toml:"MaxAgeDays"`
}

// Limits caps per-owner product counts. Zero disables the corresponding cap.
type Limits struct {
	MaxVestingSchedules uint32 `toml:"MaxVestingSchedules"`
	MaxActiveLoans      uint32 `toml:"MaxActiveLoans"`
	MaxSavingsAccounts  uint32 `toml:"MaxSavingsAccounts"`
}

// Load loads the configuration from the given path, creating a default file
// when none exists.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Asset resolves the configured settlement asset address.
func (c *Config) Asset() (crypto.Address, error) {
	if strings.TrimSpace(c.AssetAddress) == "" {
		return crypto.Address{}, nil
	}
	return crypto.DecodeAddress(c.AssetAddress)
}

// DatabasePath returns the ledger database location under the data directory.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "ledger.db")
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.ListenAddress) == "" {
		cfg.ListenAddress = ":8080"
	}
	if strings.TrimSpace(cfg.DataDir) == "" {
		cfg.DataDir = "./bankvest-data"
	}
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "local"
	}
}

// createDefault creates and saves a default configuration file.
func createDefault(path string) (*Config, error) {
	cfg := &Config{
		ListenAddress: ":8080",
		DataDir:       "./bankvest-data",
		Env:           "local",
		Limits: Limits{
			MaxVestingSchedules: 10,
			MaxActiveLoans:      5,
			MaxSavingsAccounts:  3,
		},
	}

	if err := persist(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func persist(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
