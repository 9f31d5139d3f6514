package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Supported database backends.
const (
	BackendMemory  = "memory"
	BackendLevelDB = "leveldb"
	BackendBolt    = "bolt"
)

type Config struct {
	DataDir      string `toml:"DataDir"`
	DBBackend    string `toml:"DBBackend"`
	AdminAddress string `toml:"AdminAddress"`
	GenesisFile  string `toml:"GenesisFile"`
	ServiceName  string `toml:"ServiceName"`
	Environment  string `toml:"Environment"`
	LogFile      string `toml:"LogFile"`
}

// Load loads the configuration from the given path, creating a default
// file when none exists.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects unknown backend names and, for persistent backends, a
// missing data directory setting.
func (c *Config) Validate() error {
	switch c.DBBackend {
	case BackendMemory:
	case BackendLevelDB, BackendBolt:
		if strings.TrimSpace(c.DataDir) == "" {
			return fmt.Errorf("DataDir required for %s backend", c.DBBackend)
		}
	default:
		return fmt.Errorf("unknown DBBackend %q", c.DBBackend)
	}
	return nil
}

// DatabasePath resolves the backend-specific on-disk location under the
// data directory.
func (c *Config) DatabasePath() string {
	if c.DBBackend == BackendBolt {
		return filepath.Join(c.DataDir, "ledger.db")
	}
	return filepath.Join(c.DataDir, "ledger")
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.DBBackend) == "" {
		cfg.DBBackend = BackendLevelDB
	}
	cfg.DBBackend = strings.ToLower(strings.TrimSpace(cfg.DBBackend))
	if strings.TrimSpace(cfg.ServiceName) == "" {
		cfg.ServiceName = "arcledger"
	}
}

// createDefault creates and saves a default configuration file.
func createDefault(path string) (*Config, error) {
	cfg := &Config{
		DataDir:     "./ledger-data",
		DBBackend:   BackendLevelDB,
		GenesisFile: "",
		ServiceName: "arcledger",
		Environment: "local",
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
