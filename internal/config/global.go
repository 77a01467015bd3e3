// Package config loads the broker's environment (§6 "Environment
// variables"). Structure grounded on the teacher's GlobalConfig loader
// (file-then-env-override), generalised from a reverse-proxy port to the
// broker's data directory and budget.
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// defaultDataDirName is the leaf of the default data directory,
// "$HOME/.butterknife" (§6).
const defaultDataDirName = ".butterknife"

// BrokerConfig holds the broker's runtime configuration.
type BrokerConfig struct {
	DataDir string `yaml:"dataDir"`
	Budget  int64  `yaml:"budget"`
}

// DefaultBrokerConfig returns the configuration used before any file or
// environment override is applied: data dir "$HOME/.butterknife", budget 0
// (no spend permitted until the operator raises it).
func DefaultBrokerConfig() *BrokerConfig {
	return &BrokerConfig{
		DataDir: DefaultDataDir(),
		Budget:  0,
	}
}

// LoadBroker resolves BrokerConfig from, in increasing priority: built-in
// defaults, an optional "<data_dir>/config.yaml" (read using the default
// data dir, since the file's own contents may relocate it for later
// loads), then the BUTTERKNIFE_DATA_DIR and BUTTERKNIFE_BUDGET environment
// variables (§6). A missing or unparseable file is not an error — the
// broker still starts with whatever defaults/env vars apply.
func LoadBroker() (*BrokerConfig, error) {
	cfg := DefaultBrokerConfig()

	configPath := filepath.Join(cfg.DataDir, "config.yaml")
	if data, err := os.ReadFile(configPath); err == nil {
		_ = yaml.Unmarshal(data, cfg)
	}

	if dir := os.Getenv("BUTTERKNIFE_DATA_DIR"); dir != "" {
		cfg.DataDir = dir
	}
	if budgetStr := os.Getenv("BUTTERKNIFE_BUDGET"); budgetStr != "" {
		if budget, err := strconv.ParseInt(budgetStr, 10, 64); err == nil {
			cfg.Budget = budget
		}
	}

	return cfg, nil
}

// DefaultDataDir returns "$HOME/.butterknife", or "./.butterknife" if the
// home directory cannot be resolved.
func DefaultDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", defaultDataDirName)
	}
	return filepath.Join(homeDir, defaultDataDirName)
}
