package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// EnvironmentConfig describes a single named environment from daoforge.toml.
type EnvironmentConfig struct {
	RPCURL         string `toml:"rpc_url"`
	ChainID        int64  `toml:"chain_id"`
	CheckpointURL  string `toml:"checkpoint_url"`
	DefaultAccount string `toml:"default_account"`
}

type Config struct {
	DefaultEnvironment string                       `toml:"default_environment"`
	Environments       map[string]EnvironmentConfig `toml:"environments"`
	ConfigFilePath     string                       `toml:"-"`
}

// ConfigDir returns the directory containing daoforge.toml, or "" when no
// config file was found.
func (c *Config) ConfigDir() string {
	if c == nil || c.ConfigFilePath == "" {
		return ""
	}
	return filepath.Dir(c.ConfigFilePath)
}

// LoadConfig searches upward from the working directory for daoforge.toml,
// stopping at a project-root marker. A missing file is not an error; an
// empty Config is returned.
func LoadConfig() (*Config, error) {
	startDir, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	dir := startDir
	for {
		configPath := filepath.Join(dir, "daoforge.toml")
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, err
			}

			var config Config
			if err := toml.Unmarshal(data, &config); err != nil {
				return nil, err
			}

			config.ConfigFilePath = configPath
			return &config, nil
		}

		if isProjectRoot(dir) {
			break
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}

	return &Config{}, nil
}

// isProjectRoot checks if the directory is a project root based on common markers
func isProjectRoot(dir string) bool {
	if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
		return true
	}
	if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
		return true
	}
	if _, err := os.Stat(filepath.Join(dir, "package.json")); err == nil {
		return true
	}
	return false
}
