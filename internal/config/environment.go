package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const defaultEnvironmentName = "local"

// ResolvedEnvironment represents a fully-resolved environment with concrete
// values: TOML config overlaid with the matching .env.<name> file.
type ResolvedEnvironment struct {
	Name           string
	RPCURL         string
	ChainID        int64
	CheckpointURL  string
	DefaultAccount string
	FromConfig     bool
	FromDotenv     bool
	DotenvPath     string
}

// ResolveEnvironment resolves a named environment into concrete values. An
// empty name falls back to the config's default_environment, then "local".
// Values from .env.<name> (RPC_URL, CHAIN_ID, CHECKPOINT_URL,
// DEFAULT_ACCOUNT) fill in anything the TOML left blank.
func ResolveEnvironment(config *Config, name string) (*ResolvedEnvironment, error) {
	envName := strings.TrimSpace(name)
	if envName == "" {
		if config != nil && config.DefaultEnvironment != "" {
			envName = config.DefaultEnvironment
		} else {
			envName = defaultEnvironmentName
		}
	}

	var (
		envConfig EnvironmentConfig
		envExists bool
	)
	if config != nil && config.Environments != nil {
		if cfg, ok := config.Environments[envName]; ok {
			envConfig = cfg
			envExists = true
		}
	}

	resolved := &ResolvedEnvironment{
		Name:           envName,
		RPCURL:         envConfig.RPCURL,
		ChainID:        envConfig.ChainID,
		CheckpointURL:  envConfig.CheckpointURL,
		DefaultAccount: envConfig.DefaultAccount,
		FromConfig:     envExists,
	}

	var baseDir string
	dotenvFileName := ".env." + envName
	if config != nil && config.ConfigDir() != "" {
		baseDir = config.ConfigDir()
	} else if cwd, err := os.Getwd(); err == nil {
		baseDir = cwd
	}

	if baseDir != "" {
		resolved.DotenvPath = filepath.Join(baseDir, dotenvFileName)
	} else {
		resolved.DotenvPath = dotenvFileName
	}

	if info, err := os.Stat(resolved.DotenvPath); err == nil && !info.IsDir() {
		values, err := godotenv.Read(resolved.DotenvPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", resolved.DotenvPath, err)
		}
		resolved.FromDotenv = true

		if resolved.RPCURL == "" {
			if value := values["RPC_URL"]; value != "" {
				resolved.RPCURL = value
			}
		}
		if resolved.ChainID == 0 {
			if value := values["CHAIN_ID"]; value != "" {
				chainID, err := strconv.ParseInt(value, 10, 64)
				if err != nil {
					return nil, fmt.Errorf("invalid CHAIN_ID in %s: %w", resolved.DotenvPath, err)
				}
				resolved.ChainID = chainID
			}
		}
		if resolved.CheckpointURL == "" {
			if value := values["CHECKPOINT_URL"]; value != "" {
				resolved.CheckpointURL = value
			}
		}
		if resolved.DefaultAccount == "" {
			if value := values["DEFAULT_ACCOUNT"]; value != "" {
				resolved.DefaultAccount = value
			}
		}
	} else if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to access %s: %w", resolved.DotenvPath, err)
	}

	if config != nil && len(config.Environments) > 0 && !envExists && !resolved.FromDotenv {
		return nil, fmt.Errorf("environment %q not defined in daoforge.toml and %s not found", envName, resolved.DotenvPath)
	}

	return resolved, nil
}
