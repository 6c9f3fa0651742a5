package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestResolveEnvironmentFromConfig(t *testing.T) {
	cfg := &Config{
		Environments: map[string]EnvironmentConfig{
			"staging": {
				RPCURL:         "https://rpc.staging.example.com",
				ChainID:        11155111,
				CheckpointURL:  "checkpoints.db",
				DefaultAccount: "0x1111111111111111111111111111111111111111",
			},
		},
	}

	env, err := ResolveEnvironment(cfg, "staging")
	if err != nil {
		t.Fatalf("ResolveEnvironment returned error: %v", err)
	}
	if env.Name != "staging" {
		t.Errorf("expected name staging, got %q", env.Name)
	}
	if !env.FromConfig {
		t.Error("expected FromConfig to be set")
	}
	if env.RPCURL != "https://rpc.staging.example.com" || env.ChainID != 11155111 {
		t.Errorf("unexpected environment %+v", env)
	}
}

func TestResolveEnvironmentDefaultName(t *testing.T) {
	tests := []struct {
		name     string
		cfg      *Config
		wantName string
	}{
		{"nil config", nil, "local"},
		{"empty config", &Config{}, "local"},
		{"configured default", &Config{DefaultEnvironment: "prod"}, "prod"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changeToDir(t, t.TempDir())
			env, err := ResolveEnvironment(tt.cfg, "")
			if err != nil {
				t.Fatalf("ResolveEnvironment returned error: %v", err)
			}
			if env.Name != tt.wantName {
				t.Errorf("expected name %q, got %q", tt.wantName, env.Name)
			}
		})
	}
}

func TestResolveEnvironmentUnknownName(t *testing.T) {
	changeToDir(t, t.TempDir())
	cfg := &Config{
		Environments: map[string]EnvironmentConfig{
			"local": {RPCURL: "http://localhost:8545"},
		},
	}

	_, err := ResolveEnvironment(cfg, "production")
	if err == nil {
		t.Fatal("expected error for unknown environment, got nil")
	}
	if !strings.Contains(err.Error(), "production") {
		t.Errorf("error should name the environment: %v", err)
	}
}

func TestResolveEnvironmentDotenvOverlay(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "daoforge.toml"), `[environments.local]
chain_id = 1337
`)
	writeFile(t, filepath.Join(dir, ".env.local"), `RPC_URL=http://localhost:8545
CHAIN_ID=99999
CHECKPOINT_URL=checkpoints.db
DEFAULT_ACCOUNT=0x2222222222222222222222222222222222222222
`)

	cfg := &Config{
		Environments: map[string]EnvironmentConfig{
			"local": {ChainID: 1337},
		},
		ConfigFilePath: filepath.Join(dir, "daoforge.toml"),
	}

	env, err := ResolveEnvironment(cfg, "local")
	if err != nil {
		t.Fatalf("ResolveEnvironment returned error: %v", err)
	}
	if !env.FromDotenv {
		t.Error("expected FromDotenv to be set")
	}
	// Dotenv only fills blanks; TOML wins where both define a value
	if env.ChainID != 1337 {
		t.Errorf("expected TOML chain id 1337, got %d", env.ChainID)
	}
	if env.RPCURL != "http://localhost:8545" {
		t.Errorf("expected dotenv rpc url, got %q", env.RPCURL)
	}
	if env.CheckpointURL != "checkpoints.db" {
		t.Errorf("expected dotenv checkpoint url, got %q", env.CheckpointURL)
	}
	if env.DefaultAccount != "0x2222222222222222222222222222222222222222" {
		t.Errorf("expected dotenv account, got %q", env.DefaultAccount)
	}
}

func TestResolveEnvironmentDotenvOnly(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".env.ephemeral"), "RPC_URL=http://localhost:9545\n")
	changeToDir(t, dir)

	// Config defines other environments but not this one; the dotenv file
	// alone makes it resolvable
	cfg := &Config{
		Environments: map[string]EnvironmentConfig{
			"local": {RPCURL: "http://localhost:8545"},
		},
	}

	env, err := ResolveEnvironment(cfg, "ephemeral")
	if err != nil {
		t.Fatalf("ResolveEnvironment returned error: %v", err)
	}
	if env.FromConfig {
		t.Error("expected FromConfig to be false")
	}
	if !env.FromDotenv {
		t.Error("expected FromDotenv to be set")
	}
	if env.RPCURL != "http://localhost:9545" {
		t.Errorf("unexpected rpc url %q", env.RPCURL)
	}
}

func TestResolveEnvironmentInvalidChainID(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".env.local"), "CHAIN_ID=not-a-number\n")
	changeToDir(t, dir)

	_, err := ResolveEnvironment(&Config{}, "local")
	if err == nil {
		t.Fatal("expected error for invalid CHAIN_ID, got nil")
	}
	if !strings.Contains(err.Error(), "CHAIN_ID") {
		t.Errorf("error should mention CHAIN_ID: %v", err)
	}
}
