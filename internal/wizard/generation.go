package wizard

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/daoforge/daoforge/internal/spec"
)

// GenerateFiles creates daoforge.toml, the dao.json deployment spec, and the
// .env file for the configured environment
func GenerateFiles(env EnvironmentInput, token TokenInput, members []MemberInput, schemes []string) (*InitResult, error) {
	result := &InitResult{}

	// Generate or update daoforge.toml in current directory
	configPath := "daoforge.toml"
	fileExists := false
	if _, err := os.Stat(configPath); err == nil {
		fileExists = true
	}

	if err := generateDaoforgeTOML(configPath, env); err != nil {
		return nil, fmt.Errorf("failed to generate daoforge.toml: %w", err)
	}
	result.ConfigPath = configPath
	if fileExists {
		result.ConfigUpdated = true
	} else {
		result.ConfigCreated = true
	}

	// Generate the deployment spec
	specPath := "dao.json"
	if err := generateSpecFile(specPath, token, members, schemes); err != nil {
		return nil, fmt.Errorf("failed to generate %s: %w", specPath, err)
	}
	result.SpecPath = specPath
	result.SpecCreated = true

	// Generate the .env file
	envFilePath := fmt.Sprintf(".env.%s", env.Name)
	if err := generateEnvFile(envFilePath, env); err != nil {
		return nil, fmt.Errorf("failed to generate %s: %w", envFilePath, err)
	}
	result.EnvFile = envFilePath

	// Update .gitignore
	if err := updateGitignore(); err != nil {
		return nil, fmt.Errorf("failed to update .gitignore: %w", err)
	}
	result.GitignoreUpdated = true

	return result, nil
}

func generateDaoforgeTOML(path string, env EnvironmentInput) error {
	// Load existing config if it exists so other environments survive
	existingEnvs := make(map[string]tomlEnvironment)
	var defaultEnv string

	if data, err := os.ReadFile(path); err == nil {
		var existingConfig struct {
			DefaultEnvironment string                     `toml:"default_environment"`
			Environments       map[string]tomlEnvironment `toml:"environments"`
		}
		if err := toml.Unmarshal(data, &existingConfig); err == nil {
			existingEnvs = existingConfig.Environments
			defaultEnv = existingConfig.DefaultEnvironment
		}
	}

	chainID, _ := strconv.ParseInt(env.ChainID, 10, 64)
	existingEnvs[env.Name] = tomlEnvironment{
		RPCURL:        env.RPCURL,
		ChainID:       chainID,
		CheckpointURL: env.CheckpointURL,
	}

	if defaultEnv == "" {
		defaultEnv = env.Name
	}

	var b strings.Builder

	b.WriteString("# DAOforge Configuration\n")
	b.WriteString("# Generated by: daoforge init\n")
	b.WriteString("#\n")
	b.WriteString("# Config location: Project root (daoforge.toml)\n")
	b.WriteString("# Secrets: Stored in .env.* files (never in this file)\n\n")

	if defaultEnv != "" {
		b.WriteString(fmt.Sprintf("default_environment = %q\n\n", defaultEnv))
	}

	for envName, e := range existingEnvs {
		b.WriteString(fmt.Sprintf("[environments.%s]\n", envName))
		b.WriteString(fmt.Sprintf("rpc_url = %q\n", e.RPCURL))
		if e.ChainID != 0 {
			b.WriteString(fmt.Sprintf("chain_id = %d\n", e.ChainID))
		}
		if e.CheckpointURL != "" {
			b.WriteString(fmt.Sprintf("checkpoint_url = %q\n", e.CheckpointURL))
		}
		b.WriteString("\n")
	}

	return os.WriteFile(path, []byte(b.String()), 0644)
}

// tomlEnvironment represents an environment in the TOML file
type tomlEnvironment struct {
	RPCURL        string `toml:"rpc_url"`
	ChainID       int64  `toml:"chain_id"`
	CheckpointURL string `toml:"checkpoint_url"`
}

func generateSpecFile(path string, token TokenInput, members []MemberInput, schemes []string) error {
	decimals, _ := strconv.Atoi(token.Decimals)

	dao := spec.DAO{
		OrgName: token.OrgName,
		Token: spec.Token{
			Name:     token.Name,
			Symbol:   token.Symbol,
			Decimals: decimals,
		},
	}

	for _, m := range members {
		member := spec.Member{Address: m.Address}
		if m.Tokens != "" {
			member.Tokens, _ = strconv.ParseFloat(m.Tokens, 64)
		}
		if m.Reputation != "" {
			member.Reputation, _ = strconv.ParseFloat(m.Reputation, 64)
		}
		dao.Members = append(dao.Members, member)
	}

	for _, kind := range schemes {
		dao.Schemes = append(dao.Schemes, spec.Scheme{Kind: kind})
	}

	data, err := json.MarshalIndent(&dao, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal spec: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

func generateEnvFile(path string, env EnvironmentInput) error {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("# DAOforge Environment: %s\n", env.Name))
	b.WriteString("# Generated by: daoforge init\n")
	b.WriteString("#\n")
	b.WriteString("# Do not commit this file if it contains secrets!\n")
	b.WriteString("#\n")
	b.WriteString(fmt.Sprintf("RPC_URL=%s\n", env.RPCURL))
	b.WriteString(fmt.Sprintf("CHAIN_ID=%s\n", env.ChainID))
	if env.CheckpointURL != "" {
		b.WriteString(fmt.Sprintf("CHECKPOINT_URL=%s\n", env.CheckpointURL))
	}
	b.WriteString("# Account used to sign deployment transactions\n")
	b.WriteString("DEFAULT_ACCOUNT=\n")

	return os.WriteFile(path, []byte(b.String()), 0600)
}

func updateGitignore() error {
	const gitignorePath = ".gitignore"
	entries := []string{".env.*", ".daoforge-checkpoint.json"}

	var content string
	if data, err := os.ReadFile(gitignorePath); err == nil {
		content = string(data)
	} else if !os.IsNotExist(err) {
		return err
	}

	existing := make(map[string]bool)
	for _, line := range strings.Split(content, "\n") {
		existing[strings.TrimSpace(line)] = true
	}

	var toAdd []string
	for _, entry := range entries {
		if !existing[entry] {
			toAdd = append(toAdd, entry)
		}
	}
	if len(toAdd) == 0 {
		return nil
	}

	var b strings.Builder
	b.WriteString(content)
	if content != "" && !strings.HasSuffix(content, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("\n# DAOforge\n")
	for _, entry := range toAdd {
		b.WriteString(entry)
		b.WriteString("\n")
	}

	return os.WriteFile(gitignorePath, []byte(b.String()), 0644)
}
