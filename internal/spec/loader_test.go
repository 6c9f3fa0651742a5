package spec

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSpecFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write spec file: %v", err)
	}
	return path
}

func TestLoadJSONSpec(t *testing.T) {
	path := writeSpecFile(t, "dao.json", validSpec)

	dao, raw, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if dao.OrgName != "Genesis" {
		t.Errorf("expected org Genesis, got %q", dao.OrgName)
	}
	if dao.Token.Symbol != "GEN" {
		t.Errorf("expected symbol GEN, got %q", dao.Token.Symbol)
	}
	if len(dao.Members) != 1 || len(dao.Schemes) != 1 {
		t.Errorf("expected 1 member and 1 scheme, got %d and %d", len(dao.Members), len(dao.Schemes))
	}
	if len(raw) == 0 {
		t.Error("expected a canonical JSON document")
	}
}

func TestLoadYAMLSpec(t *testing.T) {
	yamlSpec := `orgName: Genesis
token:
  name: Genesis Token
  symbol: GEN
  decimals: 18
members:
  - address: "0x1111111111111111111111111111111111111111"
    tokens: 100
    reputation: 100
schemes:
  - kind: ContributionReward
    params:
      votingMachine: GenesisProtocol
`
	path := writeSpecFile(t, "dao.yaml", yamlSpec)

	dao, _, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if dao.OrgName != "Genesis" {
		t.Errorf("expected org Genesis, got %q", dao.OrgName)
	}
	if dao.Token.Decimals != 18 {
		t.Errorf("expected 18 decimals, got %d", dao.Token.Decimals)
	}
	if dao.Schemes[0].Params["votingMachine"] != "GenesisProtocol" {
		t.Errorf("unexpected scheme params: %v", dao.Schemes[0].Params)
	}
}

func TestLoadYAMLAndJSONAgree(t *testing.T) {
	jsonPath := writeSpecFile(t, "dao.json", validSpec)
	yamlPath := writeSpecFile(t, "dao.yml", `orgName: Genesis
token: {name: Genesis Token, symbol: GEN, decimals: 18}
members:
  - {address: "0x1111111111111111111111111111111111111111", tokens: 100, reputation: 100}
schemes:
  - {kind: ContributionReward, params: {votingMachine: GenesisProtocol}}
`)

	_, fromJSON, err := Load(jsonPath)
	if err != nil {
		t.Fatalf("Load json returned error: %v", err)
	}
	_, fromYAML, err := Load(yamlPath)
	if err != nil {
		t.Fatalf("Load yaml returned error: %v", err)
	}
	if string(fromJSON) != string(fromYAML) {
		t.Errorf("canonical documents differ:\njson: %s\nyaml: %s", fromJSON, fromYAML)
	}
}

func TestLoadInvalidSpecFails(t *testing.T) {
	path := writeSpecFile(t, "dao.json", `{"orgName": "X"}`)

	if _, _, err := Load(path); err == nil {
		t.Fatal("expected validation error, got nil")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeSpecFile(t, "dao.yaml", "orgName: [unclosed")

	if _, _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed YAML, got nil")
	}
}
