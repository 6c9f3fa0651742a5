package wizard

import (
	"github.com/charmbracelet/bubbles/textinput"
)

// WizardState represents the current step in the wizard flow
type WizardState int

const (
	StateWelcome WizardState = iota
	StateCheckExisting
	StateEnvironment
	StateTestProvider
	StateToken
	StateMember
	StateAddMember
	StateSchemes
	StateSummary
	StateCreating
	StateDone
	StateError
)

// WizardModel holds the state for the Bubble Tea wizard
type WizardModel struct {
	state WizardState

	// Existing config detection
	existingConfigPath string
	existingEnvNames   []string

	// Environment being configured
	env EnvironmentInput

	// Provider probe
	testingProvider    bool
	providerTestResult string
	providerError      error
	retryChoice        int // 0=retry, 1=edit, 2=skip

	// Organization being configured
	token   TokenInput
	members []MemberInput

	// Add another member choice
	addMemberChoice int // 0=add another, 1=continue

	// Scheme selection
	schemeIndex    int
	schemeSelected []bool

	// Input fields (using bubbletea textinput)
	inputs     []textinput.Model
	focusIndex int

	// Validation
	errors map[string]string

	// Final output
	result *InitResult
	err    error

	// Terminal dimensions
	width  int
	height int
}

// EnvironmentInput holds user input for the deployment environment
type EnvironmentInput struct {
	Name          string
	RPCURL        string
	ChainID       string
	CheckpointURL string
}

// TokenInput holds user input for the organization token
type TokenInput struct {
	OrgName  string
	Name     string
	Symbol   string
	Decimals string
}

// MemberInput holds user input for one founding member
type MemberInput struct {
	Address    string
	Tokens     string
	Reputation string
}

// InitResult contains the outcome of running the wizard
type InitResult struct {
	ConfigPath       string
	ConfigCreated    bool
	ConfigUpdated    bool
	SpecPath         string
	SpecCreated      bool
	EnvFile          string
	GitignoreUpdated bool
}

// SchemeOption represents a selectable governance scheme
type SchemeOption struct {
	ID          string
	DisplayName string
	Description string
	Icon        string
	Default     bool
}

// Available governance schemes
var SchemeOptions = []SchemeOption{
	{
		ID:          "ContributionReward",
		DisplayName: "Contribution Reward",
		Description: "propose and reward contributions",
		Icon:        "🎁",
		Default:     true,
	},
	{
		ID:          "SchemeRegistrar",
		DisplayName: "Scheme Registrar",
		Description: "add or remove schemes by vote",
		Icon:        "🗳",
		Default:     true,
	},
	{
		ID:          "GenericScheme",
		DisplayName: "Generic Scheme",
		Description: "call arbitrary contracts by vote",
		Icon:        "⚙",
		Default:     false,
	},
}
