package wizard

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// New creates a new wizard model
func New() WizardModel {
	return WizardModel{
		state:   StateWelcome,
		members: []MemberInput{},
		errors:  make(map[string]string),
		inputs:  []textinput.Model{},
	}
}

// Init initializes the wizard (Bubble Tea Init)
func (m WizardModel) Init() tea.Cmd {
	return checkForExistingConfig
}

// Update handles state transitions (Bubble Tea Update)
func (m WizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "enter":
			return m.handleEnter()

		case "up", "k":
			return m.handleUp()

		case "down", "j":
			return m.handleDown()

		case "tab":
			return m.handleTab()

		case " ":
			return m.handleSpace(msg)

		default:
			// Handle text input
			return m.handleTextInput(msg)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case providerTestResultMsg:
		m.testingProvider = false
		if msg.err != nil {
			m.providerError = msg.err
			m.providerTestResult = "failed"
		} else {
			m.providerTestResult = "success"
			m.providerError = nil
		}
		return m, nil

	case fileCreationResultMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = StateError
			return m, nil
		}
		m.result = msg.result
		m.state = StateDone
		return m, nil

	case existingConfigMsg:
		if msg.path != "" {
			// Found existing config
			m.existingConfigPath = msg.path
			m.existingEnvNames = msg.envNames
			m.state = StateCheckExisting
		} else {
			// No existing config, go to welcome
			m.state = StateWelcome
		}
		return m, nil
	}

	return m, nil
}

// View renders the wizard UI (Bubble Tea View)
func (m WizardModel) View() string {
	switch m.state {
	case StateWelcome:
		return m.renderWelcome()
	case StateCheckExisting:
		return m.renderCheckExisting()
	case StateEnvironment:
		return m.renderEnvironment()
	case StateTestProvider:
		return m.renderTestProvider()
	case StateToken:
		return m.renderToken()
	case StateMember:
		return m.renderMember()
	case StateAddMember:
		return m.renderAddMember()
	case StateSchemes:
		return m.renderSchemes()
	case StateSummary:
		return m.renderSummary()
	case StateCreating:
		return m.renderCreating()
	case StateDone:
		return m.renderDone()
	case StateError:
		return m.renderError()
	default:
		return "Unknown state"
	}
}

// State transition handlers

func (m WizardModel) handleEnter() (tea.Model, tea.Cmd) {
	switch m.state {
	case StateWelcome, StateCheckExisting:
		m.state = StateEnvironment
		m.initializeEnvironmentInputs()
		return m, nil

	case StateEnvironment:
		if err := m.collectEnvironmentValues(); err != nil {
			return m, nil
		}
		m.state = StateTestProvider
		m.testingProvider = true
		return m, m.testProvider()

	case StateTestProvider:
		switch m.providerTestResult {
		case "success":
			m.state = StateToken
			m.initializeTokenInputs()
			return m, nil
		case "failed":
			// Handle retry choice
			switch m.retryChoice {
			case 0: // Retry
				m.providerTestResult = ""
				m.providerError = nil
				m.testingProvider = true
				return m, m.testProvider()
			case 1: // Edit
				m.state = StateEnvironment
				m.providerTestResult = ""
				m.providerError = nil
				m.retryChoice = 0
				return m, nil
			case 2: // Continue anyway
				m.providerTestResult = ""
				m.providerError = nil
				m.retryChoice = 0
				m.state = StateToken
				m.initializeTokenInputs()
				return m, nil
			}
		}
		return m, nil

	case StateToken:
		if err := m.collectTokenValues(); err != nil {
			return m, nil
		}
		m.state = StateMember
		m.initializeMemberInputs()
		return m, nil

	case StateMember:
		member, err := m.collectMemberValues()
		if err != nil {
			return m, nil
		}
		m.members = append(m.members, member)
		m.addMemberChoice = 0
		m.state = StateAddMember
		return m, nil

	case StateAddMember:
		if m.addMemberChoice == 0 {
			m.state = StateMember
			m.initializeMemberInputs()
			return m, nil
		}
		m.state = StateSchemes
		m.initializeSchemeSelection()
		return m, nil

	case StateSchemes:
		m.state = StateSummary
		return m, nil

	case StateSummary:
		m.state = StateCreating
		return m, m.createFiles()

	case StateDone:
		return m, tea.Quit

	case StateError:
		return m, tea.Quit
	}

	return m, nil
}

func (m WizardModel) handleUp() (tea.Model, tea.Cmd) {
	switch m.state {
	case StateEnvironment, StateToken, StateMember:
		if m.focusIndex > 0 {
			m.focusIndex--
			m.updateInputFocus()
		}
	case StateTestProvider:
		if m.providerTestResult == "failed" && m.retryChoice > 0 {
			m.retryChoice--
		}
	case StateAddMember:
		if m.addMemberChoice > 0 {
			m.addMemberChoice--
		}
	case StateSchemes:
		if m.schemeIndex > 0 {
			m.schemeIndex--
		}
	}
	return m, nil
}

func (m WizardModel) handleDown() (tea.Model, tea.Cmd) {
	switch m.state {
	case StateEnvironment, StateToken, StateMember:
		if m.focusIndex < len(m.inputs)-1 {
			m.focusIndex++
			m.updateInputFocus()
		}
	case StateTestProvider:
		if m.providerTestResult == "failed" && m.retryChoice < 2 {
			m.retryChoice++
		}
	case StateAddMember:
		if m.addMemberChoice < 1 {
			m.addMemberChoice++
		}
	case StateSchemes:
		if m.schemeIndex < len(SchemeOptions)-1 {
			m.schemeIndex++
		}
	}
	return m, nil
}

func (m WizardModel) handleTab() (tea.Model, tea.Cmd) {
	switch m.state {
	case StateEnvironment, StateToken, StateMember:
		if len(m.inputs) > 0 {
			m.focusIndex = (m.focusIndex + 1) % len(m.inputs)
			m.updateInputFocus()
		}
	}
	return m, nil
}

func (m WizardModel) handleSpace(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.state == StateSchemes {
		m.schemeSelected[m.schemeIndex] = !m.schemeSelected[m.schemeIndex]
		return m, nil
	}
	return m.handleTextInput(msg)
}

func (m WizardModel) handleTextInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state {
	case StateEnvironment, StateToken, StateMember:
		if len(m.inputs) > 0 {
			var cmd tea.Cmd
			m.inputs[m.focusIndex], cmd = m.inputs[m.focusIndex].Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// Input management

func (m *WizardModel) initializeEnvironmentInputs() {
	m.inputs = []textinput.Model{
		m.makeInput("Environment name", "local"),
		m.makeInput("RPC URL", "http://localhost:8545"),
		m.makeInput("Chain ID", "1337"),
		m.makeInput("Checkpoint URL", ".daoforge-checkpoint.json"),
	}
	m.focusIndex = 0
	m.inputs[0].Focus()
}

func (m *WizardModel) initializeTokenInputs() {
	m.inputs = []textinput.Model{
		m.makeInput("Organization name", ""),
		m.makeInput("Token name", ""),
		m.makeInput("Token symbol", ""),
		m.makeInput("Token decimals", "18"),
	}
	m.focusIndex = 0
	m.inputs[0].Focus()
}

func (m *WizardModel) initializeMemberInputs() {
	m.inputs = []textinput.Model{
		m.makeInput("Member address (0x…)", ""),
		m.makeInput("Token allocation", "0"),
		m.makeInput("Reputation allocation", "100"),
	}
	m.focusIndex = 0
	m.inputs[0].Focus()
}

func (m *WizardModel) initializeSchemeSelection() {
	m.schemeIndex = 0
	m.schemeSelected = make([]bool, len(SchemeOptions))
	for i, opt := range SchemeOptions {
		m.schemeSelected[i] = opt.Default
	}
}

func (m *WizardModel) makeInput(placeholder, value string) textinput.Model {
	input := textinput.New()
	input.Placeholder = placeholder
	input.SetValue(value)
	return input
}

func (m *WizardModel) updateInputFocus() {
	for i := range m.inputs {
		if i == m.focusIndex {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

func (m *WizardModel) collectEnvironmentValues() error {
	if len(m.inputs) < 4 {
		return fmt.Errorf("not enough inputs")
	}
	m.env.Name = strings.TrimSpace(m.inputs[0].Value())
	m.env.RPCURL = strings.TrimSpace(m.inputs[1].Value())
	m.env.ChainID = strings.TrimSpace(m.inputs[2].Value())
	m.env.CheckpointURL = strings.TrimSpace(m.inputs[3].Value())

	m.errors = make(map[string]string)
	if err := ValidateEnvironmentName(m.env.Name); err != nil {
		m.errors["name"] = err.Error()
		return err
	}
	if err := ValidateRPCURL(m.env.RPCURL); err != nil {
		m.errors["rpc_url"] = err.Error()
		return err
	}
	if err := ValidateChainID(m.env.ChainID); err != nil {
		m.errors["chain_id"] = err.Error()
		return err
	}

	return nil
}

func (m *WizardModel) collectTokenValues() error {
	if len(m.inputs) < 4 {
		return fmt.Errorf("not enough inputs")
	}
	m.token.OrgName = strings.TrimSpace(m.inputs[0].Value())
	m.token.Name = strings.TrimSpace(m.inputs[1].Value())
	m.token.Symbol = strings.TrimSpace(m.inputs[2].Value())
	m.token.Decimals = strings.TrimSpace(m.inputs[3].Value())

	m.errors = make(map[string]string)
	if err := ValidateOrgName(m.token.OrgName); err != nil {
		m.errors["org_name"] = err.Error()
		return err
	}
	if err := ValidateTokenName(m.token.Name); err != nil {
		m.errors["token_name"] = err.Error()
		return err
	}
	if err := ValidateTokenSymbol(m.token.Symbol); err != nil {
		m.errors["symbol"] = err.Error()
		return err
	}
	if err := ValidateDecimals(m.token.Decimals); err != nil {
		m.errors["decimals"] = err.Error()
		return err
	}

	return nil
}

func (m *WizardModel) collectMemberValues() (MemberInput, error) {
	var member MemberInput
	if len(m.inputs) < 3 {
		return member, fmt.Errorf("not enough inputs")
	}
	member.Address = strings.TrimSpace(m.inputs[0].Value())
	member.Tokens = strings.TrimSpace(m.inputs[1].Value())
	member.Reputation = strings.TrimSpace(m.inputs[2].Value())

	m.errors = make(map[string]string)
	if err := ValidateAddress(member.Address); err != nil {
		m.errors["address"] = err.Error()
		return member, err
	}
	for _, existing := range m.members {
		if strings.EqualFold(existing.Address, member.Address) {
			err := fmt.Errorf("address already added")
			m.errors["address"] = err.Error()
			return member, err
		}
	}
	if err := ValidateAmount(member.Tokens); err != nil {
		m.errors["tokens"] = err.Error()
		return member, err
	}
	if err := ValidateAmount(member.Reputation); err != nil {
		m.errors["reputation"] = err.Error()
		return member, err
	}

	return member, nil
}

func (m WizardModel) selectedSchemes() []string {
	var kinds []string
	for i, opt := range SchemeOptions {
		if i < len(m.schemeSelected) && m.schemeSelected[i] {
			kinds = append(kinds, opt.ID)
		}
	}
	return kinds
}

// Message types for async operations

type providerTestResultMsg struct {
	err error
}

func (m WizardModel) testProvider() tea.Cmd {
	rpcURL := m.env.RPCURL
	return func() tea.Msg {
		return providerTestResultMsg{err: TestProvider(rpcURL)}
	}
}

type fileCreationResultMsg struct {
	result *InitResult
	err    error
}

func (m WizardModel) createFiles() tea.Cmd {
	env := m.env
	token := m.token
	members := append([]MemberInput(nil), m.members...)
	schemes := m.selectedSchemes()
	return func() tea.Msg {
		result, err := GenerateFiles(env, token, members, schemes)
		return fileCreationResultMsg{result: result, err: err}
	}
}

type existingConfigMsg struct {
	path     string
	envNames []string
}

func checkForExistingConfig() tea.Msg {
	configPath := "daoforge.toml"
	envNames, err := getEnvironmentNames(configPath)
	if err == nil && len(envNames) > 0 {
		return existingConfigMsg{path: configPath, envNames: envNames}
	}

	// No existing config
	return existingConfigMsg{}
}

func getEnvironmentNames(configPath string) ([]string, error) {
	// Simple TOML parsing to extract environment names
	// We look for [environments.NAME] sections
	content, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var envNames []string
	lines := strings.Split(string(content), "\n")
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "[environments.") && strings.HasSuffix(line, "]") {
			envName := strings.TrimPrefix(line, "[environments.")
			envName = strings.TrimSuffix(envName, "]")
			envNames = append(envNames, envName)
		}
	}

	return envNames, nil
}

// View renderers

func (m WizardModel) renderWelcome() string {
	var b strings.Builder

	b.WriteString(renderHeader("DAOforge Init Wizard"))
	b.WriteString("\n\n")
	b.WriteString("Welcome! Let's set up a new organization.\n\n")
	b.WriteString(renderInfo("This wizard will help you:\n" +
		"  • Configure a deployment environment\n" +
		"  • Describe your organization's token and founders\n" +
		"  • Pick the governance schemes to deploy"))
	b.WriteString("\n\n")
	b.WriteString(renderStatusBar("Press Enter to continue, q to quit"))

	return borderStyle.Render(b.String())
}

func (m WizardModel) renderCheckExisting() string {
	var b strings.Builder

	b.WriteString(renderHeader("DAOforge Init Wizard"))
	b.WriteString("\n\n")
	b.WriteString(renderSuccess("Found existing configuration!"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Config: %s\n", m.existingConfigPath))
	b.WriteString(fmt.Sprintf("Environments: %s\n", strings.Join(m.existingEnvNames, ", ")))
	b.WriteString("\n\n")
	b.WriteString(renderInfo("Continuing will add or update an environment\nand write a fresh deployment spec."))
	b.WriteString("\n\n")
	b.WriteString(renderStatusBar("Press Enter to continue, q to quit"))

	return borderStyle.Render(b.String())
}

func (m WizardModel) renderInputs(section, tip, status string) string {
	var b strings.Builder

	b.WriteString(renderHeader("DAOforge Init Wizard"))
	b.WriteString("\n\n")
	b.WriteString(renderSectionHeader(section))
	b.WriteString("\n\n")

	for i, input := range m.inputs {
		label := input.Placeholder
		if i == m.focusIndex {
			b.WriteString(selectedStyle.Render("► " + label + ":"))
		} else {
			b.WriteString(labelStyle.Render("  " + label + ":"))
		}
		b.WriteString("\n  ")
		b.WriteString(input.View())
		b.WriteString("\n\n")
	}

	// Show validation errors
	if len(m.errors) > 0 {
		for _, errMsg := range m.errors {
			b.WriteString(renderError(errMsg))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if tip != "" {
		b.WriteString(renderInfo(tip))
		b.WriteString("\n\n")
	}
	b.WriteString(renderStatusBar(status))

	return borderStyle.Render(b.String())
}

func (m WizardModel) renderEnvironment() string {
	return m.renderInputs(
		"Deployment Environment",
		"The checkpoint URL stores resumable deployment\nprogress. A file path, SQLite database, or\npostgres:// URL all work.",
		"↑/↓ or Tab: navigate  Enter: test provider  q: quit",
	)
}

func (m WizardModel) renderTestProvider() string {
	var b strings.Builder

	b.WriteString(renderHeader("DAOforge Init Wizard"))
	b.WriteString("\n\n")
	b.WriteString(renderSectionHeader("Testing Provider"))
	b.WriteString("\n\n")

	if m.testingProvider {
		b.WriteString(infoStyle.Render(iconSpinner + " Probing RPC endpoint..."))
	} else if m.providerTestResult == "success" {
		b.WriteString(renderSuccess("Provider reachable!"))
		b.WriteString("\n\n")
		b.WriteString("Endpoint: " + m.env.RPCURL)
	} else if m.providerTestResult == "failed" {
		b.WriteString(renderError("No provider available"))
		b.WriteString("\n\n")
		if m.providerError != nil {
			b.WriteString(errorStyle.Render("Error: " + m.providerError.Error()))
		}
		b.WriteString("\n\n")
		b.WriteString("What would you like to do?\n\n")
		b.WriteString(renderOption(m.retryChoice == 0, "Retry probe"))
		b.WriteString("\n")
		b.WriteString(renderOption(m.retryChoice == 1, "Edit environment details"))
		b.WriteString("\n")
		b.WriteString(renderOption(m.retryChoice == 2, "Continue anyway"))
		b.WriteString("\n")
	}

	b.WriteString("\n\n")
	if m.providerTestResult == "failed" {
		b.WriteString(renderStatusBar("↑/↓: navigate  Enter: select  q: quit"))
	} else {
		b.WriteString(renderStatusBar("Press Enter to continue"))
	}

	return borderStyle.Render(b.String())
}

func (m WizardModel) renderToken() string {
	return m.renderInputs(
		"Organization & Token",
		"The token symbol appears in wallets;\nuppercase letters and numbers only.",
		"↑/↓ or Tab: navigate  Enter: continue  q: quit",
	)
}

func (m WizardModel) renderMember() string {
	tip := "Founding members receive the initial token and\nreputation allocations."
	if len(m.members) > 0 {
		tip = fmt.Sprintf("%d member(s) added so far.", len(m.members))
	}
	return m.renderInputs(
		"Founding Member",
		tip,
		"↑/↓ or Tab: navigate  Enter: add member  q: quit",
	)
}

func (m WizardModel) renderAddMember() string {
	var b strings.Builder

	b.WriteString(renderHeader("DAOforge Init Wizard"))
	b.WriteString("\n\n")
	b.WriteString(renderSectionHeader("Add Another Member?"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("✓ Added member: %s\n\n", m.members[len(m.members)-1].Address))
	b.WriteString(renderOption(m.addMemberChoice == 0, "Add another member"))
	b.WriteString("\n")
	b.WriteString(renderOption(m.addMemberChoice == 1, "Continue to schemes"))
	b.WriteString("\n\n")
	b.WriteString(renderStatusBar("↑/↓: navigate  Enter: select  q: quit"))

	return borderStyle.Render(b.String())
}

func (m WizardModel) renderSchemes() string {
	var b strings.Builder

	b.WriteString(renderHeader("DAOforge Init Wizard"))
	b.WriteString("\n\n")
	b.WriteString(renderSectionHeader("Governance Schemes"))
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Which schemes should the organization deploy?"))
	b.WriteString("\n\n")

	for i, opt := range SchemeOptions {
		check := "[ ]"
		if i < len(m.schemeSelected) && m.schemeSelected[i] {
			check = "[x]"
		}
		line := fmt.Sprintf("%s %s %s (%s)", check, opt.Icon, opt.DisplayName, opt.Description)
		b.WriteString(renderOption(i == m.schemeIndex, line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(renderInfo("Contribution Reward and Scheme Registrar cover\nmost organizations; Generic Scheme is for\nadvanced setups."))
	b.WriteString("\n\n")
	b.WriteString(renderStatusBar("↑/↓: navigate  Space: toggle  Enter: continue  q: quit"))

	return borderStyle.Render(b.String())
}

func (m WizardModel) renderSummary() string {
	var b strings.Builder

	b.WriteString(renderHeader("DAOforge Init Wizard"))
	b.WriteString("\n\n")
	b.WriteString(renderSectionHeader("Summary"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Organization: %s\n", m.token.OrgName))
	b.WriteString(fmt.Sprintf("Token: %s (%s)\n", m.token.Name, m.token.Symbol))
	b.WriteString(fmt.Sprintf("Members: %d\n", len(m.members)))
	b.WriteString(fmt.Sprintf("Schemes: %s\n", strings.Join(m.selectedSchemes(), ", ")))
	b.WriteString(fmt.Sprintf("Environment: %s (%s)\n", m.env.Name, m.env.RPCURL))

	b.WriteString("\n")
	b.WriteString("This will create:\n")
	b.WriteString("  • daoforge.toml\n")
	b.WriteString("  • dao.json\n")
	b.WriteString(fmt.Sprintf("  • .env.%s\n", m.env.Name))
	b.WriteString("  • Update .gitignore\n")

	b.WriteString("\n\n")
	b.WriteString(renderStatusBar("Press Enter to create files, q to quit"))

	return borderStyle.Render(b.String())
}

func (m WizardModel) renderCreating() string {
	var b strings.Builder

	b.WriteString(renderHeader("DAOforge Init Wizard"))
	b.WriteString("\n\n")
	b.WriteString(infoStyle.Render(iconSpinner + " Writing project files..."))

	return borderStyle.Render(b.String())
}

func (m WizardModel) renderDone() string {
	var b strings.Builder

	b.WriteString(renderHeader("DAOforge Init Wizard"))
	b.WriteString("\n\n")
	b.WriteString(renderSuccess("Setup complete!"))
	b.WriteString("\n\n")

	if m.result != nil {
		b.WriteString("Created:\n")
		if m.result.ConfigCreated || m.result.ConfigUpdated {
			b.WriteString(fmt.Sprintf("  %s %s\n", iconCheck, m.result.ConfigPath))
		}
		if m.result.SpecCreated {
			b.WriteString(fmt.Sprintf("  %s %s\n", iconCheck, m.result.SpecPath))
		}
		if m.result.EnvFile != "" {
			b.WriteString(fmt.Sprintf("  %s %s\n", iconCheck, m.result.EnvFile))
		}
		if m.result.GitignoreUpdated {
			b.WriteString(fmt.Sprintf("  %s .gitignore updated\n", iconCheck))
		}
	}

	b.WriteString("\n")
	b.WriteString(renderInfo("Ready to deploy your organization!\n" +
		"  Run: daoforge deploy dao.json\n\n" +
		"  Progress is checkpointed; an interrupted\n" +
		"  deployment resumes where it left off."))
	b.WriteString("\n\n")
	b.WriteString("Next steps:\n")
	b.WriteString("  1. Review dao.json and adjust allocations\n")
	b.WriteString("  2. Run: daoforge validate dao.json\n")
	b.WriteString("  3. Run: daoforge deploy dao.json\n")

	b.WriteString("\n\n")
	b.WriteString(renderStatusBar("Press Enter to exit"))

	return borderStyle.Render(b.String())
}

func (m WizardModel) renderError() string {
	var b strings.Builder

	b.WriteString(renderHeader("DAOforge Init Wizard"))
	b.WriteString("\n\n")
	b.WriteString(renderError("An error occurred"))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
	}

	b.WriteString("\n\n")
	b.WriteString(renderStatusBar("Press Enter to exit"))

	return borderStyle.Render(b.String())
}

// Run starts the wizard
func Run() error {
	p := tea.NewProgram(New())
	_, err := p.Run()
	return err
}
