package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/bubbledock/internal/config"
	"github.com/1broseidon/bubbledock/internal/ipc"
)

// model is the root bubbletea model for the TUI.
type model struct {
	configPath string
	result     *config.LoadResult
	loadErr    error
	ipcClient  *ipc.Client

	// Tab navigation
	activeTab Tab
	tabs      [tabCount]SettingsTab

	// Save overlay
	originalConfig *config.Config
	saveOverlay    SaveOverlay

	// Daemon state; nil when the daemon is not reachable
	status *ipc.StatusData

	// Terminal dimensions
	width  int
	height int
}

func newModel(configPath string, client *ipc.Client) model {
	m := model{
		configPath: configPath,
		activeTab:  TabGeneral,
		ipcClient:  client,
	}

	m.loadConfig()

	// Snapshot original config for diff preview on save
	var cfg *config.Config
	if m.result != nil {
		cfg = m.result.Config
		m.originalConfig = cloneConfig(cfg)
	}

	m.refreshDaemonStatus()

	m.tabs[TabGeneral] = NewSettingsTab(TabGeneral.String(), generalFields(), cfg)
	m.tabs[TabBubble] = NewSettingsTab(TabBubble.String(), bubbleFields(), cfg)
	m.tabs[TabMain] = NewSettingsTab(TabMain.String(), mainFields(), cfg)
	m.tabs[TabGeometry] = NewSettingsTab(TabGeometry.String(), geometryFields(), cfg)
	m.tabs[TabGeometry].footer = summarizeDock

	return m
}

func (m *model) loadConfig() {
	var res *config.LoadResult
	var err error

	if m.configPath == "" {
		res, err = config.LoadWithSources()
	} else {
		res, err = config.LoadFromPath(m.configPath)
	}

	if err != nil {
		m.loadErr = err
		return
	}
	m.result = res
	if m.configPath == "" {
		m.configPath = res.Path
	}
}

func (m *model) refreshDaemonStatus() {
	if m.ipcClient == nil {
		m.status = nil
		return
	}
	status, err := m.ipcClient.Status()
	if err != nil {
		m.status = nil
		return
	}
	m.status = status
}

func (m model) cfg() *config.Config {
	if m.result == nil {
		return nil
	}
	return m.result.Config
}

// contentHeight returns the height available for tab content.
func (m model) contentHeight() int {
	// status bar (1) + tab bar (2 with margin) + help bar (1)
	h := m.height - 4
	if h < 1 {
		h = 1
	}
	return h
}

func (m *model) resize(width, height int) {
	m.width = width
	m.height = height
	subMsg := tea.WindowSizeMsg{Width: m.width, Height: m.contentHeight()}
	for i := range m.tabs {
		m.tabs[i], _ = m.tabs[i].Update(subMsg)
	}
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Save overlay captures all input when active
	if m.saveOverlay.Active() {
		switch msg := msg.(type) {
		case tea.KeyMsg:
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			prevPhase := m.saveOverlay.phase
			m.saveOverlay = m.saveOverlay.Update(msg, m.cfg(), m.configPath, m.ipcClient, m.status != nil)
			if prevPhase == savePreview && m.saveOverlay.SaveSucceeded() {
				m.originalConfig = cloneConfig(m.cfg())
				m.refreshDaemonStatus()
			}
		case tea.WindowSizeMsg:
			m.resize(msg.Width, msg.Height)
		}
		return m, nil
	}

	// ctrl+s triggers save overlay from any context (including form editing)
	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "ctrl+s" {
		if cfg := m.cfg(); cfg != nil {
			m.saveOverlay.Show(m.originalConfig, cfg)
		}
		return m, nil
	}

	// An open form consumes keys; only ctrl+c escapes to quit
	if m.tabs[m.activeTab].Editing() {
		switch msg := msg.(type) {
		case tea.KeyMsg:
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
		case tea.WindowSizeMsg:
			m.resize(msg.Width, msg.Height)
			return m, nil
		}
		var cmd tea.Cmd
		m.tabs[m.activeTab], cmd = m.tabs[m.activeTab].Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
			return m, nil
		case "1", "2", "3", "4":
			m.activeTab = Tab(msg.String()[0] - '1')
			return m, nil
		case "r":
			m.refreshDaemonStatus()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	}

	var cmd tea.Cmd
	m.tabs[m.activeTab], cmd = m.tabs[m.activeTab].Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	statusBar := renderStatusBar(m.status, m.width)
	tabBar := renderTabBar(m.activeTab, m.width)
	helpBar := renderHelpBar(m.width)

	usedHeight := lipgloss.Height(statusBar) + lipgloss.Height(tabBar) + lipgloss.Height(helpBar)
	contentHeight := m.height - usedHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	var content string
	switch {
	case m.saveOverlay.Active():
		content = m.saveOverlay.View(m.width, contentHeight)
	case m.loadErr != nil:
		content = lipgloss.NewStyle().
			Width(m.width).
			Height(contentHeight).
			Padding(1, 2).
			Foreground(lipgloss.Color("196")).
			Render("Config error: " + m.loadErr.Error())
	default:
		content = m.tabs[m.activeTab].View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		statusBar,
		tabBar,
		content,
		helpBar,
	)
}
