package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/bubbledock/internal/config"
)

// SettingsTab displays a group of config fields and edits them with a huh
// form.
type SettingsTab struct {
	title  string
	fields []field
	cfg    *config.Config

	// footer renders extra read-only content below the field list.
	footer func(*config.Config) string

	// Display dimensions
	width  int
	height int

	// Edit mode
	editing bool
	form    *huh.Form
	values  []string // form-bound, parsed on submit
}

// NewSettingsTab creates a tab over fields of cfg.
func NewSettingsTab(title string, fields []field, cfg *config.Config) SettingsTab {
	return SettingsTab{title: title, fields: fields, cfg: cfg}
}

// SetConfig updates the config reference.
func (s *SettingsTab) SetConfig(cfg *config.Config) {
	s.cfg = cfg
}

// Editing reports whether the form is capturing input.
func (s SettingsTab) Editing() bool {
	return s.editing
}

// Init implements tea.Model.
func (s SettingsTab) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (s SettingsTab) Update(msg tea.Msg) (SettingsTab, tea.Cmd) {
	if s.editing {
		return s.updateEditing(msg)
	}
	return s.updateDisplay(msg)
}

func (s SettingsTab) updateDisplay(msg tea.Msg) (SettingsTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "e" && s.cfg != nil {
			s.startEditing()
			return s, s.form.Init()
		}
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
	}
	return s, nil
}

func (s SettingsTab) updateEditing(msg tea.Msg) (SettingsTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "esc" {
			s.editing = false
			s.form = nil
			return s, nil
		}
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.applyValues()
		s.editing = false
		s.form = nil
		return s, nil
	}

	return s, cmd
}

func (s *SettingsTab) startEditing() {
	s.values = make([]string, len(s.fields))
	for i, f := range s.fields {
		s.values[i] = f.get(s.cfg)
	}

	w := s.width - 4
	if w < 40 {
		w = 40
	}

	inputs := make([]huh.Field, 0, len(s.fields))
	for i := range s.fields {
		f := s.fields[i]
		if len(f.options) > 0 {
			inputs = append(inputs, huh.NewSelect[string]().
				Key(f.key).
				Title(f.label).
				Description(f.desc).
				Options(huh.NewOptions(f.options...)...).
				Value(&s.values[i]))
			continue
		}
		cfg := s.cfg
		inputs = append(inputs, huh.NewInput().
			Key(f.key).
			Title(f.label).
			Description(f.desc).
			Validate(func(v string) error { return f.check(cfg, v) }).
			Value(&s.values[i]))
	}

	s.form = huh.NewForm(huh.NewGroup(inputs...)).
		WithWidth(w).
		WithShowHelp(true).
		WithShowErrors(true)
	s.editing = true
}

// applyValues writes the form values into the config. Fields that fail to
// parse are left unchanged.
func (s *SettingsTab) applyValues() {
	if s.cfg == nil {
		return
	}
	for i, f := range s.fields {
		if i >= len(s.values) {
			break
		}
		_ = f.set(s.cfg, s.values[i])
	}
}

// View implements tea.Model.
func (s SettingsTab) View() string {
	if s.editing && s.form != nil {
		return s.viewEditing()
	}
	return s.viewDisplay()
}

func (s SettingsTab) viewDisplay() string {
	if s.cfg == nil {
		style := lipgloss.NewStyle().
			Width(s.width).
			Height(s.height).
			Foreground(lipgloss.Color("241")).
			Align(lipgloss.Center, lipgloss.Center)
		return style.Render("No config loaded")
	}

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("250")).
		Width(22).
		Align(lipgloss.Right).
		PaddingRight(2)

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("15")).
		Bold(true)

	dimStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	lines := []string{""}
	for _, f := range s.fields {
		lines = append(lines, labelStyle.Render(f.label)+valueStyle.Render(displayOrDefault(f.get(s.cfg), "(none)")))
	}
	if s.footer != nil {
		if extra := s.footer(s.cfg); extra != "" {
			lines = append(lines, "", extra)
		}
	}
	lines = append(lines, "", dimStyle.Render("  Press 'e' to edit settings"))

	contentStyle := lipgloss.NewStyle().
		Width(s.width).
		Height(s.height).
		Padding(1, 2)

	return contentStyle.Render(strings.Join(lines, "\n"))
}

func (s SettingsTab) viewEditing() string {
	header := lipgloss.NewStyle().
		Foreground(lipgloss.Color("62")).
		Bold(true).
		Render("Editing "+s.title+" Settings") +
		lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Render("  (esc to cancel)")

	style := lipgloss.NewStyle().
		Width(s.width).
		Height(s.height).
		Padding(1, 2)

	return style.Render(header + "\n\n" + s.form.View())
}

func displayOrDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
