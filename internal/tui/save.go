package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/bubbledock/internal/config"
	"github.com/1broseidon/bubbledock/internal/ipc"
)

type savePhase int

const (
	saveHidden  savePhase = iota
	savePreview           // listing changes, awaiting confirm
	saveResult            // showing outcome message
)

// change is one edited setting awaiting save.
type change struct {
	key     string
	from    string
	to      string
	restart bool // the daemon applies it only after a restart
}

// SaveOverlay lists pending setting changes and saves them on confirm.
type SaveOverlay struct {
	phase        savePhase
	changes      []change
	dockBefore   string
	dockAfter    string
	err          error
	reloaded     bool
	scrollOffset int
}

// Active reports whether the overlay is visible.
func (s SaveOverlay) Active() bool {
	return s.phase != saveHidden
}

// Show collects the changes between original and current and opens the
// preview.
func (s *SaveOverlay) Show(original, current *config.Config) {
	s.err = nil
	s.reloaded = false
	s.scrollOffset = 0

	s.changes = pendingChanges(original, current)
	if len(s.changes) == 0 {
		s.phase = saveResult
		s.err = fmt.Errorf("no changes to save")
		return
	}
	s.dockBefore, s.dockAfter = summarizeDock(original), summarizeDock(current)
	s.phase = savePreview
}

// SaveSucceeded reports whether the last save completed without error.
func (s SaveOverlay) SaveSucceeded() bool {
	return s.phase == saveResult && s.err == nil
}

// Update handles input while the overlay is active.
func (s SaveOverlay) Update(msg tea.Msg, cfg *config.Config, path string, client *ipc.Client, connected bool) SaveOverlay {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return s
	}

	switch s.phase {
	case savePreview:
		switch km.String() {
		case "esc":
			s.phase = saveHidden
		case "enter", "y":
			s.err = saveConfig(cfg, path)
			if s.err == nil && connected && client != nil {
				s.reloaded = client.Reload() == nil
			}
			s.phase = saveResult
		case "up", "k":
			s.scrollOffset = max(0, s.scrollOffset-1)
		case "down", "j":
			s.scrollOffset = min(s.scrollOffset+1, max(0, len(s.changes)-1))
		}
	case saveResult:
		s.phase = saveHidden
	}
	return s
}

// View renders the overlay centered in the content area.
func (s SaveOverlay) View(width, height int) string {
	switch s.phase {
	case savePreview:
		return s.viewPreview(width, height)
	case saveResult:
		return s.viewResult(width, height)
	}
	return ""
}

func (s SaveOverlay) viewPreview(areaW, areaH int) string {
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Render("Save Config: Pending Changes")
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	fromStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	toStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	noteStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	rows := max(3, areaH-14)
	start := min(s.scrollOffset, max(0, len(s.changes)-rows))
	end := min(len(s.changes), start+rows)

	var b strings.Builder
	b.WriteString(title + "\n\n")
	for _, c := range s.changes[start:end] {
		line := keyStyle.Render(c.key) + "  " + fromStyle.Render(displayOrDefault(c.from, "(empty)")) +
			" → " + toStyle.Render(displayOrDefault(c.to, "(empty)"))
		if c.restart {
			line += "  " + noteStyle.Render("restart")
		}
		b.WriteString(line + "\n")
	}
	if s.dockBefore != s.dockAfter {
		b.WriteString("\n" + dimStyle.Render("before: "+s.dockBefore) + "\n")
		b.WriteString(dimStyle.Render("after:  "+s.dockAfter) + "\n")
	}
	b.WriteString("\n" + dimStyle.Render("enter: save  esc: cancel  j/k: scroll"))

	return centeredBox(b.String(), areaW, areaH, 90)
}

func (s SaveOverlay) viewResult(areaW, areaH int) string {
	var msg string
	if s.err != nil {
		msg = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true).Render("Error: " + s.err.Error())
	} else {
		ok := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
		msg = ok.Bold(true).Render("Config saved successfully")
		if s.reloaded {
			msg += "\n" + ok.Render("Daemon reloaded")
		}
		if keys := s.restartKeys(); len(keys) > 0 {
			msg += "\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("214")).
				Render("Restart the daemon to apply: "+strings.Join(keys, ", "))
		}
	}

	footer := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("press any key to dismiss")
	return centeredBox(msg+"\n\n"+footer, areaW, areaH, 60)
}

func (s SaveOverlay) restartKeys() []string {
	var keys []string
	for _, c := range s.changes {
		if c.restart {
			keys = append(keys, c.key)
		}
	}
	return keys
}

func centeredBox(content string, areaW, areaH, maxW int) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(1, 2).
		Width(max(30, min(maxW, areaW-8))).
		Render(content)
	return lipgloss.Place(areaW, areaH, lipgloss.Center, lipgloss.Center, box)
}

func saveConfig(cfg *config.Config, path string) error {
	if path == "" {
		return cfg.Save()
	}
	return cfg.SaveTo(path)
}

// pendingChanges lists the settings that differ between original and
// current, in tab order.
func pendingChanges(original, current *config.Config) []change {
	if original == nil || current == nil {
		return nil
	}
	restart := config.RestartRequired(original, current)

	var changes []change
	for _, fields := range [][]field{generalFields(), bubbleFields(), mainFields(), geometryFields()} {
		for _, f := range fields {
			from, to := f.get(original), f.get(current)
			if from == to {
				continue
			}
			changes = append(changes, change{key: f.key, from: from, to: to, restart: coveredBy(f.key, restart)})
		}
	}
	return changes
}

// coveredBy reports whether key is one of keys or nested below one
// (bubble.frame.width under bubble.frame).
func coveredBy(key string, keys []string) bool {
	for _, k := range keys {
		if key == k || strings.HasPrefix(key, k+".") {
			return true
		}
	}
	return false
}

func cloneConfig(cfg *config.Config) *config.Config {
	if cfg == nil {
		return nil
	}
	clone := *cfg
	return &clone
}
