package menu

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/1broseidon/bubbledock/internal/pairing"
)

// contextEntries are the bubble's right-click choices, in display order.
var contextEntries = []struct {
	label  string
	action pairing.ContextAction
}{
	{"Show window", pairing.ActionShow},
	{"Quit", pairing.ActionQuit},
}

// ContextMenu offers "Show window" and "Quit" after a secondary click on
// the bubble. The launcher is resolved on first use so a missing program
// only fails the click, not daemon startup.
type ContextMenu struct {
	name  string
	title string

	mu     sync.Mutex
	picker Picker
}

var _ pairing.ContextMenu = (*ContextMenu)(nil)

// NewContextMenu creates a context menu using the named backend (see
// NewBackend). title is shown as the prompt.
func NewContextMenu(name, title string) *ContextMenu {
	return &ContextMenu{name: name, title: title}
}

// WithPicker returns a context menu that always uses p.
func WithPicker(p Picker, title string) *ContextMenu {
	return &ContextMenu{title: title, picker: p}
}

// Labels returns the entries shown by the menu.
func (m *ContextMenu) Labels() []string {
	labels := make([]string, len(contextEntries))
	for i, e := range contextEntries {
		labels[i] = e.label
	}
	return labels
}

// ChooseContextAction shows the menu and maps the pick. Cancelling yields
// ActionNone without an error.
func (m *ContextMenu) ChooseContextAction(ctx context.Context) (pairing.ContextAction, error) {
	p, err := m.resolve()
	if err != nil {
		return pairing.ActionNone, err
	}

	i, err := p.Pick(ctx, m.title, m.Labels())
	if errors.Is(err, ErrCancelled) {
		return pairing.ActionNone, nil
	}
	if err != nil {
		return pairing.ActionNone, err
	}
	if i < 0 || i >= len(contextEntries) {
		return pairing.ActionNone, nil
	}
	return contextEntries[i].action, nil
}

func (m *ContextMenu) resolve() (Picker, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.picker != nil {
		return m.picker, nil
	}
	p, err := NewBackend(m.name)
	if err != nil {
		return nil, fmt.Errorf("context menu unavailable: %w", err)
	}
	m.picker = p
	return p, nil
}
