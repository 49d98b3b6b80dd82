package menu

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// lookPath is swapped in tests.
var lookPath = exec.LookPath

// detectOrder is the priority used by the "auto" backend.
var detectOrder = []string{"rofi", "fuzzel", "wofi", "dmenu"}

// Picker shows labels in a launcher and returns the index of the one the
// user picked. It blocks until the user chooses, cancels, or ctx ends.
type Picker interface {
	Pick(ctx context.Context, prompt string, labels []string) (int, error)
}

// launcher is a dmenu-style program: labels on stdin, the choice on stdout.
type launcher struct {
	name string
	args func(prompt string) []string
	// printsIndex is set when the program prints the row number rather
	// than the label.
	printsIndex bool
}

var launchers = map[string]launcher{
	"rofi": {
		name: "rofi",
		args: func(prompt string) []string {
			return []string{"-dmenu", "-i", "-no-custom", "-format", "i", "-selected-row", "0", "-p", prompt}
		},
		printsIndex: true,
	},
	"fuzzel": {
		name: "fuzzel",
		args: func(prompt string) []string {
			return []string{"--dmenu", "--index", "--prompt", prompt + " "}
		},
		printsIndex: true,
	},
	"wofi": {
		name: "wofi",
		args: func(prompt string) []string {
			return []string{"--dmenu", "--insensitive", "--prompt", prompt}
		},
	},
	"dmenu": {
		name: "dmenu",
		args: func(prompt string) []string {
			return []string{"-i", "-p", prompt}
		},
	},
}

// DetectBackend returns the first launcher found in PATH, in priority
// order: rofi, fuzzel, wofi, dmenu.
func DetectBackend() (string, error) {
	for _, name := range detectOrder {
		if _, err := lookPath(name); err == nil {
			return name, nil
		}
	}
	return "", fmt.Errorf("no menu backend found in PATH (looked for: %s)", strings.Join(detectOrder, ", "))
}

// NewBackend returns the picker for name: auto, rofi, fuzzel, wofi or dmenu.
func NewBackend(name string) (Picker, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "auto" {
		detected, err := DetectBackend()
		if err != nil {
			return nil, err
		}
		return launchers[detected], nil
	}

	l, ok := launchers[name]
	if !ok {
		return nil, fmt.Errorf("unknown menu backend: %q (expected: auto, %s)", name, strings.Join(detectOrder, ", "))
	}
	if _, err := lookPath(name); err != nil {
		return nil, fmt.Errorf("menu backend %q not found in PATH", name)
	}
	return l, nil
}
