package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/1broseidon/bubbledock/internal/config"
)

// field is one editable config value. Values travel through the form as
// strings and are parsed back on submit.
type field struct {
	key     string // YAML path
	label   string
	desc    string
	options []string // rendered as a select when non-empty
	get     func(*config.Config) string
	set     func(*config.Config, string) error
}

// check parses s against a scratch copy so the form can reject bad input
// before it reaches the live config.
func (f field) check(cfg *config.Config, s string) error {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	scratch := *cfg
	return f.set(&scratch, s)
}

func stringField(key, label, desc string, ptr func(*config.Config) *string, required bool) field {
	return field{
		key:   key,
		label: label,
		desc:  desc,
		get:   func(c *config.Config) string { return *ptr(c) },
		set: func(c *config.Config, s string) error {
			s = strings.TrimSpace(s)
			if required && s == "" {
				return fmt.Errorf("%s must not be empty", key)
			}
			*ptr(c) = s
			return nil
		},
	}
}

func selectField(key, label, desc string, options []string, ptr func(*config.Config) *string) field {
	f := stringField(key, label, desc, ptr, true)
	f.options = options
	return f
}

type floatBound int

const (
	anyValue floatBound = iota
	nonNegative
	positive
)

func floatField(key, label, desc string, ptr func(*config.Config) *float64, bound floatBound) field {
	return field{
		key:   key,
		label: label,
		desc:  desc,
		get:   func(c *config.Config) string { return formatFloat(*ptr(c)) },
		set: func(c *config.Config, s string) error {
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return fmt.Errorf("%s must be a number", key)
			}
			switch {
			case bound == positive && v <= 0:
				return fmt.Errorf("%s must be > 0", key)
			case bound == nonNegative && v < 0:
				return fmt.Errorf("%s must be >= 0", key)
			}
			*ptr(c) = v
			return nil
		},
	}
}

func intField(key, label, desc string, ptr func(*config.Config) *int) field {
	return field{
		key:   key,
		label: label,
		desc:  desc,
		get:   func(c *config.Config) string { return strconv.Itoa(*ptr(c)) },
		set: func(c *config.Config, s string) error {
			v, err := strconv.Atoi(strings.TrimSpace(s))
			if err != nil || v < 0 {
				return fmt.Errorf("%s must be a whole number >= 0", key)
			}
			*ptr(c) = v
			return nil
		},
	}
}

func boolField(key, label, desc string, ptr func(*config.Config) *bool) field {
	return field{
		key:     key,
		label:   label,
		desc:    desc,
		options: []string{"true", "false"},
		get:     func(c *config.Config) string { return strconv.FormatBool(*ptr(c)) },
		set: func(c *config.Config, s string) error {
			v, err := strconv.ParseBool(s)
			if err != nil {
				return fmt.Errorf("%s must be true or false", key)
			}
			*ptr(c) = v
			return nil
		},
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func generalFields() []field {
	return []field{
		stringField("toggle_hotkey", "Toggle Hotkey", "X11 keybinding that docks or restores the main window",
			func(c *config.Config) *string { return &c.ToggleHotkey }, false),
		stringField("quit_hotkey", "Quit Hotkey", "X11 keybinding that quits (empty disables)",
			func(c *config.Config) *string { return &c.QuitHotkey }, false),
		selectField("menu_backend", "Menu Backend", "Launcher used for the bubble context menu",
			[]string{"auto", "rofi", "fuzzel", "wofi", "dmenu"},
			func(c *config.Config) *string { return &c.MenuBackend }),
		selectField("log_level", "Log Level", "Daemon log verbosity",
			[]string{"debug", "info", "warning", "error"},
			func(c *config.Config) *string { return &c.LogLevel }),
		floatField("drag_threshold", "Drag Threshold", "Pixels the pointer travels before a press becomes a drag",
			func(c *config.Config) *float64 { return &c.DragThreshold }, nonNegative),
		intField("reconcile_interval", "Reconcile Interval", "Seconds between display layout checks (0 disables)",
			func(c *config.Config) *int { return &c.ReconcileInterval }),
	}
}

func bubbleFields() []field {
	return []field{
		floatField("bubble.footprint.width", "Footprint Width", "Visible disc width in logical pixels",
			func(c *config.Config) *float64 { return &c.Bubble.Footprint.Width }, positive),
		floatField("bubble.footprint.height", "Footprint Height", "Visible disc height in logical pixels",
			func(c *config.Config) *float64 { return &c.Bubble.Footprint.Height }, positive),
		floatField("bubble.frame.width", "Frame Width", "Bubble window width in logical pixels",
			func(c *config.Config) *float64 { return &c.Bubble.Frame.Width }, positive),
		floatField("bubble.frame.height", "Frame Height", "Bubble window height in logical pixels",
			func(c *config.Config) *float64 { return &c.Bubble.Frame.Height }, positive),
		stringField("bubble.color", "Color", "Disc color as #rrggbb",
			func(c *config.Config) *string { return &c.Bubble.Color }, true),
		boolField("bubble.sticky", "Sticky", "Show the bubble on every desktop",
			func(c *config.Config) *bool { return &c.Bubble.Sticky }),
	}
}

func mainFields() []field {
	return []field{
		floatField("main.frame.width", "Frame Width", "Assumed main window width when it cannot be measured",
			func(c *config.Config) *float64 { return &c.Main.Frame.Width }, positive),
		floatField("main.frame.height", "Frame Height", "Assumed main window height when it cannot be measured",
			func(c *config.Config) *float64 { return &c.Main.Frame.Height }, positive),
		stringField("main.title", "Title", "Main window title",
			func(c *config.Config) *string { return &c.Main.Title }, true),
	}
}

func geometryFields() []field {
	return []field{
		floatField("fallback_position.x", "Fallback X", "Main window x when no position is known",
			func(c *config.Config) *float64 { return &c.FallbackPosition.X }, anyValue),
		floatField("fallback_position.y", "Fallback Y", "Main window y when no position is known",
			func(c *config.Config) *float64 { return &c.FallbackPosition.Y }, anyValue),
		floatField("clamp_epsilon", "Clamp Epsilon", "Overshoot in pixels tolerated before the bubble is pulled back",
			func(c *config.Config) *float64 { return &c.ClampEpsilon }, nonNegative),
	}
}
