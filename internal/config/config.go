package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/1broseidon/bubbledock/internal/geometry"
	"gopkg.in/yaml.v3"
)

// Dimensions is a width/height pair in logical pixels.
type Dimensions struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

func (d Dimensions) size() geometry.Size {
	return geometry.Size{Width: d.Width, Height: d.Height}
}

// Position is a point in physical pixels.
type Position struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// BubbleConfig describes the compact overlay window.
type BubbleConfig struct {
	Footprint Dimensions `yaml:"footprint"` // visible disc
	Frame     Dimensions `yaml:"frame"`     // window around the disc
	Color     string     `yaml:"color"`     // #rrggbb
	Sticky    bool       `yaml:"sticky"`    // show on all desktops
}

// MainConfig describes the full window.
type MainConfig struct {
	Frame Dimensions `yaml:"frame"`
	Title string     `yaml:"title"`
}

// Config holds the application configuration.
type Config struct {
	Display           string       `yaml:"display,omitempty"`
	XAuthority        string       `yaml:"xauthority,omitempty"`
	LogLevel          string       `yaml:"log_level"`
	ToggleHotkey      string       `yaml:"toggle_hotkey"`
	QuitHotkey        string       `yaml:"quit_hotkey"`
	MenuBackend       string       `yaml:"menu_backend"`
	DragThreshold     float64      `yaml:"drag_threshold"`
	ReconcileInterval int          `yaml:"reconcile_interval"` // seconds
	Bubble            BubbleConfig `yaml:"bubble"`
	Main              MainConfig   `yaml:"main"`
	FallbackPosition  Position     `yaml:"fallback_position"`
	ClampEpsilon      float64      `yaml:"clamp_epsilon"`
}

func DefaultConfig() *Config {
	n := geometry.DefaultNominal()
	return &Config{
		LogLevel:          "info",
		ToggleHotkey:      "Mod4-grave", // Super+` shows or docks the main window
		MenuBackend:       "auto",
		DragThreshold:     4,
		ReconcileInterval: 5,
		Bubble: BubbleConfig{
			Footprint: Dimensions{Width: n.BubbleFootprint.Width, Height: n.BubbleFootprint.Height},
			Frame:     Dimensions{Width: n.BubbleFrame.Width, Height: n.BubbleFrame.Height},
			Color:     "#6366f1",
			Sticky:    true,
		},
		Main: MainConfig{
			Frame: Dimensions{Width: n.MainFrame.Width, Height: n.MainFrame.Height},
			Title: "bubbledock",
		},
		FallbackPosition: Position{X: n.FallbackPosition.X, Y: n.FallbackPosition.Y},
		ClampEpsilon:     n.ClampEpsilon,
	}
}

// Nominal returns the geometry constants assumed when live geometry is
// unavailable.
func (c *Config) Nominal() geometry.Nominal {
	return geometry.Nominal{
		BubbleFootprint:  c.Bubble.Footprint.size(),
		BubbleFrame:      c.Bubble.Frame.size(),
		MainFrame:        c.Main.Frame.size(),
		FallbackPosition: geometry.Point{X: c.FallbackPosition.X, Y: c.FallbackPosition.Y},
		ClampEpsilon:     c.ClampEpsilon,
	}
}

// BubbleRGB parses the bubble color as 0xRRGGBB.
func (c *Config) BubbleRGB() (uint32, error) {
	return parseHexColor(c.Bubble.Color)
}

// SlogLevel maps log_level to a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Save writes the configuration to the standard location.
//
// Note: this marshals the effective config and will not preserve comments
// from the original YAML.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo validates and writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	switch c.MenuBackend {
	case "auto", "rofi", "fuzzel", "dmenu", "wofi":
	default:
		return &ValidationError{Path: "menu_backend", Err: fmt.Errorf("menu_backend must be one of: auto, rofi, fuzzel, dmenu, wofi")}
	}
	if c.DragThreshold < 0 {
		return &ValidationError{Path: "drag_threshold", Err: fmt.Errorf("drag_threshold must be >= 0")}
	}
	if c.ReconcileInterval < 0 {
		return &ValidationError{Path: "reconcile_interval", Err: fmt.Errorf("reconcile_interval must be >= 0")}
	}

	for _, d := range []struct {
		path string
		dim  Dimensions
	}{
		{"bubble.footprint", c.Bubble.Footprint},
		{"bubble.frame", c.Bubble.Frame},
		{"main.frame", c.Main.Frame},
	} {
		if d.dim.Width <= 0 || d.dim.Height <= 0 {
			return &ValidationError{Path: d.path, Err: fmt.Errorf("width and height must be > 0")}
		}
	}
	if c.Bubble.Footprint.Width > c.Bubble.Frame.Width || c.Bubble.Footprint.Height > c.Bubble.Frame.Height {
		return &ValidationError{Path: "bubble.footprint", Err: fmt.Errorf("footprint must fit inside bubble.frame")}
	}
	if _, err := parseHexColor(c.Bubble.Color); err != nil {
		return &ValidationError{Path: "bubble.color", Err: err}
	}
	if strings.TrimSpace(c.Main.Title) == "" {
		return &ValidationError{Path: "main.title", Err: fmt.Errorf("title must not be empty")}
	}
	if c.ClampEpsilon < 0 {
		return &ValidationError{Path: "clamp_epsilon", Err: fmt.Errorf("clamp_epsilon must be >= 0")}
	}

	if warnings := c.validationWarnings(); len(warnings) > 0 {
		for _, w := range warnings {
			fmt.Fprintln(os.Stderr, "warning:", w)
		}
	}

	return nil
}

func (c *Config) validationWarnings() []string {
	if c == nil {
		return nil
	}

	var warnings []string
	if c.ToggleHotkey != "" && c.ToggleHotkey == c.QuitHotkey {
		warnings = append(warnings, fmt.Sprintf("toggle_hotkey and quit_hotkey are both %q; only toggle will fire", c.ToggleHotkey))
	}
	if c.ClampEpsilon >= 1 {
		warnings = append(warnings, fmt.Sprintf("clamp_epsilon %.2f lets the bubble hang over the screen edge by whole pixels", c.ClampEpsilon))
	}
	return warnings
}

func parseHexColor(s string) (uint32, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return 0, fmt.Errorf("color %q must be #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("color %q must be #rrggbb", s)
	}
	return uint32(v), nil
}
