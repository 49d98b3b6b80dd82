package config

import (
	"fmt"
)

var valueGetters = map[string]func(*Config) any{
	"display":                 func(c *Config) any { return c.Display },
	"xauthority":              func(c *Config) any { return c.XAuthority },
	"log_level":               func(c *Config) any { return c.LogLevel },
	"toggle_hotkey":           func(c *Config) any { return c.ToggleHotkey },
	"quit_hotkey":             func(c *Config) any { return c.QuitHotkey },
	"menu_backend":            func(c *Config) any { return c.MenuBackend },
	"drag_threshold":          func(c *Config) any { return c.DragThreshold },
	"reconcile_interval":      func(c *Config) any { return c.ReconcileInterval },
	"clamp_epsilon":           func(c *Config) any { return c.ClampEpsilon },
	"bubble":                  func(c *Config) any { return c.Bubble },
	"bubble.footprint":        func(c *Config) any { return c.Bubble.Footprint },
	"bubble.footprint.width":  func(c *Config) any { return c.Bubble.Footprint.Width },
	"bubble.footprint.height": func(c *Config) any { return c.Bubble.Footprint.Height },
	"bubble.frame":            func(c *Config) any { return c.Bubble.Frame },
	"bubble.frame.width":      func(c *Config) any { return c.Bubble.Frame.Width },
	"bubble.frame.height":     func(c *Config) any { return c.Bubble.Frame.Height },
	"bubble.color":            func(c *Config) any { return c.Bubble.Color },
	"bubble.sticky":           func(c *Config) any { return c.Bubble.Sticky },
	"main":                    func(c *Config) any { return c.Main },
	"main.frame":              func(c *Config) any { return c.Main.Frame },
	"main.frame.width":        func(c *Config) any { return c.Main.Frame.Width },
	"main.frame.height":       func(c *Config) any { return c.Main.Frame.Height },
	"main.title":              func(c *Config) any { return c.Main.Title },
	"fallback_position":       func(c *Config) any { return c.FallbackPosition },
	"fallback_position.x":     func(c *Config) any { return c.FallbackPosition.X },
	"fallback_position.y":     func(c *Config) any { return c.FallbackPosition.Y },
}

// Paths lists every path accepted by Explain, sorted.
func Paths() []string {
	return sortedKeys(valueGetters)
}

// Explain returns the effective value at the given YAML-like path and its
// source: the file and line that last set it, or the defaults.
//
// Supported paths are the config keys, dotted for nested values, e.g.
//
//	toggle_hotkey
//	bubble.footprint.width
//	main.title
//	fallback_position.x
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	get, ok := valueGetters[path]
	if !ok {
		return nil, Source{}, fmt.Errorf("unknown path: %s", path)
	}
	value := get(res.Config)

	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}
