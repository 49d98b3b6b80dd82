package config

import (
	"fmt"
	"sort"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BuildEffectiveConfig applies raw on top of DefaultConfig.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.Display != nil {
		cfg.Display = *raw.Display
	}
	if raw.XAuthority != nil {
		cfg.XAuthority = *raw.XAuthority
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}
	if raw.ToggleHotkey != nil {
		cfg.ToggleHotkey = *raw.ToggleHotkey
	}
	if raw.QuitHotkey != nil {
		cfg.QuitHotkey = *raw.QuitHotkey
	}
	if raw.MenuBackend != nil {
		cfg.MenuBackend = *raw.MenuBackend
	}
	cfg.DragThreshold = derefFloat(raw.DragThreshold, cfg.DragThreshold)
	cfg.ReconcileInterval = derefInt(raw.ReconcileInterval, cfg.ReconcileInterval)
	cfg.ClampEpsilon = derefFloat(raw.ClampEpsilon, cfg.ClampEpsilon)

	if b := raw.Bubble; b != nil {
		applyDimensions(&cfg.Bubble.Footprint, b.Footprint)
		applyDimensions(&cfg.Bubble.Frame, b.Frame)
		if b.Color != nil {
			cfg.Bubble.Color = *b.Color
		}
		if b.Sticky != nil {
			cfg.Bubble.Sticky = *b.Sticky
		}
	}
	if m := raw.Main; m != nil {
		applyDimensions(&cfg.Main.Frame, m.Frame)
		if m.Title != nil {
			cfg.Main.Title = *m.Title
		}
	}
	if p := raw.FallbackPosition; p != nil {
		cfg.FallbackPosition.X = derefFloat(p.X, cfg.FallbackPosition.X)
		cfg.FallbackPosition.Y = derefFloat(p.Y, cfg.FallbackPosition.Y)
	}

	return cfg, nil
}

func applyDimensions(dst *Dimensions, patch *RawDimensions) {
	if patch == nil {
		return
	}
	dst.Width = derefFloat(patch.Width, dst.Width)
	dst.Height = derefFloat(patch.Height, dst.Height)
}

func derefInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func derefFloat(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
