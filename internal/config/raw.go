package config

type RawDimensions struct {
	Width  *float64 `yaml:"width"`
	Height *float64 `yaml:"height"`
}

type RawPosition struct {
	X *float64 `yaml:"x"`
	Y *float64 `yaml:"y"`
}

type RawBubble struct {
	Footprint *RawDimensions `yaml:"footprint"`
	Frame     *RawDimensions `yaml:"frame"`
	Color     *string        `yaml:"color"`
	Sticky    *bool          `yaml:"sticky"`
}

type RawMain struct {
	Frame *RawDimensions `yaml:"frame"`
	Title *string        `yaml:"title"`
}

// RawConfig is the YAML file as written. Nil fields were not set and keep
// the value from DefaultConfig.
type RawConfig struct {
	Display           *string      `yaml:"display"`
	XAuthority        *string      `yaml:"xauthority"`
	LogLevel          *string      `yaml:"log_level"`
	ToggleHotkey      *string      `yaml:"toggle_hotkey"`
	QuitHotkey        *string      `yaml:"quit_hotkey"`
	MenuBackend       *string      `yaml:"menu_backend"`
	DragThreshold     *float64     `yaml:"drag_threshold"`
	ReconcileInterval *int         `yaml:"reconcile_interval"`
	Bubble            *RawBubble   `yaml:"bubble"`
	Main              *RawMain     `yaml:"main"`
	FallbackPosition  *RawPosition `yaml:"fallback_position"`
	ClampEpsilon      *float64     `yaml:"clamp_epsilon"`
}
