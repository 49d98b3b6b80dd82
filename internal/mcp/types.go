package mcp

// StatusInput is the input for the status tool.
type StatusInput struct{}

// WindowInfo is the live geometry of one window.
type WindowInfo struct {
	Present      bool    `json:"present"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	OuterWidth   float64 `json:"outer_width"`
	OuterHeight  float64 `json:"outer_height"`
	InnerWidth   float64 `json:"inner_width"`
	InnerHeight  float64 `json:"inner_height"`
	ScaleFactor  float64 `json:"scale_factor"`
	ReadingError string  `json:"error,omitempty"`
}

// StatusOutput is the output for the status tool.
type StatusOutput struct {
	State         string     `json:"state"`
	Main          WindowInfo `json:"main"`
	Bubble        WindowInfo `json:"bubble"`
	Docks         int        `json:"docks"`
	Restores      int        `json:"restores"`
	Clamps        int        `json:"clamps"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	PID           int        `json:"pid"`
}

// WindowCommandInput is the input for dock, restore and toggle.
type WindowCommandInput struct{}

// WindowCommandOutput is the output for dock, restore and toggle.
type WindowCommandOutput struct {
	Event       string `json:"event"`
	Queued      bool   `json:"queued"`
	StateBefore string `json:"state_before"`
}

// MonitorsInput is the input for the monitors tool.
type MonitorsInput struct{}

// Monitor is one display with its full bounds and work area.
type Monitor struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	X            int    `json:"x"`
	Y            int    `json:"y"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	UsableX      int    `json:"usable_x"`
	UsableY      int    `json:"usable_y"`
	UsableWidth  int    `json:"usable_width"`
	UsableHeight int    `json:"usable_height"`
}

// MonitorsOutput is the output for the monitors tool.
type MonitorsOutput struct {
	Monitors []Monitor `json:"monitors"`
}

// ComputeDockInput is the input for the compute_dock tool. Sizes of the
// main window are physical pixels; bubble sizes are logical and default to
// the configured nominal sizes.
type ComputeDockInput struct {
	MainX           float64 `json:"main_x" jsonschema:"Main window outer x in physical pixels"`
	MainY           float64 `json:"main_y" jsonschema:"Main window outer y in physical pixels"`
	MainOuterWidth  float64 `json:"main_outer_width" jsonschema:"Main window outer width including decorations"`
	MainOuterHeight float64 `json:"main_outer_height" jsonschema:"Main window outer height including decorations"`
	MainInnerWidth  float64 `json:"main_inner_width,omitempty" jsonschema:"Main window content width (default: outer width)"`
	MainInnerHeight float64 `json:"main_inner_height,omitempty" jsonschema:"Main window content height (default: outer height)"`
	Scale           float64 `json:"scale,omitempty" jsonschema:"Display scale factor (default: 1)"`
	BubbleFrame     float64 `json:"bubble_frame,omitempty" jsonschema:"Bubble window edge in logical pixels (default: configured bubble.frame.width)"`
	Footprint       float64 `json:"footprint,omitempty" jsonschema:"Visible bubble disc diameter in logical pixels (default: configured bubble.footprint.width)"`
	MonitorX        float64 `json:"monitor_x,omitempty" jsonschema:"Work area x; clamping is applied when monitor_width and monitor_height are set"`
	MonitorY        float64 `json:"monitor_y,omitempty" jsonschema:"Work area y"`
	MonitorWidth    float64 `json:"monitor_width,omitempty" jsonschema:"Work area width"`
	MonitorHeight   float64 `json:"monitor_height,omitempty" jsonschema:"Work area height"`
}

// ComputeDockOutput is the output for the compute_dock tool.
type ComputeDockOutput struct {
	DockedX   float64 `json:"docked_x"`
	DockedY   float64 `json:"docked_y"`
	Clamped   bool    `json:"clamped"`
	RestoredX float64 `json:"restored_x"`
	RestoredY float64 `json:"restored_y"`
}
