package pairing

import (
	"github.com/1broseidon/bubbledock/internal/geometry"
	"github.com/1broseidon/bubbledock/internal/platform"
)

// WindowSnapshot is the live geometry of one window at snapshot time.
type WindowSnapshot struct {
	Present       bool           `json:"present"`
	OuterPosition geometry.Point `json:"outer_position"`
	OuterSize     geometry.Size  `json:"outer_size"`
	InnerSize     geometry.Size  `json:"inner_size"`
	ScaleFactor   float64        `json:"scale_factor"`
	Error         string         `json:"error,omitempty"`
}

// Snapshot is a point-in-time view of the coordinator for status output.
type Snapshot struct {
	State  string         `json:"state"`
	Main   WindowSnapshot `json:"main"`
	Bubble WindowSnapshot `json:"bubble"`
	Stats  Stats          `json:"stats"`
}

// Snapshot reads the state and both windows' geometry under the lock.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		State:  c.state.String(),
		Main:   c.snapshotWindow(platform.RoleMain),
		Bubble: c.snapshotWindow(platform.RoleBubble),
		Stats:  c.stats,
	}
}

func (c *Coordinator) snapshotWindow(role platform.Role) WindowSnapshot {
	w, ok := c.window(role)
	if !ok {
		return WindowSnapshot{}
	}

	snap := WindowSnapshot{Present: true}
	var err error
	if snap.OuterPosition, err = w.OuterPosition(); err != nil {
		snap.Error = err.Error()
		return snap
	}
	if snap.OuterSize, err = w.OuterSize(); err != nil {
		snap.Error = err.Error()
		return snap
	}
	if snap.InnerSize, err = w.InnerSize(); err != nil {
		snap.Error = err.Error()
		return snap
	}
	if snap.ScaleFactor, err = w.ScaleFactor(); err != nil {
		snap.Error = err.Error()
	}
	return snap
}
