package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// Monitor represents a physical display
type Monitor struct {
	ID     int
	Name   string
	X      int
	Y      int
	Width  int
	Height int
}

// GetMonitors retrieves all active monitors using XRandR. The list is read
// fresh on every call since outputs can be hot-plugged.
func (c *Connection) GetMonitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}

		outputName := fmt.Sprintf("Monitor%d", i)
		outputInfo, err := randr.GetOutputInfo(c.XUtil.Conn(), crtcInfo.Outputs[0], resources.ConfigTimestamp).Reply()
		if err == nil {
			outputName = string(outputInfo.Name)
		}

		monitors = append(monitors, Monitor{
			ID:     i,
			Name:   outputName,
			X:      int(crtcInfo.X),
			Y:      int(crtcInfo.Y),
			Width:  int(crtcInfo.Width),
			Height: int(crtcInfo.Height),
		})
	}

	if len(monitors) == 0 {
		// No RandR outputs (e.g. Xvfb): the root window is the only screen.
		geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
		if err != nil {
			return nil, fmt.Errorf("no monitors found: %w", err)
		}
		monitors = append(monitors, Monitor{
			Name:   "root",
			Width:  int(geom.Width),
			Height: int(geom.Height),
		})
	}

	return monitors, nil
}

// WorkArea reads _NET_WORKAREA for the current desktop. ok is false when
// the window manager does not publish it.
func (c *Connection) WorkArea() (area ewmh.Workarea, ok bool) {
	areas, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil || len(areas) == 0 {
		return area, false
	}
	desktop, err := ewmh.CurrentDesktopGet(c.XUtil)
	if err != nil || int(desktop) >= len(areas) {
		desktop = 0
	}
	return areas[desktop], true
}

// UsableArea returns the part of m inside the work area. _NET_WORKAREA
// spans all monitors, so panels on one monitor only shrink that monitor
// where they touch the outer edge. The monitor itself is returned when the
// two do not overlap.
func UsableArea(m Monitor, area ewmh.Workarea) Monitor {
	x1 := max(m.X, area.X)
	y1 := max(m.Y, area.Y)
	x2 := min(m.X+m.Width, area.X+int(area.Width))
	y2 := min(m.Y+m.Height, area.Y+int(area.Height))
	if x2 <= x1 || y2 <= y1 {
		return m
	}
	m.X, m.Y = x1, y1
	m.Width, m.Height = x2-x1, y2-y1
	return m
}
