package x11

import (
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/xgbutil/xprop"
)

const baseDPI = 96.0

// ScaleFactor returns the physical-per-logical pixel ratio of the session.
// X11 has a single scale for all monitors. BUBBLEDOCK_SCALE and GDK_SCALE
// override the Xft.dpi resource.
func (c *Connection) ScaleFactor() float64 {
	for _, env := range []string{"BUBBLEDOCK_SCALE", "GDK_SCALE"} {
		if s, ok := parseScale(os.Getenv(env)); ok {
			return s
		}
	}

	resources, err := xprop.PropValStr(xprop.GetProperty(c.XUtil, c.Root, "RESOURCE_MANAGER"))
	if err != nil {
		return 1
	}
	if dpi, ok := xftDPI(resources); ok {
		return dpi / baseDPI
	}
	return 1
}

func parseScale(v string) (float64, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}
	s, err := strconv.ParseFloat(v, 64)
	if err != nil || s <= 0 {
		return 0, false
	}
	return s, true
}

// xftDPI extracts Xft.dpi from an X resource database string.
func xftDPI(resources string) (float64, bool) {
	for _, line := range strings.Split(resources, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok || strings.TrimSpace(key) != "Xft.dpi" {
			continue
		}
		dpi, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || dpi <= 0 {
			return 0, false
		}
		return dpi, true
	}
	return 0, false
}
