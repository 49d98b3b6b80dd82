package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/1broseidon/bubbledock/internal/geometry"
)

func printGeometryUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  bubbledock geometry dock    --main-x X --main-y Y --outer WxH [--inner WxH] [--scale S] [--monitor WxH+X+Y]")
	fmt.Fprintln(w, "  bubbledock geometry restore --bubble-x X --bubble-y Y --outer WxH [--inner WxH] [--scale S]")
	fmt.Fprintln(w, "  bubbledock geometry clamp   --bubble-x X --bubble-y Y --monitor WxH+X+Y [--scale S]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Sizes of the main window are physical pixels including decorations (--outer)")
	fmt.Fprintln(w, "and excluding them (--inner, default: --outer). Bubble sizes come from the")
	fmt.Fprintln(w, "config unless --frame/--footprint are given.")
}

// geometryFlags are the flags shared by the geometry subcommands.
type geometryFlags struct {
	fs        *flag.FlagSet
	path      *string
	mainX     *float64
	mainY     *float64
	bubbleX   *float64
	bubbleY   *float64
	outer     *string
	inner     *string
	monitor   *string
	scale     *float64
	frame     *float64
	footprint *float64
}

func newGeometryFlags(name string) *geometryFlags {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return &geometryFlags{
		fs:        fs,
		path:      fs.String("path", "", "Config file path (default: ~/.config/bubbledock/config.yaml)"),
		mainX:     fs.Float64("main-x", 0, "Main window outer x"),
		mainY:     fs.Float64("main-y", 0, "Main window outer y"),
		bubbleX:   fs.Float64("bubble-x", 0, "Bubble window outer x"),
		bubbleY:   fs.Float64("bubble-y", 0, "Bubble window outer y"),
		outer:     fs.String("outer", "", "Main window outer size WxH"),
		inner:     fs.String("inner", "", "Main window content size WxH (default: outer)"),
		monitor:   fs.String("monitor", "", "Work area WxH+X+Y"),
		scale:     fs.Float64("scale", 1, "Display scale factor"),
		frame:     fs.Float64("frame", 0, "Bubble window edge in logical pixels"),
		footprint: fs.Float64("footprint", 0, "Visible disc diameter in logical pixels"),
	}
}

// geometryInput is the parsed form of geometryFlags.
type geometryInput struct {
	nominal    geometry.Nominal
	main       geometry.WindowFrame
	bubble     geometry.WindowFrame
	monitor    geometry.MonitorBounds
	hasMonitor bool
}

func (g *geometryFlags) input(needMain bool) (geometryInput, error) {
	var in geometryInput
	if *g.scale <= 0 {
		return in, fmt.Errorf("--scale must be > 0")
	}

	res, err := loadConfig(*g.path)
	if err != nil {
		return in, err
	}
	in.nominal = res.Config.Nominal()
	if *g.frame > 0 {
		in.nominal.BubbleFrame = geometry.Size{Width: *g.frame, Height: *g.frame}
	}
	if *g.footprint > 0 {
		in.nominal.BubbleFootprint = geometry.Size{Width: *g.footprint, Height: *g.footprint}
	}

	if needMain || *g.outer != "" {
		outer, err := parseSize(*g.outer)
		if err != nil {
			return in, fmt.Errorf("--outer: %w", err)
		}
		inner := outer
		if *g.inner != "" {
			if inner, err = parseSize(*g.inner); err != nil {
				return in, fmt.Errorf("--inner: %w", err)
			}
		}
		in.main = geometry.WindowFrame{
			OuterPosition: geometry.Point{X: *g.mainX, Y: *g.mainY},
			OuterSize:     outer,
			InnerSize:     inner,
			ScaleFactor:   *g.scale,
		}
	}

	in.bubble = in.nominal.BubbleFrameAt(geometry.Point{X: *g.bubbleX, Y: *g.bubbleY}, *g.scale)

	if *g.monitor != "" {
		if in.monitor, err = parseMonitor(*g.monitor); err != nil {
			return in, fmt.Errorf("--monitor: %w", err)
		}
		in.hasMonitor = true
	}
	return in, nil
}

func runGeometry(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printGeometryUsage(os.Stderr)
		return 2
	}

	g := newGeometryFlags(args[0])
	if err := g.fs.Parse(args[1:]); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	var out string
	var err error
	switch args[0] {
	case "dock":
		var in geometryInput
		if in, err = g.input(true); err == nil {
			out = dockReport(in)
		}
	case "restore":
		var in geometryInput
		if in, err = g.input(true); err == nil {
			out = restoreReport(in)
		}
	case "clamp":
		var in geometryInput
		if in, err = g.input(false); err == nil {
			if !in.hasMonitor {
				err = fmt.Errorf("clamp requires --monitor")
			} else {
				out = clampReport(in)
			}
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown geometry subcommand: %s\n\n", args[0])
		printGeometryUsage(os.Stderr)
		return 2
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Print(out)
	return 0
}

func dockReport(in geometryInput) string {
	footprint := in.nominal.Footprint()
	bubble := in.bubble
	bubble.OuterPosition = geometry.DockedPosition(in.main, bubble, footprint)

	out := fmt.Sprintf("docked: %s\n", formatPoint(bubble.OuterPosition))
	if in.hasMonitor {
		res := geometry.ClampToMonitor(bubble, footprint, in.monitor, in.nominal.ClampEpsilon)
		out += fmt.Sprintf("clamped: %v\n", res.Clamped)
		if res.Clamped {
			bubble.OuterPosition = res.Position
			out += fmt.Sprintf("position: %s\n", formatPoint(res.Position))
		}
	}
	restored := geometry.RestoredPosition(bubble, footprint, in.main)
	out += fmt.Sprintf("restores_to: %s\n", formatPoint(restored))
	return out
}

func restoreReport(in geometryInput) string {
	restored := geometry.RestoredPosition(in.bubble, in.nominal.Footprint(), in.main)
	return fmt.Sprintf("restored: %s\n", formatPoint(restored))
}

func clampReport(in geometryInput) string {
	res := geometry.ClampToMonitor(in.bubble, in.nominal.Footprint(), in.monitor, in.nominal.ClampEpsilon)
	return fmt.Sprintf("clamped: %v\nposition: %s\n", res.Clamped, formatPoint(res.Position))
}

func formatPoint(p geometry.Point) string {
	return fmt.Sprintf("%g,%g", p.X, p.Y)
}

func parseSize(s string) (geometry.Size, error) {
	var size geometry.Size
	w, h, ok := strings.Cut(s, "x")
	if !ok {
		return size, fmt.Errorf("expected WxH, got %q", s)
	}
	var err error
	if size.Width, err = strconv.ParseFloat(w, 64); err != nil {
		return size, fmt.Errorf("expected WxH, got %q", s)
	}
	if size.Height, err = strconv.ParseFloat(h, 64); err != nil {
		return size, fmt.Errorf("expected WxH, got %q", s)
	}
	if size.Width <= 0 || size.Height <= 0 {
		return size, fmt.Errorf("width and height must be > 0")
	}
	return size, nil
}

// parseMonitor parses X11-style geometry WxH+X+Y. Offsets may be negative
// (1920x1080+-1920+0).
func parseMonitor(s string) (geometry.MonitorBounds, error) {
	var m geometry.MonitorBounds
	sizePart, offsets, ok := strings.Cut(s, "+")
	if !ok {
		return m, fmt.Errorf("expected WxH+X+Y, got %q", s)
	}
	size, err := parseSize(sizePart)
	if err != nil {
		return m, err
	}
	x, y, ok := strings.Cut(offsets, "+")
	if !ok {
		return m, fmt.Errorf("expected WxH+X+Y, got %q", s)
	}
	if m.Position.X, err = strconv.ParseFloat(x, 64); err != nil {
		return m, fmt.Errorf("expected WxH+X+Y, got %q", s)
	}
	if m.Position.Y, err = strconv.ParseFloat(y, 64); err != nil {
		return m, fmt.Errorf("expected WxH+X+Y, got %q", s)
	}
	m.Size = size
	return m, nil
}
