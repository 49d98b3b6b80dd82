package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/bubbledock/internal/geometry"
	"github.com/1broseidon/bubbledock/internal/ipc"
	"github.com/1broseidon/bubbledock/internal/pairing"
)

func (s *Server) handleStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ StatusInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	status, err := s.daemon.Status()
	if err != nil {
		return nil, StatusOutput{}, err
	}
	return nil, StatusOutput{
		State:         status.State,
		Main:          windowInfo(status.Main),
		Bubble:        windowInfo(status.Bubble),
		Docks:         status.Stats.Docks,
		Restores:      status.Stats.Restores,
		Clamps:        status.Stats.Clamps,
		UptimeSeconds: status.UptimeSeconds,
		PID:           status.PID,
	}, nil
}

func windowInfo(w pairing.WindowSnapshot) WindowInfo {
	return WindowInfo{
		Present:      w.Present,
		X:            w.OuterPosition.X,
		Y:            w.OuterPosition.Y,
		OuterWidth:   w.OuterSize.Width,
		OuterHeight:  w.OuterSize.Height,
		InnerWidth:   w.InnerSize.Width,
		InnerHeight:  w.InnerSize.Height,
		ScaleFactor:  w.ScaleFactor,
		ReadingError: w.Error,
	}
}

func (s *Server) handleDock(_ context.Context, _ *mcpsdk.CallToolRequest, _ WindowCommandInput) (*mcpsdk.CallToolResult, WindowCommandOutput, error) {
	return windowCommand(s.daemon.Dock)
}

func (s *Server) handleRestore(_ context.Context, _ *mcpsdk.CallToolRequest, _ WindowCommandInput) (*mcpsdk.CallToolResult, WindowCommandOutput, error) {
	return windowCommand(s.daemon.Restore)
}

func (s *Server) handleToggle(_ context.Context, _ *mcpsdk.CallToolRequest, _ WindowCommandInput) (*mcpsdk.CallToolResult, WindowCommandOutput, error) {
	return windowCommand(s.daemon.Toggle)
}

func windowCommand(send func() (*ipc.EventData, error)) (*mcpsdk.CallToolResult, WindowCommandOutput, error) {
	data, err := send()
	if err != nil {
		return nil, WindowCommandOutput{}, err
	}
	return nil, WindowCommandOutput{
		Event:       data.Event,
		Queued:      data.Queued,
		StateBefore: data.State,
	}, nil
}

func (s *Server) handleMonitors(_ context.Context, _ *mcpsdk.CallToolRequest, _ MonitorsInput) (*mcpsdk.CallToolResult, MonitorsOutput, error) {
	data, err := s.daemon.GetMonitors()
	if err != nil {
		return nil, MonitorsOutput{}, err
	}

	out := MonitorsOutput{Monitors: make([]Monitor, 0, len(data.Monitors))}
	for _, m := range data.Monitors {
		out.Monitors = append(out.Monitors, Monitor(m))
	}
	return nil, out, nil
}

func (s *Server) handleComputeDock(_ context.Context, _ *mcpsdk.CallToolRequest, args ComputeDockInput) (*mcpsdk.CallToolResult, ComputeDockOutput, error) {
	out, err := computeDock(args, s.nominal)
	if err != nil {
		return nil, ComputeDockOutput{}, err
	}
	return nil, out, nil
}

// computeDock runs the dock transform, the optional clamp, and the restore
// transform from the docked position.
func computeDock(args ComputeDockInput, nominal geometry.Nominal) (ComputeDockOutput, error) {
	if args.MainOuterWidth <= 0 || args.MainOuterHeight <= 0 {
		return ComputeDockOutput{}, fmt.Errorf("main_outer_width and main_outer_height must be > 0")
	}
	scale := args.Scale
	if scale == 0 {
		scale = 1
	}
	if scale < 0 {
		return ComputeDockOutput{}, fmt.Errorf("scale must be > 0")
	}

	if args.BubbleFrame > 0 {
		nominal.BubbleFrame = geometry.Size{Width: args.BubbleFrame, Height: args.BubbleFrame}
	}
	if args.Footprint > 0 {
		nominal.BubbleFootprint = geometry.Size{Width: args.Footprint, Height: args.Footprint}
	}

	inner := geometry.Size{Width: args.MainInnerWidth, Height: args.MainInnerHeight}
	if inner.Width <= 0 {
		inner.Width = args.MainOuterWidth
	}
	if inner.Height <= 0 {
		inner.Height = args.MainOuterHeight
	}
	main := geometry.WindowFrame{
		OuterPosition: geometry.Point{X: args.MainX, Y: args.MainY},
		OuterSize:     geometry.Size{Width: args.MainOuterWidth, Height: args.MainOuterHeight},
		InnerSize:     inner,
		ScaleFactor:   scale,
	}
	footprint := nominal.Footprint()
	bubble := nominal.BubbleFrameAt(geometry.Point{}, scale)

	docked := geometry.DockedPosition(main, bubble, footprint)
	bubble.OuterPosition = docked

	out := ComputeDockOutput{DockedX: docked.X, DockedY: docked.Y}
	if args.MonitorWidth > 0 && args.MonitorHeight > 0 {
		monitor := geometry.MonitorBounds{
			Position: geometry.Point{X: args.MonitorX, Y: args.MonitorY},
			Size:     geometry.Size{Width: args.MonitorWidth, Height: args.MonitorHeight},
		}
		res := geometry.ClampToMonitor(bubble, footprint, monitor, nominal.ClampEpsilon)
		bubble.OuterPosition = res.Position
		out.DockedX, out.DockedY, out.Clamped = res.Position.X, res.Position.Y, res.Clamped
	}

	restored := geometry.RestoredPosition(bubble, footprint, main)
	out.RestoredX, out.RestoredY = restored.X, restored.Y
	return out, nil
}
