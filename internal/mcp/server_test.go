package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/bubbledock/internal/geometry"
	"github.com/1broseidon/bubbledock/internal/ipc"
	"github.com/1broseidon/bubbledock/internal/pairing"
)

type fakeDaemon struct {
	status   *ipc.StatusData
	monitors *ipc.MonitorsData
	err      error
	sent     []string
}

func (f *fakeDaemon) Status() (*ipc.StatusData, error) { return f.status, f.err }

func (f *fakeDaemon) Dock() (*ipc.EventData, error) { return f.event("main_close_requested") }

func (f *fakeDaemon) Restore() (*ipc.EventData, error) { return f.event("bubble_activated") }

func (f *fakeDaemon) Toggle() (*ipc.EventData, error) { return f.event("toggle") }

func (f *fakeDaemon) GetMonitors() (*ipc.MonitorsData, error) { return f.monitors, f.err }

func (f *fakeDaemon) event(name string) (*ipc.EventData, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, name)
	return &ipc.EventData{Event: name, Queued: true, State: "main_active"}, nil
}

func canonicalInput() ComputeDockInput {
	return ComputeDockInput{
		MainX:           100,
		MainY:           100,
		MainOuterWidth:  376,
		MainOuterHeight: 544,
		MainInnerWidth:  360,
		MainInnerHeight: 528,
	}
}

func TestComputeDock_CanonicalFixture(t *testing.T) {
	got, err := computeDock(canonicalInput(), geometry.DefaultNominal())
	if err != nil {
		t.Fatalf("computeDock: %v", err)
	}
	want := ComputeDockOutput{DockedX: 459, DockedY: 342, RestoredX: 100, RestoredY: 100}
	if got != want {
		t.Fatalf("computeDock = %+v, want %+v", got, want)
	}
}

func TestComputeDock_ClampsToMonitor(t *testing.T) {
	in := canonicalInput()
	in.MonitorWidth = 400
	in.MonitorHeight = 800

	got, err := computeDock(in, geometry.DefaultNominal())
	if err != nil {
		t.Fatalf("computeDock: %v", err)
	}
	// Footprint right edge pinned to 400: 400 - 42 - 9 padding.
	if !got.Clamped || got.DockedX != 349 || got.DockedY != 342 {
		t.Fatalf("computeDock = %+v", got)
	}
	// Restore is relative to the clamped bubble: 349 + 9 - 360 - 8.
	if got.RestoredX != -10 || got.RestoredY != 100 {
		t.Fatalf("restored = (%v,%v), want (-10,100)", got.RestoredX, got.RestoredY)
	}
}

func TestComputeDock_OverridesAndValidation(t *testing.T) {
	in := canonicalInput()
	in.Footprint = 60 // no padding inside a 60px frame
	got, err := computeDock(in, geometry.DefaultNominal())
	if err != nil {
		t.Fatalf("computeDock: %v", err)
	}
	if got.DockedX != 468 || got.DockedY != 342 {
		t.Fatalf("computeDock = %+v, want docked (468,342)", got)
	}

	if _, err := computeDock(ComputeDockInput{}, geometry.DefaultNominal()); err == nil {
		t.Fatalf("expected error for empty main geometry")
	}
	in.Scale = -1
	if _, err := computeDock(in, geometry.DefaultNominal()); err == nil {
		t.Fatalf("expected error for negative scale")
	}
}

func TestHandleStatus(t *testing.T) {
	d := &fakeDaemon{status: &ipc.StatusData{
		Snapshot: pairing.Snapshot{
			State: "bubble_active",
			Main:  pairing.WindowSnapshot{Present: true, OuterPosition: geometry.Point{X: 10, Y: 20}, ScaleFactor: 1},
			Stats: pairing.Stats{Docks: 3, Restores: 2, Clamps: 1},
		},
		UptimeSeconds: 42,
		PID:           7,
	}}
	s := NewServer(d, geometry.DefaultNominal())

	_, out, err := s.handleStatus(context.Background(), nil, StatusInput{})
	if err != nil {
		t.Fatalf("handleStatus: %v", err)
	}
	if out.State != "bubble_active" || out.Main.X != 10 || out.Main.Y != 20 || !out.Main.Present {
		t.Fatalf("unexpected status %+v", out)
	}
	if out.Docks != 3 || out.Restores != 2 || out.Clamps != 1 || out.UptimeSeconds != 42 || out.PID != 7 {
		t.Fatalf("unexpected counters %+v", out)
	}
}

func TestHandleWindowCommands(t *testing.T) {
	d := &fakeDaemon{}
	s := NewServer(d, geometry.DefaultNominal())
	ctx := context.Background()

	if _, out, err := s.handleDock(ctx, nil, WindowCommandInput{}); err != nil || out.Event != "main_close_requested" || !out.Queued {
		t.Fatalf("dock = %+v, %v", out, err)
	}
	if _, out, err := s.handleRestore(ctx, nil, WindowCommandInput{}); err != nil || out.Event != "bubble_activated" {
		t.Fatalf("restore = %+v, %v", out, err)
	}
	if _, out, err := s.handleToggle(ctx, nil, WindowCommandInput{}); err != nil || out.Event != "toggle" || out.StateBefore != "main_active" {
		t.Fatalf("toggle = %+v, %v", out, err)
	}
	if len(d.sent) != 3 {
		t.Fatalf("expected 3 commands sent, got %v", d.sent)
	}

	d.err = errors.New("failed to connect to daemon")
	if _, _, err := s.handleDock(ctx, nil, WindowCommandInput{}); err == nil {
		t.Fatalf("expected daemon error")
	}
}

func TestHandleMonitors(t *testing.T) {
	d := &fakeDaemon{monitors: &ipc.MonitorsData{Monitors: []ipc.MonitorInfo{
		{ID: 1, Name: "HDMI-1", X: 1920, Width: 1280, Height: 1024, UsableX: 1920, UsableWidth: 1280, UsableHeight: 1000},
	}}}
	s := NewServer(d, geometry.DefaultNominal())

	_, out, err := s.handleMonitors(context.Background(), nil, MonitorsInput{})
	if err != nil {
		t.Fatalf("handleMonitors: %v", err)
	}
	if len(out.Monitors) != 1 || out.Monitors[0].Name != "HDMI-1" || out.Monitors[0].UsableHeight != 1000 {
		t.Fatalf("unexpected monitors %+v", out)
	}
}

func TestServer_ToolsOverInMemoryTransport(t *testing.T) {
	ctx := context.Background()
	s := NewServer(&fakeDaemon{}, geometry.DefaultNominal())

	serverTransport, clientTransport := mcpsdk.NewInMemoryTransports()
	serverSession, err := s.mcpServer.Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server connect: %v", err)
	}
	defer serverSession.Close()

	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "test", Version: "0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	defer session.Close()

	tools, err := session.ListTools(ctx, &mcpsdk.ListToolsParams{})
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}
	var names []string
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	sort.Strings(names)
	want := []string{"compute_dock", "dock", "monitors", "restore", "status", "toggle"}
	if len(names) != len(want) {
		t.Fatalf("tools = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("tools = %v, want %v", names, want)
		}
	}

	res, err := session.CallTool(ctx, &mcpsdk.CallToolParams{
		Name: "compute_dock",
		Arguments: map[string]any{
			"main_x":            100,
			"main_y":            100,
			"main_outer_width":  376,
			"main_outer_height": 544,
			"main_inner_width":  360,
			"main_inner_height": 528,
		},
	})
	if err != nil {
		t.Fatalf("call compute_dock: %v", err)
	}
	if res.IsError {
		t.Fatalf("compute_dock returned tool error: %+v", res.Content)
	}
	raw, err := json.Marshal(res.StructuredContent)
	if err != nil {
		t.Fatalf("marshal structured content: %v", err)
	}
	var out ComputeDockOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal structured content: %v", err)
	}
	if out.DockedX != 459 || out.DockedY != 342 {
		t.Fatalf("compute_dock = %+v, want docked (459,342)", out)
	}
}
