package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/bubbledock/internal/geometry"
	"github.com/1broseidon/bubbledock/internal/ipc"
)

const (
	ServerName    = "bubbledock"
	ServerVersion = "0.1.0"
)

// Daemon is the IPC surface the tools call. *ipc.Client implements it.
type Daemon interface {
	Status() (*ipc.StatusData, error)
	Dock() (*ipc.EventData, error)
	Restore() (*ipc.EventData, error)
	Toggle() (*ipc.EventData, error)
	GetMonitors() (*ipc.MonitorsData, error)
}

var _ Daemon = (*ipc.Client)(nil)

// Server is the MCP server exposing the bubble/main window pair.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    Daemon
	nominal   geometry.Nominal
}

// NewServer creates an MCP server that talks to the running daemon over
// IPC. nominal supplies bubble sizes for compute_dock.
func NewServer(daemon Daemon, nominal geometry.Nominal) *Server {
	s := &Server{daemon: daemon, nominal: nominal}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "status",
		Description: "Report which window is active (main_active or bubble_active), the live geometry of the main window and the bubble, and transition counters.",
	}, s.handleStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "dock",
		Description: "Hide the main window and show the bubble at the main window's right content edge. Ignored when the bubble is already active.",
	}, s.handleDock)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "restore",
		Description: "Show the main window next to the bubble and hide the bubble. Ignored when the main window is already active.",
	}, s.handleRestore)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "toggle",
		Description: "Dock when the main window is active, restore when the bubble is active.",
	}, s.handleToggle)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "monitors",
		Description: "List displays with their full bounds and usable work area (excluding panels and docks).",
	}, s.handleMonitors)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "compute_dock",
		Description: "Compute, without touching any window, where the bubble would be docked for a given main window geometry, whether the clamp would move it, and where the main window would be restored to. Does not need the daemon.",
	}, s.handleComputeDock)
}
