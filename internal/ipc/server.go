package ipc

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/bubbledock/internal/pairing"
	"github.com/1broseidon/bubbledock/internal/platform"
	"github.com/1broseidon/bubbledock/internal/runtimepath"
)

// Coordinator is the part of pairing.Coordinator the server drives.
type Coordinator interface {
	Post(ev pairing.Event) bool
	State() pairing.VisibilityState
	Snapshot() pairing.Snapshot
}

// DisplayLister enumerates displays for GET_MONITORS.
type DisplayLister interface {
	Displays() ([]platform.Display, error)
}

// ServerOptions wires the server to the daemon.
type ServerOptions struct {
	Coordinator Coordinator
	Displays    DisplayLister
	// Reload re-reads the config and applies it. Nil disables RELOAD.
	Reload     func() error
	ConfigPath string
	// SocketPath overrides runtimepath.SocketPath.
	SocketPath string
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	coordinator  Coordinator
	displays     DisplayLister
	reload       func() error
	configPath   string
	startTime    time.Time
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server
func NewServer(opts ServerOptions) (*Server, error) {
	if opts.Coordinator == nil {
		return nil, fmt.Errorf("ipc server requires a coordinator")
	}
	socketPath := opts.SocketPath
	if socketPath == "" {
		var err error
		socketPath, err = runtimepath.SocketPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
		}
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath:  socketPath,
		coordinator: opts.Coordinator,
		displays:    opts.Displays,
		reload:      opts.Reload,
		configPath:  opts.ConfigPath,
		startTime:   time.Now(),
	}, nil
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	log.Printf("IPC server listening on %s", s.socketPath)

	go s.acceptLoop()

	return nil
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			log.Printf("IPC accept error: %v", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		log.Printf("IPC read error: %v", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.handleCommand(req)

	respData, err := resp.Marshal()
	if err != nil {
		log.Printf("Failed to marshal response: %v", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		log.Printf("Failed to send response: %v", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandStatus:
		return s.handleStatus()
	case CommandDock, CommandRestore, CommandToggle, CommandQuit:
		return s.handleEvent(req.Command)
	case CommandReload:
		return s.handleReload()
	case CommandGetMonitors:
		return s.handleGetMonitors()
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleStatus() *Response {
	status := StatusData{
		Snapshot:      s.coordinator.Snapshot(),
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		PID:           os.Getpid(),
		ConfigPath:    s.configPath,
		DaemonRunning: true,
	}

	resp, err := NewOKResponse(status)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

// handleEvent queues the coordinator event for a window command.
func (s *Server) handleEvent(cmd CommandType) *Response {
	kind, _ := eventFor(cmd)
	state := s.coordinator.State()
	if state == pairing.Terminated {
		return NewErrorResponse("daemon is shutting down")
	}

	log.Printf("IPC: Received %s command", cmd)
	queued := s.coordinator.Post(pairing.Event{Kind: kind, Source: "ipc"})
	if !queued {
		return NewErrorResponse(fmt.Sprintf("Failed to queue %s: event queue full", cmd))
	}

	resp, _ := NewOKResponse(EventData{
		Event:  kind.String(),
		Queued: queued,
		State:  state.String(),
	})
	return resp
}

// handleReload reloads the configuration
func (s *Server) handleReload() *Response {
	log.Println("IPC: Received RELOAD command")
	if s.reload == nil {
		return NewErrorResponse("reload not supported")
	}
	if err := s.reload(); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}
	log.Println("IPC: Config reloaded successfully")

	resp, _ := NewOKResponse(nil)
	return resp
}

// handleGetMonitors returns information about all monitors
func (s *Server) handleGetMonitors() *Response {
	if s.displays == nil {
		return NewErrorResponse("monitor listing not supported")
	}
	displays, err := s.displays.Displays()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to get monitors: %v", err))
	}

	monitorInfos := make([]MonitorInfo, len(displays))
	for i, d := range displays {
		monitorInfos[i] = MonitorInfo{
			ID:           d.ID,
			Name:         d.Name,
			X:            d.Bounds.X,
			Y:            d.Bounds.Y,
			Width:        d.Bounds.Width,
			Height:       d.Bounds.Height,
			UsableX:      d.Usable.X,
			UsableY:      d.Usable.Y,
			UsableWidth:  d.Usable.Width,
			UsableHeight: d.Usable.Height,
		}
	}

	resp, _ := NewOKResponse(MonitorsData{Monitors: monitorInfos})
	return resp
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}
