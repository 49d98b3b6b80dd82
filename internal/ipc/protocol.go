package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/bubbledock/internal/pairing"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandStatus      CommandType = "STATUS"
	CommandDock        CommandType = "DOCK"
	CommandRestore     CommandType = "RESTORE"
	CommandToggle      CommandType = "TOGGLE"
	CommandQuit        CommandType = "QUIT"
	CommandReload      CommandType = "RELOAD"
	CommandGetMonitors CommandType = "GET_MONITORS"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by STATUS
type StatusData struct {
	pairing.Snapshot
	UptimeSeconds int64  `json:"uptime_seconds"`
	PID           int    `json:"pid"`
	ConfigPath    string `json:"config_path,omitempty"`
	DaemonRunning bool   `json:"daemon_running"`
}

// EventData is returned by DOCK, RESTORE, TOGGLE and QUIT. Events are queued
// for the coordinator; State is the state when the event was queued.
type EventData struct {
	Event  string `json:"event"`
	Queued bool   `json:"queued"`
	State  string `json:"state"`
}

// MonitorInfo represents information about a single monitor
type MonitorInfo struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	// Work area: bounds minus panels and docks.
	UsableX      int `json:"usable_x"`
	UsableY      int `json:"usable_y"`
	UsableWidth  int `json:"usable_width"`
	UsableHeight int `json:"usable_height"`
}

// MonitorsData represents the data returned by GET_MONITORS
type MonitorsData struct {
	Monitors []MonitorInfo `json:"monitors"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

// eventFor maps the window commands to coordinator events.
func eventFor(cmd CommandType) (pairing.EventKind, bool) {
	switch cmd {
	case CommandDock:
		return pairing.EventMainCloseRequested, true
	case CommandRestore:
		return pairing.EventBubbleActivated, true
	case CommandToggle:
		return pairing.EventToggle, true
	case CommandQuit:
		return pairing.EventQuitRequested, true
	default:
		return 0, false
	}
}
