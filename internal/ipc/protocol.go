package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandGetStatus   CommandType = "GET_STATUS"
	CommandToggle      CommandType = "TOGGLE"
	CommandSetLevel    CommandType = "SET_LEVEL"
	CommandAdjust      CommandType = "ADJUST"
	CommandSetColor    CommandType = "SET_COLOR"
	CommandSetMode     CommandType = "SET_MODE"
	CommandLock        CommandType = "LOCK"
	CommandUnlock      CommandType = "UNLOCK"
	CommandGetDisplays CommandType = "GET_DISPLAYS"
	CommandReload      CommandType = "RELOAD"
	CommandQuit        CommandType = "QUIT"
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

// TargetInfo is the window currently left undimmed.
type TargetInfo struct {
	Window uint32 `json:"window"`
	Source string `json:"source"` // "locked" or "frontmost"
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// StatusData is returned by GET_STATUS and by every mutating command.
type StatusData struct {
	Active        bool        `json:"active"`
	Level         int         `json:"level"`
	Color         string      `json:"color"`
	ColorHex      string      `json:"color_hex"`
	Mode          string      `json:"mode"`
	Locked        bool        `json:"locked"`
	LockedWindow  uint32      `json:"locked_window,omitempty"`
	Target        *TargetInfo `json:"target,omitempty"`
	Displays      int         `json:"displays"`
	ToggleLevel   int         `json:"toggle_level"`
	AdjustStep    int         `json:"adjust_step"`
	UptimeSeconds int64       `json:"uptime_seconds"`
}

// DisplayInfo describes one connected display.
type DisplayInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Primary bool   `json:"primary"`
}

// DisplaysData represents the data returned by GET_DISPLAYS
type DisplaysData struct {
	Displays []DisplayInfo `json:"displays"`
}

type LevelPayload struct {
	Level int `json:"level"`
}

type AdjustPayload struct {
	Delta int `json:"delta"`
}

type ColorPayload struct {
	Color string `json:"color"`
}

type ModePayload struct {
	Mode string `json:"mode"`
}

// NewRequest builds a request, marshaling payload when non-nil.
func NewRequest(cmd CommandType, payload any) (*Request, error) {
	req := &Request{Command: cmd}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s payload: %w", cmd, err)
		}
		req.Payload = data
	}
	return req, nil
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data any) (*Response, error) {
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
	if req.Command == "" {
		return nil, fmt.Errorf("failed to parse request: missing command")
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
