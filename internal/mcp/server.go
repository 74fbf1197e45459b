// Package mcp exposes the dimmer as Model Context Protocol tools.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/curtain/internal/ipc"
)

const (
	ServerName    = "curtain"
	ServerVersion = "0.1.0"
)

// Daemon is the subset of the IPC client the tools forward to.
type Daemon interface {
	GetStatus() (*ipc.StatusData, error)
	Toggle() (*ipc.StatusData, error)
	SetLevel(level int) (*ipc.StatusData, error)
	Adjust(delta int) (*ipc.StatusData, error)
	SetColor(color string) (*ipc.StatusData, error)
	SetMode(mode string) (*ipc.StatusData, error)
	Lock() (*ipc.StatusData, error)
	Unlock() (*ipc.StatusData, error)
	GetDisplays() (*ipc.DisplaysData, error)
}

// Server is the MCP server for dim control.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    Daemon
}

// NewServer creates a server forwarding to d.
func NewServer(d Daemon) *Server {
	s := &Server{daemon: d}
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

// Run serves on stdio, blocking until the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_dim_status",
		Description: "Report whether dimming is on, the level, color and mode, the locked window and the window currently left undimmed.",
	}, s.handleGetStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_dim_level",
		Description: "Set the dim level in percent. 0 turns dimming off.",
	}, s.handleSetLevel)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "adjust_dim",
		Description: "Change the dim level by a relative amount. Raising the level from off turns dimming on.",
	}, s.handleAdjust)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "toggle_dim",
		Description: "Turn dimming off, or on at the configured toggle level.",
	}, s.handleToggle)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_dim_color",
		Description: "Change the dim tint.",
	}, s.handleSetColor)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_dim_mode",
		Description: "Switch between leaving the focused window undimmed and dimming the whole screen.",
	}, s.handleSetMode)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "lock_window",
		Description: "Keep the focused application's main window undimmed even after focus moves elsewhere.",
	}, s.handleLock)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "unlock_window",
		Description: "Release the locked window so the undimmed window follows focus again.",
	}, s.handleUnlock)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_displays",
		Description: "List connected displays with their bounds and which one is primary.",
	}, s.handleListDisplays)
}
