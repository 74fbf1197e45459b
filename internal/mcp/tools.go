package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/curtain/internal/dimmer"
	"github.com/1broseidon/curtain/internal/ipc"
)

func statusResult(st *ipc.StatusData, err error) (*mcpsdk.CallToolResult, StatusOutput, error) {
	if err != nil {
		return nil, StatusOutput{}, err
	}
	return nil, StatusOutput{Status: *st}, nil
}

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	return statusResult(s.daemon.GetStatus())
}

func (s *Server) handleSetLevel(_ context.Context, _ *mcpsdk.CallToolRequest, args SetLevelInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	if args.Level < 0 || args.Level > dimmer.MaxLevel {
		return nil, StatusOutput{}, fmt.Errorf("level must be between 0 and %d, got %d", dimmer.MaxLevel, args.Level)
	}
	return statusResult(s.daemon.SetLevel(args.Level))
}

func (s *Server) handleAdjust(_ context.Context, _ *mcpsdk.CallToolRequest, args AdjustInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	if args.Delta == 0 {
		return nil, StatusOutput{}, fmt.Errorf("delta must be non-zero")
	}
	return statusResult(s.daemon.Adjust(args.Delta))
}

func (s *Server) handleToggle(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	return statusResult(s.daemon.Toggle())
}

func (s *Server) handleSetColor(_ context.Context, _ *mcpsdk.CallToolRequest, args SetColorInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	// Validate locally for a clearer error than the daemon's.
	if _, err := dimmer.ParseColor(args.Color); err != nil {
		return nil, StatusOutput{}, err
	}
	return statusResult(s.daemon.SetColor(args.Color))
}

func (s *Server) handleSetMode(_ context.Context, _ *mcpsdk.CallToolRequest, args SetModeInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	if _, err := dimmer.ParseMode(args.Mode); err != nil {
		return nil, StatusOutput{}, err
	}
	return statusResult(s.daemon.SetMode(args.Mode))
}

func (s *Server) handleLock(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	return statusResult(s.daemon.Lock())
}

func (s *Server) handleUnlock(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	return statusResult(s.daemon.Unlock())
}

func (s *Server) handleListDisplays(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, DisplaysOutput, error) {
	data, err := s.daemon.GetDisplays()
	if err != nil {
		return nil, DisplaysOutput{}, err
	}
	return nil, DisplaysOutput{Displays: data.Displays}, nil
}
