package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/curtain/internal/dimmer"
)

const requestTimeout = 3 * time.Second

// Handler executes commands inside the daemon.
type Handler interface {
	Status(ctx context.Context) (StatusData, error)
	// Apply dispatches a on the dimmer and returns the resulting status.
	Apply(ctx context.Context, a dimmer.Action) (StatusData, error)
	Displays(ctx context.Context) ([]DisplayInfo, error)
	Reload(ctx context.Context) error
	Quit()
}

// Server handles IPC requests from clients
type Server struct {
	socketPath string
	listener   net.Listener
	handler    Handler
	logger     *slog.Logger

	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a server for socketPath, removing a stale socket file.
func NewServer(socketPath string, handler Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	os.Remove(socketPath)
	return &Server{
		socketPath: socketPath,
		handler:    handler,
		logger:     logger,
	}
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0o600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("IPC server listening", "socket", s.socketPath)
	go s.acceptLoop()
	return nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			stopping := s.shuttingDown
			s.shutdownMu.Unlock()
			if stopping {
				return
			}
			s.logger.Warn("IPC accept error", "error", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(2 * requestTimeout))

	// One JSON request per line.
	data, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("IPC read error", "error", err)
		return
	}

	var resp *Response
	req, err := ParseRequest(data)
	if err != nil {
		resp = NewErrorResponse(fmt.Sprintf("Invalid request: %v", err))
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		resp = s.handleCommand(ctx, req)
		cancel()
	}

	out, err := resp.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal response", "error", err)
		return
	}
	if _, err := conn.Write(append(out, '\n')); err != nil {
		s.logger.Warn("failed to send response", "error", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(ctx context.Context, req *Request) *Response {
	s.logger.Debug("IPC command", "command", req.Command)

	switch req.Command {
	case CommandGetStatus:
		return respond(s.handler.Status(ctx))
	case CommandGetDisplays:
		displays, err := s.handler.Displays(ctx)
		if err != nil {
			return NewErrorResponse(fmt.Sprintf("Failed to get displays: %v", err))
		}
		return ok(DisplaysData{Displays: displays})
	case CommandReload:
		if err := s.handler.Reload(ctx); err != nil {
			return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
		}
		return ok(nil)
	case CommandQuit:
		s.handler.Quit()
		return ok(nil)
	}

	action, err := actionForRequest(req)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return respond(s.handler.Apply(ctx, action))
}

// actionForRequest decodes a mutating command into a dimmer action.
func actionForRequest(req *Request) (dimmer.Action, error) {
	switch req.Command {
	case CommandToggle:
		return dimmer.Toggle{}, nil
	case CommandLock:
		return dimmer.Lock{}, nil
	case CommandUnlock:
		return dimmer.Unlock{}, nil
	case CommandSetLevel:
		var p LevelPayload
		if err := decodePayload(req, &p); err != nil {
			return nil, err
		}
		if p.Level < 0 || p.Level > dimmer.MaxLevel {
			return nil, fmt.Errorf("level must be between 0 and %d, got %d", dimmer.MaxLevel, p.Level)
		}
		return dimmer.SetLevel{Level: p.Level}, nil
	case CommandAdjust:
		var p AdjustPayload
		if err := decodePayload(req, &p); err != nil {
			return nil, err
		}
		return dimmer.Adjust{Delta: p.Delta}, nil
	case CommandSetColor:
		var p ColorPayload
		if err := decodePayload(req, &p); err != nil {
			return nil, err
		}
		c, err := dimmer.ParseColor(p.Color)
		if err != nil {
			return nil, err
		}
		return dimmer.SetColor{Color: c}, nil
	case CommandSetMode:
		var p ModePayload
		if err := decodePayload(req, &p); err != nil {
			return nil, err
		}
		m, err := dimmer.ParseMode(p.Mode)
		if err != nil {
			return nil, err
		}
		return dimmer.SetMode{Mode: m}, nil
	default:
		return nil, fmt.Errorf("unknown command: %s", req.Command)
	}
}

// RequestForAction is the inverse of actionForRequest for user-facing actions.
func RequestForAction(a dimmer.Action) (CommandType, any, error) {
	switch a := a.(type) {
	case dimmer.Toggle:
		return CommandToggle, nil, nil
	case dimmer.Lock:
		return CommandLock, nil, nil
	case dimmer.Unlock:
		return CommandUnlock, nil, nil
	case dimmer.SetLevel:
		return CommandSetLevel, LevelPayload{Level: a.Level}, nil
	case dimmer.Adjust:
		return CommandAdjust, AdjustPayload{Delta: a.Delta}, nil
	case dimmer.SetColor:
		return CommandSetColor, ColorPayload{Color: a.Color.String()}, nil
	case dimmer.SetMode:
		return CommandSetMode, ModePayload{Mode: a.Mode.String()}, nil
	default:
		return "", nil, fmt.Errorf("action %s cannot be sent to the daemon", dimmer.Describe(a))
	}
}

func decodePayload(req *Request, v any) error {
	if len(req.Payload) == 0 {
		return fmt.Errorf("%s requires a payload", req.Command)
	}
	if err := json.Unmarshal(req.Payload, v); err != nil {
		return fmt.Errorf("invalid %s payload: %v", req.Command, err)
	}
	return nil
}

func respond(status StatusData, err error) *Response {
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return ok(status)
}

func ok(data any) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
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
