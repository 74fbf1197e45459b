package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/curtain/internal/dimmer"
	"github.com/1broseidon/curtain/internal/runtimepath"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the default socket.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientAt(socketPath)
}

// NewClientAt creates a client for an explicit socket path.
func NewClientAt(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	if _, err := conn.Write(append(reqData, '\n')); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	respData, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}
	return &resp, nil
}

// command sends cmd with payload and decodes the status reply.
func (c *Client) command(cmd CommandType, payload any) (*StatusData, error) {
	req, err := NewRequest(cmd, payload)
	if err != nil {
		return nil, err
	}
	resp, err := c.sendRequest(req)
	if err != nil {
		return nil, err
	}

	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}
	return &status, nil
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	return c.command(CommandGetStatus, nil)
}

// Toggle switches dimming on at the toggle level, or off.
func (c *Client) Toggle() (*StatusData, error) {
	return c.command(CommandToggle, nil)
}

// SetLevel sets the dim level; 0 turns dimming off.
func (c *Client) SetLevel(level int) (*StatusData, error) {
	return c.command(CommandSetLevel, LevelPayload{Level: level})
}

// Adjust changes the dim level by delta.
func (c *Client) Adjust(delta int) (*StatusData, error) {
	return c.command(CommandAdjust, AdjustPayload{Delta: delta})
}

// SetColor sets the tint by preset name or #rrggbb.
func (c *Client) SetColor(color string) (*StatusData, error) {
	return c.command(CommandSetColor, ColorPayload{Color: color})
}

// SetMode sets exclude-window or screen-wide.
func (c *Client) SetMode(mode string) (*StatusData, error) {
	return c.command(CommandSetMode, ModePayload{Mode: mode})
}

// Lock pins the frontmost application's window.
func (c *Client) Lock() (*StatusData, error) {
	return c.command(CommandLock, nil)
}

// Unlock clears the pinned window.
func (c *Client) Unlock() (*StatusData, error) {
	return c.command(CommandUnlock, nil)
}

// Dispatch sends a user-facing dimmer action. Internal actions (ticks,
// focus and display changes) are rejected.
func (c *Client) Dispatch(a dimmer.Action) (*StatusData, error) {
	cmd, payload, err := RequestForAction(a)
	if err != nil {
		return nil, err
	}
	return c.command(cmd, payload)
}

// GetDisplays retrieves display information
func (c *Client) GetDisplays() (*DisplaysData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetDisplays})
	if err != nil {
		return nil, err
	}

	var data DisplaysData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse displays data: %w", err)
	}
	return &data, nil
}

// Reload sends a RELOAD command to the daemon
func (c *Client) Reload() error {
	_, err := c.sendRequest(&Request{Command: CommandReload})
	return err
}

// Quit asks the daemon to exit.
func (c *Client) Quit() error {
	_, err := c.sendRequest(&Request{Command: CommandQuit})
	return err
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
