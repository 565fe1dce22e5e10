package client

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wagiedev/mcp-client-go/internal/config"
	"github.com/wagiedev/mcp-client-go/internal/errors"
	"github.com/wagiedev/mcp-client-go/internal/jsonrpc"
	toolmcp "github.com/wagiedev/mcp-client-go/internal/mcp"
	"github.com/wagiedev/mcp-client-go/internal/protocol"
	"github.com/wagiedev/mcp-client-go/internal/subprocess"
)

const (
	// MethodListTools lists the server's tools.
	MethodListTools = "tools/list"
	// MethodCallTool invokes one tool.
	MethodCallTool = "tools/call"
)

// stderrSource is implemented by transports that capture server stderr.
type stderrSource interface {
	Stderr() string
}

// Client is the facade over one server session.
type Client struct {
	log *slog.Logger

	mu         sync.Mutex
	transport  config.Transport
	session    *protocol.Session
	serverInfo *mcp.InitializeResult
	connected  bool
}

// New creates a disconnected client.
func New() *Client {
	return &Client{
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Connect spawns the server and performs the initialization handshake.
//
// The command is resolved on disk or in PATH unless options.Transport is
// set, in which case command and args are ignored. ctx bounds the spawn and
// the handshake only; the server keeps running after ctx ends.
//
// Returns ErrAlreadyConnected if a live session exists, SpawnError if the
// server cannot be started, and TransportClosedError if the server goes
// away before the handshake completes.
func (c *Client) Connect(ctx context.Context, command string, args []string, options *config.Options) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected {
		if c.session.State() != protocol.StateDisconnected {
			return errors.ErrAlreadyConnected
		}

		// The previous session died on its own; release what is left of it.
		c.releaseLocked()
	}

	options = options.WithDefaults()

	log := options.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	c.log = log.With("component", "client")

	var transport config.Transport

	if options.Transport != nil {
		transport = options.Transport

		c.log.Debug("Using injected custom transport")
	} else {
		transport = subprocess.NewProcessTransport(c.log, command, args, options)
	}

	session := protocol.NewSession(c.log, transport, protocol.Config{
		ProtocolVersion: options.ProtocolVersion,
		ClientName:      options.ClientName,
		ClientVersion:   options.ClientVersion,
	})

	// Keep references even on failure so State and Stderr can report on it.
	c.transport = transport
	c.session = session
	c.serverInfo = nil

	if err := transport.Start(ctx); err != nil {
		session.Close()
		_ = transport.Close()

		return fmt.Errorf("start transport: %w", err)
	}

	resp, err := session.Initialize(ctx)
	if err != nil {
		_ = transport.Close()

		return fmt.Errorf("initialize session: %w", err)
	}

	if info, err := toolmcp.DecodeInitializeResult(resp); err != nil {
		c.log.Warn("Could not decode initialize result", "error", err)
	} else {
		c.serverInfo = info
	}

	c.connected = true
	c.log.Info("Client connected", "session_id", session.ID())

	return nil
}

// activeSession returns the live session or ErrNotConnected.
func (c *Client) activeSession() (*protocol.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return nil, errors.ErrNotConnected
	}

	return c.session, nil
}

// ListTools sends tools/list with empty parameters.
func (c *Client) ListTools(ctx context.Context) (*jsonrpc.Response, error) {
	return c.Request(ctx, MethodListTools, &mcp.ListToolsParams{})
}

// CallTool sends tools/call for the named tool. Nil arguments are sent as
// an empty object.
func (c *Client) CallTool(ctx context.Context, name string, arguments map[string]any) (*jsonrpc.Response, error) {
	if name == "" {
		return nil, fmt.Errorf("call tool: name is required")
	}

	if arguments == nil {
		arguments = map[string]any{}
	}

	return c.Request(ctx, MethodCallTool, &mcp.CallToolParams{
		Name:      name,
		Arguments: arguments,
	})
}

// Request sends an arbitrary request and returns the server's reply.
// A protocol error reply is returned as a Response, not as an error.
func (c *Client) Request(ctx context.Context, method string, params any) (*jsonrpc.Response, error) {
	session, err := c.activeSession()
	if err != nil {
		return nil, err
	}

	return session.Request(ctx, method, params)
}

// Notify sends an arbitrary notification. No reply is read.
func (c *Client) Notify(ctx context.Context, method string, params any) error {
	session, err := c.activeSession()
	if err != nil {
		return err
	}

	return session.Notify(ctx, method, params)
}

// ServerInfo returns the decoded initialize reply, or nil if there is no
// live session or the reply was an error.
func (c *Client) ServerInfo() *mcp.InitializeResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return nil
	}

	return c.serverInfo
}

// State returns the lifecycle state of the current or most recent session.
func (c *Client) State() protocol.State {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return protocol.StateDisconnected
	}

	return c.session.State()
}

// SessionID returns the id of the current or most recent session.
func (c *Client) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return ""
	}

	return c.session.ID()
}

// Stderr returns what the server has written to stderr so far. The output
// of the most recent session stays available after Disconnect.
func (c *Client) Stderr() string {
	c.mu.Lock()
	transport := c.transport
	c.mu.Unlock()

	if source, ok := transport.(stderrSource); ok {
		return source.Stderr()
	}

	return ""
}

// Disconnect ends the session and terminates the server process.
//
// It never fails and is safe to call before Connect, more than once, after
// a failed Connect, or after the server has exited on its own.
func (c *Client) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return
	}

	c.log.Info("Disconnecting client")
	c.releaseLocked()
	c.log.Info("Client disconnected")
}

// releaseLocked closes the session and transport. Caller must hold c.mu.
func (c *Client) releaseLocked() {
	if c.session != nil {
		c.session.Close()
	}

	if c.transport != nil {
		if err := c.transport.Close(); err != nil {
			c.log.Debug("Transport close failed", "error", err)
		}
	}

	c.connected = false
	c.serverInfo = nil
}
