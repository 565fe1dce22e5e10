package mcpclient

import "context"

// Client is a connection to one stdio tool server.
//
// Calls are serialized: each Request or tool call writes one line and
// reads the next line as its reply. Clients are reusable; after Disconnect,
// Connect starts a fresh session.
//
// Example usage:
//
//	client := NewClient()
//	defer client.Disconnect()
//
//	err := client.Connect(ctx, "my-server", nil,
//	    WithLogger(slog.Default()),
//	    WithEnv(map[string]string{"TOKEN": token}),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	resp, err := client.ListTools(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	tools, err := DecodeTools(resp)
type Client interface {
	// Connect spawns the server and performs the initialization handshake.
	// Returns SpawnError if the server cannot be started and
	// ErrAlreadyConnected if a live session exists.
	Connect(ctx context.Context, command string, args []string, opts ...Option) error

	// ListTools sends tools/list with empty parameters.
	ListTools(ctx context.Context) (*Response, error)

	// CallTool sends tools/call with the tool name and arguments.
	CallTool(ctx context.Context, name string, arguments map[string]any) (*Response, error)

	// Request sends an arbitrary request, such as ping or resources/list,
	// and returns the reply.
	Request(ctx context.Context, method string, params any) (*Response, error)

	// Notify sends an arbitrary notification. No reply is read.
	Notify(ctx context.Context, method string, params any) error

	// ServerInfo returns the decoded initialize reply.
	// Returns nil when not connected or when the reply was an error.
	ServerInfo() *InitializeResult

	// State returns the lifecycle state of the current or last session.
	State() State

	// Stderr returns what the server has written to stderr so far.
	Stderr() string

	// Disconnect terminates the server and ends the session.
	// Safe to call at any time and more than once.
	Disconnect()
}

// NewClient creates a disconnected client.
//
// Call Connect with a server command to begin a session:
//
//	client := NewClient()
//	err := client.Connect(ctx, "my-server", []string{"--stdio"},
//	    WithLogger(slog.Default()),
//	)
func NewClient() Client {
	return newClientImpl()
}
