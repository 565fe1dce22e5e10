// Package config provides configuration types for the MCP client.
package config

import "context"

// Transport defines the interface for line-oriented server communication.
// Implement this to provide custom transports for testing, mocking,
// or alternative communication methods.
//
// The default implementation is ProcessTransport which spawns a subprocess.
// Custom transports can be injected via Options.Transport.
type Transport interface {
	// Start launches the server and prepares the streams.
	// This is called before any line is written or read.
	Start(ctx context.Context) error

	// WriteLine writes one message line. The newline is appended by the
	// transport and the line must not contain one.
	WriteLine(ctx context.Context, line []byte) error

	// ReadLine blocks until the next line is available.
	// Returns ErrEndOfStream when the server closed its output or exited.
	ReadLine(ctx context.Context) ([]byte, error)

	// Close terminates the transport and releases resources.
	// It's safe to call Close multiple times or before Start.
	Close() error
}
