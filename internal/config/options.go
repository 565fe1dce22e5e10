package config

import (
	"log/slog"
)

const (
	// DefaultProtocolVersion is the version tag sent in the initialize request.
	DefaultProtocolVersion = "2025-06-18"

	// DefaultClientName identifies this client in the initialize request.
	DefaultClientName = "mcp-client-go"

	// DefaultClientVersion is reported alongside DefaultClientName.
	DefaultClientVersion = "0.1.0"

	// DefaultMaxLineSize is the largest line accepted from a server.
	DefaultMaxLineSize = 1024 * 1024 // 1MB
)

// Options configures a client session.
type Options struct {
	// Logger is the slog logger for debug output.
	// If nil, logging is disabled (silent operation).
	Logger *slog.Logger

	// ClientName is reported to the server in the initialize request.
	ClientName string

	// ClientVersion is reported to the server in the initialize request.
	ClientVersion string

	// ProtocolVersion is the version tag offered during initialization.
	ProtocolVersion string

	// Env provides additional environment variables for the server process.
	Env map[string]string

	// Cwd sets the working directory for the server process.
	// If empty, the current working directory is inherited.
	Cwd string

	// Stderr is a callback invoked with each line the server writes to stderr.
	Stderr func(string)

	// MaxLineSize caps the size of a single line read from the server.
	// If zero, DefaultMaxLineSize is used.
	MaxLineSize int

	// Transport allows injecting a custom transport implementation.
	// If nil, a ProcessTransport is created for the command given to Connect.
	Transport Transport `json:"-"`
}

// WithDefaults returns a copy of o with unset fields filled in.
// A nil receiver yields the defaults.
func (o *Options) WithDefaults() *Options {
	out := Options{}
	if o != nil {
		out = *o
	}

	if out.ClientName == "" {
		out.ClientName = DefaultClientName
	}

	if out.ClientVersion == "" {
		out.ClientVersion = DefaultClientVersion
	}

	if out.ProtocolVersion == "" {
		out.ProtocolVersion = DefaultProtocolVersion
	}

	if out.MaxLineSize <= 0 {
		out.MaxLineSize = DefaultMaxLineSize
	}

	return &out
}
