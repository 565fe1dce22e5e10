package mcpclient

import "github.com/wagiedev/mcp-client-go/internal/errors"

// Re-export error types from internal package

// SpawnError indicates the server process could not be started.
type SpawnError = errors.SpawnError

// TransportClosedError indicates the server went away during a read or write.
type TransportClosedError = errors.TransportClosedError

// EncodeError indicates an outgoing message could not be encoded.
type EncodeError = errors.EncodeError

// DecodeError indicates a reply line was not a valid message.
type DecodeError = errors.DecodeError

// ClientError is the base interface for all client errors.
type ClientError = errors.ClientError

// Re-export sentinel errors from internal package.
var (
	// ErrEndOfStream indicates the server closed its output or exited.
	ErrEndOfStream = errors.ErrEndOfStream

	// ErrTransportClosed indicates the transport was closed by the client.
	ErrTransportClosed = errors.ErrTransportClosed

	// ErrTransportNotConnected indicates the transport was never started.
	ErrTransportNotConnected = errors.ErrTransportNotConnected

	// ErrNotConnected indicates the client has no live session.
	ErrNotConnected = errors.ErrNotConnected

	// ErrAlreadyConnected indicates Connect was called on a live client.
	ErrAlreadyConnected = errors.ErrAlreadyConnected

	// ErrNotReady indicates a call before the handshake completed.
	ErrNotReady = errors.ErrNotReady
)
