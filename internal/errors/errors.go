package errors

import (
	"errors"
	"fmt"
)

// ClientError is the base interface for all client errors.
type ClientError interface {
	error
	IsMCPClientError() bool
}

// Compile-time verification that all error types implement ClientError.
var (
	_ ClientError = (*SpawnError)(nil)
	_ ClientError = (*TransportClosedError)(nil)
	_ ClientError = (*EncodeError)(nil)
	_ ClientError = (*DecodeError)(nil)
)

// Sentinel errors for commonly checked conditions.
var (
	// ErrEndOfStream indicates the server closed its output stream or exited.
	ErrEndOfStream = errors.New("end of stream")

	// ErrTransportClosed indicates the transport was closed by the client.
	ErrTransportClosed = errors.New("transport closed")

	// ErrTransportNotConnected indicates the transport has not been started.
	ErrTransportNotConnected = errors.New("transport not connected")

	// ErrNotConnected indicates the client has no live session.
	ErrNotConnected = errors.New("client not connected")

	// ErrAlreadyConnected indicates Connect was called on a live client.
	ErrAlreadyConnected = errors.New("client already connected: call Disconnect first")

	// ErrNotReady indicates an operation was attempted before the handshake completed.
	ErrNotReady = errors.New("session not ready: initialization handshake has not completed")
)

// SpawnError indicates the server process could not be started.
type SpawnError struct {
	Command       string
	SearchedPaths []string
	Err           error
}

func (e *SpawnError) Error() string {
	if len(e.SearchedPaths) > 0 {
		return fmt.Sprintf("failed to spawn %q (searched %v): %v", e.Command, e.SearchedPaths, e.Err)
	}

	return fmt.Sprintf("failed to spawn %q: %v", e.Command, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// IsMCPClientError implements ClientError.
func (e *SpawnError) IsMCPClientError() bool { return true }

// TransportClosedError indicates the server process exited or a pipe was
// closed while a read or write was in progress.
type TransportClosedError struct {
	Op  string
	Err error
}

func (e *TransportClosedError) Error() string {
	return fmt.Sprintf("transport closed during %s: %v", e.Op, e.Err)
}

func (e *TransportClosedError) Unwrap() error {
	return e.Err
}

// IsMCPClientError implements ClientError.
func (e *TransportClosedError) IsMCPClientError() bool { return true }

// EncodeError indicates an outgoing message could not be represented as JSON.
type EncodeError struct {
	Method string
	Err    error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("failed to encode %q message: %v", e.Method, e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

// IsMCPClientError implements ClientError.
func (e *EncodeError) IsMCPClientError() bool { return true }

// DecodeError indicates a line received from the server is not a valid message.
// This error preserves the original raw data that failed to parse.
type DecodeError struct {
	RawData string
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode message from server: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsMCPClientError implements ClientError.
func (e *DecodeError) IsMCPClientError() bool { return true }
