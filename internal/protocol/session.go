package protocol

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/oklog/ulid/v2"

	"github.com/wagiedev/mcp-client-go/internal/errors"
	"github.com/wagiedev/mcp-client-go/internal/jsonrpc"
)

const (
	// MethodInitialize opens the handshake.
	MethodInitialize = "initialize"
	// MethodInitialized is the notification that completes the handshake.
	MethodInitialized = "notifications/initialized"
)

// Transport defines the minimal interface needed for protocol operations.
//
// This interface is satisfied by the ProcessTransport but allows for testing
// with in-memory transports.
type Transport interface {
	WriteLine(ctx context.Context, line []byte) error
	ReadLine(ctx context.Context) ([]byte, error)
}

// Config holds the handshake settings of a session.
type Config struct {
	// ProtocolVersion is the version tag offered in the initialize request.
	ProtocolVersion string

	// ClientName and ClientVersion identify the client to the server.
	ClientName    string
	ClientVersion string
}

// Session is the per-connection protocol state: the transport, the request
// counter and the handshake state.
type Session struct {
	id        string
	log       *slog.Logger
	transport Transport
	cfg       Config

	// callMu keeps each write+read pair together.
	callMu  sync.Mutex
	counter atomic.Int64

	stateMu  sync.RWMutex
	state    State
	closeErr error // cause of the transition to StateDisconnected

	initMu     sync.RWMutex
	initResult *jsonrpc.Response
}

// NewSession creates a session over a started transport.
// The session begins in StateConnecting.
func NewSession(log *slog.Logger, transport Transport, cfg Config) *Session {
	id := ulid.Make().String()

	return &Session{
		id:        id,
		log:       log.With("component", "session", "session_id", id),
		transport: transport,
		cfg:       cfg,
		state:     StateConnecting,
	}
}

// ID returns the session identifier used in log output.
func (s *Session) ID() string {
	return s.id
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()

	return s.state
}

func (s *Session) setState(state State) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	if s.state == StateDisconnected {
		return
	}

	s.log.Debug("Session state change", "from", s.state, "to", state)
	s.state = state
}

// terminate moves the session to its terminal state, recording the first cause.
func (s *Session) terminate(cause error) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	if s.state == StateDisconnected {
		return
	}

	s.log.Debug("Session disconnected", "from", s.state, "cause", cause)
	s.state = StateDisconnected
	s.closeErr = cause
}

// Close marks the session as disconnected. It does not touch the
// transport, which belongs to the caller.
func (s *Session) Close() {
	s.terminate(errors.ErrTransportClosed)
}

// NextID returns the next request identifier. The first value is 1 and
// values are never reused within a session.
func (s *Session) NextID() int64 {
	return s.counter.Add(1)
}

// InitializeResult returns the raw reply to the initialize request, or nil
// before the handshake has completed.
func (s *Session) InitializeResult() *jsonrpc.Response {
	s.initMu.RLock()
	defer s.initMu.RUnlock()

	return s.initResult
}

// Initialize performs the handshake.
//
// It sends the initialize request with the protocol version, an empty
// capability set and the client identity, waits for the reply, then sends
// the initialized notification. The reply is not inspected: an error reply
// still completes the handshake and is returned to the caller as-is.
//
// Any failure leaves the session disconnected.
func (s *Session) Initialize(ctx context.Context) (*jsonrpc.Response, error) {
	if state := s.State(); state != StateConnecting {
		return nil, fmt.Errorf("initialize: session is %s", state)
	}

	s.setState(StateAwaitingInit)

	params := &mcp.InitializeParams{
		ProtocolVersion: s.cfg.ProtocolVersion,
		Capabilities:    &mcp.ClientCapabilities{},
		ClientInfo: &mcp.Implementation{
			Name:    s.cfg.ClientName,
			Version: s.cfg.ClientVersion,
		},
	}

	s.log.Debug("Sending initialize request", "protocol_version", s.cfg.ProtocolVersion)

	resp, err := s.roundTrip(ctx, MethodInitialize, params)
	if err != nil {
		s.terminate(err)

		return nil, fmt.Errorf("initialize: %w", err)
	}

	if resp.IsError() {
		s.log.Warn("Server returned an error for initialize", "error", string(resp.Error))
	}

	if err := s.notify(ctx, MethodInitialized, nil); err != nil {
		s.terminate(err)

		return nil, fmt.Errorf("initialized notification: %w", err)
	}

	s.initMu.Lock()
	s.initResult = resp
	s.initMu.Unlock()

	s.setState(StateReady)
	s.log.Info("Session initialized")

	return resp, nil
}

// Request sends a request and returns the next line read, decoded.
//
// A protocol error reply is returned as an ordinary Response; inspect
// IsError. Transport failures are returned as TransportClosedError and
// leave the session disconnected.
func (s *Session) Request(ctx context.Context, method string, params any) (*jsonrpc.Response, error) {
	if method == "" {
		return nil, fmt.Errorf("request: method is required")
	}

	if err := s.requireReady(method); err != nil {
		return nil, err
	}

	return s.roundTrip(ctx, method, params)
}

// Notify sends a notification. It never reads from the transport.
func (s *Session) Notify(ctx context.Context, method string, params any) error {
	if method == "" {
		return fmt.Errorf("notify: method is required")
	}

	if err := s.requireReady(method); err != nil {
		return err
	}

	return s.notify(ctx, method, params)
}

func (s *Session) requireReady(method string) error {
	s.stateMu.RLock()
	state, cause := s.state, s.closeErr
	s.stateMu.RUnlock()

	switch state {
	case StateReady:
		return nil
	case StateDisconnected:
		if cause == nil {
			cause = errors.ErrTransportClosed
		}

		var closedErr *errors.TransportClosedError
		if stderrors.As(cause, &closedErr) {
			cause = closedErr.Err
		}

		return &errors.TransportClosedError{Op: method, Err: cause}
	default:
		return errors.ErrNotReady
	}
}

func (s *Session) roundTrip(ctx context.Context, method string, params any) (*jsonrpc.Response, error) {
	s.callMu.Lock()
	defer s.callMu.Unlock()

	id := s.NextID()

	data, err := jsonrpc.Encode(jsonrpc.NewRequest(id, method, params))
	if err != nil {
		return nil, err
	}

	s.log.Debug("Sending request", "id", id, "method", method)

	if err := s.transport.WriteLine(ctx, data); err != nil {
		return nil, s.transportFailed("write", err)
	}

	line, err := s.transport.ReadLine(ctx)
	if err != nil {
		return nil, s.transportFailed("read", err)
	}

	resp, err := jsonrpc.Decode(line)
	if err != nil {
		s.log.Debug("Failed to decode response", "id", id, "error", err)

		return nil, err
	}

	if resp.ID == nil || *resp.ID != id {
		s.log.Warn("Response id does not match request id",
			"request_id", id,
			"response_id", formatID(resp.ID),
			"method", method,
		)
	}

	s.log.Debug("Received response", "id", id, "is_error", resp.IsError())

	return resp, nil
}

func (s *Session) notify(ctx context.Context, method string, params any) error {
	data, err := jsonrpc.Encode(jsonrpc.NewNotification(method, params))
	if err != nil {
		return err
	}

	s.log.Debug("Sending notification", "method", method)

	s.callMu.Lock()
	defer s.callMu.Unlock()

	if err := s.transport.WriteLine(ctx, data); err != nil {
		return s.transportFailed("write", err)
	}

	return nil
}

// transportFailed normalizes a transport error and ends the session.
func (s *Session) transportFailed(op string, err error) error {
	if stderrors.Is(err, io.EOF) && !stderrors.Is(err, errors.ErrEndOfStream) {
		err = errors.ErrEndOfStream
	}

	var closedErr *errors.TransportClosedError
	if !stderrors.As(err, &closedErr) && stderrors.Is(err, errors.ErrEndOfStream) {
		err = &errors.TransportClosedError{Op: op, Err: err}
	}

	s.terminate(err)

	return err
}

func formatID(id *int64) string {
	if id == nil {
		return "null"
	}

	return fmt.Sprintf("%d", *id)
}
