// Package jsonrpc implements the line-delimited message codec for stdio sessions.
//
// Outgoing requests and notifications are encoded to a single line of JSON.
// Incoming lines are decoded into a Response whose result and error members
// are kept as raw JSON, so the client never needs to know a server's schema.
package jsonrpc

import (
	"encoding/json"
	"fmt"
)

const (
	// Version is the protocol marker value carried by every message.
	Version = "2.0"

	// VersionField is the wire name of the protocol marker.
	VersionField = "protocolVersion"

	// legacyVersionField is the JSON-RPC 2.0 spelling of the marker,
	// accepted on decode only.
	legacyVersionField = "jsonrpc"
)

// Message is a value that can be written to the wire.
// Implementations: *Request, *Notification, *Response.
type Message interface {
	message() // marker method
}

// Compile-time verification that all message types implement Message.
var (
	_ Message = (*Request)(nil)
	_ Message = (*Notification)(nil)
	_ Message = (*Response)(nil)
)

// Request is a call that expects exactly one reply.
//
// Wire format:
//
//	{"protocolVersion":"2.0","id":1,"method":"tools/list","params":{}}
type Request struct {
	Version string `json:"protocolVersion"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

func (*Request) message() {}

// NewRequest creates a request with the protocol marker set.
func NewRequest(id int64, method string, params any) *Request {
	return &Request{
		Version: Version,
		ID:      id,
		Method:  method,
		Params:  params,
	}
}

// Notification is a one-way message. Receivers never reply to it.
//
// Wire format:
//
//	{"protocolVersion":"2.0","method":"notifications/initialized"}
type Notification struct {
	Version string `json:"protocolVersion"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

func (*Notification) message() {}

// NewNotification creates a notification with the protocol marker set.
func NewNotification(method string, params any) *Notification {
	return &Notification{
		Version: Version,
		Method:  method,
		Params:  params,
	}
}

// Response is the reply to a Request.
//
// Result and Error are preserved as raw JSON. A well-formed response carries
// exactly one of them, but this is not enforced.
//
// Wire format for success:
//
//	{"protocolVersion":"2.0","id":1,"result":{...}}
//
// Wire format for error:
//
//	{"protocolVersion":"2.0","id":1,"error":{"code":-32601,"message":"method not found"}}
type Response struct {
	Version string          `json:"protocolVersion"`
	ID      *int64          `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   json.RawMessage `json:"error,omitempty"`
}

func (*Response) message() {}

// NewResultResponse builds a successful response. Used by servers and tests.
func NewResultResponse(id int64, result any) (*Response, error) {
	data, err := jsonAPI.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}

	return &Response{Version: Version, ID: &id, Result: data}, nil
}

// NewErrorResponse builds an error response. Used by servers and tests.
func NewErrorResponse(id int64, code int, message string) *Response {
	data, _ := jsonAPI.Marshal(&Error{Code: code, Message: message})

	return &Response{Version: Version, ID: &id, Error: data}
}

// IsError reports whether the response carries a non-null error member.
func (r *Response) IsError() bool {
	return isPresent(r.Error)
}

// HasResult reports whether the response carries a non-null result member.
func (r *Response) HasResult() bool {
	return isPresent(r.Result)
}

// Err parses the error member. Returns nil when the response is not an error.
// An error member that is not a {code, message} object is reported with its
// raw text as the message.
func (r *Response) Err() *Error {
	if !r.IsError() {
		return nil
	}

	var e Error
	if err := jsonAPI.Unmarshal(r.Error, &e); err != nil {
		return &Error{Message: string(r.Error)}
	}

	return &e
}

// UnmarshalResult decodes the result member into v.
func (r *Response) UnmarshalResult(v any) error {
	if !r.HasResult() {
		return fmt.Errorf("response has no result")
	}

	if err := jsonAPI.Unmarshal(r.Result, v); err != nil {
		return fmt.Errorf("unmarshal result: %w", err)
	}

	return nil
}

// Error is a protocol-level error object returned by the server.
type Error struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("server error %d: %s", e.Code, e.Message)
}

// Standard error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// Call is a request or notification as seen by the receiving side.
// It is produced by DecodeCall.
type Call struct {
	ID     *int64
	Method string
	Params json.RawMessage
}

// IsNotification reports whether the call expects no reply.
func (c *Call) IsNotification() bool {
	return c.ID == nil
}

func isPresent(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}
