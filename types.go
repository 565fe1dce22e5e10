package mcpclient

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wagiedev/mcp-client-go/internal/config"
	"github.com/wagiedev/mcp-client-go/internal/jsonrpc"
	"github.com/wagiedev/mcp-client-go/internal/protocol"
)

// Options configures a connection. Build it with Option functions.
type Options = config.Options

// Response is a decoded reply line. Exactly one of Result and Error is
// normally set; inspect IsError before reading Result.
type Response = jsonrpc.Response

// RPCError is the error object carried by a protocol error reply.
type RPCError = jsonrpc.Error

// Standard protocol error codes.
const (
	CodeParseError     = jsonrpc.CodeParseError
	CodeInvalidRequest = jsonrpc.CodeInvalidRequest
	CodeMethodNotFound = jsonrpc.CodeMethodNotFound
	CodeInvalidParams  = jsonrpc.CodeInvalidParams
	CodeInternalError  = jsonrpc.CodeInternalError
)

// State is the lifecycle state of a session.
type State = protocol.State

// Session states.
const (
	StateDisconnected = protocol.StateDisconnected
	StateConnecting   = protocol.StateConnecting
	StateAwaitingInit = protocol.StateAwaitingInit
	StateReady        = protocol.StateReady
)

// Defaults applied when an option is not set.
const (
	DefaultProtocolVersion = config.DefaultProtocolVersion
	DefaultClientName      = config.DefaultClientName
	DefaultClientVersion   = config.DefaultClientVersion
	DefaultMaxLineSize     = config.DefaultMaxLineSize
)

// Re-export MCP SDK types used in decoded replies.
type (
	// InitializeResult is the server's reply to the handshake.
	InitializeResult = mcp.InitializeResult

	// Tool is one entry of a tools/list reply.
	Tool = mcp.Tool

	// CallToolResult is the result of a tools/call reply.
	CallToolResult = mcp.CallToolResult

	// Content is one block of a tool result.
	Content = mcp.Content

	// TextContent is a text block of a tool result.
	TextContent = mcp.TextContent
)

// ServerDefinition describes how to launch one server, as loaded from a
// TOML servers file.
type ServerDefinition = config.ServerDefinition

// LoadServers reads server definitions from a TOML file of the form:
//
//	[servers.echo]
//	command = "my-server"
//	args = ["--stdio"]
//	cwd = "/tmp"
//
//	[servers.echo.env]
//	TOKEN = "x"
func LoadServers(path string) (map[string]ServerDefinition, error) {
	return config.LoadServers(path)
}

// ParseServers is LoadServers for TOML text already in memory.
func ParseServers(data string) (map[string]ServerDefinition, error) {
	return config.ParseServers(data)
}
