package mcpclient

import (
	"context"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	internalmcp "github.com/wagiedev/mcp-client-go/internal/mcp"
)

// Server-side types for writing small stdio tool servers, such as test
// doubles or demo servers, that this client can talk to.
type (
	// ToolRegistry holds tools and answers initialize, ping, tools/list
	// and tools/call.
	ToolRegistry = internalmcp.Registry

	// ToolHandler is the function signature for tool handlers.
	ToolHandler = mcp.ToolHandler

	// CallToolRequest is the request passed to tool handlers.
	CallToolRequest = mcp.CallToolRequest
)

// ErrToolNotFound is reported by ToolRegistry for unknown tool names.
var ErrToolNotFound = internalmcp.ErrToolNotFound

// NewToolRegistry creates an empty registry that identifies itself as name/version.
func NewToolRegistry(name, version string) *ToolRegistry {
	return internalmcp.NewRegistry(name, version)
}

// NewTool creates a tool definition.
func NewTool(name, description string, inputSchema *Schema) *Tool {
	return internalmcp.NewTool(name, description, inputSchema)
}

// TextResult creates a CallToolResult with text content.
func TextResult(text string) *CallToolResult {
	return internalmcp.TextResult(text)
}

// ErrorResult creates a CallToolResult reporting a tool-level failure.
func ErrorResult(message string) *CallToolResult {
	return internalmcp.ErrorResult(message)
}

// ParseArguments unmarshals CallToolRequest arguments into a map.
func ParseArguments(req *CallToolRequest) (map[string]any, error) {
	return internalmcp.ParseArguments(req)
}

// ServeStdio serves the registry's tools on the process's stdin and stdout
// until stdin is closed or ctx is cancelled.
func ServeStdio(ctx context.Context, registry *ToolRegistry) error {
	return internalmcp.Serve(ctx, registry, os.Stdin, os.Stdout)
}
