package mcpclient

import (
	"github.com/google/jsonschema-go/jsonschema"

	internalmcp "github.com/wagiedev/mcp-client-go/internal/mcp"
)

// Schema is a JSON Schema object, as used for tool input schemas.
type Schema = jsonschema.Schema

// DecodeTools extracts the tool list from a ListTools reply.
//
// A protocol error reply is returned as *RPCError:
//
//	tools, err := mcpclient.DecodeTools(resp)
//	if rpcErr, ok := errors.AsType[*mcpclient.RPCError](err); ok {
//	    log.Printf("server refused: %d %s", rpcErr.Code, rpcErr.Message)
//	}
func DecodeTools(resp *Response) ([]*Tool, error) {
	return internalmcp.DecodeTools(resp)
}

// DecodeCallToolResult extracts the tool result from a CallTool reply.
//
// A protocol error reply is returned as *RPCError. A tool that ran but
// failed decodes successfully with IsError set.
func DecodeCallToolResult(resp *Response) (*CallToolResult, error) {
	return internalmcp.DecodeCallToolResult(resp)
}

// TextOf joins the text blocks of a tool result with newlines.
func TextOf(result *CallToolResult) string {
	return internalmcp.TextContent(result)
}

// ValidateArguments checks arguments against the tool's input schema
// before a call is made. A tool without a schema accepts any arguments.
//
// Example:
//
//	if err := mcpclient.ValidateArguments(tool, args); err != nil {
//	    return err
//	}
//	resp, err := client.CallTool(ctx, tool.Name, args)
func ValidateArguments(tool *Tool, arguments map[string]any) error {
	return internalmcp.ValidateArguments(tool, arguments)
}

// SimpleSchema creates an object schema from a property-to-type map.
// Every property is required.
//
// Type mappings:
//   - "string"           → {"type": "string"}
//   - "int", "int64"     → {"type": "integer"}
//   - "float64", "float" → {"type": "number"}
//   - "bool"             → {"type": "boolean"}
//   - "[]string"         → {"type": "array", "items": {"type": "string"}}
//   - "any", "object"    → {"type": "object"}
func SimpleSchema(props map[string]string) *Schema {
	return internalmcp.SimpleSchema(props)
}
