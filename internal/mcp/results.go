package mcp

import (
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	jsoniter "github.com/json-iterator/go"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wagiedev/mcp-client-go/internal/jsonrpc"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// DecodeTools extracts the tool list from a tools/list reply.
// An error reply is returned as *jsonrpc.Error.
func DecodeTools(resp *jsonrpc.Response) ([]*mcp.Tool, error) {
	var result mcp.ListToolsResult
	if err := decodeResult(resp, &result); err != nil {
		return nil, fmt.Errorf("decode tools: %w", err)
	}

	return result.Tools, nil
}

// DecodeCallToolResult extracts the tool result from a tools/call reply.
// An error reply is returned as *jsonrpc.Error; a tool that ran and failed
// is a successful decode with IsError set.
func DecodeCallToolResult(resp *jsonrpc.Response) (*mcp.CallToolResult, error) {
	var result mcp.CallToolResult
	if err := decodeResult(resp, &result); err != nil {
		return nil, fmt.Errorf("decode tool result: %w", err)
	}

	return &result, nil
}

// DecodeInitializeResult extracts the server's handshake reply.
func DecodeInitializeResult(resp *jsonrpc.Response) (*mcp.InitializeResult, error) {
	var result mcp.InitializeResult
	if err := decodeResult(resp, &result); err != nil {
		return nil, fmt.Errorf("decode initialize result: %w", err)
	}

	return &result, nil
}

func decodeResult(resp *jsonrpc.Response, v any) error {
	if resp == nil {
		return fmt.Errorf("nil response")
	}

	if rpcErr := resp.Err(); rpcErr != nil {
		return rpcErr
	}

	return resp.UnmarshalResult(v)
}

// TextContent joins the text blocks of a tool result with newlines.
// Non-text content is skipped.
func TextContent(result *mcp.CallToolResult) string {
	if result == nil {
		return ""
	}

	texts := make([]string, 0, len(result.Content))

	for _, content := range result.Content {
		if text, ok := content.(*mcp.TextContent); ok {
			texts = append(texts, text.Text)
		}
	}

	return strings.Join(texts, "\n")
}

// ValidateArguments checks arguments against the tool's input schema.
// A tool without a schema accepts anything.
func ValidateArguments(tool *mcp.Tool, arguments map[string]any) error {
	if tool == nil {
		return fmt.Errorf("validate arguments: nil tool")
	}

	if tool.InputSchema == nil {
		return nil
	}

	data, err := jsonAPI.Marshal(tool.InputSchema)
	if err != nil {
		return fmt.Errorf("input schema of tool %q: %w", tool.Name, err)
	}

	var schema jsonschema.Schema
	if err := jsonAPI.Unmarshal(data, &schema); err != nil {
		return fmt.Errorf("input schema of tool %q: %w", tool.Name, err)
	}

	resolved, err := schema.Resolve(nil)
	if err != nil {
		return fmt.Errorf("resolve input schema of tool %q: %w", tool.Name, err)
	}

	if arguments == nil {
		arguments = map[string]any{}
	}

	if err := resolved.Validate(arguments); err != nil {
		return fmt.Errorf("arguments for tool %q: %w", tool.Name, err)
	}

	return nil
}
