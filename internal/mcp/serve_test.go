package mcp

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"testing"

	mcpgo "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/wagiedev/mcp-client-go/internal/jsonrpc"
)

func calculatorRegistry() *Registry {
	registry := NewRegistry("calc", "0.1.0")
	registry.AddTool(
		NewTool("add", "adds two numbers", SimpleSchema(map[string]string{"a": "float64", "b": "float64"})),
		func(_ context.Context, req *mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
			args, err := ParseArguments(req)
			if err != nil {
				return nil, err
			}

			a, _ := args["a"].(float64)
			b, _ := args["b"].(float64)

			return TextResult(strconv.FormatFloat(a+b, 'g', -1, 64)), nil
		},
	)

	return registry
}

func TestServe(t *testing.T) {
	input := strings.Join([]string{
		`{"protocolVersion":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-06-18","capabilities":{},"clientInfo":{"name":"t","version":"1"}}}`,
		`{"protocolVersion":"2.0","method":"notifications/initialized"}`,
		``,
		`not json`,
		`{"protocolVersion":"2.0","id":2,"method":"tools/list"}`,
		`{"protocolVersion":"2.0","id":3,"method":"tools/call","params":{"name":"add","arguments":{"a":1,"b":2}}}`,
		`{"protocolVersion":"2.0","id":4,"method":"tools/call","params":{"name":"nope"}}`,
		`{"protocolVersion":"2.0","id":5,"method":"resources/list"}`,
	}, "\n")

	var out bytes.Buffer

	require.NoError(t, Serve(context.Background(), calculatorRegistry(), strings.NewReader(input), &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 5)

	responses := make([]*jsonrpc.Response, 0, len(lines))

	for _, line := range lines {
		resp, err := jsonrpc.Decode([]byte(line))
		require.NoError(t, err)

		responses = append(responses, resp)
	}

	for i, resp := range responses {
		require.Equal(t, int64(i+1), *resp.ID)
	}

	initResult, err := DecodeInitializeResult(responses[0])
	require.NoError(t, err)
	require.Equal(t, "2025-06-18", initResult.ProtocolVersion)
	require.Equal(t, "calc", initResult.ServerInfo.Name)

	tools, err := DecodeTools(responses[1])
	require.NoError(t, err)
	require.Len(t, tools, 1)
	require.Equal(t, "add", tools[0].Name)

	result, err := DecodeCallToolResult(responses[2])
	require.NoError(t, err)
	require.Equal(t, "3", TextContent(result))

	require.Equal(t, jsonrpc.CodeInvalidParams, responses[3].Err().Code)
	require.Equal(t, jsonrpc.CodeMethodNotFound, responses[4].Err().Code)
}

func TestServe_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer

	err := Serve(ctx, calculatorRegistry(), strings.NewReader(`{"protocolVersion":"2.0","id":1,"method":"ping"}`+"\n"), &out)
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, out.String())
}

func TestRegistryHandle_ToolFailure(t *testing.T) {
	registry := NewRegistry("demo", "1.0.0")
	registry.AddTool(NewTool("boom", "fails", nil),
		func(context.Context, *mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
			return nil, context.DeadlineExceeded
		},
	)

	id := int64(9)
	resp := registry.Handle(context.Background(), &jsonrpc.Call{
		ID:     &id,
		Method: "tools/call",
		Params: []byte(`{"name":"boom"}`),
	})

	require.True(t, resp.IsError())
	require.Equal(t, CodeToolFailed, resp.Err().Code)
}
