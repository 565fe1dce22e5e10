package mcp

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wagiedev/mcp-client-go/internal/jsonrpc"
)

// CodeToolFailed is the error code used when a tool handler returns an error.
const CodeToolFailed = -32000

const maxServeLineSize = 1024 * 1024

// Handle answers one request with the registry's tools.
//
// It implements initialize, ping, tools/list and tools/call. Any other
// method gets a method-not-found error reply. The call must carry an id.
func (r *Registry) Handle(ctx context.Context, call *jsonrpc.Call) *jsonrpc.Response {
	id := *call.ID

	switch call.Method {
	case "initialize":
		var params mcp.InitializeParams
		if len(call.Params) > 0 {
			_ = jsonAPI.Unmarshal(call.Params, &params)
		}

		return resultResponse(id, r.InitializeResult(params.ProtocolVersion))
	case "ping":
		return resultResponse(id, map[string]any{})
	case "tools/list":
		return resultResponse(id, r.ListTools())
	case "tools/call":
		var params mcp.CallToolParamsRaw
		if err := jsonAPI.Unmarshal(call.Params, &params); err != nil {
			return jsonrpc.NewErrorResponse(id, jsonrpc.CodeInvalidParams, err.Error())
		}

		result, err := r.CallTool(ctx, params.Name, params.Arguments)

		switch {
		case errors.Is(err, ErrToolNotFound):
			return jsonrpc.NewErrorResponse(id, jsonrpc.CodeInvalidParams, err.Error())
		case err != nil:
			return jsonrpc.NewErrorResponse(id, CodeToolFailed, err.Error())
		}

		return resultResponse(id, result)
	default:
		return jsonrpc.NewErrorResponse(id, jsonrpc.CodeMethodNotFound, "method not found: "+call.Method)
	}
}

func resultResponse(id int64, result any) *jsonrpc.Response {
	resp, err := jsonrpc.NewResultResponse(id, result)
	if err != nil {
		return jsonrpc.NewErrorResponse(id, jsonrpc.CodeInternalError, err.Error())
	}

	return resp
}

// Serve reads requests from in and writes one reply line per request to
// out until in is exhausted or ctx is cancelled.
//
// Notifications are consumed without a reply. Lines that are not valid
// messages are skipped, since there is no id to answer them with.
func Serve(ctx context.Context, registry *Registry, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxServeLineSize)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		call, err := jsonrpc.DecodeCall(line)
		if err != nil || call.IsNotification() {
			continue
		}

		data, err := jsonrpc.Encode(registry.Handle(ctx, call))
		if err != nil {
			return err
		}

		if _, err := out.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("write reply: %w", err)
		}
	}

	return scanner.Err()
}
