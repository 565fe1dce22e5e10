package mcpclient

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	internalmcp "github.com/wagiedev/mcp-client-go/internal/mcp"
)

// pipeTransport runs a ToolRegistry in-process over a pair of pipes.
type pipeTransport struct {
	registry *ToolRegistry

	toServer   *io.PipeWriter
	fromServer *bufio.Scanner
	closeOnce  sync.Once
	done       chan error
	closers    []io.Closer
}

func (p *pipeTransport) Start(ctx context.Context) error {
	serverIn, clientOut := io.Pipe()
	clientIn, serverOut := io.Pipe()

	p.toServer = clientOut
	p.fromServer = bufio.NewScanner(clientIn)
	p.done = make(chan error, 1)
	p.closers = []io.Closer{clientOut, clientIn, serverOut}

	go func() {
		err := internalmcp.Serve(context.WithoutCancel(ctx), p.registry, serverIn, serverOut)
		_ = serverOut.Close()
		p.done <- err
	}()

	return nil
}

func (p *pipeTransport) WriteLine(_ context.Context, line []byte) error {
	_, err := p.toServer.Write(append(line, '\n'))
	if err != nil {
		return &TransportClosedError{Op: "write", Err: err}
	}

	return nil
}

func (p *pipeTransport) ReadLine(_ context.Context) ([]byte, error) {
	if !p.fromServer.Scan() {
		return nil, ErrEndOfStream
	}

	return []byte(p.fromServer.Text()), nil
}

func (p *pipeTransport) Close() error {
	p.closeOnce.Do(func() {
		for _, c := range p.closers {
			_ = c.Close()
		}
	})

	return nil
}

func multiplyRegistry() *ToolRegistry {
	registry := NewToolRegistry("multiplier", "1.0.0")
	registry.AddTool(
		NewTool("multiply", "Multiply two numbers", SimpleSchema(map[string]string{"a": "float64", "b": "float64"})),
		func(_ context.Context, req *CallToolRequest) (*CallToolResult, error) {
			args, err := ParseArguments(req)
			if err != nil {
				return ErrorResult(err.Error()), nil
			}

			a, _ := args["a"].(float64)
			b, _ := args["b"].(float64)

			return TextResult(fmt.Sprintf("%v", a*b)), nil
		},
	)

	return registry
}

// TestToolRegistry_ThroughClient runs the client against an in-process
// registry through an injected transport.
func TestToolRegistry_ThroughClient(t *testing.T) {
	ctx := context.Background()
	transport := &pipeTransport{registry: multiplyRegistry()}

	client := NewClient()
	require.NoError(t, client.Connect(ctx, "", nil, WithTransport(transport)))

	t.Cleanup(client.Disconnect)

	require.Equal(t, "multiplier", client.ServerInfo().ServerInfo.Name)

	resp, err := client.ListTools(ctx)
	require.NoError(t, err)

	tools, err := DecodeTools(resp)
	require.NoError(t, err)
	require.Len(t, tools, 1)

	args := map[string]any{"a": 6.0, "b": 7.0}
	require.NoError(t, ValidateArguments(tools[0], args))

	resp, err = client.CallTool(ctx, "multiply", args)
	require.NoError(t, err)

	result, err := DecodeCallToolResult(resp)
	require.NoError(t, err)
	require.Equal(t, "42", TextOf(result))

	resp, err = client.CallTool(ctx, "divide", args)
	require.NoError(t, err)
	require.Equal(t, CodeInvalidParams, resp.Err().Code)

	client.Disconnect()

	_, err = client.ListTools(ctx)
	require.ErrorIs(t, err, ErrNotConnected)
}
