package mcpclient

import (
	"context"

	"github.com/wagiedev/mcp-client-go/internal/client"
)

// clientWrapper wraps the internal client to adapt it to the public interface.
type clientWrapper struct {
	impl *client.Client
}

// Compile-time check that *clientWrapper implements the Client interface.
var _ Client = (*clientWrapper)(nil)

// newClientImpl creates the internal client implementation.
func newClientImpl() Client {
	return &clientWrapper{impl: client.New()}
}

func (c *clientWrapper) Connect(ctx context.Context, command string, args []string, opts ...Option) error {
	return c.impl.Connect(ctx, command, args, applyOptions(opts))
}

func (c *clientWrapper) ListTools(ctx context.Context) (*Response, error) {
	return c.impl.ListTools(ctx)
}

func (c *clientWrapper) CallTool(ctx context.Context, name string, arguments map[string]any) (*Response, error) {
	return c.impl.CallTool(ctx, name, arguments)
}

func (c *clientWrapper) Request(ctx context.Context, method string, params any) (*Response, error) {
	return c.impl.Request(ctx, method, params)
}

func (c *clientWrapper) Notify(ctx context.Context, method string, params any) error {
	return c.impl.Notify(ctx, method, params)
}

func (c *clientWrapper) ServerInfo() *InitializeResult {
	return c.impl.ServerInfo()
}

func (c *clientWrapper) State() State {
	return c.impl.State()
}

func (c *clientWrapper) Stderr() string {
	return c.impl.Stderr()
}

func (c *clientWrapper) Disconnect() {
	c.impl.Disconnect()
}
