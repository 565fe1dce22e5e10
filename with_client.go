package mcpclient

import (
	"context"
	"fmt"
)

// WithClient manages client lifecycle with automatic cleanup.
//
// This helper creates a client, connects it to the server, executes the
// callback function, and disconnects when done, whether or not the callback
// succeeded. The callback receives a client in StateReady. If the callback
// returns an error, it is returned to the caller.
//
// Example usage:
//
//	err := mcpclient.WithClient(ctx, "my-server", nil, func(c mcpclient.Client) error {
//	    resp, err := c.CallTool(ctx, "echo", map[string]any{"message": "hi"})
//	    if err != nil {
//	        return err
//	    }
//	    result, err := mcpclient.DecodeCallToolResult(resp)
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(mcpclient.TextOf(result))
//	    return nil
//	},
//	    mcpclient.WithLogger(log),
//	)
func WithClient(
	ctx context.Context,
	command string,
	args []string,
	fn func(Client) error,
	opts ...Option,
) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	client := NewClient()
	defer client.Disconnect()

	if err := client.Connect(ctx, command, args, opts...); err != nil {
		return fmt.Errorf("failed to connect client: %w", err)
	}

	return fn(client)
}
