//go:build integration

package integration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	mcpclient "github.com/wagiedev/mcp-client-go"
)

// TestLifecycle_Handshake tests that the server's initialize reply is kept.
func TestLifecycle_Handshake(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	client := connect(ctx, t)

	require.Equal(t, mcpclient.StateReady, client.State())

	info := client.ServerInfo()
	require.NotNil(t, info)
	require.NotNil(t, info.ServerInfo)
	require.NotEmpty(t, info.ServerInfo.Name)
}

// TestLifecycle_Reconnect tests Disconnect followed by a fresh Connect.
func TestLifecycle_Reconnect(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	client := connect(ctx, t)

	client.Disconnect()
	require.Equal(t, mcpclient.StateDisconnected, client.State())

	_, err := client.ListTools(ctx)
	require.ErrorIs(t, err, mcpclient.ErrNotConnected)

	command, args := serverCommand()
	require.NoError(t, client.Connect(ctx, command, args, mcpclient.WithCwd("..")))

	require.Equal(t, "1 + 1 = 2", callText(ctx, t, client, "add", map[string]any{"a": 1, "b": 1}))
}

// TestLifecycle_CancelMidCall tests that a cancelled call terminates the
// server promptly instead of waiting for the reply.
func TestLifecycle_CancelMidCall(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	client := connect(ctx, t)

	callCtx, callCancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer callCancel()

	start := time.Now()

	_, err := client.CallTool(callCtx, "slow", map[string]any{"seconds": 5})
	require.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)
	require.Less(t, time.Since(start), 4*time.Second,
		"cancellation should not wait for the tool to finish")

	_, err = client.Request(ctx, "ping", nil)
	require.Error(t, err, "session should be unusable after cancellation")

	client.Disconnect()
	require.Equal(t, mcpclient.StateDisconnected, client.State())
}
