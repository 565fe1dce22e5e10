package mcpclient

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wagiedev/mcp-client-go/internal/testutil/fakeserver"
)

func TestMain(m *testing.M) {
	fakeserver.RunIfRequested()
	os.Exit(m.Run())
}

// fakeServer returns the command, args and options that launch the fake
// server in mode.
func fakeServer(t *testing.T, mode fakeserver.Mode, opts ...Option) (string, []string, []Option) {
	t.Helper()

	command, args, env := fakeserver.Command(t, mode)

	return command, args, append([]Option{WithEnv(env)}, opts...)
}

func connectFake(t *testing.T, mode fakeserver.Mode, opts ...Option) Client {
	t.Helper()

	command, args, options := fakeServer(t, mode, opts...)

	client := NewClient()
	require.NoError(t, client.Connect(context.Background(), command, args, options...))

	t.Cleanup(client.Disconnect)

	return client
}

// TestNewClient_Creation tests client creation.
func TestNewClient_Creation(t *testing.T) {
	client := NewClient()
	require.NotNil(t, client)
	require.Equal(t, StateDisconnected, client.State())
	require.Nil(t, client.ServerInfo())
	require.Empty(t, client.Stderr())

	client.Disconnect()
}

// TestClient_NotConnected tests every call on a fresh client.
func TestClient_NotConnected(t *testing.T) {
	client := NewClient()
	defer client.Disconnect()

	ctx := context.Background()

	_, err := client.ListTools(ctx)
	require.ErrorIs(t, err, ErrNotConnected)

	_, err = client.CallTool(ctx, "echo", nil)
	require.ErrorIs(t, err, ErrNotConnected)

	_, err = client.Request(ctx, "ping", nil)
	require.ErrorIs(t, err, ErrNotConnected)

	require.ErrorIs(t, client.Notify(ctx, "notifications/progress", nil), ErrNotConnected)
}

// TestClient_ConnectAndCall tests the full lifecycle against the echo server.
func TestClient_ConnectAndCall(t *testing.T) {
	client := connectFake(t, fakeserver.ModeEcho)
	ctx := context.Background()

	require.Equal(t, StateReady, client.State())

	info := client.ServerInfo()
	require.NotNil(t, info)
	require.Equal(t, "fake-server", info.ServerInfo.Name)

	resp, err := client.ListTools(ctx)
	require.NoError(t, err)

	tools, err := DecodeTools(resp)
	require.NoError(t, err)
	require.Len(t, tools, 2)

	args := map[string]any{"message": "hi"}
	require.NoError(t, ValidateArguments(tools[0], args))

	resp, err = client.CallTool(ctx, tools[0].Name, args)
	require.NoError(t, err)

	result, err := DecodeCallToolResult(resp)
	require.NoError(t, err)
	require.Equal(t, "hi", TextOf(result))

	client.Disconnect()
	require.Equal(t, StateDisconnected, client.State())
}

// TestClient_ErrorReplyDecodesToRPCError tests the protocol error path.
func TestClient_ErrorReplyDecodesToRPCError(t *testing.T) {
	client := connectFake(t, fakeserver.ModeEcho)

	resp, err := client.CallTool(context.Background(), "fail", map[string]any{})
	require.NoError(t, err)
	require.True(t, resp.IsError())

	_, err = DecodeCallToolResult(resp)

	rpcErr, ok := errors.AsType[*RPCError](err)
	require.True(t, ok)
	require.Equal(t, -32000, rpcErr.Code)

	resp, err = client.CallTool(context.Background(), "missing", map[string]any{})
	require.NoError(t, err)
	require.Equal(t, CodeInvalidParams, resp.Err().Code)
}

// TestClient_SpawnError tests that the public error type is usable.
func TestClient_SpawnError(t *testing.T) {
	client := NewClient()

	err := client.Connect(context.Background(), "definitely-not-a-real-mcp-server-binary", nil)

	spawnErr, ok := errors.AsType[*SpawnError](err)
	require.True(t, ok)
	require.Equal(t, []string{"$PATH"}, spawnErr.SearchedPaths)

	_, ok = errors.AsType[ClientError](err)
	require.True(t, ok)

	client.Disconnect()
}

// TestClient_ServerClosesAfterInit tests that a vanished server surfaces
// as TransportClosedError.
func TestClient_ServerClosesAfterInit(t *testing.T) {
	client := connectFake(t, fakeserver.ModeCloseAfterInit)

	_, err := client.CallTool(context.Background(), "echo", map[string]any{"message": "hi"})

	_, ok := errors.AsType[*TransportClosedError](err)
	require.True(t, ok)
	require.ErrorIs(t, err, ErrEndOfStream)
	require.Equal(t, StateDisconnected, client.State())
}

// TestClient_AlreadyConnected tests the double Connect guard.
func TestClient_AlreadyConnected(t *testing.T) {
	client := connectFake(t, fakeserver.ModeEcho)

	command, args, options := fakeServer(t, fakeserver.ModeEcho)

	err := client.Connect(context.Background(), command, args, options...)
	require.ErrorIs(t, err, ErrAlreadyConnected)
}

// TestClient_StderrCallback tests that server stderr lines reach the callback.
func TestClient_StderrCallback(t *testing.T) {
	var (
		mu    sync.Mutex
		lines []string
	)

	client := connectFake(t, fakeserver.ModeEcho, WithStderr(func(line string) {
		mu.Lock()
		defer mu.Unlock()

		lines = append(lines, line)
	}))

	_, err := client.Request(context.Background(), "ping", nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()

		for _, line := range lines {
			if line == "request 2 ping" {
				return true
			}
		}

		return false
	}, 5*time.Second, 10*time.Millisecond)

	require.True(t, strings.Contains(client.Stderr(), "request 1 initialize"))
}

// TestClient_ClientInfoOption tests that handshake options reach the server.
func TestClient_ClientInfoOption(t *testing.T) {
	client := connectFake(t, fakeserver.ModeEcho,
		WithClientInfo("custom-client", "2.0.0"),
		WithProtocolVersion("2024-11-05"),
		WithLogger(NopLogger()),
	)

	// The echo server answers with the version it was offered.
	assert.Equal(t, "2024-11-05", client.ServerInfo().ProtocolVersion)
}

// TestClient_Cancellation tests a cancelled handshake against a silent server.
func TestClient_Cancellation(t *testing.T) {
	command, args, options := fakeServer(t, fakeserver.ModeSilent)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	client := NewClient()
	defer client.Disconnect()

	err := client.Connect(ctx, command, args, options...)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Equal(t, StateDisconnected, client.State())
}
