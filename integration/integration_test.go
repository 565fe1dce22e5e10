//go:build integration

package integration

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	mcpclient "github.com/wagiedev/mcp-client-go"
)

// serverEnv overrides the server under test with a whitespace-separated
// command line. The calculator example is used by default.
const serverEnv = "MCP_CLIENT_INTEGRATION_SERVER"

// serverCommand returns the command line of the server under test.
func serverCommand() (string, []string) {
	if fields := strings.Fields(os.Getenv(serverEnv)); len(fields) > 0 {
		return fields[0], fields[1:]
	}

	return "go", []string{"run", "./examples/calculator_server"}
}

// skipIfServerNotInstalled skips the test if the error indicates the server
// binary is not found.
func skipIfServerNotInstalled(t *testing.T, err error) {
	t.Helper()

	if _, ok := errors.AsType[*mcpclient.SpawnError](err); ok {
		t.Skipf("server not available: %v", err)
	}
}

// connect starts the server under test from the repository root and
// registers Disconnect as cleanup.
func connect(ctx context.Context, t *testing.T, opts ...mcpclient.Option) mcpclient.Client {
	t.Helper()

	command, args := serverCommand()

	client := mcpclient.NewClient()
	t.Cleanup(client.Disconnect)

	err := client.Connect(ctx, command, args, append([]mcpclient.Option{mcpclient.WithCwd("..")}, opts...)...)
	if err != nil {
		skipIfServerNotInstalled(t, err)
		require.NoError(t, err, "Connect should succeed")
	}

	return client
}

// callText calls a tool and returns the text of its result.
func callText(ctx context.Context, t *testing.T, client mcpclient.Client, tool string, args map[string]any) string {
	t.Helper()

	resp, err := client.CallTool(ctx, tool, args)
	require.NoError(t, err)

	result, err := mcpclient.DecodeCallToolResult(resp)
	require.NoError(t, err)

	return mcpclient.TextOf(result)
}
