//go:build integration

package integration

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	mcpclient "github.com/wagiedev/mcp-client-go"
)

// TestStderrCallback_ReceivesOutput tests that server diagnostics reach the
// callback line by line.
func TestStderrCallback_ReceivesOutput(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	var (
		mu          sync.Mutex
		stderrLines []string
	)

	client := connect(ctx, t, mcpclient.WithStderr(func(line string) {
		mu.Lock()
		defer mu.Unlock()

		stderrLines = append(stderrLines, line)
	}))

	callText(ctx, t, client, "add", map[string]any{"a": 1, "b": 2})

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()

		for _, line := range stderrLines {
			if strings.Contains(line, "add") {
				return true
			}
		}

		return false
	}, 5*time.Second, 20*time.Millisecond)

	t.Logf("Received %d stderr lines", len(stderrLines))
}

// TestStderr_SurvivesDisconnect tests that buffered stderr stays readable
// after the session ends.
func TestStderr_SurvivesDisconnect(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	client := connect(ctx, t)

	callText(ctx, t, client, "subtract", map[string]any{"a": 5, "b": 3})

	require.Eventually(t, func() bool {
		return strings.Contains(client.Stderr(), "subtract")
	}, 5*time.Second, 20*time.Millisecond)

	client.Disconnect()

	require.Contains(t, client.Stderr(), "subtract")
}
