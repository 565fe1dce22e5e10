package mcpclient

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplyOptions(t *testing.T) {
	var stderrCalled bool

	options := applyOptions([]Option{
		WithLogger(NopLogger()),
		WithClientInfo("name", "1.2.3"),
		WithProtocolVersion("2024-11-05"),
		WithEnv(map[string]string{"A": "1"}),
		WithEnv(map[string]string{"B": "2"}),
		WithCwd("/tmp"),
		WithStderr(func(string) { stderrCalled = true }),
		WithMaxLineSize(4096),
	})

	require.NotNil(t, options.Logger)
	require.Equal(t, "name", options.ClientName)
	require.Equal(t, "1.2.3", options.ClientVersion)
	require.Equal(t, "2024-11-05", options.ProtocolVersion)
	require.Equal(t, map[string]string{"A": "1", "B": "2"}, options.Env)
	require.Equal(t, "/tmp", options.Cwd)
	require.Equal(t, 4096, options.MaxLineSize)

	options.Stderr("line")
	require.True(t, stderrCalled)
}

func TestApplyOptions_Defaults(t *testing.T) {
	options := applyOptions(nil).WithDefaults()

	require.Equal(t, DefaultClientName, options.ClientName)
	require.Equal(t, DefaultClientVersion, options.ClientVersion)
	require.Equal(t, DefaultProtocolVersion, options.ProtocolVersion)
	require.Equal(t, DefaultMaxLineSize, options.MaxLineSize)
}

func TestWithServer(t *testing.T) {
	servers, err := ParseServers(`
[servers.echo]
command = "echo-server"
args = ["--stdio"]
cwd = "/srv"

[servers.echo.env]
TOKEN = "x"
`)
	require.NoError(t, err)

	def, ok := servers["echo"]
	require.True(t, ok)
	require.Equal(t, "echo-server", def.Command)
	require.Equal(t, []string{"--stdio"}, def.Args)

	options := applyOptions([]Option{
		WithEnv(map[string]string{"OTHER": "y"}),
		WithServer(def),
	})

	require.Equal(t, "/srv", options.Cwd)
	require.Equal(t, map[string]string{"OTHER": "y", "TOKEN": "x"}, options.Env)
}
