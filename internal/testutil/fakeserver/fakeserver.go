// Package fakeserver is a scripted stdio server for tests.
//
// Tests re-execute their own binary as the server: TestMain calls
// RunIfRequested, which takes over the process when EnvMode is set.
package fakeserver

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"testing"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wagiedev/mcp-client-go/internal/jsonrpc"
	toolmcp "github.com/wagiedev/mcp-client-go/internal/mcp"
)

// EnvMode selects the server behavior in the child process.
const EnvMode = "MCP_CLIENT_FAKE_SERVER_MODE"

// Mode is a scripted server behavior.
type Mode string

const (
	// ModeEcho implements initialize, ping, tools/list and tools/call.
	ModeEcho Mode = "echo"
	// ModeStatic answers every request with the same id-1 empty result and
	// closes stdout after the first notification.
	ModeStatic Mode = "static"
	// ModeCloseAfterInit closes stdout right after the initialize reply.
	ModeCloseAfterInit Mode = "close-after-init"
	// ModeExitAfterInit exits once the initialized notification arrives.
	ModeExitAfterInit Mode = "exit-after-init"
	// ModeSilent reads requests and never replies.
	ModeSilent Mode = "silent"
	// ModeGarbage answers initialize, then replies with a non-JSON line.
	ModeGarbage Mode = "garbage"
	// ModeWrongID answers every request with an id that does not match.
	ModeWrongID Mode = "wrong-id"
	// ModeExitImmediately exits before reading anything.
	ModeExitImmediately Mode = "exit"
)

// StaticReply is the line ModeStatic writes for every request.
const StaticReply = `{"protocolVersion":"2.0","id":1,"result":{}}`

// ServerName is reported in the initialize reply.
const ServerName = "fake-server"

// Command returns the executable, arguments and extra environment that run
// the fake server in the given mode.
func Command(t testing.TB, mode Mode) (string, []string, map[string]string) {
	t.Helper()

	exe, err := os.Executable()
	if err != nil {
		t.Fatalf("locate test binary: %v", err)
	}

	return exe, nil, map[string]string{EnvMode: string(mode)}
}

// RunIfRequested runs the fake server and exits when EnvMode is set.
// Otherwise it returns immediately.
func RunIfRequested() {
	mode := os.Getenv(EnvMode)
	if mode == "" {
		return
	}

	if err := Run(Mode(mode), os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "fake server: %v\n", err)
		os.Exit(1)
	}

	os.Exit(0)
}

// Run serves the protocol on in/out until in is exhausted.
// Every received message is reported on diag as "<kind> <method>".
func Run(mode Mode, in io.Reader, out io.WriteCloser, diag io.Writer) error {
	if mode == ModeExitImmediately {
		return nil
	}

	s := &server{mode: mode, out: out, diag: diag}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		done, err := s.handle(scanner.Bytes())
		if err != nil {
			return err
		}

		if done {
			return nil
		}
	}

	return scanner.Err()
}

type server struct {
	mode         Mode
	out          io.WriteCloser
	diag         io.Writer
	stdoutClosed bool
}

func (s *server) handle(line []byte) (bool, error) {
	call, err := jsonrpc.DecodeCall(line)
	if err != nil {
		fmt.Fprintf(s.diag, "invalid %s\n", line)

		return false, nil
	}

	if call.IsNotification() {
		fmt.Fprintf(s.diag, "notification %s\n", call.Method)

		switch s.mode {
		case ModeStatic:
			return false, s.closeStdout()
		case ModeExitAfterInit:
			return true, nil
		}

		return false, nil
	}

	fmt.Fprintf(s.diag, "request %d %s\n", *call.ID, call.Method)

	switch s.mode {
	case ModeSilent:
		return false, nil
	case ModeStatic:
		return false, s.writeRaw(StaticReply)
	case ModeWrongID:
		return false, s.reply(s.dispatch(*call.ID+100, call))
	case ModeGarbage:
		if call.Method != "initialize" {
			return false, s.writeRaw("this is not json")
		}
	}

	if err := s.reply(s.dispatch(*call.ID, call)); err != nil {
		return false, err
	}

	if s.mode == ModeCloseAfterInit && call.Method == "initialize" {
		return false, s.closeStdout()
	}

	return false, nil
}

func (s *server) dispatch(id int64, call *jsonrpc.Call) *jsonrpc.Response {
	if call.Method == "tools/call" {
		return callTool(id, call.Params)
	}

	answered := *call
	answered.ID = &id

	return registry.Handle(context.Background(), &answered)
}

var registry = newRegistry()

func newRegistry() *toolmcp.Registry {
	r := toolmcp.NewRegistry(ServerName, "1.0.0")

	r.AddTool(toolmcp.NewTool("echo", "Echoes its arguments back", &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"message": {Type: "string"},
		},
		Required: []string{"message"},
	}), echoTool)

	r.AddTool(toolmcp.NewTool("fail", "Always returns a protocol error", &jsonschema.Schema{Type: "object"}), failTool)

	return r
}

func echoTool(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := toolmcp.ParseArguments(req)
	if err != nil {
		return nil, err
	}

	message, _ := args["message"].(string)

	result := toolmcp.TextResult(message)
	result.StructuredContent = args

	return result, nil
}

func failTool(context.Context, *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return nil, errors.New("tool failed")
}

// callTool runs a registered tool. The echo tool's arguments are also
// lifted to the top level of the result.
func callTool(id int64, raw json.RawMessage) *jsonrpc.Response {
	var params mcp.CallToolParamsRaw
	if err := json.Unmarshal(raw, &params); err != nil {
		return jsonrpc.NewErrorResponse(id, jsonrpc.CodeInvalidParams, err.Error())
	}

	result, err := registry.CallTool(context.Background(), params.Name, params.Arguments)

	switch {
	case errors.Is(err, toolmcp.ErrToolNotFound):
		return jsonrpc.NewErrorResponse(id, jsonrpc.CodeInvalidParams, err.Error())
	case err != nil:
		return jsonrpc.NewErrorResponse(id, toolmcp.CodeToolFailed, err.Error())
	}

	data, err := json.Marshal(result)
	if err != nil {
		return jsonrpc.NewErrorResponse(id, jsonrpc.CodeInternalError, err.Error())
	}

	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return jsonrpc.NewErrorResponse(id, jsonrpc.CodeInternalError, err.Error())
	}

	if structured, ok := result.StructuredContent.(map[string]any); ok {
		maps.Copy(payload, structured)
	}

	return mustResult(id, payload)
}

func mustResult(id int64, result any) *jsonrpc.Response {
	resp, err := jsonrpc.NewResultResponse(id, result)
	if err != nil {
		return jsonrpc.NewErrorResponse(id, jsonrpc.CodeInternalError, err.Error())
	}

	return resp
}

func (s *server) reply(resp *jsonrpc.Response) error {
	data, err := jsonrpc.Encode(resp)
	if err != nil {
		return err
	}

	return s.writeRaw(string(data))
}

func (s *server) writeRaw(line string) error {
	if s.stdoutClosed {
		return nil
	}

	_, err := io.WriteString(s.out, line+"\n")

	return err
}

func (s *server) closeStdout() error {
	if s.stdoutClosed {
		return nil
	}

	s.stdoutClosed = true

	return s.out.Close()
}
