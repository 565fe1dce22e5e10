package subprocess

import (
	"bufio"
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wagiedev/mcp-client-go/internal/cli"
	"github.com/wagiedev/mcp-client-go/internal/config"
	"github.com/wagiedev/mcp-client-go/internal/errors"
)

const (
	// maxStderrBufferSize is the maximum size for the stderr buffer.
	// Stderr reading continues until the pipe closes (callback receives all lines),
	// but the buffer stops growing after this limit to prevent unbounded memory usage.
	maxStderrBufferSize = 1024 * 1024 // 1MB

	// writeAbandonTimeout bounds how long a cancelled write waits for its
	// goroutine after stdin has been closed.
	writeAbandonTimeout = time.Second
)

// ProcessTransport implements Transport by spawning a server subprocess.
type ProcessTransport struct {
	log            *slog.Logger
	command        string
	args           []string
	env            map[string]string
	cwd            string
	maxLineSize    int
	stderrCallback func(string)

	cmd     *exec.Cmd
	stdin   io.WriteCloser
	stdout  io.ReadCloser
	stderr  io.ReadCloser
	scanner *bufio.Scanner

	// drain tracks the stderr reader so the reaper can call Wait after it.
	drain errgroup.Group

	stderrMu  sync.Mutex
	stderrBuf strings.Builder

	writeMu sync.Mutex // Serializes stdin writes

	stateMu     sync.Mutex // Protects the fields below
	started     bool
	closed      bool // Whether Close() has been called
	stdinClosed bool // Whether stdin was closed (e.g., due to context cancellation)
}

// Compile-time verification that ProcessTransport implements the Transport interface.
var _ config.Transport = (*ProcessTransport)(nil)

// NewProcessTransport creates a transport that will run command with args.
//
// Only the launch-related fields of options are used: Env, Cwd, Stderr and
// MaxLineSize. Nothing is spawned until Start.
func NewProcessTransport(
	log *slog.Logger,
	command string,
	args []string,
	options *config.Options,
) *ProcessTransport {
	options = options.WithDefaults()

	return &ProcessTransport{
		log:            log.With("component", "process_transport"),
		command:        command,
		args:           slices.Clone(args),
		env:            options.Env,
		cwd:            options.Cwd,
		maxLineSize:    options.MaxLineSize,
		stderrCallback: options.Stderr,
	}
}

// Start spawns the server process.
//
// The command is resolved first: explicit paths are checked on disk and
// bare names are searched in PATH. Stdin, stdout and stderr are connected
// to pipes owned by the transport.
//
// Returns SpawnError if the executable cannot be located or launched.
func (t *ProcessTransport) Start(ctx context.Context) error {
	t.log.Info("Starting server subprocess", "command", t.command)

	path, err := cli.NewDiscoverer(&cli.Config{
		Command: t.command,
		Dir:     t.cwd,
		Logger:  t.log,
	}).Discover(ctx)
	if err != nil {
		return err
	}

	// The child must outlive ctx, which may only bound the handshake.
	//nolint:gosec // G204: launching a caller-chosen server is the purpose of this transport
	cmd := exec.Command(path, t.args...)
	cmd.Dir = t.cwd
	cmd.Env = cli.BuildEnvironment(t.env)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return &errors.SpawnError{Command: t.command, Err: fmt.Errorf("stdin pipe: %w", err)}
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return &errors.SpawnError{Command: t.command, Err: fmt.Errorf("stdout pipe: %w", err)}
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return &errors.SpawnError{Command: t.command, Err: fmt.Errorf("stderr pipe: %w", err)}
	}

	if err := cmd.Start(); err != nil {
		t.log.Error("Failed to start server process", "error", err)

		return &errors.SpawnError{Command: t.command, Err: fmt.Errorf("start process: %w", err)}
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, min(64*1024, t.maxLineSize)), t.maxLineSize)

	t.stateMu.Lock()
	t.cmd = cmd
	t.stdin = stdin
	t.stdout = stdout
	t.stderr = stderr
	t.scanner = scanner
	t.started = true
	t.stateMu.Unlock()

	t.drain.Go(t.drainStderr)

	t.log.Info("Server subprocess started", "pid", cmd.Process.Pid)

	return nil
}

// drainStderr buffers stderr lines and forwards them to the callback.
// It relies on process exit or Close to end the scan.
func (t *ProcessTransport) drainStderr() error {
	scanner := bufio.NewScanner(t.stderr)
	for scanner.Scan() {
		line := scanner.Text()

		t.stderrMu.Lock()

		if t.stderrBuf.Len() < maxStderrBufferSize {
			if t.stderrBuf.Len() > 0 {
				t.stderrBuf.WriteString("\n")
			}

			t.stderrBuf.WriteString(line)
		}

		t.stderrMu.Unlock()

		if t.stderrCallback != nil {
			t.stderrCallback(line)
		}
	}

	// Don't fail - the process may simply have exited.
	if err := scanner.Err(); err != nil {
		t.log.Debug("Stderr scanner error", "error", err)
	}

	return nil
}

// Stderr returns the stderr output captured so far.
func (t *ProcessTransport) Stderr() string {
	t.stderrMu.Lock()
	defer t.stderrMu.Unlock()

	return t.stderrBuf.String()
}

// WriteLine writes one line to the server's stdin.
//
// The newline is appended here; a line that already contains one is
// rejected because it would split into two messages on the wire. Stdin is
// an unbuffered pipe, so the line is delivered as soon as Write returns.
//
// If ctx is cancelled during a blocked write, stdin is closed to unblock it
// and later calls fail with TransportClosedError.
func (t *ProcessTransport) WriteLine(ctx context.Context, line []byte) error {
	if bytes.IndexByte(line, '\n') >= 0 {
		return fmt.Errorf("write line: message contains an embedded newline")
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	t.stateMu.Lock()
	started, closed, stdin := t.started, t.closed || t.stdinClosed, t.stdin
	t.stateMu.Unlock()

	if !started {
		return errors.ErrTransportNotConnected
	}

	if closed {
		return &errors.TransportClosedError{Op: "write", Err: errors.ErrTransportClosed}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	data := make([]byte, len(line)+1)
	copy(data, line)
	data[len(line)] = '\n'

	t.log.Debug("Writing line to server", "data_len", len(data))

	done := make(chan error, 1)

	go func() {
		_, err := stdin.Write(data)
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			t.log.Debug("Failed to write line to server", "error", err)

			return &errors.TransportClosedError{Op: "write", Err: err}
		}

		return nil

	case <-ctx.Done():
		t.log.Debug("Context cancelled during write, closing stdin")

		t.stateMu.Lock()
		t.stdinClosed = true
		t.stateMu.Unlock()

		_ = stdin.Close()

		select {
		case <-done:
		case <-time.After(writeAbandonTimeout):
			t.log.Warn("Write goroutine did not exit after stdin close, potential leak")
		}

		return ctx.Err()
	}
}

// ReadLine blocks until the next non-blank line arrives on the server's stdout.
//
// Returns ErrEndOfStream when stdout is closed or the process exits. If ctx
// is cancelled first, the transport is closed, because the pending reply can
// no longer be paired with its request, and ctx.Err() is returned.
func (t *ProcessTransport) ReadLine(ctx context.Context) ([]byte, error) {
	t.stateMu.Lock()
	started, closed, scanner := t.started, t.closed, t.scanner
	t.stateMu.Unlock()

	if !started {
		return nil, errors.ErrTransportNotConnected
	}

	if closed {
		return nil, errors.ErrEndOfStream
	}

	if ctx.Done() == nil {
		return t.scanLine(scanner)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type result struct {
		line []byte
		err  error
	}

	done := make(chan result, 1)

	go func() {
		line, err := t.scanLine(scanner)
		done <- result{line: line, err: err}
	}()

	select {
	case r := <-done:
		return r.line, r.err

	case <-ctx.Done():
		t.log.Debug("Context cancelled during read, closing transport", "error", ctx.Err())

		_ = t.Close()

		return nil, ctx.Err()
	}
}

func (t *ProcessTransport) scanLine(scanner *bufio.Scanner) ([]byte, error) {
	for scanner.Scan() {
		raw := scanner.Bytes()
		if len(bytes.TrimSpace(raw)) == 0 {
			continue
		}

		line := make([]byte, len(raw))
		copy(line, raw)

		t.log.Debug("Read line from server", "data_len", len(line))

		return line, nil
	}

	err := scanner.Err()

	switch {
	case err == nil, stderrors.Is(err, fs.ErrClosed), stderrors.Is(err, io.ErrClosedPipe):
		t.log.Debug("Server stdout reached end of stream")

		return nil, errors.ErrEndOfStream
	case stderrors.Is(err, bufio.ErrTooLong):
		return nil, fmt.Errorf("read line: line exceeds %d bytes: %w", t.maxLineSize, err)
	default:
		return nil, fmt.Errorf("read line: %w", err)
	}
}

// Close terminates the server process.
//
// Stdin and stdout are closed and the process is killed. The process is
// reaped in the background; Close does not wait for it to exit. It's safe
// to call Close multiple times, before Start, or after the process exited.
// Close always returns nil.
func (t *ProcessTransport) Close() error {
	t.stateMu.Lock()

	if t.closed {
		t.stateMu.Unlock()

		return nil
	}

	t.closed = true
	t.stdinClosed = true
	cmd, stdin, stdout := t.cmd, t.stdin, t.stdout

	t.stateMu.Unlock()

	if stdin != nil {
		_ = stdin.Close()
	}

	if stdout != nil {
		_ = stdout.Close()
	}

	if cmd == nil || cmd.Process == nil {
		return nil
	}

	t.log.Debug("Killing server process", "pid", cmd.Process.Pid)

	if err := cmd.Process.Kill(); err != nil && !stderrors.Is(err, os.ErrProcessDone) {
		t.log.Debug("Failed to kill server process", "pid", cmd.Process.Pid, "error", err)
	}

	go t.reap(cmd)

	return nil
}

// reap waits for the stderr reader and then the process itself.
func (t *ProcessTransport) reap(cmd *exec.Cmd) {
	_ = t.drain.Wait()

	if err := cmd.Wait(); err != nil {
		exitCode := -1
		if exitErr, ok := stderrors.AsType[*exec.ExitError](err); ok {
			exitCode = exitErr.ExitCode()
		}

		t.log.Debug("Server process exited", "exit_code", exitCode, "error", err)

		return
	}

	t.log.Debug("Server process exited cleanly")
}
