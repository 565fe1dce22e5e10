package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"github.com/wagiedev/mcp-client-go/internal/errors"
)

// Config holds configuration for command discovery.
type Config struct {
	// Command is the executable name or path of the server.
	Command string

	// Dir is the working directory the server will run in. Relative
	// command paths are resolved against it.
	Dir string

	// Logger is an optional logger for discovery operations.
	// If nil, a no-op logger is used.
	Logger *slog.Logger
}

// Discoverer locates a server executable.
type Discoverer interface {
	// Discover returns the path to execute, or a SpawnError.
	Discover(ctx context.Context) (string, error)
}

// discoverer implements the Discoverer interface.
type discoverer struct {
	cfg *Config
	log *slog.Logger
}

// Compile-time verification that discoverer implements Discoverer.
var _ Discoverer = (*discoverer)(nil)

// NewDiscoverer creates a new command discoverer with the given configuration.
func NewDiscoverer(cfg *Config) Discoverer {
	if cfg == nil {
		cfg = &Config{}
	}

	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &discoverer{
		cfg: cfg,
		log: log,
	}
}

// Discover locates the server executable.
func (d *discoverer) Discover(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	command := d.cfg.Command
	if command == "" {
		return "", &errors.SpawnError{Err: fmt.Errorf("empty command")}
	}

	// Explicit paths are used as given and never searched.
	if strings.ContainsRune(command, os.PathSeparator) || strings.ContainsRune(command, '/') {
		path := command
		if !filepath.IsAbs(path) && d.cfg.Dir != "" {
			path = filepath.Join(d.cfg.Dir, path)
		}

		d.log.Debug("Using explicit command path", "path", path)

		info, err := os.Stat(path)
		if err != nil {
			return "", &errors.SpawnError{Command: command, SearchedPaths: []string{path}, Err: err}
		}

		if info.IsDir() {
			return "", &errors.SpawnError{
				Command:       command,
				SearchedPaths: []string{path},
				Err:           fmt.Errorf("%s is a directory", path),
			}
		}

		return command, nil
	}

	d.log.Debug("Searching for command in PATH", "command", command)

	path, err := exec.LookPath(command)
	if err != nil {
		d.log.Debug("Command not found in PATH", "command", command, "error", err)

		return "", &errors.SpawnError{Command: command, SearchedPaths: []string{"$PATH"}, Err: err}
	}

	d.log.Debug("Found command in PATH", "path", path)

	return path, nil
}

// BuildEnvironment returns the environment for the server process: the
// current environment followed by extra, sorted by key so later entries
// override earlier ones deterministically.
func BuildEnvironment(extra map[string]string) []string {
	env := os.Environ()

	keys := make([]string, 0, len(extra))
	for key := range extra {
		keys = append(keys, key)
	}

	slices.Sort(keys)

	for _, key := range keys {
		env = append(env, key+"="+extra[key])
	}

	return env
}
