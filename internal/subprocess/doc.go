// Package subprocess provides the process-pipe transport for stdio servers.
//
// This package implements the Transport interface by spawning a server as a
// child process and exchanging newline-delimited lines over its stdin and
// stdout. Stderr is drained in the background and kept for diagnostics.
package subprocess
