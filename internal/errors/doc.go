// Package errors defines error types for the MCP client.
//
// This package provides structured error types for each failure surface of
// a stdio session: spawning the server process, the pipe closing underneath
// a read or write, and malformed data at the protocol boundary. All error
// types support unwrapping and can be checked using errors.Is, errors.As,
// and errors.AsType.
package errors
